// Package scene holds the mutable in-memory model of the scene being
// edited and the store that guards every mutation behind schema
// validation. Renders never read the live model; they read value-copied
// snapshots.
package scene

import "github.com/tailwiinder/easymanim/internal/schema"

// Object is one visual entity in the scene. ID and Type are fixed at
// creation; Properties always hold a schema-valid value for every
// declared property of the type.
type Object struct {
	ID         string
	Type       schema.ObjectType
	Properties map[string]any
	Animation  schema.Animation
}

func (o *Object) clone() Object {
	props := make(map[string]any, len(o.Properties))
	for k, v := range o.Properties {
		props[k] = v
	}
	return Object{ID: o.ID, Type: o.Type, Properties: props, Animation: o.Animation}
}

// Model is a point-in-time copy of the scene: objects in z-order plus the
// store version the copy was taken at. It shares no memory with the live
// store, so it is safe to hand to a compiler or render while edits
// continue.
type Model struct {
	Version uint64
	Objects []Object
}
