// Package project reads and writes scene documents as YAML. Loading
// replays a document through the store's validated operations, so a
// hand-edited file can never produce an invalid in-memory model.
package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tailwiinder/easymanim/internal/scene"
	"github.com/tailwiinder/easymanim/internal/schema"
)

// Document is the on-disk form of a scene.
type Document struct {
	Version int         `yaml:"version"`
	Objects []ObjectDoc `yaml:"objects"`
}

// ObjectDoc is one object entry; object ids are not persisted, they are
// reassigned on load.
type ObjectDoc struct {
	Type       string         `yaml:"type"`
	Animation  string         `yaml:"animation"`
	Properties map[string]any `yaml:"properties"`
}

// FromModel converts a snapshot into a document.
func FromModel(m scene.Model) Document {
	doc := Document{Version: 1, Objects: make([]ObjectDoc, 0, len(m.Objects))}
	for _, obj := range m.Objects {
		props := make(map[string]any, len(obj.Properties))
		for k, v := range obj.Properties {
			props[k] = v
		}
		doc.Objects = append(doc.Objects, ObjectDoc{
			Type:       string(obj.Type),
			Animation:  string(obj.Animation),
			Properties: props,
		})
	}
	return doc
}

// Save writes the snapshot to path as YAML.
func Save(path string, m scene.Model) error {
	data, err := yaml.Marshal(FromModel(m))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a document from path.
func Load(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Document{}, err
	}
	if doc.Version != 1 {
		return Document{}, fmt.Errorf("unsupported scene document version: %d", doc.Version)
	}
	return doc, nil
}

// Apply replays the document onto the store through its validated
// operations, in document order. The first invalid entry aborts the
// replay with the store holding everything applied before it.
func (d Document) Apply(st *scene.Store) error {
	for i, od := range d.Objects {
		t, err := schema.ParseObjectType(od.Type)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}

		id, err := st.CreateObject(t)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}

		// Apply in schema order so error reporting is stable, then reject
		// keys the schema does not declare.
		specs, err := schema.For(t)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		seen := 0
		for _, spec := range specs {
			v, ok := od.Properties[spec.Name]
			if !ok {
				continue
			}
			seen++
			if err := st.UpdateProperty(id, spec.Name, v); err != nil {
				return fmt.Errorf("object %d: %w", i, err)
			}
		}
		if seen != len(od.Properties) {
			for name := range od.Properties {
				if _, err := schema.Lookup(t, name); err != nil {
					return fmt.Errorf("object %d: %w", i, err)
				}
			}
		}

		if od.Animation != "" {
			anim, err := schema.ParseAnimation(od.Animation)
			if err != nil {
				return fmt.Errorf("object %d: %w", i, err)
			}
			if err := st.SetAnimation(id, anim); err != nil {
				return fmt.Errorf("object %d: %w", i, err)
			}
		}
	}
	return nil
}
