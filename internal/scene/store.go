package scene

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tailwiinder/easymanim/internal/schema"
)

// Store is the single mutable container of scene state. Every mutation
// validates against the property schema and either applies fully or
// leaves the model untouched. One Store exists per session; all
// operations serialize on its mutex.
type Store struct {
	mu      sync.Mutex
	version uint64
	objects []*Object
}

// NewStore returns an empty scene.
func NewStore() *Store {
	return &Store{}
}

// newID derives a process-unique object id, e.g. "circle_9f2c41ab".
func newID(t schema.ObjectType) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToLower(string(t)) + "_" + raw[:8]
}

// CreateObject appends a new object of the given type with every property
// at its schema default and no entry animation, returning its id.
func (s *Store) CreateObject(t schema.ObjectType) (string, error) {
	props, err := schema.Defaults(t)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obj := &Object{
		ID:         newID(t),
		Type:       t,
		Properties: props,
		Animation:  schema.AnimationNone,
	}
	s.objects = append(s.objects, obj)
	s.version++
	return obj.ID, nil
}

// UpdateProperty validates value against the object's schema and applies
// it. The reserved "animation" key is not a property; it only changes
// through SetAnimation so the type-compatibility check cannot be
// bypassed.
func (s *Store) UpdateProperty(id, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.find(id)
	if err != nil {
		return err
	}

	if name == "animation" {
		return &InvalidPropertyValueError{ID: id, Name: name, Value: value,
			Reason: "animation changes through SetAnimation"}
	}

	spec, err := schema.Lookup(obj.Type, name)
	if err != nil {
		return &InvalidPropertyValueError{ID: id, Name: name, Value: value, Reason: err.Error()}
	}
	normalized, err := spec.Validate(value)
	if err != nil {
		return &InvalidPropertyValueError{ID: id, Name: name, Value: value, Reason: err.Error()}
	}

	obj.Properties[name] = normalized
	s.version++
	return nil
}

// SetAnimation assigns the entry animation, rejecting pairings the
// animation does not support.
func (s *Store) SetAnimation(id string, anim schema.Animation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.find(id)
	if err != nil {
		return err
	}
	if _, err := schema.ParseAnimation(string(anim)); err != nil {
		return &IncompatibleAnimationError{ID: id, Type: obj.Type, Animation: anim}
	}
	if !anim.CompatibleWith(obj.Type) {
		return &IncompatibleAnimationError{ID: id, Type: obj.Type, Animation: anim}
	}

	obj.Animation = anim
	s.version++
	return nil
}

// RemoveObject deletes the object and closes the z-order gap.
func (s *Store) RemoveObject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, obj := range s.objects {
		if obj.ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			s.version++
			return nil
		}
	}
	return &ObjectNotFoundError{ID: id}
}

// Reorder moves the object to newIndex in the z-order, preserving the
// relative order of the others.
func (s *Store) Reorder(id string, newIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newIndex < 0 || newIndex >= len(s.objects) {
		return &InvalidPropertyValueError{ID: id, Name: "order", Value: newIndex,
			Reason: "index out of range"}
	}

	cur := -1
	for i, obj := range s.objects {
		if obj.ID == id {
			cur = i
			break
		}
	}
	if cur == -1 {
		return &ObjectNotFoundError{ID: id}
	}
	if cur == newIndex {
		return nil
	}

	obj := s.objects[cur]
	s.objects = append(s.objects[:cur], s.objects[cur+1:]...)
	s.objects = append(s.objects[:newIndex], append([]*Object{obj}, s.objects[newIndex:]...)...)
	s.version++
	return nil
}

// Object returns a copy of one object.
func (s *Store) Object(id string) (Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.find(id)
	if err != nil {
		return Object{}, err
	}
	return obj.clone(), nil
}

// Snapshot returns a fully independent copy of the model at the current
// version.
func (s *Store) Snapshot() Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Model{Version: s.version, Objects: make([]Object, len(s.objects))}
	for i, obj := range s.objects {
		m.Objects[i] = obj.clone()
	}
	return m
}

// Version returns the current model version. It bumps on every
// successful mutation.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Len returns the number of objects in the scene.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// find must be called with the mutex held.
func (s *Store) find(id string) (*Object, error) {
	for _, obj := range s.objects {
		if obj.ID == id {
			return obj, nil
		}
	}
	return nil, &ObjectNotFoundError{ID: id}
}
