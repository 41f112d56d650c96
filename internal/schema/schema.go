// Package schema declares the editable property sets for every scene
// object type: which properties exist, their value domains, and their
// defaults. It is the single source of truth every other component
// consults when validating or default-filling property values.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ObjectType identifies a kind of scene object.
type ObjectType string

const (
	TypeCircle ObjectType = "Circle"
	TypeSquare ObjectType = "Square"
	TypeText   ObjectType = "Text"
)

// ParseObjectType maps a string onto a known ObjectType.
func ParseObjectType(s string) (ObjectType, error) {
	switch ObjectType(s) {
	case TypeCircle, TypeSquare, TypeText:
		return ObjectType(s), nil
	}
	return "", &UnknownTypeError{Type: s}
}

// UnknownTypeError reports a lookup for an unregistered object type.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown object type: %q", e.Type)
}

// Kind describes the value domain of a property.
type Kind int

const (
	// KindNumber accepts any finite number.
	KindNumber Kind = iota
	// KindBoundedNumber accepts a number within [Min, Max]. When
	// MinExclusive is set the lower bound itself is rejected.
	KindBoundedNumber
	// KindColorHex accepts a #RRGGBB color string, normalized to upper case.
	KindColorHex
	// KindText accepts any non-empty string.
	KindText
)

// PropertySpec declares one editable attribute of an object type.
type PropertySpec struct {
	Name         string
	Kind         Kind
	Min, Max     float64
	MinExclusive bool
	Default      any
}

var colorHexRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks v against the spec's domain and returns the normalized
// value to store. Numbers normalize to float64, colors to upper case.
func (s PropertySpec) Validate(v any) (any, error) {
	switch s.Kind {
	case KindNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%s: expected a number, got %T", s.Name, v)
		}
		return f, nil

	case KindBoundedNumber:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%s: expected a number, got %T", s.Name, v)
		}
		if f > s.Max {
			return nil, fmt.Errorf("%s: %v exceeds maximum %v", s.Name, f, s.Max)
		}
		if f < s.Min || (s.MinExclusive && f == s.Min) {
			op := ">="
			if s.MinExclusive {
				op = ">"
			}
			return nil, fmt.Errorf("%s: %v must be %s %v", s.Name, f, op, s.Min)
		}
		return f, nil

	case KindColorHex:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected a #RRGGBB string, got %T", s.Name, v)
		}
		if !colorHexRe.MatchString(str) {
			return nil, fmt.Errorf("%s: %q is not a #RRGGBB color", s.Name, str)
		}
		return strings.ToUpper(str), nil

	case KindText:
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected a string, got %T", s.Name, v)
		}
		if str == "" {
			return nil, fmt.Errorf("%s: must not be empty", s.Name)
		}
		return str, nil
	}
	return nil, fmt.Errorf("%s: unhandled property kind %d", s.Name, s.Kind)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func number(name string, def float64) PropertySpec {
	return PropertySpec{Name: name, Kind: KindNumber, Default: def}
}

func bounded(name string, min, max, def float64, minExclusive bool) PropertySpec {
	return PropertySpec{Name: name, Kind: KindBoundedNumber, Min: min, Max: max, MinExclusive: minExclusive, Default: def}
}

func color(name, def string) PropertySpec {
	return PropertySpec{Name: name, Kind: KindColorHex, Default: def}
}

func text(name, def string) PropertySpec {
	return PropertySpec{Name: name, Kind: KindText, Default: def}
}

// Property sets per object type. Slice order is the order properties are
// presented and the order the compiler applies them; it never changes at
// runtime. Defaults follow Manim's own (blue fill for shapes, white text).
var (
	circleSpecs = []PropertySpec{
		number("pos_x", 0),
		number("pos_y", 0),
		number("pos_z", 0),
		bounded("radius", 0, 100, 1, true),
		color("fill_color", "#58C4DD"),
		bounded("opacity", 0, 1, 1, false),
		color("stroke_color", "#FFFFFF"),
		bounded("stroke_width", 0, 50, 2, false),
		bounded("stroke_opacity", 0, 1, 1, false),
	}

	squareSpecs = []PropertySpec{
		number("pos_x", 0),
		number("pos_y", 0),
		number("pos_z", 0),
		bounded("side_length", 0, 100, 2, true),
		color("fill_color", "#58C4DD"),
		bounded("opacity", 0, 1, 1, false),
		color("stroke_color", "#FFFFFF"),
		bounded("stroke_width", 0, 50, 2, false),
		bounded("stroke_opacity", 0, 1, 1, false),
	}

	// Text has no stroke_width: Manim font outlines do not take one the
	// way shape strokes do.
	textSpecs = []PropertySpec{
		number("pos_x", 0),
		number("pos_y", 0),
		number("pos_z", 0),
		text("text_content", "Text"),
		bounded("font_size", 0, 500, 48, true),
		color("fill_color", "#FFFFFF"),
		bounded("opacity", 0, 1, 1, false),
		color("stroke_color", "#000000"),
		bounded("stroke_opacity", 0, 1, 1, false),
	}
)

// For returns the ordered property specs for the given object type.
func For(t ObjectType) ([]PropertySpec, error) {
	switch t {
	case TypeCircle:
		return circleSpecs, nil
	case TypeSquare:
		return squareSpecs, nil
	case TypeText:
		return textSpecs, nil
	}
	return nil, &UnknownTypeError{Type: string(t)}
}

// Lookup returns the spec for one property of a type.
func Lookup(t ObjectType, name string) (PropertySpec, error) {
	specs, err := For(t)
	if err != nil {
		return PropertySpec{}, err
	}
	for _, s := range specs {
		if s.Name == name {
			return s, nil
		}
	}
	return PropertySpec{}, fmt.Errorf("type %s has no property %q", t, name)
}

// Defaults returns a fresh property map with every spec-declared property
// set to its default.
func Defaults(t ObjectType) (map[string]any, error) {
	specs, err := For(t)
	if err != nil {
		return nil, err
	}
	props := make(map[string]any, len(specs))
	for _, s := range specs {
		props[s.Name] = s.Default
	}
	return props, nil
}
