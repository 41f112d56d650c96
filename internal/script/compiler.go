// Package script compiles scene snapshots into Manim Community Python
// scripts. Compilation is pure and deterministic: the same snapshot
// always produces byte-identical text.
package script

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/tailwiinder/easymanim/internal/scene"
	"github.com/tailwiinder/easymanim/internal/schema"
)

// Mode selects what the generated scene does when executed.
type Mode int

const (
	// ModePreview produces a static scene: every object is added without
	// motion so a single frame shows the full composition.
	ModePreview Mode = iota
	// ModeVideo produces the animated scene with entry animations.
	ModeVideo
)

// SceneName returns the Python class name generated for the mode.
func (m Mode) SceneName() string {
	if m == ModePreview {
		return "PreviewScene"
	}
	return "EasyManimScene"
}

// Script is a compiled, executable Manim program.
type Script struct {
	Text      string
	SceneName string
	// Hash is the hex sha256 of Text; artifacts carry it as provenance.
	Hash string
}

// Compile translates a snapshot into script text. Statement order is
// fixed: one construction-plus-placement statement per object in z-order,
// then one animation-or-show statement per object in z-order. Placement
// is always an explicit move_to chained after the constructor keywords,
// so equal snapshots render identically.
func Compile(m scene.Model, mode Mode) (Script, error) {
	var constructions, shows []string

	for i := range m.Objects {
		obj := &m.Objects[i]

		ctor, err := constructorFor(obj)
		if err != nil {
			return Script{}, err
		}
		constructions = append(constructions, fmt.Sprintf("%s = %s%s", obj.ID, ctor, placementFor(obj)))

		stmt, err := showStatementFor(obj, mode)
		if err != nil {
			return Script{}, err
		}
		shows = append(shows, stmt)
	}

	var b strings.Builder
	b.WriteString("# Generated by EasyManim\n")
	b.WriteString("from manim import *\n")
	b.WriteString("import numpy as np\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "class %s(Scene):\n", mode.SceneName())
	b.WriteString("    def construct(self):\n")

	if len(constructions) == 0 {
		b.WriteString("        pass\n")
	} else {
		for _, line := range constructions {
			b.WriteString("        " + line + "\n")
		}
		for _, line := range shows {
			b.WriteString("        " + line + "\n")
		}
	}

	text := b.String()
	sum := sha256.Sum256([]byte(text))
	return Script{Text: text, SceneName: mode.SceneName(), Hash: hex.EncodeToString(sum[:])}, nil
}

// constructorFor emits the typed constructor call with keyword arguments
// in the fixed per-type order.
func constructorFor(obj *scene.Object) (string, error) {
	p := obj.Properties
	switch obj.Type {
	case schema.TypeCircle:
		return fmt.Sprintf("Circle(radius=%s, fill_color=%s, fill_opacity=%s, stroke_color=%s, stroke_width=%s, stroke_opacity=%s)",
			num(p["radius"]), pyStr(p["fill_color"]), num(p["opacity"]),
			pyStr(p["stroke_color"]), num(p["stroke_width"]), num(p["stroke_opacity"])), nil

	case schema.TypeSquare:
		return fmt.Sprintf("Square(side_length=%s, fill_color=%s, fill_opacity=%s, stroke_color=%s, stroke_width=%s, stroke_opacity=%s)",
			num(p["side_length"]), pyStr(p["fill_color"]), num(p["opacity"]),
			pyStr(p["stroke_color"]), num(p["stroke_width"]), num(p["stroke_opacity"])), nil

	case schema.TypeText:
		// Manim's Text takes the primary color as 'color', not 'fill_color'.
		return fmt.Sprintf("Text(%s, font_size=%s, color=%s, fill_opacity=%s, stroke_color=%s, stroke_opacity=%s)",
			pyStr(p["text_content"]), num(p["font_size"]), pyStr(p["fill_color"]),
			num(p["opacity"]), pyStr(p["stroke_color"]), num(p["stroke_opacity"])), nil
	}
	return "", &UnsupportedPropertyCombinationError{ObjectID: obj.ID,
		Detail: fmt.Sprintf("no constructor for type %q", obj.Type)}
}

func placementFor(obj *scene.Object) string {
	p := obj.Properties
	return fmt.Sprintf(".move_to(np.array([%s, %s, %s]))", num(p["pos_x"]), num(p["pos_y"]), num(p["pos_z"]))
}

// showStatementFor emits self.play(...) for animated objects in video
// mode and self.add(...) otherwise. An animation/type pairing the store
// should have rejected is an internal-consistency fault.
func showStatementFor(obj *scene.Object, mode Mode) (string, error) {
	if !obj.Animation.CompatibleWith(obj.Type) {
		return "", &UnsupportedPropertyCombinationError{ObjectID: obj.ID,
			Detail: fmt.Sprintf("animation %s is not valid for type %s", obj.Animation, obj.Type)}
	}
	if mode != ModeVideo || obj.Animation == schema.AnimationNone {
		return fmt.Sprintf("self.add(%s)", obj.ID), nil
	}
	switch obj.Animation {
	case schema.AnimationFadeIn, schema.AnimationWrite, schema.AnimationGrowFromCenter:
		return fmt.Sprintf("self.play(%s(%s))", obj.Animation, obj.ID), nil
	}
	return "", &UnsupportedPropertyCombinationError{ObjectID: obj.ID,
		Detail: fmt.Sprintf("unknown animation %q", obj.Animation)}
}

// num renders a stored numeric value. 'g' formatting keeps output both
// minimal and stable, which the byte-identical guarantee depends on.
func num(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%v", v)
}

// pyStr renders a stored string as a single-quoted Python literal.
func pyStr(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}
