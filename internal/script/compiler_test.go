package script

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailwiinder/easymanim/internal/scene"
	"github.com/tailwiinder/easymanim/internal/schema"
)

func buildScene(t *testing.T) (*scene.Store, []string) {
	t.Helper()
	st := scene.NewStore()

	circle, err := st.CreateObject(schema.TypeCircle)
	require.NoError(t, err)
	require.NoError(t, st.SetAnimation(circle, schema.AnimationFadeIn))

	square, err := st.CreateObject(schema.TypeSquare)
	require.NoError(t, err)

	text, err := st.CreateObject(schema.TypeText)
	require.NoError(t, err)
	require.NoError(t, st.UpdateProperty(text, "text_content", "it's done"))
	require.NoError(t, st.SetAnimation(text, schema.AnimationWrite))

	return st, []string{circle, square, text}
}

func TestCompileDeterministic(t *testing.T) {
	st, _ := buildScene(t)
	snap := st.Snapshot()

	for _, mode := range []Mode{ModePreview, ModeVideo} {
		a, err := Compile(snap, mode)
		require.NoError(t, err)
		b, err := Compile(snap, mode)
		require.NoError(t, err)
		assert.Equal(t, a.Text, b.Text, "same snapshot must compile to byte-identical text")
		assert.Equal(t, a.Hash, b.Hash)
	}
}

func TestCompilePreservesOrder(t *testing.T) {
	st, ids := buildScene(t)
	scr, err := Compile(st.Snapshot(), ModeVideo)
	require.NoError(t, err)

	// Constructions appear in z-order.
	var lastCtor int
	prev := -1
	for _, id := range ids {
		idx := strings.Index(scr.Text, id+" = ")
		require.GreaterOrEqual(t, idx, 0, "missing construction for %s", id)
		assert.Greater(t, idx, prev, "construction order broken at %s", id)
		prev = idx
		lastCtor = idx
	}

	// Every animation/show statement comes after every construction.
	for _, stmt := range []string{"self.play(", "self.add("} {
		idx := strings.Index(scr.Text, stmt)
		if idx >= 0 {
			assert.Greater(t, idx, lastCtor, "%s precedes a construction", stmt)
		}
	}
}

func TestCompileRedCircleScenario(t *testing.T) {
	st := scene.NewStore()
	id, err := st.CreateObject(schema.TypeCircle)
	require.NoError(t, err)
	require.NoError(t, st.UpdateProperty(id, "fill_color", "#FF0000"))
	require.NoError(t, st.SetAnimation(id, schema.AnimationFadeIn))

	scr, err := Compile(st.Snapshot(), ModeVideo)
	require.NoError(t, err)

	ctor := strings.Index(scr.Text, id+" = Circle(radius=1, fill_color='#FF0000'")
	placement := strings.Index(scr.Text, ".move_to(np.array([0, 0, 0]))")
	play := strings.Index(scr.Text, fmt.Sprintf("self.play(FadeIn(%s))", id))

	require.GreaterOrEqual(t, ctor, 0, "construction missing:\n%s", scr.Text)
	require.GreaterOrEqual(t, placement, 0, "placement at origin missing:\n%s", scr.Text)
	require.GreaterOrEqual(t, play, 0, "FadeIn statement missing:\n%s", scr.Text)
	assert.Less(t, ctor, placement)
	assert.Less(t, placement, play)
}

func TestCompilePreviewShowsWithoutMotion(t *testing.T) {
	st, ids := buildScene(t)
	scr, err := Compile(st.Snapshot(), ModePreview)
	require.NoError(t, err)

	assert.Equal(t, "PreviewScene", scr.SceneName)
	assert.NotContains(t, scr.Text, "self.play(", "preview must be static")
	for _, id := range ids {
		assert.Contains(t, scr.Text, fmt.Sprintf("self.add(%s)", id))
	}
}

func TestCompileVideoMixesPlayAndAdd(t *testing.T) {
	st, ids := buildScene(t)
	scr, err := Compile(st.Snapshot(), ModeVideo)
	require.NoError(t, err)

	assert.Equal(t, "EasyManimScene", scr.SceneName)
	assert.Contains(t, scr.Text, fmt.Sprintf("self.play(FadeIn(%s))", ids[0]))
	assert.Contains(t, scr.Text, fmt.Sprintf("self.add(%s)", ids[1]), "None animation emits a static show")
	assert.Contains(t, scr.Text, fmt.Sprintf("self.play(Write(%s))", ids[2]))
}

func TestCompileEmptyScene(t *testing.T) {
	scr, err := Compile(scene.NewStore().Snapshot(), ModePreview)
	require.NoError(t, err)
	assert.Contains(t, scr.Text, "        pass\n")
	assert.Contains(t, scr.Text, "from manim import *")
}

func TestCompileEscapesText(t *testing.T) {
	st := scene.NewStore()
	id, err := st.CreateObject(schema.TypeText)
	require.NoError(t, err)
	require.NoError(t, st.UpdateProperty(id, "text_content", `it's a \test`))

	scr, err := Compile(st.Snapshot(), ModePreview)
	require.NoError(t, err)
	assert.Contains(t, scr.Text, `Text('it\'s a \\test'`)
}

func TestCompileRejectsIncompatiblePairing(t *testing.T) {
	// Bypasses the store on purpose: the compiler must treat a pairing
	// validation should have caught as an internal-consistency fault.
	props, err := schema.Defaults(schema.TypeCircle)
	require.NoError(t, err)
	snap := scene.Model{Objects: []scene.Object{{
		ID:         "circle_baadf00d",
		Type:       schema.TypeCircle,
		Properties: props,
		Animation:  schema.AnimationWrite,
	}}}

	_, err = Compile(snap, ModeVideo)
	var upc *UnsupportedPropertyCombinationError
	require.ErrorAs(t, err, &upc)
	assert.Equal(t, "circle_baadf00d", upc.ObjectID)
}

func TestNumFormatting(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1.0, "1"},
		{2.5, "2.5"},
		{0.0, "0"},
		{48.0, "48"},
		{-3.25, "-3.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, num(tt.in))
	}
}
