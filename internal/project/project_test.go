package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailwiinder/easymanim/internal/scene"
	"github.com/tailwiinder/easymanim/internal/schema"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st := scene.NewStore()
	circle, err := st.CreateObject(schema.TypeCircle)
	require.NoError(t, err)
	require.NoError(t, st.UpdateProperty(circle, "fill_color", "#FF0000"))
	require.NoError(t, st.UpdateProperty(circle, "radius", 1.5))
	require.NoError(t, st.SetAnimation(circle, schema.AnimationFadeIn))

	text, err := st.CreateObject(schema.TypeText)
	require.NoError(t, err)
	require.NoError(t, st.UpdateProperty(text, "text_content", "Hello"))
	require.NoError(t, st.SetAnimation(text, schema.AnimationWrite))

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, Save(path, st.Snapshot()))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Objects, 2)

	restored := scene.NewStore()
	require.NoError(t, doc.Apply(restored))

	orig := st.Snapshot()
	got := restored.Snapshot()
	require.Len(t, got.Objects, len(orig.Objects))
	for i := range orig.Objects {
		// IDs are reassigned on load; everything else round-trips.
		assert.Equal(t, orig.Objects[i].Type, got.Objects[i].Type)
		assert.Equal(t, orig.Objects[i].Animation, got.Objects[i].Animation)
		assert.Equal(t, orig.Objects[i].Properties, got.Objects[i].Properties)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 9\nobjects: []\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "version")
}

func TestApplyRejectsUnknownType(t *testing.T) {
	doc := Document{Version: 1, Objects: []ObjectDoc{{Type: "Hexagon"}}}
	var ute *schema.UnknownTypeError
	require.ErrorAs(t, doc.Apply(scene.NewStore()), &ute)
}

func TestApplyRejectsInvalidPropertyValue(t *testing.T) {
	doc := Document{Version: 1, Objects: []ObjectDoc{{
		Type:       "Circle",
		Properties: map[string]any{"radius": -2.0},
	}}}
	var ipe *scene.InvalidPropertyValueError
	require.ErrorAs(t, doc.Apply(scene.NewStore()), &ipe)
}

func TestApplyRejectsUndeclaredProperty(t *testing.T) {
	doc := Document{Version: 1, Objects: []ObjectDoc{{
		Type:       "Text",
		Properties: map[string]any{"stroke_width": 3.0},
	}}}
	assert.Error(t, doc.Apply(scene.NewStore()))
}

func TestApplyRejectsIncompatibleAnimation(t *testing.T) {
	doc := Document{Version: 1, Objects: []ObjectDoc{{
		Type:      "Square",
		Animation: "Write",
	}}}
	var iae *scene.IncompatibleAnimationError
	require.ErrorAs(t, doc.Apply(scene.NewStore()), &iae)
}

func TestApplyFillsDefaultsForOmittedProperties(t *testing.T) {
	doc := Document{Version: 1, Objects: []ObjectDoc{{
		Type:       "Circle",
		Properties: map[string]any{"radius": 4.0},
	}}}

	st := scene.NewStore()
	require.NoError(t, doc.Apply(st))

	snap := st.Snapshot()
	require.Len(t, snap.Objects, 1)
	assert.Equal(t, 4.0, snap.Objects[0].Properties["radius"])
	assert.Equal(t, "#58C4DD", snap.Objects[0].Properties["fill_color"])
	assert.Equal(t, schema.AnimationNone, snap.Objects[0].Animation)
}
