package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	res, err := Probe()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.LogicalCPUs, 1)
	assert.Greater(t, res.AvailableMemory, uint64(0))
}

func TestHeadroom(t *testing.T) {
	res := Resources{AvailableMemory: 1 << 30}
	assert.True(t, res.Headroom(1<<20))
	assert.False(t, res.Headroom(2<<30))
}

func TestFindRendererMissing(t *testing.T) {
	_, _, err := FindRenderer("definitely-not-a-real-renderer-binary")
	assert.Error(t, err)
}
