package motaug

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelStats(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeImage(t, a, 20, 10, color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	writeImage(t, b, 10, 10, color.NRGBA{R: 255, G: 255, B: 51, A: 255})

	mean, std, err := ChannelStats([]string{a, b}, testLogger())
	require.NoError(t, err)
	require.Len(t, mean, 3)
	require.Len(t, std, 3)

	assert.InDelta(t, 1, mean[0], 1e-6)
	assert.InDelta(t, 0, std[0], 1e-6)
	// A third of the samples come from b.
	assert.InDelta(t, 1.0/3, mean[1], 1e-6)
	assert.InDelta(t, 0.2, mean[2], 1e-6)
	assert.InDelta(t, 0, std[2], 1e-6)
	assert.Greater(t, std[1], 0.4)

	_, _, err = ChannelStats(nil, testLogger())
	assert.Error(t, err)
	_, _, err = ChannelStats([]string{filepath.Join(dir, "missing.png")}, testLogger())
	assert.Error(t, err)
}
