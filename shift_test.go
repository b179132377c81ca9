package motaug

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftRegion(t *testing.T) {
	in := Size{Height: 100, Width: 200}
	assert.Equal(t, Region{Top: 5, Left: 0, Height: 95, Width: 190}, shiftRegion(in, 10, -5))
	assert.Equal(t, Region{Top: 0, Left: 7, Height: 80, Width: 193}, shiftRegion(in, -7, 20))
	assert.Equal(t, Region{Top: 0, Left: 0, Height: 100, Width: 200}, shiftRegion(in, 0, 0))

	// At least one row and column remain.
	assert.Equal(t, Region{Top: 0, Left: 0, Height: 1, Width: 1}, shiftRegion(in, 500, 500))
	assert.Equal(t, Region{Top: 99, Left: 199, Height: 1, Width: 1}, shiftRegion(in, -500, -500))
}

func TestRandomShiftChangesOneFrame(t *testing.T) {
	op, err := NewRandomShift(RandomShiftConfig{MaxShift: 20})
	require.NoError(t, err)

	imgs := []Image{
		newRaster(100, 80, color.White),
		newRaster(100, 80, color.White),
		newRaster(100, 80, color.White),
	}
	targets := []*Target{newTarget(Box{10, 10, 50, 50}), newTarget(Box{10, 10, 50, 50}), newTarget(Box{10, 10, 50, 50})}

	for seed := int64(0); seed < 10; seed++ {
		out, outTargets, err := op.ApplySequence(newRng(seed), imgs, targets)
		require.NoError(t, err)
		require.Len(t, out, 3)

		changed := 0
		for i := range imgs {
			assert.Equal(t, imgs[i].Size(), out[i].Size())
			if out[i].Raster != imgs[i].Raster {
				changed++
				assert.NotSame(t, targets[i], outTargets[i])
			} else {
				assert.Same(t, targets[i], outTargets[i])
			}
		}
		assert.Equal(t, 1, changed, "seed %d", seed)
	}
}

func TestRandomShiftMultiViewUsesSameDraws(t *testing.T) {
	op, err := NewRandomShift(RandomShiftConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxShift, op.maxShift)

	a, b := newRaster(60, 60, color.White), newRaster(60, 60, color.Black)
	frames := []Views{{a, b}, {a, b}, {a, b}, {a, b}}
	targets := make([]ViewTargets, len(frames))
	for i := range targets {
		targets[i] = ViewTargets{newTarget(Box{5, 5, 55, 55}), newTarget(Box{5, 5, 55, 55})}
	}

	for seed := int64(0); seed < 5; seed++ {
		out, outTargets, err := op.ApplyMultiView(newRng(seed), frames, targets)
		require.NoError(t, err)
		for i := range frames {
			assert.Equal(t, out[i][0].Raster != a.Raster, out[i][1].Raster != b.Raster, "frame %d", i)
			assert.Equal(t, outTargets[i][0].Boxes, outTargets[i][1].Boxes, "frame %d", i)
		}
	}
}

func TestDriftShift(t *testing.T) {
	op, err := NewDriftShift(DriftShiftConfig{Padding: 5})
	require.NoError(t, err)

	imgs := []Image{
		newRaster(100, 80, color.White),
		newRaster(50, 50, color.Black),
		newRaster(50, 50, color.Black),
		newRaster(50, 50, color.Black),
	}
	targets := []*Target{newTarget(Box{20, 20, 60, 60}), nil, nil, nil}
	targets[0].Size = Size{Height: 80, Width: 100}

	out, outTargets, err := op.ApplySequence(newRng(4), imgs, targets)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, imgs[0].Raster, out[0].Raster)
	assert.Same(t, targets[0], outTargets[0])

	for i := 1; i < len(out); i++ {
		// Later frames derive from the first, not from their own inputs.
		assert.Equal(t, Size{Height: 80, Width: 100}, out[i].Size())
		assert.Equal(t, Size{Height: 80, Width: 100}, outTargets[i].Size)
		require.Len(t, outTargets[i].Boxes, 1)
		assert.Equal(t, []int64{100}, outTargets[i].ObjIDs)
		assert.NotEqual(t, outTargets[i-1].Boxes, outTargets[i].Boxes)
	}

	def, err := NewDriftShift(DriftShiftConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultDriftShift, def.padding)

	single, tg, err := op.Apply(newRng(1), imgs[0], targets[0])
	require.NoError(t, err)
	assert.Equal(t, imgs[0].Raster, single.Raster)
	assert.Same(t, targets[0], tg)
}
