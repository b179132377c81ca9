package motaug

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTensorAndBack(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 255, B: 0, A: 255})

	ti, err := ToTensor(RasterImage(src))
	require.NoError(t, err)
	require.True(t, ti.IsTensor())
	assert.Equal(t, []int{3, 1, 2}, []int(ti.Tensor.Shape()))
	assert.Equal(t, Size{Height: 1, Width: 2}, ti.Size())

	data := chwData(ti.Tensor)
	expected := []float32{1, 0, 0, 1, 0.2, 0}
	for i := range expected {
		assert.InDelta(t, expected[i], data[i], 1e-6)
	}

	// Converting a tensor is a no-op.
	again, err := ToTensor(ti)
	require.NoError(t, err)
	assert.Same(t, ti.Tensor, again.Tensor)

	back, err := ti.ToRaster()
	require.NoError(t, err)
	assert.Equal(t, src.Pix, back.(*image.NRGBA).Pix)
}

func TestNormalize(t *testing.T) {
	img := newTensor(3, 10, 20, 0.5)
	tg := newTarget(Box{2, 4, 12, 8})
	tg.Size = Size{Height: 10, Width: 20}

	out, nt, err := Normalize(img, tg, []float64{0.5, 0.5, 0.5}, []float64{0.25, 0.25, 0.25})
	require.NoError(t, err)
	for _, v := range chwData(out.Tensor) {
		assert.Equal(t, float32(0), v)
	}

	assert.True(t, nt.Normalized)
	assert.False(t, tg.Normalized)
	require.NotNil(t, nt.OriImage)
	assert.Equal(t, chwData(img.Tensor), chwData(nt.OriImage))
	assert.NotSame(t, img.Tensor, nt.OriImage)

	requireBoxesInDelta(t, []Box{{0.35, 0.6, 0.5, 0.4}}, nt.Boxes)
	requireBoxesInDelta(t, tg.Boxes, []Box{CXCYWHToXYXY(nt.Boxes[0], 20, 10)})
	assert.Equal(t, tg.Area, nt.Area)

	// Normalized records are closed to geometric transforms.
	_, _, err = HFlip(out, nt)
	assert.True(t, errors.Is(err, ErrNormalizedBoxes))
}

func TestNormalizeChannelStatistics(t *testing.T) {
	img := TensorImage(newCHW(2, 1, 1, []float32{1, 3}))
	out, _, err := Normalize(img, nil, []float64{0, 1}, []float64{2, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 4}, chwData(out.Tensor))

	_, _, err = Normalize(img, nil, []float64{0}, []float64{1})
	assert.Error(t, err)
	_, _, err = Normalize(img, nil, []float64{0, 0}, []float64{1, 0})
	assert.Error(t, err)
}

func TestNormalizeNeedsTensor(t *testing.T) {
	_, _, err := Normalize(newRaster(4, 4, color.White), nil, []float64{0, 0, 0}, []float64{1, 1, 1})
	assert.Equal(t, ErrNotTensor, err)
}

func TestErase(t *testing.T) {
	img := newTensor(1, 4, 4, 1)
	out, err := Erase(img, Region{Top: 1, Left: 1, Height: 2, Width: 2}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float32{
		1, 1, 1, 1,
		1, 0, 0, 1,
		1, 0, 0, 1,
		1, 1, 1, 1,
	}, chwData(out.Tensor))
	for _, v := range chwData(img.Tensor) {
		assert.Equal(t, float32(1), v)
	}

	_, err = Erase(img, Region{Top: 3, Left: 3, Height: 2, Width: 2}, 0)
	assert.True(t, errors.Is(err, ErrRegionTooLarge))

	_, err = Erase(newRaster(4, 4, color.White), Region{Height: 1, Width: 1}, 0)
	assert.Equal(t, ErrNotTensor, err)
}
