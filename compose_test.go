package motaug

import (
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	flip, err := NewRandomHorizontalFlip(RandomHorizontalFlipConfig{P: float64Ptr(1)})
	require.NoError(t, err)
	crop, err := NewCenterCrop(CenterCropConfig{Width: 50, Height: 50})
	require.NoError(t, err)
	pipeline := Compose{flip, crop, NewToTensor()}

	img, tg, err := pipeline.Apply(newRng(1), newRaster(100, 100, color.White), newTarget(Box{10, 30, 40, 60}))
	require.NoError(t, err)
	assert.True(t, img.IsTensor())
	assert.Equal(t, []Box{{35, 5, 50, 35}}, tg.Boxes)

	imgs, targets, err := pipeline.ApplySequence(newRng(1),
		[]Image{newRaster(100, 100, color.White), newRaster(100, 100, color.White)},
		[]*Target{newTarget(Box{10, 30, 40, 60}), newTarget(Box{60, 30, 90, 60})})
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, []Box{{35, 5, 50, 35}}, targets[0].Boxes)
	assert.Equal(t, []Box{{0, 5, 15, 35}}, targets[1].Boxes)

	// An empty pipeline is the identity.
	in := newRaster(10, 10, color.White)
	out, _, err := Compose{}.Apply(newRng(1), in, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestComposeWrapsStepErrors(t *testing.T) {
	flip, err := NewRandomHorizontalFlip(RandomHorizontalFlipConfig{})
	require.NoError(t, err)
	crop, err := NewRandomCrop(RandomCropConfig{Width: 500, Height: 500})
	require.NoError(t, err)

	_, _, err = Compose{flip, crop}.Apply(newRng(1), newRaster(100, 100, color.White), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1")
	assert.Contains(t, err.Error(), "random_crop")
	assert.True(t, errors.Is(err, ErrRegionTooLarge))

	img := newRaster(10, 10, color.White)
	_, _, err = Compose{flip}.ApplyMultiView(newRng(1), []Views{{img}, {img, img}}, nil)
	assert.True(t, errors.Is(err, ErrViewMismatch))
}

func TestRandomSelect(t *testing.T) {
	flip, err := NewRandomHorizontalFlip(RandomHorizontalFlipConfig{P: float64Ptr(1)})
	require.NoError(t, err)
	img := newRaster(100, 10, color.White)
	tg := newTarget(Box{10, 0, 20, 5})

	first, err := NewRandomSelect(flip, Compose{}, 1)
	require.NoError(t, err)
	_, out, err := first.Apply(newRng(1), img, tg)
	require.NoError(t, err)
	assert.Equal(t, []Box{{80, 0, 90, 5}}, out.Boxes)

	second, err := NewRandomSelect(flip, Compose{}, 0)
	require.NoError(t, err)
	_, out, err = second.Apply(newRng(1), img, tg)
	require.NoError(t, err)
	assert.Equal(t, tg.Boxes, out.Boxes)

	_, targets, err := first.ApplyMultiView(newRng(1), []Views{{img, img}}, []ViewTargets{{tg, tg}})
	require.NoError(t, err)
	assert.Equal(t, []Box{{80, 0, 90, 5}}, targets[0][0].Boxes)
	assert.Equal(t, []Box{{80, 0, 90, 5}}, targets[0][1].Boxes)

	_, err = NewRandomSelect(flip, nil, 0.5)
	assert.Error(t, err)
	_, err = NewRandomSelect(flip, flip, 2)
	assert.Error(t, err)
}
