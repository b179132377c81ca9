package motaug

import (
	"github.com/pkg/errors"
)

// Pad extends the image by padX columns on the right and padY rows at the bottom, filling with
// zeros. Masks are padded the same way. Boxes keep their coordinates.
func Pad(img Image, t *Target, padX, padY int) (Image, *Target, error) {
	if padX < 0 || padY < 0 {
		return Image{}, nil, errors.Errorf("invalid padding (%d, %d)", padX, padY)
	}
	if err := checkRecord(t); err != nil {
		return Image{}, nil, err
	}
	var out Image
	switch {
	case img.Tensor != nil:
		if err := checkTensor(img.Tensor); err != nil {
			return Image{}, nil, err
		}
		out = TensorImage(padCHW(img.Tensor, padX, padY))
	case img.Raster != nil:
		out = RasterImage(padRaster(img.Raster, padX, padY))
	default:
		return Image{}, nil, errors.New("cannot pad an empty image")
	}
	if t == nil {
		return out, nil, nil
	}

	in := img.Size()
	nt := t.clone()
	nt.Size = Size{Height: in.Height + padY, Width: in.Width + padX}
	nt.Masks = padMasks(t.Masks, padX, padY)
	return out, nt, nil
}
