package motaug

import (
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// HFlip mirrors the image left to right. Boxes and masks are mirrored with it, no instance is
// ever dropped.
func HFlip(img Image, t *Target) (Image, *Target, error) {
	if err := checkRecord(t); err != nil {
		return Image{}, nil, err
	}
	var out Image
	switch {
	case img.Tensor != nil:
		if err := checkTensor(img.Tensor); err != nil {
			return Image{}, nil, err
		}
		out = TensorImage(flipCHW(img.Tensor))
	case img.Raster != nil:
		out = RasterImage(imaging.FlipH(img.Raster))
	default:
		return Image{}, nil, errors.New("cannot flip an empty image")
	}
	if t == nil {
		return out, nil, nil
	}

	w := float64(img.Size().Width)
	nt := t.clone()
	if t.Boxes != nil {
		nt.Boxes = make([]Box, len(t.Boxes))
		for k, b := range t.Boxes {
			nt.Boxes[k] = b.MirrorX(w)
		}
	}
	nt.Masks = flipMasks(t.Masks)
	return out, nt, nil
}
