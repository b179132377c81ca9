package motaug

import (
	"github.com/pkg/errors"
)

var (
	// ErrRegionTooLarge is returned when a requested crop does not fit into the image.
	ErrRegionTooLarge = errors.New("crop size exceeds image size")
	// ErrNormalizedBoxes is returned by geometric primitives given a record whose boxes were
	// already normalized.
	ErrNormalizedBoxes = errors.New("geometric transform of normalized boxes")
)

// Region is a rectangle in image coordinates: Top is the row offset, Left the column offset.
// A region may extend past the image.
type Region struct {
	Top, Left     int
	Height, Width int
}

func (r Region) validate() error {
	if r.Height <= 0 || r.Width <= 0 {
		return errors.Errorf("invalid crop region %dx%d at (%d, %d)", r.Width, r.Height, r.Left, r.Top)
	}
	return nil
}

// checkRecord rejects records a geometric primitive cannot transform.
func checkRecord(t *Target) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t != nil && t.Normalized {
		return ErrNormalizedBoxes
	}
	return nil
}

func cropImage(img Image, r Region) (Image, error) {
	switch {
	case img.Tensor != nil:
		if err := checkTensor(img.Tensor); err != nil {
			return Image{}, err
		}
		return TensorImage(cropCHW(img.Tensor, r)), nil
	case img.Raster != nil:
		return RasterImage(cropRaster(img.Raster, r)), nil
	}
	return Image{}, errors.New("cannot crop an empty image")
}

// Crop cuts region r out of the image and brings the record along.
//
// Boxes are translated into the region and clamped to it, and their area is recomputed from the
// clamped box. Masks are cut to the region. Instances whose box lost all width or height are
// dropped from every per-instance field. Without boxes, instances whose mask is empty after
// cropping are dropped instead.
func Crop(img Image, t *Target, r Region) (Image, *Target, error) {
	if err := r.validate(); err != nil {
		return Image{}, nil, err
	}
	if err := checkRecord(t); err != nil {
		return Image{}, nil, err
	}
	out, err := cropImage(img, r)
	if err != nil {
		return Image{}, nil, err
	}
	if t == nil {
		return out, nil, nil
	}

	nt := t.clone()
	nt.Size = Size{Height: r.Height, Width: r.Width}
	if t.Boxes != nil {
		nt.Boxes = make([]Box, len(t.Boxes))
		nt.Area = make([]float64, len(t.Boxes))
		for k, b := range t.Boxes {
			b = b.Translate(-float64(r.Left), -float64(r.Top)).Clamp(float64(r.Width), float64(r.Height))
			nt.Boxes[k] = b
			nt.Area[k] = b.Area()
		}
	}
	nt.Masks = cropMasks(t.Masks, r)

	if keep := nt.keepMask(); keep != nil {
		nt.filter(keep)
	}
	return out, nt, nil
}

// ShiftCrop cuts region r out of the image and scales the result to size out. It is the building
// block of the temporal-shift operators.
func ShiftCrop(img Image, t *Target, r Region, out Size) (Image, *Target, error) {
	cropped, ct, err := Crop(img, t, r)
	if err != nil {
		return Image{}, nil, err
	}
	return Resize(cropped, ct, ResizeSpec{Width: out.Width, Height: out.Height}, 0, InterpLinear)
}
