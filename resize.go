package motaug

import (
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// ResizeSpec is a resize target: either a shorter-side length, or an explicit width and height.
// An explicit size takes precedence.
type ResizeSpec struct {
	Shorter       int
	Width, Height int
}

func (s ResizeSpec) explicit() bool {
	return s.Width > 0 && s.Height > 0
}

func (s ResizeSpec) validate() error {
	if s.explicit() || s.Shorter > 0 {
		return nil
	}
	return errors.Errorf("invalid resize target %+v", s)
}

// OutputSize computes the size an image of size in is resized to.
//
// For a shorter-side target the aspect ratio is kept: the shorter side becomes s.Shorter and the
// longer side is scaled by the same factor. A positive maxSize caps the longer side by shrinking the
// shorter-side target first. An image whose shorter side already has the target length keeps its
// size.
func (s ResizeSpec) OutputSize(in Size, maxSize int) Size {
	if s.explicit() {
		return Size{Height: s.Height, Width: s.Width}
	}

	w, h := float64(in.Width), float64(in.Height)
	size := s.Shorter
	if maxSize > 0 {
		minSide, maxSide := math.Min(w, h), math.Max(w, h)
		if maxSide/minSide*float64(size) > float64(maxSize) {
			size = int(math.Round(float64(maxSize) * minSide / maxSide))
		}
	}

	if (in.Width <= in.Height && in.Width == size) || (in.Height <= in.Width && in.Height == size) {
		return in
	}
	if in.Width < in.Height {
		return Size{Height: int(math.Round(float64(size) * h / w)), Width: size}
	}
	return Size{Height: size, Width: int(math.Round(float64(size) * w / h))}
}

func resizeImage(img Image, s Size, interp Interpolation) (Image, error) {
	switch {
	case img.Tensor != nil:
		if err := checkTensor(img.Tensor); err != nil {
			return Image{}, err
		}
		return TensorImage(resizeCHW(img.Tensor, s, interp)), nil
	case img.Raster != nil:
		filter, err := interp.Filter()
		if err != nil {
			return Image{}, err
		}
		return RasterImage(imaging.Resize(img.Raster, s.Width, s.Height, filter)), nil
	}
	return Image{}, errors.New("cannot resize an empty image")
}

// Resize resamples the image to the size given by spec and maxSize, using interp for the image and
// nearest neighbour sampling for masks.
//
// Boxes are scaled by the width and height ratios independently and the area by their product.
func Resize(img Image, t *Target, spec ResizeSpec, maxSize int, interp Interpolation) (Image, *Target, error) {
	if err := spec.validate(); err != nil {
		return Image{}, nil, err
	}
	if err := checkRecord(t); err != nil {
		return Image{}, nil, err
	}
	in := img.Size()
	if in.Empty() {
		return Image{}, nil, errors.Errorf("cannot resize an image of size %dx%d", in.Width, in.Height)
	}
	size := spec.OutputSize(in, maxSize)
	if size.Empty() {
		return Image{}, nil, errors.Errorf("resize of %dx%d to %+v yields an empty image", in.Width, in.Height, spec)
	}
	out, err := resizeImage(img, size, interp)
	if err != nil {
		return Image{}, nil, err
	}
	if t == nil {
		return out, nil, nil
	}

	rx := float64(size.Width) / float64(in.Width)
	ry := float64(size.Height) / float64(in.Height)
	nt := t.clone()
	if t.Boxes != nil {
		nt.Boxes = make([]Box, len(t.Boxes))
		for k, b := range t.Boxes {
			nt.Boxes[k] = b.Scale(rx, ry)
		}
	}
	if t.Area != nil {
		nt.Area = make([]float64, len(t.Area))
		for k, a := range t.Area {
			nt.Area[k] = a * rx * ry
		}
	}
	nt.Size = size
	nt.Masks = resizeMasks(t.Masks, size)
	return out, nt, nil
}
