package motaug

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Normalize standardizes every channel of a tensor image with the given mean and standard
// deviation, and moves the record to the model's coordinate form: the pre-normalization tensor is
// kept as OriImage and the boxes become cx, cy, w, h divided by the image width and height.
func Normalize(img Image, t *Target, mean, std []float64) (Image, *Target, error) {
	if !img.IsTensor() {
		return Image{}, nil, ErrNotTensor
	}
	if err := checkTensor(img.Tensor); err != nil {
		return Image{}, nil, err
	}
	if err := checkRecord(t); err != nil {
		return Image{}, nil, err
	}
	c, h, w := chwShape(img.Tensor)
	if len(mean) != c || len(std) != c {
		return Image{}, nil, errors.Errorf("normalize needs %d channel statistics, got %d means and %d stds",
			c, len(mean), len(std))
	}

	src := chwData(img.Tensor)
	dst := make([]float32, len(src))
	plane := h * w
	for ch := 0; ch < c; ch++ {
		m, s := float32(mean[ch]), float32(std[ch])
		if s == 0 {
			return Image{}, nil, errors.Errorf("zero standard deviation for channel %d", ch)
		}
		for i := ch * plane; i < (ch+1)*plane; i++ {
			dst[i] = (src[i] - m) / s
		}
	}
	out := TensorImage(newCHW(c, h, w, dst))
	if t == nil {
		return out, nil, nil
	}

	nt := t.clone()
	nt.OriImage = img.Tensor.Clone().(*tensor.Dense)
	if t.Boxes != nil {
		nt.Boxes = make([]Box, len(t.Boxes))
		for k, b := range t.Boxes {
			nt.Boxes[k] = XYXYToCXCYWH(b, float64(w), float64(h))
		}
	}
	nt.Normalized = true
	return out, nt, nil
}

// Erase sets every channel inside region r of a tensor image to value. The region must lie inside
// the image.
func Erase(img Image, r Region, value float32) (Image, error) {
	if !img.IsTensor() {
		return Image{}, ErrNotTensor
	}
	if err := checkTensor(img.Tensor); err != nil {
		return Image{}, err
	}
	if err := r.validate(); err != nil {
		return Image{}, err
	}
	c, h, w := chwShape(img.Tensor)
	if r.Top < 0 || r.Left < 0 || r.Top+r.Height > h || r.Left+r.Width > w {
		return Image{}, errors.Wrapf(ErrRegionTooLarge, "erase region %+v in %dx%d image", r, w, h)
	}

	dst := append([]float32(nil), chwData(img.Tensor)...)
	for ch := 0; ch < c; ch++ {
		for y := r.Top; y < r.Top+r.Height; y++ {
			row := dst[(ch*h+y)*w:]
			for x := r.Left; x < r.Left+r.Width; x++ {
				row[x] = value
			}
		}
	}
	return TensorImage(newCHW(c, h, w, dst)), nil
}
