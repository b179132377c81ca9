package motaug

// Photometric jitter. Only pixel values change, so records pass through untouched.

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// JitterStep is one of the four color adjustments.
type JitterStep int

// Color adjustments, in their default order.
const (
	JitterBrightness JitterStep = iota
	JitterContrast
	JitterSaturation
	JitterHue
)

// JitterParams holds sampled adjustment factors. A factor of 1 (or a hue shift of 0) leaves the
// image unchanged. Order lists the steps in the order they are applied.
type JitterParams struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Hue        float64 // Fraction of a full turn, in [-0.5, 0.5].
	Order      []JitterStep
}

// Jitter applies the color adjustments in p to the image. Tensor images are adjusted in place of
// their CHW values, which must lie in [0, 1]; they keep their channel count. Saturation and hue
// leave single-channel tensors unchanged.
func Jitter(img Image, p JitterParams) (Image, error) {
	if img.Tensor != nil {
		return jitterTensor(img.Tensor, p)
	}
	if img.IsZero() {
		return Image{}, errors.New("cannot jitter an empty image")
	}

	out := imaging.Clone(img.Raster)
	for _, step := range p.Order {
		switch step {
		case JitterBrightness:
			if p.Brightness != 1 {
				out = adjustBrightness(out, p.Brightness)
			}
		case JitterContrast:
			if p.Contrast != 1 {
				out = adjustContrast(out, p.Contrast)
			}
		case JitterSaturation:
			if p.Saturation != 1 {
				out = adjustSaturation(out, p.Saturation)
			}
		case JitterHue:
			if p.Hue != 0 {
				out = adjustHue(out, p.Hue)
			}
		default:
			return Image{}, errors.Errorf("unknown jitter step %d", step)
		}
	}
	return RasterImage(out), nil
}

func jitterTensor(t *tensor.Dense, p JitterParams) (Image, error) {
	if err := checkTensor(t); err != nil {
		return Image{}, err
	}
	c, h, w := chwShape(t)
	if c != 1 && c != 3 {
		return Image{}, errors.Errorf("cannot jitter a tensor with %d channels", c)
	}
	src := chwData(t)
	for _, v := range src {
		if v < 0 || v > 1 {
			return Image{}, errors.Errorf("cannot jitter a tensor with value %v outside [0, 1]", v)
		}
	}

	data := make([]float32, len(src))
	copy(data, src)
	plane := h * w
	for _, step := range p.Order {
		switch step {
		case JitterBrightness:
			if p.Brightness != 1 {
				for i, v := range data {
					data[i] = blend32(v, 0, p.Brightness)
				}
			}
		case JitterContrast:
			if p.Contrast != 1 && plane > 0 {
				var sum float64
				for i := 0; i < plane; i++ {
					sum += tensorLuma(data, c, plane, i)
				}
				mean := sum / float64(plane)
				for i, v := range data {
					data[i] = blend32(v, mean, p.Contrast)
				}
			}
		case JitterSaturation:
			if p.Saturation != 1 && c == 3 {
				for i := 0; i < plane; i++ {
					l := tensorLuma(data, c, plane, i)
					for ch := 0; ch < c; ch++ {
						data[ch*plane+i] = blend32(data[ch*plane+i], l, p.Saturation)
					}
				}
			}
		case JitterHue:
			if p.Hue != 0 && c == 3 {
				for i := 0; i < plane; i++ {
					col := colorful.Color{R: float64(data[i]), G: float64(data[plane+i]), B: float64(data[2*plane+i])}
					hue, sat, val := col.Hsv()
					hue = math.Mod(hue+p.Hue*360+360, 360)
					out := colorful.Hsv(hue, sat, val).Clamped()
					data[i], data[plane+i], data[2*plane+i] = float32(out.R), float32(out.G), float32(out.B)
				}
			}
		default:
			return Image{}, errors.Errorf("unknown jitter step %d", step)
		}
	}
	return TensorImage(newCHW(c, h, w, data)), nil
}

// tensorLuma returns the luma of pixel i of a CHW buffer with c channels of plane values each.
func tensorLuma(data []float32, c, plane, i int) float64 {
	if c == 1 {
		return float64(data[i])
	}
	return 0.299*float64(data[i]) + 0.587*float64(data[plane+i]) + 0.114*float64(data[2*plane+i])
}

// blend32 returns factor*v + (1-factor)*other clamped to [0, 1].
func blend32(v float32, other, factor float64) float32 {
	return float32(math.Max(0, math.Min(1, factor*float64(v)+(1-factor)*other)))
}

func clamp8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func luma(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// blend returns factor*c + (1-factor)*other per channel.
func blend(c color.NRGBA, other, factor float64) color.NRGBA {
	mix := func(v uint8) uint8 {
		return clamp8(factor*float64(v) + (1-factor)*other)
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

func adjustBrightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return blend(c, 0, factor)
	})
}

func adjustContrast(img *image.NRGBA, factor float64) *image.NRGBA {
	var sum float64
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			sum += luma(img.NRGBAAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	mean := 0.0
	if n := b.Dx() * b.Dy(); n > 0 {
		mean = sum / float64(n)
	}
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return blend(c, mean, factor)
	})
}

func adjustSaturation(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return blend(c, luma(c), factor)
	})
}

func adjustHue(img *image.NRGBA, shift float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		h, s, v := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hsv()
		h = math.Mod(h+shift*360+360, 360)
		r, g, bl := colorful.Hsv(h, s, v).Clamped().RGB255()
		return color.NRGBA{R: r, G: g, B: bl, A: c.A}
	})
}
