package motaug

// Pixel kernels behind the primitives. Rasters and masks go through imaging, tensors are handled
// directly on their CHW float32 backing slice.

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// maskThreshold is the 8-bit equivalent of 0.5.
const maskThreshold = 127

func chwShape(t *tensor.Dense) (c, h, w int) {
	s := t.Shape()
	if len(s) != 3 {
		return 0, 0, 0
	}
	return s[0], s[1], s[2]
}

func chwData(t *tensor.Dense) []float32 {
	return t.Data().([]float32)
}

func newCHW(c, h, w int, data []float32) *tensor.Dense {
	return tensor.New(tensor.WithShape(c, h, w), tensor.WithBacking(data))
}

// checkTensor verifies that t is a 3-dimensional float32 tensor.
func checkTensor(t *tensor.Dense) error {
	if t.Dtype() != tensor.Float32 {
		return errors.Errorf("tensor image has dtype %v, expected float32", t.Dtype())
	}
	if len(t.Shape()) != 3 {
		return errors.Errorf("tensor image has shape %v, expected (C, H, W)", t.Shape())
	}
	return nil
}

// cropRaster cuts out region r. Parts of r outside the image are black.
func cropRaster(img image.Image, r Region) image.Image {
	b := img.Bounds()
	rect := image.Rect(r.Left, r.Top, r.Left+r.Width, r.Top+r.Height).Add(b.Min)
	if rect.In(b) {
		return imaging.Crop(img, rect)
	}
	canvas := imaging.New(r.Width, r.Height, color.Black)
	return imaging.Paste(canvas, img, image.Pt(-r.Left, -r.Top))
}

// padRaster extends the image by padX columns on the right and padY rows at the bottom.
func padRaster(img image.Image, padX, padY int) image.Image {
	b := img.Bounds()
	canvas := imaging.New(b.Dx()+padX, b.Dy()+padY, color.Black)
	return imaging.Paste(canvas, img, image.Pt(0, 0))
}

// toMask thresholds the red channel of an imaging result back to a binary mask.
func toMask(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	m := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		dst := m.Pix[y*m.Stride : y*m.Stride+b.Dx()]
		for x := range dst {
			if src[x*4] > maskThreshold {
				dst[x] = 255
			}
		}
	}
	return m
}

func maskAny(m *image.Gray) bool {
	if m == nil {
		return false
	}
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[(y-b.Min.Y)*m.Stride : (y-b.Min.Y)*m.Stride+b.Dx()]
		for _, v := range row {
			if v > maskThreshold {
				return true
			}
		}
	}
	return false
}

func mapMasks(masks []*image.Gray, fn func(*image.Gray) *image.NRGBA) []*image.Gray {
	if masks == nil {
		return nil
	}
	out := make([]*image.Gray, len(masks))
	for i, m := range masks {
		out[i] = toMask(fn(m))
	}
	return out
}

func cropMasks(masks []*image.Gray, r Region) []*image.Gray {
	return mapMasks(masks, func(m *image.Gray) *image.NRGBA {
		canvas := imaging.New(r.Width, r.Height, color.Black)
		return imaging.Paste(canvas, m, image.Pt(-r.Left, -r.Top))
	})
}

func resizeMasks(masks []*image.Gray, s Size) []*image.Gray {
	return mapMasks(masks, func(m *image.Gray) *image.NRGBA {
		return imaging.Resize(m, s.Width, s.Height, imaging.NearestNeighbor)
	})
}

func flipMasks(masks []*image.Gray) []*image.Gray {
	return mapMasks(masks, func(m *image.Gray) *image.NRGBA {
		return imaging.FlipH(m)
	})
}

func padMasks(masks []*image.Gray, padX, padY int) []*image.Gray {
	return mapMasks(masks, func(m *image.Gray) *image.NRGBA {
		b := m.Bounds()
		canvas := imaging.New(b.Dx()+padX, b.Dy()+padY, color.Black)
		return imaging.Paste(canvas, m, image.Pt(0, 0))
	})
}

// cropCHW cuts out region r, zero filling the parts outside the tensor.
func cropCHW(t *tensor.Dense, r Region) *tensor.Dense {
	c, h, w := chwShape(t)
	src := chwData(t)
	dst := make([]float32, c*r.Height*r.Width)
	for ch := 0; ch < c; ch++ {
		for y := 0; y < r.Height; y++ {
			sy := y + r.Top
			if sy < 0 || sy >= h {
				continue
			}
			for x := 0; x < r.Width; x++ {
				sx := x + r.Left
				if sx < 0 || sx >= w {
					continue
				}
				dst[(ch*r.Height+y)*r.Width+x] = src[(ch*h+sy)*w+sx]
			}
		}
	}
	return newCHW(c, r.Height, r.Width, dst)
}

func flipCHW(t *tensor.Dense) *tensor.Dense {
	c, h, w := chwShape(t)
	src := chwData(t)
	dst := make([]float32, len(src))
	for row := 0; row < c*h; row++ {
		for x := 0; x < w; x++ {
			dst[row*w+x] = src[row*w+w-1-x]
		}
	}
	return newCHW(c, h, w, dst)
}

func padCHW(t *tensor.Dense, padX, padY int) *tensor.Dense {
	c, h, w := chwShape(t)
	src := chwData(t)
	oh, ow := h+padY, w+padX
	dst := make([]float32, c*oh*ow)
	for ch := 0; ch < c; ch++ {
		for y := 0; y < h; y++ {
			copy(dst[(ch*oh+y)*ow:(ch*oh+y)*ow+w], src[(ch*h+y)*w:(ch*h+y+1)*w])
		}
	}
	return newCHW(c, oh, ow, dst)
}

// resizeCHW resamples the tensor to s. Nearest uses floor sampling, every other policy uses
// bilinear sampling on half-pixel centers.
func resizeCHW(t *tensor.Dense, s Size, interp Interpolation) *tensor.Dense {
	c, h, w := chwShape(t)
	src := chwData(t)
	oh, ow := s.Height, s.Width
	dst := make([]float32, c*oh*ow)
	sy, sx := float64(h)/float64(oh), float64(w)/float64(ow)

	if interp == InterpNearest {
		for ch := 0; ch < c; ch++ {
			for y := 0; y < oh; y++ {
				iy := minInt(int(float64(y)*sy), h-1)
				for x := 0; x < ow; x++ {
					ix := minInt(int(float64(x)*sx), w-1)
					dst[(ch*oh+y)*ow+x] = src[(ch*h+iy)*w+ix]
				}
			}
		}
		return newCHW(c, oh, ow, dst)
	}

	type tap struct {
		i0, i1 int
		f      float32
	}
	taps := func(n, in int, scale float64) []tap {
		out := make([]tap, n)
		for i := range out {
			p := math.Max((float64(i)+0.5)*scale-0.5, 0)
			i0 := minInt(int(p), in-1)
			out[i] = tap{i0: i0, i1: minInt(i0+1, in-1), f: float32(p - float64(i0))}
		}
		return out
	}
	ty, tx := taps(oh, h, sy), taps(ow, w, sx)
	for ch := 0; ch < c; ch++ {
		plane := src[ch*h*w : (ch+1)*h*w]
		for y, yt := range ty {
			r0, r1 := plane[yt.i0*w:(yt.i0+1)*w], plane[yt.i1*w:(yt.i1+1)*w]
			for x, xt := range tx {
				top := r0[xt.i0] + (r0[xt.i1]-r0[xt.i0])*xt.f
				bottom := r1[xt.i0] + (r1[xt.i1]-r1[xt.i0])*xt.f
				dst[(ch*oh+y)*ow+x] = top + (bottom-top)*yt.f
			}
		}
	}
	return newCHW(c, oh, ow, dst)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ToTensor converts a raster to a 3-channel RGB tensor with samples in [0, 1]. Tensor images are
// returned unchanged.
func ToTensor(img Image) (Image, error) {
	if img.IsTensor() {
		return img, nil
	}
	if img.IsZero() {
		return Image{}, errors.New("cannot convert an empty image to a tensor")
	}
	nrgba := imaging.Clone(img.Raster)
	h, w := nrgba.Bounds().Dy(), nrgba.Bounds().Dx()
	data := make([]float32, 3*h*w)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			for ch := 0; ch < 3; ch++ {
				data[(ch*h+y)*w+x] = float32(row[x*4+ch]) / 255
			}
		}
	}
	return TensorImage(newCHW(3, h, w, data)), nil
}

// ToRaster returns the raster form of the image. Tensors with one or three channels are converted,
// samples are clamped to [0, 1].
func (im Image) ToRaster() (image.Image, error) {
	if im.Raster != nil {
		return im.Raster, nil
	}
	if im.Tensor == nil {
		return nil, errors.New("cannot convert an empty image to a raster")
	}
	if err := checkTensor(im.Tensor); err != nil {
		return nil, err
	}
	return chwToRaster(im.Tensor)
}

func chwToRaster(t *tensor.Dense) (image.Image, error) {
	c, h, w := chwShape(t)
	data := chwData(t)
	to8 := func(v float32) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
	}
	switch c {
	case 1:
		g := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Pix[y*g.Stride+x] = to8(data[y*w+x])
			}
		}
		return g, nil
	case 3:
		n := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*n.Stride + x*4
				for ch := 0; ch < 3; ch++ {
					n.Pix[i+ch] = to8(data[(ch*h+y)*w+x])
				}
				n.Pix[i+3] = 255
			}
		}
		return n, nil
	default:
		return nil, errors.Errorf("cannot convert a %d-channel tensor to a raster", c)
	}
}
