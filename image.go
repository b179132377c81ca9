package motaug

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // Register the WebP decoder with image.Decode.
	"gorgonia.org/tensor"
)

// ErrNotTensor is returned by operations that need the tensor form of an image.
var ErrNotTensor = errors.New("image is not a tensor")

// Image is a frame in one of two forms: a decoded raster, or a CHW float32 tensor. Exactly one of
// the fields is set. Images are never modified in place, every operation returns a new Image.
type Image struct {
	Raster image.Image
	Tensor *tensor.Dense
}

// RasterImage wraps a decoded image.
func RasterImage(img image.Image) Image {
	return Image{Raster: img}
}

// TensorImage wraps a CHW float32 tensor.
func TensorImage(t *tensor.Dense) Image {
	return Image{Tensor: t}
}

// IsTensor reports whether the image is in tensor form.
func (im Image) IsTensor() bool {
	return im.Tensor != nil
}

// IsZero reports whether the image holds neither form.
func (im Image) IsZero() bool {
	return im.Raster == nil && im.Tensor == nil
}

// Size returns the image height and width.
func (im Image) Size() Size {
	if im.Tensor != nil {
		_, h, w := chwShape(im.Tensor)
		return Size{Height: h, Width: w}
	}
	if im.Raster == nil {
		return Size{}
	}
	b := im.Raster.Bounds()
	return Size{Height: b.Dy(), Width: b.Dx()}
}

// Interpolation names a resampling filter.
type Interpolation string

// Supported interpolation policies.
const (
	InterpNearest  Interpolation = "nearest"
	InterpBox      Interpolation = "box"
	InterpLinear   Interpolation = "linear"
	InterpGaussian Interpolation = "gaussian"
	InterpLanczos  Interpolation = "lanczos"
)

// Filter returns the imaging filter for the interpolation. The empty name selects linear.
func (i Interpolation) Filter() (imaging.ResampleFilter, error) {
	switch i {
	case InterpNearest:
		return imaging.NearestNeighbor, nil
	case InterpBox:
		return imaging.Box, nil
	case InterpLinear, "":
		return imaging.Linear, nil
	case InterpGaussian:
		return imaging.Gaussian, nil
	case InterpLanczos:
		return imaging.Lanczos, nil
	default:
		return imaging.ResampleFilter{}, errors.Errorf("unknown interpolation %q", string(i))
	}
}

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(path string) (config image.Config, format string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer file.Close()

	return image.DecodeConfig(file)
}

// LoadImage reads and decodes the image at path. EXIF orientation is ignored, so the pixels line up
// with annotations made against the stored frame and with decodeImageConfig.
func LoadImage(path string) (Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Image{}, errors.Wrapf(err, "cannot load image %q", path)
	}
	return RasterImage(img), nil
}

// SaveImage saves the image to path, encoding it as PNG, WebP or JPEG depending on the file
// extension of path. Tensor images are converted to rasters first.
func SaveImage(path string, img Image, jpegQuality int) (err error) {
	raster, err := img.ToRaster()
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		var f *os.File
		if f, err = os.Create(path); err != nil {
			return err
		}
		defer closeWithErrCheck(f, &err)
		return webp.Encode(f, raster, &webp.Options{Quality: float32(jpegQuality)})
	case ".png":
		return imaging.Save(raster, path)
	default:
		return imaging.Save(raster, path, imaging.JPEGQuality(jpegQuality))
	}
}
