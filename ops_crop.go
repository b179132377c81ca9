package motaug

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

func applyCrop(r Region, img Image, t *Target) (Image, *Target, error) {
	return Crop(img, t, r)
}

// randomRegion picks a uniformly placed h x w region inside an image of size in.
func randomRegion(rng *rand.Rand, in Size, h, w int) (Region, error) {
	if in.Height < h || in.Width < w {
		return Region{}, errors.Wrapf(ErrRegionTooLarge, "%dx%d crop of a %dx%d image", w, h, in.Width, in.Height)
	}
	if in.Height == h && in.Width == w {
		return Region{Height: h, Width: w}, nil
	}
	return Region{
		Top:    randInt(rng, 0, in.Height-h),
		Left:   randInt(rng, 0, in.Width-w),
		Height: h,
		Width:  w,
	}, nil
}

// RandomCropConfig configures RandomCrop.
type RandomCropConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks the crop size.
func (c RandomCropConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("crop size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// RandomCrop crops a region of fixed size at a uniformly random position.
type RandomCrop struct {
	paramOp[Region]
	cfg RandomCropConfig
}

// NewRandomCrop returns a RandomCrop for the given configuration.
func NewRandomCrop(cfg RandomCropConfig) (*RandomCrop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomCrop{cfg: cfg}
	op.paramOp = paramOp[Region]{name: "random_crop", sample: op.sample, apply: applyCrop}
	return op, nil
}

func (o *RandomCrop) sample(rng *rand.Rand, ref Image) (Region, error) {
	return randomRegion(rng, ref.Size(), o.cfg.Height, o.cfg.Width)
}

// RandomSizeCropConfig configures RandomSizeCrop.
type RandomSizeCropConfig struct {
	MinSize int `json:"min_size"`
	MaxSize int `json:"max_size"`
}

// Validate checks that 0 < MinSize <= MaxSize.
func (c RandomSizeCropConfig) Validate() error {
	if c.MinSize <= 0 {
		return errors.Errorf("min_size must be positive, got %d", c.MinSize)
	}
	if c.MaxSize < c.MinSize {
		return errors.Errorf("max_size %d is smaller than min_size %d", c.MaxSize, c.MinSize)
	}
	return nil
}

// RandomSizeCrop crops a region whose width and height are drawn independently from
// [MinSize, min(image side, MaxSize)], at a uniformly random position.
type RandomSizeCrop struct {
	paramOp[Region]
	cfg RandomSizeCropConfig
}

// NewRandomSizeCrop returns a RandomSizeCrop for the given configuration.
func NewRandomSizeCrop(cfg RandomSizeCropConfig) (*RandomSizeCrop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomSizeCrop{cfg: cfg}
	op.paramOp = paramOp[Region]{name: "random_size_crop", sample: op.sample, apply: applyCrop}
	return op, nil
}

func (o *RandomSizeCrop) sample(rng *rand.Rand, ref Image) (Region, error) {
	in := ref.Size()
	maxW, maxH := minInt(in.Width, o.cfg.MaxSize), minInt(in.Height, o.cfg.MaxSize)
	if maxW < o.cfg.MinSize || maxH < o.cfg.MinSize {
		return Region{}, errors.Wrapf(ErrRegionTooLarge, "min_size %d for a %dx%d image",
			o.cfg.MinSize, in.Width, in.Height)
	}
	w := randInt(rng, o.cfg.MinSize, maxW)
	h := randInt(rng, o.cfg.MinSize, maxH)
	return randomRegion(rng, in, h, w)
}

// CenterCropConfig configures CenterCrop.
type CenterCropConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks the crop size.
func (c CenterCropConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("crop size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// CenterCrop crops a region of fixed size from the image center. A region larger than the image
// is filled with zeros.
type CenterCrop struct {
	paramOp[Region]
	cfg CenterCropConfig
}

// NewCenterCrop returns a CenterCrop for the given configuration.
func NewCenterCrop(cfg CenterCropConfig) (*CenterCrop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &CenterCrop{cfg: cfg}
	op.paramOp = paramOp[Region]{name: "center_crop", sample: op.sample, apply: applyCrop}
	return op, nil
}

func (o *CenterCrop) sample(_ *rand.Rand, ref Image) (Region, error) {
	in := ref.Size()
	return Region{
		Top:    int(math.RoundToEven(float64(in.Height-o.cfg.Height) / 2)),
		Left:   int(math.RoundToEven(float64(in.Width-o.cfg.Width) / 2)),
		Height: o.cfg.Height,
		Width:  o.cfg.Width,
	}, nil
}
