package motaug

import (
	"math/rand"

	"github.com/pkg/errors"
)

// RandomResizeConfig configures RandomResize. Candidates are the shorter-side lengths in Sizes and
// the explicit (width, height) pairs in Pairs. MaxSize, if positive, caps the longer side of
// shorter-side resizes.
type RandomResizeConfig struct {
	Sizes         []int         `json:"sizes"`
	Pairs         [][2]int      `json:"pairs"`
	MaxSize       int           `json:"max_size"`
	Interpolation Interpolation `json:"interpolation"`
}

// Validate checks that there is at least one candidate and that every candidate is positive.
func (c RandomResizeConfig) Validate() error {
	if len(c.Sizes)+len(c.Pairs) == 0 {
		return errors.New("no resize sizes given")
	}
	for _, s := range c.Sizes {
		if s <= 0 {
			return errors.Errorf("resize size must be positive, got %d", s)
		}
	}
	for _, p := range c.Pairs {
		if p[0] <= 0 || p[1] <= 0 {
			return errors.Errorf("resize size must be positive, got %dx%d", p[0], p[1])
		}
	}
	if c.MaxSize < 0 {
		return errors.Errorf("max_size must not be negative, got %d", c.MaxSize)
	}
	if _, err := c.Interpolation.Filter(); err != nil {
		return err
	}
	return nil
}

// RandomResize resizes to a size drawn uniformly from the configured candidates.
type RandomResize struct {
	paramOp[ResizeSpec]
	cfg        RandomResizeConfig
	candidates []ResizeSpec
}

// NewRandomResize returns a RandomResize for the given configuration.
func NewRandomResize(cfg RandomResizeConfig) (*RandomResize, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomResize{cfg: cfg}
	for _, s := range cfg.Sizes {
		op.candidates = append(op.candidates, ResizeSpec{Shorter: s})
	}
	for _, p := range cfg.Pairs {
		op.candidates = append(op.candidates, ResizeSpec{Width: p[0], Height: p[1]})
	}
	op.paramOp = paramOp[ResizeSpec]{name: "random_resize", sample: op.sample, apply: op.apply}
	return op, nil
}

func (o *RandomResize) sample(rng *rand.Rand, _ Image) (ResizeSpec, error) {
	return o.candidates[rng.Intn(len(o.candidates))], nil
}

func (o *RandomResize) apply(s ResizeSpec, img Image, t *Target) (Image, *Target, error) {
	return Resize(img, t, s, o.cfg.MaxSize, o.cfg.Interpolation)
}

// RandomHorizontalFlipConfig configures RandomHorizontalFlip. P defaults to 0.5.
type RandomHorizontalFlipConfig struct {
	P *float64 `json:"p"`
}

func (c RandomHorizontalFlipConfig) prob() float64 {
	if c.P == nil {
		return 0.5
	}
	return *c.P
}

// Validate checks that P is a probability.
func (c RandomHorizontalFlipConfig) Validate() error {
	return validateProb(c.prob())
}

func validateProb(p float64) error {
	if p < 0 || p > 1 {
		return errors.Errorf("probability must be in [0, 1], got %v", p)
	}
	return nil
}

// RandomHorizontalFlip mirrors the images with probability P.
type RandomHorizontalFlip struct {
	paramOp[bool]
	p float64
}

// NewRandomHorizontalFlip returns a RandomHorizontalFlip for the given configuration.
func NewRandomHorizontalFlip(cfg RandomHorizontalFlipConfig) (*RandomHorizontalFlip, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomHorizontalFlip{p: cfg.prob()}
	op.paramOp = paramOp[bool]{name: "random_horizontal_flip", sample: op.sample, apply: applyFlip}
	return op, nil
}

func (o *RandomHorizontalFlip) sample(rng *rand.Rand, _ Image) (bool, error) {
	return rng.Float64() < o.p, nil
}

func applyFlip(flip bool, img Image, t *Target) (Image, *Target, error) {
	if !flip {
		return img, t, nil
	}
	return HFlip(img, t)
}

// RandomPadConfig configures RandomPad.
type RandomPadConfig struct {
	MaxPad int `json:"max_pad"`
}

// Validate checks that MaxPad is not negative.
func (c RandomPadConfig) Validate() error {
	if c.MaxPad < 0 {
		return errors.Errorf("max_pad must not be negative, got %d", c.MaxPad)
	}
	return nil
}

// RandomPad pads the right and bottom edges by amounts drawn independently from [0, MaxPad].
type RandomPad struct {
	paramOp[[2]int]
	cfg RandomPadConfig
}

// NewRandomPad returns a RandomPad for the given configuration.
func NewRandomPad(cfg RandomPadConfig) (*RandomPad, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomPad{cfg: cfg}
	op.paramOp = paramOp[[2]int]{name: "random_pad", sample: op.sample, apply: applyPad}
	return op, nil
}

func (o *RandomPad) sample(rng *rand.Rand, _ Image) ([2]int, error) {
	return [2]int{randInt(rng, 0, o.cfg.MaxPad), randInt(rng, 0, o.cfg.MaxPad)}, nil
}

func applyPad(p [2]int, img Image, t *Target) (Image, *Target, error) {
	return Pad(img, t, p[0], p[1])
}
