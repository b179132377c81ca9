package motaug

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// ToTensorOp converts raster images to tensors.
type ToTensorOp struct {
	paramOp[struct{}]
}

// NewToTensor returns a ToTensorOp.
func NewToTensor() *ToTensorOp {
	return &ToTensorOp{paramOp[struct{}]{
		name: "to_tensor",
		sample: func(*rand.Rand, Image) (struct{}, error) {
			return struct{}{}, nil
		},
		apply: func(_ struct{}, img Image, t *Target) (Image, *Target, error) {
			out, err := ToTensor(img)
			return out, t, err
		},
	}}
}

// NormalizeConfig configures NormalizeOp with one mean and standard deviation per channel.
type NormalizeConfig struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Validate checks that the statistics are non-empty, of equal length, and that no deviation is 0.
func (c NormalizeConfig) Validate() error {
	if len(c.Mean) == 0 || len(c.Mean) != len(c.Std) {
		return errors.Errorf("need one mean and std per channel, got %d means and %d stds", len(c.Mean), len(c.Std))
	}
	for i, s := range c.Std {
		if s == 0 {
			return errors.Errorf("std of channel %d is zero", i)
		}
	}
	return nil
}

// NormalizeOp standardizes tensor images and converts boxes to normalized center form.
type NormalizeOp struct {
	paramOp[struct{}]
	cfg NormalizeConfig
}

// NewNormalize returns a NormalizeOp for the given configuration.
func NewNormalize(cfg NormalizeConfig) (*NormalizeOp, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &NormalizeOp{cfg: cfg}
	op.paramOp = paramOp[struct{}]{
		name: "normalize",
		sample: func(*rand.Rand, Image) (struct{}, error) {
			return struct{}{}, nil
		},
		apply: func(_ struct{}, img Image, t *Target) (Image, *Target, error) {
			return Normalize(img, t, op.cfg.Mean, op.cfg.Std)
		},
	}
	return op, nil
}

// RandomErasingConfig configures RandomErasing. Zero values select the defaults: P 0.5,
// Scale [0.02, 0.33] and Ratio [0.3, 3.3].
type RandomErasingConfig struct {
	P     *float64   `json:"p"`
	Scale [2]float64 `json:"scale"`
	Ratio [2]float64 `json:"ratio"`
	Value float64    `json:"value"`
}

func (c RandomErasingConfig) withDefaults() RandomErasingConfig {
	if c.P == nil {
		p := 0.5
		c.P = &p
	}
	if c.Scale == [2]float64{} {
		c.Scale = [2]float64{0.02, 0.33}
	}
	if c.Ratio == [2]float64{} {
		c.Ratio = [2]float64{0.3, 3.3}
	}
	return c
}

// Validate checks the probability and the scale and ratio ranges.
func (c RandomErasingConfig) Validate() error {
	c = c.withDefaults()
	if err := validateProb(*c.P); err != nil {
		return err
	}
	if c.Scale[0] <= 0 || c.Scale[0] > c.Scale[1] || c.Scale[1] > 1 {
		return errors.Errorf("invalid erasing scale range %v", c.Scale)
	}
	if c.Ratio[0] <= 0 || c.Ratio[0] > c.Ratio[1] {
		return errors.Errorf("invalid erasing ratio range %v", c.Ratio)
	}
	return nil
}

type eraseParams struct {
	erase  bool
	region Region
}

// RandomErasing blanks out a random rectangle of tensor images with probability P. The rectangle
// covers a fraction of the image drawn from Scale and has an aspect ratio drawn log-uniformly from
// Ratio. The same rectangle is erased in every frame of a call.
type RandomErasing struct {
	paramOp[eraseParams]
	cfg RandomErasingConfig
}

// NewRandomErasing returns a RandomErasing for the given configuration.
func NewRandomErasing(cfg RandomErasingConfig) (*RandomErasing, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomErasing{cfg: cfg.withDefaults()}
	op.paramOp = paramOp[eraseParams]{name: "random_erasing", sample: op.sample, apply: op.apply}
	return op, nil
}

const eraseAttempts = 10

func (o *RandomErasing) sample(rng *rand.Rand, ref Image) (eraseParams, error) {
	if rng.Float64() >= *o.cfg.P {
		return eraseParams{}, nil
	}
	in := ref.Size()
	area := float64(in.Height * in.Width)
	logLo, logHi := math.Log(o.cfg.Ratio[0]), math.Log(o.cfg.Ratio[1])
	for attempt := 0; attempt < eraseAttempts; attempt++ {
		eraseArea := area * randUniform(rng, o.cfg.Scale[0], o.cfg.Scale[1])
		aspect := math.Exp(randUniform(rng, logLo, logHi))
		h := int(math.Round(math.Sqrt(eraseArea * aspect)))
		w := int(math.Round(math.Sqrt(eraseArea / aspect)))
		if h <= 0 || w <= 0 || h >= in.Height || w >= in.Width {
			continue
		}
		return eraseParams{erase: true, region: Region{
			Top:    randInt(rng, 0, in.Height-h),
			Left:   randInt(rng, 0, in.Width-w),
			Height: h,
			Width:  w,
		}}, nil
	}
	return eraseParams{}, nil
}

func (o *RandomErasing) apply(p eraseParams, img Image, t *Target) (Image, *Target, error) {
	if !p.erase {
		return img, t, nil
	}
	out, err := Erase(img, p.region, float32(o.cfg.Value))
	return out, t, err
}

// ColorJitterConfig configures ColorJitter. Brightness, Contrast and Saturation factors are drawn
// from [max(0, 1-x), 1+x], the hue shift from [-Hue, Hue].
type ColorJitterConfig struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Hue        float64 `json:"hue"`
}

// Validate checks the jitter ranges.
func (c ColorJitterConfig) Validate() error {
	if c.Brightness < 0 || c.Contrast < 0 || c.Saturation < 0 {
		return errors.Errorf("jitter ranges must not be negative: %+v", c)
	}
	if c.Hue < 0 || c.Hue > 0.5 {
		return errors.Errorf("hue jitter must be in [0, 0.5], got %v", c.Hue)
	}
	return nil
}

// ColorJitter randomly changes brightness, contrast, saturation and hue, in a random order. One
// set of factors is drawn per call and shared by every frame.
type ColorJitter struct {
	paramOp[JitterParams]
	cfg ColorJitterConfig
}

// NewColorJitter returns a ColorJitter for the given configuration.
func NewColorJitter(cfg ColorJitterConfig) (*ColorJitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &ColorJitter{cfg: cfg}
	op.paramOp = paramOp[JitterParams]{
		name:   "color_jitter",
		sample: op.sample,
		apply: func(p JitterParams, img Image, t *Target) (Image, *Target, error) {
			out, err := Jitter(img, p)
			return out, t, err
		},
	}
	return op, nil
}

func (o *ColorJitter) sample(rng *rand.Rand, _ Image) (JitterParams, error) {
	factor := func(x float64) float64 {
		if x == 0 {
			return 1
		}
		return randUniform(rng, math.Max(0, 1-x), 1+x)
	}
	p := JitterParams{
		Order: make([]JitterStep, 0, 4),
	}
	for _, i := range rng.Perm(4) {
		p.Order = append(p.Order, JitterStep(i))
	}
	p.Brightness = factor(o.cfg.Brightness)
	p.Contrast = factor(o.cfg.Contrast)
	p.Saturation = factor(o.cfg.Saturation)
	if o.cfg.Hue > 0 {
		p.Hue = randUniform(rng, -o.cfg.Hue, o.cfg.Hue)
	}
	return p, nil
}
