package motaug

// Temporal-shift operators. They simulate camera jitter in a clip by cutting a shifted window out
// of a frame and scaling it back to the frame size.

import (
	"math/rand"

	"github.com/pkg/errors"
)

const (
	defaultMaxShift   = 100
	defaultDriftShift = 50
)

// shiftRegion returns the part of an image of size in that remains visible after moving the
// camera by (dx, dy). Shifts are limited so that at least one row and column remain.
func shiftRegion(in Size, dx, dy int) Region {
	dx = clampShift(dx, in.Width-1)
	dy = clampShift(dy, in.Height-1)
	top, bottom := maxInt(0, -dy), minInt(in.Height, in.Height-dy)
	left, right := maxInt(0, -dx), minInt(in.Width, in.Width-dx)
	return Region{Top: top, Left: left, Height: bottom - top, Width: right - left}
}

func clampShift(d, limit int) int {
	if d > limit {
		return limit
	}
	if d < -limit {
		return -limit
	}
	return d
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// randomSign flips the sign of v with probability 0.5.
func randomSign(rng *rand.Rand, v int) int {
	if rng.Intn(2) == 0 {
		return -v
	}
	return v
}

// RandomShiftConfig configures RandomShift. MaxShift defaults to 100 pixels.
type RandomShiftConfig struct {
	MaxShift int `json:"max_shift"`
}

// Validate checks that MaxShift is not negative.
func (c RandomShiftConfig) Validate() error {
	if c.MaxShift < 0 {
		return errors.Errorf("max_shift must not be negative, got %d", c.MaxShift)
	}
	return nil
}

// RandomShift shifts one uniformly chosen frame of a clip by up to MaxShift pixels per axis and
// scales the visible part back to the frame size. All other frames pass through.
type RandomShift struct {
	sequenceOp
	maxShift int
}

// NewRandomShift returns a RandomShift for the given configuration.
func NewRandomShift(cfg RandomShiftConfig) (*RandomShift, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &RandomShift{maxShift: cfg.MaxShift}
	if op.maxShift == 0 {
		op.maxShift = defaultMaxShift
	}
	op.sequenceOp = sequenceOp{name: "random_shift", seq: op.shift}
	return op, nil
}

func (o *RandomShift) shift(rng *rand.Rand, imgs []Image, targets []*Target) ([]Image, []*Target, error) {
	sel := rng.Intn(len(imgs))
	dx := randomSign(rng, int(float64(o.maxShift)*rng.Float64()))
	dy := randomSign(rng, int(float64(o.maxShift)*rng.Float64()))

	in := imgs[sel].Size()
	outImgs := append([]Image(nil), imgs...)
	var outTargets []*Target
	if targets != nil {
		outTargets = append([]*Target(nil), targets...)
	}
	img, t, err := ShiftCrop(imgs[sel], targetAt(targets, sel), shiftRegion(in, dx, dy), in)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "frame %d", sel)
	}
	outImgs[sel] = img
	if outTargets != nil {
		outTargets[sel] = t
	}
	return outImgs, outTargets, nil
}

// DriftShiftConfig configures DriftShift. Padding, the largest shift per step, defaults to 50.
type DriftShiftConfig struct {
	Padding int `json:"padding"`
}

// Validate checks that Padding is not negative.
func (c DriftShiftConfig) Validate() error {
	if c.Padding < 0 {
		return errors.Errorf("padding must not be negative, got %d", c.Padding)
	}
	return nil
}

// DriftShift replaces a clip with a synthetic one built from its first frame: the first frame is
// kept, and every later frame is the previous output frame shifted by a fresh random offset of 1
// to Padding pixels per axis, then scaled back to the size of the first frame. Only the number of
// input frames after the first matters.
type DriftShift struct {
	sequenceOp
	padding int
}

// NewDriftShift returns a DriftShift for the given configuration.
func NewDriftShift(cfg DriftShiftConfig) (*DriftShift, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	op := &DriftShift{padding: cfg.Padding}
	if op.padding == 0 {
		op.padding = defaultDriftShift
	}
	op.sequenceOp = sequenceOp{name: "drift_shift", seq: op.drift}
	return op, nil
}

func (o *DriftShift) drift(rng *rand.Rand, imgs []Image, targets []*Target) ([]Image, []*Target, error) {
	in := imgs[0].Size()
	outImgs := make([]Image, len(imgs))
	var outTargets []*Target
	if targets != nil {
		outTargets = make([]*Target, len(imgs))
		outTargets[0] = targets[0]
	}
	outImgs[0] = imgs[0]

	for i := 1; i < len(imgs); i++ {
		dx := randomSign(rng, randInt(rng, 1, o.padding))
		dy := randomSign(rng, randInt(rng, 1, o.padding))
		img, t, err := ShiftCrop(outImgs[i-1], targetAt(outTargets, i-1), shiftRegion(in, dx, dy), in)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "frame %d", i)
		}
		outImgs[i] = img
		if outTargets != nil {
			outTargets[i] = t
		}
	}
	return outImgs, outTargets, nil
}
