package motaug

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Compose chains operators, feeding the output of each into the next.
type Compose []Operator

// Apply runs every operator on a single image.
func (c Compose) Apply(rng *rand.Rand, img Image, t *Target) (Image, *Target, error) {
	var err error
	for i, op := range c {
		if img, t, err = op.Apply(rng, img, t); err != nil {
			return Image{}, nil, errors.Wrapf(err, "step %d", i)
		}
	}
	return img, t, nil
}

// ApplySequence runs every operator on a clip.
func (c Compose) ApplySequence(rng *rand.Rand, imgs []Image, targets []*Target) (
	[]Image, []*Target, error) {

	if err := checkSequence(imgs, targets); err != nil {
		return nil, nil, err
	}
	var err error
	for i, op := range c {
		if imgs, targets, err = op.ApplySequence(rng, imgs, targets); err != nil {
			return nil, nil, errors.Wrapf(err, "step %d", i)
		}
	}
	return imgs, targets, nil
}

// ApplyMultiView runs every operator on a multi-view clip.
func (c Compose) ApplyMultiView(rng *rand.Rand, frames []Views, targets []ViewTargets) (
	[]Views, []ViewTargets, error) {

	if _, err := checkMultiView(frames, targets); err != nil {
		return nil, nil, err
	}
	var err error
	for i, op := range c {
		if frames, targets, err = op.ApplyMultiView(rng, frames, targets); err != nil {
			return nil, nil, errors.Wrapf(err, "step %d", i)
		}
	}
	return frames, targets, nil
}

// RandomSelect applies First with probability P and Second otherwise.
type RandomSelect struct {
	First, Second Operator
	P             float64
}

// NewRandomSelect returns a RandomSelect choosing first with probability p.
func NewRandomSelect(first, second Operator, p float64) (*RandomSelect, error) {
	if first == nil || second == nil {
		return nil, errors.New("random_select needs two operators")
	}
	if err := validateProb(p); err != nil {
		return nil, err
	}
	return &RandomSelect{First: first, Second: second, P: p}, nil
}

func (s *RandomSelect) pick(rng *rand.Rand) Operator {
	if rng.Float64() < s.P {
		return s.First
	}
	return s.Second
}

// Apply runs the chosen operator on a single image.
func (s *RandomSelect) Apply(rng *rand.Rand, img Image, t *Target) (Image, *Target, error) {
	return s.pick(rng).Apply(rng, img, t)
}

// ApplySequence runs the chosen operator on a clip.
func (s *RandomSelect) ApplySequence(rng *rand.Rand, imgs []Image, targets []*Target) (
	[]Image, []*Target, error) {

	return s.pick(rng).ApplySequence(rng, imgs, targets)
}

// ApplyMultiView runs the chosen operator on a multi-view clip.
func (s *RandomSelect) ApplyMultiView(rng *rand.Rand, frames []Views, targets []ViewTargets) (
	[]Views, []ViewTargets, error) {

	return s.pick(rng).ApplyMultiView(rng, frames, targets)
}
