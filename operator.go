package motaug

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Operator is a randomized transform. Every call draws its randomness from rng, so a pipeline run
// is reproducible given the seed, and concurrent workers stay independent as long as each owns its
// generator.
//
// Operators support three calling conventions. Apply transforms one image and its record.
// ApplySequence transforms the frames of a clip; parameters are sampled once per call and shared by
// every frame unless the operator says otherwise. ApplyMultiView transforms a clip of time-aligned
// views; parameters are shared by every frame and view, while each view keeps its own record and is
// filtered by its own keep mask.
//
// Records may be nil, in which case only images are transformed. Operators never modify their
// arguments.
type Operator interface {
	Apply(rng *rand.Rand, img Image, t *Target) (Image, *Target, error)
	ApplySequence(rng *rand.Rand, imgs []Image, targets []*Target) ([]Image, []*Target, error)
	ApplyMultiView(rng *rand.Rand, frames []Views, targets []ViewTargets) ([]Views, []ViewTargets, error)
}

// paramOp implements the three calling conventions for operators that sample a parameter of type
// P once per call and apply it to every image. sample receives the first image of the call.
type paramOp[P any] struct {
	name   string
	sample func(rng *rand.Rand, ref Image) (P, error)
	apply  func(p P, img Image, t *Target) (Image, *Target, error)
}

func (o paramOp[P]) Apply(rng *rand.Rand, img Image, t *Target) (Image, *Target, error) {
	p, err := o.sample(rng, img)
	if err != nil {
		return Image{}, nil, errors.Wrap(err, o.name)
	}
	out, nt, err := o.apply(p, img, t)
	if err != nil {
		return Image{}, nil, errors.Wrap(err, o.name)
	}
	return out, nt, nil
}

func (o paramOp[P]) ApplySequence(rng *rand.Rand, imgs []Image, targets []*Target) (
	[]Image, []*Target, error) {

	if err := checkSequence(imgs, targets); err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}
	p, err := o.sample(rng, imgs[0])
	if err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}

	outImgs := make([]Image, len(imgs))
	outTargets := make([]*Target, len(imgs))
	for i, img := range imgs {
		outImgs[i], outTargets[i], err = o.apply(p, img, targetAt(targets, i))
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s: frame %d", o.name, i)
		}
	}
	if targets == nil {
		outTargets = nil
	}
	return outImgs, outTargets, nil
}

func (o paramOp[P]) ApplyMultiView(rng *rand.Rand, frames []Views, targets []ViewTargets) (
	[]Views, []ViewTargets, error) {

	nViews, err := checkMultiView(frames, targets)
	if err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}
	p, err := o.sample(rng, frames[0][0])
	if err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}

	outFrames := make([]Views, len(frames))
	outTargets := make([]ViewTargets, len(frames))
	for i, views := range frames {
		outFrames[i] = make(Views, nViews)
		outTargets[i] = make(ViewTargets, nViews)
		for v, img := range views {
			outFrames[i][v], outTargets[i][v], err = o.apply(p, img, viewTargetAt(targets, i, v))
			if err != nil {
				return nil, nil, errors.Wrapf(err, "%s: frame %d view %d", o.name, i, v)
			}
		}
	}
	if targets == nil {
		outTargets = nil
	}
	return outFrames, outTargets, nil
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// randUniform returns a uniform float in [lo, hi).
func randUniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// sequenceOp adapts an operator that is only defined on sequences. Apply treats the image as a
// one-frame sequence and ApplyMultiView runs the sequence transform once per view, replaying the
// same draws for every view.
type sequenceOp struct {
	name string
	seq  func(rng *rand.Rand, imgs []Image, targets []*Target) ([]Image, []*Target, error)
}

func (o sequenceOp) Apply(rng *rand.Rand, img Image, t *Target) (Image, *Target, error) {
	var targets []*Target
	if t != nil {
		targets = []*Target{t}
	}
	imgs, outTargets, err := o.seq(rng, []Image{img}, targets)
	if err != nil {
		return Image{}, nil, errors.Wrap(err, o.name)
	}
	return imgs[0], targetAt(outTargets, 0), nil
}

func (o sequenceOp) ApplySequence(rng *rand.Rand, imgs []Image, targets []*Target) (
	[]Image, []*Target, error) {

	if err := checkSequence(imgs, targets); err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}
	outImgs, outTargets, err := o.seq(rng, imgs, targets)
	if err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}
	return outImgs, outTargets, nil
}

func (o sequenceOp) ApplyMultiView(rng *rand.Rand, frames []Views, targets []ViewTargets) (
	[]Views, []ViewTargets, error) {

	nViews, err := checkMultiView(frames, targets)
	if err != nil {
		return nil, nil, errors.Wrap(err, o.name)
	}

	// Every view replays the generator state of view 0 so that all views see the same draws.
	state := rng.Int63()
	outFrames := make([]Views, len(frames))
	var outTargets []ViewTargets
	if targets != nil {
		outTargets = make([]ViewTargets, len(frames))
	}
	for i := range frames {
		outFrames[i] = make(Views, nViews)
		if outTargets != nil {
			outTargets[i] = make(ViewTargets, nViews)
		}
	}
	for v := 0; v < nViews; v++ {
		imgs := make([]Image, len(frames))
		var viewTargets []*Target
		if targets != nil {
			viewTargets = make([]*Target, len(frames))
		}
		for i := range frames {
			imgs[i] = frames[i][v]
			if viewTargets != nil {
				viewTargets[i] = viewTargetAt(targets, i, v)
			}
		}
		outImgs, outViewTargets, err := o.seq(rand.New(rand.NewSource(state)), imgs, viewTargets)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "%s: view %d", o.name, v)
		}
		for i := range frames {
			outFrames[i][v] = outImgs[i]
			if outTargets != nil {
				outTargets[i][v] = outViewTargets[i]
			}
		}
	}
	return outFrames, outTargets, nil
}
