package motaug

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AugmentedClip is one augmented sample of a clip. Frames and Targets are indexed by frame, then
// by view.
type AugmentedClip struct {
	Clip    Clip
	Repeat  int // Which of the samples of Clip this is.
	Frames  []Views
	Targets []ViewTargets
}

// Augmenter runs a pipeline over clips.
type Augmenter struct {
	Pipeline Operator
	LabelMap LabelMap
	Seed     int64 // Base seed. Sample k of the run is augmented with seed Seed+k.
	Repeats  int   // Augmented samples per clip. Defaults to 1.
	Workers  int   // Concurrently processed samples. Defaults to 2 * runtime.NumCPU().
	Logger   *zap.SugaredLogger
}

// Run augments every clip Repeats times and returns the samples in clip order. Each sample draws
// from its own generator, so the output does not depend on scheduling.
func (a *Augmenter) Run(ctx context.Context, clips []Clip) ([]AugmentedClip, error) {
	repeats := a.Repeats
	if repeats <= 0 {
		repeats = 1
	}
	workers := a.Workers
	if workers <= 0 {
		workers = 2 * runtime.NumCPU()
	}
	a.Logger.Infow("Augmenting clips", "clips", len(clips), "repeats", repeats, "workers", workers)

	out := make([]AugmentedClip, len(clips)*repeats)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			clip := clips[i/repeats]
			rng := rand.New(rand.NewSource(a.Seed + int64(i)))
			frames, targets, err := a.augmentClip(rng, &clip, int64(i))
			if err != nil {
				return errors.Wrapf(err, "clip %s", clip.Name())
			}
			out[i] = AugmentedClip{Clip: clip, Repeat: i % repeats, Frames: frames, Targets: targets}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.Logger.Infow("Augmented clips", "samples", len(out))
	return out, nil
}

// augmentClip loads the images of the clip and runs the pipeline. Clips with a single view take
// the sequence path, others the multi-view path.
func (a *Augmenter) augmentClip(rng *rand.Rand, clip *Clip, sample int64) ([]Views, []ViewTargets, error) {
	nViews := len(clip.Views)
	if nViews == 0 {
		return nil, nil, ErrViewMismatch
	}
	nFrames := len(clip.Views[0])
	frames := make([]Views, nFrames)
	targets := make([]ViewTargets, nFrames)
	for i := range frames {
		frames[i] = make(Views, nViews)
		targets[i] = make(ViewTargets, nViews)
		for v := range clip.Views {
			if len(clip.Views[v]) != nFrames {
				return nil, nil, errors.Wrapf(ErrViewMismatch, "view %d has %d frames, expected %d",
					v, len(clip.Views[v]), nFrames)
			}
			f := &clip.Views[v][i]
			img, err := LoadImage(f.ImagePath)
			if err != nil {
				return nil, nil, err
			}
			frames[i][v] = img
			targets[i][v] = f.Target(a.LabelMap, imageID(sample, i, v, nViews, nFrames))
		}
	}

	if nViews > 1 {
		return a.Pipeline.ApplyMultiView(rng, frames, targets)
	}

	imgs := make([]Image, nFrames)
	seqTargets := make([]*Target, nFrames)
	for i := range frames {
		imgs[i], seqTargets[i] = frames[i][0], targets[i][0]
	}
	imgs, seqTargets, err := a.Pipeline.ApplySequence(rng, imgs, seqTargets)
	if err != nil {
		return nil, nil, err
	}
	for i := range imgs {
		frames[i] = Views{imgs[i]}
		targets[i] = ViewTargets{seqTargets[i]}
	}
	return frames[:len(imgs)], targets[:len(imgs)], nil
}

// imageID numbers the images of a run consecutively.
func imageID(sample int64, frame, view, nViews, nFrames int) int64 {
	return (sample*int64(nFrames)+int64(frame))*int64(nViews) + int64(view)
}

// DumpImages saves every view of every frame of clips to dir, as files named
// <clip>-<repeat>-<frame>-<view>.<ext>. The extension selects the encoding (jpg, png or webp).
// Images are saved in their pre-normalization form when the record holds one.
func DumpImages(dir, ext string, clips []AugmentedClip, quality int) error {
	for _, c := range clips {
		for i, views := range c.Frames {
			for v, img := range views {
				if c.Targets != nil {
					if t := c.Targets[i][v]; t != nil && t.OriImage != nil {
						img = TensorImage(t.OriImage)
					}
				}
				name := fmt.Sprintf("%s-%02d-%02d-%d.%s", c.Clip.Name(), c.Repeat, i, v, ext)
				if err := SaveImage(filepath.Join(dir, name), img, quality); err != nil {
					return errors.Wrapf(err, "cannot save %q", name)
				}
			}
		}
	}
	return nil
}
