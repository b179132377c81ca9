package motaug

// The annotation record carried alongside every frame.

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gorgonia.org/tensor"
)

var (
	// ErrMissingLabels is returned for a record that has boxes but no labels.
	ErrMissingLabels = errors.New("target has boxes but no labels")
	// ErrViewMismatch is returned when the images and records of a time step disagree on the
	// number of views, or the frames of a clip disagree on the number of views.
	ErrViewMismatch = errors.New("mismatched number of views")
	// ErrEmptySequence is returned when a sequence operator receives no frames.
	ErrEmptySequence = errors.New("empty frame sequence")
)

// Target is the annotation record of one view of one frame.
//
// All per-instance fields are index aligned: Boxes[k], Labels[k], Area[k], IsCrowd[k], ObjIDs[k]
// and Masks[k] describe the same instance. A nil slice means the field is absent, while an empty
// non-nil slice is a present field with zero instances.
//
// A Target is never modified by the primitives in this package. They return a new Target that
// shares the fields they did not rewrite, so callers must treat the slices as read only.
type Target struct {
	Boxes   []Box
	Labels  []int64
	Area    []float64
	IsCrowd []bool
	ObjIDs  []int64 // Track identities.
	Masks   []*image.Gray

	Size     Size  // The size of the current image, kept up to date by every geometric transform.
	OrigSize Size  // The size of the image as loaded. Never changed.
	ImageID  int64 // Opaque dataset id. Never changed.

	// Normalized is set once Boxes hold normalized cx, cy, w, h values.
	Normalized bool
	// OriImage is a snapshot of the image tensor just before normalization.
	OriImage *tensor.Dense
}

// Len returns the number of instances, taken from the first present per-instance field.
func (t *Target) Len() int {
	switch {
	case t.Boxes != nil:
		return len(t.Boxes)
	case t.Labels != nil:
		return len(t.Labels)
	case t.Masks != nil:
		return len(t.Masks)
	case t.Area != nil:
		return len(t.Area)
	case t.IsCrowd != nil:
		return len(t.IsCrowd)
	}
	return len(t.ObjIDs)
}

// Validate checks the index alignment of the per-instance fields. All problems are reported.
func (t *Target) Validate() error {
	if t == nil {
		return nil
	}
	var err error
	if t.Boxes != nil && t.Labels == nil {
		err = multierr.Append(err, ErrMissingLabels)
	}
	n := t.Len()
	check := func(name string, present bool, l int) {
		if present && l != n {
			err = multierr.Append(err, errors.Errorf("target field %s has %d entries, expected %d", name, l, n))
		}
	}
	check("labels", t.Labels != nil, len(t.Labels))
	check("area", t.Area != nil, len(t.Area))
	check("iscrowd", t.IsCrowd != nil, len(t.IsCrowd))
	check("obj_ids", t.ObjIDs != nil, len(t.ObjIDs))
	check("masks", t.Masks != nil, len(t.Masks))
	for i, m := range t.Masks {
		if m == nil {
			err = multierr.Append(err, errors.Errorf("target mask %d is nil", i))
		}
	}
	return err
}

// clone returns a shallow copy of t, or nil when t is nil.
func (t *Target) clone() *Target {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// filter keeps the instances for which keep is true, preserving their order. Every present
// per-instance field is rebuilt, the inputs are left untouched.
func (t *Target) filter(keep []bool) {
	t.Boxes = filterSlice(t.Boxes, keep)
	t.Labels = filterSlice(t.Labels, keep)
	t.Area = filterSlice(t.Area, keep)
	t.IsCrowd = filterSlice(t.IsCrowd, keep)
	t.ObjIDs = filterSlice(t.ObjIDs, keep)
	t.Masks = filterSlice(t.Masks, keep)
}

func filterSlice[T any](s []T, keep []bool) []T {
	if s == nil {
		return nil
	}
	out := make([]T, 0, len(s))
	for i, v := range s {
		if keep[i] {
			out = append(out, v)
		}
	}
	return out
}

// keepMask computes which instances survive a geometric transform. Boxes take precedence: an
// instance is kept when its box has positive width and height. Without boxes, an instance is kept
// when its mask has at least one set pixel. Nil means nothing decides, keep everything.
func (t *Target) keepMask() []bool {
	switch {
	case t.Boxes != nil:
		keep := make([]bool, len(t.Boxes))
		for i, b := range t.Boxes {
			keep[i] = b.Valid()
		}
		return keep
	case t.Masks != nil:
		keep := make([]bool, len(t.Masks))
		for i, m := range t.Masks {
			keep[i] = maskAny(m)
		}
		return keep
	}
	return nil
}

// Views holds the images of one time step, one per camera view. View 0 is the primary view.
type Views []Image

// ViewTargets holds the records of one time step, index aligned with Views.
type ViewTargets []*Target

// checkSequence verifies that a sequence has frames and one record per frame.
func checkSequence(imgs []Image, targets []*Target) error {
	if len(imgs) == 0 {
		return ErrEmptySequence
	}
	if targets != nil && len(targets) != len(imgs) {
		return errors.Errorf("sequence has %d images but %d targets", len(imgs), len(targets))
	}
	return nil
}

// checkMultiView verifies that every time step has the same number of views and records.
func checkMultiView(frames []Views, targets []ViewTargets) (int, error) {
	if len(frames) == 0 {
		return 0, ErrEmptySequence
	}
	if targets != nil && len(targets) != len(frames) {
		return 0, errors.Errorf("multi-view sequence has %d frames but %d targets", len(frames), len(targets))
	}
	nViews := len(frames[0])
	if nViews == 0 {
		return 0, errors.Wrap(ErrViewMismatch, "frame 0 has no views")
	}
	for i, f := range frames {
		if len(f) != nViews {
			return 0, errors.Wrapf(ErrViewMismatch, "frame %d has %d views, frame 0 has %d", i, len(f), nViews)
		}
		if targets != nil && targets[i] != nil && len(targets[i]) != nViews {
			return 0, errors.Wrapf(ErrViewMismatch, "frame %d has %d views but %d targets", i, nViews, len(targets[i]))
		}
	}
	return nViews, nil
}

// targetAt returns targets[i], tolerating a nil slice.
func targetAt(targets []*Target, i int) *Target {
	if targets == nil {
		return nil
	}
	return targets[i]
}

// viewTargetAt returns targets[frame][view], tolerating nil slices.
func viewTargetAt(targets []ViewTargets, frame, view int) *Target {
	if targets == nil || targets[frame] == nil {
		return nil
	}
	return targets[frame][view]
}
