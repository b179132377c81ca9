package motaug

// The in-memory dataset representation fed to the augmentation pipeline.

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DontCare is the KITTI label of regions whose objects are not annotated individually. Such
// annotations become crowd instances.
const DontCare = "DontCare"

// Annotation is a single labelled object in a frame.
type Annotation struct {
	Coords  Box // Absolute x1, y1, x2, y2 offsets from the top-left corner.
	Label   string
	TrackID int64   // Identity of the object across the frames of its sequence. -1 if unknown.
	Score   float64 // Optional, linear confidence value. No fixed range.
}

// Width is the object width from a.Coords.
func (a Annotation) Width() float64 {
	return a.Coords.Width()
}

// Height is the object height from a.Coords.
func (a Annotation) Height() float64 {
	return a.Coords.Height()
}

// Frame is one annotated image of a sequence.
type Frame struct {
	Index       int    // Frame number within the sequence.
	ImagePath   string // The annotated image.
	Size        Size   // Image size as stored on disk.
	Annotations []Annotation
}

// Sequence is an ordered list of frames from one camera.
type Sequence struct {
	Name   string
	Frames []Frame
}

// LabelMap assigns class ids to label names. Ids start at 1, 0 is reserved for the background.
type LabelMap map[string]int64

// NewLabelMap assigns ids to names in the given order.
func NewLabelMap(names []string) (LabelMap, error) {
	m := make(LabelMap, len(names))
	for i, name := range names {
		if name == "" {
			return nil, errors.New("empty label name")
		}
		if _, ok := m[name]; ok {
			return nil, errors.Errorf("duplicate label %q", name)
		}
		m[name] = int64(i + 1)
	}
	return m, nil
}

// BuildLabelMap assigns ids to all labels found in seqs, in alphabetical order. DontCare is never
// part of the map.
func BuildLabelMap(seqs []*Sequence) LabelMap {
	seen := make(map[string]bool)
	for _, s := range seqs {
		for _, f := range s.Frames {
			for _, a := range f.Annotations {
				if a.Label != DontCare {
					seen[a.Label] = true
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	m, _ := NewLabelMap(names)
	return m
}

// Names returns the label names ordered by id.
func (m LabelMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return m[names[i]] < m[names[j]] })
	return names
}

// Target builds the annotation record of the frame. Labels missing from labelMap are dropped,
// except DontCare regions, which are kept as crowd instances with the background class.
func (f *Frame) Target(labelMap LabelMap, imageID int64) *Target {
	t := &Target{
		Boxes:    make([]Box, 0, len(f.Annotations)),
		Labels:   make([]int64, 0, len(f.Annotations)),
		Area:     make([]float64, 0, len(f.Annotations)),
		IsCrowd:  make([]bool, 0, len(f.Annotations)),
		ObjIDs:   make([]int64, 0, len(f.Annotations)),
		Size:     f.Size,
		OrigSize: f.Size,
		ImageID:  imageID,
	}
	for _, a := range f.Annotations {
		id, ok := labelMap[a.Label]
		crowd := a.Label == DontCare
		if !ok && !crowd {
			continue
		}
		t.Boxes = append(t.Boxes, a.Coords)
		t.Labels = append(t.Labels, id)
		t.Area = append(t.Area, a.Coords.Area())
		t.IsCrowd = append(t.IsCrowd, crowd)
		t.ObjIDs = append(t.ObjIDs, a.TrackID)
	}
	return t
}

// MapLabels replaces label (sub-)strings with substitution values, as specified in mappings.
//
// The format of mappings is old=new.
func MapLabels(seqs []*Sequence, mappings []string, logger *zap.SugaredLogger) error {
	if len(mappings) == 0 {
		return nil
	}

	// Extract the individual old and new strings to map between.
	replacements := make([]struct{ old, new string }, len(mappings))
	for i, v := range mappings {
		a := strings.Split(v, "=")
		if len(a) != 2 {
			return errors.Errorf("invalid mapping: %v", v)
		}

		replacements[i].old = a[0]
		replacements[i].new = a[1]
	}

	// Apply the replacements, in order, to all labels.
	count := 0
	for _, s := range seqs {
		for fi := range s.Frames {
			f := &s.Frames[fi]
			for i := range f.Annotations {
				a := &f.Annotations[i]

				oldLabel := a.Label
				for _, r := range replacements {
					a.Label = strings.Replace(a.Label, r.old, r.new, -1)
				}

				if a.Label != oldLabel {
					count++
				}
			}
		}
	}

	logger.Infof("The label mappings changed %d labels", count)
	return nil
}

// Filter removes annotations which do not match any of the given labelNames (DontCare regions are
// always kept), or have a bounding box narrower than minBboxWidth or lower than minBboxHeight. A
// positive minScore also removes objects scoring below it, which lets tracker output serve as
// pseudo labels.
func Filter(seqs []*Sequence, labelNames []string, minBboxWidth, minBboxHeight, minScore float64,
	logger *zap.SugaredLogger) {

	allowed := make(map[string]bool, len(labelNames))
	for _, name := range labelNames {
		allowed[name] = true
	}

	before, after := 0, 0
	for _, s := range seqs {
		for fi := range s.Frames {
			f := &s.Frames[fi]
			before += len(f.Annotations)
			kept := f.Annotations[:0]
			for _, a := range f.Annotations {
				if a.Label != DontCare && len(allowed) > 0 && !allowed[a.Label] {
					continue
				}
				if a.Width() < minBboxWidth || a.Height() < minBboxHeight {
					continue
				}
				if minScore > 0 && a.Label != DontCare && a.Score < minScore {
					continue
				}
				kept = append(kept, a)
			}
			f.Annotations = kept
			after += len(kept)
		}
	}

	logger.Infof("Filtered out %d labels", before-after)
}

// Clip is a run of consecutive frames cut from a sequence, with one frame list per camera view.
type Clip struct {
	Sequence string
	Start    int       // Index of the first frame.
	Views    [][]Frame // Indexed by view, then by frame.
}

// Name identifies the clip, e.g. "0003-000120".
func (c *Clip) Name() string {
	return fmt.Sprintf("%s-%06d", c.Sequence, c.Start)
}

// CutClips cuts sequences into clips of length frames, starting a new clip every stride frames.
// views[v] holds the sequences of camera view v. Sequences are matched across views by name and
// frames by index; frames missing from any view are skipped.
func CutClips(views [][]*Sequence, length, stride int) ([]Clip, error) {
	if len(views) == 0 {
		return nil, errors.New("no views to cut clips from")
	}
	if length <= 0 || stride <= 0 {
		return nil, errors.Errorf("invalid clip length %d or stride %d", length, stride)
	}

	byName := make([]map[string]*Sequence, len(views))
	for v, seqs := range views {
		byName[v] = make(map[string]*Sequence, len(seqs))
		for _, s := range seqs {
			byName[v][s.Name] = s
		}
	}

	var clips []Clip
	for _, primary := range views[0] {
		// Collect the frames present in every view, indexed like the primary view.
		aligned := make([][]Frame, len(views))
	frameLoop:
		for _, f := range primary.Frames {
			row := make([]Frame, len(views))
			row[0] = f
			for v := 1; v < len(views); v++ {
				s, ok := byName[v][primary.Name]
				if !ok {
					break frameLoop
				}
				other, ok := s.frame(f.Index)
				if !ok {
					continue frameLoop
				}
				row[v] = other
			}
			for v := range views {
				aligned[v] = append(aligned[v], row[v])
			}
		}

		for start := 0; start+length <= len(aligned[0]); start += stride {
			clip := Clip{
				Sequence: primary.Name,
				Start:    aligned[0][start].Index,
				Views:    make([][]Frame, len(views)),
			}
			for v := range views {
				clip.Views[v] = aligned[v][start : start+length]
			}
			clips = append(clips, clip)
		}
	}
	return clips, nil
}

func (s *Sequence) frame(index int) (Frame, bool) {
	i := sort.Search(len(s.Frames), func(i int) bool { return s.Frames[i].Index >= index })
	if i < len(s.Frames) && s.Frames[i].Index == index {
		return s.Frames[i], true
	}
	return Frame{}, false
}

// SplitClips randomly splits clips into multiple datasets.
//
// The cumulativeSplits specify the cumulative distribution according to which the clips are split
// into the returned datasets. Its values must add up to 100!
func SplitClips(clips []Clip, cumulativeSplits []int, rng *rand.Rand) ([][]Clip, error) {
	datasets := make([][]Clip, len(cumulativeSplits))

	// Allocate slightly more than the expected size for each dataset.
	var sum int
	for i, s := range cumulativeSplits {
		if s < sum {
			return nil, errors.New("the split percentages must be cumulative")
		}
		percent := s - sum
		datasets[i] = make([]Clip, 0, int(1.05*float64(percent)/100*float64(len(clips))))
		sum = s
	}
	if sum != 100 {
		return nil, errors.New("the split percentages do not add up to 100")
	}

outer:
	for _, c := range clips {
		r := rng.Intn(100)
		for i, s := range cumulativeSplits {
			if r < s {
				datasets[i] = append(datasets[i], c)
				continue outer
			}
		}
	}

	return datasets, nil
}
