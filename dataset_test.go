package motaug

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSequence(name string, indexes ...int) *Sequence {
	s := &Sequence{Name: name}
	for _, i := range indexes {
		s.Frames = append(s.Frames, Frame{
			Index:     i,
			ImagePath: fmt.Sprintf("%s/%06d.png", name, i),
			Size:      Size{Height: 10, Width: 10},
		})
	}
	return s
}

func TestLabelMap(t *testing.T) {
	m, err := NewLabelMap([]string{"Car", "Pedestrian", "Cyclist"})
	require.NoError(t, err)
	assert.Equal(t, LabelMap{"Car": 1, "Pedestrian": 2, "Cyclist": 3}, m)
	assert.Equal(t, []string{"Car", "Pedestrian", "Cyclist"}, m.Names())

	_, err = NewLabelMap([]string{"Car", "Car"})
	assert.Error(t, err)
	_, err = NewLabelMap([]string{""})
	assert.Error(t, err)

	s := newSequence("0000", 0, 1)
	s.Frames[0].Annotations = []Annotation{{Label: "Van"}, {Label: DontCare}}
	s.Frames[1].Annotations = []Annotation{{Label: "Car"}, {Label: "Van"}}
	assert.Equal(t, LabelMap{"Car": 1, "Van": 2}, BuildLabelMap([]*Sequence{s}))
}

func TestFrameTarget(t *testing.T) {
	f := Frame{
		Size: Size{Height: 80, Width: 100},
		Annotations: []Annotation{
			{Coords: Box{10, 20, 50, 60}, Label: "Car", TrackID: 1},
			{Coords: Box{0, 0, 5, 5}, Label: "Tram", TrackID: 2},
			{Coords: Box{70, 10, 90, 30}, Label: DontCare, TrackID: -1},
		},
	}
	tg := f.Target(LabelMap{"Car": 1}, 42)
	require.NoError(t, tg.Validate())

	assert.Equal(t, []Box{{10, 20, 50, 60}, {70, 10, 90, 30}}, tg.Boxes)
	assert.Equal(t, []int64{1, 0}, tg.Labels)
	assert.Equal(t, []float64{1600, 400}, tg.Area)
	assert.Equal(t, []bool{false, true}, tg.IsCrowd)
	assert.Equal(t, []int64{1, -1}, tg.ObjIDs)
	assert.Equal(t, f.Size, tg.Size)
	assert.Equal(t, f.Size, tg.OrigSize)
	assert.Equal(t, int64(42), tg.ImageID)

	empty := (&Frame{}).Target(LabelMap{}, 0)
	assert.Equal(t, 0, empty.Len())
	assert.NoError(t, empty.Validate())
}

func TestMapLabels(t *testing.T) {
	s := newSequence("0000", 0)
	s.Frames[0].Annotations = []Annotation{{Label: "Van"}, {Label: "Person_sitting"}, {Label: "Car"}}

	require.NoError(t, MapLabels([]*Sequence{s}, []string{"Van=Car", "Person_sitting=Pedestrian"}, testLogger()))
	labels := make([]string, 0, 3)
	for _, a := range s.Frames[0].Annotations {
		labels = append(labels, a.Label)
	}
	assert.Equal(t, []string{"Car", "Pedestrian", "Car"}, labels)

	assert.Error(t, MapLabels([]*Sequence{s}, []string{"Van"}, testLogger()))
}

func TestFilter(t *testing.T) {
	s := newSequence("0000", 0)
	s.Frames[0].Annotations = []Annotation{
		{Coords: Box{0, 0, 20, 20}, Label: "Car"},
		{Coords: Box{0, 0, 20, 20}, Label: "Tram"},
		{Coords: Box{0, 0, 5, 20}, Label: "Car"},
		{Coords: Box{0, 0, 20, 20}, Label: DontCare},
	}

	Filter([]*Sequence{s}, []string{"Car"}, 10, 10, 0, testLogger())
	require.Len(t, s.Frames[0].Annotations, 2)
	assert.Equal(t, "Car", s.Frames[0].Annotations[0].Label)
	assert.Equal(t, DontCare, s.Frames[0].Annotations[1].Label)

	// Without label names every label is kept.
	s.Frames[0].Annotations = append(s.Frames[0].Annotations, Annotation{Coords: Box{0, 0, 20, 20}, Label: "Tram"})
	Filter([]*Sequence{s}, nil, 0, 0, 0, testLogger())
	assert.Len(t, s.Frames[0].Annotations, 3)
}

func TestFilterByScore(t *testing.T) {
	s := newSequence("0000", 0)
	s.Frames[0].Annotations = []Annotation{
		{Coords: Box{0, 0, 20, 20}, Label: "Car", Score: 0.9},
		{Coords: Box{0, 0, 20, 20}, Label: "Car", Score: 0.2},
		{Coords: Box{0, 0, 20, 20}, Label: DontCare},
	}

	Filter([]*Sequence{s}, nil, 0, 0, 0.5, testLogger())
	require.Len(t, s.Frames[0].Annotations, 2)
	assert.Equal(t, 0.9, s.Frames[0].Annotations[0].Score)
	assert.Equal(t, DontCare, s.Frames[0].Annotations[1].Label)
}

func TestCutClips(t *testing.T) {
	clips, err := CutClips([][]*Sequence{{newSequence("0000", 0, 1, 2, 3, 4)}}, 2, 2)
	require.NoError(t, err)
	require.Len(t, clips, 2)
	assert.Equal(t, "0000-000000", clips[0].Name())
	assert.Equal(t, "0000-000002", clips[1].Name())
	require.Len(t, clips[1].Views, 1)
	assert.Equal(t, 2, clips[1].Views[0][0].Index)
	assert.Equal(t, 3, clips[1].Views[0][1].Index)

	// Overlapping clips.
	clips, err = CutClips([][]*Sequence{{newSequence("0000", 0, 1, 2, 3)}}, 3, 1)
	require.NoError(t, err)
	assert.Len(t, clips, 2)

	// Sequences shorter than a clip yield nothing.
	clips, err = CutClips([][]*Sequence{{newSequence("0000", 0)}}, 2, 1)
	require.NoError(t, err)
	assert.Empty(t, clips)

	_, err = CutClips(nil, 2, 2)
	assert.Error(t, err)
	_, err = CutClips([][]*Sequence{{newSequence("0000", 0)}}, 0, 1)
	assert.Error(t, err)
}

func TestCutClipsAlignsViews(t *testing.T) {
	primary := []*Sequence{newSequence("0000", 0, 1, 2, 3, 4), newSequence("0001", 0, 1)}
	secondary := []*Sequence{newSequence("0000", 0, 1, 2, 4)}

	clips, err := CutClips([][]*Sequence{primary, secondary}, 2, 2)
	require.NoError(t, err)
	// Frame 3 is missing from the second view and 0001 has no second view at all.
	require.Len(t, clips, 2)
	for _, c := range clips {
		require.Len(t, c.Views, 2)
		for i := range c.Views[0] {
			assert.Equal(t, c.Views[0][i].Index, c.Views[1][i].Index)
		}
	}
	assert.Equal(t, []int{2, 4}, []int{clips[1].Views[0][0].Index, clips[1].Views[0][1].Index})
}

func TestSplitClips(t *testing.T) {
	var clips []Clip
	for i := 0; i < 200; i++ {
		clips = append(clips, Clip{Sequence: "0000", Start: i})
	}

	datasets, err := SplitClips(clips, []int{80, 100}, newRng(1))
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, len(clips), len(datasets[0])+len(datasets[1]))
	assert.Greater(t, len(datasets[0]), len(datasets[1]))

	again, err := SplitClips(clips, []int{80, 100}, newRng(1))
	require.NoError(t, err)
	assert.Equal(t, datasets, again)

	_, err = SplitClips(clips, []int{80, 90}, newRng(1))
	assert.Error(t, err)
	_, err = SplitClips(clips, []int{80, 50, 100}, newRng(1))
	assert.Error(t, err)
}
