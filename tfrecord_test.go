package motaug

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAugmentedClip(name string, start int) AugmentedClip {
	tg := newTarget(Box{10, 5, 60, 25}, Box{0, 0, 20, 10})
	tg.Labels = []int64{1, 0}
	tg.IsCrowd = []bool{false, true}
	tg.ImageID = int64(start)
	return AugmentedClip{
		Clip: Clip{
			Sequence: name,
			Start:    start,
			Views:    [][]Frame{{{Index: start, ImagePath: "frame.png"}}},
		},
		Frames:  []Views{{newRaster(100, 50, color.White)}},
		Targets: []ViewTargets{{tg}},
	}
}

func TestToTFFeatures(t *testing.T) {
	c := newAugmentedClip("0000", 3)
	c.Repeat = 2
	names := map[int64]string{1: "Car"}

	f, err := toTFFeatures(&c, 0, 0, names, TFRecordOptions{Encoding: "png"})
	require.NoError(t, err)
	assert.Equal(t, 50, f["image/height"])
	assert.Equal(t, 100, f["image/width"])
	assert.Equal(t, "png", f["image/format"])
	assert.Equal(t, "frame.png", f["image/filename"])
	assert.Equal(t, "3", f["image/source_id"])
	assert.Equal(t, "0000", f["image/sequence"])
	assert.Equal(t, 3, f["image/frame_index"])
	assert.Equal(t, 2, f["image/augmentation"])
	assert.NotEmpty(t, f["image/encoded"])

	assert.InDeltaSlice(t, []float32{0.1, 0}, f["image/object/bbox/xmin"], 1e-6)
	assert.InDeltaSlice(t, []float32{0.1, 0}, f["image/object/bbox/ymin"], 1e-6)
	assert.InDeltaSlice(t, []float32{0.6, 0.2}, f["image/object/bbox/xmax"], 1e-6)
	assert.InDeltaSlice(t, []float32{0.5, 0.2}, f["image/object/bbox/ymax"], 1e-6)
	assert.Equal(t, []string{"Car", DontCare}, f["image/object/class/text"])
	assert.Equal(t, []int64{1, 0}, f["image/object/class/label"])
	assert.Equal(t, []int64{100, 101}, f["image/object/track_id"])
	assert.Equal(t, []int64{0, 1}, f["image/object/is_crowd"])
	assert.Equal(t, []float32{1000, 200}, f["image/object/area"])
}

func TestToTFFeaturesNormalizedRecord(t *testing.T) {
	c := newAugmentedClip("0000", 0)
	img, err := ToTensor(c.Frames[0][0])
	require.NoError(t, err)
	out, nt, err := Normalize(img, c.Targets[0][0], []float64{0.5, 0.5, 0.5}, []float64{0.5, 0.5, 0.5})
	require.NoError(t, err)
	c.Frames[0][0], c.Targets[0][0] = out, nt

	f, err := toTFFeatures(&c, 0, 0, map[int64]string{1: "Car"}, TFRecordOptions{JPEGQuality: 90})
	require.NoError(t, err)
	assert.Equal(t, "jpeg", f["image/format"])
	xmin := f["image/object/bbox/xmin"].([]float32)
	xmax := f["image/object/bbox/xmax"].([]float32)
	assert.InDelta(t, 0.1, xmin[0], 1e-6)
	assert.InDelta(t, 0.6, xmax[0], 1e-6)
}

func TestWriteTFRecord(t *testing.T) {
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "train.tfrecord")
	labelMapPath := filepath.Join(dir, "label_map.pbtxt")
	clips := []AugmentedClip{newAugmentedClip("0000", 0), newAugmentedClip("0000", 5), newAugmentedClip("0001", 0)}
	labelMap := LabelMap{"Car": 1}

	err := WriteTFRecord(recordPath, labelMapPath, clips, labelMap, TFRecordOptions{NumShards: 2}, testLogger())
	require.NoError(t, err)

	for _, suffix := range []string{"-00000-of-00002", "-00001-of-00002"} {
		info, err := os.Stat(recordPath + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	_, err = os.Stat(recordPath)
	assert.True(t, os.IsNotExist(err))

	loaded, err := LoadLabelMap(labelMapPath)
	require.NoError(t, err)
	assert.Equal(t, labelMap, loaded)

	// A single shard is written without suffix.
	err = WriteTFRecord(recordPath, labelMapPath, clips[:1], labelMap, TFRecordOptions{}, testLogger())
	require.NoError(t, err)
	_, err = os.Stat(recordPath)
	assert.NoError(t, err)
}

func TestLabelMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label_map.pbtxt")
	labelMap := LabelMap{"Car": 1, "Pedestrian": 2, `Odd "name" {}`: 3}
	require.NoError(t, SaveLabelMap(path, labelMap))

	text, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(text), `name: "Car"`)
	assert.Contains(t, string(text), "id: 2")

	loaded, err := LoadLabelMap(path)
	require.NoError(t, err)
	assert.Equal(t, labelMap, loaded)

	assert.Error(t, SaveLabelMap(path, LabelMap{"Car": 1 << 40}))
	assert.Error(t, SaveLabelMap(path, LabelMap{"Car": 0}))

	_, err = LoadLabelMap(filepath.Join(t.TempDir(), "missing.pbtxt"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestParseLabelMap(t *testing.T) {
	m, err := parseLabelMap(`
item {
  id: 2
  name: "Cyclist"
}
item { display_name: "Car" name: "car" id: 1 }
item: < name: "ped}" id: 3 >
`)
	require.NoError(t, err)
	assert.Equal(t, LabelMap{"Cyclist": 2, "car": 1, "ped}": 3}, m)

	for _, text := range []string{
		`item { name: "Car" }`,
		`item { name: "Car" id: 0 }`,
		`item { id: 1 }`,
		`item { name: "Car" id: 1 } item { name: "Car" id: 2 }`,
		`item { name: "Car" id: 1 color: "red" }`,
		`item { name: "Car" id: 1`,
	} {
		_, err := parseLabelMap(text)
		assert.Error(t, err, text)
	}
}
