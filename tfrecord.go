package motaug

// TFRecord export of augmented clips.

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
	"github.com/sensorable/motaug/protos"
	"go.uber.org/zap"
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// TFRecordOptions configures the TFRecord export.
type TFRecordOptions struct {
	NumShards   int    // Number of output files. Files get a -xxxxx-of-yyyyy suffix if > 1.
	Encoding    string // Image encoding, "jpg" or "png". Defaults to "jpg".
	JPEGQuality int    // Defaults to 95.
}

// toTFFeatures converts one view of one augmented frame to a feature map.
//
// The image is exported in its pre-normalization form when the record holds one, and boxes are
// written as corner coordinates normalized by the image size.
func toTFFeatures(c *AugmentedClip, frame, view int, names map[int64]string, opts TFRecordOptions) (
	TFFeatureMap, error) {

	img := c.Frames[frame][view]
	t := c.Targets[frame][view]
	if t == nil {
		return nil, errors.New("missing target")
	}
	if t.OriImage != nil {
		img = TensorImage(t.OriImage)
	}
	raster, err := img.ToRaster()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	format := "jpeg"
	if strings.ToLower(opts.Encoding) == "png" {
		format = "png"
		err = imaging.Encode(&buf, raster, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, raster, imaging.JPEG, imaging.JPEGQuality(opts.JPEGQuality))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode the image")
	}

	size := img.Size()
	source := c.Clip.Views[view][frame]
	f := make(TFFeatureMap, 24)
	f["image/height"] = size.Height
	f["image/width"] = size.Width
	f["image/filename"] = source.ImagePath
	f["image/source_id"] = strconv.FormatInt(t.ImageID, 10)
	f["image/encoded"] = buf.Bytes()
	f["image/format"] = format
	f["image/sequence"] = c.Clip.Sequence
	f["image/frame_index"] = source.Index
	f["image/view"] = view
	f["image/augmentation"] = c.Repeat

	n := len(t.Boxes)
	xmins := make([]float32, n)
	ymins := make([]float32, n)
	xmaxs := make([]float32, n)
	ymaxs := make([]float32, n)
	classes := make([]string, n)
	for i, b := range t.Boxes {
		if t.Normalized {
			b = CXCYWHToXYXY(b, 1, 1)
		} else {
			b = b.Scale(1/float64(size.Width), 1/float64(size.Height))
		}
		xmins[i], ymins[i], xmaxs[i], ymaxs[i] = float32(b[0]), float32(b[1]), float32(b[2]), float32(b[3])

		classes[i] = names[t.Labels[i]]
		if t.IsCrowd != nil && t.IsCrowd[i] {
			classes[i] = DontCare
		}
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = append([]int64{}, t.Labels...)

	if t.ObjIDs != nil {
		f["image/object/track_id"] = append([]int64{}, t.ObjIDs...)
	}
	if t.Area != nil {
		area := make([]float32, len(t.Area))
		for i, a := range t.Area {
			area[i] = float32(a)
		}
		f["image/object/area"] = area
	}
	if t.IsCrowd != nil {
		crowd := make([]int64, len(t.IsCrowd))
		for i, c := range t.IsCrowd {
			if c {
				crowd[i] = 1
			}
		}
		f["image/object/is_crowd"] = crowd
	}

	return f, nil
}

// WriteTFRecord serialises every view of every frame of clips as a tensorflow.Example to one or
// more TFRecord files stored under recordFilePath (with suffixes added when opts.NumShards > 1).
//
// The label map is written to labelMapPath.
func WriteTFRecord(recordFilePath, labelMapPath string, clips []AugmentedClip, labelMap LabelMap,
	opts TFRecordOptions, logger *zap.SugaredLogger) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if opts.NumShards <= 0 {
		opts.NumShards = 1
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 95
	}
	names := make(map[int64]string, len(labelMap))
	for k, v := range labelMap {
		names[v] = k
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, opts.NumShards)
	}

	var shardFile *os.File
	defer func() {
		if shardFile != nil {
			closeWithErrCheck(shardFile, &err)
		}
	}()
	shardSize := int(math.Ceil(float64(len(clips)) / float64(opts.NumShards)))
	shardIdx := -1
	written := 0

	// Convert and serialise one clip at a time.
	for i := range clips {
		c := &clips[i]

		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++

			// Close the previous shard file.
			if shardFile != nil {
				if err := shardFile.Close(); err != nil {
					return err
				}
				shardFile = nil
			}

			// Create the new shard file.
			shardPath := recordFilePath
			if opts.NumShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return errors.Wrapf(err, "failed to create shard at %q", shardPath)
			}
			shardFile = f
		}

		for frame := range c.Frames {
			for view := range c.Frames[frame] {
				features, err := toTFFeatures(c, frame, view, names, opts)
				if err != nil {
					logger.Warnf("Failed to convert frame %d view %d of %s: %v", frame, view, c.Clip.Name(), err)
					continue
				}

				// Write the example.
				if err := writeTFRecordExample(shardFile, example.New(features)); err != nil {
					return errors.Wrap(err, "failed to write example")
				}
				written++
			}
		}
	}
	logger.Infow("Wrote TFRecord", "path", recordFilePath, "examples", written, "shards", shardIdx+1)

	return SaveLabelMap(labelMapPath, labelMap)
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// SaveLabelMap converts labelMap to the prototxt format of the TensorFlow object detection
// StringIntLabelMap and writes it to path.
func SaveLabelMap(path string, labelMap LabelMap) (err error) {
	// Copy the label map into the protobuf structure.
	siLabelMap := &protos.StringIntLabelMap{}
	siLabelMap.Item = make([]*protos.StringIntLabelMapItem, 0, len(labelMap))
	for _, name := range labelMap.Names() {
		id := labelMap[name]
		if id <= 0 || id > math.MaxInt32 {
			return errors.Errorf("label %q has an id out of range: %d", name, id)
		}
		siLabelMap.Item = append(siLabelMap.Item, &protos.StringIntLabelMapItem{
			Name: proto.String(name),
			Id:   proto.Int32(int32(id)),
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create the label map file %q", path)
	}
	defer closeWithErrCheck(file, &err)

	if err := proto.MarshalText(file, siLabelMap); err != nil {
		return errors.Wrapf(err, "failed to write the label map %q", path)
	}

	return nil
}

// LoadLabelMap loads a label map in the format written by SaveLabelMap.
//
// If an error occurs because the file does not exist, then os.IsNotExist will return true for the
// cause of the error.
func LoadLabelMap(path string) (LabelMap, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}
	labelMap, err := parseLabelMap(string(text))
	return labelMap, errors.Wrapf(err, "failed to parse the label map %q", path)
}

func parseLabelMap(text string) (LabelMap, error) {
	var siLabelMap protos.StringIntLabelMap
	if err := proto.UnmarshalText(text, &siLabelMap); err != nil {
		return nil, err
	}

	labelMap := make(LabelMap, len(siLabelMap.Item))
	for _, item := range siLabelMap.Item {
		k, v := item.GetName(), item.GetId()
		if k == "" || v <= 0 {
			return nil, errors.Errorf("invalid entry: %q: %d", k, v)
		}
		if _, ok := labelMap[k]; ok {
			return nil, errors.Errorf("duplicate entry: %q", k)
		}
		labelMap[k] = int64(v)
	}

	return labelMap, nil
}
