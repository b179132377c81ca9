package motaug

// KITTI tracking specific functionality.

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// KITTITrackingAnnotation is a single row of a KITTI tracking label file.
type KITTITrackingAnnotation struct {
	Frame   int
	TrackID int64
	Label   string
	Coords  [4]float64 // x1, y1, x2, y2
	Score   float64    // Optional, linear confidence value. No fixed range.
}

// FromKittiTracking reads the KITTI tracking labels in labelDir, one <sequence>.txt file per
// sequence, and matches them to the frames in imageDir/<sequence>/, which are named by their
// zero padded frame number (e.g. 000042.png). Frames without labels are included with no
// annotations.
func FromKittiTracking(labelDir, imageDir string, logger *zap.SugaredLogger) ([]*Sequence, error) {
	labelFiles, err := filesByExtInDir(labelDir, ".txt")
	if err != nil {
		return nil, err
	}
	sort.Strings(labelFiles)
	logger.Infof("Parsing KITTI tracking labels for %d sequences", len(labelFiles))

	seqs := make([]*Sequence, 0, len(labelFiles))
	for _, path := range labelFiles {
		seq, err := parseKittiSequence(path, imageDir, logger)
		if err != nil {
			logger.Warnf("Error while parsing, skipping %q: %v", path, err)
			continue
		}
		seqs = append(seqs, seq)
	}

	return seqs, nil
}

// parseKittiSequence parses the label file at path and matches the rows to the frame images.
func parseKittiSequence(path, imageDir string, logger *zap.SugaredLogger) (*Sequence, error) {
	_, name, _, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	frameDir := filepath.Join(imageDir, name)

	// Find the frame images and create a map from base file name without ext to ext.
	imageFiles, err := filesByExtInDir(frameDir, "")
	if err != nil {
		return nil, err
	}
	imageNamesToExt := mapFileNamesToExtensions(imageFiles, logger)

	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	byFrame := make(map[int][]Annotation)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		a, err := parseKittiTrackingAnnotation(line)
		if err != nil {
			logger.Warnf("Error while parsing %q, skipping row: %v", path, err)
			continue
		}
		byFrame[a.Frame] = append(byFrame[a.Frame], Annotation{
			Coords:  Box(a.Coords),
			Label:   a.Label,
			TrackID: a.TrackID,
			Score:   a.Score,
		})
	}

	seq := &Sequence{Name: name, Frames: make([]Frame, 0, len(imageNamesToExt))}
	for baseNoExt, ext := range imageNamesToExt {
		index, err := strconv.Atoi(baseNoExt)
		if err != nil {
			logger.Debugf("Skipping %q in %q: not a frame number", baseNoExt, frameDir)
			continue
		}
		imagePath := filepath.Join(frameDir, baseNoExt+"."+ext)
		config, _, err := decodeImageConfig(imagePath)
		if err != nil {
			logger.Warnf("Cannot read %q, skipping frame: %v", imagePath, err)
			continue
		}
		seq.Frames = append(seq.Frames, Frame{
			Index:       index,
			ImagePath:   imagePath,
			Size:        Size{Height: config.Height, Width: config.Width},
			Annotations: byFrame[index],
		})
		delete(byFrame, index)
	}
	sort.Slice(seq.Frames, func(i, j int) bool { return seq.Frames[i].Index < seq.Frames[j].Index })

	if len(byFrame) > 0 {
		logger.Warnf("%d labelled frames of %q have no image", len(byFrame), path)
	}
	if len(seq.Frames) == 0 {
		return nil, errors.Errorf("no frames found in %q", frameDir)
	}
	return seq, nil
}

// parseKittiTrackingAnnotation parses the line of values for a single annotation:
//
//	frame track_id type truncated occluded alpha x1 y1 x2 y2 h w l x y z rotation_y [score]
func parseKittiTrackingAnnotation(line string) (KITTITrackingAnnotation, error) {
	a := KITTITrackingAnnotation{}

	tokens := strings.Fields(line)
	if len(tokens) < 10 {
		return a, fmt.Errorf("insufficient tokens in %q", line)
	}

	var err error
	if a.Frame, err = strconv.Atoi(tokens[0]); err != nil {
		return a, fmt.Errorf("unexpected frame number in %q: %v", line, err)
	}
	if a.TrackID, err = strconv.ParseInt(tokens[1], 10, 64); err != nil {
		return a, fmt.Errorf("unexpected track id in %q: %v", line, err)
	}
	a.Label = tokens[2]
	for i := 6; i < 10 && err == nil; i++ {
		a.Coords[i-6], err = strconv.ParseFloat(tokens[i], 64)
	}
	if err != nil {
		return a, fmt.Errorf("unexpected values in %q: %v", line, err)
	}

	// Parse the optional confidence score.
	if len(tokens) >= 18 {
		a.Score, err = strconv.ParseFloat(tokens[17], 64)
	}
	if err != nil {
		return a, fmt.Errorf("unexpected score format in %q: %v", line, err)
	}

	return a, nil
}
