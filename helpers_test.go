package motaug

import (
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorgonia.org/tensor"
)

func newRaster(w, h int, c color.Color) Image {
	return RasterImage(imaging.New(w, h, c))
}

func newTensor(c, h, w int, v float32) Image {
	data := make([]float32, c*h*w)
	for i := range data {
		data[i] = v
	}
	return TensorImage(tensor.New(tensor.WithShape(c, h, w), tensor.WithBacking(data)))
}

// newMask returns a w x h mask with the given pixels set.
func newMask(w, h int, set ...image.Point) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for _, p := range set {
		m.SetGray(p.X, p.Y, color.Gray{Y: 255})
	}
	return m
}

func newTarget(boxes ...Box) *Target {
	t := &Target{
		Boxes:   append([]Box{}, boxes...),
		Labels:  make([]int64, len(boxes)),
		Area:    make([]float64, len(boxes)),
		IsCrowd: make([]bool, len(boxes)),
		ObjIDs:  make([]int64, len(boxes)),
	}
	for i, b := range boxes {
		t.Labels[i] = int64(i + 1)
		t.Area[i] = b.Area()
		t.ObjIDs[i] = int64(100 + i)
	}
	return t
}

func newRng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func requireBoxesInDelta(t *testing.T, expected, actual []Box) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		for k := 0; k < 4; k++ {
			require.InDelta(t, expected[i][k], actual[i][k], 1e-9, "box %d coordinate %d", i, k)
		}
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}

// writeImage saves a solid w x h image to path, creating missing directories.
func writeImage(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
}
