package motaug

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// maxStatSamples bounds the number of pixels sampled per image.
const maxStatSamples = 1 << 14

// ChannelStats computes the per-channel mean and standard deviation of the RGB samples, scaled to
// [0, 1], of the images at paths. The results are the mean and std parameters of normalize.
//
// Up to maxStatSamples evenly spaced pixels are sampled from each image.
func ChannelStats(paths []string, logger *zap.SugaredLogger) (mean, std []float64, err error) {
	if len(paths) == 0 {
		return nil, nil, errors.New("no images to compute statistics from")
	}

	var samples [3][]float64
	for i, path := range paths {
		img, err := LoadImage(path)
		if err != nil {
			return nil, nil, err
		}
		ti, err := ToTensor(img)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "cannot convert %q", path)
		}
		_, h, w := chwShape(ti.Tensor)
		data := chwData(ti.Tensor)
		plane := h * w
		step := 1
		if plane > maxStatSamples {
			step = plane / maxStatSamples
		}
		for ch := 0; ch < 3; ch++ {
			for p := 0; p < plane; p += step {
				samples[ch] = append(samples[ch], float64(data[ch*plane+p]))
			}
		}
		if (i+1)%100 == 0 {
			logger.Infof("Sampled %d of %d images", i+1, len(paths))
		}
	}

	mean = make([]float64, 3)
	std = make([]float64, 3)
	for ch := range samples {
		mean[ch], std[ch] = stat.MeanStdDev(samples[ch], nil)
	}
	return mean, std, nil
}
