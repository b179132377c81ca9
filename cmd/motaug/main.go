// Augments annotated tracking clips with a configurable transform pipeline and exports the results
// as TFRecord files, or computes the channel statistics used by the normalize transform.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/sensorable/motaug"
)

const (
	// Flags.
	flagDebug        = "debug"
	flagLabels       = "labels"
	flagImages       = "images"
	flagPipeline     = "pipeline"
	flagOut          = "out"
	flagSplit        = "split"
	flagLabelMap     = "label-map"
	flagLabelMapOut  = "label-map-out"
	flagMapLabels    = "map-labels"
	flagFilterLabels = "filter-labels"
	flagMinBboxW     = "min-bbox-width"
	flagMinBboxH     = "min-bbox-height"
	flagMinScore     = "min-score"
	flagClipLength   = "clip-length"
	flagClipStride   = "clip-stride"
	flagRepeats      = "repeats"
	flagSeed         = "seed"
	flagWorkers      = "workers"
	flagNumShards    = "num-shards"
	flagImageEnc     = "image-enc"
	flagJPEGQuality  = "jpeg-quality"
	flagDumpDir      = "dump-dir"
	flagDumpEnc      = "dump-enc"
	flagGlob         = "glob"
)

func main() {
	var logger *zap.SugaredLogger

	app := &cli.App{
		Name:  "motaug",
		Usage: "augment annotated tracking clips",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			var l *zap.Logger
			var err error
			if c.Bool(flagDebug) {
				l, err = zap.NewDevelopment()
			} else {
				l, err = zap.NewProduction()
			}
			if err != nil {
				return err
			}
			logger = l.Sugar()
			return nil
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "augment",
				Usage: "run a pipeline over KITTI tracking clips and write TFRecord files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     flagLabels,
						Required: true,
						Usage:    "KITTI tracking label `DIR`, one per camera view",
					},
					&cli.StringSliceFlag{
						Name:     flagImages,
						Required: true,
						Usage:    "image `DIR` with one sub-directory per sequence, one per camera view",
					},
					&cli.StringFlag{
						Name:     flagPipeline,
						Required: true,
						Usage:    "pipeline recipe JSON `FILE`",
					},
					&cli.StringSliceFlag{
						Name:     flagOut,
						Required: true,
						Usage:    "TFRecord output `PATH`, one per value in --split",
					},
					&cli.StringFlag{
						Name:  flagSplit,
						Value: "100",
						Usage: "comma-separated output split `PERCENT`s, must add up to 100",
					},
					&cli.StringFlag{
						Name:  flagLabelMap,
						Usage: "existing label map `FILE` to take class ids from",
					},
					&cli.StringFlag{
						Name:     flagLabelMapOut,
						Required: true,
						Usage:    "label map output `FILE`",
					},
					&cli.StringFlag{
						Name:  flagMapLabels,
						Usage: "comma-separated list of old=new label (sub-)string replacements",
					},
					&cli.StringFlag{
						Name:  flagFilterLabels,
						Usage: "comma-separated list of labels to keep (after map-labels; empty keeps all)",
					},
					&cli.Float64Flag{Name: flagMinBboxW, Usage: "min. bounding box width in `PIXELS`"},
					&cli.Float64Flag{Name: flagMinBboxH, Usage: "min. bounding box height in `PIXELS`"},
					&cli.Float64Flag{Name: flagMinScore, Usage: "min. object score, for tracker output (0 keeps all)"},
					&cli.IntFlag{Name: flagClipLength, Value: 5, Usage: "frames per clip"},
					&cli.IntFlag{Name: flagClipStride, Value: 5, Usage: "frames between clip starts"},
					&cli.IntFlag{Name: flagRepeats, Value: 1, Usage: "augmented samples per clip"},
					&cli.Int64Flag{Name: flagSeed, Value: 1, Usage: "random seed"},
					&cli.IntFlag{Name: flagWorkers, Usage: "concurrent workers (0 selects 2x the number of CPUs)"},
					&cli.IntFlag{Name: flagNumShards, Value: 1, Usage: "TFRecord shard files per output"},
					&cli.StringFlag{Name: flagImageEnc, Value: "jpg", Usage: "TFRecord image `ENCODING` {jpg, png}"},
					&cli.IntFlag{Name: flagJPEGQuality, Value: 90, Usage: "JPEG quality [1, 100]"},
					&cli.StringFlag{Name: flagDumpDir, Usage: "also save the augmented images to `DIR`"},
					&cli.StringFlag{Name: flagDumpEnc, Value: "jpg", Usage: "dumped image `ENCODING` {jpg, png, webp}"},
				},
				Action: func(c *cli.Context) error {
					return augment(c, logger)
				},
			},
			{
				Name:  "stats",
				Usage: "compute the per-channel mean and std of images for the normalize transform",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagGlob,
						Required: true,
						Usage:    "image file `PATTERN`, e.g. 'image_02/*/*.png'",
					},
				},
				Action: func(c *cli.Context) error {
					paths, err := filepath.Glob(c.String(flagGlob))
					if err != nil {
						return err
					}
					mean, std, err := motaug.ChannelStats(paths, logger)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "{\"mean\": %s, \"std\": %s}\n", floatList(mean), floatList(std))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func augment(c *cli.Context, logger *zap.SugaredLogger) error {
	labelDirs, imageDirs := c.StringSlice(flagLabels), c.StringSlice(flagImages)
	if len(labelDirs) != len(imageDirs) {
		return errors.New("--labels and --images must be given once per camera view")
	}
	outPaths := c.StringSlice(flagOut)
	splits, err := parseSplits(c.String(flagSplit))
	if err != nil {
		return err
	}
	if len(splits) != len(outPaths) {
		return errors.New("the number of output datasets defined by --split and the number of" +
			" paths in --out must match")
	}
	quality := c.Int(flagJPEGQuality)
	if quality < 1 || quality > 100 {
		quality = 92
		logger.Warnf("Invalid JPEG quality, setting it to %d", quality)
	}

	// Build the pipeline first so that recipe errors surface before any data is read.
	cfg, err := motaug.LoadPipelineConfig(c.String(flagPipeline))
	if err != nil {
		return err
	}
	pipeline, err := motaug.BuildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	// Parse input, one sequence list per view.
	views := make([][]*motaug.Sequence, len(labelDirs))
	var all []*motaug.Sequence
	for v := range labelDirs {
		seqs, err := motaug.FromKittiTracking(filepath.Clean(labelDirs[v]), filepath.Clean(imageDirs[v]), logger)
		if err != nil {
			return errors.Wrapf(err, "failed to parse view %d", v)
		}
		if m := c.String(flagMapLabels); m != "" {
			if err := motaug.MapLabels(seqs, strings.Split(m, ","), logger); err != nil {
				return err
			}
		}
		var labelNames []string
		if f := c.String(flagFilterLabels); f != "" {
			labelNames = strings.Split(f, ",")
		}
		motaug.Filter(seqs, labelNames, c.Float64(flagMinBboxW), c.Float64(flagMinBboxH),
			c.Float64(flagMinScore), logger)
		views[v] = seqs
		all = append(all, seqs...)
	}

	var labelMap motaug.LabelMap
	if path := c.String(flagLabelMap); path != "" {
		if labelMap, err = motaug.LoadLabelMap(path); err != nil {
			return errors.Wrapf(err, "failed to read the label map from %q", path)
		}
		logger.Info("Label map loaded successfully")
	} else {
		labelMap = motaug.BuildLabelMap(all)
		logger.Infow("Created a new label map", "labels", labelMap.Names())
	}

	clips, err := motaug.CutClips(views, c.Int(flagClipLength), c.Int(flagClipStride))
	if err != nil {
		return err
	}
	logger.Infof("Cut %d clips from %d sequences", len(clips), len(views[0]))

	// Split clips into output datasets.
	seed := c.Int64(flagSeed)
	datasets := [][]motaug.Clip{clips}
	if len(splits) > 1 {
		if datasets, err = motaug.SplitClips(clips, splits, rand.New(rand.NewSource(seed))); err != nil {
			return errors.Wrap(err, "failed to split the dataset")
		}
	}

	for i, data := range datasets {
		augmenter := &motaug.Augmenter{
			Pipeline: pipeline,
			LabelMap: labelMap,
			Seed:     seed + int64(i)<<32,
			Repeats:  c.Int(flagRepeats),
			Workers:  c.Int(flagWorkers),
			Logger:   logger,
		}
		samples, err := augmenter.Run(c.Context, data)
		if err != nil {
			return errors.Wrap(err, "augmentation failed")
		}

		opts := motaug.TFRecordOptions{
			NumShards:   c.Int(flagNumShards),
			Encoding:    c.String(flagImageEnc),
			JPEGQuality: quality,
		}
		outPath := filepath.Clean(outPaths[i])
		if err := motaug.WriteTFRecord(outPath, c.String(flagLabelMapOut), samples, labelMap, opts, logger); err != nil {
			return errors.Wrap(err, "conversion failed")
		}
		if dir := c.String(flagDumpDir); dir != "" {
			if err := motaug.DumpImages(dir, c.String(flagDumpEnc), samples, quality); err != nil {
				return err
			}
		}
		logger.Infof("Successfully wrote %d samples to %s", len(samples), outPath)
	}
	return nil
}

// parseSplits parses comma-separated percentages into cumulative percentages.
func parseSplits(s string) ([]int, error) {
	var cumulative []int
	var sum int
	for _, v := range strings.Split(s, ",") {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 || i > 100 {
			return nil, errors.Errorf("invalid value in --split: %s", v)
		}
		sum += i
		cumulative = append(cumulative, sum)
	}
	if sum != 100 {
		return nil, errors.New("the values in --split must add up to 100%")
	}
	return cumulative, nil
}

func floatList(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
