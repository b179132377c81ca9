package motaug

// Pipeline recipes. A recipe is a JSON document listing transforms by type, each with a set of
// type-specific attributes:
//
//	{
//	  "pipeline": [
//	    {"type": "random_horizontal_flip"},
//	    {"type": "random_resize", "attributes": {"sizes": [480, 512, 544], "max_size": 960}},
//	    {"type": "to_tensor"},
//	    {"type": "normalize", "attributes": {"mean": [0.485, 0.456, 0.406], "std": [0.229, 0.224, 0.225]}}
//	  ]
//	}

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Transform types understood by BuildPipeline.
const (
	TypeRandomCrop           = "random_crop"
	TypeRandomSizeCrop       = "random_size_crop"
	TypeCenterCrop           = "center_crop"
	TypeRandomResize         = "random_resize"
	TypeRandomHorizontalFlip = "random_horizontal_flip"
	TypeRandomPad            = "random_pad"
	TypeRandomShift          = "random_shift"
	TypeDriftShift           = "drift_shift"
	TypeToTensor             = "to_tensor"
	TypeNormalize            = "normalize"
	TypeRandomErasing        = "random_erasing"
	TypeColorJitter          = "color_jitter"
	TypeRandomSelect         = "random_select"
)

// TransformConfig states the type of a transform and the attributes specific to that type.
type TransformConfig struct {
	Type       string                 `json:"type"`
	Attributes map[string]interface{} `json:"attributes"`
}

// PipelineConfig is an ordered list of transforms.
type PipelineConfig struct {
	Pipeline []TransformConfig `json:"pipeline"`
}

// RandomSelectConfig holds the attributes of a random_select transform. P defaults to 0.5.
type RandomSelectConfig struct {
	P      *float64          `json:"p"`
	First  []TransformConfig `json:"first"`
	Second []TransformConfig `json:"second"`
}

// LoadPipelineConfig reads a pipeline recipe from the JSON file at path.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read pipeline config %q", path)
	}
	var cfg PipelineConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse pipeline config %q", path)
	}
	return &cfg, nil
}

// decodeAttributes decodes a transform's attributes into its typed configuration. Unknown
// attributes are an error.
func decodeAttributes[T any](attributes map[string]interface{}) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &out,
		ErrorUnused: true,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return out, err
	}
	return out, nil
}

// BuildPipeline builds the operators of a recipe and chains them. Errors name the offending
// transform by its path in the recipe, e.g. "pipeline.2.random_pad".
func BuildPipeline(cfg *PipelineConfig, logger *zap.SugaredLogger) (Compose, error) {
	if cfg == nil || len(cfg.Pipeline) == 0 {
		return nil, errors.New("pipeline config has no transforms")
	}
	return buildCompose("pipeline", cfg.Pipeline, logger)
}

func buildCompose(path string, transforms []TransformConfig, logger *zap.SugaredLogger) (Compose, error) {
	ops := make(Compose, 0, len(transforms))
	for i, tc := range transforms {
		stepPath := fmt.Sprintf("%s.%d", path, i)
		op, err := buildOperator(stepPath, tc, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", stepPath, tc.Type)
		}
		logger.Debugw("Added transform", "path", stepPath, "type", tc.Type)
		ops = append(ops, op)
	}
	return ops, nil
}

// build decodes the attributes into C and passes them to the constructor.
func build[C any, O Operator](attributes map[string]interface{}, newOp func(C) (O, error)) (Operator, error) {
	cfg, err := decodeAttributes[C](attributes)
	if err != nil {
		return nil, err
	}
	op, err := newOp(cfg)
	if err != nil {
		return nil, err
	}
	return op, nil
}

func buildOperator(path string, tc TransformConfig, logger *zap.SugaredLogger) (Operator, error) {
	switch tc.Type {
	case TypeRandomCrop:
		return build(tc.Attributes, NewRandomCrop)
	case TypeRandomSizeCrop:
		return build(tc.Attributes, NewRandomSizeCrop)
	case TypeCenterCrop:
		return build(tc.Attributes, NewCenterCrop)
	case TypeRandomResize:
		return build(tc.Attributes, NewRandomResize)
	case TypeRandomHorizontalFlip:
		return build(tc.Attributes, NewRandomHorizontalFlip)
	case TypeRandomPad:
		return build(tc.Attributes, NewRandomPad)
	case TypeRandomShift:
		return build(tc.Attributes, NewRandomShift)
	case TypeDriftShift:
		return build(tc.Attributes, NewDriftShift)
	case TypeToTensor:
		if len(tc.Attributes) > 0 {
			return nil, errors.New("to_tensor takes no attributes")
		}
		return NewToTensor(), nil
	case TypeNormalize:
		return build(tc.Attributes, NewNormalize)
	case TypeRandomErasing:
		return build(tc.Attributes, NewRandomErasing)
	case TypeColorJitter:
		return build(tc.Attributes, NewColorJitter)
	case TypeRandomSelect:
		cfg, err := decodeAttributes[RandomSelectConfig](tc.Attributes)
		if err != nil {
			return nil, err
		}
		if len(cfg.First) == 0 || len(cfg.Second) == 0 {
			return nil, errors.New("random_select needs a first and a second pipeline")
		}
		first, err := buildCompose(path+".first", cfg.First, logger)
		if err != nil {
			return nil, err
		}
		second, err := buildCompose(path+".second", cfg.Second, logger)
		if err != nil {
			return nil, err
		}
		p := 0.5
		if cfg.P != nil {
			p = *cfg.P
		}
		return NewRandomSelect(first, second, p)
	default:
		return nil, errors.Errorf("unknown transform type %q", tc.Type)
	}
}
