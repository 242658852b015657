package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Scaler normalizes a feature vector before it reaches the model.
type Scaler interface {
	Transform(features []float64) ([]float64, error)
}

// Model produces class scores for a scaled feature vector.
type Model interface {
	Predict(features []float64) ([]float64, error)
}

// StandardScaler applies the mean/scale parameters of a fitted standard
// scaler, exported to scaler.json by the training pipeline.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) || len(s.Mean) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(features))
	}

	scaled := make([]float64, len(features))
	for i := range features {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		scaled[i] = (features[i] - s.Mean[i]) / scale
	}
	return scaled, nil
}

// DenseLayer is one fully connected layer. Weights is indexed
// [input][output].
type DenseLayer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// DenseNetwork is the trained classifier, exported to model.json as plain
// layer weights.
type DenseNetwork struct {
	Layers []DenseLayer `json:"layers"`
}

func (n *DenseNetwork) Predict(features []float64) ([]float64, error) {
	values := features
	for i, layer := range n.Layers {
		if len(layer.Weights) != len(values) {
			return nil, fmt.Errorf("layer %d expects %d inputs, got %d", i, len(layer.Weights), len(values))
		}

		next := make([]float64, len(layer.Biases))
		copy(next, layer.Biases)
		for in, row := range layer.Weights {
			if len(row) != len(next) {
				return nil, fmt.Errorf("layer %d has inconsistent weight row %d", i, in)
			}
			for out := range row {
				next[out] += values[in] * row[out]
			}
		}

		if err := applyActivation(layer.Activation, next); err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		values = next
	}
	return values, nil
}

func applyActivation(name string, values []float64) error {
	switch name {
	case "", "linear":
	case "relu":
		for i, v := range values {
			if v < 0 {
				values[i] = 0
			}
		}
	case "sigmoid":
		for i, v := range values {
			values[i] = 1 / (1 + math.Exp(-v))
		}
	case "tanh":
		for i, v := range values {
			values[i] = math.Tanh(v)
		}
	case "softmax":
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		var sum float64
		for i, v := range values {
			values[i] = math.Exp(v - max)
			sum += values[i]
		}
		for i := range values {
			values[i] /= sum
		}
	default:
		return fmt.Errorf("unknown activation %q", name)
	}
	return nil
}

// LoadArtifacts reads the column list, scaler and model from dir. A missing
// or malformed artifact is a startup-time failure, not a per-request one.
func LoadArtifacts(dir string) ([]string, Scaler, Model, error) {
	var columns []string
	if err := readJSON(filepath.Join(dir, "columns.json"), &columns); err != nil {
		return nil, nil, nil, err
	}
	if len(columns) == 0 {
		return nil, nil, nil, fmt.Errorf("columns.json in %s lists no feature columns", dir)
	}

	var scaler StandardScaler
	if err := readJSON(filepath.Join(dir, "scaler.json"), &scaler); err != nil {
		return nil, nil, nil, err
	}
	if len(scaler.Mean) != len(columns) || len(scaler.Scale) != len(columns) {
		return nil, nil, nil, fmt.Errorf("scaler.json parameters do not match the %d feature columns", len(columns))
	}

	var model DenseNetwork
	if err := readJSON(filepath.Join(dir, "model.json"), &model); err != nil {
		return nil, nil, nil, err
	}
	if len(model.Layers) == 0 {
		return nil, nil, nil, fmt.Errorf("model.json in %s defines no layers", dir)
	}
	if len(model.Layers[0].Weights) != len(columns) {
		return nil, nil, nil, fmt.Errorf("model.json input width %d does not match the %d feature columns",
			len(model.Layers[0].Weights), len(columns))
	}

	return columns, &scaler, &model, nil
}

func readJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	return nil
}
