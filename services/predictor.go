package services

import (
	"errors"
	"strings"
)

// One-hot column name conventions carried over from the training pipeline's
// encoding of crop, soil type and growth stage.
const (
	cropColumnPrefix  = "crop ID_"
	soilColumnPrefix  = "soil_type_"
	stageColumnPrefix = "Seedling Stage_"
)

// PredictionInput is one observation to classify.
type PredictionInput struct {
	Moi             float64
	Temp            float64
	Humidity        float64
	CropName        string
	SoilName        string
	GrowthStageName string
}

// PredictionResult is the normalized model output: a 0/1 class and a
// two-element probability pair.
type PredictionResult struct {
	Class         int
	Probabilities []float64
	Features      map[string]float64
}

// Probability returns the probability of the predicted positive class.
func (r *PredictionResult) Probability() float64 {
	if len(r.Probabilities) > 1 {
		return r.Probabilities[1]
	}
	return r.Probabilities[0]
}

// Predictor holds the model artifacts for the process lifetime.
type Predictor struct {
	columns []string
	scaler  Scaler
	model   Model
}

func NewPredictor(columns []string, scaler Scaler, model Model) *Predictor {
	return &Predictor{columns: columns, scaler: scaler, model: model}
}

// NewPredictorFromDir loads the artifacts from disk once; callers should
// treat a failure as fatal at startup.
func NewPredictorFromDir(dir string) (*Predictor, error) {
	columns, scaler, model, err := LoadArtifacts(dir)
	if err != nil {
		return nil, err
	}
	return NewPredictor(columns, scaler, model), nil
}

// Predict builds the feature vector for the input, scales it, runs the model
// and normalizes the output shape.
func (p *Predictor) Predict(input PredictionInput) (*PredictionResult, error) {
	features := p.features(input)

	scaled, err := p.scaler.Transform(features)
	if err != nil {
		return nil, err
	}

	scores, err := p.model.Predict(scaled)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, errors.New("model produced no class scores")
	}

	// Models trained with extra classes still only answer the binary
	// irrigation question; keep the first two scores.
	if len(scores) > 2 {
		scores = scores[:2]
	}

	result := &PredictionResult{Features: make(map[string]float64, len(p.columns))}
	for i, col := range p.columns {
		result.Features[col] = features[i]
	}

	if len(scores) == 1 {
		// Binary output: convert the single score into a probability pair.
		score := scores[0]
		if score > 0.5 {
			result.Class = 1
		}
		result.Probabilities = []float64{1 - score, score}
		return result, nil
	}

	result.Probabilities = scores
	if scores[1] > scores[0] {
		result.Class = 1
	}
	return result, nil
}

// features builds a fixed-order vector: zeros everywhere, then the three
// sensor values and the one-hot indicators matching the reading's names.
func (p *Predictor) features(input PredictionInput) []float64 {
	features := make([]float64, len(p.columns))
	for i, col := range p.columns {
		switch col {
		case "moi":
			features[i] = input.Moi
		case "temp":
			features[i] = input.Temp
		case "humidity":
			features[i] = input.Humidity
		default:
			if matchesOneHot(col, cropColumnPrefix, input.CropName) ||
				matchesOneHot(col, soilColumnPrefix, input.SoilName) ||
				matchesOneHot(col, stageColumnPrefix, input.GrowthStageName) {
				features[i] = 1
			}
		}
	}
	return features
}

func matchesOneHot(column, prefix, name string) bool {
	return name != "" && strings.HasPrefix(column, prefix) && strings.HasSuffix(column, "_"+name)
}
