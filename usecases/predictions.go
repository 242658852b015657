package usecases

import (
	"errors"
	"log"

	"crop-monitor/entities"
	"crop-monitor/repositories"
	"crop-monitor/services"
)

// ErrNoReadings is returned by PredictLatest when the store holds no
// readings to classify.
var ErrNoReadings = errors.New("no readings available")

type PredictionUseCase struct {
	Predictor *services.Predictor
	Readings  repositories.ReadingRepository
}

func NewPredictionUseCase(predictor *services.Predictor, readings repositories.ReadingRepository) *PredictionUseCase {
	return &PredictionUseCase{
		Predictor: predictor,
		Readings:  readings,
	}
}

// Predict classifies an ad-hoc observation without touching storage.
func (uc *PredictionUseCase) Predict(input services.PredictionInput) (*services.PredictionResult, error) {
	if input.CropName == "" {
		return nil, errors.New("crop_name is required")
	}
	if input.SoilName == "" {
		return nil, errors.New("soil_name is required")
	}
	if input.GrowthStageName == "" {
		return nil, errors.New("growth_stage_name is required")
	}
	return uc.Predictor.Predict(input)
}

// PredictLatest classifies the most recent reading and writes the predicted
// class and probability back onto it. The write-back is best-effort: a
// failure is logged and the prediction is still returned.
func (uc *PredictionUseCase) PredictLatest() (*services.PredictionResult, *entities.Reading, error) {
	readings, err := uc.Readings.List(0, 1, "")
	if err != nil {
		return nil, nil, err
	}
	if len(readings) == 0 {
		return nil, nil, ErrNoReadings
	}
	latest := readings[0]

	result, err := uc.Predictor.Predict(services.PredictionInput{
		Moi:             latest.Moi,
		Temp:            latest.Temp,
		Humidity:        latest.Humidity,
		CropName:        latest.CropName,
		SoilName:        latest.SoilName,
		GrowthStageName: latest.GrowthStageName,
	})
	if err != nil {
		return nil, nil, err
	}

	class := result.Class
	probability := result.Probability()
	update := &entities.ReadingInput{
		Result:                &class,
		PredictionProbability: &probability,
	}
	if updated, err := uc.Readings.Update(latest.ID, update); err != nil {
		log.Printf("warning: could not save prediction for reading %s: %v", latest.ID, err)
	} else {
		latest = *updated
	}

	return result, &latest, nil
}
