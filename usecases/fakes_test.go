package usecases_test

import (
	"strconv"

	"crop-monitor/entities"
	"crop-monitor/repositories"
)

// fakeReadingRepo is an in-memory ReadingRepository for use case tests.
// Readings are kept newest first, matching the adapters' List contract.
type fakeReadingRepo struct {
	readings  []entities.Reading
	nextID    int
	createErr error
	updateErr error
	updates   []entities.ReadingInput
}

func (f *fakeReadingRepo) List(skip, limit int, cropID string) ([]entities.Reading, error) {
	if limit <= 0 {
		limit = 100
	}
	if skip >= len(f.readings) {
		return []entities.Reading{}, nil
	}
	end := skip + limit
	if end > len(f.readings) {
		end = len(f.readings)
	}
	return f.readings[skip:end], nil
}

func (f *fakeReadingRepo) GetByID(id string) (*entities.Reading, error) {
	for i := range f.readings {
		if f.readings[i].ID == id {
			return &f.readings[i], nil
		}
	}
	return nil, repositories.ErrReadingNotFound
}

func (f *fakeReadingRepo) Create(input *entities.ReadingInput) (*entities.Reading, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	reading := entities.Reading{
		ID:              strconv.Itoa(f.nextID),
		CropName:        input.CropName,
		SoilName:        input.SoilName,
		GrowthStageName: input.GrowthStageName,
		Timestamp:       input.Timestamp,
	}
	if input.Moi != nil {
		reading.Moi = *input.Moi
	}
	if input.Temp != nil {
		reading.Temp = *input.Temp
	}
	if input.Humidity != nil {
		reading.Humidity = *input.Humidity
	}
	f.readings = append([]entities.Reading{reading}, f.readings...)
	return &reading, nil
}

func (f *fakeReadingRepo) Update(id string, input *entities.ReadingInput) (*entities.Reading, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, *input)
	for i := range f.readings {
		if f.readings[i].ID == id {
			if input.Result != nil {
				f.readings[i].Result = input.Result
			}
			if input.PredictionProbability != nil {
				f.readings[i].PredictionProbability = input.PredictionProbability
			}
			if input.Moi != nil {
				f.readings[i].Moi = *input.Moi
			}
			return &f.readings[i], nil
		}
	}
	return nil, repositories.ErrReadingNotFound
}

func (f *fakeReadingRepo) Delete(id string) (bool, error) {
	for i := range f.readings {
		if f.readings[i].ID == id {
			f.readings = append(f.readings[:i], f.readings[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeLookupRepo struct {
	crops  []entities.Crop
	soils  []entities.SoilType
	stages []entities.GrowthStage
}

func (f *fakeLookupRepo) GetCrops() ([]entities.Crop, error) { return f.crops, nil }

func (f *fakeLookupRepo) GetSoilTypes() ([]entities.SoilType, error) { return f.soils, nil }

func (f *fakeLookupRepo) GetGrowthStages() ([]entities.GrowthStage, error) { return f.stages, nil }
