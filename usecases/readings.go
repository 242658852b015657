package usecases

import (
	"errors"

	"crop-monitor/entities"
	"crop-monitor/repositories"
)

type ReadingUseCase struct {
	Repo    repositories.ReadingRepository
	Lookups repositories.LookupRepository
}

func NewReadingUseCase(repo repositories.ReadingRepository, lookups repositories.LookupRepository) *ReadingUseCase {
	return &ReadingUseCase{
		Repo:    repo,
		Lookups: lookups,
	}
}

// CreateReading validates and stores a new reading.
func (uc *ReadingUseCase) CreateReading(input *entities.ReadingInput) (*entities.Reading, error) {
	if input.CropName == "" {
		return nil, errors.New("crop_name is required")
	}
	if input.SoilName == "" {
		return nil, errors.New("soil_name is required")
	}
	if input.GrowthStageName == "" {
		return nil, errors.New("growth_stage_name is required")
	}
	if input.Moi == nil {
		return nil, errors.New("moi is required")
	}
	if input.Temp == nil {
		return nil, errors.New("temp is required")
	}
	if input.Humidity == nil {
		return nil, errors.New("humidity is required")
	}
	return uc.Repo.Create(input)
}

// GetReading retrieves a reading by its identifier.
func (uc *ReadingUseCase) GetReading(id string) (*entities.Reading, error) {
	if id == "" {
		return nil, errors.New("reading id is required")
	}
	return uc.Repo.GetByID(id)
}

// ListReadings retrieves readings newest first, optionally filtered by crop.
func (uc *ReadingUseCase) ListReadings(skip, limit int, cropID string) ([]entities.Reading, error) {
	if skip < 0 {
		skip = 0
	}
	return uc.Repo.List(skip, limit, cropID)
}

// UpdateReading merges the provided fields onto an existing reading.
func (uc *ReadingUseCase) UpdateReading(id string, input *entities.ReadingInput) (*entities.Reading, error) {
	if id == "" {
		return nil, errors.New("reading id is required")
	}
	return uc.Repo.Update(id, input)
}

// DeleteReading removes a reading, reporting whether one existed.
func (uc *ReadingUseCase) DeleteReading(id string) (bool, error) {
	if id == "" {
		return false, errors.New("reading id is required")
	}
	return uc.Repo.Delete(id)
}

// ============= Reference listings =============

func (uc *ReadingUseCase) GetCrops() ([]entities.Crop, error) {
	return uc.Lookups.GetCrops()
}

func (uc *ReadingUseCase) GetSoilTypes() ([]entities.SoilType, error) {
	return uc.Lookups.GetSoilTypes()
}

func (uc *ReadingUseCase) GetGrowthStages() ([]entities.GrowthStage, error) {
	return uc.Lookups.GetGrowthStages()
}
