package repositories

import "crop-monitor/entities"

// ReadingRepository is the uniform contract both persistence backends
// satisfy. Identifiers are opaque strings so callers stay backend-agnostic.
type ReadingRepository interface {
	// List returns readings newest first. cropID optionally filters by the
	// backend-native crop identifier. A non-positive limit falls back to 100.
	List(skip, limit int, cropID string) ([]entities.Reading, error)

	// GetByID returns the reading for the given identifier or
	// ErrReadingNotFound.
	GetByID(id string) (*entities.Reading, error)

	// Create resolves crop and growth stage names to identifiers (creating
	// unseen ones), stores the soil name verbatim and defaults the timestamp
	// to the current time when not supplied.
	Create(input *entities.ReadingInput) (*entities.Reading, error)

	// Update merges the provided fields onto the existing record. Crop and
	// growth stage names are re-resolved through the lookup resolver when
	// supplied. Returns ErrReadingNotFound when the id matches nothing.
	Update(id string, input *entities.ReadingInput) (*entities.Reading, error)

	// Delete removes a reading, reporting whether a record was removed.
	Delete(id string) (bool, error)
}

// LookupRepository lists the reference collections.
type LookupRepository interface {
	GetCrops() ([]entities.Crop, error)
	GetSoilTypes() ([]entities.SoilType, error)
	GetGrowthStages() ([]entities.GrowthStage, error)
}
