package entities

// Crop is a reference entity resolved from readings by name.
type Crop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GrowthStage is a reference entity resolved from readings by name.
type GrowthStage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SoilType is a historical reference entity. Readings store the soil name
// directly, so soil types are listed but never joined.
type SoilType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
