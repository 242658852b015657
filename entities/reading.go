package entities

// Reading is the backend-agnostic view of one sensor observation plus its
// optional prediction result. Identifier semantics depend on the active
// backend: the relational adapter exposes the integer row id as a string, the
// document adapter exposes the hex document id and keeps the migrated integer
// id in LegacyID.
type Reading struct {
	ID                    string   `json:"id"`
	LegacyID              *int64   `json:"legacy_id,omitempty"`
	CropID                string   `json:"crop_id"`
	CropName              string   `json:"crop_name"`
	GrowthStageID         string   `json:"growth_stage_id"`
	GrowthStageName       string   `json:"growth_stage_name"`
	SoilName              string   `json:"soil_name"`
	Moi                   float64  `json:"moi"`
	Temp                  float64  `json:"temp"`
	Humidity              float64  `json:"humidity"`
	Result                *int     `json:"result"`
	PredictionProbability *float64 `json:"prediction_probability,omitempty"`
	Timestamp             string   `json:"timestamp"`
}

// ReadingInput carries the fields accepted when creating or updating a
// reading. Pointer fields distinguish "not provided" from zero values so
// partial updates keep prior values.
type ReadingInput struct {
	Moi                   *float64 `json:"moi"`
	Temp                  *float64 `json:"temp"`
	Humidity              *float64 `json:"humidity"`
	CropName              string   `json:"crop_name"`
	SoilName              string   `json:"soil_name"`
	GrowthStageName       string   `json:"growth_stage_name"`
	Result                *int     `json:"result"`
	PredictionProbability *float64 `json:"prediction_probability"`
	Timestamp             string   `json:"timestamp"`
}
