package entities

// Relational schema for the SQL backend. Reference tables carry a unique
// index on name, which is the only duplicate-prevention mechanism for
// concurrent resolve-or-create calls.

type CropRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:120;not null" json:"name"`
}

func (CropRecord) TableName() string { return "crops" }

type GrowthStageRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:120;not null" json:"name"`
}

func (GrowthStageRecord) TableName() string { return "growth_stages" }

type SoilTypeRecord struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:120;not null" json:"name"`
}

func (SoilTypeRecord) TableName() string { return "soil_types" }

// ReadingRecord is the relational row for a reading. Soil name is stored
// verbatim rather than as a foreign key; crop and growth stage names are
// joined in at read time.
type ReadingRecord struct {
	ID                    uint   `gorm:"primaryKey" json:"id"`
	CropID                uint   `gorm:"index" json:"crop_id"`
	GrowthStageID         uint   `gorm:"index" json:"growth_stage_id"`
	SoilName              string `gorm:"index;size:120" json:"soil_name"`
	Moi                   float64
	Temp                  float64
	Humidity              float64
	Result                *int
	PredictionProbability *float64
	Timestamp             string `gorm:"index"`
}

func (ReadingRecord) TableName() string { return "readings" }
