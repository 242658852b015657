package repositories

import (
	"strconv"

	"crop-monitor/db"
	"crop-monitor/entities"
)

type lookupSQLRepository struct {
	db db.Database
}

func NewLookupSQLRepository(database db.Database) LookupRepository {
	return &lookupSQLRepository{db: database}
}

func (r *lookupSQLRepository) GetCrops() ([]entities.Crop, error) {
	var records []entities.CropRecord
	if err := r.db.GetDB().Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	crops := make([]entities.Crop, 0, len(records))
	for _, record := range records {
		crops = append(crops, entities.Crop{
			ID:   strconv.FormatUint(uint64(record.ID), 10),
			Name: record.Name,
		})
	}
	return crops, nil
}

func (r *lookupSQLRepository) GetSoilTypes() ([]entities.SoilType, error) {
	var records []entities.SoilTypeRecord
	if err := r.db.GetDB().Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	soilTypes := make([]entities.SoilType, 0, len(records))
	for _, record := range records {
		soilTypes = append(soilTypes, entities.SoilType{
			ID:   strconv.FormatUint(uint64(record.ID), 10),
			Name: record.Name,
		})
	}
	return soilTypes, nil
}

func (r *lookupSQLRepository) GetGrowthStages() ([]entities.GrowthStage, error) {
	var records []entities.GrowthStageRecord
	if err := r.db.GetDB().Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	stages := make([]entities.GrowthStage, 0, len(records))
	for _, record := range records {
		stages = append(stages, entities.GrowthStage{
			ID:   strconv.FormatUint(uint64(record.ID), 10),
			Name: record.Name,
		})
	}
	return stages, nil
}
