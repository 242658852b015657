package repositories

import (
	"errors"
	"strconv"
	"time"

	"crop-monitor/db"
	"crop-monitor/entities"

	"gorm.io/gorm"
)

type readingSQLRepository struct {
	db db.Database
}

func NewReadingSQLRepository(database db.Database) ReadingRepository {
	return &readingSQLRepository{db: database}
}

// readingJoinRow is the scan target for reading queries enriched with the
// reference names.
type readingJoinRow struct {
	ID                    uint
	CropID                uint
	CropName              string
	GrowthStageID         uint
	GrowthStageName       string
	SoilName              string
	Moi                   float64
	Temp                  float64
	Humidity              float64
	Result                *int
	PredictionProbability *float64
	Timestamp             string
}

const readingColumns = "readings.id, readings.crop_id, crops.name AS crop_name, " +
	"readings.growth_stage_id, growth_stages.name AS growth_stage_name, " +
	"readings.soil_name, readings.moi, readings.temp, readings.humidity, " +
	"readings.result, readings.prediction_probability, readings.timestamp"

func (r *readingSQLRepository) joined() *gorm.DB {
	return r.db.GetDB().Table("readings").
		Select(readingColumns).
		Joins("JOIN crops ON crops.id = readings.crop_id").
		Joins("JOIN growth_stages ON growth_stages.id = readings.growth_stage_id")
}

func (row *readingJoinRow) toReading() entities.Reading {
	return entities.Reading{
		ID:                    strconv.FormatUint(uint64(row.ID), 10),
		CropID:                strconv.FormatUint(uint64(row.CropID), 10),
		CropName:              row.CropName,
		GrowthStageID:         strconv.FormatUint(uint64(row.GrowthStageID), 10),
		GrowthStageName:       row.GrowthStageName,
		SoilName:              row.SoilName,
		Moi:                   row.Moi,
		Temp:                  row.Temp,
		Humidity:              row.Humidity,
		Result:                row.Result,
		PredictionProbability: row.PredictionProbability,
		Timestamp:             row.Timestamp,
	}
}

func parseRowID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}

func (r *readingSQLRepository) List(skip, limit int, cropID string) ([]entities.Reading, error) {
	if limit <= 0 {
		limit = 100
	}

	query := r.joined().
		Order("readings.timestamp DESC, readings.id DESC").
		Offset(skip).
		Limit(limit)

	if cropID != "" {
		id, err := parseRowID(cropID)
		if err != nil {
			return nil, err
		}
		query = query.Where("readings.crop_id = ?", id)
	}

	var rows []readingJoinRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	readings := make([]entities.Reading, 0, len(rows))
	for i := range rows {
		readings = append(readings, rows[i].toReading())
	}
	return readings, nil
}

func (r *readingSQLRepository) GetByID(id string) (*entities.Reading, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return nil, err
	}

	var row readingJoinRow
	err = r.joined().Where("readings.id = ?", rowID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}

	reading := row.toReading()
	return &reading, nil
}

func (r *readingSQLRepository) Create(input *entities.ReadingInput) (*entities.Reading, error) {
	cropID, err := r.resolveReference("crops", input.CropName)
	if err != nil {
		return nil, err
	}
	stageID, err := r.resolveReference("growth_stages", input.GrowthStageName)
	if err != nil {
		return nil, err
	}

	record := entities.ReadingRecord{
		CropID:                cropID,
		GrowthStageID:         stageID,
		SoilName:              input.SoilName,
		Moi:                   floatValue(input.Moi),
		Temp:                  floatValue(input.Temp),
		Humidity:              floatValue(input.Humidity),
		Result:                input.Result,
		PredictionProbability: input.PredictionProbability,
		Timestamp:             normalizeTimestamp(input.Timestamp),
	}
	if err := r.db.GetDB().Create(&record).Error; err != nil {
		return nil, err
	}

	return r.GetByID(strconv.FormatUint(uint64(record.ID), 10))
}

func (r *readingSQLRepository) Update(id string, input *entities.ReadingInput) (*entities.Reading, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return nil, err
	}

	var record entities.ReadingRecord
	err = r.db.GetDB().First(&record, rowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}

	// Reference names are re-resolved when supplied, so a reading can be
	// reassigned to a different crop or growth stage.
	if input.CropName != "" {
		if record.CropID, err = r.resolveReference("crops", input.CropName); err != nil {
			return nil, err
		}
	}
	if input.GrowthStageName != "" {
		if record.GrowthStageID, err = r.resolveReference("growth_stages", input.GrowthStageName); err != nil {
			return nil, err
		}
	}
	if input.SoilName != "" {
		record.SoilName = input.SoilName
	}
	if input.Moi != nil {
		record.Moi = *input.Moi
	}
	if input.Temp != nil {
		record.Temp = *input.Temp
	}
	if input.Humidity != nil {
		record.Humidity = *input.Humidity
	}
	if input.Result != nil {
		record.Result = input.Result
	}
	if input.PredictionProbability != nil {
		record.PredictionProbability = input.PredictionProbability
	}

	if err := r.db.GetDB().Save(&record).Error; err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *readingSQLRepository) Delete(id string) (bool, error) {
	rowID, err := parseRowID(id)
	if err != nil {
		return false, err
	}

	result := r.db.GetDB().Where("id = ?", rowID).Delete(&entities.ReadingRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// refRow covers all reference tables; they share the id/name shape.
type refRow struct {
	ID   uint
	Name string
}

// resolveReference finds a reference row by exact name, inserting a new one
// when absent, and returns its identifier. Concurrent duplicate-name inserts
// are left to the unique index on name; a race surfaces as a constraint
// violation from the driver.
func (r *readingSQLRepository) resolveReference(table, name string) (uint, error) {
	var row refRow
	err := r.db.GetDB().Table(table).Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = refRow{Name: name}
		err = r.db.GetDB().Table(table).Create(&row).Error
	}
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// normalizeTimestamp renders client-supplied timestamps in UTC, so the
// stored RFC3339 strings sort chronologically regardless of the offset the
// client sent. Missing or malformed values fall back to the current time.
func normalizeTimestamp(value string) string {
	if value != "" {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return ts.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func floatValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
