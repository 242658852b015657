package repositories_test

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crop-monitor/db"
	"crop-monitor/entities"
	"crop-monitor/repositories"
)

func newTestDB(t *testing.T) db.Database {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return &db.GormDatabase{DB: gdb}
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func sampleInput(timestamp string) *entities.ReadingInput {
	return &entities.ReadingInput{
		Moi:             floatPtr(41.5),
		Temp:            floatPtr(22.3),
		Humidity:        floatPtr(68.0),
		CropName:        "Corn",
		SoilName:        "Loam",
		GrowthStageName: "Vegetative",
		Timestamp:       timestamp,
	}
}

func TestCreateResolvesReferences(t *testing.T) {
	database := newTestDB(t)
	repo := repositories.NewReadingSQLRepository(database)

	reading, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if reading.CropName != "Corn" {
		t.Errorf("crop name = %q, want Corn", reading.CropName)
	}
	if reading.GrowthStageName != "Vegetative" {
		t.Errorf("growth stage name = %q, want Vegetative", reading.GrowthStageName)
	}
	if reading.SoilName != "Loam" {
		t.Errorf("soil name = %q, want Loam", reading.SoilName)
	}
	if reading.Timestamp != "2026-03-01T10:00:00Z" {
		t.Errorf("timestamp = %q", reading.Timestamp)
	}
	if reading.Moi != 41.5 || reading.Temp != 22.3 || reading.Humidity != 68.0 {
		t.Errorf("sensor values not preserved: %+v", reading)
	}

	// Repeating the crop name must reuse the existing row
	second, err := repo.Create(sampleInput("2026-03-01T11:00:00Z"))
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.CropID != reading.CropID {
		t.Errorf("crop id changed between inserts: %s vs %s", second.CropID, reading.CropID)
	}

	var count int64
	database.GetDB().Model(&entities.CropRecord{}).Count(&count)
	if count != 1 {
		t.Errorf("crops table has %d rows, want 1", count)
	}
}

func TestCreateDefaultsTimestamp(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	reading, err := repo.Create(sampleInput(""))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reading.Timestamp == "" {
		t.Error("timestamp was not filled in")
	}
}

func TestCreateNormalizesTimestampToUTC(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	reading, err := repo.Create(sampleInput("2026-03-01T12:00:00+05:00"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if reading.Timestamp != "2026-03-01T07:00:00Z" {
		t.Errorf("timestamp = %q, want 2026-03-01T07:00:00Z", reading.Timestamp)
	}

	// The later UTC reading must sort first even though the offset form of
	// the earlier one compares higher as a string.
	if _, err := repo.Create(sampleInput("2026-03-01T08:00:00Z")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	readings, err := repo.List(0, 1, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(readings) != 1 || readings[0].Timestamp != "2026-03-01T08:00:00Z" {
		t.Errorf("newest reading = %+v, want the 08:00Z one", readings)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	for _, ts := range []string{
		"2026-03-01T10:00:00Z",
		"2026-03-03T10:00:00Z",
		"2026-03-02T10:00:00Z",
	} {
		if _, err := repo.Create(sampleInput(ts)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	readings, err := repo.List(0, 0, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("got %d readings, want 3", len(readings))
	}
	if readings[0].Timestamp != "2026-03-03T10:00:00Z" {
		t.Errorf("first reading is %s, want newest", readings[0].Timestamp)
	}
	if readings[2].Timestamp != "2026-03-01T10:00:00Z" {
		t.Errorf("last reading is %s, want oldest", readings[2].Timestamp)
	}

	limited, err := repo.List(0, 1, "")
	if err != nil {
		t.Fatalf("List limit 1: %v", err)
	}
	if len(limited) != 1 || limited[0].Timestamp != "2026-03-03T10:00:00Z" {
		t.Errorf("limit 1 did not return the newest reading: %+v", limited)
	}

	skipped, err := repo.List(1, 1, "")
	if err != nil {
		t.Fatalf("List skip 1: %v", err)
	}
	if len(skipped) != 1 || skipped[0].Timestamp != "2026-03-02T10:00:00Z" {
		t.Errorf("skip 1 limit 1 = %+v", skipped)
	}
}

func TestListFilterByCrop(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	corn, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wheat := sampleInput("2026-03-02T10:00:00Z")
	wheat.CropName = "Wheat"
	if _, err := repo.Create(wheat); err != nil {
		t.Fatalf("Create: %v", err)
	}

	readings, err := repo.List(0, 0, corn.CropID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(readings) != 1 || readings[0].CropName != "Corn" {
		t.Errorf("crop filter returned %+v", readings)
	}

	if _, err := repo.List(0, 0, "not-a-number"); !errors.Is(err, repositories.ErrInvalidID) {
		t.Errorf("invalid crop id error = %v, want ErrInvalidID", err)
	}
}

func TestGetByID(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	created, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != created.ID || got.CropName != "Corn" {
		t.Errorf("GetByID = %+v", got)
	}

	if _, err := repo.GetByID("9999"); !errors.Is(err, repositories.ErrReadingNotFound) {
		t.Errorf("missing id error = %v, want ErrReadingNotFound", err)
	}
	if _, err := repo.GetByID("abc"); !errors.Is(err, repositories.ErrInvalidID) {
		t.Errorf("malformed id error = %v, want ErrInvalidID", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	created, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(created.ID, &entities.ReadingInput{
		Moi:    floatPtr(12.0),
		Result: intPtr(1),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Moi != 12.0 {
		t.Errorf("moi = %v, want 12.0", updated.Moi)
	}
	if updated.Result == nil || *updated.Result != 1 {
		t.Errorf("result = %v, want 1", updated.Result)
	}
	// Untouched fields keep their prior values
	if updated.Temp != 22.3 || updated.Humidity != 68.0 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.CropName != "Corn" || updated.SoilName != "Loam" {
		t.Errorf("references changed: %+v", updated)
	}
	if updated.Timestamp != created.Timestamp {
		t.Errorf("timestamp changed on update: %s", updated.Timestamp)
	}
}

func TestUpdateReassignsCrop(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	created, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(created.ID, &entities.ReadingInput{CropName: "Barley"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CropName != "Barley" {
		t.Errorf("crop name = %q, want Barley", updated.CropName)
	}
	if updated.CropID == created.CropID {
		t.Error("crop id did not change after reassignment")
	}
}

func TestUpdateNoFieldsIsNoop(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	created, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.Update(created.ID, &entities.ReadingInput{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if *updated != *created {
		t.Errorf("empty update changed the reading:\n before %+v\n after  %+v", created, updated)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	_, err := repo.Update("42", &entities.ReadingInput{Moi: floatPtr(1)})
	if !errors.Is(err, repositories.ErrReadingNotFound) {
		t.Errorf("error = %v, want ErrReadingNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	repo := repositories.NewReadingSQLRepository(newTestDB(t))

	created, err := repo.Create(sampleInput("2026-03-01T10:00:00Z"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := repo.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Error("Delete returned false for existing reading")
	}

	deleted, err = repo.Delete(created.ID)
	if err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	if deleted {
		t.Error("Delete returned true for missing reading")
	}

	if _, err := repo.GetByID(created.ID); !errors.Is(err, repositories.ErrReadingNotFound) {
		t.Errorf("deleted reading still readable: %v", err)
	}
}

func TestLookupRepository(t *testing.T) {
	database := newTestDB(t)
	readings := repositories.NewReadingSQLRepository(database)
	lookups := repositories.NewLookupSQLRepository(database)

	if _, err := readings.Create(sampleInput("2026-03-01T10:00:00Z")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	wheat := sampleInput("2026-03-02T10:00:00Z")
	wheat.CropName = "Wheat"
	if _, err := readings.Create(wheat); err != nil {
		t.Fatalf("Create: %v", err)
	}

	crops, err := lookups.GetCrops()
	if err != nil {
		t.Fatalf("GetCrops: %v", err)
	}
	if len(crops) != 2 || crops[0].Name != "Corn" || crops[1].Name != "Wheat" {
		t.Errorf("GetCrops = %+v", crops)
	}

	stages, err := lookups.GetGrowthStages()
	if err != nil {
		t.Fatalf("GetGrowthStages: %v", err)
	}
	if len(stages) != 1 || stages[0].Name != "Vegetative" {
		t.Errorf("GetGrowthStages = %+v", stages)
	}

	// Soil types are stored by name on readings, not resolved
	soils, err := lookups.GetSoilTypes()
	if err != nil {
		t.Fatalf("GetSoilTypes: %v", err)
	}
	if len(soils) != 0 {
		t.Errorf("GetSoilTypes = %+v, want empty", soils)
	}
}
