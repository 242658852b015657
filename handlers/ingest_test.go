package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"crop-monitor/entities"
	"crop-monitor/handlers"
	"crop-monitor/repositories"
	"crop-monitor/services"
)

type countingRepo struct {
	mu      sync.Mutex
	created int
}

func (r *countingRepo) Create(*entities.ReadingInput) (*entities.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
	return &entities.Reading{ID: strconv.Itoa(r.created)}, nil
}

func (r *countingRepo) List(int, int, string) ([]entities.Reading, error) { return nil, nil }

func (r *countingRepo) GetByID(string) (*entities.Reading, error) {
	return nil, repositories.ErrReadingNotFound
}

func (r *countingRepo) Update(string, *entities.ReadingInput) (*entities.Reading, error) {
	return nil, repositories.ErrReadingNotFound
}

func (r *countingRepo) Delete(string) (bool, error) { return false, nil }

func newIngestRouter(repo *countingRepo) (*gin.Engine, *services.IngestProcessor) {
	gin.SetMode(gin.TestMode)

	processor := services.NewIngestProcessor(repo, time.Hour)
	handler := handlers.NewIngestHandler(processor)

	router := gin.New()
	router.POST("/api/v1/ingest/flush", handler.Flush)
	router.GET("/api/v1/ingest/data", handler.GetBufferedReadings)
	router.GET("/api/v1/ingest/stats", handler.GetStats)
	return router, processor
}

func bufferedInput() entities.ReadingInput {
	moi, temp, humidity := 41.5, 22.3, 68.0
	return entities.ReadingInput{
		Moi: &moi, Temp: &temp, Humidity: &humidity,
		CropName: "Corn", SoilName: "Loam", GrowthStageName: "Vegetative",
	}
}

func getJSON(t *testing.T, router *gin.Engine, method, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return recorder.Code, body
}

func TestIngestStatsEndpoint(t *testing.T) {
	router, processor := newIngestRouter(&countingRepo{})

	processor.Add("station-1", bufferedInput())
	processor.Add("station-2", bufferedInput())

	code, body := getJSON(t, router, http.MethodGet, "/api/v1/ingest/stats")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	stats, ok := body["stats"].(map[string]interface{})
	if !ok {
		t.Fatalf("stats missing: %v", body)
	}
	if stats["total_stations"] != float64(2) || stats["total_readings"] != float64(2) {
		t.Errorf("stats = %v", stats)
	}
}

func TestIngestDataEndpoint(t *testing.T) {
	router, processor := newIngestRouter(&countingRepo{})

	processor.Add("station-1", bufferedInput())

	code, body := getJSON(t, router, http.MethodGet, "/api/v1/ingest/data")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["total_readings"] != float64(1) {
		t.Errorf("total_readings = %v", body["total_readings"])
	}

	buffered, ok := body["buffered_data"].(map[string]interface{})
	if !ok {
		t.Fatalf("buffered_data missing: %v", body)
	}
	points, ok := buffered["station-1"].([]interface{})
	if !ok || len(points) != 1 {
		t.Fatalf("station-1 points = %v", buffered["station-1"])
	}
	if point := points[0].(map[string]interface{}); point["crop_name"] != "Corn" {
		t.Errorf("point = %v", point)
	}
}

func TestIngestFlushEndpoint(t *testing.T) {
	repo := &countingRepo{}
	router, processor := newIngestRouter(repo)

	processor.Add("station-1", bufferedInput())
	processor.Add("station-1", bufferedInput())

	code, _ := getJSON(t, router, http.MethodPost, "/api/v1/ingest/flush")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	repo.mu.Lock()
	created := repo.created
	repo.mu.Unlock()
	if created != 2 {
		t.Errorf("created = %d, want 2", created)
	}

	if processor.Stats()["total_readings"] != 0 {
		t.Error("buffer not emptied by flush endpoint")
	}
}
