package handlers

import (
	"net/http"

	"crop-monitor/services"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	processor *services.IngestProcessor
}

func NewIngestHandler(processor *services.IngestProcessor) *IngestHandler {
	return &IngestHandler{
		processor: processor,
	}
}

// Flush handles POST /api/v1/ingest/flush
func (h *IngestHandler) Flush(c *gin.Context) {
	h.processor.Flush()
	c.JSON(http.StatusOK, gin.H{"status": "flushed"})
}

// GetBufferedReadings handles GET /api/v1/ingest/data
func (h *IngestHandler) GetBufferedReadings(c *gin.Context) {
	snapshot := h.processor.Snapshot()

	result := make(map[string][]gin.H)
	totalReadings := 0

	for stationID, points := range snapshot {
		stationReadings := make([]gin.H, 0, len(points))
		for _, point := range points {
			stationReadings = append(stationReadings, gin.H{
				"station_id":        point.StationID,
				"moi":               point.Input.Moi,
				"temp":              point.Input.Temp,
				"humidity":          point.Input.Humidity,
				"crop_name":         point.Input.CropName,
				"soil_name":         point.Input.SoilName,
				"growth_stage_name": point.Input.GrowthStageName,
				"received_at":       point.ReceivedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
			totalReadings++
		}
		result[stationID] = stationReadings
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"total_stations": len(result),
		"total_readings": totalReadings,
		"buffered_data":  result,
	})
}

// GetStats handles GET /api/v1/ingest/stats
func (h *IngestHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.processor.Stats(),
	})
}
