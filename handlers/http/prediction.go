package httpHandler

import (
	"errors"
	"net/http"

	"crop-monitor/services"
	"crop-monitor/usecases"

	"github.com/gin-gonic/gin"
)

type PredictionHandler struct {
	useCase *usecases.PredictionUseCase
}

func NewPredictionHandler(useCase *usecases.PredictionUseCase) *PredictionHandler {
	return &PredictionHandler{
		useCase: useCase,
	}
}

type predictionRequest struct {
	Moi             float64 `json:"moi"`
	Temp            float64 `json:"temp"`
	Humidity        float64 `json:"humidity"`
	CropName        string  `json:"crop_name"`
	SoilName        string  `json:"soil_name"`
	GrowthStageName string  `json:"growth_stage_name"`
}

func className(class int) string {
	if class == 1 {
		return "Irrigation Needed"
	}
	return "No Irrigation Needed"
}

// Predict handles POST /api/v1/predict with explicit sensor values. Nothing
// is persisted.
func (h *PredictionHandler) Predict(c *gin.Context) {
	var request predictionRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.useCase.Predict(services.PredictionInput{
		Moi:             request.Moi,
		Temp:            request.Temp,
		Humidity:        request.Humidity,
		CropName:        request.CropName,
		SoilName:        request.SoilName,
		GrowthStageName: request.GrowthStageName,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"features":        result.Features,
		"prediction":      result.Probabilities,
		"predicted_class": result.Class,
		"class_name":      className(result.Class),
	})
}

// PredictLatest handles GET /api/v1/predict/latest. The most recent reading
// is classified and the result written back onto it.
func (h *PredictionHandler) PredictLatest(c *gin.Context) {
	result, reading, err := h.useCase.PredictLatest()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecases.ErrNoReadings) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"features":        result.Features,
		"prediction":      result.Probabilities,
		"predicted_class": result.Class,
		"class_name":      className(result.Class),
		"reading":         reading,
	})
}
