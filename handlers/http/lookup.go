package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCrops handles GET /api/v1/crops
func (h *ReadingHandler) GetCrops(c *gin.Context) {
	crops, err := h.useCase.GetCrops()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve crops",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  crops,
		"count": len(crops),
	})
}

// GetSoilTypes handles GET /api/v1/soil-types
func (h *ReadingHandler) GetSoilTypes(c *gin.Context) {
	soilTypes, err := h.useCase.GetSoilTypes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve soil types",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  soilTypes,
		"count": len(soilTypes),
	})
}

// GetGrowthStages handles GET /api/v1/growth-stages
func (h *ReadingHandler) GetGrowthStages(c *gin.Context) {
	stages, err := h.useCase.GetGrowthStages()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve growth stages",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  stages,
		"count": len(stages),
	})
}
