package httpHandler

import (
	"errors"
	"net/http"
	"strconv"

	"crop-monitor/entities"
	"crop-monitor/repositories"
	"crop-monitor/usecases"

	"github.com/gin-gonic/gin"
)

type ReadingHandler struct {
	useCase *usecases.ReadingUseCase
}

func NewReadingHandler(useCase *usecases.ReadingUseCase) *ReadingHandler {
	return &ReadingHandler{
		useCase: useCase,
	}
}

// statusForError maps repository failures onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repositories.ErrReadingNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrInvalidID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateReading handles POST /api/v1/readings
func (h *ReadingHandler) CreateReading(c *gin.Context) {
	var input entities.ReadingInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	reading, err := h.useCase.CreateReading(&input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reading created successfully",
		"data":    reading,
	})
}

// GetReadings handles GET /api/v1/readings?skip=&limit=&crop_id=
func (h *ReadingHandler) GetReadings(c *gin.Context) {
	skip, err := intQuery(c, "skip", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip parameter"})
		return
	}
	limit, err := intQuery(c, "limit", 100)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
		return
	}

	readings, err := h.useCase.ListReadings(skip, limit, c.Query("crop_id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  readings,
		"count": len(readings),
	})
}

// GetReading handles GET /api/v1/readings/:id
func (h *ReadingHandler) GetReading(c *gin.Context) {
	reading, err := h.useCase.GetReading(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reading,
	})
}

// UpdateReading handles PUT /api/v1/readings/:id
func (h *ReadingHandler) UpdateReading(c *gin.Context) {
	var input entities.ReadingInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	reading, err := h.useCase.UpdateReading(c.Param("id"), &input)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reading updated successfully",
		"data":    reading,
	})
}

// DeleteReading handles DELETE /api/v1/readings/:id
func (h *ReadingHandler) DeleteReading(c *gin.Context) {
	deleted, err := h.useCase.DeleteReading(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
	})
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	value := c.Query(name)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
