package server

import (
	"crop-monitor/confs"
	"crop-monitor/handlers"
	httpHandler "crop-monitor/handlers/http"
	"crop-monitor/repositories"
	"crop-monitor/services"
	"crop-monitor/usecases"
	"crop-monitor/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app       *gin.Engine
	cfg       *confs.Config
	readings  repositories.ReadingRepository
	lookups   repositories.LookupRepository
	predictor *services.Predictor
}

func NewServer(cfg *confs.Config, readings repositories.ReadingRepository, lookups repositories.LookupRepository, predictor *services.Predictor) *Server {
	return &Server{
		app:       gin.Default(),
		cfg:       cfg,
		readings:  readings,
		lookups:   lookups,
		predictor: predictor,
	}
}

func (s *Server) Start() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true // Allow all origins for development
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "OK",
			"backend": s.cfg.Backend,
		})
	})

	// Initialize use cases
	readingUseCase := usecases.NewReadingUseCase(s.readings, s.lookups)
	predictionUseCase := usecases.NewPredictionUseCase(s.predictor, s.readings)

	// Initialize ingest processor; buffered station readings are flushed on
	// a fixed interval
	processor := services.NewIngestProcessor(s.readings, 0)
	processor.Start()

	// Initialize handlers
	readingHandler := httpHandler.NewReadingHandler(readingUseCase)
	predictionHandler := httpHandler.NewPredictionHandler(predictionUseCase)
	ingestHandler := handlers.NewIngestHandler(processor)

	// WebSocket manager and handler
	manager := ws.NewManager()
	wsHandler := handlers.NewWSHandler(manager, processor)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		// Reading routes
		readings := api.Group("/readings")
		{
			readings.POST("", readingHandler.CreateReading)
			readings.GET("", readingHandler.GetReadings)
			readings.GET("/:id", readingHandler.GetReading)
			readings.PUT("/:id", readingHandler.UpdateReading)
			readings.DELETE("/:id", readingHandler.DeleteReading)
		}

		// Reference entity routes
		api.GET("/crops", readingHandler.GetCrops)
		api.GET("/soil-types", readingHandler.GetSoilTypes)
		api.GET("/growth-stages", readingHandler.GetGrowthStages)

		// Prediction routes
		api.POST("/predict", predictionHandler.Predict)             // Classify ad-hoc values
		api.GET("/predict/latest", predictionHandler.PredictLatest) // Classify the newest reading and save the result

		// Ingest buffer endpoints
		ingest := api.Group("/ingest")
		{
			ingest.POST("/flush", ingestHandler.Flush)             // Trigger buffer flush
			ingest.GET("/data", ingestHandler.GetBufferedReadings) // Inspect buffered readings
			ingest.GET("/stats", ingestHandler.GetStats)           // Buffer statistics
		}

		api.GET("/stations/connected", wsHandler.GetConnectedStations) // List connected stations
	}

	s.app.GET("/ws", wsHandler.HandleStationWS)

	if err := s.app.Run("0.0.0.0:" + s.cfg.Port); err != nil {
		panic(err)
	}
}
