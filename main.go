package main

import (
	"log"

	"crop-monitor/confs"
	"crop-monitor/db"
	"crop-monitor/repositories"
	"crop-monitor/server"
	"crop-monitor/services"
)

func main() {
	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var readings repositories.ReadingRepository
	var lookups repositories.LookupRepository

	switch cfg.Backend {
	case confs.BackendMongoDB:
		mongoDB, err := db.ConnectMongo(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoDB.Close()

		readings = repositories.NewReadingMongoRepository(mongoDB)
		lookups = repositories.NewLookupMongoRepository(mongoDB)
		log.Println("Using MongoDB backend")
	default:
		database, err := db.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		readings = repositories.NewReadingSQLRepository(database)
		lookups = repositories.NewLookupSQLRepository(database)
		log.Println("Using relational backend")
	}

	predictor, err := services.NewPredictorFromDir(cfg.ModelsDir)
	if err != nil {
		log.Fatalf("Failed to load model artifacts: %v", err)
	}

	srv := server.NewServer(cfg, readings, lookups, predictor)
	log.Printf("Starting crop monitor server on port %s", cfg.Port)
	srv.Start()
}
