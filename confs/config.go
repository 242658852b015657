package confs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Supported persistence backends.
const (
	BackendSQLite  = "sqlite"
	BackendMongoDB = "mongodb"
)

// Config holds the runtime settings for the service. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	Backend string
	Port    string

	// Relational backend. SQLitePath is used unless DatabaseURL points at a
	// Postgres instance.
	SQLitePath  string
	DatabaseURL string

	// Document backend.
	MongoURI  string
	MongoName string

	// Directory holding the exported model artifacts (columns.json,
	// scaler.json, model.json).
	ModelsDir string
}

// LoadConfig loads environment variables from a .env file if present and
// returns the resolved configuration.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	cfg := &Config{
		Backend:     getEnv("BACKEND", BackendSQLite),
		Port:        getEnv("PORT", "3536"),
		SQLitePath:  getEnv("SQLITE_PATH", "sql/crop_monitoring.db"),
		DatabaseURL: os.Getenv("DB_URL"),
		MongoURI:    getEnv("MONGODB_URI", "mongodb://localhost:27017/"),
		MongoName:   getEnv("MONGODB_NAME", "crop_monitoring"),
		ModelsDir:   getEnv("MODELS_DIR", "models"),
	}

	if cfg.Backend != BackendSQLite && cfg.Backend != BackendMongoDB {
		return nil, fmt.Errorf("unsupported BACKEND %q (expected %q or %q)", cfg.Backend, BackendSQLite, BackendMongoDB)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
