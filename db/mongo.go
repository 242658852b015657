package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"crop-monitor/confs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabase holds the pooled client shared by the document repositories.
type MongoDatabase struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo connects to the document backend, verifies the connection and
// makes sure the collections carry the expected indexes.
func ConnectMongo(cfg *confs.Config) (*MongoDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	database := client.Database(cfg.MongoName)
	if err := ensureIndexes(ctx, database); err != nil {
		return nil, fmt.Errorf("failed to set up mongodb indexes: %w", err)
	}

	log.Println("MongoDB connection established successfully!")

	return &MongoDatabase{Client: client, DB: database}, nil
}

func (m *MongoDatabase) Close() error {
	return m.Client.Disconnect(context.Background())
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	// Uniqueness on name is the sole duplicate-prevention mechanism for the
	// resolve-or-create path.
	for _, name := range []string{"crops", "soil_types", "growth_stages"} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: unique,
		})
		if err != nil {
			return err
		}
	}

	readingIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "crop_id", Value: 1}}},
		{Keys: bson.D{{Key: "growth_stage_id", Value: 1}}},
		{Keys: bson.D{{Key: "soil_name", Value: 1}}},
	}
	_, err := db.Collection("readings").Indexes().CreateMany(ctx, readingIndexes)
	return err
}
