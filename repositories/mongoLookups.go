package repositories

import (
	"context"

	"crop-monitor/db"
	"crop-monitor/entities"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type lookupMongoRepository struct {
	db *db.MongoDatabase
}

func NewLookupMongoRepository(database *db.MongoDatabase) LookupRepository {
	return &lookupMongoRepository{db: database}
}

func (r *lookupMongoRepository) list(collection string) ([]entities.Crop, error) {
	ctx := context.Background()
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.db.DB.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var refs []struct {
		OID  primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}

	entries := make([]entities.Crop, 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, entities.Crop{ID: ref.OID.Hex(), Name: ref.Name})
	}
	return entries, nil
}

func (r *lookupMongoRepository) GetCrops() ([]entities.Crop, error) {
	return r.list("crops")
}

func (r *lookupMongoRepository) GetSoilTypes() ([]entities.SoilType, error) {
	crops, err := r.list("soil_types")
	if err != nil {
		return nil, err
	}
	soilTypes := make([]entities.SoilType, 0, len(crops))
	for _, entry := range crops {
		soilTypes = append(soilTypes, entities.SoilType{ID: entry.ID, Name: entry.Name})
	}
	return soilTypes, nil
}

func (r *lookupMongoRepository) GetGrowthStages() ([]entities.GrowthStage, error) {
	crops, err := r.list("growth_stages")
	if err != nil {
		return nil, err
	}
	stages := make([]entities.GrowthStage, 0, len(crops))
	for _, entry := range crops {
		stages = append(stages, entities.GrowthStage{ID: entry.ID, Name: entry.Name})
	}
	return stages, nil
}
