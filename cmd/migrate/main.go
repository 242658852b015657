// Command migrate copies all reference tables and readings from the
// relational backend into MongoDB. Existing integer ids are preserved in a
// legacy "id" field so records stay addressable after the switch.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crop-monitor/confs"
	"crop-monitor/db"
	"crop-monitor/entities"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would be migrated without writing")
	flag.Parse()

	cfg, err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to relational database: %v", err)
	}

	mongoDB, err := db.ConnectMongo(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	gdb := database.GetDB()

	var crops []entities.CropRecord
	var stages []entities.GrowthStageRecord
	var soils []entities.SoilTypeRecord
	var readings []entities.ReadingRecord

	if err := gdb.Order("id").Find(&crops).Error; err != nil {
		log.Fatalf("Failed to read crops: %v", err)
	}
	if err := gdb.Order("id").Find(&stages).Error; err != nil {
		log.Fatalf("Failed to read growth stages: %v", err)
	}
	if err := gdb.Order("id").Find(&soils).Error; err != nil {
		log.Fatalf("Failed to read soil types: %v", err)
	}
	if err := gdb.Order("id").Find(&readings).Error; err != nil {
		log.Fatalf("Failed to read readings: %v", err)
	}

	log.Printf("Found %d crops, %d growth stages, %d soil types, %d readings",
		len(crops), len(stages), len(soils), len(readings))

	if *dryRun {
		log.Println("Dry run, nothing written")
		return
	}

	cropIDs := make(map[uint]primitive.ObjectID, len(crops))
	for _, c := range crops {
		oid, err := upsertReference(ctx, mongoDB.DB.Collection("crops"), c.Name)
		if err != nil {
			log.Fatalf("Failed to migrate crop %q: %v", c.Name, err)
		}
		cropIDs[c.ID] = oid
	}

	stageIDs := make(map[uint]primitive.ObjectID, len(stages))
	for _, st := range stages {
		oid, err := upsertReference(ctx, mongoDB.DB.Collection("growth_stages"), st.Name)
		if err != nil {
			log.Fatalf("Failed to migrate growth stage %q: %v", st.Name, err)
		}
		stageIDs[st.ID] = oid
	}

	for _, s := range soils {
		if _, err := upsertReference(ctx, mongoDB.DB.Collection("soil_types"), s.Name); err != nil {
			log.Fatalf("Failed to migrate soil type %q: %v", s.Name, err)
		}
	}

	migrated := 0
	coll := mongoDB.DB.Collection("readings")
	for _, r := range readings {
		ts, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			ts = time.Now().UTC()
		}

		doc := bson.M{
			"id":        int64(r.ID),
			"soil_name": r.SoilName,
			"moi":       r.Moi,
			"temp":      r.Temp,
			"humidity":  r.Humidity,
			"timestamp": ts,
		}
		if oid, ok := cropIDs[r.CropID]; ok {
			doc["crop_id"] = oid.Hex()
		}
		if oid, ok := stageIDs[r.GrowthStageID]; ok {
			doc["growth_stage_id"] = oid.Hex()
		}
		if r.Result != nil {
			doc["result"] = *r.Result
		}
		if r.PredictionProbability != nil {
			doc["prediction_probability"] = *r.PredictionProbability
		}

		// Replace on legacy id so the migration can be re-run safely
		opts := options.Replace().SetUpsert(true)
		if _, err := coll.ReplaceOne(ctx, bson.M{"id": int64(r.ID)}, doc, opts); err != nil {
			log.Fatalf("Failed to migrate reading %d: %v", r.ID, err)
		}
		migrated++
	}

	log.Printf("Migration complete: %d readings written to %s", migrated, cfg.MongoName)
}

func upsertReference(ctx context.Context, coll *mongo.Collection, name string) (primitive.ObjectID, error) {
	var existing struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err := coll.FindOne(ctx, bson.M{"name": name}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, err
	}

	res, err := coll.InsertOne(ctx, bson.M{"name": name})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}
