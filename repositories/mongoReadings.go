package repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"crop-monitor/db"
	"crop-monitor/entities"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type readingMongoRepository struct {
	db *db.MongoDatabase
}

func NewReadingMongoRepository(database *db.MongoDatabase) ReadingRepository {
	return &readingMongoRepository{db: database}
}

// readingDoc is the stored shape of a reading. Crop and growth stage ids are
// stringified document ids; the legacy integer id is only present on records
// migrated from the relational backend.
type readingDoc struct {
	OID                   primitive.ObjectID `bson:"_id,omitempty"`
	LegacyID              *int64             `bson:"id,omitempty"`
	CropID                string             `bson:"crop_id"`
	GrowthStageID         string             `bson:"growth_stage_id"`
	SoilName              string             `bson:"soil_name"`
	Moi                   float64            `bson:"moi"`
	Temp                  float64            `bson:"temp"`
	Humidity              float64            `bson:"humidity"`
	Result                *int               `bson:"result"`
	PredictionProbability *float64           `bson:"prediction_probability,omitempty"`
	Timestamp             time.Time          `bson:"timestamp"`
}

// readingIDFilter accepts either a native document id or a legacy integer id
// and builds the matching filter. Records migrated from the relational
// backend are addressable by their original integer id indefinitely.
func readingIDFilter(id string) (bson.M, error) {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}, nil
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return bson.M{"id": n}, nil
	}
	return nil, ErrInvalidID
}

func (r *readingMongoRepository) readings() *mongo.Collection {
	return r.db.DB.Collection("readings")
}

func (r *readingMongoRepository) List(skip, limit int, cropID string) ([]entities.Reading, error) {
	if limit <= 0 {
		limit = 100
	}

	ctx := context.Background()
	filter := bson.M{}
	if cropID != "" {
		filter["crop_id"] = cropID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.readings().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []readingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return r.enrich(ctx, docs)
}

func (r *readingMongoRepository) GetByID(id string) (*entities.Reading, error) {
	filter, err := readingIDFilter(id)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	var doc readingDoc
	err = r.readings().FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}

	readings, err := r.enrich(ctx, []readingDoc{doc})
	if err != nil {
		return nil, err
	}
	return &readings[0], nil
}

func (r *readingMongoRepository) Create(input *entities.ReadingInput) (*entities.Reading, error) {
	ctx := context.Background()

	cropID, cropName, err := r.resolveReference(ctx, "crops", input.CropName)
	if err != nil {
		return nil, err
	}
	stageID, stageName, err := r.resolveReference(ctx, "growth_stages", input.GrowthStageName)
	if err != nil {
		return nil, err
	}

	doc := readingDoc{
		CropID:                cropID.Hex(),
		GrowthStageID:         stageID.Hex(),
		SoilName:              input.SoilName,
		Moi:                   floatValue(input.Moi),
		Temp:                  floatValue(input.Temp),
		Humidity:              floatValue(input.Humidity),
		Result:                input.Result,
		PredictionProbability: input.PredictionProbability,
		Timestamp:             parseTimestamp(input.Timestamp),
	}

	result, err := r.readings().InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.OID = result.InsertedID.(primitive.ObjectID)

	reading := doc.toReading(cropName, stageName)
	return &reading, nil
}

func (r *readingMongoRepository) Update(id string, input *entities.ReadingInput) (*entities.Reading, error) {
	filter, err := readingIDFilter(id)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	set := bson.M{}
	if input.Moi != nil {
		set["moi"] = *input.Moi
	}
	if input.Temp != nil {
		set["temp"] = *input.Temp
	}
	if input.Humidity != nil {
		set["humidity"] = *input.Humidity
	}
	if input.SoilName != "" {
		set["soil_name"] = input.SoilName
	}
	if input.Result != nil {
		set["result"] = *input.Result
	}
	if input.PredictionProbability != nil {
		set["prediction_probability"] = *input.PredictionProbability
	}
	if input.CropName != "" {
		cropID, _, err := r.resolveReference(ctx, "crops", input.CropName)
		if err != nil {
			return nil, err
		}
		set["crop_id"] = cropID.Hex()
	}
	if input.GrowthStageName != "" {
		stageID, _, err := r.resolveReference(ctx, "growth_stages", input.GrowthStageName)
		if err != nil {
			return nil, err
		}
		set["growth_stage_id"] = stageID.Hex()
	}

	// Nothing to change: return the record as-is, enriched.
	if len(set) == 0 {
		return r.GetByID(id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc readingDoc
	err = r.readings().FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, err
	}

	readings, err := r.enrich(ctx, []readingDoc{doc})
	if err != nil {
		return nil, err
	}
	return &readings[0], nil
}

func (r *readingMongoRepository) Delete(id string) (bool, error) {
	filter, err := readingIDFilter(id)
	if err != nil {
		return false, err
	}

	result, err := r.readings().DeleteOne(context.Background(), filter)
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// resolveReference finds a reference document by exact name, inserting a new
// one when absent. The unique index on name is the only protection against
// concurrent duplicate-name inserts.
func (r *readingMongoRepository) resolveReference(ctx context.Context, collection, name string) (primitive.ObjectID, string, error) {
	coll := r.db.DB.Collection(collection)

	var ref struct {
		OID  primitive.ObjectID `bson:"_id"`
		Name string             `bson:"name"`
	}
	err := coll.FindOne(ctx, bson.M{"name": name}).Decode(&ref)
	if err == nil {
		return ref.OID, ref.Name, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, "", err
	}

	result, err := coll.InsertOne(ctx, bson.M{"name": name})
	if err != nil {
		return primitive.NilObjectID, "", err
	}
	return result.InsertedID.(primitive.ObjectID), name, nil
}

// enrich attaches crop and growth stage names to the documents with one
// batched query per reference collection.
func (r *readingMongoRepository) enrich(ctx context.Context, docs []readingDoc) ([]entities.Reading, error) {
	if len(docs) == 0 {
		return []entities.Reading{}, nil
	}

	cropIDs := make(map[string]struct{})
	stageIDs := make(map[string]struct{})
	for i := range docs {
		if docs[i].CropID != "" {
			cropIDs[docs[i].CropID] = struct{}{}
		}
		if docs[i].GrowthStageID != "" {
			stageIDs[docs[i].GrowthStageID] = struct{}{}
		}
	}

	cropNames, err := r.referenceNames(ctx, "crops", cropIDs)
	if err != nil {
		return nil, err
	}
	stageNames, err := r.referenceNames(ctx, "growth_stages", stageIDs)
	if err != nil {
		return nil, err
	}

	readings := make([]entities.Reading, 0, len(docs))
	for i := range docs {
		readings = append(readings, docs[i].toReading(cropNames[docs[i].CropID], stageNames[docs[i].GrowthStageID]))
	}
	return readings, nil
}

func (r *readingMongoRepository) referenceNames(ctx context.Context, collection string, hexIDs map[string]struct{}) (map[string]string, error) {
	names := make(map[string]string, len(hexIDs))
	if len(hexIDs) == 0 {
		return names, nil
	}

	oids := make([]primitive.ObjectID, 0, len(hexIDs))
	for hex := range hexIDs {
		if oid, err := primitive.ObjectIDFromHex(hex); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return names, nil
	}

	cursor, err := r.db.DB.Collection(collection).Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
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

	for _, ref := range refs {
		names[ref.OID.Hex()] = ref.Name
	}
	return names, nil
}

func (doc *readingDoc) toReading(cropName, stageName string) entities.Reading {
	return entities.Reading{
		ID:                    doc.OID.Hex(),
		LegacyID:              doc.LegacyID,
		CropID:                doc.CropID,
		CropName:              cropName,
		GrowthStageID:         doc.GrowthStageID,
		GrowthStageName:       stageName,
		SoilName:              doc.SoilName,
		Moi:                   doc.Moi,
		Temp:                  doc.Temp,
		Humidity:              doc.Humidity,
		Result:                doc.Result,
		PredictionProbability: doc.PredictionProbability,
		Timestamp:             doc.Timestamp.UTC().Format(time.RFC3339),
	}
}

func parseTimestamp(value string) time.Time {
	if value != "" {
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}
