package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/fitgen/internal/domain"
	"alcyxob/fitgen/internal/repository"
)

const (
	GenerationLogCollectionName = "generation_logs"

	generationLogRetention = 90 * 24 * time.Hour
)

// mongoGenerationLogRepository implements repository.GenerationLogRepository
type mongoGenerationLogRepository struct {
	collection *mongo.Collection
}

func NewMongoGenerationLogRepository(db *mongo.Database) repository.GenerationLogRepository {
	return &mongoGenerationLogRepository{
		collection: db.Collection(GenerationLogCollectionName),
	}
}

// Create inserts one generation record.
func (r *mongoGenerationLogRepository) Create(ctx context.Context, entry *domain.GenerationLog) (primitive.ObjectID, error) {
	if entry.UserID == "" || entry.Outcome == "" {
		return primitive.NilObjectID, errors.New("generation log requires userId and outcome")
	}
	entry.ID = primitive.NewObjectID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// EnsureGenerationLogIndexes creates the lookup index and a TTL index that expires
// records after the retention window.
func EnsureGenerationLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(generationLogRetention.Seconds())),
		},
		{
			Keys:    bson.D{{Key: "outcome", Value: 1}, {Key: "errorKind", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
