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

const SessionCollectionName = "workout_sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(SessionCollectionName),
	}
}

func (r *mongoSessionRepository) Create(ctx context.Context, s *domain.WorkoutSession) (primitive.ObjectID, error) {
	if s.PlanID == primitive.NilObjectID || s.UserID == "" {
		return primitive.NilObjectID, errors.New("session requires planId and userId")
	}
	s.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, s)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSession, error) {
	var s domain.WorkoutSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func openFilter(extra bson.M) bson.M {
	f := bson.M{
		"startedAt":   bson.M{"$ne": nil},
		"completedAt": nil, // matches missing and null
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

func (r *mongoSessionRepository) FindOpen(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.WorkoutSession, error) {
	var s domain.WorkoutSession
	filter := openFilter(bson.M{"userId": userID, "planId": planID})
	opts := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Complete is the only mutation a session ever sees. The open-session condition is part of
// the filter so a concurrent completion cannot be applied twice.
func (r *mongoSessionRepository) Complete(ctx context.Context, id primitive.ObjectID, completedAt time.Time, feedback string, rating *int) error {
	set := bson.M{
		"completedAt": completedAt,
		"updatedAt":   time.Now().UTC(),
	}
	if feedback != "" {
		set["feedback"] = feedback
	}
	if rating != nil {
		set["rating"] = *rating
	}

	result, err := r.collection.UpdateOne(ctx, openFilter(bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) ListCompleted(ctx context.Context, userID string, limit int64) ([]domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID, "completedAt": bson.M{"$ne": nil}}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
