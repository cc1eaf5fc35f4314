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

const ProfileCollectionName = "profiles"

type mongoProfileRepository struct {
	collection *mongo.Collection
}

func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(ProfileCollectionName),
	}
}

func (r *mongoProfileRepository) Create(ctx context.Context, p *domain.Profile) (primitive.ObjectID, error) {
	if p.UserID == "" {
		return primitive.NilObjectID, errors.New("profile requires userId")
	}
	p.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted profile ID")
	}
	return insertedID, nil
}

func (r *mongoProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *mongoProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

// Update replaces the editable fields. UserID and CreatedAt never change.
func (r *mongoProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	if p.ID == primitive.NilObjectID {
		return errors.New("profile ID is required for update")
	}
	p.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"experience":           p.Experience,
			"goals":                p.Goals,
			"equipment":            p.Equipment,
			"constraints":          p.Constraints,
			"preferredDurationMin": p.PreferredDurationMin,
			"updatedAt":            p.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProfileIndexes enforces one profile per user.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
