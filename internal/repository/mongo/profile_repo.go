package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/repository"
)

const profileCollectionName = "profiles"

// mongoProfileRepository implements the repository.ProfileRepository interface using MongoDB.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new instance of mongoProfileRepository.
// It expects a connected *mongo.Database instance.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Upsert stores the profile for userID, creating the document on first save.
func (r *mongoProfileRepository) Upsert(ctx context.Context, userID string, profile domain.UserProfile) (*domain.StoredProfile, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}

	now := time.Now().UTC()
	filter := bson.M{"userId": userID}
	update := bson.M{
		"$set": bson.M{
			"profile":   profile,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.StoredProfile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetByUserID retrieves the profile saved by a user.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.StoredProfile, error) {
	var stored domain.StoredProfile
	filter := bson.M{"userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &stored, nil
}

// ListAll returns every stored profile, oldest first.
func (r *mongoProfileRepository) ListAll(ctx context.Context) ([]domain.StoredProfile, error) {
	var profiles []domain.StoredProfile
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// EnsureProfileIndexes creates necessary indexes for the profiles collection.
// Call this once during application startup.
func EnsureProfileIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
