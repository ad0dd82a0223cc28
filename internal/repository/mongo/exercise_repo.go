package mongo

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/repository"
)

const exerciseCollectionName = "exercises"

// mongoCatalogRepository implements repository.CatalogRepository
type mongoCatalogRepository struct {
	collection *mongo.Collection
}

// NewMongoCatalogRepository creates a new catalog repository backed by MongoDB.
func NewMongoCatalogRepository(db *mongo.Database) repository.CatalogRepository {
	return &mongoCatalogRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// ListAll returns every catalog entry in curated order.
func (r *mongoCatalogRepository) ListAll(ctx context.Context) ([]domain.CatalogEntry, error) {
	var entries []domain.CatalogEntry
	findOptions := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByID retrieves a catalog entry by its exercise id.
func (r *mongoCatalogRepository) GetByID(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// UpsertMany replaces entries by id, inserting the ones that do not exist yet.
// It returns the number of documents inserted or modified.
func (r *mongoCatalogRepository) UpsertMany(ctx context.Context, entries []domain.CatalogEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.ID) == "" {
			return 0, errors.New("catalog entry id is required")
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": e.ID}).
			SetReplacement(e).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.ModifiedCount), nil
}

// EnsureCatalogIndexes creates necessary indexes for the exercises collection.
func EnsureCatalogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Curated order used by ListAll
			Keys:    bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "bodyPart", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
