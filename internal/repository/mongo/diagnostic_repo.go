package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/repository"
)

const diagnosticCollectionName = "diagnostics"

// diagnosticRetention bounds how long diagnostics are kept before MongoDB expires them.
const diagnosticRetention = 30 * 24 * time.Hour

type mongoDiagnosticRepository struct {
	collection *mongo.Collection
}

// NewMongoDiagnosticRepository creates a repository for engine diagnostics.
func NewMongoDiagnosticRepository(db *mongo.Database) repository.DiagnosticRepository {
	return &mongoDiagnosticRepository{
		collection: db.Collection(diagnosticCollectionName),
	}
}

func (r *mongoDiagnosticRepository) Create(ctx context.Context, d *domain.Diagnostic) error {
	d.ID = primitive.NewObjectID()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, d)
	return err
}

// ListRecent returns up to limit diagnostics, newest first.
func (r *mongoDiagnosticRepository) ListRecent(ctx context.Context, limit int64) ([]domain.Diagnostic, error) {
	diagnostics := []domain.Diagnostic{}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &diagnostics); err != nil {
		return nil, err
	}
	return diagnostics, nil
}

// EnsureDiagnosticIndexes creates the TTL and lookup indexes for diagnostics.
func EnsureDiagnosticIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(diagnosticRetention.Seconds())),
		},
		{
			Keys:    bson.D{{Key: "kind", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
