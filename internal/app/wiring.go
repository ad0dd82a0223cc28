// Package app assembles the components shared by the server and the CLI from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devinpereira/Flexin/internal/cache"
	"github.com/devinpereira/Flexin/internal/catalog"
	"github.com/devinpereira/Flexin/internal/config"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/predictor"
	"github.com/devinpereira/Flexin/internal/repository"
	mongorepo "github.com/devinpereira/Flexin/internal/repository/mongo"
	"github.com/devinpereira/Flexin/internal/service"
	"github.com/devinpereira/Flexin/internal/storage"
)

const (
	CatalogSourceMongo = "mongo"
	CatalogSourceFile  = "file"
	CatalogSourceS3    = "s3"
)

var ErrUnknownCatalogSource = errors.New("unknown catalog source")

// LoadCatalog reads the exercise catalog from the configured source. db is only used for the
// mongo source and store only for the s3 source.
func LoadCatalog(ctx context.Context, cfg config.Config, db *mongo.Database, store storage.FileStorage, log *logger.Logger) (*catalog.Catalog, error) {
	source := strings.ToLower(strings.TrimSpace(cfg.Catalog.Source))
	var (
		c   *catalog.Catalog
		err error
	)
	switch source {
	case CatalogSourceMongo:
		if db == nil {
			return nil, errors.New("catalog source mongo requires a database connection")
		}
		c, err = catalog.LoadRepository(ctx, mongorepo.NewMongoCatalogRepository(db))
	case CatalogSourceFile:
		c, err = catalog.LoadFile(cfg.Catalog.Path)
	case CatalogSourceS3:
		if store == nil {
			return nil, errors.New("catalog source s3 requires object storage")
		}
		c, err = catalog.LoadObject(ctx, store, cfg.S3.CatalogKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCatalogSource, cfg.Catalog.Source)
	}
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		log.Warn("Exercise catalog is empty, every scheduled day will be empty", "source", source)
	} else {
		log.Info("Exercise catalog loaded", "source", source, "entries", c.Len())
	}
	return c, nil
}

// NewCatalogService serves initial and, only when the catalog source is mongo, backs it with the
// database so imports and reloads can replace it. File and S3 catalogs stay read-only.
func NewCatalogService(cfg config.Config, initial *catalog.Catalog, db *mongo.Database, log *logger.Logger) service.CatalogService {
	var repo repository.CatalogRepository
	if db != nil && strings.EqualFold(strings.TrimSpace(cfg.Catalog.Source), CatalogSourceMongo) {
		repo = mongorepo.NewMongoCatalogRepository(db)
	}
	return service.NewCatalogService(initial, repo, log)
}

// BuildLoadStrategy picks the load strategy from the configured model endpoints.
func BuildLoadStrategy(cfg config.ModelConfig, vocab engine.Vocabulary) engine.LoadStrategy {
	var (
		regressor engine.LoadRegressor
		scorer    engine.LoadScorer
	)
	if cfg.RegressorURL != "" {
		regressor = predictor.NewRegressorClient(cfg.RegressorURL, vocab.Version, cfg.Timeout)
	}
	if cfg.ScorerURL != "" {
		scorer = predictor.NewScoreClient(cfg.ScorerURL, vocab.Version, cfg.Timeout)
	}
	return engine.SelectStrategy(vocab, regressor, scorer, cfg.ModelDuration)
}

// BuildFocusPredictor returns the remote focus model when configured, otherwise the template
// predictor. When Redis is configured the predictor is wrapped in the focus cache. The returned
// function releases the Redis connection.
func BuildFocusPredictor(ctx context.Context, cfg config.Config, vocab engine.Vocabulary, log *logger.Logger) (predictor.FocusPredictor, func()) {
	var focus predictor.FocusPredictor
	if cfg.Model.FocusURL != "" {
		focus = predictor.NewFocusClient(cfg.Model.FocusURL, vocab.Version, cfg.Model.Timeout)
		log.Info("Using remote focus model", "url", cfg.Model.FocusURL)
	} else {
		focus = predictor.NewTemplateFocusPredictor(vocab)
		log.Info("No focus model configured, using split templates")
	}

	if cfg.Redis.Addr == "" {
		return focus, func() {}
	}
	rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("Focus cache disabled", "error", err)
		return focus, func() {}
	}
	log.Info("Focus cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	cached := cache.NewCachedFocusPredictor(focus, cache.NewRedisFocusCache(rdb, cfg.Redis.TTL), vocab.Version, log)
	return cached, func() { _ = rdb.Close() }
}
