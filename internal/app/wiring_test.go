package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devinpereira/Flexin/internal/catalog"
	"github.com/devinpereira/Flexin/internal/config"
	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/predictor"
	"github.com/devinpereira/Flexin/internal/service"
)

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exercise_db.json")
	doc := `{"a": {"name": "Squat", "body_part": "quads", "difficulty": "high"}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{Catalog: config.CatalogConfig{Source: "File", Path: path}}

	c, err := LoadCatalog(context.Background(), cfg, nil, nil, logger.Nop())
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLoadCatalogSourceErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := LoadCatalog(ctx, config.Config{Catalog: config.CatalogConfig{Source: "ftp"}}, nil, nil, logger.Nop()); !errors.Is(err, ErrUnknownCatalogSource) {
		t.Errorf("error = %v, want ErrUnknownCatalogSource", err)
	}
	if _, err := LoadCatalog(ctx, config.Config{Catalog: config.CatalogConfig{Source: "mongo"}}, nil, nil, logger.Nop()); err == nil {
		t.Error("mongo source without a database should fail")
	}
	if _, err := LoadCatalog(ctx, config.Config{Catalog: config.CatalogConfig{Source: "s3"}}, nil, nil, logger.Nop()); err == nil {
		t.Error("s3 source without storage should fail")
	}
}

func TestBuildLoadStrategy(t *testing.T) {
	vocab := engine.DefaultVocabulary()
	tests := []struct {
		name string
		cfg  config.ModelConfig
		want string
	}{
		{name: "no models", want: "default"},
		{name: "scorer", cfg: config.ModelConfig{ScorerURL: "http://models/score"}, want: "score"},
		{name: "both", cfg: config.ModelConfig{ScorerURL: "http://models/score", RegressorURL: "http://models/load"}, want: "regressor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildLoadStrategy(tt.cfg, vocab).Name(); got != tt.want {
				t.Errorf("BuildLoadStrategy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFocusPredictorDefaultsToTemplates(t *testing.T) {
	focus, release := BuildFocusPredictor(context.Background(), config.Config{}, engine.DefaultVocabulary(), logger.Nop())
	defer release()

	if _, ok := focus.(*predictor.TemplateFocusPredictor); !ok {
		t.Fatalf("got %T, want the template predictor", focus)
	}
	preds, err := focus.PredictFocus(context.Background(), domain.UserProfile{Goal: domain.GoalEndurance, DaysPerWeek: 2}, nil)
	if err != nil || len(preds) != 2 {
		t.Errorf("PredictFocus() = %v, %v", preds, err)
	}
}

func TestNewCatalogServiceKeepsNonDatabaseCatalogsReadOnly(t *testing.T) {
	initial, err := catalog.New([]domain.CatalogEntry{
		{ID: "a", Name: "Squat", BodyPart: "quads", Difficulty: "high"},
		{ID: "b", Name: "Plank", BodyPart: "core", Difficulty: "low"},
	})
	if err != nil {
		t.Fatal(err)
	}
	// The driver connects lazily, so a handle to an unreachable server is enough to show that
	// file and s3 catalogs never reach the database.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database("flexin_test")

	for _, source := range []string{"file", "S3", "mongo"} {
		t.Run(source, func(t *testing.T) {
			cfg := config.Config{Catalog: config.CatalogConfig{Source: source}}
			handle := db
			if source == "mongo" {
				handle = nil
			}
			svc := NewCatalogService(cfg, initial, handle, logger.Nop())

			if err := svc.Reload(context.Background()); !errors.Is(err, service.ErrCatalogReadOnly) {
				t.Errorf("Reload() error = %v, want ErrCatalogReadOnly", err)
			}
			if _, err := svc.Import(context.Background(), initial.Entries()); !errors.Is(err, service.ErrCatalogReadOnly) {
				t.Errorf("Import() error = %v, want ErrCatalogReadOnly", err)
			}
			if got := len(svc.ListExercises(context.Background())); got != 2 {
				t.Errorf("ListExercises() returned %d entries, want 2", got)
			}
		})
	}
}
