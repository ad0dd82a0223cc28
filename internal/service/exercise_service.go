package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/devinpereira/Flexin/internal/catalog"
	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrCatalogReadOnly  = errors.New("catalog is not backed by a repository")
)

// CatalogService exposes the exercise catalog the engine matches against.
type CatalogService interface {
	// Catalog returns the catalog currently in use.
	Catalog() *catalog.Catalog
	ListExercises(ctx context.Context) []domain.CatalogEntry
	GetExercise(ctx context.Context, id string) (*domain.CatalogEntry, error)
	// Import upserts entries into the repository and swaps in the refreshed catalog.
	Import(ctx context.Context, entries []domain.CatalogEntry) (int, error)
	// Reload re-reads the catalog from the repository.
	Reload(ctx context.Context) error
}

// catalogService implements the CatalogService interface.
type catalogService struct {
	current atomic.Pointer[catalog.Catalog]
	repo    repository.CatalogRepository // nil when the catalog came from a file or object
	log     *logger.Logger
}

// NewCatalogService creates a catalog service around an already loaded catalog.
func NewCatalogService(initial *catalog.Catalog, repo repository.CatalogRepository, log *logger.Logger) CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	s := &catalogService{repo: repo, log: log.With("service", "CatalogService")}
	s.current.Store(initial)
	return s
}

func (s *catalogService) Catalog() *catalog.Catalog {
	return s.current.Load()
}

func (s *catalogService) ListExercises(_ context.Context) []domain.CatalogEntry {
	entries := s.Catalog().Entries()
	if entries == nil {
		return []domain.CatalogEntry{}
	}
	return entries
}

func (s *catalogService) GetExercise(_ context.Context, id string) (*domain.CatalogEntry, error) {
	entry, ok := s.Catalog().Get(id)
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &entry, nil
}

func (s *catalogService) Import(ctx context.Context, entries []domain.CatalogEntry) (int, error) {
	if s.repo == nil {
		return 0, ErrCatalogReadOnly
	}
	// Validate ids and order before touching the database
	validated, err := catalog.New(entries)
	if err != nil {
		return 0, err
	}
	ordered := validated.Entries()
	for i := range ordered {
		ordered[i].Seq = i
	}

	n, err := s.repo.UpsertMany(ctx, ordered)
	if err != nil {
		return 0, fmt.Errorf("upsert catalog: %w", err)
	}
	s.log.Info("Catalog imported", "entries", len(ordered), "changed", n)

	if err := s.Reload(ctx); err != nil {
		return n, err
	}
	return n, nil
}

func (s *catalogService) Reload(ctx context.Context) error {
	if s.repo == nil {
		return ErrCatalogReadOnly
	}
	c, err := catalog.LoadRepository(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	s.current.Store(c)
	s.log.Info("Catalog reloaded", "entries", c.Len())
	return nil
}
