package repository

import (
	"context"

	"github.com/devinpereira/Flexin/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// CatalogRepository stores the exercise catalog. ListAll returns entries in catalog order.
type CatalogRepository interface {
	ListAll(ctx context.Context) ([]domain.CatalogEntry, error)
	GetByID(ctx context.Context, id string) (*domain.CatalogEntry, error)
	UpsertMany(ctx context.Context, entries []domain.CatalogEntry) (int, error)
}

// ProfileRepository stores one training profile per user.
type ProfileRepository interface {
	Upsert(ctx context.Context, userID string, profile domain.UserProfile) (*domain.StoredProfile, error)
	GetByUserID(ctx context.Context, userID string) (*domain.StoredProfile, error)
	ListAll(ctx context.Context) ([]domain.StoredProfile, error)
}

// ScheduleRepository keeps the history of generated schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, record *domain.ScheduleRecord) error
	GetLatestByUserID(ctx context.Context, userID string) (*domain.ScheduleRecord, error)
}

// DiagnosticRepository persists engine diagnostics for operators.
type DiagnosticRepository interface {
	Create(ctx context.Context, d *domain.Diagnostic) error
	ListRecent(ctx context.Context, limit int64) ([]domain.Diagnostic, error)
}
