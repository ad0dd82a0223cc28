package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/repository"
)

type fakeScheduleRepo struct {
	mu        sync.Mutex
	records   []domain.ScheduleRecord
	createErr error
}

func (r *fakeScheduleRepo) Create(_ context.Context, record *domain.ScheduleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	record.ID = primitive.NewObjectID()
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeScheduleRepo) GetLatestByUserID(_ context.Context, userID string) (*domain.ScheduleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].UserID == userID {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeScheduleRepo) userIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		ids = append(ids, rec.UserID)
	}
	sort.Strings(ids)
	return ids
}

type fakeProfileRepo struct {
	profiles map[string]domain.StoredProfile
	listErr  error
}

func (r *fakeProfileRepo) Upsert(_ context.Context, userID string, profile domain.UserProfile) (*domain.StoredProfile, error) {
	if r.profiles == nil {
		r.profiles = map[string]domain.StoredProfile{}
	}
	stored := r.profiles[userID]
	stored.UserID = userID
	stored.Profile = profile
	stored.UpdatedAt = time.Now().UTC()
	r.profiles[userID] = stored
	return &stored, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.StoredProfile, error) {
	stored, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *fakeProfileRepo) ListAll(context.Context) ([]domain.StoredProfile, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.StoredProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	return out, nil
}

type fakeDiagnosticRepo struct {
	mu     sync.Mutex
	stored []domain.Diagnostic
}

func (r *fakeDiagnosticRepo) Create(_ context.Context, d *domain.Diagnostic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = append(r.stored, *d)
	return nil
}

func (r *fakeDiagnosticRepo) ListRecent(_ context.Context, limit int64) ([]domain.Diagnostic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(int(limit), len(r.stored))
	return append([]domain.Diagnostic(nil), r.stored[:n]...), nil
}

type fakeCatalogRepo struct {
	entries []domain.CatalogEntry
}

func (r *fakeCatalogRepo) ListAll(context.Context) ([]domain.CatalogEntry, error) {
	out := append([]domain.CatalogEntry(nil), r.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, id string) (*domain.CatalogEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCatalogRepo) UpsertMany(_ context.Context, entries []domain.CatalogEntry) (int, error) {
	changed := 0
	for _, e := range entries {
		replaced := false
		for i := range r.entries {
			if r.entries[i].ID == e.ID {
				r.entries[i] = e
				replaced = true
			}
		}
		if !replaced {
			r.entries = append(r.entries, e)
		}
		changed++
	}
	return changed, nil
}

type staticPredictor struct {
	preds engine.FocusPredictions
	err   error
}

func (p staticPredictor) PredictFocus(context.Context, domain.UserProfile, []float64) (engine.FocusPredictions, error) {
	return p.preds, p.err
}

var errOffline = errors.New("model offline")
