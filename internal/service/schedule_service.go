package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/predictor"
	"github.com/devinpereira/Flexin/internal/repository"
)

// --- Error Definitions ---
var (
	ErrScheduleNotFound = errors.New("no schedule has been generated yet")
)

const (
	defaultAssembleTimeout = 5 * time.Second
	defaultWorkers         = 4
)

// RegenerateSummary reports the outcome of a batch regeneration.
type RegenerateSummary struct {
	Profiles  int `json:"profiles"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// ScheduleService generates weekly schedules and keeps their history.
type ScheduleService interface {
	GenerateSchedule(ctx context.Context, userID string, profile domain.UserProfile) (*domain.ScheduleRecord, error)
	GetLatestSchedule(ctx context.Context, userID string) (*domain.ScheduleRecord, error)
	// RegenerateAll regenerates the plan of every stored profile with bounded concurrency.
	RegenerateAll(ctx context.Context) (RegenerateSummary, error)
}

// ScheduleDeps groups the collaborators of the schedule service.
type ScheduleDeps struct {
	Engine       *engine.Engine
	Catalog      CatalogService
	Focus        predictor.FocusPredictor
	Load         engine.LoadStrategy
	ScheduleRepo repository.ScheduleRepository
	ProfileRepo  repository.ProfileRepository

	AssembleTimeout time.Duration
	Workers         int
}

type scheduleService struct {
	deps ScheduleDeps
	log  *logger.Logger
	now  func() time.Time
}

func NewScheduleService(deps ScheduleDeps, log *logger.Logger) ScheduleService {
	if log == nil {
		log = logger.Nop()
	}
	if deps.Load == nil {
		deps.Load = engine.DefaultLoad{}
	}
	if deps.AssembleTimeout <= 0 {
		deps.AssembleTimeout = defaultAssembleTimeout
	}
	if deps.Workers <= 0 {
		deps.Workers = defaultWorkers
	}
	return &scheduleService{
		deps: deps,
		log:  log.With("service", "ScheduleService"),
		now:  time.Now,
	}
}

// GenerateSchedule builds a schedule for profile and stores it in the user's history. A failure to
// store the record is logged; the schedule is still returned.
func (s *scheduleService) GenerateSchedule(ctx context.Context, userID string, profile domain.UserProfile) (*domain.ScheduleRecord, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	record, persistErr := s.generate(ctx, userID, profile)
	if persistErr != nil {
		s.log.Error("Failed to store schedule", "userId", userID, "requestId", record.RequestID, "error", persistErr)
	}
	return record, nil
}

func (s *scheduleService) generate(ctx context.Context, userID string, profile domain.UserProfile) (*domain.ScheduleRecord, error) {
	requestID := engine.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = engine.WithRequestID(ctx, requestID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.deps.AssembleTimeout)
	defer cancel()

	vocab := s.deps.Engine.Vocabulary()
	predictions := s.predictFocus(ctx, profile, vocab.FocusRow(profile), requestID)
	schedule := s.deps.Engine.Assemble(ctx, profile, predictions, s.deps.Catalog.Catalog(), s.deps.Load)

	record := &domain.ScheduleRecord{
		UserID:            userID,
		RequestID:         requestID,
		Profile:           profile,
		VocabularyVersion: vocab.Version,
		Strategy:          s.deps.Load.Name(),
		Schedule:          schedule,
		CreatedAt:         s.now().UTC(),
	}
	if s.deps.ScheduleRepo == nil || userID == "" {
		return record, nil
	}
	// History writes outlive the assembly deadline
	storeCtx, storeCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer storeCancel()
	return record, s.deps.ScheduleRepo.Create(storeCtx, record)
}

// predictFocus never fails: a broken predictor yields no focus, and every day is emitted empty.
func (s *scheduleService) predictFocus(ctx context.Context, profile domain.UserProfile, row []float64, requestID string) engine.FocusPredictions {
	if s.deps.Focus == nil {
		return engine.FocusPredictions{}
	}
	predictions, err := s.deps.Focus.PredictFocus(ctx, profile, row)
	if err != nil {
		s.log.Warn("Focus prediction failed, continuing without focus", "requestId", requestID, "error", err)
		return engine.FocusPredictions{}
	}
	return predictions
}

func (s *scheduleService) GetLatestSchedule(ctx context.Context, userID string) (*domain.ScheduleRecord, error) {
	if s.deps.ScheduleRepo == nil {
		return nil, ErrScheduleNotFound
	}
	record, err := s.deps.ScheduleRepo.GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *scheduleService) RegenerateAll(ctx context.Context) (RegenerateSummary, error) {
	var summary RegenerateSummary
	if s.deps.ProfileRepo == nil {
		return summary, nil
	}
	profiles, err := s.deps.ProfileRepo.ListAll(ctx)
	if err != nil {
		return summary, err
	}
	summary.Profiles = len(profiles)

	var generated, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.deps.Workers)
	for _, p := range profiles {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := ValidateProfile(p.Profile); err != nil {
				failed.Add(1)
				s.log.Warn("Skipping invalid stored profile", "userId", p.UserID, "error", err)
				return nil
			}
			jobCtx := engine.WithRequestID(gctx, uuid.NewString())
			if _, err := s.generate(jobCtx, p.UserID, p.Profile); err != nil {
				failed.Add(1)
				s.log.Error("Failed to store regenerated schedule", "userId", p.UserID, "error", err)
				return nil
			}
			generated.Add(1)
			return nil
		})
	}
	err = g.Wait()

	summary.Generated = int(generated.Load())
	summary.Failed = int(failed.Load())
	s.log.Info("Regenerated schedules", "profiles", summary.Profiles, "generated", summary.Generated, "failed", summary.Failed)
	return summary, err
}
