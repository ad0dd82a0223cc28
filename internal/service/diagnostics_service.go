package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/repository"
)

const (
	defaultDiagnosticsBuffer = 256
	defaultDiagnosticsLimit  = 100
	maxDiagnosticsLimit      = 1000
)

// DiagnosticsService receives engine diagnostics without blocking schedule assembly and persists
// them in the background.
type DiagnosticsService interface {
	// Record enqueues d. It never blocks; events are dropped when the buffer is full.
	Record(d domain.Diagnostic)
	// Start runs the background writer until Close is called.
	Start()
	// Close stops accepting events, flushes the buffer and waits for the writer.
	Close()
	ListRecent(ctx context.Context, limit int64) ([]domain.Diagnostic, error)
	Dropped() int64
}

type diagnosticsService struct {
	repo    repository.DiagnosticRepository
	events  chan domain.Diagnostic
	log     *logger.Logger
	now     func() time.Time
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	start  sync.Once
}

// NewDiagnosticsService creates a recorder with the given buffer size.
func NewDiagnosticsService(repo repository.DiagnosticRepository, buffer int, log *logger.Logger) DiagnosticsService {
	if buffer <= 0 {
		buffer = defaultDiagnosticsBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &diagnosticsService{
		repo:   repo,
		events: make(chan domain.Diagnostic, buffer),
		log:    log.With("service", "DiagnosticsService"),
		now:    time.Now,
		done:   make(chan struct{}),
	}
}

func (s *diagnosticsService) Record(d domain.Diagnostic) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now().UTC()
	}
	select {
	case s.events <- d:
	default:
		s.dropped.Add(1)
		s.log.Warn("Diagnostics buffer full, dropping event", "kind", d.Kind, "day", d.Day, "requestId", d.RequestID)
	}
}

func (s *diagnosticsService) Start() {
	s.start.Do(func() {
		go s.run()
	})
}

func (s *diagnosticsService) run() {
	defer close(s.done)
	for d := range s.events {
		s.persist(d)
	}
}

func (s *diagnosticsService) persist(d domain.Diagnostic) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Create(ctx, &d); err != nil {
		s.log.Error("Failed to persist diagnostic", "kind", d.Kind, "error", err)
	}
}

func (s *diagnosticsService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()

	// Drain synchronously if the writer was never started
	s.Start()
	<-s.done

	if n := s.dropped.Load(); n > 0 {
		s.log.Warn("Diagnostics were dropped", "count", n)
	}
}

func (s *diagnosticsService) ListRecent(ctx context.Context, limit int64) ([]domain.Diagnostic, error) {
	if limit <= 0 {
		limit = defaultDiagnosticsLimit
	}
	if limit > maxDiagnosticsLimit {
		limit = maxDiagnosticsLimit
	}
	if s.repo == nil {
		return []domain.Diagnostic{}, nil
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *diagnosticsService) Dropped() int64 {
	return s.dropped.Load()
}
