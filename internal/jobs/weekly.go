// Package jobs runs periodic background work.
package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron"

	"github.com/devinpereira/Flexin/internal/logger"
	"github.com/devinpereira/Flexin/internal/service"
)

var ErrAlreadyRunning = errors.New("regeneration already in progress")

// Regenerator regenerates every stored profile's weekly schedule.
type Regenerator interface {
	RegenerateAll(ctx context.Context) (service.RegenerateSummary, error)
}

// WeeklyRegeneration refreshes every user's plan on a cron schedule. Overlapping runs are skipped.
type WeeklyRegeneration struct {
	cron    *cron.Cron
	regen   Regenerator
	timeout time.Duration
	log     *logger.Logger

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWeeklyRegeneration registers the job under spec (six fields, seconds first, or a
// descriptor such as "@weekly"). timeout bounds a single run.
func NewWeeklyRegeneration(spec string, regen Regenerator, timeout time.Duration, log *logger.Logger) (*WeeklyRegeneration, error) {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())
	j := &WeeklyRegeneration{
		cron:    cron.New(),
		regen:   regen,
		timeout: timeout,
		log:     log.With("service", "WeeklyRegeneration"),
		ctx:     ctx,
		cancel:  cancel,
	}
	if err := j.cron.AddFunc(spec, j.tick); err != nil {
		cancel()
		return nil, err
	}
	return j, nil
}

func (j *WeeklyRegeneration) Start() {
	j.cron.Start()
	j.log.Info("Weekly regeneration scheduled")
}

// Stop halts the scheduler, cancels a run in progress and waits for it to return.
func (j *WeeklyRegeneration) Stop() {
	j.cron.Stop()
	j.cancel()
	j.wg.Wait()
}

func (j *WeeklyRegeneration) tick() {
	j.wg.Add(1)
	defer j.wg.Done()
	if _, err := j.RunOnce(j.ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
		j.log.Error("Weekly regeneration failed", "error", err)
	}
}

// RegenerateAll lets on-demand triggers share the overlap guard of the scheduled runs.
func (j *WeeklyRegeneration) RegenerateAll(ctx context.Context) (service.RegenerateSummary, error) {
	return j.RunOnce(ctx)
}

// RunOnce performs a regeneration now unless one is already running.
func (j *WeeklyRegeneration) RunOnce(ctx context.Context) (service.RegenerateSummary, error) {
	if !j.running.CompareAndSwap(false, true) {
		j.log.Warn("Skipping regeneration, previous run still in progress")
		return service.RegenerateSummary{}, ErrAlreadyRunning
	}
	defer j.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	started := time.Now()
	summary, err := j.regen.RegenerateAll(ctx)
	j.log.Info("Regeneration finished",
		"profiles", summary.Profiles, "generated", summary.Generated, "failed", summary.Failed,
		"duration", time.Since(started))
	return summary, err
}
