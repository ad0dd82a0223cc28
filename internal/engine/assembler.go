package engine

import (
	"context"
	"slices"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/logger"
)

// DiagnosticsSink receives non-fatal events. Implementations must not block.
type DiagnosticsSink interface {
	Record(d domain.Diagnostic)
}

type discardSink struct{}

func (discardSink) Record(domain.Diagnostic) {}

// Engine holds the process-wide reference data used to assemble schedules.
// It is safe for concurrent use.
type Engine struct {
	vocab Vocabulary
	focus *FocusTable
	sink  DiagnosticsSink
	log   *logger.Logger
}

// New creates an Engine. A nil sink discards diagnostics and a nil logger discards logs.
func New(vocab Vocabulary, focus *FocusTable, sink DiagnosticsSink, log *logger.Logger) *Engine {
	if focus == nil {
		focus = DefaultFocusTable()
	}
	if sink == nil {
		sink = discardSink{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		vocab: vocab,
		focus: focus,
		sink:  sink,
		log:   log.With("service", "ScheduleEngine"),
	}
}

// Vocabulary returns the encoding vocabulary the engine was built with.
func (e *Engine) Vocabulary() Vocabulary {
	return e.vocab
}

// FocusTable returns the tag table the engine resolves focus with.
func (e *Engine) FocusTable() *FocusTable {
	return e.focus
}

// Encode projects a profile with the engine's vocabulary.
func (e *Engine) Encode(p domain.UserProfile) domain.EncodedProfile {
	return e.vocab.Encode(p)
}

// Assemble builds the weekly schedule for profile. It never fails: every selected day gets exactly
// one entry, empty days and load model failures are reported to the diagnostics sink.
// A nil strategy uses DefaultLoad.
func (e *Engine) Assemble(ctx context.Context, profile domain.UserProfile, predictions FocusPredictions, catalog Catalog, strategy LoadStrategy) domain.WeeklySchedule {
	if strategy == nil {
		strategy = DefaultLoad{}
	}
	var entries []domain.CatalogEntry
	if catalog != nil {
		entries = catalog.Entries()
	}
	encoded := e.vocab.Encode(profile)
	requestID := RequestIDFromContext(ctx)

	days := SelectDays(profile.DaysPerWeek)
	schedule := make(domain.WeeklySchedule, 0, len(days))
	for _, day := range days {
		focus := dedupeTags(predictions.For(day))
		matched := MatchDay(focus, e.focus, entries)

		items := make([]domain.ExercisePlanItem, 0, len(matched))
		for _, entry := range matched {
			est := strategy.Estimate(ctx, entry, encoded)
			if est.Fallback() {
				e.log.Warn("load estimation fell back to defaults",
					"requestId", requestID, "day", day, "exerciseId", entry.ID, "strategy", strategy.Name(), "error", est.Err)
				e.sink.Record(domain.Diagnostic{
					Kind:       domain.DiagnosticLoadFallback,
					Day:        day,
					FocusTags:  slices.Clone(focus),
					ExerciseID: entry.ID,
					Reason:     errString(est.Err),
					RequestID:  requestID,
				})
			}
			items = append(items, domain.ExercisePlanItem{
				ID:         entry.ID,
				Name:       entry.Name,
				Sets:       est.Sets,
				Reps:       est.Reps,
				Duration:   est.Duration,
				BodyPart:   entry.BodyPart,
				Difficulty: entry.Difficulty,
			})
		}

		if len(items) == 0 {
			e.log.Info("no exercises matched for day", "requestId", requestID, "day", day, "focus", focus)
			e.sink.Record(domain.Diagnostic{
				Kind:      domain.DiagnosticEmptyDay,
				Day:       day,
				FocusTags: slices.Clone(focus),
				RequestID: requestID,
			})
		}

		schedule = append(schedule, domain.DaySchedule{
			Day:       day,
			Focus:     focus,
			Exercises: items,
		})
	}
	return schedule
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
