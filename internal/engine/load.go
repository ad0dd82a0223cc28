package engine

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/devinpereira/Flexin/internal/domain"
)

// Defaults used when no load model is configured or the model fails.
const (
	DefaultSets = 3
	DefaultReps = 10
)

// Clip ranges for the score-driven policy.
const (
	minScoreSets, maxScoreSets         = 2, 5
	minScoreReps, maxScoreReps         = 8, 15
	minScoreDuration, maxScoreDuration = 15, 45
)

// ErrNonFiniteOutput is reported when a model returns NaN or an infinity.
var ErrNonFiniteOutput = errors.New("load model returned a non-finite value")

// LoadSource tells where an estimate came from.
type LoadSource string

const (
	SourceDefault   LoadSource = "default"
	SourceRegressor LoadSource = "regressor"
	SourceScore     LoadSource = "score"
	SourceFallback  LoadSource = "fallback" // a model was configured but failed
)

// LoadEstimate is the outcome of estimating one exercise. When Source is SourceFallback, Err holds
// the model failure and Sets/Reps hold the defaults.
type LoadEstimate struct {
	Sets     int
	Reps     int
	Duration int
	Source   LoadSource
	Err      error
}

// Fallback reports whether the estimate replaced a failed model call.
func (e LoadEstimate) Fallback() bool {
	return e.Source == SourceFallback
}

// LoadRegressor predicts sets and reps from a feature row laid out as Vocabulary.LoadColumns.
type LoadRegressor interface {
	PredictLoad(ctx context.Context, row []float64) (sets, reps float64, err error)
}

// LoadScorer predicts a single intensity score in [0, 1] from the same feature row.
type LoadScorer interface {
	Score(ctx context.Context, row []float64) (float64, error)
}

// LoadStrategy estimates sets/reps for one exercise.
type LoadStrategy interface {
	Name() string
	Estimate(ctx context.Context, entry domain.CatalogEntry, p domain.EncodedProfile) LoadEstimate
}

// FeatureRow builds the load model's input:
// [goal_code, experience_code, age_group, days_per_week, body_part_code, difficulty_code].
// The column order is what the model was fitted against and must not change.
func FeatureRow(v Vocabulary, p domain.EncodedProfile, entry domain.CatalogEntry) []float64 {
	bodyPart := 0
	if entry.BodyPartEnc != nil {
		bodyPart = *entry.BodyPartEnc
	}
	difficulty := v.DifficultyCode(entry.Difficulty)
	if entry.DifficultyEnc != nil {
		difficulty = *entry.DifficultyEnc
	}
	return []float64{
		float64(p.GoalCode),
		float64(p.ExperienceCode),
		float64(p.AgeGroup),
		float64(p.DaysPerWeek),
		float64(bodyPart),
		float64(difficulty),
	}
}

// DefaultLoad prescribes DefaultSets x DefaultReps for everything.
type DefaultLoad struct{}

func (DefaultLoad) Name() string { return string(SourceDefault) }

func (DefaultLoad) Estimate(context.Context, domain.CatalogEntry, domain.EncodedProfile) LoadEstimate {
	return LoadEstimate{Sets: DefaultSets, Reps: DefaultReps, Source: SourceDefault}
}

// RegressorLoad asks a regression model for sets and reps directly.
type RegressorLoad struct {
	vocab     Vocabulary
	regressor LoadRegressor
}

// NewRegressorLoad returns a regressor-backed strategy.
func NewRegressorLoad(vocab Vocabulary, regressor LoadRegressor) *RegressorLoad {
	return &RegressorLoad{vocab: vocab, regressor: regressor}
}

func (s *RegressorLoad) Name() string { return string(SourceRegressor) }

func (s *RegressorLoad) Estimate(ctx context.Context, entry domain.CatalogEntry, p domain.EncodedProfile) LoadEstimate {
	if s.regressor == nil {
		return DefaultLoad{}.Estimate(ctx, entry, p)
	}
	sets, reps, err := s.regressor.PredictLoad(ctx, FeatureRow(s.vocab, p, entry))
	if err != nil {
		return fallback(fmt.Errorf("predict load for %q: %w", entry.ID, err))
	}
	if !finite(sets) || !finite(reps) {
		return fallback(ErrNonFiniteOutput)
	}
	return LoadEstimate{Sets: roundHalfEven(sets), Reps: roundHalfEven(reps), Source: SourceRegressor}
}

// ScoreLoad scales a single model score into clipped sets/reps (and duration) ranges.
type ScoreLoad struct {
	vocab         Vocabulary
	scorer        LoadScorer
	modelDuration bool
}

// NewScoreLoad returns a score-backed strategy. With modelDuration set, estimates also carry a
// duration in minutes.
func NewScoreLoad(vocab Vocabulary, scorer LoadScorer, modelDuration bool) *ScoreLoad {
	return &ScoreLoad{vocab: vocab, scorer: scorer, modelDuration: modelDuration}
}

func (s *ScoreLoad) Name() string { return string(SourceScore) }

func (s *ScoreLoad) Estimate(ctx context.Context, entry domain.CatalogEntry, p domain.EncodedProfile) LoadEstimate {
	if s.scorer == nil {
		return DefaultLoad{}.Estimate(ctx, entry, p)
	}
	score, err := s.scorer.Score(ctx, FeatureRow(s.vocab, p, entry))
	if err != nil {
		return fallback(fmt.Errorf("score load for %q: %w", entry.ID, err))
	}
	if !finite(score) {
		return fallback(ErrNonFiniteOutput)
	}
	return ScoreEstimate(score, s.modelDuration)
}

// ScoreEstimate applies the clipping policy to a raw score. With withDuration the exercise is
// timed: Duration replaces Reps, which is left zero.
func ScoreEstimate(score float64, withDuration bool) LoadEstimate {
	est := LoadEstimate{
		Sets:   clip(roundHalfEven(score*5), minScoreSets, maxScoreSets),
		Source: SourceScore,
	}
	if withDuration {
		est.Duration = clip(roundHalfEven(score*45), minScoreDuration, maxScoreDuration)
	} else {
		est.Reps = clip(roundHalfEven(score*15), minScoreReps, maxScoreReps)
	}
	return est
}

// SelectStrategy picks exactly one strategy from the available signals: a regressor wins over a
// scorer, and without either the defaults apply.
func SelectStrategy(vocab Vocabulary, regressor LoadRegressor, scorer LoadScorer, modelDuration bool) LoadStrategy {
	switch {
	case regressor != nil:
		return NewRegressorLoad(vocab, regressor)
	case scorer != nil:
		return NewScoreLoad(vocab, scorer, modelDuration)
	default:
		return DefaultLoad{}
	}
}

func fallback(err error) LoadEstimate {
	return LoadEstimate{Sets: DefaultSets, Reps: DefaultReps, Source: SourceFallback, Err: err}
}

// roundHalfEven matches the rounding the models' training code uses.
func roundHalfEven(x float64) int {
	return int(math.RoundToEven(x))
}

func clip(x, lo, hi int) int {
	return min(max(x, lo), hi)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
