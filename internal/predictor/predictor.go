// Package predictor talks to the model serving endpoints that produce focus tags, set/rep
// regressions and intensity scores, and provides a deterministic fallback for focus tags.
package predictor

import (
	"context"
	"errors"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
)

var (
	ErrBadStatus   = errors.New("model endpoint returned a non-success status")
	ErrBadResponse = errors.New("model endpoint returned an unexpected payload")
)

// FocusPredictor produces per-day focus tags for a profile. row is the vocabulary's focus
// feature row for the same profile.
type FocusPredictor interface {
	PredictFocus(ctx context.Context, profile domain.UserProfile, row []float64) (engine.FocusPredictions, error)
}
