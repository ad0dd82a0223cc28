package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiagnosticKind classifies non-fatal events raised while assembling a schedule.
type DiagnosticKind string

const (
	DiagnosticEmptyDay     DiagnosticKind = "empty_day"     // A selected day matched no exercises
	DiagnosticLoadFallback DiagnosticKind = "load_fallback" // The load model failed and defaults were used
)

// Diagnostic is an append-only observability record.
type Diagnostic struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind       DiagnosticKind     `bson:"kind" json:"kind"`
	Day        Weekday            `bson:"day" json:"day"`
	FocusTags  []string           `bson:"focusTags" json:"focus_tags"`
	ExerciseID string             `bson:"exerciseId,omitempty" json:"exercise_id,omitempty"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`
	RequestID  string             `bson:"requestId,omitempty" json:"request_id,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
