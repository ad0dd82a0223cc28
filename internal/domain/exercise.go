// internal/domain/exercise.go
package domain

// Difficulty levels used by the exercise catalog.
const (
	DifficultyLow    = "low"
	DifficultyMedium = "medium"
	DifficultyHigh   = "high"
)

// CatalogEntry represents a single exercise in the reference catalog.
// Entries are curated outside this service and are never modified here.
type CatalogEntry struct {
	ID         string `bson:"_id" json:"id"`
	Seq        int    `bson:"seq,omitempty" json:"-"` // Position in the curated catalog, used for stable ordering
	Name       string `bson:"name" json:"name"`
	BodyPart   string `bson:"bodyPart" json:"body_part"`   // e.g., "chest", "quads", "cardio"
	Difficulty string `bson:"difficulty" json:"difficulty"` // low | medium | high

	// Precomputed codes matching what the sets/reps model was fitted against.
	BodyPartEnc   *int `bson:"bodyPartEnc,omitempty" json:"body_part_enc,omitempty"`
	DifficultyEnc *int `bson:"difficultyEnc,omitempty" json:"difficulty_enc,omitempty"`
}
