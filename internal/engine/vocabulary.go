// Package engine turns a user profile and per-day focus predictions into a weekly workout schedule.
//
// Everything in this package is deterministic and free of shared mutable state. Reference data
// (vocabulary, focus table, catalog) is built once at start-up and handed to the Engine explicitly.
package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/devinpereira/Flexin/internal/domain"
)

// VocabularyVersion identifies the encoding scheme shared with the model training pipeline.
// Bump it whenever any list below changes order or content.
const VocabularyVersion = "2024-06.v1"

// Vocabulary is the categorical encoding shared between model training and inference.
// Codes are list positions; unknown values encode to 0.
type Vocabulary struct {
	Version     string            `json:"version"`
	Goals       []string          `json:"goals"`
	GoalAliases map[string]string `json:"goal_aliases"`
	Experience  []string          `json:"experience"`
	Difficulty  []string          `json:"difficulty"`
	// AgeBounds are inclusive upper bounds of each age group; ages above the last bound fall in
	// group len(AgeBounds).
	AgeBounds []int `json:"age_bounds"`
	// Equipment is the multi-hot column order appended to the focus predictor's feature row.
	Equipment []string `json:"equipment"`
	// LoadColumns documents the feature row layout sent to the sets/reps model.
	LoadColumns []string `json:"load_columns"`
}

// DefaultVocabulary returns the vocabulary the current models were fitted against.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Version: VocabularyVersion,
		Goals: []string{
			string(domain.GoalMuscleGain),
			string(domain.GoalWeightLoss),
			string(domain.GoalEndurance),
			string(domain.GoalFlexibility),
			string(domain.GoalWeightMaintenance),
		},
		GoalAliases: map[string]string{"fat_loss": string(domain.GoalWeightLoss)},
		Experience: []string{
			string(domain.ExperienceBeginner),
			string(domain.ExperienceIntermediate),
			string(domain.ExperienceAdvanced),
		},
		Difficulty: []string{domain.DifficultyLow, domain.DifficultyMedium, domain.DifficultyHigh},
		AgeBounds:  []int{25, 35, 45, 55},
		Equipment: []string{
			"bodyweight", "dumbbells", "barbell", "kettlebell", "resistance_bands",
			"pull_up_bar", "bench", "machines", "cardio_machine",
		},
		LoadColumns: []string{
			"goal_code", "experience_code", "age_group", "days_per_week", "body_part_code", "difficulty_code",
		},
	}
}

// GoalCode returns the code for a goal name, resolving aliases. Unknown goals map to 0.
func (v Vocabulary) GoalCode(goal string) int {
	key := normalize(goal)
	if alias, ok := v.GoalAliases[key]; ok {
		key = alias
	}
	return indexOr0(v.Goals, key)
}

// ExperienceCode returns the code for an experience level. Unknown levels map to 0.
func (v Vocabulary) ExperienceCode(experience string) int {
	return indexOr0(v.Experience, normalize(experience))
}

// DifficultyCode returns the code for a catalog difficulty. Unknown difficulties map to 0.
func (v Vocabulary) DifficultyCode(difficulty string) int {
	return indexOr0(v.Difficulty, normalize(difficulty))
}

// AgeGroup buckets an age. Ages at or below the first bound, including nonsensical ones, are group 0.
func (v Vocabulary) AgeGroup(age int) int {
	for i, bound := range v.AgeBounds {
		if age <= bound {
			return i
		}
	}
	return len(v.AgeBounds)
}

// Encode projects a profile onto the numeric representation used by the models. It never fails.
func (v Vocabulary) Encode(p domain.UserProfile) domain.EncodedProfile {
	return domain.EncodedProfile{
		GoalCode:       v.GoalCode(string(p.Goal)),
		ExperienceCode: v.ExperienceCode(string(p.Experience)),
		AgeGroup:       v.AgeGroup(p.Age),
		DaysPerWeek:    p.DaysPerWeek,
	}
}

// FocusRow builds the focus predictor's feature row:
// [goal_code, experience_code, age, days_per_week, equipment multi-hot...].
// Equipment outside the vocabulary is ignored.
func (v Vocabulary) FocusRow(p domain.UserProfile) []float64 {
	row := make([]float64, 4+len(v.Equipment))
	row[0] = float64(v.GoalCode(string(p.Goal)))
	row[1] = float64(v.ExperienceCode(string(p.Experience)))
	row[2] = float64(p.Age)
	row[3] = float64(p.DaysPerWeek)
	for _, item := range p.Equipment {
		key := normalize(item)
		for i, known := range v.Equipment {
			if key == known {
				row[4+i] = 1
				break
			}
		}
	}
	return row
}

// Fingerprint is a stable digest of the vocabulary content. Two sides agreeing on the fingerprint
// agree on every code.
func (v Vocabulary) Fingerprint() string {
	// encoding/json sorts map keys, so the output is canonical for a given value.
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func indexOr0(values []string, key string) int {
	for i, value := range values {
		if value == key {
			return i
		}
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
