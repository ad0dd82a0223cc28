package predictor

import (
	"context"
	"slices"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
)

// splitTemplates holds one focus split per training-day count, in calendar order of the selected days.
var splitTemplates = map[int][][]string{
	1: {{"full body"}},
	2: {{"upper body push", "upper body pull"}, {"lower body", "core"}},
	3: {{"upper body push"}, {"lower body"}, {"upper body pull", "core"}},
	4: {{"upper body push"}, {"lower body"}, {"upper body pull"}, {"legs", "core"}},
	5: {{"chest", "arms"}, {"back"}, {"legs"}, {"shoulders", "core"}, {"full body"}},
	6: {{"upper body push"}, {"upper body pull"}, {"lower body"}, {"chest", "shoulders"}, {"back", "arms"}, {"legs", "core"}},
	7: {{"upper body push"}, {"upper body pull"}, {"lower body"}, {"chest", "shoulders"}, {"back", "arms"}, {"legs", "core"}, {"cardio"}},
}

// TemplateFocusPredictor assigns focus tags from fixed splits. It is used when no focus model is
// configured and is fully deterministic in the profile.
type TemplateFocusPredictor struct {
	vocab engine.Vocabulary
}

func NewTemplateFocusPredictor(vocab engine.Vocabulary) *TemplateFocusPredictor {
	return &TemplateFocusPredictor{vocab: vocab}
}

func (p *TemplateFocusPredictor) PredictFocus(_ context.Context, profile domain.UserProfile, _ []float64) (engine.FocusPredictions, error) {
	days := engine.SelectDays(profile.DaysPerWeek)
	split := splitTemplates[len(days)]
	extra := p.goalTag(profile.Goal)

	out := make(engine.FocusPredictions, len(days))
	for i, day := range days {
		tags := slices.Clone(split[i])
		if extra != "" && !slices.Contains(tags, extra) {
			tags = append(tags, extra)
		}
		out[string(day)] = tags
	}
	return out, nil
}

// goalTag returns the tag appended to every day for goals that favour conditioning or mobility work.
func (p *TemplateFocusPredictor) goalTag(goal domain.Goal) string {
	code := p.vocab.GoalCode(string(goal))
	switch code {
	case p.vocab.GoalCode(string(domain.GoalWeightLoss)), p.vocab.GoalCode(string(domain.GoalEndurance)):
		return "cardio"
	case p.vocab.GoalCode(string(domain.GoalFlexibility)):
		return "core"
	}
	return ""
}
