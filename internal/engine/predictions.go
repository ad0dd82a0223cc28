package engine

import (
	"sort"
	"strings"

	"github.com/devinpereira/Flexin/internal/domain"
)

// FocusPredictions maps a weekday name to the focus tags predicted for it.
type FocusPredictions map[string][]string

// For returns the tags predicted for day. Keys match exactly first, then case-insensitively.
// A missing day has no focus.
func (p FocusPredictions) For(day domain.Weekday) []string {
	if tags, ok := p[string(day)]; ok {
		return tags
	}
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.EqualFold(strings.TrimSpace(key), string(day)) {
			return p[key]
		}
	}
	return nil
}

// FocusPredictionsFromRaw converts loosely typed predictor output. A day value may be a single
// tag or a list of tags; anything else, and any non-string list element, is dropped.
func FocusPredictionsFromRaw(raw map[string]any) FocusPredictions {
	out := make(FocusPredictions, len(raw))
	for day, value := range raw {
		switch v := value.(type) {
		case string:
			out[day] = []string{v}
		case []string:
			out[day] = append([]string(nil), v...)
		case []any:
			tags := make([]string, 0, len(v))
			for _, item := range v {
				if tag, ok := item.(string); ok {
					tags = append(tags, tag)
				}
			}
			out[day] = tags
		}
	}
	return out
}
