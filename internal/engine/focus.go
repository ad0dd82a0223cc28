package engine

import (
	"sort"
	"strings"
)

// BodyPartSet is a set of lower-cased body-part categories.
type BodyPartSet map[string]struct{}

// Has reports whether part (compared case-insensitively) is in the set.
func (s BodyPartSet) Has(part string) bool {
	_, ok := s[normalize(part)]
	return ok
}

// Sorted returns the members in lexical order.
func (s BodyPartSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for part := range s {
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}

// FocusTable resolves focus tags to the body parts they train.
type FocusTable struct {
	parts map[string]BodyPartSet
}

// defaultFocusParts is the tag vocabulary emitted by the focus predictor.
var defaultFocusParts = map[string][]string{
	"upper body push": {"chest", "shoulders", "triceps"},
	"upper body pull": {"back", "biceps"},
	"lower body":      {"quads", "hamstrings", "glutes", "calves"},
	"full body":       {"chest", "back", "legs", "arms", "core"},
	"core":            {"core", "abs"},
	"cardio":          {"cardio"},
	"arms":            {"biceps", "triceps"},
	"legs":            {"quads", "hamstrings", "calves", "glutes"},
	"back":            {"back"},
	"chest":           {"chest"},
	"shoulders":       {"shoulders"},
}

// NewFocusTable builds a table from tag -> body parts. Keys and values are normalized.
func NewFocusTable(table map[string][]string) *FocusTable {
	t := &FocusTable{parts: make(map[string]BodyPartSet, len(table))}
	for tag, parts := range table {
		set := make(BodyPartSet, len(parts))
		for _, part := range parts {
			set[normalize(part)] = struct{}{}
		}
		t.parts[normalize(tag)] = set
	}
	return t
}

// DefaultFocusTable returns the table for the production focus predictor.
func DefaultFocusTable() *FocusTable {
	return NewFocusTable(defaultFocusParts)
}

// Resolve returns the body parts covered by tag. Unknown tags resolve to an empty set.
func (t *FocusTable) Resolve(tag string) BodyPartSet {
	src := t.parts[normalize(tag)]
	out := make(BodyPartSet, len(src))
	for part := range src {
		out[part] = struct{}{}
	}
	return out
}

// Tags lists the known tags in lexical order.
func (t *FocusTable) Tags() []string {
	out := make([]string, 0, len(t.parts))
	for tag := range t.parts {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// dedupeTags drops blank tags and repeats (case-insensitive), keeping first occurrences in order.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		key := normalize(tag)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(tag))
	}
	return out
}
