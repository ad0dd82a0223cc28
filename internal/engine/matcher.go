package engine

import "github.com/devinpereira/Flexin/internal/domain"

// MaxExercisesPerDay caps the exercises planned for a single day.
const MaxExercisesPerDay = 6

// Catalog is the read-only exercise reference data, in curated order.
type Catalog interface {
	Entries() []domain.CatalogEntry
}

// Match returns the entries whose body part is in parts, preserving catalog order.
func Match(parts BodyPartSet, entries []domain.CatalogEntry) []domain.CatalogEntry {
	if len(parts) == 0 {
		return nil
	}
	var out []domain.CatalogEntry
	for _, entry := range entries {
		if parts.Has(entry.BodyPart) {
			out = append(out, entry)
		}
	}
	return out
}

// MatchDay concatenates the matches of every tag in order and caps the result at
// MaxExercisesPerDay. Tags late in the list get nothing once earlier tags fill the day.
// An exercise matched by two tags appears twice.
func MatchDay(tags []string, table *FocusTable, entries []domain.CatalogEntry) []domain.CatalogEntry {
	var out []domain.CatalogEntry
	for _, tag := range tags {
		if len(out) >= MaxExercisesPerDay {
			break
		}
		out = append(out, Match(table.Resolve(tag), entries)...)
	}
	if len(out) > MaxExercisesPerDay {
		out = out[:MaxExercisesPerDay]
	}
	return out
}
