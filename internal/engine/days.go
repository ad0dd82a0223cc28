package engine

import (
	"slices"

	"github.com/devinpereira/Flexin/internal/domain"
)

// recoveryDays maps a weekly frequency to week indexes spaced for recovery (0 = Monday).
var recoveryDays = map[int][]int{
	1: {2},
	2: {1, 5},
	3: {0, 3, 6},
	4: {0, 2, 4, 6},
	5: {0, 1, 3, 5, 6},
	6: {0, 1, 2, 4, 5, 6},
	7: {0, 1, 2, 3, 4, 5, 6},
}

// SelectDays picks the training weekdays for n sessions per week, in calendar order.
// Frequencies outside 1..7 fall back to the first n weekdays, clamped to the week.
func SelectDays(n int) []domain.Weekday {
	indexes, ok := recoveryDays[n]
	if !ok {
		n = min(max(n, 0), len(domain.Week))
		indexes = make([]int, n)
		for i := range indexes {
			indexes[i] = i
		}
	}

	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	days := make([]domain.Weekday, 0, len(sorted))
	for _, i := range sorted {
		if i < 0 || i >= len(domain.Week) {
			continue
		}
		days = append(days, domain.Week[i])
	}
	return days
}
