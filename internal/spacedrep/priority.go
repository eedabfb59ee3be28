package spacedrep

import (
	"math"
	"sort"
	"time"
)

// PriorityScore ranks an item by review urgency. Lower scores come first:
// overdue, low-ease and little-practiced items sort ahead of the rest.
func PriorityScore(item Item, now time.Time) float64 {
	overdue := item.OverdueDays(now)

	var score float64
	if overdue > 0 {
		score = -(overdue * 10)
	} else {
		score = math.Abs(overdue)
	}
	score += (3 - item.EaseFactor) * 5
	score += float64(10-item.Repetitions) * 0.5
	return score
}

// SortByPriority returns a copy of items in ascending score order.
// The sort is stable: items with equal scores keep their input order.
func SortByPriority(items []Item, now time.Time) []Item {
	return SortFunc(items, func(it Item) Item { return it }, now)
}

// SortFunc is SortByPriority for any value that carries an Item.
func SortFunc[T any](values []T, item func(T) Item, now time.Time) []T {
	scores := make([]float64, len(values))
	for i, v := range values {
		scores[i] = PriorityScore(item(v), now)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] < scores[order[j]]
	})

	out := make([]T, len(values))
	for i, idx := range order {
		out[i] = values[idx]
	}
	return out
}

// TopN returns the n highest-priority items, or all of them if n exceeds len(items).
func TopN(items []Item, n int, now time.Time) []Item {
	sorted := SortByPriority(items, now)
	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		return sorted[:n]
	}
	return sorted
}
