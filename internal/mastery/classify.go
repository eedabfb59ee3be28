package mastery

import (
	"time"

	"github.com/abhisek/recall/internal/spacedrep"
)

// Classification is the display/filter view of an item's schedule state.
type Classification struct {
	Status         Status     `json:"status"`
	Difficulty     Difficulty `json:"difficulty"`
	MasteryPercent int        `json:"mastery_percent"`
}

// Classify derives status, difficulty and mastery bucket from item state.
func Classify(item spacedrep.Item, now time.Time) Classification {
	return Classification{
		Status:         StatusOf(item, now),
		Difficulty:     DifficultyOf(item.EaseFactor),
		MasteryPercent: MasteryPercent(item.Repetitions),
	}
}

// StatusOf returns new for never-passed items, due once the review time has
// arrived, and learning otherwise.
func StatusOf(item spacedrep.Item, now time.Time) Status {
	if item.Repetitions == 0 {
		return StatusNew
	}
	if !item.NextReviewAt.After(now) {
		return StatusDue
	}
	return StatusLearning
}

// DifficultyOf buckets an ease factor.
func DifficultyOf(ease float64) Difficulty {
	switch {
	case ease >= 2.5:
		return DifficultyEasy
	case ease >= 2.0:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// MasteryPercent maps a repetition count onto the 0/33/66/100 scale.
func MasteryPercent(repetitions int) int {
	switch {
	case repetitions <= 0:
		return MasteryNone
	case repetitions < 3:
		return MasteryStarted
	case repetitions < 6:
		return MasteryPractice
	default:
		return MasteryFull
	}
}

// Filter returns the items whose status equals status, preserving order.
func Filter(items []spacedrep.Item, now time.Time, status Status) []spacedrep.Item {
	var out []spacedrep.Item
	for _, it := range items {
		if StatusOf(it, now) == status {
			out = append(out, it)
		}
	}
	return out
}

// CountByStatus tallies items per status.
func CountByStatus(items []spacedrep.Item, now time.Time) map[Status]int {
	counts := map[Status]int{
		StatusNew:      0,
		StatusDue:      0,
		StatusLearning: 0,
	}
	for _, it := range items {
		counts[StatusOf(it, now)]++
	}
	return counts
}
