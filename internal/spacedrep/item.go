package spacedrep

import "time"

// Item holds the spaced repetition state for a single learning item.
// Content (prompt, answer, media) belongs to the store and is not carried here.
type Item struct {
	ID           string    `json:"id"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// NewItem returns an item with default schedule state, due immediately.
func NewItem(id string, now time.Time) Item {
	return Item{
		ID:           id,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		NextReviewAt: now,
	}
}

// IsDue returns true if the item is due for review (at or past the review time).
func (it Item) IsDue(now time.Time) bool {
	return !now.Before(it.NextReviewAt)
}

// OverdueDays returns the fractional number of days elapsed since the
// scheduled review. The value is negative when the review lies in the future.
func (it Item) OverdueDays(now time.Time) float64 {
	return float64(now.Sub(it.NextReviewAt)) / float64(Day)
}

// DaysUntilReview returns the number of whole days until the next review.
// Returns 0 if already due.
func (it Item) DaysUntilReview(now time.Time) int {
	if it.IsDue(now) {
		return 0
	}
	return int(it.NextReviewAt.Sub(now).Hours()/24.0) + 1
}
