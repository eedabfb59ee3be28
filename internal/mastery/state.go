package mastery

// Status is an item's position in the review lifecycle.
type Status string

const (
	StatusNew      Status = "new"
	StatusDue      Status = "due"
	StatusLearning Status = "learning"
)

// Difficulty buckets an item's ease factor.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Mastery bucket values. The scale is intentionally coarse for UI grouping.
const (
	MasteryNone     = 0
	MasteryStarted  = 33
	MasteryPractice = 66
	MasteryFull     = 100
)

// ParseStatus returns the Status for s, and false if s names no status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusDue, StatusLearning:
		return Status(s), true
	}
	return "", false
}
