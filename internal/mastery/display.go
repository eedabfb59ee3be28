package mastery

import "strings"

// Icon returns the glyph shown next to an item in lists and the study screen.
func Icon(s Status) string {
	switch s {
	case StatusNew:
		return "✦"
	case StatusDue:
		return "🔄"
	case StatusLearning:
		return "📖"
	default:
		return "?"
	}
}

// Label returns a human-readable status label.
func Label(s Status) string {
	switch s {
	case StatusNew:
		return "New"
	case StatusDue:
		return "Due"
	case StatusLearning:
		return "Learning"
	default:
		return "Unknown"
	}
}

// MasteryBar renders the mastery bucket as three cells, e.g. "■□□" for 33%.
func MasteryBar(percent int) string {
	filled := 0
	switch {
	case percent >= MasteryFull:
		filled = 3
	case percent >= MasteryPractice:
		filled = 2
	case percent >= MasteryStarted:
		filled = 1
	}
	return strings.Repeat("■", filled) + strings.Repeat("□", 3-filled)
}
