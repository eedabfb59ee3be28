package session

import "time"

// Results holds the counters exposed once a run completes.
type Results struct {
	Target         int  `json:"target"`
	Presented      int  `json:"presented"`
	Correct        int  `json:"correct"`
	Incorrect      int  `json:"incorrect"`
	Replenishments int  `json:"replenishments"`
	Underflow      bool `json:"underflow"`
}

// Accuracy returns the correct ratio (0.0-1.0), or 0 with no answers.
func (r Results) Accuracy() float64 {
	answered := r.Correct + r.Incorrect
	if answered == 0 {
		return 0
	}
	return float64(r.Correct) / float64(answered)
}

// Summary holds the data displayed when a run ends.
type Summary struct {
	SessionID    string        `json:"session_id"`
	CollectionID string        `json:"collection_id"`
	Duration     time.Duration `json:"duration"`
	Results      Results       `json:"results"`
	Missed       []string      `json:"missed"` // prompts of items answered incorrectly at least once
}
