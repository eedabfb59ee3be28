// Package stats summarizes schedule state and attempt history.
package stats

import (
	"time"

	"github.com/abhisek/recall/internal/mastery"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

// MasteredEase is the ease an item must exceed to count toward MasteryLevel.
const MasteredEase = 2.5

// CollectionStats aggregates a collection's items and sessions.
type CollectionStats struct {
	TotalItems    int     `json:"total_items"`
	NewItems      int     `json:"new_items"`
	DueItems      int     `json:"due_items"`
	LearningItems int     `json:"learning_items"`
	DueNow        int     `json:"due_now"`
	TotalSessions int     `json:"total_sessions"`
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	Accuracy      float64 `json:"accuracy"`      // percent, 0 without answers
	MasteryLevel  float64 `json:"mastery_level"` // percent, 0 without items
	AverageEase   float64 `json:"average_ease"`
}

// ItemStats aggregates one item's attempts.
type ItemStats struct {
	TotalAttempts int           `json:"total_attempts"`
	Correct       int           `json:"correct"`
	Incorrect     int           `json:"incorrect"`
	Accuracy      float64       `json:"accuracy"`
	AverageTime   time.Duration `json:"average_time"`
	LastAttemptAt *time.Time    `json:"last_attempt_at,omitempty"`
}

// Collection aggregates item schedule state and completed sessions.
func Collection(items []spacedrep.Item, sessions []store.SessionRecord, now time.Time) CollectionStats {
	var cs CollectionStats
	cs.TotalItems = len(items)

	counts := mastery.CountByStatus(items, now)
	cs.NewItems = counts[mastery.StatusNew]
	cs.DueItems = counts[mastery.StatusDue]
	cs.LearningItems = counts[mastery.StatusLearning]

	var mastered int
	var easeSum float64
	for _, it := range items {
		if it.EaseFactor > MasteredEase && it.IntervalDays >= 1 {
			mastered++
		}
		if it.IsDue(now) {
			cs.DueNow++
		}
		easeSum += it.EaseFactor
	}
	if len(items) > 0 {
		cs.MasteryLevel = percent(mastered, len(items))
		cs.AverageEase = easeSum / float64(len(items))
	}

	cs.TotalSessions = len(sessions)
	for _, s := range sessions {
		cs.Correct += s.Correct
		cs.Incorrect += s.Incorrect
	}
	cs.Accuracy = percent(cs.Correct, cs.Correct+cs.Incorrect)
	return cs
}

// ForItem aggregates attempts. LastAttemptAt is taken from the final record
// in slice order; callers pass attempts in the order they were recorded.
func ForItem(attempts []store.AttemptRecord) ItemStats {
	var is ItemStats
	is.TotalAttempts = len(attempts)
	if len(attempts) == 0 {
		return is
	}

	var total time.Duration
	for _, a := range attempts {
		if a.Correct {
			is.Correct++
		} else {
			is.Incorrect++
		}
		total += a.TimeSpent
	}
	is.Accuracy = percent(is.Correct, is.TotalAttempts)
	is.AverageTime = total / time.Duration(len(attempts))

	last := attempts[len(attempts)-1].Timestamp
	is.LastAttemptAt = &last
	return is
}

// Snapshot converts cs into its persisted form.
func (cs CollectionStats) Snapshot() *store.StatsSnapshotData {
	return &store.StatsSnapshotData{
		TotalItems:    cs.TotalItems,
		NewItems:      cs.NewItems,
		DueItems:      cs.DueItems,
		LearningItems: cs.LearningItems,
		TotalSessions: cs.TotalSessions,
		Correct:       cs.Correct,
		Incorrect:     cs.Incorrect,
		Accuracy:      cs.Accuracy,
		MasteryLevel:  cs.MasteryLevel,
		AverageEase:   cs.AverageEase,
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
