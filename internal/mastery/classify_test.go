package mastery

import (
	"testing"
	"time"

	"github.com/abhisek/recall/internal/spacedrep"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestClassify_NewRegardlessOfState(t *testing.T) {
	items := []spacedrep.Item{
		{EaseFactor: 2.5, IntervalDays: 0, NextReviewAt: now},
		{EaseFactor: 1.3, IntervalDays: 40, NextReviewAt: now.Add(-10 * spacedrep.Day)},
		{EaseFactor: 3.0, IntervalDays: 7, NextReviewAt: now.Add(7 * spacedrep.Day)},
	}
	for i, it := range items {
		c := Classify(it, now)
		if c.Status != StatusNew {
			t.Errorf("item %d: Status = %q, want new", i, c.Status)
		}
		if c.MasteryPercent != 0 {
			t.Errorf("item %d: MasteryPercent = %d, want 0", i, c.MasteryPercent)
		}
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		item spacedrep.Item
		want Status
	}{
		{"due exactly now", spacedrep.Item{Repetitions: 1, NextReviewAt: now}, StatusDue},
		{"overdue", spacedrep.Item{Repetitions: 2, NextReviewAt: now.Add(-time.Hour)}, StatusDue},
		{"scheduled later", spacedrep.Item{Repetitions: 2, NextReviewAt: now.Add(time.Hour)}, StatusLearning},
		{"never passed", spacedrep.Item{Repetitions: 0, NextReviewAt: now.Add(time.Hour)}, StatusNew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.item, now); got != tt.want {
				t.Errorf("StatusOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDifficultyOf(t *testing.T) {
	tests := []struct {
		ease float64
		want Difficulty
	}{
		{2.8, DifficultyEasy},
		{2.5, DifficultyEasy},
		{2.49, DifficultyMedium},
		{2.0, DifficultyMedium},
		{1.99, DifficultyHard},
		{1.3, DifficultyHard},
	}
	for _, tt := range tests {
		if got := DifficultyOf(tt.ease); got != tt.want {
			t.Errorf("DifficultyOf(%v) = %q, want %q", tt.ease, got, tt.want)
		}
	}
}

func TestMasteryPercent(t *testing.T) {
	tests := []struct {
		reps int
		want int
	}{
		{0, 0}, {1, 33}, {2, 33}, {3, 66}, {5, 66}, {6, 100}, {25, 100},
	}
	for _, tt := range tests {
		if got := MasteryPercent(tt.reps); got != tt.want {
			t.Errorf("MasteryPercent(%d) = %d, want %d", tt.reps, got, tt.want)
		}
	}
}

func TestFilterAndCount(t *testing.T) {
	items := []spacedrep.Item{
		{ID: "n1", NextReviewAt: now},
		{ID: "d1", Repetitions: 1, NextReviewAt: now.Add(-time.Minute)},
		{ID: "l1", Repetitions: 3, NextReviewAt: now.Add(spacedrep.Day)},
		{ID: "d2", Repetitions: 4, NextReviewAt: now.Add(-spacedrep.Day)},
	}

	due := Filter(items, now, StatusDue)
	if len(due) != 2 || due[0].ID != "d1" || due[1].ID != "d2" {
		t.Errorf("Filter(due) = %v", due)
	}

	counts := CountByStatus(items, now)
	if counts[StatusNew] != 1 || counts[StatusDue] != 2 || counts[StatusLearning] != 1 {
		t.Errorf("CountByStatus = %v", counts)
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus("due"); !ok || s != StatusDue {
		t.Errorf("ParseStatus(due) = %q, %v", s, ok)
	}
	if _, ok := ParseStatus("mastered"); ok {
		t.Error("ParseStatus(mastered) should fail")
	}
}

func TestMasteryBar(t *testing.T) {
	tests := map[int]string{0: "□□□", 33: "■□□", 66: "■■□", 100: "■■■"}
	for pct, want := range tests {
		if got := MasteryBar(pct); got != want {
			t.Errorf("MasteryBar(%d) = %q, want %q", pct, got, want)
		}
	}
}
