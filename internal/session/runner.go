package session

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

// ItemStore is the storage the runner reads items from and writes schedules to.
type ItemStore interface {
	ListItems(ctx context.Context, collectionID string) ([]store.Item, error)
	SaveSchedule(ctx context.Context, item spacedrep.Item) error
}

// EventLog is the append-only history the runner writes to.
type EventLog interface {
	AppendAttempt(ctx context.Context, data store.AttemptData) error
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Recorder captures aggregate state once a run finishes.
type Recorder interface {
	Capture(ctx context.Context, collectionID string, now time.Time) error
}

// RunnerOptions configures a Runner. Zero values select defaults.
type RunnerOptions struct {
	SessionID string
	Target    int
	Seed      uint64 // 0 = random
	Rand      *rand.Rand
	Clock     func() time.Time
	Recorder  Recorder
}

// Runner drives one study session against storage: it computes the next
// schedule for every answer, persists it, logs the attempt and feeds the
// outcome into the Composer. It is not safe for concurrent use.
type Runner struct {
	ID           string
	CollectionID string

	items    ItemStore
	events   EventLog
	recorder Recorder
	clock    func() time.Time

	composer  *Composer
	content   map[string]store.Item
	missed    []string
	startedAt time.Time
	shownAt   time.Time
	finished  bool
}

// NewRunner loads the collection's items, starts a composer over them and
// records the session start.
func NewRunner(ctx context.Context, items ItemStore, events EventLog, collectionID string, opts RunnerOptions) (*Runner, error) {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	id := opts.SessionID
	if id == "" {
		id = uuid.New().String()
	}

	stored, err := items.ListItems(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	pool := make([]spacedrep.Item, len(stored))
	content := make(map[string]store.Item, len(stored))
	for i, it := range stored {
		pool[i] = it.Item
		content[it.ID] = it
	}

	var copts []Option
	switch {
	case opts.Rand != nil:
		copts = append(copts, WithRand(opts.Rand))
	case opts.Seed != 0:
		copts = append(copts, WithSeed(opts.Seed))
	}
	composer := NewComposer(copts...)

	now := clock()
	if err := composer.Start(pool, opts.Target, now); err != nil {
		return nil, err
	}

	r := &Runner{
		ID:           id,
		CollectionID: collectionID,
		items:        items,
		events:       events,
		recorder:     opts.Recorder,
		clock:        clock,
		composer:     composer,
		content:      content,
		startedAt:    now,
		shownAt:      now,
	}

	err = events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:    id,
		CollectionID: collectionID,
		Action:       store.SessionActionStart,
		Target:       composer.Results().Target,
	})
	if err != nil {
		return nil, fmt.Errorf("record session start: %w", err)
	}
	return r, nil
}

// Current returns the item being presented with its content.
func (r *Runner) Current() (store.Item, bool) {
	it, ok := r.composer.Current()
	if !ok {
		return store.Item{}, false
	}
	full := r.content[it.ID]
	full.Item = it
	return full, true
}

// Answer applies a recall event to the current item. Pass QualityUnset to
// derive quality from correctness. A zero timeSpent is measured from when the
// item was shown. The returned item carries the new schedule.
func (r *Runner) Answer(ctx context.Context, correct bool, quality int, timeSpent time.Duration) (spacedrep.Item, error) {
	if r.composer.IsComplete() {
		return spacedrep.Item{}, ErrSessionComplete
	}
	current, ok := r.composer.Current()
	if !ok {
		return spacedrep.Item{}, ErrSessionComplete
	}

	if quality == QualityUnset {
		quality = DefaultIncorrectQuality
		if correct {
			quality = DefaultCorrectQuality
		}
	}
	quality = spacedrep.ClampQuality(quality)

	now := r.clock()
	if timeSpent <= 0 {
		timeSpent = now.Sub(r.shownAt)
	}
	timeSpent = min(max(timeSpent, 0), MaxRecordedTime)

	next := spacedrep.ComputeNextSchedule(current, quality, now)
	if err := r.items.SaveSchedule(ctx, next); err != nil {
		return spacedrep.Item{}, fmt.Errorf("save schedule: %w", err)
	}

	err := r.events.AppendAttempt(ctx, store.AttemptData{
		SessionID:    r.ID,
		CollectionID: r.CollectionID,
		ItemID:       current.ID,
		Correct:      correct,
		TimeSpent:    timeSpent,
		Quality:      quality,
	})
	if err != nil {
		// The schedule is already persisted.
		fmt.Fprintf(os.Stderr, "warning: failed to record attempt: %v\n", err)
	}

	if !correct && !slices.Contains(r.missed, current.ID) {
		r.missed = append(r.missed, current.ID)
	}

	r.composer.Refresh(next)
	if err := r.composer.SubmitAnswer(correct); err != nil {
		return next, err
	}
	r.shownAt = r.clock()
	return next, nil
}

// IsComplete reports whether the session has presented everything it will.
func (r *Runner) IsComplete() bool {
	return r.composer.IsComplete()
}

// Remaining returns how many more items the session intends to present.
func (r *Runner) Remaining() int {
	return r.composer.Remaining()
}

// Phase returns the composer's phase.
func (r *Runner) Phase() Phase {
	return r.composer.Phase()
}

// Results returns the session counters so far.
func (r *Runner) Results() Results {
	return r.composer.Results()
}

// Finish records the session end and captures a stats snapshot. It may be
// called before completion to abandon the session; calling it twice is a no-op.
func (r *Runner) Finish(ctx context.Context) (*Summary, error) {
	summary := r.summary()
	if r.finished {
		return summary, nil
	}
	r.finished = true

	res := summary.Results
	err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:    r.ID,
		CollectionID: r.CollectionID,
		Action:       store.SessionActionEnd,
		Target:       res.Target,
		Presented:    res.Presented,
		Correct:      res.Correct,
		Incorrect:    res.Incorrect,
		Underflow:    res.Underflow,
		Duration:     summary.Duration,
	})
	if err != nil {
		return summary, fmt.Errorf("record session end: %w", err)
	}

	if r.recorder != nil {
		if err := r.recorder.Capture(ctx, r.CollectionID, r.clock()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save stats snapshot: %v\n", err)
		}
	}
	return summary, nil
}

func (r *Runner) summary() *Summary {
	missed := make([]string, 0, len(r.missed))
	for _, id := range r.missed {
		missed = append(missed, r.content[id].Prompt)
	}
	return &Summary{
		SessionID:    r.ID,
		CollectionID: r.CollectionID,
		Duration:     r.clock().Sub(r.startedAt),
		Results:      r.composer.Results(),
		Missed:       missed,
	}
}
