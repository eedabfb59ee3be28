package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

// Review applies a single recall event outside a session: the item is
// rescheduled, persisted, and the attempt is logged. Passing qualities count
// as correct.
func Review(ctx context.Context, items ItemStore, events EventLog, it store.Item, quality int, now time.Time) (spacedrep.Item, error) {
	quality = spacedrep.ClampQuality(quality)
	next := spacedrep.ComputeNextSchedule(it.Item, quality, now)
	if err := items.SaveSchedule(ctx, next); err != nil {
		return spacedrep.Item{}, fmt.Errorf("save schedule: %w", err)
	}

	err := events.AppendAttempt(ctx, store.AttemptData{
		CollectionID: it.CollectionID,
		ItemID:       it.ID,
		Correct:      spacedrep.IsPass(quality),
		Quality:      quality,
	})
	if err != nil {
		return next, fmt.Errorf("record attempt: %w", err)
	}
	return next, nil
}
