package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

// SnapshotVersion is the current snapshot payload version.
const SnapshotVersion = 1

// Service loads history from storage and aggregates it.
type Service struct {
	items     store.ItemRepo
	events    store.EventRepo
	snapshots store.SnapshotRepo
	keep      int
}

// NewService creates a stats service. keep bounds the snapshots retained per
// collection; 0 keeps all.
func NewService(items store.ItemRepo, events store.EventRepo, snapshots store.SnapshotRepo, keep int) *Service {
	return &Service{items: items, events: events, snapshots: snapshots, keep: keep}
}

// Collection returns current stats for a collection.
func (s *Service) Collection(ctx context.Context, collectionID string, now time.Time) (CollectionStats, error) {
	stored, err := s.items.ListItems(ctx, collectionID)
	if err != nil {
		return CollectionStats{}, err
	}
	sessions, err := s.events.SessionResults(ctx, collectionID, store.QueryOpts{})
	if err != nil {
		return CollectionStats{}, err
	}

	items := make([]spacedrep.Item, len(stored))
	for i, it := range stored {
		items[i] = it.Item
	}
	return Collection(items, sessions, now), nil
}

// Item returns attempt stats for one item.
func (s *Service) Item(ctx context.Context, itemID string) (ItemStats, error) {
	attempts, err := s.events.AttemptsForItem(ctx, itemID, store.QueryOpts{})
	if err != nil {
		return ItemStats{}, err
	}
	return ForItem(attempts), nil
}

// Capture saves a snapshot of the collection's current stats and prunes old ones.
func (s *Service) Capture(ctx context.Context, collectionID string, now time.Time) error {
	cs, err := s.Collection(ctx, collectionID, now)
	if err != nil {
		return err
	}

	err = s.snapshots.Save(ctx, &store.Snapshot{
		CollectionID: collectionID,
		Timestamp:    now,
		Data:         store.SnapshotData{Version: SnapshotVersion, Stats: cs.Snapshot()},
	})
	if err != nil {
		return fmt.Errorf("capture stats: %w", err)
	}

	if s.keep > 0 {
		return s.snapshots.Prune(ctx, collectionID, s.keep)
	}
	return nil
}

// History returns up to n snapshots, newest first.
func (s *Service) History(ctx context.Context, collectionID string, n int) ([]store.Snapshot, error) {
	return s.snapshots.List(ctx, collectionID, n)
}
