package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/recall/internal/spacedrep"
)

var (
	// ErrNotFound is returned when a collection, item or session is missing.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidItem is returned when an item lacks required fields.
	ErrInvalidItem = errors.New("store: invalid item")
)

// Collection groups learning items.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item is a learning item with its content and schedule state.
type Item struct {
	spacedrep.Item
	CollectionID string    `json:"collection_id"`
	Prompt       string    `json:"prompt"`
	Answer       string    `json:"answer"`
	Media        string    `json:"media,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// validateItem checks the fields every stored item must carry.
func validateItem(it *Item) error {
	switch {
	case it.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	case it.CollectionID == "":
		return fmt.Errorf("%w: missing collection", ErrInvalidItem)
	case strings.TrimSpace(it.Prompt) == "":
		return fmt.Errorf("%w: missing prompt", ErrInvalidItem)
	case strings.TrimSpace(it.Answer) == "":
		return fmt.Errorf("%w: missing answer", ErrInvalidItem)
	case it.EaseFactor < spacedrep.MinEaseFactor:
		return fmt.Errorf("%w: ease factor %.2f below %.2f", ErrInvalidItem, it.EaseFactor, spacedrep.MinEaseFactor)
	case it.IntervalDays < 0 || it.Repetitions < 0:
		return fmt.Errorf("%w: negative schedule counters", ErrInvalidItem)
	}
	return nil
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// AttemptData captures one recall event.
type AttemptData struct {
	SessionID    string
	CollectionID string
	ItemID       string
	Correct      bool
	TimeSpent    time.Duration
	Quality      int
}

// AttemptRecord is a stored attempt. Records are immutable.
type AttemptRecord struct {
	ID        int           `json:"id"`
	Sequence  int64         `json:"sequence"`
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id,omitempty"`
	ItemID    string        `json:"item_id"`
	Correct   bool          `json:"correct"`
	TimeSpent time.Duration `json:"time_spent_ms"`
	Quality   int           `json:"quality"`
}

// Session event actions.
const (
	SessionActionStart = "start"
	SessionActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID    string
	CollectionID string
	Action       string
	Target       int
	Presented    int
	Correct      int
	Incorrect    int
	Underflow    bool
	Duration     time.Duration
}

// SessionRecord is the stored end-of-session summary.
type SessionRecord struct {
	Sequence  int64         `json:"sequence"`
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	Target    int           `json:"target"`
	Presented int           `json:"presented"`
	Correct   int           `json:"correct"`
	Incorrect int           `json:"incorrect"`
	Underflow bool          `json:"underflow"`
	Duration  time.Duration `json:"duration"`
}

// StatsSnapshotData is the aggregate captured after each session.
type StatsSnapshotData struct {
	TotalItems    int     `json:"total_items"`
	NewItems      int     `json:"new_items"`
	DueItems      int     `json:"due_items"`
	LearningItems int     `json:"learning_items"`
	TotalSessions int     `json:"total_sessions"`
	Correct       int     `json:"correct"`
	Incorrect     int     `json:"incorrect"`
	Accuracy      float64 `json:"accuracy"`
	MasteryLevel  float64 `json:"mastery_level"`
	AverageEase   float64 `json:"average_ease"`
}

// SnapshotData is the versioned JSON payload of a snapshot.
type SnapshotData struct {
	Version int                `json:"version"`
	Stats   *StatsSnapshotData `json:"stats,omitempty"`
}

// Snapshot represents a point-in-time capture of collection state.
type Snapshot struct {
	ID           int
	CollectionID string
	Sequence     int64
	Timestamp    time.Time
	Data         SnapshotData
}

// CollectionRepo manages collections.
type CollectionRepo interface {
	Create(ctx context.Context, c *Collection) error
	Get(ctx context.Context, id string) (*Collection, error)
	GetByName(ctx context.Context, name string) (*Collection, error)
	List(ctx context.Context) ([]Collection, error)

	// Delete removes a collection with its items (cascade).
	Delete(ctx context.Context, id string) error
}

// ItemRepo manages learning items.
type ItemRepo interface {
	Create(ctx context.Context, it *Item) error
	Get(ctx context.Context, id string) (*Item, error)

	// ListItems returns all items of a collection in creation order.
	ListItems(ctx context.Context, collectionID string) ([]Item, error)

	// SaveSchedule replaces the four schedule fields of an item.
	SaveSchedule(ctx context.Context, item spacedrep.Item) error

	// ResetSchedules restores default schedule state for a whole collection.
	ResetSchedules(ctx context.Context, collectionID string, now time.Time) (int, error)

	Delete(ctx context.Context, id string) error
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAttempt records a recall event.
	AppendAttempt(ctx context.Context, data AttemptData) error

	// AttemptsForItem returns an item's attempts in sequence order.
	AttemptsForItem(ctx context.Context, itemID string, opts QueryOpts) ([]AttemptRecord, error)

	// AttemptsForCollection returns a collection's attempts in sequence order.
	AttemptsForCollection(ctx context.Context, collectionID string, opts QueryOpts) ([]AttemptRecord, error)

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// SessionResults returns completed session summaries in sequence order.
	SessionResults(ctx context.Context, collectionID string, opts QueryOpts) ([]SessionRecord, error)
}

// SnapshotRepo manages collection state snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, collectionID string) (*Snapshot, error)

	// List returns snapshots newest first, limited to n (0 = all).
	List(ctx context.Context, collectionID string, n int) ([]Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, collectionID string, keep int) error
}
