package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var snapshotColumns = []string{"id", "collection_id", "sequence", "timestamp", "data"}

// Save stores snap. A zero Sequence takes the next global sequence and a zero
// Timestamp takes the current time.
func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	b, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	if snap.Sequence == 0 {
		if snap.Sequence, err = r.seq.Next(ctx); err != nil {
			return err
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	query, args := builder.Insert(SnapshotsTable.Name).
		Columns("collection_id", "sequence", "timestamp", "data").
		Values(snap.CollectionID, snap.Sequence, snap.Timestamp.UTC(), b).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, collectionID string) (*Snapshot, error) {
	snaps, err := r.List(ctx, collectionID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

func (r *snapshotRepo) List(ctx context.Context, collectionID string, n int) ([]Snapshot, error) {
	sel := builder.Select(snapshotColumns...).
		From(entsql.Table(SnapshotsTable.Name)).
		Where(entsql.EQ("collection_id", collectionID)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id"))
	if n > 0 {
		sel.Limit(n)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			s   Snapshot
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.CollectionID, &s.Sequence, &s.Timestamp, &raw); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal(raw, &s.Data); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *snapshotRepo) Prune(ctx context.Context, collectionID string, keep int) error {
	if keep < 0 {
		return errors.New("prune snapshots: negative keep")
	}

	// Find the ID threshold: the newest snapshot beyond the kept window.
	// IDs follow insertion order.
	query, args := builder.Select("id").
		From(entsql.Table(SnapshotsTable.Name)).
		Where(entsql.EQ("collection_id", collectionID)).
		OrderBy(entsql.Desc("id")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder.Delete(SnapshotsTable.Name).
		Where(entsql.And(
			entsql.EQ("collection_id", collectionID),
			entsql.LTE("id", threshold),
		)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
