package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var attemptColumns = []string{
	"id", "sequence", "timestamp", "session_id", "item_id", "correct", "time_ms", "quality",
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptData) error {
	if data.ItemID == "" {
		return fmt.Errorf("append attempt: missing item id")
	}
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder.Insert(AttemptEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "collection_id", "item_id", "correct", "time_ms", "quality").
		Values(seq, time.Now().UTC(), data.SessionID, data.CollectionID, data.ItemID,
			data.Correct, data.TimeSpent.Milliseconds(), data.Quality).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (r *eventRepo) AttemptsForItem(ctx context.Context, itemID string, opts QueryOpts) ([]AttemptRecord, error) {
	return r.queryAttempts(ctx, entsql.EQ("item_id", itemID), opts)
}

func (r *eventRepo) AttemptsForCollection(ctx context.Context, collectionID string, opts QueryOpts) ([]AttemptRecord, error) {
	return r.queryAttempts(ctx, entsql.EQ("collection_id", collectionID), opts)
}

func (r *eventRepo) queryAttempts(ctx context.Context, scope *entsql.Predicate, opts QueryOpts) ([]AttemptRecord, error) {
	sel := builder.Select(attemptColumns...).
		From(entsql.Table(AttemptEventsTable.Name)).
		Where(scope)
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			rec    AttemptRecord
			timeMs int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID,
			&rec.ItemID, &rec.Correct, &timeMs, &rec.Quality); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.TimeSpent = time.Duration(timeMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
