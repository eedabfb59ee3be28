package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	switch data.Action {
	case SessionActionStart, SessionActionEnd:
	default:
		return fmt.Errorf("append session event: unknown action %q", data.Action)
	}
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder.Insert(SessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "collection_id", "action",
			"target", "presented", "correct", "incorrect", "underflow", "duration_secs").
		Values(seq, time.Now().UTC(), data.SessionID, data.CollectionID, data.Action,
			data.Target, data.Presented, data.Correct, data.Incorrect, data.Underflow,
			int(data.Duration.Seconds())).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append session event: %w", err)
	}
	return nil
}

// SessionResults returns the end events of a collection. Sessions that were
// started but never finished have no end event and are not counted.
func (r *eventRepo) SessionResults(ctx context.Context, collectionID string, opts QueryOpts) ([]SessionRecord, error) {
	sel := builder.Select("sequence", "timestamp", "session_id", "target", "presented",
		"correct", "incorrect", "underflow", "duration_secs").
		From(entsql.Table(SessionEventsTable.Name)).
		Where(entsql.And(
			entsql.EQ("collection_id", collectionID),
			entsql.EQ("action", SessionActionEnd),
		))
	query, args := applyQueryOpts(sel, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec  SessionRecord
			secs int
		)
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Target,
			&rec.Presented, &rec.Correct, &rec.Incorrect, &rec.Underflow, &secs); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.Duration = time.Duration(secs) * time.Second
		out = append(out, rec)
	}
	return out, rows.Err()
}
