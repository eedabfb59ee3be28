package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/recall/internal/spacedrep"
)

// itemRepo implements ItemRepo with the ent SQL builder.
type itemRepo struct {
	db *sql.DB
}

var itemColumns = []string{
	"id", "collection_id", "prompt", "answer", "media",
	"ease_factor", "interval_days", "repetitions", "next_review_at", "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.CollectionID, &it.Prompt, &it.Answer, &it.Media,
		&it.EaseFactor, &it.IntervalDays, &it.Repetitions, &it.NextReviewAt, &it.CreatedAt,
	)
	return it, err
}

// Create inserts a new item. A missing ID is generated and a zero schedule
// gets the defaults of a fresh item due at creation time.
func (r *itemRepo) Create(ctx context.Context, it *Item) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now()
	}
	it.CreatedAt = it.CreatedAt.UTC()
	if it.EaseFactor == 0 && it.NextReviewAt.IsZero() {
		it.Item = spacedrep.NewItem(it.ID, it.CreatedAt)
	}
	it.NextReviewAt = it.NextReviewAt.UTC()
	if err := validateItem(it); err != nil {
		return err
	}

	query, args := builder.Insert(ItemsTable.Name).
		Columns(itemColumns...).
		Values(
			it.ID, it.CollectionID, it.Prompt, it.Answer, it.Media,
			it.EaseFactor, it.IntervalDays, it.Repetitions, it.NextReviewAt, it.CreatedAt,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *itemRepo) Get(ctx context.Context, id string) (*Item, error) {
	query, args := builder.Select(itemColumns...).
		From(entsql.Table(ItemsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	it, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &it, nil
}

func (r *itemRepo) ListItems(ctx context.Context, collectionID string) ([]Item, error) {
	query, args := builder.Select(itemColumns...).
		From(entsql.Table(ItemsTable.Name)).
		Where(entsql.EQ("collection_id", collectionID)).
		OrderBy("created_at", "id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *itemRepo) SaveSchedule(ctx context.Context, s spacedrep.Item) error {
	query, args := builder.Update(ItemsTable.Name).
		Set("ease_factor", s.EaseFactor).
		Set("interval_days", s.IntervalDays).
		Set("repetitions", s.Repetitions).
		Set("next_review_at", s.NextReviewAt.UTC()).
		Where(entsql.EQ("id", s.ID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %q: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *itemRepo) ResetSchedules(ctx context.Context, collectionID string, now time.Time) (int, error) {
	fresh := spacedrep.NewItem("", now)
	query, args := builder.Update(ItemsTable.Name).
		Set("ease_factor", fresh.EaseFactor).
		Set("interval_days", fresh.IntervalDays).
		Set("repetitions", fresh.Repetitions).
		Set("next_review_at", fresh.NextReviewAt.UTC()).
		Where(entsql.EQ("collection_id", collectionID)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset schedules: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	query, args := builder.Delete(ItemsTable.Name).Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	return nil
}
