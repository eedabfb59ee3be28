package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// builder renders SQLite statements for the hand-written repos.
var builder = entsql.Dialect(dialect.SQLite)

// collectionRepo implements CollectionRepo with the ent SQL builder.
type collectionRepo struct {
	db *sql.DB
}

var collectionColumns = []string{"id", "name", "description", "created_at"}

func (r *collectionRepo) Create(ctx context.Context, c *Collection) error {
	if c.Name == "" {
		return fmt.Errorf("create collection: missing name")
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.CreatedAt = c.CreatedAt.UTC()

	query, args := builder.Insert(CollectionsTable.Name).
		Columns(collectionColumns...).
		Values(c.ID, c.Name, c.Description, c.CreatedAt).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create collection %q: %w", c.Name, err)
	}
	return nil
}

func (r *collectionRepo) Get(ctx context.Context, id string) (*Collection, error) {
	return r.getBy(ctx, "id", id)
}

func (r *collectionRepo) GetByName(ctx context.Context, name string) (*Collection, error) {
	return r.getBy(ctx, "name", name)
}

func (r *collectionRepo) getBy(ctx context.Context, column, value string) (*Collection, error) {
	query, args := builder.Select(collectionColumns...).
		From(entsql.Table(CollectionsTable.Name)).
		Where(entsql.EQ(column, value)).
		Query()

	var c Collection
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %q: %w", value, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	return &c, nil
}

func (r *collectionRepo) List(ctx context.Context) ([]Collection, error) {
	query, args := builder.Select(collectionColumns...).
		From(entsql.Table(CollectionsTable.Name)).
		OrderBy("name").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var out []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the collection, its items and its event history.
func (r *collectionRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{AttemptEventsTable.Name, SessionEventsTable.Name, SnapshotsTable.Name} {
		query, args := builder.Delete(table).Where(entsql.EQ("collection_id", id)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	query, args := builder.Delete(CollectionsTable.Name).Where(entsql.EQ("id", id)).Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("collection %q: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
