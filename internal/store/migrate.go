package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// CollectionsColumns holds the columns for the "collections" table.
	CollectionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// CollectionsTable holds the schema information for the "collections" table.
	CollectionsTable = &schema.Table{
		Name:       "collections",
		Columns:    CollectionsColumns,
		PrimaryKey: []*schema.Column{CollectionsColumns[0]},
	}

	// ItemsColumns holds the columns for the "items" table.
	ItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "answer", Type: field.TypeString, Size: 2147483647},
		{Name: "media", Type: field.TypeString, Default: ""},
		{Name: "ease_factor", Type: field.TypeFloat64},
		{Name: "interval_days", Type: field.TypeInt},
		{Name: "repetitions", Type: field.TypeInt},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "collection_id", Type: field.TypeString},
	}
	// ItemsTable holds the schema information for the "items" table.
	ItemsTable = &schema.Table{
		Name:       "items",
		Columns:    ItemsColumns,
		PrimaryKey: []*schema.Column{ItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "items_collections_items",
				Columns:    []*schema.Column{ItemsColumns[9]},
				RefColumns: []*schema.Column{CollectionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "item_collection_id", Unique: false, Columns: []*schema.Column{ItemsColumns[9]}},
			{Name: "item_next_review_at", Unique: false, Columns: []*schema.Column{ItemsColumns[7]}},
		},
	}

	// AttemptEventsColumns holds the columns for the "attempt_events" table.
	AttemptEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "collection_id", Type: field.TypeString},
		{Name: "item_id", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "time_ms", Type: field.TypeInt64},
		{Name: "quality", Type: field.TypeInt},
	}
	// AttemptEventsTable holds the schema information for the "attempt_events" table.
	AttemptEventsTable = &schema.Table{
		Name:       "attempt_events",
		Columns:    AttemptEventsColumns,
		PrimaryKey: []*schema.Column{AttemptEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attemptevent_timestamp", Unique: false, Columns: []*schema.Column{AttemptEventsColumns[2]}},
			{Name: "attemptevent_session_id", Unique: false, Columns: []*schema.Column{AttemptEventsColumns[3]}},
			{Name: "attemptevent_collection_id", Unique: false, Columns: []*schema.Column{AttemptEventsColumns[4]}},
			{Name: "attemptevent_item_id", Unique: false, Columns: []*schema.Column{AttemptEventsColumns[5]}},
		},
	}

	// SessionEventsColumns holds the columns for the "session_events" table.
	SessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "collection_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "target", Type: field.TypeInt, Default: 0},
		{Name: "presented", Type: field.TypeInt, Default: 0},
		{Name: "correct", Type: field.TypeInt, Default: 0},
		{Name: "incorrect", Type: field.TypeInt, Default: 0},
		{Name: "underflow", Type: field.TypeBool, Default: false},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	}
	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    SessionEventsColumns,
		PrimaryKey: []*schema.Column{SessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_session_id", Unique: false, Columns: []*schema.Column{SessionEventsColumns[3]}},
			{Name: "sessionevent_collection_id_action", Unique: false, Columns: []*schema.Column{SessionEventsColumns[4], SessionEventsColumns[5]}},
		},
	}

	// SnapshotsColumns holds the columns for the "snapshots" table.
	SnapshotsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "collection_id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "data", Type: field.TypeJSON},
	}
	// SnapshotsTable holds the schema information for the "snapshots" table.
	SnapshotsTable = &schema.Table{
		Name:       "snapshots",
		Columns:    SnapshotsColumns,
		PrimaryKey: []*schema.Column{SnapshotsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "snapshot_collection_id_timestamp", Unique: false, Columns: []*schema.Column{SnapshotsColumns[1], SnapshotsColumns[3]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		CollectionsTable,
		ItemsTable,
		AttemptEventsTable,
		SessionEventsTable,
		SnapshotsTable,
	}
)

func init() {
	ItemsTable.ForeignKeys[0].RefTable = CollectionsTable
}
