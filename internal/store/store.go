// Package store defines the storage collaborator behind the menu item
// accessor: a flat set of records addressed by their integer id.
package store

import (
	"context"

	"github.com/restaurant/services/menu/internal/entity"
)

// Record is the persisted shape of a menu item. Records read back from
// storage are not trusted; callers rebuild entities through the validator.
type Record struct {
	ID          int
	Category    string
	Description string
	Price       float64
	Vegetarian  bool
}

// RecordOf copies an entity into its persisted shape.
func RecordOf(item entity.MenuItem) Record {
	return Record{
		ID:          item.ID(),
		Category:    item.Category(),
		Description: item.Description(),
		Price:       item.Price(),
		Vegetarian:  item.Vegetarian(),
	}
}

// Item validates the record and turns it back into an entity.
func (r Record) Item() (entity.MenuItem, error) {
	return entity.New(r.ID, r.Category, r.Description, r.Price, r.Vegetarian)
}

// Store hands out connections to the backing database.
type Store interface {
	// Acquire checks a connection out of the pool. Every successful
	// Acquire must be paired with exactly one Conn.Release.
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Conn is a connection checked out of a Store.
type Conn interface {
	// Find returns every record whose id equals id.
	Find(ctx context.Context, id int) ([]Record, error)
	// FindAll returns every record, ascending by id.
	FindAll(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, rec Record) error
	// Update overwrites the non-key fields of the record with rec.ID and
	// reports how many records matched.
	Update(ctx context.Context, rec Record) (int64, error)
	// Delete removes the record with the given id and reports how many
	// records were removed.
	Delete(ctx context.Context, id int) (int64, error)
	// Drop removes every record.
	Drop(ctx context.Context) error
	InsertMany(ctx context.Context, recs []Record) error
	Release() error
}
