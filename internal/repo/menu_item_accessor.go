package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/restaurant/services/menu/internal/entity"
	"github.com/restaurant/services/menu/internal/store"
)

// ErrStorageUnavailable is matched by every error the accessor returns.
// "Not found" and "already exists" are not errors; they come back as false.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageError reports a failed accessor operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("could not complete %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// MenuItemAccessor is the only path from the service to storage. Every
// method checks a connection out, uses it, and releases it before
// returning, whatever the outcome.
type MenuItemAccessor struct {
	store store.Store
}

// NewMenuItemAccessor creates a new menu item accessor
func NewMenuItemAccessor(s store.Store) *MenuItemAccessor {
	return &MenuItemAccessor{store: s}
}

// withConn runs fn on a freshly acquired connection and releases it on every
// exit path. Any failure, including a failed release, becomes a StorageError.
func (a *MenuItemAccessor) withConn(ctx context.Context, op string, fn func(store.Conn) error) (err error) {
	conn, err := a.store.Acquire(ctx)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer func() {
		if rerr := conn.Release(); rerr != nil && err == nil {
			err = &StorageError{Op: op, Err: rerr}
		}
	}()

	if err := fn(conn); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// GetAllItems returns every item ascending by id, or an empty slice.
func (a *MenuItemAccessor) GetAllItems(ctx context.Context) ([]entity.MenuItem, error) {
	items := []entity.MenuItem{}
	err := a.withConn(ctx, "getAllItems", func(conn store.Conn) error {
		recs, err := conn.FindAll(ctx)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			item, err := itemOf(rec)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemByID returns the item with the given id. found is false when no
// single record matches.
func (a *MenuItemAccessor) GetItemByID(ctx context.Context, id int) (item entity.MenuItem, found bool, err error) {
	err = a.withConn(ctx, "getItemByID", func(conn store.Conn) error {
		recs, err := conn.Find(ctx, id)
		if err != nil {
			return err
		}
		if len(recs) != 1 {
			return nil
		}
		item, err = itemOf(recs[0])
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return entity.MenuItem{}, false, err
	}
	return item, found, nil
}

// ItemExists reports whether exactly one record carries the item's id.
func (a *MenuItemAccessor) ItemExists(ctx context.Context, item entity.MenuItem) (bool, error) {
	var exists bool
	err := a.withConn(ctx, "itemExists", func(conn store.Conn) error {
		recs, err := conn.Find(ctx, item.ID())
		if err != nil {
			return err
		}
		exists = len(recs) == 1
		return nil
	})
	return exists, err
}

// AddItem inserts the item unless its id is already taken, in which case it
// returns false without touching storage further.
func (a *MenuItemAccessor) AddItem(ctx context.Context, item entity.MenuItem) (bool, error) {
	var added bool
	err := a.withConn(ctx, "addItem", func(conn store.Conn) error {
		recs, err := conn.Find(ctx, item.ID())
		if err != nil {
			return err
		}
		if len(recs) > 0 {
			return nil
		}
		if err := conn.Insert(ctx, store.RecordOf(item)); err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

// UpdateItem overwrites category, description, price and vegetarian of the
// record with the item's id. It returns false when no such record exists.
func (a *MenuItemAccessor) UpdateItem(ctx context.Context, item entity.MenuItem) (bool, error) {
	var updated bool
	err := a.withConn(ctx, "updateItem", func(conn store.Conn) error {
		recs, err := conn.Find(ctx, item.ID())
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		matched, err := conn.Update(ctx, store.RecordOf(item))
		if err != nil {
			return err
		}
		updated = matched == 1
		return nil
	})
	return updated, err
}

// DeleteItem removes the record with the item's id. It returns false when no
// such record exists.
func (a *MenuItemAccessor) DeleteItem(ctx context.Context, item entity.MenuItem) (bool, error) {
	return a.deleteByID(ctx, "deleteItem", item.ID())
}

// DeleteItemByID is DeleteItem for callers that only hold the key.
func (a *MenuItemAccessor) DeleteItemByID(ctx context.Context, id int) (bool, error) {
	return a.deleteByID(ctx, "deleteItemByID", id)
}

func (a *MenuItemAccessor) deleteByID(ctx context.Context, op string, id int) (bool, error) {
	var deleted bool
	err := a.withConn(ctx, op, func(conn store.Conn) error {
		recs, err := conn.Find(ctx, id)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		n, err := conn.Delete(ctx, id)
		if err != nil {
			return err
		}
		deleted = n == 1
		return nil
	})
	return deleted, err
}

// CountItems returns the number of stored records.
func (a *MenuItemAccessor) CountItems(ctx context.Context) (int64, error) {
	var n int64
	err := a.withConn(ctx, "countItems", func(conn store.Conn) error {
		var err error
		n, err = conn.Count(ctx)
		return err
	})
	return n, err
}

// Rebuild drops the collection and stores items in its place.
func (a *MenuItemAccessor) Rebuild(ctx context.Context, items []entity.MenuItem) error {
	return a.withConn(ctx, "rebuild", func(conn store.Conn) error {
		if err := conn.Drop(ctx); err != nil {
			return err
		}
		recs := make([]store.Record, len(items))
		for i, item := range items {
			recs[i] = store.RecordOf(item)
		}
		return conn.InsertMany(ctx, recs)
	})
}

// itemOf rebuilds a stored record. A record that no longer validates is a
// storage fault, so the validation error is flattened to text rather than
// wrapped.
func itemOf(rec store.Record) (entity.MenuItem, error) {
	item, err := rec.Item()
	if err != nil {
		return entity.MenuItem{}, fmt.Errorf("stored record %d is corrupt: %v", rec.ID, err)
	}
	return item, nil
}
