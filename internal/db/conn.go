package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/restaurant/services/menu/internal/store"
	"gorm.io/gorm"
)

const insertBatchSize = 100

var errReleased = errors.New("connection already released")

// gormConn runs every statement on one *sql.Conn until Release.
type gormConn struct {
	tx       *gorm.DB
	conn     *sql.Conn
	released bool
}

func (c *gormConn) Find(ctx context.Context, id int) ([]store.Record, error) {
	var rows []MenuItem
	if err := c.tx.WithContext(ctx).Where("id = ?", id).Find(&rows).Error; err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (c *gormConn) FindAll(ctx context.Context) ([]store.Record, error) {
	var rows []MenuItem
	if err := c.tx.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (c *gormConn) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.tx.WithContext(ctx).Model(&MenuItem{}).Count(&n).Error
	return n, err
}

func (c *gormConn) Insert(ctx context.Context, rec store.Record) error {
	row := rowOf(rec)
	return c.tx.WithContext(ctx).Create(&row).Error
}

func (c *gormConn) Update(ctx context.Context, rec store.Record) (int64, error) {
	result := c.tx.WithContext(ctx).Model(&MenuItem{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
		"category":    rec.Category,
		"description": rec.Description,
		"price":       rec.Price,
		"vegetarian":  rec.Vegetarian,
	})
	return result.RowsAffected, result.Error
}

func (c *gormConn) Delete(ctx context.Context, id int) (int64, error) {
	result := c.tx.WithContext(ctx).Where("id = ?", id).Delete(&MenuItem{})
	return result.RowsAffected, result.Error
}

func (c *gormConn) Drop(ctx context.Context) error {
	return c.tx.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MenuItem{}).Error
}

func (c *gormConn) InsertMany(ctx context.Context, recs []store.Record) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([]MenuItem, len(recs))
	for i, rec := range recs {
		rows[i] = rowOf(rec)
	}
	return c.tx.WithContext(ctx).CreateInBatches(&rows, insertBatchSize).Error
}

// Release returns the connection to the pool.
func (c *gormConn) Release() error {
	if c.released {
		return errReleased
	}
	c.released = true
	return c.conn.Close()
}
