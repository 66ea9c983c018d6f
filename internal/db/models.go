package db

import "github.com/restaurant/services/menu/internal/store"

// MenuItem is the menu_items row. Its shape matches the JSON wire shape
// field for field.
type MenuItem struct {
	ID          int     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Category    string  `gorm:"type:varchar(3);not null" json:"category"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Vegetarian  bool    `gorm:"not null" json:"vegetarian"`
}

// TableName specifies the table name for MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

func rowOf(rec store.Record) MenuItem {
	return MenuItem{
		ID:          rec.ID,
		Category:    rec.Category,
		Description: rec.Description,
		Price:       rec.Price,
		Vegetarian:  rec.Vegetarian,
	}
}

func (m MenuItem) record() store.Record {
	return store.Record{
		ID:          m.ID,
		Category:    m.Category,
		Description: m.Description,
		Price:       m.Price,
		Vegetarian:  m.Vegetarian,
	}
}

func records(rows []MenuItem) []store.Record {
	recs := make([]store.Record, len(rows))
	for i, row := range rows {
		recs[i] = row.record()
	}
	return recs
}
