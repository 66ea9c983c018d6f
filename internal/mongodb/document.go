package mongodb

import "github.com/restaurant/services/menu/internal/store"

// document is the stored shape. The Mongo _id is left to the server and
// never read; id is the business key.
type document struct {
	ID          int     `bson:"id"`
	Category    string  `bson:"category"`
	Description string  `bson:"description"`
	Price       float64 `bson:"price"`
	Vegetarian  bool    `bson:"vegetarian"`
}

func documentOf(rec store.Record) document {
	return document{
		ID:          rec.ID,
		Category:    rec.Category,
		Description: rec.Description,
		Price:       rec.Price,
		Vegetarian:  rec.Vegetarian,
	}
}

func records(docs []document) []store.Record {
	recs := make([]store.Record, len(docs))
	for i, d := range docs {
		recs[i] = store.Record{
			ID:          d.ID,
			Category:    d.Category,
			Description: d.Description,
			Price:       d.Price,
			Vegetarian:  d.Vegetarian,
		}
	}
	return recs
}
