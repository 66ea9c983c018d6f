package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItems(t *testing.T) {
	items := Items()
	assert.Len(t, items, 39)

	for i := 1; i < len(items); i++ {
		assert.Less(t, items[i-1].ID(), items[i].ID(), "seed must be strictly ascending by id")
	}

	categories := map[string]int{}
	for _, item := range items {
		categories[item.Category()]++
	}
	assert.Equal(t, map[string]int{"APP": 14, "ENT": 15, "DES": 10}, categories)
}
