package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() Fields {
	return Fields{
		ID:          float64(888),
		Category:    "ENT",
		Description: "poutine",
		Price:       float64(99),
		Vegetarian:  false,
	}
}

func TestNewValidItem(t *testing.T) {
	item, err := New(101, "APP", "beet and orange salad", 16, true)
	require.NoError(t, err)

	assert.Equal(t, 101, item.ID())
	assert.Equal(t, "APP", item.Category())
	assert.Equal(t, "beet and orange salad", item.Description())
	assert.Equal(t, 16.0, item.Price())
	assert.True(t, item.Vegetarian())
	assert.False(t, item.IsZero())
}

func TestFromFieldsSingleFieldFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Fields)
		field   string
		message string
	}{
		{"id missing", func(f *Fields) { f.ID = nil }, "id", "id must be defined"},
		{"id wrong type", func(f *Fields) { f.ID = "888" }, "id", "id must be a number"},
		{"id fractional", func(f *Fields) { f.ID = 100.5 }, "id", "id must be an integer"},
		{"id too small", func(f *Fields) { f.ID = 99 }, "id", "id must be in range [100,999]"},
		{"id too large", func(f *Fields) { f.ID = 1000 }, "id", "id must be in range [100,999]"},
		{"category missing", func(f *Fields) { f.Category = nil }, "category", "category must be defined"},
		{"category wrong type", func(f *Fields) { f.Category = 123 }, "category", "category must be a string"},
		{"category too short", func(f *Fields) { f.Category = "EN" }, "category", "category must be three characters"},
		{"category too long", func(f *Fields) { f.Category = "ENTR" }, "category", "category must be three characters"},
		{"description missing", func(f *Fields) { f.Description = nil }, "description", "description must be defined"},
		{"description wrong type", func(f *Fields) { f.Description = true }, "description", "description must be a string"},
		{"description empty", func(f *Fields) { f.Description = "" }, "description", "description must not be empty"},
		{"price missing", func(f *Fields) { f.Price = nil }, "price", "price must be defined"},
		{"price wrong type", func(f *Fields) { f.Price = "9.99" }, "price", "price must be a number"},
		{"price negative", func(f *Fields) { f.Price = -0.01 }, "price", "price must be non-negative"},
		{"vegetarian missing", func(f *Fields) { f.Vegetarian = nil }, "vegetarian", "vegetarian must be defined"},
		{"vegetarian wrong type", func(f *Fields) { f.Vegetarian = "yes" }, "vegetarian", "vegetarian must be a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			item, err := FromFields(f)
			require.Error(t, err)
			assert.True(t, item.IsZero(), "no partially built item may escape")
			assert.True(t, errors.Is(err, ErrInvalid))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, "MenuItem constructor error: "+tt.message, err.Error())
		})
	}
}

func TestFromFieldsReportsEarliestField(t *testing.T) {
	tests := []struct {
		name    string
		fields  Fields
		message string
	}{
		{
			name:    "everything missing",
			fields:  Fields{},
			message: "id must be defined",
		},
		{
			name:    "bad id beats bad category and price",
			fields:  Fields{ID: 12, Category: "TOOLONG", Description: "x", Price: -5, Vegetarian: "no"},
			message: "id must be in range [100,999]",
		},
		{
			name:    "bad category beats missing description",
			fields:  Fields{ID: 500, Category: 7, Price: "free"},
			message: "category must be a string",
		},
		{
			name:    "bad price beats missing vegetarian",
			fields:  Fields{ID: 500, Category: "DES", Description: "tart", Price: -1},
			message: "price must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFields(tt.fields)
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func TestFromFieldsBoundaries(t *testing.T) {
	accepted := []Fields{
		{ID: 100, Category: "ENT", Description: "a", Price: 0.0, Vegetarian: false},
		{ID: 999, Category: "ENT", Description: "a", Price: 0, Vegetarian: true},
		{ID: int64(500), Category: "é!7", Description: "a", Price: float32(1.5), Vegetarian: true},
		{ID: json.Number("250"), Category: "   ", Description: "a", Price: json.Number("12.50"), Vegetarian: false},
	}
	for _, f := range accepted {
		_, err := FromFields(f)
		assert.NoError(t, err, "fields %+v", f)
	}

	rejected := []Fields{
		{ID: 99, Category: "ENT", Description: "a", Price: 0, Vegetarian: false},
		{ID: 1000, Category: "ENT", Description: "a", Price: 0, Vegetarian: false},
		{ID: 500, Category: "EN", Description: "a", Price: 0, Vegetarian: false},
		{ID: 500, Category: "ENTR", Description: "a", Price: 0, Vegetarian: false},
		{ID: 500, Category: "ENT", Description: "a", Price: -0.01, Vegetarian: false},
	}
	for _, f := range rejected {
		_, err := FromFields(f)
		assert.ErrorIs(t, err, ErrInvalid, "fields %+v", f)
	}
}

func TestValueRules(t *testing.T) {
	tests := []struct {
		name  string
		value any
		rule  string
		ok    bool
	}{
		{"id lower bound", float64(MinID), idRule, true},
		{"id upper bound", float64(MaxID), idRule, true},
		{"id below", 99.0, idRule, false},
		{"id above", 999.5, idRule, false},
		{"category counts runes", "日本語", categoryRule, true},
		{"category bytes not enough", "ab", categoryRule, false},
		{"description present", " ", descriptionRule, true},
		{"description empty", "", descriptionRule, false},
		{"price zero", 0.0, priceRule, true},
		{"price negative", -0.5, priceRule, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(tt.value, tt.rule, "f", "f must be valid")
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "f", verr.Field)
			assert.Equal(t, "f must be valid", verr.Message)
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	item, err := New(205, "ENT", "boneless quails stuffed with foie gras and truffles", 32, false)
	require.NoError(t, err)

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":205,"category":"ENT","description":"boneless quails stuffed with foie gras and truffles","price":32,"vegetarian":false}`, string(data))

	var decoded MenuItem
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, item, decoded)
}

func TestUnmarshalJSONValidates(t *testing.T) {
	var item MenuItem
	err := json.Unmarshal([]byte(`{"id":888,"category":"ENT","price":9,"vegetarian":true}`), &item)
	require.Error(t, err)
	assert.EqualError(t, err, "MenuItem constructor error: description must be defined")
	assert.True(t, item.IsZero())
}

func TestRenderings(t *testing.T) {
	veg, err := New(301, "DES", "lemon tart", 12, true)
	require.NoError(t, err)
	meat, err := New(208, "ENT", "beef tenderloin", 38.5, false)
	require.NoError(t, err)

	assert.Equal(t, "301, DES, lemon tart, 12, true", veg.CSV())
	assert.Equal(t, "\tlemon tart (ID: 301): 12 (veg)", veg.Format())
	assert.Equal(t, "\tbeef tenderloin (ID: 208): 38.5", meat.Format())
}
