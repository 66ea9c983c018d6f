// Package entity holds the menu item value type and the rules that decide
// whether a set of raw field values may become one.
package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

const (
	// MinID and MaxID bound the business key, inclusive.
	MinID = 100
	MaxID = 999

	// CategoryLength is the exact number of characters in a category code.
	CategoryLength = 3
)

// ErrInvalid is matched by every error returned from FromFields and New.
var ErrInvalid = errors.New("MenuItem constructor error")

// ValidationError reports the first field check that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func invalid(field, constraint string) error {
	return &ValidationError{Field: field, Message: field + " must be " + constraint}
}

var validate = validator.New()

// Value rules applied once a field has the right Go type.
var (
	idRule          = fmt.Sprintf("min=%d,max=%d", MinID, MaxID)
	categoryRule    = fmt.Sprintf("len=%d", CategoryLength)
	descriptionRule = "required"
	priceRule       = "gte=0"
)

// check runs rule against v and turns a failure into a ValidationError
// carrying msg.
func check(v any, rule, field, msg string) error {
	if err := validate.Var(v, rule); err != nil {
		return &ValidationError{Field: field, Message: msg}
	}
	return nil
}

// MenuItem is one record on the restaurant menu. The zero value is not a
// valid item; obtain one through New or FromFields.
type MenuItem struct {
	id          int
	category    string
	description string
	price       float64
	vegetarian  bool
}

// Fields carries raw, untyped values for the five menu item fields, as they
// arrive from a decoded request body or a stored document. A nil value means
// the field was absent.
type Fields struct {
	ID          any
	Category    any
	Description any
	Price       any
	Vegetarian  any
}

// FieldsFromMap picks the menu item fields out of a decoded JSON object.
func FieldsFromMap(m map[string]any) Fields {
	return Fields{
		ID:          m["id"],
		Category:    m["category"],
		Description: m["description"],
		Price:       m["price"],
		Vegetarian:  m["vegetarian"],
	}
}

// New builds a menu item from typed values.
func New(id int, category, description string, price float64, vegetarian bool) (MenuItem, error) {
	return FromFields(Fields{
		ID:          id,
		Category:    category,
		Description: description,
		Price:       price,
		Vegetarian:  vegetarian,
	})
}

// FromFields validates raw values and builds a menu item. Checks run field by
// field in declaration order, presence before type before range, and the
// first failure is the only one reported.
func FromFields(f Fields) (MenuItem, error) {
	if f.ID == nil {
		return MenuItem{}, invalid("id", "defined")
	}
	num, ok := toFloat(f.ID)
	if !ok {
		return MenuItem{}, invalid("id", "a number")
	}
	if num != math.Trunc(num) {
		return MenuItem{}, invalid("id", "an integer")
	}
	if err := check(num, idRule, "id", fmt.Sprintf("id must be in range [%d,%d]", MinID, MaxID)); err != nil {
		return MenuItem{}, err
	}
	id := int(num)

	if f.Category == nil {
		return MenuItem{}, invalid("category", "defined")
	}
	category, ok := f.Category.(string)
	if !ok {
		return MenuItem{}, invalid("category", "a string")
	}
	// len counts runes for strings.
	if err := check(category, categoryRule, "category", "category must be three characters"); err != nil {
		return MenuItem{}, err
	}

	if f.Description == nil {
		return MenuItem{}, invalid("description", "defined")
	}
	description, ok := f.Description.(string)
	if !ok {
		return MenuItem{}, invalid("description", "a string")
	}
	if err := check(description, descriptionRule, "description", "description must not be empty"); err != nil {
		return MenuItem{}, err
	}

	if f.Price == nil {
		return MenuItem{}, invalid("price", "defined")
	}
	price, ok := toFloat(f.Price)
	if !ok {
		return MenuItem{}, invalid("price", "a number")
	}
	if err := check(price, priceRule, "price", "price must be non-negative"); err != nil {
		return MenuItem{}, err
	}

	if f.Vegetarian == nil {
		return MenuItem{}, invalid("vegetarian", "defined")
	}
	vegetarian, ok := f.Vegetarian.(bool)
	if !ok {
		return MenuItem{}, invalid("vegetarian", "a boolean")
	}

	return MenuItem{
		id:          id,
		category:    category,
		description: description,
		price:       price,
		vegetarian:  vegetarian,
	}, nil
}

// toFloat accepts any Go numeric kind plus json.Number. NaN and infinities
// are not numbers for our purposes.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (m MenuItem) ID() int             { return m.id }
func (m MenuItem) Category() string    { return m.category }
func (m MenuItem) Description() string { return m.description }
func (m MenuItem) Price() float64      { return m.price }
func (m MenuItem) Vegetarian() bool    { return m.vegetarian }

// IsZero reports whether m is the zero value, i.e. not a constructed item.
func (m MenuItem) IsZero() bool {
	return m == MenuItem{}
}

type wireMenuItem struct {
	ID          int     `json:"id"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Vegetarian  bool    `json:"vegetarian"`
}

// MarshalJSON writes the five fields under their wire names.
func (m MenuItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireMenuItem{
		ID:          m.id,
		Category:    m.category,
		Description: m.description,
		Price:       m.price,
		Vegetarian:  m.vegetarian,
	})
}

// UnmarshalJSON decodes a JSON object and validates it with FromFields.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item, err := FromFields(FieldsFromMap(raw))
	if err != nil {
		return err
	}
	*m = item
	return nil
}

// CSV renders the item as a comma separated line.
func (m MenuItem) CSV() string {
	return fmt.Sprintf("%d, %s, %s, %g, %t", m.id, m.category, m.description, m.price, m.vegetarian)
}

// Format renders the item as a tab indented menu line.
func (m MenuItem) Format() string {
	line := fmt.Sprintf("\t%s (ID: %d): %g", m.description, m.id, m.price)
	if m.vegetarian {
		line += " (veg)"
	}
	return line
}
