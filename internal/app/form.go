package app

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

// Initial values of the item form fields.
const (
	DefaultQuantity = "1"
	DefaultUnit     = model.DefaultUnit
)

var errInvalidQuantity = errors.New("quantity must be a positive finite number")

// ParseQuantity accepts a positive finite decimal number.
func ParseQuantity(s string) (float64, error) {
	q, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errInvalidQuantity
	}
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return 0, errInvalidQuantity
	}
	return q, nil
}

// ItemForm holds the raw text of a new item being composed.
type ItemForm struct {
	Name     string
	Quantity string
	Unit     string
	// Error is the inline validation message of the last submit.
	Error string
}

func NewItemForm() ItemForm {
	return ItemForm{Quantity: DefaultQuantity, Unit: DefaultUnit}
}

// Reset restores the initial field values.
func (f *ItemForm) Reset() {
	*f = NewItemForm()
}

// Submit validates the form. On success it returns the item fields and
// resets the form; on failure it sets Error and keeps the values for
// correction. The form never talks to the API.
func (f *ItemForm) Submit() (model.ItemFields, bool) {
	f.Error = ""

	name := strings.TrimSpace(f.Name)
	if name == "" {
		f.Error = MsgItemNameRequired
		return model.ItemFields{}, false
	}

	qty, err := ParseQuantity(f.Quantity)
	if err != nil {
		f.Error = MsgQuantityInvalid
		return model.ItemFields{}, false
	}

	unit := strings.TrimSpace(f.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	f.Reset()
	return model.ItemFields{Name: name, Quantity: qty, Unit: unit}, true
}
