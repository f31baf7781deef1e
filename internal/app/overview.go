package app

import (
	"errors"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
)

// DraftPlaceholder pre-fills the name of a new list.
const DraftPlaceholder = "New List"

var ErrListNameRequired = errors.New(MsgListNameRequired)

// Draft is a list name being composed in the overview. Canceling it
// never reaches the API.
type Draft struct {
	Open bool
	Name string
}

func (d *Draft) Begin() {
	d.Open = true
	d.Name = DraftPlaceholder
}

func (d *Draft) Cancel() {
	d.Open = false
	d.Name = ""
}

// Validate returns the trimmed name to create.
func (d Draft) Validate() (string, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return "", ErrListNameRequired
	}
	return name, nil
}

// Card is the summary of one list in the overview.
type Card struct {
	List      model.ShoppingList
	ItemCount int
	Percent   int
}

func Cards(lists []model.ShoppingList) []Card {
	cards := make([]Card, 0, len(lists))
	for _, l := range lists {
		p := l.Progress()
		cards = append(cards, Card{List: l, ItemCount: p.Total, Percent: p.Percent()})
	}
	return cards
}
