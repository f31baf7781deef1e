package model

import (
	"testing"
	"time"
)

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		purchased, total int
		want             int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 1, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
	}
	for _, tt := range tests {
		p := Progress{Purchased: tt.purchased, Total: tt.total}
		if got := p.Percent(); got != tt.want {
			t.Errorf("Percent(%d/%d) = %d, want %d", tt.purchased, tt.total, got, tt.want)
		}
	}
}

func TestProgressOf(t *testing.T) {
	items := []ShoppingItem{{Purchased: true}, {}, {Purchased: true}}
	p := ProgressOf(items)
	if p.Purchased != 2 || p.Total != 3 {
		t.Errorf("progress = %d/%d, want 2/3", p.Purchased, p.Total)
	}
	if got := ProgressOf(nil); got.Total != 0 || got.Percent() != 0 {
		t.Errorf("empty progress = %+v", got)
	}
}

func TestLastTouched(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	l := ShoppingList{CreatedAt: created}
	if !l.LastTouched().Equal(created) {
		t.Errorf("LastTouched = %v, want created", l.LastTouched())
	}
	l.UpdatedAt = updated
	if !l.LastTouched().Equal(updated) {
		t.Errorf("LastTouched = %v, want updated", l.LastTouched())
	}
}
