package app

import (
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

// HistoryFilter selects history entries by action. The zero value shows
// every entry.
type HistoryFilter string

const (
	FilterAll     HistoryFilter = ""
	FilterCreated HistoryFilter = model.ActionCreated
	FilterReused  HistoryFilter = model.ActionReused
)

func (f HistoryFilter) String() string {
	if f == FilterAll {
		return "all"
	}
	return string(f)
}

// Match reports whether h passes the filter.
func (f HistoryFilter) Match(h model.ListHistory) bool {
	return f == FilterAll || h.Action == string(f)
}

// EmptyMessage is shown when no entry passes the filter.
func (f HistoryFilter) EmptyMessage() string {
	if f == FilterAll {
		return "No history yet"
	}
	return fmt.Sprintf("No %s actions found", f)
}

// HistoryEntry is a history record with its snapshot decoded.
type HistoryEntry struct {
	model.ListHistory
	Snapshot model.SnapshotResult
}

// HistoryEntries filters history and decodes each snapshot. Decoding
// never fails; malformed data yields placeholder display values.
func HistoryEntries(history []model.ListHistory, f HistoryFilter) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(history))
	for _, h := range history {
		if !f.Match(h) {
			continue
		}
		entries = append(entries, HistoryEntry{ListHistory: h, Snapshot: model.DecodeSnapshot(h.Data)})
	}
	return entries
}
