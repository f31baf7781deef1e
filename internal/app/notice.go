package app

import "time"

// How long transient messages stay visible, and how long a finished
// active list lingers before returning to the overview.
const (
	ItemNoticeDelay = 2 * time.Second
	ListNoticeDelay = 3 * time.Second
	ReturnDelay     = 1500 * time.Millisecond
)

// Notice is a transient message. Each Show starts a new lifetime
// identified by a sequence number; an expiry carrying an older sequence
// number belongs to a superseded message and is ignored.
type Notice struct {
	Text string
	seq  uint64
}

// Show replaces the message and returns the sequence number its expiry
// must present.
func (n *Notice) Show(text string) uint64 {
	n.seq++
	n.Text = text
	return n.seq
}

// Expire clears the message if seq still identifies it.
func (n *Notice) Expire(seq uint64) bool {
	if seq != n.seq || n.Text == "" {
		return false
	}
	n.Text = ""
	return true
}

// Clear hides the message immediately and invalidates pending expiries.
func (n *Notice) Clear() {
	n.seq++
	n.Text = ""
}

func (n Notice) Visible() bool {
	return n.Text != ""
}
