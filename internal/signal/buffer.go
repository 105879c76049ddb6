package signal

import (
	"sync"
	"time"
)

// Entry is one opened signal accumulated for the daily summary.
type Entry struct {
	Pair      string
	Direction string
}

// Buffer accumulates the signals opened since the last daily summary. It is
// shared between the intake path and the scheduler loop, so all access goes
// through its mutex. The buffer never spans more than one summary cycle:
// TakeForSummary clears it and records the sent marker in the same critical
// section that snapshots the entries.
type Buffer struct {
	mu          sync.Mutex
	entries     []Entry
	lastSummary time.Time
}

// NewBuffer creates an empty daily signal buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add appends an opened signal to the buffer.
func (b *Buffer) Add(pair, direction string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, Entry{Pair: pair, Direction: direction})
}

// TakeForSummary returns the accumulated signals and clears the buffer, or
// (nil, false) when no summary is due: either one was already sent on the
// same UTC calendar date, or nothing has accumulated. An empty buffer does
// not consume the day's send, so a later tick that day may still fire.
func (b *Buffer) TakeForSummary(now time.Time) ([]Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lastSummary.IsZero() && sameUTCDate(b.lastSummary, now) {
		return nil, false
	}
	if len(b.entries) == 0 {
		return nil, false
	}

	entries := b.entries
	b.entries = nil
	b.lastSummary = now
	return entries, true
}

func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
