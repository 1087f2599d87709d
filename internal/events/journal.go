// Package events records platform input as an append-only journal so a
// session can be replayed frame by frame.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/emerald/internal/input"
)

// EntryType defines the category of a journal entry.
type EntryType string

const (
	EntryTypeInput EntryType = "INPUT"
	EntryTypeFrame EntryType = "FRAME"
)

// Entry is an immutable record of one input event or one update.
type Entry struct {
	ID        string       `json:"id"`
	Seq       int          `json:"seq"`
	Timestamp time.Time    `json:"timestamp"`
	Type      EntryType    `json:"type"`
	Input     *input.Event `json:"input,omitempty"`
	Delta     float64      `json:"delta,omitempty"`
}

// Persister defines how journal entries are durably stored.
type Persister interface {
	AppendEntries(ctx context.Context, session string, entries []Entry) error
}

// Journal is the in-memory append-only log of one session.
type Journal struct {
	mu        sync.RWMutex
	session   string
	entries   []Entry
	persisted int
	persister Persister
	now       func() time.Time
}

// NewJournal creates a journal under a fresh session id. persister may be nil.
func NewJournal(persister Persister) *Journal {
	return &Journal{
		session:   uuid.NewString(),
		persister: persister,
		now:       time.Now,
	}
}

// Session returns the journal's session id.
func (j *Journal) Session() string { return j.session }

// RecordInput appends a raw platform event.
func (j *Journal) RecordInput(ev input.Event) {
	j.append(Entry{Type: EntryTypeInput, Input: &ev})
}

// RecordFrame appends an update marker carrying its delta.
func (j *Journal) RecordFrame(delta float64) {
	j.append(Entry{Type: EntryTypeFrame, Delta: delta})
}

func (j *Journal) append(e Entry) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e.ID = uuid.NewString()
	e.Seq = len(j.entries)
	e.Timestamp = j.now()
	j.entries = append(j.entries, e)
}

// Entries returns a copy of the log.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Frames counts recorded updates.
func (j *Journal) Frames() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n := 0
	for _, e := range j.entries {
		if e.Type == EntryTypeFrame {
			n++
		}
	}
	return n
}

// Flush writes entries recorded since the last successful flush.
func (j *Journal) Flush(ctx context.Context) error {
	if j.persister == nil {
		return nil
	}
	j.mu.RLock()
	pending := make([]Entry, len(j.entries)-j.persisted)
	copy(pending, j.entries[j.persisted:])
	j.mu.RUnlock()

	if len(pending) == 0 {
		return nil
	}
	if err := j.persister.AppendEntries(ctx, j.session, pending); err != nil {
		return fmt.Errorf("persist journal %s: %w", j.session, err)
	}

	j.mu.Lock()
	j.persisted += len(pending)
	j.mu.Unlock()
	return nil
}
