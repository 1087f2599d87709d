// Package storage persists diagnostic sessions: profiling snapshots and
// input journals.
package storage

import (
	"context"
	"time"

	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/profiling"
)

// ProfileSession is a saved profiling snapshot.
type ProfileSession struct {
	ID        string            `json:"id" db:"id"`
	Title     string            `json:"title" db:"title"`
	Frames    uint64            `json:"frames" db:"frames"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	Scopes    []profiling.Stats `json:"scopes"`
}

// ProfileRepository defines the interface for profile persistence.
type ProfileRepository interface {
	// SaveSession stores a snapshot under a new session id and returns it.
	SaveSession(ctx context.Context, title string, frames uint64, scopes []profiling.Stats) (string, error)

	// GetSession loads one session with its scopes. Missing sessions yield nil.
	GetSession(ctx context.Context, id string) (*ProfileSession, error)

	// ListSessions returns every session, newest first, without scopes.
	ListSessions(ctx context.Context) ([]ProfileSession, error)
}

// JournalRepository defines the interface for input journal persistence.
// It satisfies events.Persister.
type JournalRepository interface {
	AppendEntries(ctx context.Context, session string, entries []events.Entry) error

	// GetBySession returns a session's entries ordered by sequence.
	GetBySession(ctx context.Context, session string) ([]events.Entry, error)

	// Sessions lists recorded session ids.
	Sessions(ctx context.Context) ([]string, error)
}
