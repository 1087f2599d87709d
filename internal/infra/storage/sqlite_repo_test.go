package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/profiling"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitSQLite(MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestProfileSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteProfileRepository(openTestDB(t))

	cache := profiling.NewCache()
	cache.Record("physics", 2*time.Millisecond)
	cache.Record("physics", 4*time.Millisecond)
	cache.Record("render", time.Millisecond)

	id, err := repo.SaveSession(ctx, "demo", 120, cache.Snapshot())
	require.NoError(t, err)

	got, err := repo.GetSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "demo", got.Title)
	assert.Equal(t, uint64(120), got.Frames)
	assert.Equal(t, cache.Snapshot(), got.Scopes)

	missing, err := repo.GetSession(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListSessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteProfileRepository(openTestDB(t))
	clock := time.Unix(100, 0)
	repo.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	first, err := repo.SaveSession(ctx, "a", 1, nil)
	require.NoError(t, err)
	second, err := repo.SaveSession(ctx, "b", 2, nil)
	require.NoError(t, err)

	sessions, err := repo.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID)
	assert.Equal(t, first, sessions[1].ID)
}

func TestJournalPersistsThroughFlush(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteJournalRepository(openTestDB(t))

	j := events.NewJournal(repo)
	j.RecordInput(input.Event{Kind: input.EventMouseDown, Button: input.MouseButtonLeft, X: 3, Y: 4})
	j.RecordFrame(0.016)
	require.NoError(t, j.Flush(ctx))
	j.RecordFrame(0.05)
	require.NoError(t, j.Flush(ctx))

	entries, err := repo.GetBySession(ctx, j.Session())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, events.EntryTypeInput, entries[0].Type)
	assert.Equal(t, input.Event{Kind: input.EventMouseDown, Button: input.MouseButtonLeft, X: 3, Y: 4}, *entries[0].Input)
	assert.Equal(t, 0.05, entries[2].Delta)

	sessions, err := repo.Sessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{j.Session()}, sessions)
}

func TestInitSQLiteOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.db")
	db, err := InitSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLiteProfileRepository(db).SaveSession(context.Background(), "disk", 0, nil)
	assert.NoError(t, err)
}
