package network

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/infra/storage"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
	"github.com/MRamiBalles/emerald/internal/profiling"
)

func newSessionsMux(t *testing.T) (*http.ServeMux, string, string) {
	t.Helper()
	db, err := storage.InitSQLite(storage.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	profiles := storage.NewSQLiteProfileRepository(db)
	journals := storage.NewSQLiteJournalRepository(db)

	cache := profiling.NewCache()
	cache.Record("update", time.Millisecond)
	profileID, err := profiles.SaveSession(ctx, "demo", 10, cache.Snapshot())
	require.NoError(t, err)

	j := events.NewJournal(journals)
	j.RecordInput(input.Event{Kind: input.EventKeyDown, Key: input.KeyA})
	j.RecordFrame(0.016)
	require.NoError(t, j.Flush(ctx))

	mux := http.NewServeMux()
	NewSessionsHandler(profiles, journals, logger.NewWithOutput("error", &bytes.Buffer{})).RegisterRoutes(mux)
	return mux, profileID, j.Session()
}

func get(t *testing.T, mux *http.ServeMux, path string) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestSessionRoutes(t *testing.T) {
	mux, profileID, journalID := newSessionsMux(t)

	code, body := get(t, mux, "/api/profiles")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["total"])

	code, body = get(t, mux, "/api/profiles/"+profileID)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "demo", body["title"])

	code, _ = get(t, mux, "/api/profiles/missing")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = get(t, mux, "/api/journals")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{journalID}, body["sessions"])

	code, body = get(t, mux, "/api/journals/"+journalID)
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["total"])

	code, _ = get(t, mux, "/api/journals/missing")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDisabledStorage(t *testing.T) {
	mux := http.NewServeMux()
	NewSessionsHandler(nil, nil, logger.NewWithOutput("error", &bytes.Buffer{})).RegisterRoutes(mux)

	code, body := get(t, mux, "/api/profiles")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Profiling storage disabled", body["error"])
}
