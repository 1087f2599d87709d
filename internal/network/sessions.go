package network

import (
	"encoding/json"
	"net/http"

	"github.com/MRamiBalles/emerald/internal/infra/storage"
	"github.com/MRamiBalles/emerald/internal/platform/logger"
)

// SessionsHandler serves saved profile sessions and input journals.
type SessionsHandler struct {
	profiles storage.ProfileRepository
	journals storage.JournalRepository
	logger   *logger.Logger
}

// NewSessionsHandler creates the handler. Either repository may be nil.
func NewSessionsHandler(profiles storage.ProfileRepository, journals storage.JournalRepository, log *logger.Logger) *SessionsHandler {
	return &SessionsHandler{profiles: profiles, journals: journals, logger: log}
}

// RegisterRoutes mounts the session API on mux.
func (sh *SessionsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/profiles", sh.HandleProfiles)
	mux.HandleFunc("GET /api/profiles/{id}", sh.HandleProfile)
	mux.HandleFunc("GET /api/journals", sh.HandleJournals)
	mux.HandleFunc("GET /api/journals/{id}", sh.HandleJournal)
}

// HandleProfiles lists profile sessions.
// GET /api/profiles
func (sh *SessionsHandler) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	if sh.profiles == nil {
		jsonError(w, "Profiling storage disabled", http.StatusNotFound)
		return
	}
	sessions, err := sh.profiles.ListSessions(r.Context())
	if err != nil {
		sh.internal(w, "list profiles", err)
		return
	}
	writeJSON(w, map[string]interface{}{"total": len(sessions), "sessions": sessions})
}

// HandleProfile returns one profile session with its scopes.
// GET /api/profiles/{id}
func (sh *SessionsHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	if sh.profiles == nil {
		jsonError(w, "Profiling storage disabled", http.StatusNotFound)
		return
	}
	session, err := sh.profiles.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		sh.internal(w, "get profile", err)
		return
	}
	if session == nil {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, session)
}

// HandleJournals lists recorded input sessions.
// GET /api/journals
func (sh *SessionsHandler) HandleJournals(w http.ResponseWriter, r *http.Request) {
	if sh.journals == nil {
		jsonError(w, "Journal storage disabled", http.StatusNotFound)
		return
	}
	ids, err := sh.journals.Sessions(r.Context())
	if err != nil {
		sh.internal(w, "list journals", err)
		return
	}
	writeJSON(w, map[string]interface{}{"total": len(ids), "sessions": ids})
}

// HandleJournal returns the entries of one input session.
// GET /api/journals/{id}
func (sh *SessionsHandler) HandleJournal(w http.ResponseWriter, r *http.Request) {
	if sh.journals == nil {
		jsonError(w, "Journal storage disabled", http.StatusNotFound)
		return
	}
	id := r.PathValue("id")
	entries, err := sh.journals.GetBySession(r.Context(), id)
	if err != nil {
		sh.internal(w, "get journal", err)
		return
	}
	if len(entries) == 0 {
		jsonError(w, "Session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]interface{}{"session": id, "total": len(entries), "entries": entries})
}

func (sh *SessionsHandler) internal(w http.ResponseWriter, op string, err error) {
	sh.logger.Error("Session API failure", logger.WithField("op", op), logger.WithField("error", err))
	jsonError(w, "Internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	json.NewEncoder(w).Encode(v)
}

// jsonError sends an error response.
func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
