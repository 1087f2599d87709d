package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/emerald/internal/events"
	"github.com/MRamiBalles/emerald/internal/input"
	"github.com/MRamiBalles/emerald/internal/profiling"
)

// SQLiteProfileRepository implements ProfileRepository for SQLite.
type SQLiteProfileRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db, now: time.Now}
}

func (r *SQLiteProfileRepository) SaveSession(ctx context.Context, title string, frames uint64, scopes []profiling.Stats) (string, error) {
	id := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profile_sessions (id, title, frames, created_at) VALUES (?, ?, ?, ?)`,
		id, title, int64(frames), r.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	for _, s := range scopes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO profile_scopes (session_id, name, count, total_ns, mean_ns, min_ns, max_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, s.Name, s.Count, int64(s.Total), int64(s.Mean), int64(s.Min), int64(s.Max))
		if err != nil {
			return "", fmt.Errorf("failed to insert scope %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}
	return id, nil
}

func (r *SQLiteProfileRepository) GetSession(ctx context.Context, id string) (*ProfileSession, error) {
	var s ProfileSession
	var frames, created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, frames, created_at FROM profile_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Title, &frames, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Frames = uint64(frames)
	s.CreatedAt = time.Unix(0, created)

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, count, total_ns, mean_ns, min_ns, max_ns
		FROM profile_scopes WHERE session_id = ? ORDER BY name ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var st profiling.Stats
		var total, mean, minNs, maxNs int64
		if err := rows.Scan(&st.Name, &st.Count, &total, &mean, &minNs, &maxNs); err != nil {
			return nil, err
		}
		st.Total = time.Duration(total)
		st.Mean = time.Duration(mean)
		st.Min = time.Duration(minNs)
		st.Max = time.Duration(maxNs)
		s.Scopes = append(s.Scopes, st)
	}
	return &s, rows.Err()
}

func (r *SQLiteProfileRepository) ListSessions(ctx context.Context) ([]ProfileSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, frames, created_at FROM profile_sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []ProfileSession
	for rows.Next() {
		var s ProfileSession
		var frames, created int64
		if err := rows.Scan(&s.ID, &s.Title, &frames, &created); err != nil {
			return nil, err
		}
		s.Frames = uint64(frames)
		s.CreatedAt = time.Unix(0, created)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ---------------------------------------------------------
// SQLiteJournalRepository
// ---------------------------------------------------------

type SQLiteJournalRepository struct {
	db *sql.DB
}

func NewSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{db: db}
}

func (r *SQLiteJournalRepository) AppendEntries(ctx context.Context, session string, entries []events.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO journal_entries (id, session_id, seq, timestamp, entry_type, payload, delta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for _, e := range entries {
		payload := "{}"
		if e.Input != nil {
			b, err := json.Marshal(e.Input)
			if err != nil {
				return fmt.Errorf("failed to marshal payload: %w", err)
			}
			payload = string(b)
		}
		_, err = tx.ExecContext(ctx, query,
			e.ID, session, e.Seq, e.Timestamp.UnixNano(), string(e.Type), payload, e.Delta,
		)
		if err != nil {
			return fmt.Errorf("failed to append entry %d: %w", e.Seq, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteJournalRepository) GetBySession(ctx context.Context, session string) ([]events.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, seq, timestamp, entry_type, payload, delta
		FROM journal_entries WHERE session_id = ? ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []events.Entry
	for rows.Next() {
		var e events.Entry
		var ts int64
		var kind, payload string
		if err := rows.Scan(&e.ID, &e.Seq, &ts, &kind, &payload, &e.Delta); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts)
		e.Type = events.EntryType(kind)
		if e.Type == events.EntryTypeInput {
			var ev input.Event
			if err := json.Unmarshal([]byte(payload), &ev); err != nil {
				return nil, fmt.Errorf("entry %d: %w", e.Seq, err)
			}
			e.Input = &ev
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteJournalRepository) Sessions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id FROM journal_entries
		GROUP BY session_id ORDER BY MIN(timestamp) ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
