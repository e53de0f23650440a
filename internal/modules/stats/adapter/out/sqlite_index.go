package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"estudozen/internal/modules/stats/domain"

	_ "modernc.org/sqlite"
)

type SQLiteSessionIndex struct {
	db *sql.DB
}

func NewSQLiteSessionIndex(dbPath string) (*SQLiteSessionIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	idx := &SQLiteSessionIndex{db: db}
	if err := idx.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func (s *SQLiteSessionIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  session_id TEXT,
  type TEXT NOT NULL,
  start_time TEXT NOT NULL,
  end_time TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL,
  completed INTEGER NOT NULL,
  audio_used TEXT,
  activities TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (s *SQLiteSessionIndex) Upsert(ctx context.Context, r domain.SessionRecord) error {
	const stmt = `
INSERT INTO sessions (id, session_id, type, start_time, end_time, duration_minutes, completed, audio_used, activities)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  session_id=excluded.session_id,
  type=excluded.type,
  start_time=excluded.start_time,
  end_time=excluded.end_time,
  duration_minutes=excluded.duration_minutes,
  completed=excluded.completed,
  audio_used=excluded.audio_used,
  activities=excluded.activities;
`
	activities, err := json.Marshal(r.Activities)
	if err != nil {
		return fmt.Errorf("encode activities: %w", err)
	}
	completed := 0
	if r.Completed {
		completed = 1
	}
	_, err = s.db.ExecContext(ctx, stmt,
		r.ID,
		r.SessionID,
		r.Type,
		r.StartTime.UTC().Format(time.RFC3339),
		r.EndTime.UTC().Format(time.RFC3339),
		r.DurationMinutes,
		completed,
		r.AudioUsed,
		string(activities),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Recent lists records newest first.
func (s *SQLiteSessionIndex) Recent(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, type, start_time, end_time, duration_minutes, completed, audio_used, activities
FROM sessions
ORDER BY start_time DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionRecord
	for rows.Next() {
		var (
			r                domain.SessionRecord
			sessionID, audio sql.NullString
			activities       sql.NullString
			startRaw, endRaw string
			completed        int
		)
		if err := rows.Scan(&r.ID, &sessionID, &r.Type, &startRaw, &endRaw, &r.DurationMinutes, &completed, &audio, &activities); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if r.StartTime, err = time.Parse(time.RFC3339, startRaw); err != nil {
			return nil, fmt.Errorf("parse start time: %w", err)
		}
		if r.EndTime, err = time.Parse(time.RFC3339, endRaw); err != nil {
			return nil, fmt.Errorf("parse end time: %w", err)
		}
		r.SessionID = sessionID.String
		r.AudioUsed = audio.String
		r.Completed = completed == 1
		if activities.Valid && activities.String != "" && activities.String != "null" {
			if err := json.Unmarshal([]byte(activities.String), &r.Activities); err != nil {
				return nil, fmt.Errorf("decode activities: %w", err)
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
