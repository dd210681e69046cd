// Package storage persists sessions, shots and captures over sqlx. The same
// queries run against PostgreSQL on the server and SQLite for local play.
package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playpool/billiards/internal/models"
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("storage: not found")

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store wraps a sqlx handle. Queries are written with ? placeholders and
// rebound for the underlying driver.
type Store struct {
	db *sqlx.DB
}

// New wraps an open database.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// OpenLocal opens (creating if needed) a SQLite database at path and applies
// the schema. A leading ~ expands to the home directory.
func OpenLocal(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// one writer keeps SQLite from reporting SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: schema failed: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateSession inserts an ACTIVE session row and returns its id.
func (s *Store) CreateSession(ctx context.Context, token, player string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`INSERT INTO game_sessions (token, player_name, status, created_at) VALUES (?, ?, ?, ?) RETURNING id`),
		token, player, models.SessionActive, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("storage: create session: %w", err)
	}
	return id, nil
}

// RecordShot appends a shot to its session.
func (s *Store) RecordShot(ctx context.Context, shot models.Shot) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO session_shots (session_id, frame, ball_number, impulse_x, impulse_y, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		shot.SessionID, shot.Frame, shot.BallNumber, shot.ImpulseX, shot.ImpulseY, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: record shot: %w", err)
	}
	return nil
}

// RecordCapture appends a pocketed ball to its session.
func (s *Store) RecordCapture(ctx context.Context, c models.Capture) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO session_captures (session_id, frame, ball_number, pocket_id, cue, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		c.SessionID, c.Frame, c.BallNumber, c.PocketID, c.Cue, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: record capture: %w", err)
	}
	return nil
}

// FinishSession stamps the final score, status and end time.
func (s *Store) FinishSession(ctx context.Context, r models.SessionResult) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE game_sessions SET status = ?, score = ?, shots = ?, frames = ?, ended_at = ? WHERE id = ?`),
		r.Status, r.Score, r.Shots, int64(r.Frames), time.Now().UTC(), r.SessionID,
	)
	if err != nil {
		return fmt.Errorf("storage: finish session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession loads a session by token.
func (s *Store) GetSession(ctx context.Context, token string) (*models.GameSession, error) {
	var gs models.GameSession
	err := s.db.GetContext(ctx, &gs, s.db.Rebind(
		`SELECT id, token, player_name, status, score, shots, frames, created_at, ended_at FROM game_sessions WHERE token = ?`),
		token,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get session: %w", err)
	}
	return &gs, nil
}

// SaveLocalScore writes an already finished single-player session in one
// row and returns its token.
func (s *Store) SaveLocalScore(ctx context.Context, player string, r models.SessionResult) (string, error) {
	b := make([]byte, 6)
	rand.Read(b)
	token := "local-" + hex.EncodeToString(b)

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO game_sessions (token, player_name, status, score, shots, frames, created_at, ended_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		token, player, r.Status, r.Score, r.Shots, int64(r.Frames), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("storage: save local score: %w", err)
	}
	return token, nil
}

// TopScores returns finished sessions ordered by score, then fewest shots.
func (s *Store) TopScores(ctx context.Context, limit int) ([]models.ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	entries := []models.ScoreEntry{}
	err := s.db.SelectContext(ctx, &entries, s.db.Rebind(
		`SELECT token, player_name, score, shots, ended_at
		 FROM game_sessions
		 WHERE ended_at IS NOT NULL
		 ORDER BY score DESC, shots ASC, ended_at ASC
		 LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: top scores: %w", err)
	}
	return entries, nil
}

// SessionShots lists the shots of a session in order.
func (s *Store) SessionShots(ctx context.Context, sessionID int64) ([]models.Shot, error) {
	shots := []models.Shot{}
	err := s.db.SelectContext(ctx, &shots, s.db.Rebind(
		`SELECT id, session_id, frame, ball_number, impulse_x, impulse_y, created_at FROM session_shots WHERE session_id = ? ORDER BY id`),
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: session shots: %w", err)
	}
	return shots, nil
}

// SessionCaptures lists the captures of a session in order.
func (s *Store) SessionCaptures(ctx context.Context, sessionID int64) ([]models.Capture, error) {
	captures := []models.Capture{}
	err := s.db.SelectContext(ctx, &captures, s.db.Rebind(
		`SELECT id, session_id, frame, ball_number, pocket_id, cue, created_at FROM session_captures WHERE session_id = ? ORDER BY id`),
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: session captures: %w", err)
	}
	return captures, nil
}
