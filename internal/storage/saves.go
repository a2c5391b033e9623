package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/JPClow3/Veins-of-Erid-n/internal/game"
)

var ErrNoSave = errors.New("no saved game")

// SaveSummary describes a save slot without loading it.
type SaveSummary struct {
	SessionID string
	Character string
	Act       int
	Turns     int
	SavedAt   time.Time
}

// Saves stores one slot per session as a JSON document.
type Saves struct {
	db *sql.DB
}

func NewSaves(db *sql.DB) (*Saves, error) {
	s := &Saves{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Saves) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		session_id TEXT PRIMARY KEY,
		character TEXT NOT NULL,
		act INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		payload TEXT NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_saved_at ON saves(saved_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save writes sv, replacing any earlier save of the same session.
func (s *Saves) Save(ctx context.Context, sv game.Save) error {
	if sv.SessionID == "" {
		return fmt.Errorf("save has no session id")
	}
	if sv.SavedAt.IsZero() {
		sv.SavedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(sv)
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	act, turns := 0, 0
	if sv.Ledgers != nil {
		act = sv.Ledgers.Act
	}
	if sv.History != nil {
		turns = sv.History.Len()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (session_id, character, act, turns, payload, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			character = excluded.character,
			act = excluded.act,
			turns = excluded.turns,
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, sv.SessionID, sv.Character.Name, act, turns, string(payload), sv.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to write save %s: %w", sv.SessionID, err)
	}
	return nil
}

func (s *Saves) Load(ctx context.Context, sessionID string) (game.Save, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM saves WHERE session_id = ?`, sessionID)
	return scanSave(row)
}

// Latest loads the most recently written save.
func (s *Saves) Latest(ctx context.Context) (game.Save, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM saves ORDER BY saved_at DESC LIMIT 1`)
	return scanSave(row)
}

func (s *Saves) List(ctx context.Context) ([]SaveSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, character, act, turns, saved_at
		FROM saves
		ORDER BY saved_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveSummary
	for rows.Next() {
		var sum SaveSummary
		if err := rows.Scan(&sum.SessionID, &sum.Character, &sum.Act, &sum.Turns, &sum.SavedAt); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Saves) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE session_id = ?`, sessionID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNoSave, sessionID)
	}
	return nil
}

func scanSave(row *sql.Row) (game.Save, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.Save{}, ErrNoSave
		}
		return game.Save{}, err
	}
	var sv game.Save
	if err := json.Unmarshal([]byte(payload), &sv); err != nil {
		return game.Save{}, fmt.Errorf("failed to decode save: %w", err)
	}
	if sv.History == nil {
		sv.History = game.NewHistory()
	}
	return sv, nil
}
