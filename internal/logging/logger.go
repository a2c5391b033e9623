// Package logging records every resolved turn so that completions can be
// reviewed and rated after a play session.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoCompletion  = errors.New("no such completion")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

type CompletionLog struct {
	ID           int       `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"session_id"`
	WorldState   string    `json:"world_state"`
	UserInput    string    `json:"user_input"`
	SystemPrompt string    `json:"system_prompt"`
	Response     string    `json:"response"`
	Metadata     string    `json:"metadata"`
	Rating       *int      `json:"rating,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

type CompletionMetadata struct {
	Model         string        `json:"model"`
	MaxTokens     int           `json:"max_tokens"`
	ResponseTime  time.Duration `json:"response_time_ms"`
	StreamingUsed bool          `json:"streaming_used"`
	Directives    int           `json:"directives"`
	Warnings      []string      `json:"warnings,omitempty"`
	Error         *string       `json:"error,omitempty"`
}

// Completion is one turn as handed to LogCompletion.
type Completion struct {
	SessionID    string
	WorldState   any
	UserInput    string
	SystemPrompt string
	Response     string
	Metadata     CompletionMetadata
}

type CompletionLogger struct {
	db *sql.DB
}

func NewCompletionLogger(db *sql.DB) (*CompletionLogger, error) {
	logger := &CompletionLogger{db: db}
	if err := logger.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return logger, nil
}

func (cl *CompletionLogger) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS completions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		session_id TEXT NOT NULL DEFAULT '',
		world_state TEXT NOT NULL,
		user_input TEXT NOT NULL,
		system_prompt TEXT NOT NULL,
		response TEXT NOT NULL,
		metadata TEXT NOT NULL,
		rating INTEGER,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_completions_timestamp ON completions(timestamp);
	CREATE INDEX IF NOT EXISTS idx_completions_rating ON completions(rating);
	`

	_, err := cl.db.Exec(schema)
	return err
}

func (cl *CompletionLogger) LogCompletion(ctx context.Context, c Completion) error {
	worldStateJson, err := json.Marshal(c.WorldState)
	if err != nil {
		return fmt.Errorf("failed to marshal world state: %w", err)
	}

	metadataJson, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = cl.db.ExecContext(ctx, `
		INSERT INTO completions (session_id, world_state, user_input, system_prompt, response, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.SessionID, string(worldStateJson), c.UserInput, c.SystemPrompt, c.Response, string(metadataJson))

	return err
}

func (cl *CompletionLogger) GetRecentCompletions(ctx context.Context, limit int) ([]CompletionLog, error) {
	rows, err := cl.db.QueryContext(ctx, `
		SELECT id, timestamp, session_id, world_state, user_input, system_prompt, response, metadata, rating, notes
		FROM completions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []CompletionLog
	for rows.Next() {
		var c CompletionLog
		err := rows.Scan(&c.ID, &c.Timestamp, &c.SessionID, &c.WorldState, &c.UserInput,
			&c.SystemPrompt, &c.Response, &c.Metadata, &c.Rating, &c.Notes)
		if err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

func (cl *CompletionLogger) RateCompletion(ctx context.Context, id int, rating int, notes string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	res, err := cl.db.ExecContext(ctx, `
		UPDATE completions
		SET rating = ?, notes = ?
		WHERE id = ?
	`, rating, notesPtr, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNoCompletion, id)
	}
	return nil
}

// DecodeMetadata parses the metadata column of c.
func (c CompletionLog) DecodeMetadata() (CompletionMetadata, error) {
	var m CompletionMetadata
	err := json.Unmarshal([]byte(c.Metadata), &m)
	return m, err
}
