package presets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"railannouncements/internal/db"
)

var ErrNotFound = errors.New("preset not found")

// Preset is one saved announcement tab state.
type Preset struct {
	ID        string
	SystemID  string
	TabID     string
	State     db.JSONText
	CreatedAt string
	LoadCount int
}

type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

func NewStore(conn *sql.DB, logger *log.Logger) *Store {
	return &Store{
		db:     conn,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Save stores the state under a fresh random id and returns it.
func (s *Store) Save(ctx context.Context, systemID, tabID string, state json.RawMessage) (string, error) {
	id, err := s.unusedID(ctx)
	if err != nil {
		return "", err
	}

	createdAt := s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_announcements (id, system_id, tab_id, state, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, systemID, tabID, db.JSONText(state), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert preset: %w", err)
	}

	s.logger.Printf("presets: saved | id: %s | system: %s | tab: %s", id, systemID, tabID)
	return id, nil
}

func (s *Store) unusedID(ctx context.Context) (string, error) {
	for {
		id := s.newID()
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM saved_announcements WHERE id = ?`, id).Scan(&exists)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return id, nil
		case err != nil:
			return "", fmt.Errorf("check preset id: %w", err)
		}
		s.logger.Printf("presets: id collision, retrying | id: %s", id)
	}
}

// Load returns the preset and bumps its load counter.
func (s *Store) Load(ctx context.Context, id string) (*Preset, error) {
	var p Preset
	err := s.db.QueryRowContext(ctx,
		`SELECT id, system_id, tab_id, state, created_at, load_count FROM saved_announcements WHERE id = ?`, id,
	).Scan(&p.ID, &p.SystemID, &p.TabID, &p.State, &p.CreatedAt, &p.LoadCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select preset: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE saved_announcements SET load_count = load_count + 1 WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("update preset load count: %w", err)
	}
	p.LoadCount++
	return &p, nil
}
