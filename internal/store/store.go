// Package store persists a catalog of arrangement runs: every frame-sink file
// written by the arranger gets a record describing its source, window
// parameters, shapes and per-channel statistics, backed by SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ArrangementRecord describes one windowing run and the sink file it wrote.
type ArrangementRecord struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	Source       string          `json:"source"`
	OutputPath   string          `json:"output_path"`
	Stride       int             `json:"stride"`
	Window       int             `json:"window"`
	PadLeft      int             `json:"pad_left"`
	PadRight     int             `json:"pad_right"`
	StateShape   []int           `json:"state_shape"`
	PaddedWindow int             `json:"padded_window"`
	NumFrames    int             `json:"num_frames"`
	DType        string          `json:"dtype"`
	ChannelStats json.RawMessage `json:"channel_stats,omitempty"`
}

// Store provides persistence for arrangement records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the catalog at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Insert adds a record, assigning an ID and creation time when absent, and
// returns the stored ID.
func (s *Store) Insert(rec ArrangementRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	shape, err := json.Marshal(rec.StateShape)
	if err != nil {
		return "", fmt.Errorf("encoding state shape: %w", err)
	}
	query := `
		INSERT INTO arrangements (
			id, created_at, source, output_path, stride, window,
			pad_left, pad_right, state_shape, padded_window, num_frames,
			dtype, channel_stats
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.Source,
		rec.OutputPath,
		rec.Stride,
		rec.Window,
		rec.PadLeft,
		rec.PadRight,
		string(shape),
		rec.PaddedWindow,
		rec.NumFrames,
		rec.DType,
		nullJSON(rec.ChannelStats),
	)
	if err != nil {
		return "", fmt.Errorf("inserting arrangement %s: %w", rec.ID, err)
	}
	return rec.ID, nil
}

// Get returns a single record by ID, or nil when none exists.
func (s *Store) Get(id string) (*ArrangementRecord, error) {
	query := `
		SELECT id, created_at, source, output_path, stride, window,
		       pad_left, pad_right, state_shape, padded_window, num_frames,
		       dtype, channel_stats
		FROM arrangements
		WHERE id = ?
	`
	rec, err := scanRecord(s.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying arrangement %s: %w", id, err)
	}
	return rec, nil
}

// List returns recent records, newest first.
func (s *Store) List(limit int) ([]ArrangementRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, created_at, source, output_path, stride, window,
		       pad_left, pad_right, state_shape, padded_window, num_frames,
		       dtype, channel_stats
		FROM arrangements
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing arrangements: %w", err)
	}
	defer rows.Close()

	var out []ArrangementRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning arrangement row: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Delete removes a record.
func (s *Store) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM arrangements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting arrangement %s: %w", id, err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*ArrangementRecord, error) {
	var rec ArrangementRecord
	var createdAt, shape string
	var stats sql.NullString
	err := row.Scan(
		&rec.ID, &createdAt, &rec.Source, &rec.OutputPath,
		&rec.Stride, &rec.Window, &rec.PadLeft, &rec.PadRight,
		&shape, &rec.PaddedWindow, &rec.NumFrames,
		&rec.DType, &stats,
	)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for arrangement %s: %w", rec.ID, err)
	}
	rec.CreatedAt = t
	if err := json.Unmarshal([]byte(shape), &rec.StateShape); err != nil {
		return nil, fmt.Errorf("parsing state_shape for arrangement %s: %w", rec.ID, err)
	}
	if stats.Valid && stats.String != "" {
		rec.ChannelStats = json.RawMessage(stats.String)
	}
	return &rec, nil
}

// nullJSON returns a *string for a JSON value, treating nil or empty as NULL.
func nullJSON(data json.RawMessage) *string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	return &s
}
