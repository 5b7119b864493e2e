// Package snapshot persists a local history of built index mappings
// so drift can be checked against the last known-good build without
// reaching the live cluster.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/indexforge/indexforge/internal/mappings"
)

// Snapshot is one recorded mapping build.
type Snapshot struct {
	ID            string
	CreatedAt     time.Time
	PropertyCount int
	Mapping       *mappings.IndexMapping
}

// Tracker manages snapshot history in the database
type Tracker struct {
	db *sql.DB
}

// NewTracker creates a new snapshot tracker
func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// Initialize ensures the mapping_snapshots table exists
func (t *Tracker) Initialize() error {
	query := `
CREATE TABLE IF NOT EXISTS mapping_snapshots (
	id UUID PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	property_count INTEGER NOT NULL,
	mapping JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mapping_snapshots_created_at
ON mapping_snapshots(created_at);
`
	_, err := t.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshots table: %w", err)
	}

	return nil
}

// Record stores a built mapping and returns the new snapshot id.
func (t *Tracker) Record(mapping *mappings.IndexMapping) (string, error) {
	encoded, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("failed to encode mapping: %w", err)
	}

	id := uuid.NewString()
	query := `
INSERT INTO mapping_snapshots (id, property_count, mapping)
VALUES ($1, $2, $3)
`
	if _, err := t.db.Exec(query, id, len(mapping.Properties), encoded); err != nil {
		return "", fmt.Errorf("failed to record snapshot: %w", err)
	}

	return id, nil
}

// GetLast returns the most recently recorded snapshot, or nil if none
// exist.
func (t *Tracker) GetLast() (*Snapshot, error) {
	query := `
SELECT id, created_at, property_count, mapping
FROM mapping_snapshots
ORDER BY created_at DESC
LIMIT 1
`
	s := &Snapshot{}
	var encoded []byte
	err := t.db.QueryRow(query).Scan(&s.ID, &s.CreatedAt, &s.PropertyCount, &encoded)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last snapshot: %w", err)
	}

	if err := json.Unmarshal(encoded, &s.Mapping); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.ID, err)
	}

	return s, nil
}

// GetAll returns all snapshots, newest first.
func (t *Tracker) GetAll() ([]*Snapshot, error) {
	query := `
SELECT id, created_at, property_count, mapping
FROM mapping_snapshots
ORDER BY created_at DESC
`
	rows, err := t.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		s := &Snapshot{}
		var encoded []byte
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.PropertyCount, &encoded); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if err := json.Unmarshal(encoded, &s.Mapping); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", s.ID, err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Count returns the total number of recorded snapshots
func (t *Tracker) Count() (int, error) {
	query := "SELECT COUNT(*) FROM mapping_snapshots"
	var count int
	err := t.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot count: %w", err)
	}
	return count, nil
}
