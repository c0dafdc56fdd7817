package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Store persists the application state as a single document under a
// fixed key, overwritten on every save and read once at startup.
type Store interface {
	// LoadSnapshot returns the stored document. The boolean is false
	// when no snapshot exists yet.
	LoadSnapshot(ctx context.Context) ([]byte, bool, error)
	// SaveSnapshot overwrites the stored document.
	SaveSnapshot(ctx context.Context, doc []byte) error
}

// MySQLStore is the durable snapshot store.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a snapshot store on an open connection.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) LoadSnapshot(ctx context.Context) ([]byte, bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM state_snapshots WHERE snapshot_key = ?",
		SnapshotKey).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return doc, true, nil
}

func (s *MySQLStore) SaveSnapshot(ctx context.Context, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state_snapshots (snapshot_key, doc) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE doc = VALUES(doc)`,
		SnapshotKey, doc)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// MemoryStore keeps the snapshot in memory. Used by tests and by
// deployments that accept losing state on restart.
type MemoryStore struct {
	mu  sync.Mutex
	doc []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadSnapshot(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, false, nil
	}
	out := make([]byte, len(s.doc))
	copy(out, s.doc)
	return out, true, nil
}

func (s *MemoryStore) SaveSnapshot(ctx context.Context, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = make([]byte, len(doc))
	copy(s.doc, doc)
	return nil
}
