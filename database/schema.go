package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// Schema contains the database schema for the snapshot store. The whole
// application state lives in one row keyed by SnapshotKey.
const Schema = `
CREATE TABLE IF NOT EXISTS state_snapshots (
    snapshot_key VARCHAR(128) PRIMARY KEY,
    doc LONGBLOB NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
);
`

// SnapshotKey is the fixed key the application state is stored under.
// It carries over the storage key used by earlier releases.
const SnapshotKey = "society_app_data_v4"

// InitializeSchema creates the snapshot table if it does not exist.
func InitializeSchema(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	log.Info("Snapshot schema initialized")
	return nil
}
