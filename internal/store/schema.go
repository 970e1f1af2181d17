package store

import (
	"github.com/pocketbase/dbx"
)

var schemaUp = []string{
	`CREATE TABLE IF NOT EXISTS doctors (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		specialty   TEXT NOT NULL,
		room_number TEXT,
		status      TEXT NOT NULL DEFAULT 'OFFLINE',
		created_at  DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS queue_entries (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id   TEXT NOT NULL,
		specialty    TEXT NOT NULL,
		queue_number INTEGER NOT NULL,
		status       TEXT NOT NULL DEFAULT 'WAITING',
		doctor_id    INTEGER REFERENCES doctors (id),
		room_number  TEXT,
		created_at   DATETIME NOT NULL,
		called_at    DATETIME,
		completed_at DATETIME
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_queue_entries_specialty_number
		ON queue_entries (specialty, queue_number)`,
	`CREATE INDEX IF NOT EXISTS idx_queue_entries_patient_status
		ON queue_entries (patient_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_queue_entries_specialty_status
		ON queue_entries (specialty, status, queue_number)`,
	`CREATE TABLE IF NOT EXISTS display_board_entries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		patient_id  TEXT NOT NULL,
		room_number TEXT NOT NULL,
		specialty   TEXT NOT NULL,
		status      TEXT NOT NULL,
		created_at  DATETIME NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_display_board_patient
		ON display_board_entries (patient_id)`,
}

var schemaDown = []string{
	`DROP TABLE IF EXISTS display_board_entries`,
	`DROP TABLE IF EXISTS queue_entries`,
	`DROP TABLE IF EXISTS doctors`,
}

// CreateSchema creates the queue tables and indexes if they do not exist.
func CreateSchema(db dbx.Builder) error {
	for _, stmt := range schemaUp {
		if _, err := db.NewQuery(stmt).Execute(); err != nil {
			return err
		}
	}
	return nil
}

func DropSchema(db dbx.Builder) error {
	for _, stmt := range schemaDown {
		if _, err := db.NewQuery(stmt).Execute(); err != nil {
			return err
		}
	}
	return nil
}
