// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

import "time"

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:kombucha.db?cache=shared"
	//   "files/db_tables/kombuchaDB.sqlite3"
	DSN string

	// PingTimeout bounds the initial connectivity check. Zero means 5s.
	PingTimeout time.Duration
}
