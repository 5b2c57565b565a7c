// Package storage holds the embedded backends for durable client storage:
// an in-memory map, a bbolt file and a SQLite file. The Postgres backend
// lives in the repository package.
package storage

import "errors"

// ErrNotConfigured is returned by a backend built without a database handle.
var ErrNotConfigured = errors.New("storage is not configured")
