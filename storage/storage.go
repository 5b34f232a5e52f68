package storage

import (
	"context"
	"errors"

	"github.com/revelaction/corpstat/feature"
)

// ErrNotFound is returned by TableReader.Read for an unknown group.
var ErrNotFound = errors.New("table not found")

// TableReader defines read operations for feature table storage
type TableReader interface {
	// Groups returns the names of all stored groups, sorted alphabetically.
	Groups(ctx context.Context) ([]string, error)

	// Read returns the table of a group, rows sorted by filename.
	Read(ctx context.Context, group string) (feature.Table, error)
}

// TableWriter defines write operations for feature table storage
type TableWriter interface {
	// Write persists a table, replacing a previous table of the same group.
	// A table is written completely or not at all.
	Write(ctx context.Context, t feature.Table) error
}

// TableRepository combines read and write operations
type TableRepository interface {
	TableReader
	TableWriter
}
