// Package database provides the Database interface for registry operations.
// This package re-exports the internal database interface to allow external
// implementations to wrap and extend the persistence layer.
package database

import (
	internaldatabase "github.com/promptdial/promptdial/internal/registry/database"
	"github.com/promptdial/promptdial/internal/registry/kv"
)

// Database is the interface for registry persistence operations.
type Database = internaldatabase.Database

type (
	SnapshotKind   = internaldatabase.SnapshotKind
	PersonalityRef = internaldatabase.PersonalityRef
)

const (
	SnapshotPage  = internaldatabase.SnapshotPage
	SnapshotShare = internaldatabase.SnapshotShare
)

// Common database errors
var (
	ErrNotFound     = internaldatabase.ErrNotFound
	ErrInvalidInput = internaldatabase.ErrInvalidInput
	ErrDatabase     = internaldatabase.ErrDatabase
	ErrConflict     = internaldatabase.ErrConflict
)

// NewKV returns the key-value backed Database implementation.
func NewKV(store kv.Store) Database {
	return internaldatabase.NewKVDatabase(store)
}
