// Package store persists image metadata, users and API tokens in SQLite.
//
// The database lives at <data_dir>/mediadock.db and is opened with WAL
// journaling, foreign keys and a busy timeout. Writes retry briefly while
// another connection holds the lock. The schema is versioned; a database
// written by a different schema version is refused with ErrSchemaMismatch
// rather than migrated.
//
// Image deletion runs inside a transaction together with a caller supplied
// finalizer so the metadata row only disappears when the stored file could
// be removed as well.
package store
