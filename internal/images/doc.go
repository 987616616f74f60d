// Package images implements the image store: uploaded files live under
// <media_root>/images/ and their metadata in the SQLite store.
//
// Ids are UUIDs. Lookups by a malformed id and by an unknown id both return
// ErrNotFound so callers cannot tell the two apart.
package images
