// Package database provides the SQLite key/blob store behind the Lumina
// gallery.
//
// It holds:
//   - The persisted snapshot blobs (catalog, albums, sources), keyed by name
//   - A small metadata table (schema version, last snapshot time)
//
// A snapshot is always written in full inside one transaction, so readers
// never observe a catalog blob that disagrees with its album or source blob.
// The database uses WAL mode and includes automatic schema initialization.
package database
