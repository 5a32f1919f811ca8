// Package catalog records packed bundles in a SQLite database.
//
// The catalog is optional bookkeeping for pack runs: one row per
// bundle with its output path, table sizes, and the op cap used.
// Rows are identified by UUIDv7, so listings come back in creation
// order even when timestamps collide. Removing a row never touches
// the bundle file on disk.
//
// Database configuration is the usual single-writer SQLite setup:
// WAL journal, synchronous=NORMAL, busy_timeout=5000, one connection.
package catalog
