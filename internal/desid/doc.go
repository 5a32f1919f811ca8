// Package desid reads desidulate CSV exports: the zstd-compressed
// register-state (SSF) and playback-log tables that beta99 bundles
// are packed from.
//
// Readers are header-driven, so column order does not matter and
// extra columns are ignored. Numeric cells may be integer or float
// text; float cells are truncated toward zero. An empty cell means
// the register was not sampled on that row and parses to an invalid
// Field.
package desid
