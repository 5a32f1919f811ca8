// Package b99 defines the beta99 bundle model and its binary and JSON
// dump encodings.
//
// A bundle is the unit the playback engine consumes: a table of SSF
// records (delta-encoded register-write programs addressed by hash)
// followed by a trigger stream that schedules records onto voices by
// table index.
//
// Layout rules live here and nowhere else:
//   - all integers little-endian
//   - header: magic "B99F", u16 version, u16 reserved, u32 record and
//     trigger counts
//   - record header: u64 hash, u32 duration, u32 op count
//   - op: u32 delta, u8 opcode, u8 payload length, payload bytes
//   - trigger: u32 delta, u16 record index, u8 voice, one pad byte
//
// Values are carried as int64 in memory and in JSON dumps; masking to
// the wire widths above happens only at binary encode. Hash IDs may be
// negative and survive an encode/decode round trip unchanged.
package b99
