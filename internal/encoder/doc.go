// Package encoder turns desidulate register rows into beta99 bundles.
//
// Each fragment (rows sharing a hashid) is encoded independently: its
// rows are replayed in clock order against a register-state tracker,
// and only effective changes become ops. Op streams longer than the
// configured cap split into consecutive records sharing the fragment's
// hash, and the playback log fans out into one trigger per record.
//
// The whole transform is deterministic: fragments keep first-appearance
// order, sorts are stable, and no map iteration order leaks into the
// output.
package encoder
