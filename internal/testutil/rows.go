// Package testutil provides fixture builders shared by encoder, CLI,
// and harness tests.
package testutil

import "github.com/Misfitd4/b99pack/internal/desid"

// MustSSFRow builds a register row from column-keyed values, panicking
// on a bad column name. Tests use it to stay in export vocabulary
// instead of naming struct fields.
func MustSSFRow(hashid, clock int64, set map[string]int64) desid.SSFRow {
	row, err := desid.RowFromColumns(hashid, clock, set)
	if err != nil {
		panic(err)
	}
	return row
}

// SSFRows builds a fragment: one row per set map, all sharing hashid,
// clocked at the given ticks.
func SSFRows(hashid int64, clocks []int64, sets []map[string]int64) []desid.SSFRow {
	if len(clocks) != len(sets) {
		panic("testutil: clocks and sets must pair up")
	}
	rows := make([]desid.SSFRow, len(clocks))
	for i := range clocks {
		rows[i] = MustSSFRow(hashid, clocks[i], sets[i])
	}
	return rows
}
