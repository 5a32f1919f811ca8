package testutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Misfitd4/b99pack/internal/desid"
)

// CSVRow is one register row to render into an SSF export.
type CSVRow struct {
	HashID int64
	Clock  int64
	Set    map[string]int64
}

// SSFCSV renders rows in the desidulate SSF export format. Columns not
// named in Set stay empty.
func SSFCSV(rows []CSVRow) string {
	var b strings.Builder
	b.WriteString("hashid,clock," + strings.Join(desid.RegisterColumns, ","))
	b.WriteByte('\n')
	for _, r := range rows {
		cells := make([]string, 0, len(desid.RegisterColumns)+2)
		cells = append(cells, strconv.FormatInt(r.HashID, 10), strconv.FormatInt(r.Clock, 10))
		for _, col := range desid.RegisterColumns {
			if v, ok := r.Set[col]; ok {
				cells = append(cells, strconv.FormatInt(v, 10))
			} else {
				cells = append(cells, "")
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// LogCSV renders playback events in the desidulate log export format.
func LogCSV(events []desid.LogRow) string {
	var b strings.Builder
	b.WriteString("clock,hashid,voice\n")
	for _, e := range events {
		fmt.Fprintf(&b, "%d,%d,%d\n", e.Clock, e.HashID, e.Voice)
	}
	return b.String()
}
