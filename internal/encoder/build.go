package encoder

import (
	"fmt"
	"sort"

	"github.com/Misfitd4/b99pack/internal/b99"
	"github.com/Misfitd4/b99pack/internal/desid"
)

// hashGroup collects one fragment's rows in input order.
type hashGroup struct {
	hash int64
	rows []desid.SSFRow
}

// Build assembles a bundle from desidulate exports. Every fragment in
// ssfRows becomes one or more SSF records (split after maxOps ops),
// and every log event becomes one trigger per record of its fragment,
// with the event's delta carried by the first. maxOps values below 1
// are clamped to 1.
//
// Table capacity and payload widths are enforced by the bundle's own
// Validate at encode time, so Build only fails on log events that
// reference fragments absent from the SSF export.
func Build(ssfRows []desid.SSFRow, logRows []desid.LogRow, maxOps int) (*b99.Bundle, error) {
	if maxOps < 1 {
		maxOps = 1
	}

	var bundle b99.Bundle
	recordIndex := make(map[int64][]int)

	for _, group := range groupByHash(ssfRows) {
		ops, lastClock := encodeGroup(group.rows)

		var indices []int
		for _, chunk := range chunkOps(ops, maxOps) {
			if len(chunk) == 0 {
				continue
			}
			bundle.SSFs = append(bundle.SSFs, b99.SSF{
				HashID:   group.hash,
				Duration: opsDuration(chunk),
				Ops:      chunk,
			})
			indices = append(indices, len(bundle.SSFs)-1)
		}
		if len(indices) == 0 {
			// A fragment whose rows never move a register still needs
			// a record for the log to trigger. The empty record keeps
			// the fragment's full clock span as its duration.
			bundle.SSFs = append(bundle.SSFs, b99.SSF{HashID: group.hash, Duration: lastClock})
			indices = append(indices, len(bundle.SSFs)-1)
		}
		recordIndex[group.hash] = indices
	}

	sortedLog := make([]desid.LogRow, len(logRows))
	copy(sortedLog, logRows)
	sort.SliceStable(sortedLog, func(i, j int) bool { return sortedLog[i].Clock < sortedLog[j].Clock })

	var prevClock int64
	for _, event := range sortedLog {
		delta := event.Clock - prevClock
		prevClock = event.Clock

		indices, ok := recordIndex[event.HashID]
		if !ok {
			return nil, &BuildError{
				Code:    ErrCodeUnknownHash,
				Message: fmt.Sprintf("log references fragment %d, which has no SSF rows", event.HashID),
				HashID:  event.HashID,
				Clock:   event.Clock,
			}
		}
		for i, idx := range indices {
			t := b99.Trigger{SSFIndex: idx, Voice: event.Voice}
			if i == 0 {
				t.Delta = delta
			}
			bundle.Triggers = append(bundle.Triggers, t)
		}
	}

	return &bundle, nil
}

// groupByHash buckets rows by fragment hash, keeping fragments in
// first-appearance order so record indices are stable across runs.
func groupByHash(rows []desid.SSFRow) []hashGroup {
	byHash := make(map[int64]int)
	var groups []hashGroup
	for _, row := range rows {
		i, ok := byHash[row.HashID]
		if !ok {
			i = len(groups)
			byHash[row.HashID] = i
			groups = append(groups, hashGroup{hash: row.HashID})
		}
		groups[i].rows = append(groups[i].rows, row)
	}
	return groups
}
