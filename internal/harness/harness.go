package harness

import (
	"fmt"

	"github.com/Misfitd4/b99pack/internal/b99"
	"github.com/Misfitd4/b99pack/internal/desid"
	"github.com/Misfitd4/b99pack/internal/encoder"
)

// Run builds the scenario's rows and events into a bundle.
// Each scenario is self-contained; nothing is read from disk.
func Run(s *Scenario) (*b99.Bundle, error) {
	rows := make([]desid.SSFRow, 0, len(s.SSF))
	for i, r := range s.SSF {
		row, err := desid.RowFromColumns(r.HashID, r.Clock, r.Set)
		if err != nil {
			return nil, fmt.Errorf("ssf[%d]: %w", i, err)
		}
		rows = append(rows, row)
	}

	events := make([]desid.LogRow, 0, len(s.Log))
	for _, e := range s.Log {
		events = append(events, desid.LogRow{Clock: e.Clock, HashID: e.HashID, Voice: e.Voice})
	}

	maxOps := s.MaxOps
	if maxOps == 0 {
		maxOps = encoder.DefaultMaxOps
	}
	return encoder.Build(rows, events, maxOps)
}
