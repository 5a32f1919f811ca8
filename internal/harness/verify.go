package harness

import (
	"fmt"

	"github.com/Misfitd4/b99pack/internal/b99"
)

// Verify checks the bundle against the scenario's expectations,
// collecting every mismatch rather than stopping at the first.
func Verify(s *Scenario, bundle *b99.Bundle) []error {
	var errs []error

	if len(bundle.SSFs) != len(s.Expect.SSFs) {
		errs = append(errs, fmt.Errorf("ssf count: got %d, want %d", len(bundle.SSFs), len(s.Expect.SSFs)))
	} else {
		for i, want := range s.Expect.SSFs {
			errs = append(errs, verifySSF(i, bundle.SSFs[i], want)...)
		}
	}

	if len(bundle.Triggers) != len(s.Expect.Triggers) {
		errs = append(errs, fmt.Errorf("trigger count: got %d, want %d", len(bundle.Triggers), len(s.Expect.Triggers)))
	} else {
		for i, want := range s.Expect.Triggers {
			got := bundle.Triggers[i]
			if got.Delta != want.Delta || got.SSFIndex != want.SSFIndex || got.Voice != want.Voice {
				errs = append(errs, fmt.Errorf("trigger[%d]: got {delta %d, ssf %d, voice %d}, want {delta %d, ssf %d, voice %d}",
					i, got.Delta, got.SSFIndex, got.Voice, want.Delta, want.SSFIndex, want.Voice))
			}
		}
	}

	return errs
}

func verifySSF(i int, got b99.SSF, want ExpectedSSF) []error {
	var errs []error

	if got.HashID != want.HashID {
		errs = append(errs, fmt.Errorf("ssf[%d]: hashid got %d, want %d", i, got.HashID, want.HashID))
	}
	if got.Duration != want.Duration {
		errs = append(errs, fmt.Errorf("ssf[%d]: duration got %d, want %d", i, got.Duration, want.Duration))
	}
	if len(got.Ops) != len(want.Ops) {
		errs = append(errs, fmt.Errorf("ssf[%d]: op count got %d, want %d", i, len(got.Ops), len(want.Ops)))
		return errs
	}

	for j, wantOp := range want.Ops {
		gotOp := got.Ops[j]

		code, err := b99.ParseOpcode(wantOp.Op)
		if err != nil {
			errs = append(errs, fmt.Errorf("ssf[%d] op[%d]: %w", i, j, err))
			continue
		}
		if gotOp.Code != code {
			errs = append(errs, fmt.Errorf("ssf[%d] op[%d]: opcode got %s, want %s", i, j, gotOp.Code, wantOp.Op))
		}
		if gotOp.Delta != wantOp.Delta {
			errs = append(errs, fmt.Errorf("ssf[%d] op[%d]: delta got %d, want %d", i, j, gotOp.Delta, wantOp.Delta))
		}
		if !payloadEqual(gotOp.Data, wantOp.Data) {
			errs = append(errs, fmt.Errorf("ssf[%d] op[%d]: payload got %v, want %v", i, j, gotOp.Data, wantOp.Data))
		}
	}

	return errs
}

// payloadEqual compares wire bytes against a scenario's int list.
func payloadEqual(got []byte, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i, b := range got {
		if int(b) != want[i] {
			return false
		}
	}
	return true
}
