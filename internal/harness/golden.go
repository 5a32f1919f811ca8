package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Misfitd4/b99pack/internal/b99"
)

// AssertDump compares a bundle's debug dump against the golden file
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertDump(t *testing.T, name string, bundle *b99.Bundle) {
	t.Helper()

	dump, err := bundle.EncodeDump()
	if err != nil {
		t.Fatalf("encoding dump for %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, dump)
}
