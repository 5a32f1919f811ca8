package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a packer conformance scenario.
// A scenario feeds register rows and playback events through the
// builder and asserts on the resulting bundle.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden dumps are stored
	// under this name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// MaxOps caps ops per record before chunking. Zero means the
	// packer default.
	MaxOps int `yaml:"max_ops,omitempty"`

	// SSF lists the register rows of the export, one map of column
	// values per sampled clock.
	SSF []RegisterRow `yaml:"ssf"`

	// Log lists the playback events that become triggers.
	Log []LogEvent `yaml:"log"`

	// Expect describes the bundle the scenario must produce.
	Expect Expectation `yaml:"expect"`
}

// RegisterRow is one register-state row of an SSF export.
type RegisterRow struct {
	HashID int64 `yaml:"hashid"`
	Clock  int64 `yaml:"clock"`

	// Set maps export column names to cell values. Columns not named
	// stay absent, which is different from being present with an
	// unchanged value.
	Set map[string]int64 `yaml:"set"`
}

// LogEvent is one playback log row.
type LogEvent struct {
	Clock  int64 `yaml:"clock"`
	HashID int64 `yaml:"hashid"`
	Voice  int64 `yaml:"voice"`
}

// Expectation describes the bundle a scenario must produce.
// When Error is set the build must fail and the table expectations
// are ignored.
type Expectation struct {
	SSFs     []ExpectedSSF     `yaml:"ssfs,omitempty"`
	Triggers []ExpectedTrigger `yaml:"triggers,omitempty"`

	// Error must be contained in the build error text.
	Error string `yaml:"error,omitempty"`
}

// ExpectedSSF is one expected record in the bundle's SSF table.
type ExpectedSSF struct {
	HashID   int64        `yaml:"hashid"`
	Duration int64        `yaml:"duration"`
	Ops      []ExpectedOp `yaml:"ops"`
}

// ExpectedOp is one expected op, with the opcode by mnemonic.
type ExpectedOp struct {
	Delta int64  `yaml:"delta"`
	Op    string `yaml:"op"`
	Data  []int  `yaml:"data,omitempty"`
}

// ExpectedTrigger is one expected trigger.
type ExpectedTrigger struct {
	Delta    int64 `yaml:"delta"`
	SSFIndex int   `yaml:"ssf_index"`
	Voice    int64 `yaml:"voice"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "trigger:" vs "triggers:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	for i, row := range s.SSF {
		if row.Set == nil {
			return fmt.Errorf("ssf[%d]: set is required (use empty map for a silent row)", i)
		}
	}

	if s.Expect.Error == "" && len(s.Expect.SSFs) == 0 && len(s.Expect.Triggers) == 0 {
		return fmt.Errorf("expect must declare ssfs, triggers, or an error")
	}

	if s.Expect.Error != "" && (len(s.Expect.SSFs) > 0 || len(s.Expect.Triggers) > 0) {
		return fmt.Errorf("expect.error excludes table expectations")
	}

	return nil
}
