package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one restoration case: an input module and what the rewritten
// module must look like.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the IR module to rewrite. Relative paths are resolved
	// against the scenario file's directory.
	Input string `yaml:"input"`

	// Options overrides the restorer's method names.
	Options Options `yaml:"options,omitempty"`

	// RunID is the fixed run id. Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Options mirrors the configurable restorer settings.
type Options struct {
	InitializerMethod string `yaml:"initializer_method,omitempty"`
	LookupMethod      string `yaml:"lookup_method,omitempty"`
}

// DefaultRunID is used when a scenario names no run id.
const DefaultRunID = "scenario-run"

// Assertion is one property of the rewritten module.
type Assertion struct {
	Type     string   `yaml:"type"`
	Function string   `yaml:"function,omitempty"`
	Key      string   `yaml:"key,omitempty"`
	Values   []string `yaml:"values,omitempty"`
	Variable string   `yaml:"variable,omitempty"`
	Label    string   `yaml:"label,omitempty"`
	Count    int      `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertRestored       = "restored"
	AssertAborted        = "aborted"
	AssertSwitchOn       = "switch_on"
	AssertUnchanged      = "unchanged"
	AssertVariableAbsent = "variable_absent"
	AssertNoGoto         = "no_goto"
	AssertIdempotent     = "idempotent"
	AssertVerified       = "verified"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Input != "" && !filepath.IsAbs(scenario.Input) {
		scenario.Input = filepath.Join(filepath.Dir(path), scenario.Input)
	}
	if scenario.RunID == "" {
		scenario.RunID = DefaultRunID
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Input == "" {
		return fmt.Errorf("input is required")
	}
	if _, err := os.Stat(s.Input); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", s.Input)
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRestored, AssertAborted:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertSwitchOn:
		if a.Function == "" || a.Key == "" {
			return fmt.Errorf("assertions[%d]: function and key are required for switch_on", index)
		}
		if len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: values are required for switch_on", index)
		}
	case AssertUnchanged:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for unchanged", index)
		}
	case AssertVariableAbsent:
		if a.Function == "" || a.Variable == "" {
			return fmt.Errorf("assertions[%d]: function and variable are required for variable_absent", index)
		}
	case AssertNoGoto:
		if a.Function == "" || a.Label == "" {
			return fmt.Errorf("assertions[%d]: function and label are required for no_goto", index)
		}
	case AssertIdempotent, AssertVerified:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
