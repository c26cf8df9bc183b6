package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is one end-to-end harness case: an input circuit, a pipeline
// of passes, and the expectations to check on the outcome.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Circuit     CircuitDoc   `yaml:"circuit"`
	Pipeline    []PassDoc    `yaml:"pipeline"`
	Expect      Expectations `yaml:"expect"`
}

// PassDoc names one pass of a scenario pipeline with its arguments.
type PassDoc struct {
	Name string         `yaml:"name"`
	Args map[string]any `yaml:"args,omitempty"`
}

// Expectations describe the acceptable outcome of running the pipeline.
type Expectations struct {
	// Error, when set, is the PassError code the pipeline must fail
	// with. All other expectations are ignored for failing scenarios.
	Error string `yaml:"error,omitempty"`

	// MaxTwoQubitCount bounds the two-qubit gate count of the result.
	MaxTwoQubitCount *int `yaml:"max_two_qubit_count,omitempty"`

	// Alphabet lists the ops the result may contain.
	Alphabet []string `yaml:"alphabet,omitempty"`

	// UnitaryPreserved asks for a numeric check that the result
	// implements the same unitary as the input, up to global phase.
	UnitaryPreserved bool `yaml:"unitary_preserved,omitempty"`

	// Changed, when set, pins the pipeline's changed result.
	Changed *bool `yaml:"changed,omitempty"`
}

// LoadScenario reads one scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if len(s.Pipeline) == 0 {
		return nil, fmt.Errorf("scenario %s: pipeline is empty", path)
	}
	return &s, nil
}

// LoadScenarioDir reads every *.yaml scenario under dir, sorted by file
// name for deterministic test order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out []*Scenario
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
