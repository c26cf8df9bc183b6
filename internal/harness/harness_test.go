package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
)

func TestScenarioDir(t *testing.T) {
	scenarios, err := LoadScenarioDir("testdata/scenarios")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(scenarios), 6)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			_, err := Run(s)
			require.NoError(t, err)
		})
	}
}

func TestSwapScenarioGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/01_swap_to_permutation.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)
	require.Empty(t, res.Output.Cmds)
	require.Equal(t, []int{1, 0}, res.Output.Perm)

	AssertCircuitGolden(t, Goldie(t), "swap_to_permutation", res.Output)
}

func TestRedundancyScenarioGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/02_redundancy_sweep.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)

	AssertCircuitGolden(t, Goldie(t), "redundancy_sweep", res.Output)
}

func TestRunFailedExpectation(t *testing.T) {
	changed := false
	s := &Scenario{
		Name: "pinned_unchanged",
		Circuit: CircuitDoc{
			Qubits: 1,
			Gates: []GateDoc{
				{Op: "H", Qubits: []int{0}},
				{Op: "H", Qubits: []int{0}},
			},
		},
		Pipeline: []PassDoc{{Name: "remove_redundancies"}},
		Expect:   Expectations{Changed: &changed},
	}

	res, err := Run(s)
	require.Error(t, err)
	require.NotNil(t, res)
	require.True(t, res.Changed)
}

func TestRunExpectedErrorCode(t *testing.T) {
	s := &Scenario{
		Name: "wrong_code",
		Circuit: CircuitDoc{
			Qubits: 1,
			Gates:  []GateDoc{{Op: "Custom", Qubits: []int{0}}},
		},
		Pipeline: []PassDoc{{Name: "clifford_simp"}},
		Expect:   Expectations{Error: "NON_TERMINATION"},
	}

	_, err := Run(s)
	require.ErrorContains(t, err, "expected error NON_TERMINATION")
}

func TestRunUnknownPass(t *testing.T) {
	s := &Scenario{
		Name:     "bad_pass",
		Circuit:  CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "H", Qubits: []int{0}}}},
		Pipeline: []PassDoc{{Name: "no_such_pass"}},
	}

	res, err := Run(s)
	require.Error(t, err)
	require.Nil(t, res)
}

func TestLoadScenarioValidation(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}

	_, err := LoadScenario(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	p := write("noname.yaml", "circuit: {qubits: 1}\npipeline: [{name: remove_redundancies}]\n")
	_, err = LoadScenario(p)
	require.ErrorContains(t, err, "name is required")

	p = write("nopipe.yaml", "name: x\ncircuit: {qubits: 1}\n")
	_, err = LoadScenario(p)
	require.ErrorContains(t, err, "pipeline is empty")
}

func TestScenarioOutputSemantics(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/01_swap_to_permutation.yaml")
	require.NoError(t, err)

	res, err := Run(s)
	require.NoError(t, err)

	// The input circuit must survive untouched next to the output.
	require.Len(t, res.Input.Cmds, 3)
	require.Equal(t, circuit.CX, res.Input.Cmds[0].Op)
	require.True(t, res.Input.PermIsIdentity())
}
