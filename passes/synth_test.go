package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/testutil"
	"github.com/rydberg-labs/circopt/transform"
)

// twoQubitWires collects the wire pairs of every multi-qubit gate, used
// to check synthesis never reroutes connectivity.
func twoQubitWires(c *circuit.Circuit) [][]int {
	var out [][]int
	for _, cmd := range c.Cmds {
		if cmd.Op.IsGate() && len(cmd.Qubits) == 2 {
			out = append(out, append([]int(nil), cmd.Qubits...))
		}
	}
	return out
}

func TestSynthesiseHQS(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := SynthesiseHQS().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.RequireAlphabet(t, c, circuit.HQSAlphabet)
	assert.Equal(t, 1, c.OpCount(circuit.ZZMax))
	for _, w := range twoQubitWires(c) {
		assert.Equal(t, []int{0, 1}, w)
	}
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestSynthesiseHQSRequiresCXInput(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CZ, []int{0, 1})
	orig := c.Copy()

	changed, err := SynthesiseHQS().Apply(c)
	assert.False(t, changed)
	require.Error(t, err)
	assert.True(t, transform.IsPreconditionError(err))
	assert.True(t, c.Equal(orig))
}

func TestSynthesiseOQC(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.T, []int{1})
	orig := c.Copy()

	changed, err := SynthesiseOQC().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.RequireAlphabet(t, c, circuit.OQCAlphabet)
	assert.Equal(t, 1, c.OpCount(circuit.ECR))
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestSynthesiseUMD(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.Rz, []int{0}, 0.7)
	orig := c.Copy()

	changed, err := SynthesiseUMD().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.RequireAlphabet(t, c, circuit.UMDAlphabet)
	assert.Equal(t, 1, c.OpCount(circuit.XXPhase))
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestSynthesiseTKET(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CZ, []int{0, 1})
	c.Add(circuit.Ry, []int{0}, 0.4)
	c.Add(circuit.SWAP, []int{0, 1})
	orig := c.Copy()

	changed, err := SynthesiseTKET().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.RequireAlphabet(t, c, circuit.CXTK1)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestSynthesiseTK(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.H, []int{1})
	c.Add(circuit.ZZPhase, []int{0, 1}, 0.3)
	orig := c.Copy()

	changed, err := SynthesiseTK().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.RequireAlphabet(t, c, circuit.TK2TK1)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestSynthesisExpandsGadgets(t *testing.T) {
	c := circuit.New(2)
	c.AddPauliExp(circuit.PauliString{circuit.PauliX, circuit.PauliY}, 0.25, []int{0, 1})
	orig := c.Copy()

	changed, err := SynthesiseTKET().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	testutil.RequireAlphabet(t, c, circuit.CXTK1)
	assert.Equal(t, 0, c.OpCount(circuit.PauliExpBox))
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestSynthesisKeepsNonGateOps(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.Measure, []int{0})

	_, err := SynthesiseTKET().Apply(c)
	require.NoError(t, err)
	assert.Equal(t, 1, c.OpCount(circuit.Measure))
}

func TestSynthesiseRejectsCustom(t *testing.T) {
	c := circuit.New(1)
	c.Append(circuit.Command{Op: circuit.Custom, Qubits: []int{0}})
	_, err := SynthesiseTKET().Apply(c)
	require.Error(t, err)
	assert.True(t, transform.IsPreconditionError(err))
}

func TestSynthesiseRandom(t *testing.T) {
	c := testutil.RandomCircuit(5, 3, 30)
	orig := c.Copy()

	_, err := SynthesiseHQS().Apply(c)
	require.NoError(t, err)
	testutil.RequireAlphabet(t, c, circuit.HQSAlphabet)
	assert.Equal(t, orig.TwoQubitCount(), c.TwoQubitCount())
	testutil.RequireUnitaryEqual(t, orig, c, 1e-7)
}
