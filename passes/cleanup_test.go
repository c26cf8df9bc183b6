package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/testutil"
)

func applyCleanup(t *testing.T, c *circuit.Circuit) bool {
	t.Helper()
	changed, err := RemoveRedundancies().Apply(c)
	require.NoError(t, err)
	return changed
}

func TestCleanupDropsTrivialRotations(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.Rz, []int{0}, 0)
	c.Add(circuit.Rx, []int{1}, 2)
	c.Add(circuit.ZZPhase, []int{0, 1}, 0)
	c.Add(circuit.TK2, []int{0, 1}, 0, 0, 0)
	c.Add(circuit.Noop, []int{0})

	assert.True(t, applyCleanup(t, c))
	assert.Equal(t, 0, c.GateCount())
}

func TestCleanupCancelsInversePairs(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.H, []int{0})
	c.Add(circuit.S, []int{1})
	c.Add(circuit.Sdg, []int{1})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.T, []int{0})
	c.Add(circuit.Tdg, []int{0})
	c.Add(circuit.SX, []int{1})
	c.Add(circuit.SXdg, []int{1})

	assert.True(t, applyCleanup(t, c))
	assert.Equal(t, 0, c.GateCount())
}

func TestCleanupCascades(t *testing.T) {
	// Removing the inner pair exposes the outer pair.
	c := circuit.New(1)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.X, []int{0})
	c.Add(circuit.X, []int{0})
	c.Add(circuit.H, []int{0})

	assert.True(t, applyCleanup(t, c))
	assert.Equal(t, 0, c.GateCount())
}

func TestCleanupMergesRotations(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.Rz, []int{0}, 0.125)
	c.Add(circuit.Rz, []int{0}, 0.125)
	orig := c.Copy()

	assert.True(t, applyCleanup(t, c))
	require.Equal(t, 1, c.GateCount())
	assert.Equal(t, circuit.Rz, c.Cmds[0].Op)
	assert.InDelta(t, 0.25, c.Cmds[0].Params[0], 1e-12)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-9)
}

func TestCleanupMergesOppositeRotations(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.ZZPhase, []int{0, 1}, 0.7)
	c.Add(circuit.ZZPhase, []int{0, 1}, -0.7)
	assert.True(t, applyCleanup(t, c))
	assert.Equal(t, 0, c.GateCount())
}

func TestCleanupMergesTK1(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.TK1, []int{0}, 0.1, 0.2, 0.3)
	c.Add(circuit.TK1, []int{0}, 0.4, 0.5, 0.6)
	orig := c.Copy()

	assert.True(t, applyCleanup(t, c))
	require.Equal(t, 1, c.GateCount())
	assert.Equal(t, circuit.TK1, c.Cmds[0].Op)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestCleanupPhasedXStaysPhasedX(t *testing.T) {
	// Two PhasedX with the same axis merge into one PhasedX; an
	// incompatible pair is left alone rather than degraded to TK1.
	c := circuit.New(1)
	c.Add(circuit.PhasedX, []int{0}, 0.3, 0.2)
	c.Add(circuit.PhasedX, []int{0}, 0.4, 0.2)
	orig := c.Copy()

	changed := applyCleanup(t, c)
	if changed {
		testutil.RequireAlphabet(t, c, circuit.NewGateSet(circuit.PhasedX, circuit.Rz))
		testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
	}

	c2 := circuit.New(1)
	c2.Add(circuit.PhasedX, []int{0}, 0.3, 0.2)
	c2.Add(circuit.PhasedX, []int{0}, 0.4, 0.9)
	orig2 := c2.Copy()
	if applyCleanup(t, c2) {
		testutil.RequireUnitaryEqual(t, orig2, c2, 1e-8)
	} else {
		assert.True(t, c2.Equal(orig2))
	}
}

func TestCleanupRespectsInterveningGates(t *testing.T) {
	// The CX touches wire 0, so the H pair around it is not adjacent.
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.H, []int{0})
	orig := c.Copy()

	assert.False(t, applyCleanup(t, c))
	assert.True(t, c.Equal(orig))
}

func TestCleanupWireOrderMatters(t *testing.T) {
	// CX(0,1) and CX(1,0) are different gates and must not cancel.
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{1, 0})
	orig := c.Copy()

	assert.False(t, applyCleanup(t, c))
	assert.True(t, c.Equal(orig))
}

func TestCleanupZeroGadgetRemoved(t *testing.T) {
	c := circuit.New(2)
	c.AddPauliExp(circuit.PauliString{circuit.PauliZ, circuit.PauliZ}, 0, []int{0, 1})
	c.AddPauliExp(circuit.PauliString{circuit.PauliI, circuit.PauliI}, 0.4, []int{0, 1})
	assert.True(t, applyCleanup(t, c))
	assert.Equal(t, 0, c.GateCount())
}

func TestCleanupRandomUnitaryPreserved(t *testing.T) {
	c := testutil.RandomCircuit(3, 3, 40)
	orig := c.Copy()
	applyCleanup(t, c)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}
