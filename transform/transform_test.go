package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
)

// appendH is a toy transform appending one H until the circuit holds n
// gates.
func appendH(n int) Transform {
	return New("append_h", func(c *circuit.Circuit) (bool, error) {
		if len(c.Cmds) >= n {
			return false, nil
		}
		c.Add(circuit.H, []int{0})
		return true, nil
	})
}

func TestApplyReportsUnchanged(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.H, []int{0})

	changed, err := appendH(1).Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, len(c.Cmds))
}

func TestExpectsContract(t *testing.T) {
	tr := New("needs_cx_tk1", func(c *circuit.Circuit) (bool, error) {
		c.Cmds = nil
		return true, nil
	}, WithExpects(AlphabetContract(circuit.CXTK1)))

	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.H, []int{0})

	before := c.Copy()
	changed, err := tr.Apply(c)
	assert.False(t, changed)
	require.Error(t, err)
	assert.True(t, IsPreconditionError(err))

	var pe *PassError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "needs_cx_tk1", pe.Pass)
	assert.Equal(t, circuit.H, pe.Op)

	// The circuit is untouched on a precondition failure.
	assert.True(t, c.Equal(before))
}

func TestExpectsIgnoresNonGates(t *testing.T) {
	tr := New("nop", func(c *circuit.Circuit) (bool, error) {
		return false, nil
	}, WithExpects(AlphabetContract(circuit.CXTK1)))

	c := circuit.New(1)
	c.Add(circuit.Measure, []int{0})
	_, err := tr.Apply(c)
	assert.NoError(t, err)
}

func TestProducesContract(t *testing.T) {
	tr := New("bad_pass", func(c *circuit.Circuit) (bool, error) {
		c.Add(circuit.H, []int{0})
		return true, nil
	}, WithProduces(circuit.CXTK1))

	c := circuit.New(1)
	_, err := tr.Apply(c)
	require.Error(t, err)
	assert.True(t, IsPreconditionError(err))
}

func TestCXPlusSingleQubitContract(t *testing.T) {
	contract := CXPlusSingleQubit()
	assert.True(t, contract.Allows(circuit.Command{Op: circuit.CX}))
	assert.True(t, contract.Allows(circuit.Command{Op: circuit.TK1}))
	assert.True(t, contract.Allows(circuit.Command{Op: circuit.H}))
	assert.False(t, contract.Allows(circuit.Command{Op: circuit.CZ}))
	assert.False(t, contract.Allows(circuit.Command{Op: circuit.Custom}))
}

func TestSequence(t *testing.T) {
	c := circuit.New(1)
	seq := Sequence(appendH(1), appendH(2))
	changed, err := seq.Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, len(c.Cmds))

	// Both constituents are now at fixpoint.
	changed, err = seq.Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSequenceStopsOnError(t *testing.T) {
	boom := New("boom", func(c *circuit.Circuit) (bool, error) {
		return false, NewDecompositionError("boom", "w")
	})
	c := circuit.New(1)
	seq := Sequence(appendH(1), boom, appendH(5))
	changed, err := seq.Apply(c)
	assert.True(t, changed)
	require.Error(t, err)
	assert.True(t, IsDecompositionError(err))
	assert.Equal(t, 1, len(c.Cmds))
}

func TestThen(t *testing.T) {
	c := circuit.New(1)
	changed, err := appendH(1).Then(appendH(2)).Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, len(c.Cmds))
}

func TestRepeatToFixpoint(t *testing.T) {
	c := circuit.New(1)
	changed, err := RepeatToFixpoint(appendH(5)).Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 5, len(c.Cmds))

	changed, err = RepeatToFixpoint(appendH(5)).Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRepeatToFixpointBudget(t *testing.T) {
	always := New("always", func(c *circuit.Circuit) (bool, error) {
		return true, nil
	})
	c := circuit.New(1)
	_, err := RepeatToFixpoint(always).Apply(c)
	require.Error(t, err)
	assert.True(t, IsNonTerminationError(err))
}

func TestTryWithCriterionAccepts(t *testing.T) {
	c := circuit.New(1)
	accept := func(before, after *circuit.Circuit) bool { return true }
	changed, err := TryWithCriterion(appendH(1), accept).Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, len(c.Cmds))
}

func TestTryWithCriterionRejects(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.H, []int{0})

	reject := func(before, after *circuit.Circuit) bool { return false }
	grow := New("grow", func(cc *circuit.Circuit) (bool, error) {
		cc.Add(circuit.H, []int{0})
		cc.Add(circuit.H, []int{0})
		return true, nil
	})
	before := c.Copy()
	changed, err := TryWithCriterion(grow, reject).Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, c.Equal(before))
}

func TestTryWithCriterionPropagatesError(t *testing.T) {
	boom := New("boom", func(c *circuit.Circuit) (bool, error) {
		c.Add(circuit.H, []int{0})
		return true, NewUnsupportedCircuitError("boom", "nope")
	})
	c := circuit.New(1)
	changed, err := TryWithCriterion(boom, TwoQubitGateCountNonIncreasing).Apply(c)
	assert.False(t, changed)
	require.Error(t, err)
	// The scoped copy is discarded, so the failed attempt left no trace.
	assert.Equal(t, 0, len(c.Cmds))
}

func TestTwoQubitGateCountNonIncreasing(t *testing.T) {
	a := circuit.New(2)
	a.Add(circuit.CX, []int{0, 1})
	a.Add(circuit.CX, []int{0, 1})

	fewer := circuit.New(2)
	fewer.Add(circuit.CX, []int{0, 1})
	assert.True(t, TwoQubitGateCountNonIncreasing(a, fewer))
	assert.True(t, TwoQubitGateCountNonIncreasing(a, a.Copy()))

	more := circuit.New(2)
	more.Add(circuit.CX, []int{0, 1})
	more.Add(circuit.CX, []int{0, 1})
	more.Add(circuit.CZ, []int{0, 1})
	assert.False(t, TwoQubitGateCountNonIncreasing(a, more))
}

func TestPassErrorPredicates(t *testing.T) {
	assert.True(t, IsPreconditionError(NewPreconditionError("p", circuit.H, "{CX}")))
	assert.True(t, IsUnsupportedCircuitError(NewUnsupportedCircuitError("p", "m")))
	assert.True(t, IsDecompositionError(NewDecompositionError("p", "w")))
	assert.True(t, IsNonTerminationError(NewNonTerminationError("p", 3)))
	assert.False(t, IsPreconditionError(errors.New("other")))
	assert.False(t, IsPreconditionError(nil))
}

func TestPassErrorMessage(t *testing.T) {
	err := NewPreconditionError("clifford_simp", circuit.Custom, "{CX, any single-qubit gate}")
	msg := err.Error()
	assert.Contains(t, msg, "PRECONDITION_VIOLATED")
	assert.Contains(t, msg, "clifford_simp")
	assert.Contains(t, msg, "Custom")
}
