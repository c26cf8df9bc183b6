package passes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/testutil"
	"github.com/rydberg-labs/circopt/transform"
)

func TestZXOptimisationPreservesUnitary(t *testing.T) {
	cases := []func() *circuit.Circuit{
		func() *circuit.Circuit {
			c := circuit.New(2)
			c.Add(circuit.H, []int{0})
			c.Add(circuit.CX, []int{0, 1})
			return c
		},
		func() *circuit.Circuit {
			c := circuit.New(2)
			c.Add(circuit.H, []int{0})
			c.Add(circuit.CX, []int{0, 1})
			c.Add(circuit.T, []int{1})
			c.Add(circuit.CX, []int{0, 1})
			c.Add(circuit.H, []int{0})
			return c
		},
		func() *circuit.Circuit {
			c := circuit.New(3)
			c.Add(circuit.Rz, []int{0}, 0.25)
			c.Add(circuit.CX, []int{0, 1})
			c.Add(circuit.CZ, []int{1, 2})
			c.Add(circuit.Rx, []int{2}, 0.5)
			return c
		},
	}
	for i, mk := range cases {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			c := mk()
			orig := c.Copy()
			_, err := ZXGraphlikeOptimisation().Apply(c)
			require.NoError(t, err)
			testutil.RequireAlphabet(t, c, circuit.ZXReferenceAlphabet)
			testutil.RequireUnitaryEqual(t, orig, c, 1e-6)
		})
	}
}

func TestZXRejectsBoundaryOps(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.Measure, []int{0})
	orig := c.Copy()

	changed, err := ZXGraphlikeOptimisation().Apply(c)
	assert.False(t, changed)
	require.Error(t, err)
	assert.True(t, transform.IsUnsupportedCircuitError(err))
	assert.True(t, c.Equal(orig))
}

func TestZXRejectsBarrier(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.Barrier, []int{})
	_, err := ZXGraphlikeOptimisation().Apply(c)
	require.Error(t, err)
	assert.True(t, transform.IsUnsupportedCircuitError(err))
}

func TestTryZXRejectionRestoresOriginal(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.T, []int{1})
	orig := c.Copy()

	never := func(before, after *circuit.Circuit) bool { return false }
	changed, err := TryZXGraphlikeOptimisation(never).Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	// Rejection leaves the input exactly as written, including its
	// original gate alphabet.
	assert.True(t, c.Equal(orig))
}

func TestTryZXDefaultCriterion(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := TryZXGraphlikeOptimisation(nil).Apply(c)
	require.NoError(t, err)
	if changed {
		assert.LessOrEqual(t, c.TwoQubitCount(), orig.TwoQubitCount())
		testutil.RequireUnitaryEqual(t, orig, c, 1e-6)
	} else {
		assert.True(t, c.Equal(orig))
	}
}
