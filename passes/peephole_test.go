package passes

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/testutil"
)

func TestPeepholeCancelsCXPair(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{0, 1})

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, c.GateCount())
	assert.True(t, c.PermIsIdentity())
}

func TestPeepholeSwapToPermutation(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{1, 0})
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, c.GateCount())
	assert.Equal(t, []int{1, 0}, c.Perm)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestPeepholeSwapDisabled(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{1, 0})
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q(WithAllowSwaps(false)).Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, c.Equal(orig))
}

func TestPeepholeReducesRedundantEntanglers(t *testing.T) {
	// CX, CZ-as-CX sandwich, CX around a Z rotation reduces to two
	// entanglers through the Cartan decomposition.
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.Rz, []int{1}, 0.3)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.Rz, []int{1}, 0.2)
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.LessOrEqual(t, c.TwoQubitCount(), 2)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestPeepholeSquashesSingleWireRuns(t *testing.T) {
	c := circuit.New(1)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.T, []int{0})
	c.Add(circuit.H, []int{0})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Equal(t, 1, c.GateCount())
	assert.Equal(t, circuit.TK1, c.Cmds[0].Op)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestPeepholeNormalizesForeignGates(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CZ, []int{0, 1})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, c.OpCount(circuit.CZ))
	assert.Equal(t, 1, c.OpCount(circuit.CX))
	testutil.RequireUnitaryEqual(t, orig, c, 1e-8)
}

func TestPeepholeFencesAroundBarriers(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.Barrier, []int{})
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, c.Equal(orig))
}

func TestPeepholeLeavesMeasuredWiresIntact(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.Measure, []int{1})
	c.Add(circuit.CX, []int{0, 1})
	orig := c.Copy()

	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, c.Equal(orig))
}

func TestPeepholeIdempotent(t *testing.T) {
	c := testutil.RandomCircuit(7, 3, 30)
	_, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)

	after := c.Copy()
	changed, err := PeepholeOptimise2Q().Apply(c)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, c.Equal(after))
}

func TestFullPeepholeOptimiseRandom(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			c := testutil.RandomCircuit(seed, 3, 40)
			orig := c.Copy()

			_, err := FullPeepholeOptimise().Apply(c)
			require.NoError(t, err)
			testutil.RequireAlphabet(t, c, circuit.CXTK1)
			assert.LessOrEqual(t, c.TwoQubitCount(), orig.TwoQubitCount())
			testutil.RequireUnitaryEqual(t, orig, c, 1e-7)
		})
	}
}

func TestFullPeepholeOptimiseDenseTwoQubit(t *testing.T) {
	// Any two-qubit unitary admits a three-CX realization, so a dense
	// pair of wires never needs more than three entanglers afterwards.
	for seed := int64(20); seed < 30; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			c := testutil.RandomCircuit(seed, 2, 30)
			orig := c.Copy()

			_, err := FullPeepholeOptimise().Apply(c)
			require.NoError(t, err)
			assert.LessOrEqual(t, c.TwoQubitCount(), 3)
			testutil.RequireUnitaryEqual(t, orig, c, 1e-7)
		})
	}
}

func TestFullPeepholeOptimiseTK2Target(t *testing.T) {
	c := testutil.RandomCircuit(11, 2, 25)
	orig := c.Copy()

	_, err := FullPeepholeOptimise(WithTarget2Q(circuit.TK2)).Apply(c)
	require.NoError(t, err)
	testutil.RequireAlphabet(t, c, circuit.TK2TK1)
	testutil.RequireUnitaryEqual(t, orig, c, 1e-7)
}
