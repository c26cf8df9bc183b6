package tableau

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/matrix"
	"github.com/rydberg-labs/circopt/internal/testutil"
)

const tol = 1e-10

func TestNewIsIdentity(t *testing.T) {
	tb := New(3)
	assert.True(t, tb.IsIdentity())
	tb.H(0)
	assert.False(t, tb.IsIdentity())
	tb.H(0)
	assert.True(t, tb.IsIdentity())
}

func TestSelfInverses(t *testing.T) {
	tb := New(2)
	tb.CX(0, 1)
	tb.CX(0, 1)
	assert.True(t, tb.IsIdentity())

	tb.CZ(0, 1)
	tb.CZ(0, 1)
	assert.True(t, tb.IsIdentity())

	tb.SWAP(0, 1)
	tb.SWAP(0, 1)
	assert.True(t, tb.IsIdentity())

	tb.S(0)
	tb.Sdg(0)
	assert.True(t, tb.IsIdentity())

	tb.XGate(1)
	tb.XGate(1)
	assert.True(t, tb.IsIdentity())

	tb.ZGate(1)
	tb.ZGate(1)
	assert.True(t, tb.IsIdentity())
}

func TestIsCliffordCommand(t *testing.T) {
	assert.True(t, IsCliffordCommand(circuit.Command{Op: circuit.H, Qubits: []int{0}}, tol))
	assert.True(t, IsCliffordCommand(circuit.Command{Op: circuit.CX, Qubits: []int{0, 1}}, tol))
	assert.True(t, IsCliffordCommand(circuit.Command{Op: circuit.Rz, Qubits: []int{0}, Params: []float64{0.5}}, tol))
	assert.True(t, IsCliffordCommand(circuit.Command{Op: circuit.ZZPhase, Qubits: []int{0, 1}, Params: []float64{1.5}}, tol))

	assert.False(t, IsCliffordCommand(circuit.Command{Op: circuit.T, Qubits: []int{0}}, tol))
	assert.False(t, IsCliffordCommand(circuit.Command{Op: circuit.Rz, Qubits: []int{0}, Params: []float64{0.25}}, tol))
	assert.False(t, IsCliffordCommand(circuit.Command{Op: circuit.Measure, Qubits: []int{0}}, tol))
}

func TestAbsorbRejectsNonClifford(t *testing.T) {
	tb := New(1)
	require.False(t, tb.Absorb(circuit.Command{Op: circuit.T, Qubits: []int{0}}, tol))
	assert.True(t, tb.IsIdentity())
}

func TestSynthesizeRoundTrip(t *testing.T) {
	for seed := int64(0); seed < 8; seed++ {
		seed := seed
		t.Run(fmt.Sprintf("seed%d", seed), func(t *testing.T) {
			c := testutil.RandomCliffordCircuit(seed, 3, 25)

			tb := New(c.NumQubits)
			for _, cmd := range c.Cmds {
				require.True(t, tb.Absorb(cmd, tol), "absorbing %s", cmd)
			}

			cmds, err := Synthesize(tb)
			require.NoError(t, err)

			synth := circuit.New(c.NumQubits)
			for _, cmd := range cmds {
				synth.Append(cmd)
			}

			want, err := c.Unitary()
			require.NoError(t, err)
			got, err := synth.Unitary()
			require.NoError(t, err)
			assert.Less(t, matrix.PhaseDistance(want, got), 1e-9)
		})
	}
}

func TestSynthesizeAlphabet(t *testing.T) {
	allowed := circuit.NewGateSet(circuit.H, circuit.S, circuit.Sdg, circuit.X, circuit.Z, circuit.CX)
	c := testutil.RandomCliffordCircuit(42, 4, 40)
	tb := New(c.NumQubits)
	for _, cmd := range c.Cmds {
		require.True(t, tb.Absorb(cmd, tol))
	}
	cmds, err := Synthesize(tb)
	require.NoError(t, err)
	for _, cmd := range cmds {
		assert.True(t, allowed.Contains(cmd.Op), "unexpected op %s", cmd.Op)
	}
}

func TestSynthesizeIdentityIsEmpty(t *testing.T) {
	cmds, err := Synthesize(New(3))
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestSynthesizeDeterministic(t *testing.T) {
	build := func() []circuit.Command {
		tb := New(3)
		tb.H(0)
		tb.CX(0, 1)
		tb.S(2)
		tb.CZ(1, 2)
		cmds, err := Synthesize(tb)
		require.NoError(t, err)
		return cmds
	}
	a := build()
	b := build()
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.True(t, a[i].Equal(b[i]))
	}
}
