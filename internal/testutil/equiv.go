package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/matrix"
)

// RequireUnitaryEqual asserts that two circuits implement the same
// unitary up to global phase, within tol.
func RequireUnitaryEqual(t *testing.T, want, got *circuit.Circuit, tol float64) {
	t.Helper()
	wu, err := want.Unitary()
	require.NoError(t, err)
	gu, err := got.Unitary()
	require.NoError(t, err)
	d := matrix.PhaseDistance(wu, gu)
	require.LessOrEqual(t, d, tol,
		"unitaries differ by phase distance %.3g\nwant circuit:\n%sgot circuit:\n%s", d, want, got)
}

// RequireAlphabet asserts that every gate of the circuit belongs to the
// given alphabet.
func RequireAlphabet(t *testing.T, c *circuit.Circuit, gs circuit.GateSet) {
	t.Helper()
	cmd, outside := c.FirstOutsideAlphabet(gs)
	require.False(t, outside, "gate %s outside alphabet %s", cmd.Op, gs)
}
