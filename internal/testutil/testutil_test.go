package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
)

func TestRandomCircuitDeterministic(t *testing.T) {
	a := RandomCircuit(7, 3, 20)
	b := RandomCircuit(7, 3, 20)
	require.True(t, a.Equal(b))

	c := RandomCircuit(8, 3, 20)
	assert.False(t, a.Equal(c))
}

func TestRandomCliffordCircuitAlphabet(t *testing.T) {
	c := RandomCliffordCircuit(3, 4, 30)
	gs := circuit.NewGateSet(circuit.CX, circuit.H, circuit.S, circuit.Sdg, circuit.X, circuit.Z)
	_, outside := c.FirstOutsideAlphabet(gs)
	assert.False(t, outside)
}
