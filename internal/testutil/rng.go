// Package testutil holds helpers shared by the optimizer's test suites:
// deterministic random circuit generation and unitary equivalence
// assertions.
package testutil

import (
	"math/rand"

	"github.com/rydberg-labs/circopt/circuit"
)

// RandomCircuit builds a reproducible pseudo-random circuit over the
// {CX, H, S, T, Rz, Rx} alphabet. The same seed always yields the same
// circuit, so failures reproduce exactly.
func RandomCircuit(seed int64, qubits, depth int) *circuit.Circuit {
	rng := rand.New(rand.NewSource(seed))
	c := circuit.New(qubits)
	for i := 0; i < depth; i++ {
		switch rng.Intn(6) {
		case 0:
			a, b, ok := randPair(rng, qubits)
			if !ok {
				c.Add(circuit.H, []int{rng.Intn(qubits)})
				continue
			}
			c.Add(circuit.CX, []int{a, b})
		case 1:
			c.Add(circuit.H, []int{rng.Intn(qubits)})
		case 2:
			c.Add(circuit.S, []int{rng.Intn(qubits)})
		case 3:
			c.Add(circuit.T, []int{rng.Intn(qubits)})
		case 4:
			c.Add(circuit.Rz, []int{rng.Intn(qubits)}, randAngle(rng))
		default:
			c.Add(circuit.Rx, []int{rng.Intn(qubits)}, randAngle(rng))
		}
	}
	return c
}

// RandomCliffordCircuit builds a reproducible pseudo-random circuit over
// the Clifford alphabet {CX, H, S, Sdg, X, Z}.
func RandomCliffordCircuit(seed int64, qubits, depth int) *circuit.Circuit {
	rng := rand.New(rand.NewSource(seed))
	c := circuit.New(qubits)
	ops := []circuit.OpType{circuit.H, circuit.S, circuit.Sdg, circuit.X, circuit.Z}
	for i := 0; i < depth; i++ {
		if rng.Intn(3) == 0 {
			if a, b, ok := randPair(rng, qubits); ok {
				c.Add(circuit.CX, []int{a, b})
				continue
			}
		}
		c.Add(ops[rng.Intn(len(ops))], []int{rng.Intn(qubits)})
	}
	return c
}

func randPair(rng *rand.Rand, qubits int) (int, int, bool) {
	if qubits < 2 {
		return 0, 0, false
	}
	a := rng.Intn(qubits)
	b := rng.Intn(qubits - 1)
	if b >= a {
		b++
	}
	return a, b, true
}

// randAngle draws a half-turn angle in (-1, 1], quantized to 1/16 turns
// so merged rotations land on exactly representable sums.
func randAngle(rng *rand.Rand) float64 {
	return float64(rng.Intn(32)-15) / 16.0
}
