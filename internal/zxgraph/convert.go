package zxgraph

import (
	"fmt"

	"github.com/rydberg-labs/circopt/circuit"
)

// FromCircuit translates a circuit over the ZX reference alphabet into a
// graphlike diagram. Hadamards become pending edge-type toggles, phase
// gates become spiders, CZ becomes a Hadamard edge, and CX is CZ with
// the target conjugated by H. The implicit output permutation is folded
// into the output boundary wiring.
func FromCircuit(c *circuit.Circuit) (*Graph, error) {
	g := NewGraph()
	n := c.NumQubits

	// frontier[q] is the last vertex on wire q; pending[q] records an odd
	// number of Hadamards since then.
	frontier := make([]int, n)
	pending := make([]bool, n)
	g.Inputs = make([]int, n)
	for q := 0; q < n; q++ {
		v := g.AddVertex(Boundary, 0)
		g.Inputs[q] = v
		frontier[q] = v
	}

	spider := func(q int, phase float64) int {
		v := g.AddVertex(Spider, phase)
		t := EdgeSimple
		if pending[q] {
			t = EdgeHadamard
			pending[q] = false
		}
		g.SetEdge(frontier[q], v, t)
		frontier[q] = v
		return v
	}
	// anchor guarantees a spider endpoint for a CZ leg; reusing the
	// frontier spider when the wire has no pending Hadamard keeps the
	// diagram small, fusion would merge the duplicate anyway.
	anchor := func(q int) int {
		if !pending[q] && g.Type(frontier[q]) == Spider {
			return frontier[q]
		}
		return spider(q, 0)
	}

	for _, cmd := range c.Cmds {
		switch cmd.Op {
		case circuit.Noop, circuit.Barrier:
		case circuit.H:
			pending[cmd.Qubits[0]] = !pending[cmd.Qubits[0]]
		case circuit.Z:
			spider(cmd.Qubits[0], 1)
		case circuit.S:
			spider(cmd.Qubits[0], 0.5)
		case circuit.Sdg:
			spider(cmd.Qubits[0], 1.5)
		case circuit.T:
			spider(cmd.Qubits[0], 0.25)
		case circuit.Tdg:
			spider(cmd.Qubits[0], 1.75)
		case circuit.Rz:
			spider(cmd.Qubits[0], cmd.Params[0])
		case circuit.X:
			q := cmd.Qubits[0]
			pending[q] = !pending[q]
			spider(q, 1)
			pending[q] = !pending[q]
		case circuit.Rx:
			q := cmd.Qubits[0]
			pending[q] = !pending[q]
			spider(q, cmd.Params[0])
			pending[q] = !pending[q]
		case circuit.CZ:
			a, b := cmd.Qubits[0], cmd.Qubits[1]
			va, vb := anchor(a), anchor(b)
			addCZEdge(g, va, vb)
		case circuit.CX:
			ctrl, tgt := cmd.Qubits[0], cmd.Qubits[1]
			pending[tgt] = !pending[tgt]
			vc, vt := anchor(ctrl), anchor(tgt)
			addCZEdge(g, vc, vt)
			pending[tgt] = !pending[tgt]
		default:
			return nil, fmt.Errorf("zxgraph: %s is outside the reference alphabet", cmd.Op)
		}
	}

	g.Outputs = make([]int, n)
	for q := 0; q < n; q++ {
		v := g.AddVertex(Boundary, 0)
		// The logical qubit on wire q exits on wire Perm[q].
		g.Outputs[c.Perm[q]] = v
		t := EdgeSimple
		if pending[q] {
			t = EdgeHadamard
		}
		g.SetEdge(frontier[q], v, t)
	}
	return g, nil
}

// addCZEdge inserts a Hadamard edge between two spiders, resolving a
// parallel edge by the Hopf law (two Hadamard edges cancel) or, against
// a simple edge, by fusing through it: a CZ between fused spiders is a
// Hadamard self loop, which contributes a pi phase.
func addCZEdge(g *Graph, a, b int) {
	if a == b {
		// Both legs on one spider: self Hadamard loop.
		g.AddPhase(a, 1)
		return
	}
	if t, ok := g.EdgeType(a, b); ok {
		if t == EdgeHadamard {
			g.RemoveEdge(a, b)
			return
		}
		g.AddPhase(a, 1)
		return
	}
	g.SetEdge(a, b, EdgeHadamard)
}
