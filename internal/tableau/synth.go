package tableau

import (
	"fmt"

	"github.com/rydberg-labs/circopt/circuit"
)

// Synthesize emits a circuit over {H, S, Sdg, X, Z, CX} realizing the
// tableau's conjugation, up to global phase. The construction is
// deterministic, so equal tableaus always yield the same circuit.
//
// It reduces a working copy to the identity with recorded generator
// steps; the inverted, reversed record is the answer.
func Synthesize(t *Tableau) ([]circuit.Command, error) {
	w := t.Copy()
	var rec []step

	h := func(q int) { w.H(q); rec = append(rec, step{stH, q, 0}) }
	s := func(q int) { w.S(q); rec = append(rec, step{stS, q, 0}) }
	x := func(q int) { w.XGate(q); rec = append(rec, step{stX, q, 0}) }
	z := func(q int) { w.ZGate(q); rec = append(rec, step{stZ, q, 0}) }
	cx := func(a, b int) { w.CX(a, b); rec = append(rec, step{stCX, a, b}) }
	cz := func(a, b int) { h(b); cx(a, b); h(b) }

	n := t.N
	for i := 0; i < n; i++ {
		si, di := n+i, i

		// Stabilizer row i -> +Z_i.
		hasX := false
		for j := i; j < n; j++ {
			if w.X[si][j] {
				hasX = true
				break
			}
		}
		if hasX {
			if !w.X[si][i] {
				for j := i + 1; j < n; j++ {
					if w.X[si][j] {
						cx(j, i)
						break
					}
				}
			}
			for j := i + 1; j < n; j++ {
				if w.X[si][j] {
					cx(i, j)
				}
			}
			if w.Z[si][i] {
				s(i)
			}
			for j := i + 1; j < n; j++ {
				if w.Z[si][j] {
					cz(i, j)
				}
			}
			h(i)
		} else {
			if !w.Z[si][i] {
				for j := i + 1; j < n; j++ {
					if w.Z[si][j] {
						cx(i, j)
						break
					}
				}
			}
			for j := i + 1; j < n; j++ {
				if w.Z[si][j] {
					cx(j, i)
				}
			}
		}
		if !w.Z[si][i] || w.X[si][i] {
			return nil, fmt.Errorf("tableau: stabilizer row %d did not reduce", i)
		}
		if w.Sign[si] {
			x(i)
		}

		// Destabilizer row i -> +X_i, using only Z_i-preserving gates.
		if !w.X[di][i] {
			return nil, fmt.Errorf("tableau: destabilizer row %d lost anticommutation", i)
		}
		for j := i + 1; j < n; j++ {
			if w.X[di][j] {
				cx(i, j)
			}
		}
		for j := i + 1; j < n; j++ {
			if w.Z[di][j] {
				cz(i, j)
			}
		}
		if w.Z[di][i] {
			s(i)
		}
		if w.Sign[di] {
			z(i)
		}
	}
	if !w.IsIdentity() {
		return nil, fmt.Errorf("tableau: reduction did not reach the identity")
	}

	// rec turned t into the identity, so t is the reversed inverse record.
	cmds := make([]circuit.Command, 0, len(rec))
	for i := len(rec) - 1; i >= 0; i-- {
		st := rec[i]
		switch st.op {
		case stH:
			cmds = append(cmds, circuit.Command{Op: circuit.H, Qubits: []int{st.a}})
		case stS:
			cmds = append(cmds, circuit.Command{Op: circuit.Sdg, Qubits: []int{st.a}})
		case stX:
			cmds = append(cmds, circuit.Command{Op: circuit.X, Qubits: []int{st.a}})
		case stZ:
			cmds = append(cmds, circuit.Command{Op: circuit.Z, Qubits: []int{st.a}})
		case stCX:
			cmds = append(cmds, circuit.Command{Op: circuit.CX, Qubits: []int{st.a, st.b}})
		}
	}
	return cancelAdjacent(cmds), nil
}

func inverseOf(a, b circuit.Command) bool {
	if len(a.Qubits) != len(b.Qubits) {
		return false
	}
	for i := range a.Qubits {
		if a.Qubits[i] != b.Qubits[i] {
			return false
		}
	}
	switch {
	case a.Op == b.Op:
		switch a.Op {
		case circuit.H, circuit.X, circuit.Z, circuit.CX:
			return true
		}
	case a.Op == circuit.S && b.Op == circuit.Sdg,
		a.Op == circuit.Sdg && b.Op == circuit.S:
		return true
	}
	return false
}

// cancelAdjacent removes neighbouring inverse pairs on the same wires,
// iterating until stable. This cleans up the H pairs the CZ composites
// leave behind.
func cancelAdjacent(cmds []circuit.Command) []circuit.Command {
	for {
		removed := false
		out := cmds[:0:0]
		// last[q] indexes the most recent surviving command touching q.
		last := map[int]int{}
		for _, cmd := range cmds {
			prev := -1
			same := true
			for k, q := range cmd.Qubits {
				idx, ok := last[q]
				if !ok {
					same = false
					break
				}
				if k == 0 {
					prev = idx
				} else if idx != prev {
					same = false
					break
				}
			}
			if same && prev >= 0 && inverseOf(out[prev], cmd) {
				out = append(out[:prev], out[prev+1:]...)
				removed = true
				// Rebuild the frontier after the splice.
				last = map[int]int{}
				for i, c := range out {
					for _, q := range c.Qubits {
						last[q] = i
					}
				}
				continue
			}
			out = append(out, cmd)
			for _, q := range cmd.Qubits {
				last[q] = len(out) - 1
			}
		}
		cmds = out
		if !removed {
			return cmds
		}
	}
}
