package passes

import (
	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/kak"
	"github.com/rydberg-labs/circopt/internal/matrix"
	"github.com/rydberg-labs/circopt/transform"
)

// RemoveRedundancies sweeps trivial gates, adjacent inverse pairs and
// mergeable adjacent rotations, iterating until stable. It only deletes
// or fuses within one operation type, so it never moves a circuit out of
// its alphabet.
func RemoveRedundancies() transform.Transform {
	return transform.New("remove_redundancies", func(c *circuit.Circuit) (bool, error) {
		out, changed := removeRedundant(c.Cmds, transform.DefaultTolerance)
		if !changed {
			return false, nil
		}
		c.Cmds = out
		return true, nil
	})
}

func removeRedundant(cmds []circuit.Command, tol float64) ([]circuit.Command, bool) {
	changed := false
	for {
		again := false

		kept := cmds[:0:0]
		for _, cmd := range cmds {
			if isTrivialGate(cmd, tol) {
				again = true
				continue
			}
			kept = append(kept, cmd)
		}
		cmds = kept

		var out []circuit.Command
		last := map[int]int{}
		place := func(cmd circuit.Command) {
			out = append(out, cmd)
			for _, q := range cmd.Qubits {
				last[q] = len(out) - 1
			}
		}
		rebuild := func() {
			last = map[int]int{}
			for i, cc := range out {
				for _, q := range cc.Qubits {
					last[q] = i
				}
			}
		}
		for _, cmd := range cmds {
			prev := adjacentPrev(out, last, cmd)
			if prev >= 0 {
				if repl, ok := combinePair(out[prev], cmd, tol); ok {
					if repl == nil {
						out = append(out[:prev], out[prev+1:]...)
					} else {
						out[prev] = *repl
					}
					rebuild()
					again = true
					continue
				}
			}
			place(cmd)
		}
		cmds = out

		if !again {
			return cmds, changed
		}
		changed = true
	}
}

// adjacentPrev returns the index of the immediately preceding command
// sharing exactly cmd's frontier on every wire, or -1.
func adjacentPrev(out []circuit.Command, last map[int]int, cmd circuit.Command) int {
	if len(cmd.Qubits) == 0 {
		return -1
	}
	prev := -1
	for k, q := range cmd.Qubits {
		idx, ok := last[q]
		if !ok {
			return -1
		}
		if k == 0 {
			prev = idx
		} else if idx != prev {
			return -1
		}
	}
	if prev >= 0 && len(out[prev].Qubits) != len(cmd.Qubits) {
		return -1
	}
	return prev
}

func isTrivialGate(cmd circuit.Command, tol float64) bool {
	switch cmd.Op {
	case circuit.Noop:
		return true
	case circuit.Rz, circuit.Rx, circuit.Ry, circuit.ZZPhase, circuit.XXPhase, circuit.YYPhase, circuit.PhasedX:
		return turnIsZero(cmd.Params[0], tol)
	case circuit.TK1:
		m, _ := circuit.LocalMatrix(cmd)
		return kak.IsIdentityUpToPhase(m, tol)
	case circuit.TK2:
		return turnIsZero(cmd.Params[0], tol) && turnIsZero(cmd.Params[1], tol) && turnIsZero(cmd.Params[2], tol)
	case circuit.PauliExpBox:
		if turnIsZero(cmd.Params[0], tol) {
			return true
		}
		for _, p := range cmd.Paulis {
			if p != circuit.PauliI {
				return false
			}
		}
		return true
	}
	return false
}

// combinePair fuses two adjacent commands on identical wires. A nil
// replacement with ok=true means both vanish.
func combinePair(a, b circuit.Command, tol float64) (*circuit.Command, bool) {
	for i := range a.Qubits {
		if a.Qubits[i] != b.Qubits[i] {
			return nil, false
		}
	}
	if isInversePair(a.Op, b.Op) {
		return nil, true
	}
	if a.Op == b.Op {
		switch a.Op {
		case circuit.Rz, circuit.Rx, circuit.Ry, circuit.ZZPhase, circuit.XXPhase, circuit.YYPhase:
			t := a.Params[0] + b.Params[0]
			if turnIsZero(t, tol) {
				return nil, true
			}
			merged := a.Clone()
			merged.Params = []float64{normHalf(t)}
			return &merged, true
		case circuit.TK1:
			ma, _ := circuit.LocalMatrix(a)
			mb, _ := circuit.LocalMatrix(b)
			m := matrix.Mul(mb, ma)
			if kak.IsIdentityUpToPhase(m, tol) {
				return nil, true
			}
			x, y, z := kak.TK1Params(m)
			merged := a.Clone()
			merged.Params = []float64{x, y, z}
			return &merged, true
		case circuit.PhasedX:
			ma, _ := circuit.LocalMatrix(a)
			mb, _ := circuit.LocalMatrix(b)
			m := matrix.Mul(mb, ma)
			if kak.IsIdentityUpToPhase(m, tol) {
				return nil, true
			}
			// Stays a PhasedX only when the Z components cancel.
			x, y, z := kak.TK1Params(m)
			if turnIsZero(x+z, tol) {
				merged := a.Clone()
				merged.Params = []float64{normHalf(y), normHalf(-z)}
				return &merged, true
			}
			return nil, false
		}
	}
	return nil, false
}

func isInversePair(a, b circuit.OpType) bool {
	if a == b {
		switch a {
		case circuit.H, circuit.X, circuit.Y, circuit.Z, circuit.CX, circuit.CZ, circuit.SWAP:
			return true
		}
		return false
	}
	switch {
	case a == circuit.S && b == circuit.Sdg, a == circuit.Sdg && b == circuit.S,
		a == circuit.T && b == circuit.Tdg, a == circuit.Tdg && b == circuit.T,
		a == circuit.SX && b == circuit.SXdg, a == circuit.SXdg && b == circuit.SX:
		return true
	}
	return false
}
