package passes

import (
	"fmt"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/kak"
	"github.com/rydberg-labs/circopt/internal/matrix"
	"github.com/rydberg-labs/circopt/transform"
)

// targetSpec describes a hardware gate alphabet for the synthesis
// family: which operations are native, how to spell CX with the native
// entangler, and how to restate an arbitrary single-qubit unitary (as
// TK1 angles) with the native single-qubit gates.
type targetSpec struct {
	alphabet circuit.GateSet
	// cx builds the CX template out of the native entangler; nil means
	// CX itself is native.
	cx func(tol float64) ([]circuit.Command, error)
	// emit restates TK1(a, b, c) on the wire, dropping angles that are
	// trivial within tolerance.
	emit func(wire int, a, b, c, tol float64) []circuit.Command
}

// rebaseCircuit rewrites the circuit into the target alphabet in three
// stages: expand every gate to CX plus single-qubit gates (native
// two-qubit gates stay put), replace each CX with the native template,
// then squash single-qubit runs and restate them natively. The wire
// layout of multi-qubit gates is untouched, so connectivity is
// preserved.
func rebaseCircuit(passName string, c *circuit.Circuit, spec targetSpec, tol float64) (bool, error) {
	var out []circuit.Command
	for _, cmd := range c.Cmds {
		switch {
		case !cmd.Op.IsGate():
			out = append(out, cmd)
		case cmd.Op == circuit.PauliExpBox:
			out = append(out, expandGadget(cmd, transform.CXConfigSnake)...)
		case len(cmd.Qubits) == 1:
			if _, ok := circuit.LocalMatrix(cmd); !ok {
				return false, transform.NewPreconditionError(passName, cmd.Op, "rebasable operations")
			}
			out = append(out, cmd)
		case len(cmd.Qubits) == 2:
			if cmd.Op == circuit.CX || spec.alphabet.Contains(cmd.Op) {
				out = append(out, cmd)
				continue
			}
			m, ok := circuit.LocalMatrix(cmd)
			if !ok {
				return false, transform.NewPreconditionError(passName, cmd.Op, "rebasable operations")
			}
			win, _, err := kak.Resynthesize(m, kak.Options{Target: circuit.CX, Tol: tol})
			if err != nil {
				return false, transform.NewDecompositionError(passName, string(cmd.Op))
			}
			out = append(out, relabelLocal2(win, cmd.Qubits[0], cmd.Qubits[1])...)
		default:
			return false, transform.NewPreconditionError(passName, cmd.Op, "rebasable operations")
		}
	}

	if spec.cx != nil {
		impl, err := spec.cx(tol)
		if err != nil {
			return false, transform.NewDecompositionError(passName, string(circuit.CX))
		}
		bridged := make([]circuit.Command, 0, len(out))
		for _, cmd := range out {
			if cmd.Op == circuit.CX {
				bridged = append(bridged, relabelLocal2(impl, cmd.Qubits[0], cmd.Qubits[1])...)
				continue
			}
			bridged = append(bridged, cmd)
		}
		out = bridged
	}

	out = squashEmit(out, spec.emit, tol)
	if equalCmds(out, c.Cmds) {
		return false, nil
	}
	c.Cmds = out
	return true, nil
}

// squashEmit folds every run of single-qubit gates into its TK1 angles
// and restates them through emit, leaving other commands in place.
func squashEmit(cmds []circuit.Command, emit func(wire int, a, b, c, tol float64) []circuit.Command, tol float64) []circuit.Command {
	acc := map[int]*matrix.Matrix{}
	var out []circuit.Command

	flush := func(wire int) {
		m, ok := acc[wire]
		if !ok {
			return
		}
		delete(acc, wire)
		if kak.IsIdentityUpToPhase(m, tol) {
			return
		}
		a, b, c := kak.TK1Params(m)
		out = append(out, emit(wire, a, b, c, tol)...)
	}

	maxWire := 0
	for _, cmd := range cmds {
		for _, q := range cmd.Qubits {
			if q > maxWire {
				maxWire = q
			}
		}
		if cmd.Op.IsGate() && len(cmd.Qubits) == 1 {
			if m, ok := circuit.LocalMatrix(cmd); ok {
				w := cmd.Qubits[0]
				if prev, ok := acc[w]; ok {
					acc[w] = matrix.Mul(m, prev)
				} else {
					acc[w] = m
				}
				continue
			}
		}
		for _, q := range cmd.Qubits {
			flush(q)
		}
		out = append(out, cmd)
	}
	for w := 0; w <= maxWire; w++ {
		flush(w)
	}
	return out
}

// bridgeCX inverts the Cartan decomposition of a maximally entangling
// native gate G = A (CX) B into a CX template CX = A' G B', where A' and
// B' are the daggered per-wire locals. The template is verified against
// CX before use.
func bridgeCX(g circuit.Command, tol float64) ([]circuit.Command, error) {
	m, ok := circuit.LocalMatrix(g)
	if !ok {
		return nil, fmt.Errorf("passes: %s has no matrix", g.Op)
	}
	win, _, err := kak.Resynthesize(m, kak.Options{Target: circuit.CX, Tol: tol})
	if err != nil {
		return nil, err
	}
	cxAt := -1
	for i, cmd := range win {
		if cmd.Op == circuit.CX {
			if cxAt >= 0 {
				return nil, fmt.Errorf("passes: %s is not a single-CX entangler", g.Op)
			}
			cxAt = i
		} else if len(cmd.Qubits) != 1 {
			return nil, fmt.Errorf("passes: unexpected %s in entangler decomposition", cmd.Op)
		}
	}
	if cxAt < 0 {
		return nil, fmt.Errorf("passes: %s decomposed without a CX", g.Op)
	}

	var out []circuit.Command
	emitDagger := func(cmds []circuit.Command) {
		for _, w := range []int{0, 1} {
			prod := matrix.Identity(2)
			for _, cmd := range cmds {
				if cmd.Qubits[0] != w {
					continue
				}
				lm, _ := circuit.LocalMatrix(cmd)
				prod = matrix.Mul(lm, prod)
			}
			d := matrix.Dagger(prod)
			if kak.IsIdentityUpToPhase(d, tol) {
				continue
			}
			a, b, c := kak.TK1Params(d)
			out = append(out, circuit.Command{Op: circuit.TK1, Qubits: []int{w}, Params: []float64{a, b, c}})
		}
	}
	emitDagger(win[:cxAt])
	out = append(out, g.Clone())
	emitDagger(win[cxAt+1:])

	check := circuit.New(2)
	for _, cmd := range out {
		check.Append(cmd)
	}
	got, err := check.Unitary()
	if err != nil {
		return nil, err
	}
	cxMat, _ := circuit.LocalMatrix(circuit.Command{Op: circuit.CX, Qubits: []int{0, 1}})
	if matrix.PhaseDistance(got, cxMat) > 1e-9 {
		return nil, fmt.Errorf("passes: CX template through %s misses tolerance", g.Op)
	}
	return out, nil
}

// emitTK1 is the single-qubit emitter for the TK alphabets.
func emitTK1(wire int, a, b, c, tol float64) []circuit.Command {
	return []circuit.Command{{Op: circuit.TK1, Qubits: []int{wire}, Params: []float64{a, b, c}}}
}

// emitRzPhasedX restates TK1(a, b, c) = Rz(a+c) PhasedX(b, -c) for the
// {PhasedX, Rz} alphabets.
func emitRzPhasedX(wire int, a, b, c, tol float64) []circuit.Command {
	var out []circuit.Command
	if !turnIsZero(b, tol) {
		out = append(out, circuit.Command{Op: circuit.PhasedX, Qubits: []int{wire}, Params: []float64{normHalf(b), normHalf(-c)}})
	}
	if t := normHalf(a + c); !turnIsZero(t, tol) {
		out = append(out, circuit.Command{Op: circuit.Rz, Qubits: []int{wire}, Params: []float64{t}})
	}
	return out
}

// emitRzSX restates TK1(a, b, c) = Rz(a+1/2) SX Rz(b+1) SX Rz(c+1/2),
// up to phase, for the {Rz, SX} alphabet. A Z-axis run avoids the SX
// pair entirely.
func emitRzSX(wire int, a, b, c, tol float64) []circuit.Command {
	rz := func(out []circuit.Command, t float64) []circuit.Command {
		if turnIsZero(t, tol) {
			return out
		}
		return append(out, circuit.Command{Op: circuit.Rz, Qubits: []int{wire}, Params: []float64{normHalf(t)}})
	}
	sx := circuit.Command{Op: circuit.SX, Qubits: []int{wire}}
	var out []circuit.Command
	if turnIsZero(b, tol) {
		return rz(out, a+c)
	}
	out = rz(out, c+0.5)
	out = append(out, sx.Clone())
	out = rz(out, b+1)
	out = append(out, sx.Clone())
	return rz(out, a+0.5)
}

// emitRzRx restates TK1(a, b, c) as Rz and Rx rotations for the ZX
// reference alphabet.
func emitRzRx(wire int, a, b, c, tol float64) []circuit.Command {
	var out []circuit.Command
	add := func(op circuit.OpType, t float64) {
		if turnIsZero(t, tol) {
			return
		}
		out = append(out, circuit.Command{Op: op, Qubits: []int{wire}, Params: []float64{normHalf(t)}})
	}
	add(circuit.Rz, c)
	add(circuit.Rx, b)
	add(circuit.Rz, a)
	return out
}
