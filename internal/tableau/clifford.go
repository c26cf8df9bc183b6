package tableau

import (
	"math"

	"github.com/rydberg-labs/circopt/circuit"
)

// Primitive generator steps a command expands into.
type stepOp int8

const (
	stH stepOp = iota
	stS
	stX
	stZ
	stCX
)

type step struct {
	op   stepOp
	a, b int
}

// quarter quantizes a half-turn angle to a multiple of 1/2 (an eighth of
// a full turn, the Clifford grid). ok is false when t is off-grid.
func quarter(t, tol float64) (k int, ok bool) {
	scaled := t * 2
	r := math.Round(scaled)
	if math.Abs(scaled-r) > math.Max(tol, 1e-11)*2 {
		return 0, false
	}
	k = int(r) % 4
	if k < 0 {
		k += 4
	}
	return k, true
}

func rzSteps(q, k int) []step {
	out := make([]step, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, step{stS, q, 0})
	}
	return out
}

func rxSteps(q, k int) []step {
	out := []step{{stH, q, 0}}
	out = append(out, rzSteps(q, k)...)
	return append(out, step{stH, q, 0})
}

// rySteps is Rx conjugated into the Y axis: Ry(t) = S Rx(t) Sdg.
func rySteps(q, k int) []step {
	out := rzSteps(q, 3)
	out = append(out, rxSteps(q, k)...)
	return append(out, step{stS, q, 0})
}

func zzSteps(a, b, k int) []step {
	out := []step{{stCX, a, b}}
	out = append(out, rzSteps(b, k)...)
	return append(out, step{stCX, a, b})
}

func xxSteps(a, b, k int) []step {
	out := []step{{stCX, a, b}}
	out = append(out, rxSteps(a, k)...)
	return append(out, step{stCX, a, b})
}

func yySteps(a, b, k int) []step {
	out := append(rzSteps(a, 3), rzSteps(b, 3)...)
	out = append(out, xxSteps(a, b, k)...)
	out = append(out, step{stS, a, 0}, step{stS, b, 0})
	return out
}

// program expands a Clifford command into generator steps in circuit
// order. ok is false for non-Clifford commands (off-grid angles, unknown
// operations).
func program(cmd circuit.Command, tol float64) ([]step, bool) {
	q := cmd.Qubits
	switch cmd.Op {
	case circuit.Noop, circuit.Barrier:
		return nil, true
	case circuit.H:
		return []step{{stH, q[0], 0}}, true
	case circuit.S:
		return rzSteps(q[0], 1), true
	case circuit.Sdg:
		return rzSteps(q[0], 3), true
	case circuit.X:
		return []step{{stX, q[0], 0}}, true
	case circuit.Y:
		return []step{{stZ, q[0], 0}, {stX, q[0], 0}}, true
	case circuit.Z:
		return []step{{stZ, q[0], 0}}, true
	case circuit.SX:
		return rxSteps(q[0], 1), true
	case circuit.SXdg:
		return rxSteps(q[0], 3), true
	case circuit.Rz:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return rzSteps(q[0], k), true
	case circuit.Rx:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return rxSteps(q[0], k), true
	case circuit.Ry:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return rySteps(q[0], k), true
	case circuit.TK1:
		ka, oka := quarter(cmd.Params[0], tol)
		kb, okb := quarter(cmd.Params[1], tol)
		kc, okc := quarter(cmd.Params[2], tol)
		if !oka || !okb || !okc {
			return nil, false
		}
		out := rzSteps(q[0], kc)
		out = append(out, rxSteps(q[0], kb)...)
		return append(out, rzSteps(q[0], ka)...), true
	case circuit.PhasedX:
		kt, okt := quarter(cmd.Params[0], tol)
		kp, okp := quarter(cmd.Params[1], tol)
		if !okt || !okp {
			return nil, false
		}
		out := rzSteps(q[0], (4-kp)%4)
		out = append(out, rxSteps(q[0], kt)...)
		return append(out, rzSteps(q[0], kp)...), true
	case circuit.CX:
		return []step{{stCX, q[0], q[1]}}, true
	case circuit.CZ:
		return []step{{stH, q[1], 0}, {stCX, q[0], q[1]}, {stH, q[1], 0}}, true
	case circuit.SWAP:
		return []step{{stCX, q[0], q[1]}, {stCX, q[1], q[0]}, {stCX, q[0], q[1]}}, true
	case circuit.ZZMax:
		return zzSteps(q[0], q[1], 1), true
	case circuit.ZZPhase:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return zzSteps(q[0], q[1], k), true
	case circuit.XXPhase:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return xxSteps(q[0], q[1], k), true
	case circuit.YYPhase:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return yySteps(q[0], q[1], k), true
	case circuit.TK2:
		ka, oka := quarter(cmd.Params[0], tol)
		kb, okb := quarter(cmd.Params[1], tol)
		kc, okc := quarter(cmd.Params[2], tol)
		if !oka || !okb || !okc {
			return nil, false
		}
		out := zzSteps(q[0], q[1], kc)
		out = append(out, yySteps(q[0], q[1], kb)...)
		return append(out, xxSteps(q[0], q[1], ka)...), true
	case circuit.ECR:
		// ECR = X(hi) * H(hi) * XXPhase(1/2) * H(hi) up to phase.
		out := []step{{stH, q[1], 0}}
		out = append(out, xxSteps(q[0], q[1], 1)...)
		return append(out, step{stH, q[1], 0}, step{stX, q[1], 0}), true
	case circuit.PauliExpBox:
		k, ok := quarter(cmd.Params[0], tol)
		if !ok {
			return nil, false
		}
		return pauliExpSteps(cmd, k), true
	default:
		return nil, false
	}
}

// pauliExpSteps rotates each support wire into the Z basis, runs a CX fan
// onto the last support wire, applies the Z rotation there, and undoes
// everything.
func pauliExpSteps(cmd circuit.Command, k int) []step {
	var support []int
	var pre, post []step
	for i, p := range cmd.Paulis {
		w := cmd.Qubits[i]
		switch p {
		case circuit.PauliX:
			pre = append(pre, step{stH, w, 0})
			post = append(post, step{stH, w, 0})
			support = append(support, w)
		case circuit.PauliY:
			pre = append(pre, rzSteps(w, 3)...)
			pre = append(pre, step{stH, w, 0})
			post = append(post, step{stH, w, 0})
			post = append(post, step{stS, w, 0})
			support = append(support, w)
		case circuit.PauliZ:
			support = append(support, w)
		}
	}
	if len(support) == 0 {
		return nil
	}
	last := support[len(support)-1]
	out := pre
	for _, w := range support[:len(support)-1] {
		out = append(out, step{stCX, w, last})
	}
	out = append(out, rzSteps(last, k)...)
	for i := len(support) - 2; i >= 0; i-- {
		out = append(out, step{stCX, support[i], last})
	}
	return append(out, post...)
}

// IsCliffordCommand reports whether the command is a Clifford gate, with
// parametrized rotations tested against the eighth-turn grid within tol.
func IsCliffordCommand(cmd circuit.Command, tol float64) bool {
	if !cmd.Op.IsGate() {
		return false
	}
	_, ok := program(cmd, tol)
	return ok
}

// Absorb conjugates the tableau by the command. It reports false, leaving
// the tableau untouched, when the command is not Clifford.
func (t *Tableau) Absorb(cmd circuit.Command, tol float64) bool {
	steps, ok := program(cmd, tol)
	if !ok {
		return false
	}
	for _, s := range steps {
		switch s.op {
		case stH:
			t.H(s.a)
		case stS:
			t.S(s.a)
		case stX:
			t.XGate(s.a)
		case stZ:
			t.ZGate(s.a)
		case stCX:
			t.CX(s.a, s.b)
		}
	}
	return true
}
