package kak

import (
	"math"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/matrix"
)

// Options configures two-qubit resynthesis.
type Options struct {
	// Target is the two-qubit primitive to emit: circuit.CX or
	// circuit.TK2.
	Target circuit.OpType

	// AllowSwap permits returning a circuit for SWAP * u together with
	// swapped=true, when that needs fewer two-qubit gates. The caller
	// records the swap as an implicit wire permutation.
	AllowSwap bool

	// Tol is the verification tolerance (DefaultTolerance when zero).
	Tol float64
}

var swapMat = matrix.FromRows([][]complex128{
	{1, 0, 0, 0},
	{0, 0, 1, 0},
	{0, 1, 0, 0},
	{0, 0, 0, 1},
})

// Resynthesize decomposes a two-qubit unitary into commands over wires 0
// (low bit) and 1, using the target two-qubit primitive interleaved with
// TK1 gates. The caller relabels wires into the host circuit.
func Resynthesize(u *matrix.Matrix, opts Options) (cmds []circuit.Command, swapped bool, err error) {
	tol := opts.Tol
	if tol == 0 {
		tol = 1e-10
	}
	target := opts.Target
	if target == "" {
		target = circuit.CX
	}

	d, derr := Decompose(u, tol)
	best := d
	bestSwap := false
	if opts.AllowSwap {
		if ds, e2 := Decompose(matrix.Mul(swapMat, u), tol); e2 == nil {
			if derr != nil || ds.CXCost(tol) < d.CXCost(tol) {
				best, bestSwap = ds, true
				derr = nil
			}
		}
	}
	if derr != nil {
		return nil, false, derr
	}

	cmds = assemble(best, target, tol)
	cmds = Squash1Q(cmds, tol)

	// Verify the emitted window against the request before letting it
	// replace anything.
	want := u
	if bestSwap {
		want = matrix.Mul(swapMat, u)
	}
	check := circuit.New(2)
	for _, cmd := range cmds {
		check.Append(cmd)
	}
	got, uerr := check.Unitary()
	if uerr != nil {
		return nil, false, uerr
	}
	if dist := matrix.PhaseDistance(want, got); dist > math.Max(tol, 1e-9) {
		return nil, false, errVerify(dist)
	}
	return cmds, bestSwap, nil
}

type verifyError struct{ dist float64 }

func errVerify(d float64) error { return &verifyError{d} }

func (e *verifyError) Error() string {
	return "kak: synthesized window misses tolerance"
}

func assemble(d *Decomposition, target circuit.OpType, tol float64) []circuit.Command {
	var cmds []circuit.Command
	cmds = append(cmds, local1q(0, d.K2lo, tol)...)
	cmds = append(cmds, local1q(1, d.K2hi, tol)...)
	if target == circuit.TK2 {
		if !allZero(tol, d.Ax, d.Ay, d.Az) {
			cmds = append(cmds, circuit.Command{
				Op:     circuit.TK2,
				Qubits: []int{0, 1},
				Params: []float64{-2 * d.Ax / math.Pi, -2 * d.Ay / math.Pi, -2 * d.Az / math.Pi},
			})
		}
	} else {
		cmds = append(cmds, interactionCmds(d.Ax, d.Ay, d.Az, tol)...)
	}
	cmds = append(cmds, local1q(0, d.K1lo, tol)...)
	cmds = append(cmds, local1q(1, d.K1hi, tol)...)
	return cmds
}

func local1q(wire int, m *matrix.Matrix, tol float64) []circuit.Command {
	if IsIdentityUpToPhase(m, tol) {
		return nil
	}
	a, b, c := TK1Params(m)
	return []circuit.Command{{Op: circuit.TK1, Qubits: []int{wire}, Params: []float64{a, b, c}}}
}

func allZero(tol float64, vals ...float64) bool {
	for _, v := range vals {
		if math.Abs(v) > angleTol(tol) {
			return false
		}
	}
	return true
}

func angleTol(tol float64) float64 { return math.Max(tol, 1e-11) }

func nearHalfQuarter(v, tol float64) bool {
	// |v| == pi/4 within tolerance.
	return math.Abs(math.Abs(v)-math.Pi/4) <= angleTol(tol)
}

// interactionCost predicts the CX spend of interactionCmds.
func interactionCost(ax, ay, az float64, tol float64) int {
	at := angleTol(tol)
	nx, ny, nz := math.Abs(ax) > at, math.Abs(ay) > at, math.Abs(az) > at
	n := 0
	if nx {
		n++
	}
	if ny {
		n++
	}
	if nz {
		n++
	}
	switch n {
	case 0:
		return 0
	case 1:
		v := ax
		if ny {
			v = ay
		}
		if nz {
			v = az
		}
		if nearHalfQuarter(v, tol) {
			return 1
		}
		return 2
	case 2:
		return 2
	default:
		return 3
	}
}

// interactionCmds emits exp(i(ax XX + ay YY + az ZZ)) over wires {0, 1}
// as CX and single-qubit gates.
//
// The workhorse identity is
//
//	exp(i(a XX + c ZZ)) = CX * (exp(iaX) (x) exp(icZ)) * CX
//
// which covers any pair of axes after a Clifford change of basis; a lone
// +-pi/4 axis collapses to a single CX via
//
//	exp(+-i pi/4 ZZ) ~ (S-+ (x) S-+) * CZ.
func interactionCmds(ax, ay, az float64, tol float64) []circuit.Command {
	at := angleTol(tol)
	nx, ny, nz := math.Abs(ax) > at, math.Abs(ay) > at, math.Abs(az) > at

	switch {
	case !nx && !ny && !nz:
		return nil
	case nx && !ny && !nz && nearHalfQuarter(ax, tol):
		return wrap(oneCX(ax), gate1(circuit.H, 0), gate1(circuit.H, 1))
	case !nx && ny && !nz && nearHalfQuarter(ay, tol):
		return wrapRot(oneCX(ay), circuit.Rx, 0.5)
	case !nx && !ny && nz && nearHalfQuarter(az, tol):
		return oneCX(az)
	case !ny:
		return xzBlock(ax, az, tol)
	case !nz:
		// Conjugating by Rx(1/2) on both wires carries ZZ onto YY.
		return wrapRot(xzBlock(ax, ay, tol), circuit.Rx, 0.5)
	case !nx:
		// Conjugating by Rz(1/2) on both wires carries XX onto YY.
		return wrapRot(xzBlock(ay, az, tol), circuit.Rz, 0.5)
	default:
		return genericBlock(ax, ay, az, tol)
	}
}

// genericBlock emits a full-rank interaction with three CX gates. The
// alternating sandwich CX(1,0) CX(0,1) CX(1,0) equals SWAP, and
//
//	SWAP = e^{-i pi/4} exp(i pi/4 (XX + YY + ZZ))
//
// so the sandwich already sits at the (pi/4, pi/4, pi/4) corner of the
// Weyl chamber. Pushing one Rz and two Ry rotations between the CX
// gates shifts each coordinate independently:
//
//	exp(i(ax XX + ay YY + az ZZ)) =
//	  Sdg(0) CX(1,0) [Rz(d)(0) Ry(p)(1)] CX(0,1) [Ry(h)(1)] CX(1,0) S(1)
//
// up to global phase, with half-turn angles h = 1/2 - 2ax/pi,
// p = 2ay/pi - 1/2, d = 1/2 - 2az/pi (rightmost factor first).
func genericBlock(ax, ay, az, tol float64) []circuit.Command {
	h := 0.5 - 2*ax/math.Pi
	p := 2*ay/math.Pi - 0.5
	d := 0.5 - 2*az/math.Pi

	cmds := []circuit.Command{
		gate1(circuit.S, 1),
		{Op: circuit.CX, Qubits: []int{1, 0}},
	}
	cmds = appendRot(cmds, circuit.Ry, 1, h, tol)
	cmds = append(cmds, circuit.Command{Op: circuit.CX, Qubits: []int{0, 1}})
	cmds = appendRot(cmds, circuit.Rz, 0, d, tol)
	cmds = appendRot(cmds, circuit.Ry, 1, p, tol)
	cmds = append(cmds,
		circuit.Command{Op: circuit.CX, Qubits: []int{1, 0}},
		gate1(circuit.Sdg, 0),
	)
	return cmds
}

func appendRot(cmds []circuit.Command, op circuit.OpType, wire int, t, tol float64) []circuit.Command {
	if math.Abs(t) <= 2*angleTol(tol)/math.Pi {
		return cmds
	}
	return append(cmds, circuit.Command{Op: op, Qubits: []int{wire}, Params: []float64{t}})
}

// oneCX emits exp(i v ZZ) for v = +-pi/4: (Sdg (x) Sdg) * CZ for +pi/4,
// (S (x) S) * CZ for -pi/4, with CZ spelled H-CX-H.
func oneCX(v float64) []circuit.Command {
	s := circuit.Sdg
	if v < 0 {
		s = circuit.S
	}
	return []circuit.Command{
		gate1(circuit.H, 1),
		{Op: circuit.CX, Qubits: []int{0, 1}},
		gate1(circuit.H, 1),
		gate1(s, 0),
		gate1(s, 1),
	}
}

// xzBlock emits exp(i(a XX + c ZZ)) = CX (Rx (x) Rz) CX with angles in
// half-turns t = -2a/pi.
func xzBlock(a, c float64, tol float64) []circuit.Command {
	at := angleTol(tol)
	cmds := []circuit.Command{{Op: circuit.CX, Qubits: []int{0, 1}}}
	if math.Abs(a) > at {
		cmds = append(cmds, circuit.Command{Op: circuit.Rx, Qubits: []int{0}, Params: []float64{-2 * a / math.Pi}})
	}
	if math.Abs(c) > at {
		cmds = append(cmds, circuit.Command{Op: circuit.Rz, Qubits: []int{1}, Params: []float64{-2 * c / math.Pi}})
	}
	cmds = append(cmds, circuit.Command{Op: circuit.CX, Qubits: []int{0, 1}})
	return cmds
}

// wrap surrounds inner with the given self-inverse gates on both sides.
func wrap(inner []circuit.Command, outer ...circuit.Command) []circuit.Command {
	out := append([]circuit.Command(nil), outer...)
	out = append(out, inner...)
	return append(out, outer...)
}

// wrapRot conjugates inner by a rotation of +t on both wires: the
// circuit is Rot(-t) x2, inner, Rot(+t) x2.
func wrapRot(inner []circuit.Command, op circuit.OpType, t float64) []circuit.Command {
	out := []circuit.Command{
		{Op: op, Qubits: []int{0}, Params: []float64{-t}},
		{Op: op, Qubits: []int{1}, Params: []float64{-t}},
	}
	out = append(out, inner...)
	out = append(out,
		circuit.Command{Op: op, Qubits: []int{0}, Params: []float64{t}},
		circuit.Command{Op: op, Qubits: []int{1}, Params: []float64{t}},
	)
	return out
}

func gate1(op circuit.OpType, wire int) circuit.Command {
	return circuit.Command{Op: op, Qubits: []int{wire}}
}

// Squash1Q merges runs of single-qubit gates on each wire into at most
// one TK1, leaving multi-qubit gates in place. Commands must all be
// gates with known matrices.
func Squash1Q(cmds []circuit.Command, tol float64) []circuit.Command {
	if tol == 0 {
		tol = 1e-10
	}
	acc := map[int]*matrix.Matrix{}
	var out []circuit.Command

	flush := func(wire int) {
		m, ok := acc[wire]
		if !ok {
			return
		}
		delete(acc, wire)
		if IsIdentityUpToPhase(m, tol) {
			return
		}
		a, b, c := TK1Params(m)
		out = append(out, circuit.Command{Op: circuit.TK1, Qubits: []int{wire}, Params: []float64{a, b, c}})
	}

	for _, cmd := range cmds {
		if len(cmd.Qubits) == 1 && cmd.Op.IsGate() {
			m, ok := circuit.LocalMatrix(cmd)
			if !ok {
				// Unknown matrix: flush and pass through.
				flush(cmd.Qubits[0])
				out = append(out, cmd)
				continue
			}
			w := cmd.Qubits[0]
			if prev, ok := acc[w]; ok {
				acc[w] = matrix.Mul(m, prev)
			} else {
				acc[w] = m
			}
			continue
		}
		for _, w := range cmd.Qubits {
			flush(w)
		}
		out = append(out, cmd)
	}
	// Deterministic flush order for the tail.
	for w := 0; ; w++ {
		if len(acc) == 0 {
			break
		}
		flush(w)
		if w > 1<<20 {
			break
		}
	}
	return out
}
