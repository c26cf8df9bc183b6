package passes

import (
	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/kak"
	"github.com/rydberg-labs/circopt/internal/matrix"
	"github.com/rydberg-labs/circopt/transform"
)

// PeepholeOptimise2Q resynthesizes two-qubit windows through the Cartan
// decomposition, replacing each window whenever the result is strictly
// cheaper (or normalizes a foreign two-qubit gate into the target
// primitive). Single-wire runs squash into one TK1. With allow_swaps, a
// window may be realized up to a wire swap recorded in the implicit
// permutation.
//
// Windows that fail to decompose within tolerance are left alone; the
// pass only reports an error when the circuit itself cannot be walked.
// Unknown gates and gates on three or more wires fence the windows
// around them rather than failing the pass.
func PeepholeOptimise2Q(opts ...Option) transform.Transform {
	o := newOptions(opts)
	return transform.New("peephole_optimise_2q", func(c *circuit.Circuit) (bool, error) {
		changed := false
		for {
			e, ok := findPeepholeEdit(c, o)
			if !ok {
				return changed, nil
			}
			applyEdit(c, e)
			changed = true
		}
	})
}

// findPeepholeEdit scans blocks in program order and returns the first
// accepted rewrite. The caller re-segments after applying it.
func findPeepholeEdit(c *circuit.Circuit, o options) (edit, bool) {
	for _, b := range segment2q(c) {
		var (
			e  edit
			ok bool
		)
		if len(b.wires) == 1 {
			e, ok = squashSingleWire(c, b, o.tol)
		} else {
			e, ok = resynthWindow(c, b, o)
		}
		if ok {
			return e, true
		}
	}
	return edit{}, false
}

// squashSingleWire folds a run of single-qubit gates into one TK1, or
// into nothing when the run is the identity up to phase. Accepted only
// when the command count strictly drops.
func squashSingleWire(c *circuit.Circuit, b *block, tol float64) (edit, bool) {
	m := matrix.Identity(2)
	for _, i := range b.idx {
		g, _ := circuit.LocalMatrix(c.Cmds[i])
		m = matrix.Mul(g, m)
	}
	if kak.IsIdentityUpToPhase(m, tol) {
		return edit{idx: b.idx}, true
	}
	if len(b.idx) < 2 {
		return edit{}, false
	}
	a, bt, ct := kak.TK1Params(m)
	return edit{
		idx:  b.idx,
		cmds: []circuit.Command{{Op: circuit.TK1, Qubits: []int{b.wires[0]}, Params: []float64{a, bt, ct}}},
	}, true
}

// resynthWindow decomposes a two-qubit window and accepts the rewrite
// when it spends strictly fewer two-qubit gates, retires a two-qubit
// gate outside the target primitive, or ties on two-qubit gates with
// strictly fewer commands. Strict decrease keeps fixpoint loops over
// this pass terminating.
func resynthWindow(c *circuit.Circuit, b *block, o options) (edit, bool) {
	lo, hi := b.wires[0], b.wires[1]
	win := circuit.New(2)
	foreign := 0
	for _, i := range b.idx {
		cmd := c.Cmds[i].Clone()
		for k, q := range cmd.Qubits {
			if q == lo {
				cmd.Qubits[k] = 0
			} else {
				cmd.Qubits[k] = 1
			}
		}
		win.Append(cmd)
		if len(cmd.Qubits) >= 2 && cmd.Op != o.target {
			foreign++
		}
	}
	u, err := win.Unitary()
	if err != nil {
		return edit{}, false
	}
	cmds, swapped, err := kak.Resynthesize(u, kak.Options{
		Target:    o.target,
		AllowSwap: o.allowSwaps,
		Tol:       o.tol,
	})
	if err != nil {
		// Recoverable: the window stays as written.
		return edit{}, false
	}

	old2q, oldN := b.twoQ, len(b.idx)
	new2q, newN := count2q(cmds), len(cmds)
	if !(new2q < old2q || foreign > 0 || (new2q == old2q && newN < oldN)) {
		return edit{}, false
	}
	e := edit{idx: b.idx, cmds: relabelLocal2(cmds, lo, hi)}
	if swapped {
		e.swapped, e.a, e.b = true, lo, hi
	}
	return e, true
}

// FullPeepholeOptimise is the composite optimisation pipeline: normalize
// to {CX, TK1}, iterate Clifford canonicalization against two-qubit
// window resynthesis to a fixpoint, then restate the result in the
// requested output alphabet and sweep redundancies.
func FullPeepholeOptimise(opts ...Option) transform.Transform {
	o := newOptions(opts)
	loopOpts := []Option{
		WithAllowSwaps(o.allowSwaps),
		WithTarget2Q(circuit.CX),
		WithTolerance(o.tol),
	}
	stages := []transform.Transform{
		SynthesiseTKET(WithTolerance(o.tol)),
		transform.RepeatToFixpoint(transform.Sequence(
			CliffordSimp(loopOpts...),
			PeepholeOptimise2Q(loopOpts...),
		)),
	}
	produces := circuit.CXTK1
	if o.target == circuit.TK2 {
		stages = append(stages,
			PeepholeOptimise2Q(WithAllowSwaps(o.allowSwaps), WithTarget2Q(circuit.TK2), WithTolerance(o.tol)),
			SynthesiseTK(WithTolerance(o.tol)),
		)
		produces = circuit.TK2TK1
	} else {
		stages = append(stages, SynthesiseTKET(WithTolerance(o.tol)))
	}
	stages = append(stages, RemoveRedundancies())
	return named("full_peephole_optimise", transform.Sequence(stages...),
		transform.WithProduces(produces))
}
