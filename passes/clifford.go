package passes

import (
	"sort"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/kak"
	"github.com/rydberg-labs/circopt/internal/tableau"
	"github.com/rydberg-labs/circopt/transform"
)

// region is a maximal group of Clifford gates closed under shared wires,
// the rewrite unit of clifford_simp. Like peephole blocks, regions close
// entirely when a non-Clifford command touches any of their wires.
type region struct {
	wires []int // ascending
	idx   []int // command indices, ascending
}

func segmentClifford(c *circuit.Circuit, tol float64) []*region {
	open := map[int]*region{}
	var closed []*region

	finalize := func(w int) {
		r := open[w]
		if r == nil {
			return
		}
		for _, q := range r.wires {
			delete(open, q)
		}
		closed = append(closed, r)
	}
	finalizeAll := func() {
		var ws []int
		for w := range open {
			ws = append(ws, w)
		}
		sort.Ints(ws)
		for _, w := range ws {
			finalize(w)
		}
	}

	for i, cmd := range c.Cmds {
		if !cmd.Op.IsGate() || !tableau.IsCliffordCommand(cmd, tol) {
			if len(cmd.Qubits) == 0 {
				finalizeAll()
			}
			for _, q := range cmd.Qubits {
				finalize(q)
			}
			continue
		}
		var r *region
		for _, q := range cmd.Qubits {
			o := open[q]
			if o == nil || o == r {
				continue
			}
			if r == nil {
				r = o
				continue
			}
			r.wires = mergeSorted(r.wires, o.wires)
			r.idx = mergeSorted(r.idx, o.idx)
			for _, q2 := range o.wires {
				open[q2] = r
			}
		}
		if r == nil {
			r = &region{}
		}
		for _, q := range cmd.Qubits {
			if !containsInt(r.wires, q) {
				r.wires = insertSorted(r.wires, q)
			}
			open[q] = r
		}
		r.idx = append(r.idx, i)
	}
	finalizeAll()

	sort.Slice(closed, func(i, j int) bool { return closed[i].idx[0] < closed[j].idx[0] })
	return closed
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func insertSorted(xs []int, v int) []int {
	i := sort.SearchInts(xs, v)
	xs = append(xs, 0)
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}

// CliffordSimp canonicalizes maximal Clifford subcircuits through the
// stabilizer tableau, accepting a resynthesis only when it strictly
// lowers the two-qubit count, or ties it with strictly fewer gates. With
// allow_swaps, each wire transposition composed onto the tableau is also
// tried and kept when it beats the plain synthesis, with the swap folded
// into the implicit permutation.
func CliffordSimp(opts ...Option) transform.Transform {
	o := newOptions(opts)
	return transform.New("clifford_simp", func(c *circuit.Circuit) (bool, error) {
		changed := false
		for {
			e, ok := findCliffordEdit(c, o)
			if !ok {
				return changed, nil
			}
			applyEdit(c, e)
			changed = true
		}
	},
		transform.WithExpects(transform.CXPlusSingleQubit()),
		transform.WithProduces(cxPlusSingleQubitSet()),
	)
}

func findCliffordEdit(c *circuit.Circuit, o options) (edit, bool) {
	for _, r := range segmentClifford(c, o.tol) {
		if e, ok := cliffordEdit(c, r, o); ok {
			return e, true
		}
	}
	return edit{}, false
}

func cliffordEdit(c *circuit.Circuit, r *region, o options) (edit, bool) {
	if len(r.idx) < 2 {
		return edit{}, false
	}
	local := make(map[int]int, len(r.wires))
	for i, w := range r.wires {
		local[w] = i
	}

	t := tableau.New(len(r.wires))
	old2q, oldN := 0, len(r.idx)
	for _, i := range r.idx {
		cmd := c.Cmds[i].Clone()
		for k, q := range cmd.Qubits {
			cmd.Qubits[k] = local[q]
		}
		if !t.Absorb(cmd, o.tol) {
			return edit{}, false
		}
		if len(cmd.Qubits) >= 2 {
			old2q++
		}
	}

	best, err := tableau.Synthesize(t)
	if err != nil {
		return edit{}, false
	}
	best2q := count2q(best)
	swapA, swapB := -1, -1
	if o.allowSwaps {
		for i := 0; i < len(r.wires); i++ {
			for j := i + 1; j < len(r.wires); j++ {
				t2 := t.Copy()
				t2.SWAP(i, j)
				cand, err := tableau.Synthesize(t2)
				if err != nil {
					continue
				}
				if c2 := count2q(cand); c2 < best2q {
					best, best2q = cand, c2
					swapA, swapB = i, j
				}
			}
		}
	}

	new2q, newN := best2q, len(best)
	if !(new2q < old2q || (new2q == old2q && newN < oldN)) {
		return edit{}, false
	}
	global := make([]circuit.Command, len(best))
	for i, cmd := range best {
		cc := cmd.Clone()
		for k, q := range cc.Qubits {
			cc.Qubits[k] = r.wires[q]
		}
		global[i] = cc
	}
	e := edit{idx: r.idx, cmds: global}
	if swapA >= 0 {
		e.swapped, e.a, e.b = true, r.wires[swapA], r.wires[swapB]
	}
	return e, true
}

// gadgetRebase brings an arbitrary gate circuit into the gadget
// alphabet ahead of the squash pipeline. Pauli exponential boxes, CX
// and single-qubit gates pass through untouched; any other two-qubit
// gate with a known matrix is resynthesized over CX. Operations with
// no matrix form are rejected.
func gadgetRebase(passName string, o options) transform.Transform {
	return transform.New(passName, func(c *circuit.Circuit) (bool, error) {
		var out []circuit.Command
		changed := false
		for _, cmd := range c.Cmds {
			switch {
			case !cmd.Op.IsGate(), cmd.Op == circuit.PauliExpBox, cmd.Op == circuit.CX:
				out = append(out, cmd)
			case len(cmd.Qubits) == 1:
				if !circuit.SingleQubitGates.Contains(cmd.Op) {
					return false, transform.NewPreconditionError(passName, cmd.Op, "rebasable operations")
				}
				out = append(out, cmd)
			case len(cmd.Qubits) == 2:
				m, ok := circuit.LocalMatrix(cmd)
				if !ok {
					return false, transform.NewPreconditionError(passName, cmd.Op, "rebasable operations")
				}
				win, _, err := kak.Resynthesize(m, kak.Options{Target: circuit.CX, Tol: o.tol})
				if err != nil {
					return false, transform.NewDecompositionError(passName, string(cmd.Op))
				}
				out = append(out, relabelLocal2(win, cmd.Qubits[0], cmd.Qubits[1])...)
				changed = true
			default:
				return false, transform.NewPreconditionError(passName, cmd.Op, "rebasable operations")
			}
		}
		if !changed {
			return false, nil
		}
		c.Cmds = out
		return true, nil
	})
}

// HyperCliffordSquash is the aggressive squash pipeline: rebase foreign
// two-qubit gates over CX, expand Pauli gadgets, resynthesize two-qubit
// windows, then canonicalize the Clifford subcircuits. Any gate circuit
// is accepted.
func HyperCliffordSquash(opts ...Option) transform.Transform {
	o := newOptions(opts)
	const name = "hyper_clifford_squash"
	shared := []Option{
		WithAllowSwaps(o.allowSwaps),
		WithTarget2Q(circuit.CX),
		WithTolerance(o.tol),
	}
	inner := transform.Sequence(
		gadgetRebase(name, o),
		OptimiseViaPhaseGadget(transform.CXConfigSnake, WithTolerance(o.tol)),
		PeepholeOptimise2Q(shared...),
		CliffordSimp(shared...),
	)
	return named(name, inner,
		transform.WithProduces(cxPlusSingleQubitSet()),
	)
}

// CanonicalHyperCliffordSquash runs the gadget resynthesis with the
// chosen expansion structure before the hyper squash, so gadget
// alignment happens ahead of window optimisation. Any gate circuit is
// accepted.
func CanonicalHyperCliffordSquash(cfg transform.CXConfig, opts ...Option) transform.Transform {
	o := newOptions(opts)
	const name = "canonical_hyper_clifford_squash"
	inner := transform.Sequence(
		gadgetRebase(name, o),
		OptimiseViaPhaseGadget(cfg, WithTolerance(o.tol)),
		HyperCliffordSquash(opts...),
	)
	return named(name, inner,
		transform.WithProduces(cxPlusSingleQubitSet()),
	)
}
