// Package passes is the optimisation pass library: peephole and Cartan
// resynthesis of two-qubit windows, graphlike ZX-calculus optimisation,
// Clifford subcircuit canonicalization, hardware-alphabet synthesis and
// Pauli-gadget resynthesis. Every constructor returns a
// transform.Transform carrying the pass's Expects/Produces contracts,
// so passes compose freely with the combinators in package transform.
package passes

import (
	"math"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/transform"
)

// options carries the per-pass knobs shared across the library.
type options struct {
	allowSwaps bool
	target     circuit.OpType
	tol        float64
}

// Option configures a pass constructor.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		allowSwaps: true,
		target:     circuit.CX,
		tol:        transform.DefaultTolerance,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithAllowSwaps toggles implicit wire swaps. When enabled, a window may
// be replaced by a cheaper realization of SWAP times its unitary, with
// the swap folded into the circuit's implicit output permutation.
func WithAllowSwaps(v bool) Option {
	return func(o *options) { o.allowSwaps = v }
}

// WithTarget2Q selects the two-qubit primitive emitted by resynthesis:
// circuit.CX (default) or circuit.TK2.
func WithTarget2Q(op circuit.OpType) Option {
	return func(o *options) { o.target = op }
}

// WithTolerance overrides the numerical tolerance for decomposition and
// verification.
func WithTolerance(tol float64) Option {
	return func(o *options) { o.tol = tol }
}

// normHalf reduces a half-turn angle into (-1, 1].
func normHalf(t float64) float64 {
	t = math.Mod(t, 2)
	if t <= -1 {
		t += 2
	} else if t > 1 {
		t -= 2
	}
	return t
}

// turnIsZero reports t == 0 (mod 2) within tolerance, i.e. the rotation
// is the identity up to global phase.
func turnIsZero(t, tol float64) bool {
	return math.Abs(normHalf(t)) <= math.Max(tol, 1e-11)
}

// named wraps a composed transform under a stable pass name with its own
// contracts, so errors and logs carry the public name rather than the
// combinator spelling.
func named(name string, inner transform.Transform, topts ...transform.Option) transform.Transform {
	return transform.New(name, inner.Apply, topts...)
}

// cxPlusSingleQubitSet is the {CX, any single-qubit gate} alphabet as a
// Produces set.
func cxPlusSingleQubitSet() circuit.GateSet {
	return circuit.SingleQubitGates.Union(circuit.NewGateSet(circuit.CX))
}
