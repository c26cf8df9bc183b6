package passes

import (
	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/matrix"
	"github.com/rydberg-labs/circopt/internal/zxgraph"
	"github.com/rydberg-labs/circopt/transform"
)

// zxVerifyMaxQubits bounds the post-extraction unitary check: beyond
// this width the 2^n x 2^n comparison is no longer cheap.
const zxVerifyMaxQubits = 7

// ZXGraphlikeOptimisation rewrites the whole circuit through a
// graphlike ZX diagram: rebase to the reference alphabet, convert,
// simplify with the gflow-preserving rule set, and extract. The result
// replaces the circuit unconditionally; callers wanting a cost gate use
// TryZXGraphlikeOptimisation.
//
// Circuits with measurements, resets or qubit boundary operations are
// rejected up front, before any rewriting.
func ZXGraphlikeOptimisation(opts ...Option) transform.Transform {
	o := newOptions(opts)
	const name = "zx_graphlike_optimisation"
	spec := targetSpec{alphabet: circuit.ZXReferenceAlphabet, emit: emitRzRx}
	return transform.New(name, func(c *circuit.Circuit) (bool, error) {
		if c.HasBoundaryOps() {
			return false, transform.NewUnsupportedCircuitError(name,
				"circuit creates, discards, resets or measures qubits")
		}
		for _, cmd := range c.Cmds {
			if !cmd.Op.IsGate() {
				return false, transform.NewUnsupportedCircuitError(name,
					"circuit contains a non-gate operation with no diagram form")
			}
		}

		work := c.Copy()
		if _, err := rebaseCircuit(name, work, spec, o.tol); err != nil {
			return false, err
		}
		g, err := zxgraph.FromCircuit(work)
		if err != nil {
			return false, transform.NewUnsupportedCircuitError(name, err.Error())
		}
		g.Simplify()
		ext, err := g.Extract()
		if err != nil {
			return false, transform.NewDecompositionError(name, "zx diagram")
		}

		if c.NumQubits <= zxVerifyMaxQubits {
			want, werr := c.Unitary()
			got, gerr := ext.Unitary()
			if werr != nil || gerr != nil || matrix.PhaseDistance(want, got) > 1e-6 {
				return false, transform.NewDecompositionError(name, "zx diagram")
			}
		}
		if ext.Equal(c) {
			return false, nil
		}
		c.ReplaceWith(ext)
		return true, nil
	}, transform.WithProduces(circuit.ZXReferenceAlphabet))
}

// TryZXGraphlikeOptimisation gates the ZX pass behind an acceptance
// criterion: the rewrite runs on a scoped copy and is kept only when the
// criterion accepts it, so a rejected attempt leaves the original
// untouched, including its pre-rebase gate alphabet. A nil criterion
// defaults to the non-increasing two-qubit gate count.
func TryZXGraphlikeOptimisation(criterion transform.AcceptanceCriterion, opts ...Option) transform.Transform {
	if criterion == nil {
		criterion = transform.TwoQubitGateCountNonIncreasing
	}
	return transform.TryWithCriterion(ZXGraphlikeOptimisation(opts...), criterion)
}
