package transform

import "github.com/rydberg-labs/circopt/circuit"

// DefaultTolerance is the numerical tolerance for decomposition and
// unitary-equivalence checks. Callers can override it per pass via the
// pass options.
const DefaultTolerance = 1e-10

// MaxFixpointIterations bounds RepeatToFixpoint. Hitting the bound is a
// defect in the wrapped transform, never a normal outcome.
const MaxFixpointIterations = 1000

// AcceptanceCriterion decides whether to keep a candidate rewrite. It is
// given the original and the candidate circuit and must be pure: the
// candidate is a scoped temporary that is discarded right after the call.
type AcceptanceCriterion func(original, candidate *circuit.Circuit) bool

// TwoQubitGateCountNonIncreasing accepts a candidate whose two-qubit gate
// count does not exceed the original's. This is the usual criterion for
// gating the ZX pass, which can increase cost on pathological inputs.
func TwoQubitGateCountNonIncreasing(original, candidate *circuit.Circuit) bool {
	return candidate.TwoQubitCount() <= original.TwoQubitCount()
}

// CXConfig selects the spanning structure used to expand a multi-qubit
// primitive (a Pauli gadget or multi-controlled rotation) into two-qubit
// gates. It trades depth against width.
type CXConfig int

const (
	// CXConfigSnake chains the wires linearly: minimal width, depth
	// linear in the string weight.
	CXConfigSnake CXConfig = iota

	// CXConfigTree pairs wires in a balanced binary structure:
	// logarithmic depth, wider interaction pattern.
	CXConfigTree

	// CXConfigStar routes every interaction through one hub wire.
	CXConfigStar

	// CXConfigMultiQGate keeps the native multi-qubit primitive where the
	// target alphabet supports it, deferring expansion.
	CXConfigMultiQGate
)

// String returns the configuration name.
func (c CXConfig) String() string {
	switch c {
	case CXConfigSnake:
		return "Snake"
	case CXConfigTree:
		return "Tree"
	case CXConfigStar:
		return "Star"
	case CXConfigMultiQGate:
		return "MultiQGate"
	default:
		return "Unknown"
	}
}
