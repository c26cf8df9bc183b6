// Package transform provides the composable rewriting unit of the
// optimizer: a Transform wraps a rewrite procedure apply(circuit) -> changed
// together with its Expects/Produces alphabet contracts, and combinators
// build sequences, fixpoint repetitions and criterion-gated applications
// out of smaller transforms.
//
// Transforms are immutable values with no state between applications;
// each application is a pure function of the circuit's current content.
// Applying a transform to an unchanged circuit returns changed=false
// without mutating it.
package transform

import (
	"log/slog"

	"github.com/rydberg-labs/circopt/circuit"
)

// Contract is a precondition on the input circuit's operations. A nil
// *Contract means "any alphabet".
type Contract struct {
	// Desc names the contract in error messages, e.g. "{CX, TK1}".
	Desc string

	// Allows reports whether a single gate satisfies the contract.
	// Non-gate commands are never passed to it.
	Allows func(cmd circuit.Command) bool
}

// AlphabetContract builds a contract requiring every gate to belong to
// the given alphabet.
func AlphabetContract(gs circuit.GateSet) *Contract {
	return &Contract{
		Desc:   gs.String(),
		Allows: func(cmd circuit.Command) bool { return gs.Contains(cmd.Op) },
	}
}

// CXPlusSingleQubit builds the {CX, any single-qubit gate} contract used
// by the Clifford family.
func CXPlusSingleQubit() *Contract {
	return &Contract{
		Desc: "{CX, any single-qubit gate}",
		Allows: func(cmd circuit.Command) bool {
			return cmd.Op == circuit.CX || circuit.SingleQubitGates.Contains(cmd.Op)
		},
	}
}

// Transform is an owned rewrite value. Build one with New, or compose
// existing transforms with Sequence, RepeatToFixpoint and
// TryWithCriterion.
type Transform struct {
	name     string
	expects  *Contract
	produces circuit.GateSet
	fn       func(*circuit.Circuit) (bool, error)
}

// Option configures a Transform under construction.
type Option func(*Transform)

// WithExpects declares the input alphabet contract, checked eagerly
// before the rewrite runs.
func WithExpects(c *Contract) Option {
	return func(t *Transform) { t.expects = c }
}

// WithProduces declares the output alphabet contract, checked after every
// application that reports a change.
func WithProduces(gs circuit.GateSet) Option {
	return func(t *Transform) { t.produces = gs }
}

// New builds a Transform from a named rewrite procedure.
func New(name string, fn func(*circuit.Circuit) (bool, error), opts ...Option) Transform {
	t := Transform{name: name, fn: fn}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Name returns the transform's name as used in errors and logs.
func (t Transform) Name() string { return t.name }

// Produces returns the declared output alphabet, or nil.
func (t Transform) Produces() circuit.GateSet { return t.produces }

// Apply runs the transform on the circuit in place.
//
// The Expects contract is checked before any rewriting: on violation the
// circuit is untouched and a PRECONDITION_VIOLATED error names the
// offending operation. The Produces contract is checked after a changed
// application; a violation is a defect in the pass itself.
func (t Transform) Apply(c *circuit.Circuit) (bool, error) {
	if t.expects != nil {
		for _, cmd := range c.Cmds {
			if !cmd.Op.IsGate() {
				continue
			}
			if !t.expects.Allows(cmd) {
				return false, NewPreconditionError(t.name, cmd.Op, t.expects.Desc)
			}
		}
	}

	token := nextToken()
	logger().Debug("applying transform",
		"pass", t.name,
		"apply_token", token,
		"gates", c.GateCount(),
		"two_qubit_gates", c.TwoQubitCount())

	changed, err := t.fn(c)
	if err != nil {
		logger().Debug("transform failed",
			"pass", t.name,
			"apply_token", token,
			"error", err)
		return false, err
	}

	if changed && t.produces != nil {
		if cmd, ok := c.FirstOutsideAlphabet(t.produces); ok {
			return true, NewProducesError(t.name, cmd.Op, t.produces.String())
		}
	}

	logger().Debug("transform done",
		"pass", t.name,
		"apply_token", token,
		"changed", changed,
		"gates", c.GateCount(),
		"two_qubit_gates", c.TwoQubitCount())
	return changed, nil
}

var curLog *slog.Logger

// SetLogger replaces the package logger. A nil logger restores the
// default.
func SetLogger(l *slog.Logger) {
	curLog = l
}

func logger() *slog.Logger {
	if curLog != nil {
		return curLog
	}
	return slog.Default()
}
