package transform

import (
	"errors"
	"fmt"

	"github.com/rydberg-labs/circopt/circuit"
)

// PassError represents a failure raised by a pass or combinator.
//
// Error categories:
//   - Precondition: a gate outside the pass's Expects alphabet, or a
//     Produces contract broken by construction. Detected eagerly; the
//     circuit is never partially rewritten.
//   - Unsupported circuit: a structural precondition failed (e.g.
//     mid-circuit qubit creation for the ZX pass).
//   - Decomposition: a local window could not be resynthesized within the
//     numerical tolerance. Passes recover by leaving the window alone;
//     the code only surfaces where recovery is impossible.
//   - Non-termination: a fixpoint combinator hit its iteration budget,
//     which signals a monotonicity defect in the wrapped transform.
//
// PassError carries structured fields so a caller can pick a fallback
// pass or gate-set target.
type PassError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Pass names the transform that raised the error.
	Pass string

	// Op is the offending operation type (precondition errors).
	Op circuit.OpType

	// Expected describes the violated alphabet or structural contract.
	Expected string

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes pass errors.
type ErrorCode string

const (
	// ErrCodePrecondition indicates an Expects or Produces alphabet
	// contract violation.
	ErrCodePrecondition ErrorCode = "PRECONDITION_VIOLATED"

	// ErrCodeUnsupportedCircuit indicates a structural precondition
	// violation.
	ErrCodeUnsupportedCircuit ErrorCode = "UNSUPPORTED_CIRCUIT"

	// ErrCodeDecomposition indicates a window could not be decomposed to
	// tolerance.
	ErrCodeDecomposition ErrorCode = "DECOMPOSITION_FAILED"

	// ErrCodeNonTermination indicates a fixpoint iteration budget was
	// exceeded.
	ErrCodeNonTermination ErrorCode = "NON_TERMINATION"
)

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.Op != "" && e.Expected != "" {
		return fmt.Sprintf("%s: %s (pass=%s, op=%s, expected=%s)", e.Code, e.Message, e.Pass, e.Op, e.Expected)
	}
	if e.Pass != "" {
		return fmt.Sprintf("%s: %s (pass=%s)", e.Code, e.Message, e.Pass)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPreconditionError reports whether err is an alphabet contract
// violation. Uses errors.As to handle wrapped errors.
func IsPreconditionError(err error) bool { return hasCode(err, ErrCodePrecondition) }

// IsUnsupportedCircuitError reports whether err is a structural
// precondition violation.
func IsUnsupportedCircuitError(err error) bool { return hasCode(err, ErrCodeUnsupportedCircuit) }

// IsDecompositionError reports whether err is a decomposition failure.
func IsDecompositionError(err error) bool { return hasCode(err, ErrCodeDecomposition) }

// IsNonTerminationError reports whether err is a fixpoint budget
// exhaustion.
func IsNonTerminationError(err error) bool { return hasCode(err, ErrCodeNonTermination) }

func hasCode(err error, code ErrorCode) bool {
	var pe *PassError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// NewPreconditionError creates a PassError for a gate outside the
// Expects alphabet.
func NewPreconditionError(pass string, op circuit.OpType, expected string) *PassError {
	return &PassError{
		Code:     ErrCodePrecondition,
		Pass:     pass,
		Op:       op,
		Expected: expected,
		Message:  "operation outside the pass alphabet",
	}
}

// NewProducesError creates a PassError for a Produces contract broken by
// the pass itself, which is a defect in the pass, not in the input.
func NewProducesError(pass string, op circuit.OpType, produced string) *PassError {
	return &PassError{
		Code:     ErrCodePrecondition,
		Pass:     pass,
		Op:       op,
		Expected: produced,
		Message:  "pass emitted an operation outside its declared output alphabet",
	}
}

// NewUnsupportedCircuitError creates a PassError for a structural
// precondition violation.
func NewUnsupportedCircuitError(pass, message string) *PassError {
	return &PassError{Code: ErrCodeUnsupportedCircuit, Pass: pass, Message: message}
}

// NewDecompositionError creates a PassError for a window that could not
// be decomposed within tolerance.
func NewDecompositionError(pass, window string) *PassError {
	return &PassError{
		Code:    ErrCodeDecomposition,
		Pass:    pass,
		Message: fmt.Sprintf("window %s could not be decomposed to tolerance", window),
	}
}

// NewNonTerminationError creates a PassError for a fixpoint combinator
// that exceeded its iteration budget.
func NewNonTerminationError(pass string, iterations int) *PassError {
	return &PassError{
		Code:    ErrCodeNonTermination,
		Pass:    pass,
		Message: fmt.Sprintf("no fixpoint after %d iterations", iterations),
	}
}
