package circuit

import (
	"sort"
	"strings"
)

// GateSet is a finite alphabet of operation types, used as the
// Expects/Produces contract currency of the transform engine.
type GateSet map[OpType]struct{}

// NewGateSet builds a set from the given operation types.
func NewGateSet(ops ...OpType) GateSet {
	gs := make(GateSet, len(ops))
	for _, op := range ops {
		gs[op] = struct{}{}
	}
	return gs
}

// Contains reports membership.
func (gs GateSet) Contains(op OpType) bool {
	_, ok := gs[op]
	return ok
}

// Union returns a new set with the members of both.
func (gs GateSet) Union(other GateSet) GateSet {
	out := make(GateSet, len(gs)+len(other))
	for op := range gs {
		out[op] = struct{}{}
	}
	for op := range other {
		out[op] = struct{}{}
	}
	return out
}

// String renders the set in sorted order, e.g. "{CX, TK1}".
func (gs GateSet) String() string {
	names := make([]string, 0, len(gs))
	for op := range gs {
		names = append(names, string(op))
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}

// Named alphabets used by the pass library contracts.
var (
	// SingleQubitGates is every fixed single-qubit gate in the catalog.
	SingleQubitGates = NewGateSet(Noop, X, Y, Z, H, S, Sdg, T, Tdg, SX, SXdg, Rx, Ry, Rz, TK1, PhasedX)

	// CXTK1 is the {CX, TK1} output alphabet of the optimisation family.
	CXTK1 = NewGateSet(CX, TK1)

	// TK2TK1 is the {TK2, TK1} output alphabet of synthesise_tk.
	TK2TK1 = NewGateSet(TK2, TK1)

	// OQCAlphabet is the {Rz, SX, ECR} target of synthesise_OQC.
	OQCAlphabet = NewGateSet(Rz, SX, ECR)

	// HQSAlphabet is the {ZZMax, PhasedX, Rz} target of synthesise_HQS.
	HQSAlphabet = NewGateSet(ZZMax, PhasedX, Rz)

	// UMDAlphabet is the {XXPhase, PhasedX, Rz} target of synthesise_UMD.
	UMDAlphabet = NewGateSet(XXPhase, PhasedX, Rz)

	// ZXReferenceAlphabet is the fixed rebase target used before ZX
	// optimisation: {Rx, Rz, X, Z, H, CZ, CX}.
	ZXReferenceAlphabet = NewGateSet(Rx, Rz, X, Z, H, CZ, CX)
)
