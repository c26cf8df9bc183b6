package circuit

// OpType identifies the kind of an operation. Angle parameters everywhere
// in this package are in half-turns: a parameter t stands for an angle of
// pi*t radians, so Rz(1) is a Z rotation by pi.
type OpType string

const (
	Noop OpType = "noop"

	// Single-qubit gates.
	X       OpType = "X"
	Y       OpType = "Y"
	Z       OpType = "Z"
	H       OpType = "H"
	S       OpType = "S"
	Sdg     OpType = "Sdg"
	T       OpType = "T"
	Tdg     OpType = "Tdg"
	SX      OpType = "SX"
	SXdg    OpType = "SXdg"
	Rx      OpType = "Rx"
	Ry      OpType = "Ry"
	Rz      OpType = "Rz"
	TK1     OpType = "TK1"     // TK1(a,b,c) = Rz(a) * Rx(b) * Rz(c)
	PhasedX OpType = "PhasedX" // PhasedX(t,p) = Rz(p) * Rx(t) * Rz(-p)

	// Two-qubit gates.
	CX      OpType = "CX"
	CZ      OpType = "CZ"
	SWAP    OpType = "SWAP"
	TK2     OpType = "TK2"     // TK2(a,b,c) = exp(-i*pi/2*(a XX + b YY + c ZZ))
	ZZPhase OpType = "ZZPhase" // exp(-i*pi*t/2 * ZZ)
	XXPhase OpType = "XXPhase" // exp(-i*pi*t/2 * XX)
	YYPhase OpType = "YYPhase" // exp(-i*pi*t/2 * YY)
	ZZMax   OpType = "ZZMax"   // ZZPhase(1/2)
	ECR     OpType = "ECR"     // echoed cross-resonance, (IX - XY)/sqrt(2)

	// Multi-qubit primitives.
	PauliExpBox OpType = "PauliExpBox" // exp(-i*pi*t/2 * P) for a Pauli string P

	// Non-gate operations.
	Barrier      OpType = "Barrier"
	Measure      OpType = "Measure"
	Reset        OpType = "Reset"
	QubitCreate  OpType = "QubitCreate"
	QubitDiscard OpType = "QubitDiscard"

	// Custom is an escape hatch for operation types outside the catalog.
	// It never belongs to any named alphabet.
	Custom OpType = "Custom"
)

// opInfo records the static shape of each operation type. Qubits == 0
// means the operation takes a variable number of wires.
type opInfo struct {
	qubits int
	params int
	gate   bool
}

var opTable = map[OpType]opInfo{
	Noop:    {1, 0, true},
	X:       {1, 0, true},
	Y:       {1, 0, true},
	Z:       {1, 0, true},
	H:       {1, 0, true},
	S:       {1, 0, true},
	Sdg:     {1, 0, true},
	T:       {1, 0, true},
	Tdg:     {1, 0, true},
	SX:      {1, 0, true},
	SXdg:    {1, 0, true},
	Rx:      {1, 1, true},
	Ry:      {1, 1, true},
	Rz:      {1, 1, true},
	TK1:     {1, 3, true},
	PhasedX: {1, 2, true},

	CX:      {2, 0, true},
	CZ:      {2, 0, true},
	SWAP:    {2, 0, true},
	TK2:     {2, 3, true},
	ZZPhase: {2, 1, true},
	XXPhase: {2, 1, true},
	YYPhase: {2, 1, true},
	ZZMax:   {2, 0, true},
	ECR:     {2, 0, true},

	PauliExpBox: {0, 1, true},

	Barrier:      {0, 0, false},
	Measure:      {1, 0, false},
	Reset:        {1, 0, false},
	QubitCreate:  {1, 0, false},
	QubitDiscard: {1, 0, false},

	Custom: {0, 0, true},
}

// NumQubits returns the wire count of the operation type, or 0 for
// variable-arity operations.
func (op OpType) NumQubits() int { return opTable[op].qubits }

// NumParams returns the number of angle parameters the operation carries.
func (op OpType) NumParams() int { return opTable[op].params }

// IsGate reports whether the operation is a unitary gate (as opposed to a
// barrier, measurement or boundary operation).
func (op OpType) IsGate() bool {
	info, ok := opTable[op]
	return ok && info.gate
}

// IsKnown reports whether the operation type belongs to the catalog.
func (op OpType) IsKnown() bool {
	_, ok := opTable[op]
	return ok
}

// Pauli labels a single-qubit Pauli within a Pauli string.
type Pauli byte

const (
	PauliI Pauli = 'I'
	PauliX Pauli = 'X'
	PauliY Pauli = 'Y'
	PauliZ Pauli = 'Z'
)

// PauliString is an ordered list of Paulis, one per wire of a PauliExpBox.
type PauliString []Pauli

// String renders the Pauli string as e.g. "XYZ".
func (p PauliString) String() string {
	b := make([]byte, len(p))
	for i, v := range p {
		b[i] = byte(v)
	}
	return string(b)
}

// Equal reports elementwise equality.
func (p PauliString) Equal(q PauliString) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
