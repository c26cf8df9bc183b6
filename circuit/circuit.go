// Package circuit holds the circuit intermediate representation that the
// transform engine rewrites: a sequence of operations over qubit wires,
// kept in topological order, plus an implicit output wire permutation.
//
// Circuits are owned by the caller. Transforms mutate them in place and
// never retain references across applications.
package circuit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Command is one operation applied to an ordered list of wires.
type Command struct {
	Op     OpType
	Qubits []int
	Params []float64
	// Paulis is set only for PauliExpBox commands, one entry per wire.
	Paulis PauliString
}

// Clone returns a deep copy of the command.
func (c Command) Clone() Command {
	out := Command{Op: c.Op}
	out.Qubits = append([]int(nil), c.Qubits...)
	out.Params = append([]float64(nil), c.Params...)
	out.Paulis = append(PauliString(nil), c.Paulis...)
	return out
}

// Equal reports structural equality, with angle parameters compared
// exactly (callers comparing resynthesized circuits should compare
// unitaries instead).
func (c Command) Equal(other Command) bool {
	if c.Op != other.Op || len(c.Qubits) != len(other.Qubits) || len(c.Params) != len(other.Params) {
		return false
	}
	for i := range c.Qubits {
		if c.Qubits[i] != other.Qubits[i] {
			return false
		}
	}
	for i := range c.Params {
		if c.Params[i] != other.Params[i] {
			return false
		}
	}
	return c.Paulis.Equal(other.Paulis)
}

func (c Command) String() string {
	var sb strings.Builder
	sb.WriteString(string(c.Op))
	if c.Op == PauliExpBox {
		sb.WriteString("(" + c.Paulis.String())
		for _, p := range c.Params {
			sb.WriteString(", " + formatParam(p))
		}
		sb.WriteString(")")
	} else if len(c.Params) > 0 {
		parts := make([]string, len(c.Params))
		for i, p := range c.Params {
			parts[i] = formatParam(p)
		}
		sb.WriteString("(" + strings.Join(parts, ", ") + ")")
	}
	wires := make([]string, len(c.Qubits))
	for i, q := range c.Qubits {
		wires[i] = "q[" + strconv.Itoa(q) + "]"
	}
	sb.WriteString(" " + strings.Join(wires, ", "))
	return sb.String()
}

// formatParam renders a half-turn angle with noise below 1e-10 snapped
// away, keeping text dumps stable across resynthesis.
func formatParam(p float64) string {
	snapped := math.Round(p*1e10) / 1e10
	if snapped == 0 {
		snapped = 0 // normalize -0
	}
	return strconv.FormatFloat(snapped, 'g', -1, 64)
}

// Circuit is a DAG of operations over qubit wires, represented as a
// command sequence in topological order. Wires are indexed 0..NumQubits-1.
//
// Perm is the implicit output permutation: the logical qubit entering on
// wire q leaves on wire Perm[q]. Passes that introduce implicit swaps
// (allow_swaps) update Perm instead of emitting SWAP gates.
type Circuit struct {
	NumQubits int
	Cmds      []Command
	Perm      []int
}

// New creates an empty circuit on n qubits with the identity permutation.
func New(n int) *Circuit {
	c := &Circuit{NumQubits: n, Perm: make([]int, n)}
	for i := range c.Perm {
		c.Perm[i] = i
	}
	return c
}

// Add appends a gate. It panics on arity mismatches, which are programmer
// errors; circuits built from external input are validated at the loader.
func (c *Circuit) Add(op OpType, qubits []int, params ...float64) *Circuit {
	if n := op.NumQubits(); n != 0 && n != len(qubits) {
		panic(fmt.Sprintf("circuit: %s takes %d wires, got %d", op, n, len(qubits)))
	}
	if n := op.NumParams(); op != Custom && n != len(params) {
		panic(fmt.Sprintf("circuit: %s takes %d params, got %d", op, n, len(params)))
	}
	for _, q := range qubits {
		if q < 0 || q >= c.NumQubits {
			panic(fmt.Sprintf("circuit: wire %d out of range [0,%d)", q, c.NumQubits))
		}
	}
	c.Cmds = append(c.Cmds, Command{Op: op, Qubits: append([]int(nil), qubits...), Params: append([]float64(nil), params...)})
	return c
}

// AddPauliExp appends a Pauli-exponential box exp(-i*pi*t/2 * P) over the
// given wires, one Pauli per wire.
func (c *Circuit) AddPauliExp(paulis PauliString, t float64, qubits []int) *Circuit {
	if len(paulis) != len(qubits) {
		panic(fmt.Sprintf("circuit: pauli string length %d != wire count %d", len(paulis), len(qubits)))
	}
	c.Cmds = append(c.Cmds, Command{
		Op:     PauliExpBox,
		Qubits: append([]int(nil), qubits...),
		Params: []float64{t},
		Paulis: append(PauliString(nil), paulis...),
	})
	return c
}

// Append appends an already-built command.
func (c *Circuit) Append(cmd Command) *Circuit {
	c.Cmds = append(c.Cmds, cmd)
	return c
}

// Copy returns a deep copy.
func (c *Circuit) Copy() *Circuit {
	out := &Circuit{
		NumQubits: c.NumQubits,
		Cmds:      make([]Command, len(c.Cmds)),
		Perm:      append([]int(nil), c.Perm...),
	}
	for i, cmd := range c.Cmds {
		out.Cmds[i] = cmd.Clone()
	}
	return out
}

// ReplaceWith overwrites the receiver's content with other's. The caller
// keeps its pointer; conditional-accept uses this to adopt a candidate.
func (c *Circuit) ReplaceWith(other *Circuit) {
	cp := other.Copy()
	c.NumQubits = cp.NumQubits
	c.Cmds = cp.Cmds
	c.Perm = cp.Perm
}

// Equal reports structural identity: same width, same commands in the
// same order, same implicit permutation.
func (c *Circuit) Equal(other *Circuit) bool {
	if c.NumQubits != other.NumQubits || len(c.Cmds) != len(other.Cmds) {
		return false
	}
	for i := range c.Perm {
		if c.Perm[i] != other.Perm[i] {
			return false
		}
	}
	for i := range c.Cmds {
		if !c.Cmds[i].Equal(other.Cmds[i]) {
			return false
		}
	}
	return true
}

// AlphabetSubsetOf reports whether every gate belongs to the alphabet.
// Non-gate operations (barriers, measurements, boundary operations) are
// outside the contract currency and always pass.
func (c *Circuit) AlphabetSubsetOf(gs GateSet) bool {
	_, ok := c.FirstOutsideAlphabet(gs)
	return !ok
}

// FirstOutsideAlphabet returns the first gate not in the alphabet.
func (c *Circuit) FirstOutsideAlphabet(gs GateSet) (Command, bool) {
	for _, cmd := range c.Cmds {
		if !cmd.Op.IsGate() {
			continue
		}
		if !gs.Contains(cmd.Op) {
			return cmd, true
		}
	}
	return Command{}, false
}

// GateCount returns the number of gate commands.
func (c *Circuit) GateCount() int {
	n := 0
	for _, cmd := range c.Cmds {
		if cmd.Op.IsGate() {
			n++
		}
	}
	return n
}

// OpCount returns the number of commands of the given type.
func (c *Circuit) OpCount(op OpType) int {
	n := 0
	for _, cmd := range c.Cmds {
		if cmd.Op == op {
			n++
		}
	}
	return n
}

// TwoQubitCount returns the number of gates acting on two or more wires,
// the primary cost metric of the optimisation passes.
func (c *Circuit) TwoQubitCount() int {
	n := 0
	for _, cmd := range c.Cmds {
		if cmd.Op.IsGate() && len(cmd.Qubits) >= 2 {
			n++
		}
	}
	return n
}

// Depth returns the circuit depth counting gate commands only. Barriers
// synchronize all wires they touch but do not count as a layer.
func (c *Circuit) Depth() int {
	frontier := make([]int, c.NumQubits)
	for _, cmd := range c.Cmds {
		if !cmd.Op.IsGate() {
			continue
		}
		layer := 0
		for _, q := range cmd.Qubits {
			if frontier[q] > layer {
				layer = frontier[q]
			}
		}
		layer++
		for _, q := range cmd.Qubits {
			frontier[q] = layer
		}
	}
	depth := 0
	for _, f := range frontier {
		if f > depth {
			depth = f
		}
	}
	return depth
}

// HasBoundaryOps reports whether the circuit creates or discards qubits
// (or resets/measures) anywhere, which the ZX pass cannot represent.
func (c *Circuit) HasBoundaryOps() bool {
	for _, cmd := range c.Cmds {
		switch cmd.Op {
		case QubitCreate, QubitDiscard, Reset, Measure:
			return true
		}
	}
	return false
}

// PermIsIdentity reports whether the implicit permutation is trivial.
func (c *Circuit) PermIsIdentity() bool {
	for i, p := range c.Perm {
		if p != i {
			return false
		}
	}
	return true
}

// ComposeSwap records an implicit swap of wires a and b occurring at the
// end of the gate sequence, before the previously recorded permutation.
func (c *Circuit) ComposeSwap(a, b int) {
	c.Perm[a], c.Perm[b] = c.Perm[b], c.Perm[a]
}

// ComposePerm applies a further permutation after the existing one:
// a logical qubit currently ending on wire w moves to wire p[w].
func (c *Circuit) ComposePerm(p []int) {
	for i, cur := range c.Perm {
		c.Perm[i] = p[cur]
	}
}

// String renders a stable text dump used by golden tests and the CLI.
func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "qubits: %d\n", c.NumQubits)
	if !c.PermIsIdentity() {
		fmt.Fprintf(&sb, "perm: %v\n", c.Perm)
	}
	for _, cmd := range c.Cmds {
		sb.WriteString(cmd.String() + "\n")
	}
	return sb.String()
}
