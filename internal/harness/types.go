package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rydberg-labs/circopt/circuit"
)

// CircuitDoc is the YAML surface of a circuit. It is the input format of
// the CLI and the scenario harness, and round-trips through
// DocFromCircuit for cache storage.
type CircuitDoc struct {
	Qubits int       `yaml:"qubits"`
	Gates  []GateDoc `yaml:"gates,omitempty"`
	Perm   []int     `yaml:"perm,omitempty"`
}

// GateDoc is one operation of a CircuitDoc.
type GateDoc struct {
	Op     string    `yaml:"op"`
	Qubits []int     `yaml:"qubits"`
	Params []float64 `yaml:"params,omitempty"`
	Paulis string    `yaml:"paulis,omitempty"`
}

// LoadCircuit reads and builds a circuit from a YAML file.
func LoadCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading circuit: %w", err)
	}
	var doc CircuitDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing circuit: %w", err)
	}
	return doc.Build()
}

// Build validates the document and constructs the circuit.
func (d *CircuitDoc) Build() (*circuit.Circuit, error) {
	if d.Qubits <= 0 {
		return nil, fmt.Errorf("circuit: qubits must be positive, got %d", d.Qubits)
	}
	c := circuit.New(d.Qubits)
	for i, g := range d.Gates {
		cmd, err := g.command(d.Qubits)
		if err != nil {
			return nil, fmt.Errorf("circuit: gate %d: %w", i, err)
		}
		c.Cmds = append(c.Cmds, cmd)
	}
	if d.Perm != nil {
		if err := validPerm(d.Perm, d.Qubits); err != nil {
			return nil, fmt.Errorf("circuit: %w", err)
		}
		copy(c.Perm, d.Perm)
	}
	return c, nil
}

func (g GateDoc) command(numQubits int) (circuit.Command, error) {
	op := circuit.OpType(g.Op)
	if !op.IsKnown() {
		return circuit.Command{}, fmt.Errorf("unknown op %q", g.Op)
	}
	if n := op.NumQubits(); n != 0 && len(g.Qubits) != n {
		return circuit.Command{}, fmt.Errorf("%s takes %d qubit(s), got %d", op, n, len(g.Qubits))
	}
	if op == circuit.Barrier && len(g.Qubits) == 0 {
		// Wireless barrier: fences every wire.
	} else if len(g.Qubits) == 0 {
		return circuit.Command{}, fmt.Errorf("%s needs at least one qubit", op)
	}
	seen := map[int]bool{}
	for _, q := range g.Qubits {
		if q < 0 || q >= numQubits {
			return circuit.Command{}, fmt.Errorf("qubit %d out of range [0, %d)", q, numQubits)
		}
		if seen[q] {
			return circuit.Command{}, fmt.Errorf("qubit %d repeated", q)
		}
		seen[q] = true
	}
	if op != circuit.Custom && len(g.Params) != op.NumParams() {
		return circuit.Command{}, fmt.Errorf("%s takes %d parameter(s), got %d", op, op.NumParams(), len(g.Params))
	}

	cmd := circuit.Command{Op: op}
	if len(g.Qubits) > 0 {
		cmd.Qubits = append([]int(nil), g.Qubits...)
	}
	if len(g.Params) > 0 {
		cmd.Params = append([]float64(nil), g.Params...)
	}
	if op == circuit.PauliExpBox {
		ps, err := parsePaulis(g.Paulis)
		if err != nil {
			return circuit.Command{}, err
		}
		if len(ps) != len(g.Qubits) {
			return circuit.Command{}, fmt.Errorf("pauli string %q has %d letters for %d qubits", g.Paulis, len(ps), len(g.Qubits))
		}
		cmd.Paulis = ps
	} else if g.Paulis != "" {
		return circuit.Command{}, fmt.Errorf("%s does not take a pauli string", op)
	}
	return cmd, nil
}

func parsePaulis(s string) (circuit.PauliString, error) {
	if s == "" {
		return nil, fmt.Errorf("pauli string is required")
	}
	ps := make(circuit.PauliString, len(s))
	for i := 0; i < len(s); i++ {
		switch p := circuit.Pauli(s[i]); p {
		case circuit.PauliI, circuit.PauliX, circuit.PauliY, circuit.PauliZ:
			ps[i] = p
		default:
			return nil, fmt.Errorf("pauli string %q has invalid letter %q", s, s[i])
		}
	}
	return ps, nil
}

func validPerm(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("perm has %d entries for %d qubits", len(perm), n)
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			return fmt.Errorf("perm %v is not a permutation of 0..%d", perm, n-1)
		}
		seen[v] = true
	}
	return nil
}

// DocFromCircuit converts a circuit back into its YAML document form.
func DocFromCircuit(c *circuit.Circuit) *CircuitDoc {
	doc := &CircuitDoc{Qubits: c.NumQubits}
	for _, cmd := range c.Cmds {
		g := GateDoc{
			Op:     string(cmd.Op),
			Qubits: append([]int(nil), cmd.Qubits...),
		}
		if len(cmd.Params) > 0 {
			g.Params = append([]float64(nil), cmd.Params...)
		}
		if len(cmd.Paulis) > 0 {
			g.Paulis = cmd.Paulis.String()
		}
		doc.Gates = append(doc.Gates, g)
	}
	if !c.PermIsIdentity() {
		doc.Perm = append([]int(nil), c.Perm...)
	}
	return doc
}

// MarshalCircuit renders a circuit as YAML.
func MarshalCircuit(c *circuit.Circuit) ([]byte, error) {
	return yaml.Marshal(DocFromCircuit(c))
}
