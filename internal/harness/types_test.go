package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rydberg-labs/circopt/circuit"
)

func TestCircuitDocRoundTrip(t *testing.T) {
	c := circuit.New(3)
	c.Add(circuit.H, []int{0})
	c.Add(circuit.CX, []int{0, 1})
	c.Add(circuit.Rz, []int{2}, 0.375)
	c.AddPauliExp(circuit.PauliString{circuit.PauliZ, circuit.PauliI, circuit.PauliX}, 0.25, []int{0, 1, 2})
	c.ComposeSwap(1, 2)

	doc := DocFromCircuit(c)
	got, err := doc.Build()
	require.NoError(t, err)
	require.True(t, c.Equal(got))
}

func TestDocFromCircuitOmitsIdentityPerm(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.H, []int{0})
	require.Nil(t, DocFromCircuit(c).Perm)
}

func TestMarshalCircuit(t *testing.T) {
	c := circuit.New(2)
	c.Add(circuit.CX, []int{0, 1})

	data, err := MarshalCircuit(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), "qubits: 2")
	assert.Contains(t, string(data), "op: CX")
}

func TestLoadCircuit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bell.yaml")
	body := "qubits: 2\ngates:\n  - {op: H, qubits: [0]}\n  - {op: CX, qubits: [0, 1]}\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	c, err := LoadCircuit(p)
	require.NoError(t, err)
	require.Equal(t, 2, c.NumQubits)
	require.Len(t, c.Cmds, 2)
}

func TestBuildValidation(t *testing.T) {
	cases := []struct {
		name string
		doc  CircuitDoc
		want string
	}{
		{
			name: "zero qubits",
			doc:  CircuitDoc{Qubits: 0},
			want: "qubits must be positive",
		},
		{
			name: "unknown op",
			doc:  CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "Frobnicate", Qubits: []int{0}}}},
			want: "unknown op",
		},
		{
			name: "wrong arity",
			doc:  CircuitDoc{Qubits: 2, Gates: []GateDoc{{Op: "CX", Qubits: []int{0}}}},
			want: "takes 2 qubit(s)",
		},
		{
			name: "qubit out of range",
			doc:  CircuitDoc{Qubits: 2, Gates: []GateDoc{{Op: "H", Qubits: []int{2}}}},
			want: "out of range",
		},
		{
			name: "repeated qubit",
			doc:  CircuitDoc{Qubits: 2, Gates: []GateDoc{{Op: "CX", Qubits: []int{1, 1}}}},
			want: "repeated",
		},
		{
			name: "missing params",
			doc:  CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "Rz", Qubits: []int{0}}}},
			want: "takes 1 parameter(s)",
		},
		{
			name: "extra params",
			doc:  CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "H", Qubits: []int{0}, Params: []float64{0.5}}}},
			want: "takes 0 parameter(s)",
		},
		{
			name: "pauli length mismatch",
			doc:  CircuitDoc{Qubits: 2, Gates: []GateDoc{{Op: "PauliExpBox", Qubits: []int{0, 1}, Params: []float64{0.5}, Paulis: "Z"}}},
			want: "has 1 letters for 2 qubits",
		},
		{
			name: "bad pauli letter",
			doc:  CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "PauliExpBox", Qubits: []int{0}, Params: []float64{0.5}, Paulis: "Q"}}},
			want: "invalid letter",
		},
		{
			name: "paulis on plain gate",
			doc:  CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "H", Qubits: []int{0}, Paulis: "Z"}}},
			want: "does not take a pauli string",
		},
		{
			name: "perm wrong length",
			doc:  CircuitDoc{Qubits: 2, Perm: []int{0}},
			want: "perm has 1 entries",
		},
		{
			name: "perm not a permutation",
			doc:  CircuitDoc{Qubits: 2, Perm: []int{0, 0}},
			want: "not a permutation",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.doc.Build()
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestBuildWirelessBarrier(t *testing.T) {
	doc := CircuitDoc{Qubits: 3, Gates: []GateDoc{{Op: "Barrier"}}}
	c, err := doc.Build()
	require.NoError(t, err)
	require.Len(t, c.Cmds, 1)
	require.Empty(t, c.Cmds[0].Qubits)
}

func TestBuildCustomSkipsParamCheck(t *testing.T) {
	doc := CircuitDoc{Qubits: 1, Gates: []GateDoc{{Op: "Custom", Qubits: []int{0}, Params: []float64{0.1, 0.2}}}}
	c, err := doc.Build()
	require.NoError(t, err)
	require.Equal(t, circuit.Custom, c.Cmds[0].Op)
}
