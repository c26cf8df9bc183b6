package passes

import (
	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/kak"
	"github.com/rydberg-labs/circopt/transform"
)

// The synthesis family rewrites a circuit into a hardware gate alphabet
// without touching the wire layout of multi-qubit gates: the output
// entangler count equals the CX count of the expanded circuit, one
// native template per CX.

// SynthesiseTK rebases into {TK2, TK1}.
func SynthesiseTK(opts ...Option) transform.Transform {
	o := newOptions(opts)
	spec := targetSpec{
		alphabet: circuit.TK2TK1,
		cx: func(tol float64) ([]circuit.Command, error) {
			m, _ := circuit.LocalMatrix(circuit.Command{Op: circuit.CX, Qubits: []int{0, 1}})
			cmds, _, err := kak.Resynthesize(m, kak.Options{Target: circuit.TK2, Tol: tol})
			return cmds, err
		},
		emit: emitTK1,
	}
	return newRebase("synthesise_tk", spec, o,
		transform.WithProduces(circuit.TK2TK1))
}

// SynthesiseTKET rebases into {CX, TK1}.
func SynthesiseTKET(opts ...Option) transform.Transform {
	o := newOptions(opts)
	spec := targetSpec{
		alphabet: circuit.CXTK1,
		emit:     emitTK1,
	}
	return newRebase("synthesise_tket", spec, o,
		transform.WithProduces(circuit.CXTK1))
}

// SynthesiseOQC rebases into {Rz, SX, ECR}.
func SynthesiseOQC(opts ...Option) transform.Transform {
	o := newOptions(opts)
	spec := targetSpec{
		alphabet: circuit.OQCAlphabet,
		cx: func(tol float64) ([]circuit.Command, error) {
			return bridgeCX(circuit.Command{Op: circuit.ECR, Qubits: []int{0, 1}}, tol)
		},
		emit: emitRzSX,
	}
	return newRebase("synthesise_oqc", spec, o,
		transform.WithProduces(circuit.OQCAlphabet))
}

// SynthesiseHQS rebases into {ZZMax, PhasedX, Rz}. Unlike the other
// synthesis passes it requires the input already expressed over CX and
// single-qubit gates.
func SynthesiseHQS(opts ...Option) transform.Transform {
	o := newOptions(opts)
	spec := targetSpec{
		alphabet: circuit.HQSAlphabet,
		cx: func(tol float64) ([]circuit.Command, error) {
			return bridgeCX(circuit.Command{Op: circuit.ZZMax, Qubits: []int{0, 1}}, tol)
		},
		emit: emitRzPhasedX,
	}
	return newRebase("synthesise_hqs", spec, o,
		transform.WithExpects(transform.CXPlusSingleQubit()),
		transform.WithProduces(circuit.HQSAlphabet))
}

// SynthesiseUMD rebases into {XXPhase, PhasedX, Rz}.
func SynthesiseUMD(opts ...Option) transform.Transform {
	o := newOptions(opts)
	spec := targetSpec{
		alphabet: circuit.UMDAlphabet,
		cx: func(tol float64) ([]circuit.Command, error) {
			return bridgeCX(circuit.Command{Op: circuit.XXPhase, Qubits: []int{0, 1}, Params: []float64{0.5}}, tol)
		},
		emit: emitRzPhasedX,
	}
	return newRebase("synthesise_umd", spec, o,
		transform.WithProduces(circuit.UMDAlphabet))
}

func newRebase(name string, spec targetSpec, o options, topts ...transform.Option) transform.Transform {
	return transform.New(name, func(c *circuit.Circuit) (bool, error) {
		return rebaseCircuit(name, c, spec, o.tol)
	}, topts...)
}
