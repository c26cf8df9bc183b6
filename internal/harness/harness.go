// Package harness runs end-to-end optimizer scenarios described as YAML
// documents: build the input circuit, assemble the pipeline from the
// pass registry, apply it, and check the declared expectations against
// the result.
package harness

import (
	"errors"
	"fmt"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/internal/matrix"
	"github.com/rydberg-labs/circopt/passes"
	"github.com/rydberg-labs/circopt/transform"
)

// Result is the outcome of running a scenario's pipeline.
type Result struct {
	// Input is the circuit as loaded, before any pass ran.
	Input *circuit.Circuit

	// Output is the circuit after the pipeline. For failing pipelines it
	// is the state at the point of failure.
	Output *circuit.Circuit

	// Changed reports whether any pass changed the circuit.
	Changed bool

	// Err is the pipeline error, if any.
	Err error
}

// Run executes the scenario's pipeline and checks its expectations. The
// returned Result is non-nil whenever the pipeline itself was runnable;
// the error covers both setup failures and unmet expectations.
func Run(s *Scenario) (*Result, error) {
	input, err := s.Circuit.Build()
	if err != nil {
		return nil, err
	}
	seq, err := buildPipeline(s.Pipeline)
	if err != nil {
		return nil, err
	}

	work := input.Copy()
	changed, perr := seq.Apply(work)
	res := &Result{Input: input, Output: work, Changed: changed, Err: perr}
	if err := checkExpectations(s, res); err != nil {
		return res, err
	}
	return res, nil
}

func buildPipeline(docs []PassDoc) (transform.Transform, error) {
	ts := make([]transform.Transform, 0, len(docs))
	for i, d := range docs {
		t, err := passes.Build(d.Name, d.Args)
		if err != nil {
			return transform.Transform{}, fmt.Errorf("pipeline pass %d: %w", i, err)
		}
		ts = append(ts, t)
	}
	return transform.Sequence(ts...), nil
}

func checkExpectations(s *Scenario, res *Result) error {
	if s.Expect.Error != "" {
		var pe *transform.PassError
		if res.Err == nil || !errors.As(res.Err, &pe) {
			return fmt.Errorf("expected error %s, pipeline returned %v", s.Expect.Error, res.Err)
		}
		if string(pe.Code) != s.Expect.Error {
			return fmt.Errorf("expected error %s, got %s", s.Expect.Error, pe.Code)
		}
		return nil
	}
	if res.Err != nil {
		return fmt.Errorf("pipeline failed: %w", res.Err)
	}

	if s.Expect.Changed != nil && res.Changed != *s.Expect.Changed {
		return fmt.Errorf("expected changed=%v, got %v", *s.Expect.Changed, res.Changed)
	}
	if s.Expect.MaxTwoQubitCount != nil {
		if n := res.Output.TwoQubitCount(); n > *s.Expect.MaxTwoQubitCount {
			return fmt.Errorf("two-qubit count %d exceeds bound %d", n, *s.Expect.MaxTwoQubitCount)
		}
	}
	if len(s.Expect.Alphabet) > 0 {
		ops := make([]circuit.OpType, len(s.Expect.Alphabet))
		for i, op := range s.Expect.Alphabet {
			ops[i] = circuit.OpType(op)
		}
		gs := circuit.NewGateSet(ops...)
		if cmd, ok := res.Output.FirstOutsideAlphabet(gs); ok {
			return fmt.Errorf("op %s outside expected alphabet %s", cmd.Op, gs)
		}
	}
	if s.Expect.UnitaryPreserved {
		if err := checkUnitaryPreserved(res.Input, res.Output); err != nil {
			return err
		}
	}
	return nil
}

func checkUnitaryPreserved(in, out *circuit.Circuit) error {
	want, err := in.Unitary()
	if err != nil {
		return fmt.Errorf("input unitary: %w", err)
	}
	got, err := out.Unitary()
	if err != nil {
		return fmt.Errorf("output unitary: %w", err)
	}
	if d := matrix.PhaseDistance(want, got); d > 1e-8 {
		return fmt.Errorf("unitary not preserved, phase distance %.3g", d)
	}
	return nil
}
