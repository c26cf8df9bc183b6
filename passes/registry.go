package passes

import (
	"fmt"
	"sort"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/transform"
)

// Builder constructs a pass from its configuration arguments, as loaded
// from a pipeline spec or the CLI.
type Builder func(args map[string]any) (transform.Transform, error)

var registry = map[string]Builder{
	"peephole_optimise_2q": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "allow_swaps", "target", "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return PeepholeOptimise2Q(opts...), nil
	},
	"full_peephole_optimise": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "allow_swaps", "target", "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return FullPeepholeOptimise(opts...), nil
	},
	"clifford_simp": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "allow_swaps", "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return CliffordSimp(opts...), nil
	},
	"hyper_clifford_squash": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "allow_swaps", "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return HyperCliffordSquash(opts...), nil
	},
	"canonical_hyper_clifford_squash": func(args map[string]any) (transform.Transform, error) {
		cfg, err := cxConfigArg(args)
		if err != nil {
			return transform.Transform{}, err
		}
		opts, err := commonOpts(args, "allow_swaps", "tolerance", "cx_config")
		if err != nil {
			return transform.Transform{}, err
		}
		return CanonicalHyperCliffordSquash(cfg, opts...), nil
	},
	"optimise_via_phase_gadget": func(args map[string]any) (transform.Transform, error) {
		cfg, err := cxConfigArg(args)
		if err != nil {
			return transform.Transform{}, err
		}
		opts, err := commonOpts(args, "tolerance", "cx_config")
		if err != nil {
			return transform.Transform{}, err
		}
		return OptimiseViaPhaseGadget(cfg, opts...), nil
	},
	"zx_graphlike_optimisation": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return ZXGraphlikeOptimisation(opts...), nil
	},
	"try_zx_graphlike_optimisation": func(args map[string]any) (transform.Transform, error) {
		crit, err := criterionArg(args)
		if err != nil {
			return transform.Transform{}, err
		}
		opts, err := commonOpts(args, "tolerance", "criterion")
		if err != nil {
			return transform.Transform{}, err
		}
		return TryZXGraphlikeOptimisation(crit, opts...), nil
	},
	"synthesise_tk": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return SynthesiseTK(opts...), nil
	},
	"synthesise_tket": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return SynthesiseTKET(opts...), nil
	},
	"synthesise_oqc": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return SynthesiseOQC(opts...), nil
	},
	"synthesise_hqs": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return SynthesiseHQS(opts...), nil
	},
	"synthesise_umd": func(args map[string]any) (transform.Transform, error) {
		opts, err := commonOpts(args, "tolerance")
		if err != nil {
			return transform.Transform{}, err
		}
		return SynthesiseUMD(opts...), nil
	},
	"remove_redundancies": func(args map[string]any) (transform.Transform, error) {
		if _, err := commonOpts(args); err != nil {
			return transform.Transform{}, err
		}
		return RemoveRedundancies(), nil
	},
}

// Names returns the registered pass names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build constructs a registered pass from its name and arguments.
func Build(name string, args map[string]any) (transform.Transform, error) {
	b, ok := registry[name]
	if !ok {
		return transform.Transform{}, fmt.Errorf("passes: unknown pass %q", name)
	}
	return b(args)
}

// commonOpts translates the shared argument keys into Options, rejecting
// any key outside the allowed list for the pass.
func commonOpts(args map[string]any, allowed ...string) ([]Option, error) {
	ok := map[string]bool{}
	for _, k := range allowed {
		ok[k] = true
	}
	for k := range args {
		if !ok[k] {
			return nil, fmt.Errorf("passes: unknown argument %q", k)
		}
	}

	var opts []Option
	if v, present := args["allow_swaps"]; present {
		b, good := v.(bool)
		if !good {
			return nil, fmt.Errorf("passes: allow_swaps must be a bool")
		}
		opts = append(opts, WithAllowSwaps(b))
	}
	if v, present := args["target"]; present {
		s, good := v.(string)
		if !good {
			return nil, fmt.Errorf("passes: target must be a string")
		}
		switch circuit.OpType(s) {
		case circuit.CX:
			opts = append(opts, WithTarget2Q(circuit.CX))
		case circuit.TK2:
			opts = append(opts, WithTarget2Q(circuit.TK2))
		default:
			return nil, fmt.Errorf("passes: target must be CX or TK2, got %q", s)
		}
	}
	if v, present := args["tolerance"]; present {
		f, good := v.(float64)
		if !good {
			return nil, fmt.Errorf("passes: tolerance must be a number")
		}
		opts = append(opts, WithTolerance(f))
	}
	return opts, nil
}

func cxConfigArg(args map[string]any) (transform.CXConfig, error) {
	v, present := args["cx_config"]
	if !present {
		return transform.CXConfigSnake, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("passes: cx_config must be a string")
	}
	switch s {
	case "Snake":
		return transform.CXConfigSnake, nil
	case "Tree":
		return transform.CXConfigTree, nil
	case "Star":
		return transform.CXConfigStar, nil
	case "MultiQGate":
		return transform.CXConfigMultiQGate, nil
	}
	return 0, fmt.Errorf("passes: unknown cx_config %q", s)
}

func criterionArg(args map[string]any) (transform.AcceptanceCriterion, error) {
	v, present := args["criterion"]
	if !present {
		return transform.TwoQubitGateCountNonIncreasing, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("passes: criterion must be a string")
	}
	switch s {
	case "two_qubit_gate_count_non_increasing":
		return transform.TwoQubitGateCountNonIncreasing, nil
	}
	return nil, fmt.Errorf("passes: unknown criterion %q", s)
}
