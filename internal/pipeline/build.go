package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rydberg-labs/circopt/passes"
	"github.com/rydberg-labs/circopt/transform"
)

// Validate checks every pass of the spec against the registry without
// building the transforms. It returns the first problem found.
func Validate(spec *Spec) error {
	for i, ps := range spec.Passes {
		if _, err := passes.Build(ps.Name, ps.Args); err != nil {
			return &CompileError{
				Field:   fmt.Sprintf("pipeline.passes[%d]", i),
				Message: err.Error(),
			}
		}
	}
	return nil
}

// Build assembles the spec into a single sequenced transform.
func Build(spec *Spec) (transform.Transform, error) {
	ts := make([]transform.Transform, 0, len(spec.Passes))
	for i, ps := range spec.Passes {
		t, err := passes.Build(ps.Name, ps.Args)
		if err != nil {
			return transform.Transform{}, &CompileError{
				Field:   fmt.Sprintf("pipeline.passes[%d]", i),
				Message: err.Error(),
			}
		}
		ts = append(ts, t)
	}
	return transform.Sequence(ts...), nil
}

// Fingerprint renders the spec in a canonical text form used as the
// cache key component for pipeline identity.
func (s *Spec) Fingerprint() string {
	var sb strings.Builder
	for _, ps := range s.Passes {
		sb.WriteString(ps.Name)
		if len(ps.Args) > 0 {
			fmt.Fprintf(&sb, "%s", canonicalArgs(ps.Args))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func canonicalArgs(args map[string]any) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	// Sorted keys keep the fingerprint independent of map order.
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%v", k, args[k])
	}
	sb.WriteByte(')')
	return sb.String()
}
