package transform

import "github.com/rydberg-labs/circopt/circuit"

// Sequence applies the transforms in order. The overall changed result is
// the logical OR of the constituents. Contract checking happens inside
// each constituent's Apply, so a Produces/Expects mismatch between stages
// surfaces as a PRECONDITION_VIOLATED error from the stage whose Expects
// failed, before that stage touches the circuit.
func Sequence(ts ...Transform) Transform {
	return New("sequence", func(c *circuit.Circuit) (bool, error) {
		changed := false
		for _, t := range ts {
			ch, err := t.Apply(c)
			if err != nil {
				return changed, err
			}
			changed = changed || ch
		}
		return changed, nil
	})
}

// Then sequences two transforms, the Go spelling of the >> composition
// operator.
func (t Transform) Then(next Transform) Transform {
	return Sequence(t, next)
}

// RepeatToFixpoint applies t until it reports no change. Transforms used
// under this combinator must be strictly cost-decreasing or bounded; the
// iteration budget (MaxFixpointIterations) exists only to convert a
// monotonicity defect into a NON_TERMINATION error instead of a hang.
func RepeatToFixpoint(t Transform) Transform {
	return New("fixpoint("+t.name+")", func(c *circuit.Circuit) (bool, error) {
		changed := false
		for i := 0; ; i++ {
			if i >= MaxFixpointIterations {
				return changed, NewNonTerminationError(t.name, i)
			}
			ch, err := t.Apply(c)
			if err != nil {
				return changed, err
			}
			if !ch {
				return changed, nil
			}
			changed = true
		}
	})
}

// TryWithCriterion applies t to a scoped copy of the circuit and keeps
// the result only if criterion(original, candidate) accepts it. On
// rejection the original is untouched and changed=false; rejection is a
// policy outcome, not an error. The candidate copy is released on both
// branches.
func TryWithCriterion(t Transform, criterion AcceptanceCriterion) Transform {
	return New("try("+t.name+")", func(c *circuit.Circuit) (bool, error) {
		candidate := c.Copy()
		changed, err := t.Apply(candidate)
		if err != nil {
			return false, err
		}
		if !changed {
			return false, nil
		}
		if !criterion(c, candidate) {
			return false, nil
		}
		c.ReplaceWith(candidate)
		return true, nil
	})
}
