package passes

import (
	"fmt"
	"sort"

	"github.com/rydberg-labs/circopt/circuit"
	"github.com/rydberg-labs/circopt/transform"
)

func gadgetContract() *transform.Contract {
	return &transform.Contract{
		Desc: "{PauliExpBox, CX, any single-qubit gate}",
		Allows: func(cmd circuit.Command) bool {
			return cmd.Op == circuit.PauliExpBox ||
				cmd.Op == circuit.CX ||
				circuit.SingleQubitGates.Contains(cmd.Op)
		},
	}
}

// OptimiseViaPhaseGadget reorders and merges chains of Pauli-exponential
// boxes, then expands the survivors into CX ladders with the chosen
// spanning structure. CXConfigMultiQGate keeps merged boxes native and
// defers expansion.
func OptimiseViaPhaseGadget(cfg transform.CXConfig, opts ...Option) transform.Transform {
	o := newOptions(opts)
	produces := circuit.CXTK1
	if cfg == transform.CXConfigMultiQGate {
		produces = circuit.CXTK1.Union(circuit.NewGateSet(circuit.PauliExpBox))
	}
	return transform.New("optimise_via_phase_gadget", func(c *circuit.Circuit) (bool, error) {
		orig := append([]circuit.Command(nil), c.Cmds...)
		var out []circuit.Command
		touched := false

		i := 0
		for i < len(c.Cmds) {
			if c.Cmds[i].Op != circuit.PauliExpBox {
				out = append(out, c.Cmds[i])
				i++
				continue
			}
			j := i
			var run []gadget
			for j < len(c.Cmds) && c.Cmds[j].Op == circuit.PauliExpBox {
				run = append(run, newGadget(c.Cmds[j]))
				j++
			}
			merged, mergedAny := mergeGadgets(run, o.tol)
			touched = touched || mergedAny
			for _, gd := range merged {
				if cfg == transform.CXConfigMultiQGate {
					out = append(out, gd.command())
					continue
				}
				out = append(out, expandGadget(gd.command(), cfg)...)
				touched = true
			}
			i = j
		}
		if !touched {
			return false, nil
		}
		out = squashEmit(out, emitTK1, o.tol)
		if equalCmds(out, orig) {
			return false, nil
		}
		c.Cmds = out
		return true, nil
	},
		transform.WithExpects(gadgetContract()),
		transform.WithProduces(produces),
	)
}

// gadget is a normalized Pauli-exponential: identity legs dropped and
// the support sorted by wire, giving every gadget a canonical key.
type gadget struct {
	wires []int
	ps    circuit.PauliString
	t     float64
	key   string
}

func newGadget(cmd circuit.Command) gadget {
	type leg struct {
		w int
		p circuit.Pauli
	}
	var legs []leg
	for k, p := range cmd.Paulis {
		if p != circuit.PauliI {
			legs = append(legs, leg{cmd.Qubits[k], p})
		}
	}
	sort.Slice(legs, func(i, j int) bool { return legs[i].w < legs[j].w })
	g := gadget{t: cmd.Params[0]}
	for _, l := range legs {
		g.wires = append(g.wires, l.w)
		g.ps = append(g.ps, l.p)
	}
	g.key = fmt.Sprintf("%v:%s", g.wires, g.ps)
	return g
}

func (g gadget) command() circuit.Command {
	return circuit.Command{
		Op:     circuit.PauliExpBox,
		Qubits: append([]int(nil), g.wires...),
		Params: []float64{g.t},
		Paulis: append(circuit.PauliString(nil), g.ps...),
	}
}

// commuteGadgets reports whether two Pauli exponentials commute: the
// number of shared wires with differing Paulis must be even.
func commuteGadgets(a, b gadget) bool {
	anti := 0
	j := 0
	for i, w := range a.wires {
		for j < len(b.wires) && b.wires[j] < w {
			j++
		}
		if j < len(b.wires) && b.wires[j] == w && a.ps[i] != b.ps[j] {
			anti++
		}
	}
	return anti%2 == 0
}

// mergeGadgets bubble-sorts a run by canonical key, swapping only
// commuting neighbours, and fuses equal-key neighbours by adding their
// angles. Gadgets whose angle reduces to zero (mod 2) vanish.
func mergeGadgets(run []gadget, tol float64) ([]gadget, bool) {
	changed := false
	for {
		again := false
		for i := 0; i+1 < len(run); i++ {
			a, b := run[i], run[i+1]
			if a.key == b.key {
				a.t += b.t
				run[i] = a
				run = append(run[:i+1], run[i+2:]...)
				again, changed = true, true
				continue
			}
			if a.key > b.key && commuteGadgets(a, b) {
				run[i], run[i+1] = b, a
				again, changed = true, true
			}
		}
		kept := run[:0:0]
		for _, g := range run {
			if turnIsZero(g.t, tol) || len(g.wires) == 0 {
				again, changed = true, true
				continue
			}
			kept = append(kept, g)
		}
		run = kept
		if !again {
			return run, changed
		}
	}
}

// expandGadget spells exp(-i*pi*t/2 * P) as a basis change into Z, a CX
// parity ladder onto a root wire, an Rz at the root, and the mirror.
func expandGadget(cmd circuit.Command, cfg transform.CXConfig) []circuit.Command {
	g := newGadget(cmd)
	if len(g.wires) == 0 {
		// Pure global phase.
		return nil
	}

	var pre, post []circuit.Command
	for k, p := range g.ps {
		w := g.wires[k]
		switch p {
		case circuit.PauliX:
			pre = append(pre, circuit.Command{Op: circuit.H, Qubits: []int{w}})
			post = append(post, circuit.Command{Op: circuit.H, Qubits: []int{w}})
		case circuit.PauliY:
			pre = append(pre,
				circuit.Command{Op: circuit.Sdg, Qubits: []int{w}},
				circuit.Command{Op: circuit.H, Qubits: []int{w}})
			post = append(post,
				circuit.Command{Op: circuit.H, Qubits: []int{w}},
				circuit.Command{Op: circuit.S, Qubits: []int{w}})
		}
	}

	var ladder []circuit.Command
	var root int
	switch cfg {
	case transform.CXConfigStar:
		root = g.wires[len(g.wires)-1]
		for i := 0; i < len(g.wires)-1; i++ {
			ladder = append(ladder, circuit.Command{Op: circuit.CX, Qubits: []int{g.wires[i], root}})
		}
	case transform.CXConfigTree:
		ladder, root = treeParity(g.wires)
	default:
		root = g.wires[len(g.wires)-1]
		for i := 0; i < len(g.wires)-1; i++ {
			ladder = append(ladder, circuit.Command{Op: circuit.CX, Qubits: []int{g.wires[i], g.wires[i+1]}})
		}
	}

	out := append([]circuit.Command(nil), pre...)
	out = append(out, ladder...)
	out = append(out, circuit.Command{Op: circuit.Rz, Qubits: []int{root}, Params: []float64{g.t}})
	for i := len(ladder) - 1; i >= 0; i-- {
		out = append(out, ladder[i].Clone())
	}
	return append(out, post...)
}

// treeParity accumulates the parity of the wires in a balanced binary
// structure, returning the ladder and the root carrying the parity.
func treeParity(wires []int) ([]circuit.Command, int) {
	if len(wires) == 1 {
		return nil, wires[0]
	}
	mid := len(wires) / 2
	lc, lroot := treeParity(wires[:mid])
	rc, rroot := treeParity(wires[mid:])
	out := append(append([]circuit.Command(nil), lc...), rc...)
	out = append(out, circuit.Command{Op: circuit.CX, Qubits: []int{lroot, rroot}})
	return out, rroot
}
