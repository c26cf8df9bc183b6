package passes

import (
	"sort"

	"github.com/rydberg-labs/circopt/circuit"
)

// block is a maximal group of commands confined to one wire or one wire
// pair, the rewrite unit of the peephole pass. Commands of a block need
// not be contiguous: gates on unrelated wires may interleave.
type block struct {
	wires []int // one or two, ascending
	idx   []int // command indices, ascending
	twoQ  int   // gates on two wires within the block
}

// resynthesizable reports whether a command can join a peephole window:
// a gate on at most two wires with a known matrix. Everything else acts
// as a fence on the wires it touches.
func resynthesizable(cmd circuit.Command) bool {
	if !cmd.Op.IsGate() || len(cmd.Qubits) > 2 {
		return false
	}
	_, ok := circuit.LocalMatrix(cmd)
	return ok
}

// segment2q partitions the circuit into blocks. Single-wire runs merge
// into a pair block when a two-qubit gate joins their wires; a fence on
// any block wire closes the whole block, so each block's commands on a
// given wire sit between two fences on that wire.
func segment2q(c *circuit.Circuit) []*block {
	open := map[int]*block{}
	var closed []*block

	finalize := func(w int) {
		b := open[w]
		if b == nil {
			return
		}
		for _, q := range b.wires {
			delete(open, q)
		}
		closed = append(closed, b)
	}
	finalizeAll := func() {
		var ws []int
		for w := range open {
			ws = append(ws, w)
		}
		sort.Ints(ws)
		for _, w := range ws {
			finalize(w)
		}
	}

	for i, cmd := range c.Cmds {
		if !resynthesizable(cmd) {
			if len(cmd.Qubits) == 0 {
				// A wireless barrier fences every wire.
				finalizeAll()
			}
			for _, q := range cmd.Qubits {
				finalize(q)
			}
			continue
		}
		if len(cmd.Qubits) == 1 {
			q := cmd.Qubits[0]
			b := open[q]
			if b == nil {
				b = &block{wires: []int{q}}
				open[q] = b
			}
			b.idx = append(b.idx, i)
			continue
		}

		a, z := cmd.Qubits[0], cmd.Qubits[1]
		ba, bz := open[a], open[z]
		if ba != nil && ba == bz {
			ba.idx = append(ba.idx, i)
			ba.twoQ++
			continue
		}
		// A pair block on other partners must close before this gate can
		// open a window on {a, z}. Single-wire blocks are absorbed.
		if ba != nil && len(ba.wires) == 2 {
			finalize(a)
			ba = nil
		}
		if bz != nil && len(bz.wires) == 2 {
			finalize(z)
			bz = nil
		}
		nb := &block{wires: []int{a, z}}
		if nb.wires[0] > nb.wires[1] {
			nb.wires[0], nb.wires[1] = nb.wires[1], nb.wires[0]
		}
		if ba != nil {
			nb.idx = ba.idx
		}
		if bz != nil {
			nb.idx = mergeSorted(nb.idx, bz.idx)
		}
		nb.idx = append(nb.idx, i)
		nb.twoQ = 1
		open[a], open[z] = nb, nb
	}
	finalizeAll()

	sort.Slice(closed, func(i, j int) bool { return closed[i].idx[0] < closed[j].idx[0] })
	return closed
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// edit replaces a scattered set of command indices with new commands,
// spliced in at the position of the last removed index. That position is
// the one place that never crosses a fence on a window wire: a fence on
// wire w closes the window, so all window commands on w precede any
// later fence on w. A swapped edit additionally relabels the two window
// wires in every later command and swaps the permutation entries.
type edit struct {
	idx     []int
	cmds    []circuit.Command
	swapped bool
	a, b    int
}

// applyEdit splices one edit into the live circuit. Callers re-segment
// after each application, so index bookkeeping never spans two edits.
func applyEdit(c *circuit.Circuit, e edit) {
	removed := make(map[int]bool, len(e.idx))
	for _, i := range e.idx {
		removed[i] = true
	}
	last := e.idx[len(e.idx)-1]
	ins := last - (len(e.idx) - 1)

	kept := make([]circuit.Command, 0, len(c.Cmds)-len(e.idx)+len(e.cmds))
	for i, cmd := range c.Cmds {
		if removed[i] {
			continue
		}
		kept = append(kept, cmd)
	}
	out := make([]circuit.Command, 0, len(kept)+len(e.cmds))
	out = append(out, kept[:ins]...)
	out = append(out, e.cmds...)
	out = append(out, kept[ins:]...)
	c.Cmds = out

	if e.swapped {
		for i := ins + len(e.cmds); i < len(c.Cmds); i++ {
			relabelWires(&c.Cmds[i], e.a, e.b)
		}
		c.ComposeSwap(e.a, e.b)
	}
}

func relabelWires(cmd *circuit.Command, a, b int) {
	for k, q := range cmd.Qubits {
		switch q {
		case a:
			cmd.Qubits[k] = b
		case b:
			cmd.Qubits[k] = a
		}
	}
}

// relabelLocal2 maps window-local wires {0, 1} back onto host wires
// {lo, hi}, cloning each command.
func relabelLocal2(cmds []circuit.Command, lo, hi int) []circuit.Command {
	out := make([]circuit.Command, len(cmds))
	for i, cmd := range cmds {
		cc := cmd.Clone()
		for k, q := range cc.Qubits {
			if q == 0 {
				cc.Qubits[k] = lo
			} else {
				cc.Qubits[k] = hi
			}
		}
		out[i] = cc
	}
	return out
}

func count2q(cmds []circuit.Command) int {
	n := 0
	for _, cmd := range cmds {
		if cmd.Op.IsGate() && len(cmd.Qubits) >= 2 {
			n++
		}
	}
	return n
}

func equalCmds(a, b []circuit.Command) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
