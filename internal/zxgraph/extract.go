package zxgraph

import (
	"fmt"
	"sort"

	"github.com/rydberg-labs/circopt/circuit"
)

// Extract resynthesizes a simplified (graphlike) diagram into a circuit
// over {Rz, H, CZ, CX}, with the residual wire crossing folded into the
// implicit permutation.
//
// It peels gates off the output side: frontier phases leave as Rz,
// Hadamard edges between frontier spiders leave as CZ, and Gaussian
// elimination over the frontier biadjacency matrix (each row operation
// leaving as a CX) exposes spiders with a single successor, which then
// join the frontier through a Hadamard. Diagrams produced by Simplify
// from circuit ingestion always extract; a stall reports an error.
func (g *Graph) Extract() (*circuit.Circuit, error) {
	n := len(g.Outputs)
	isInput := map[int]int{}
	for q, v := range g.Inputs {
		isInput[v] = q
	}
	isOutput := map[int]bool{}
	for _, v := range g.Outputs {
		isOutput[v] = true
	}

	var peeled []circuit.Command
	peel := func(op circuit.OpType, wires []int, params ...float64) {
		peeled = append(peeled, circuit.Command{Op: op, Qubits: wires, Params: params})
	}

	frontier := make([]int, n)
	done := make([]int, n)
	active := 0
	claimed := map[int]bool{}
	for w := 0; w < n; w++ {
		done[w] = -1
		b := g.Outputs[w]
		nb := g.Neighbors(b)
		if len(nb) != 1 {
			return nil, fmt.Errorf("zxgraph: output %d has degree %d", w, len(nb))
		}
		v := nb[0]
		if g.adj[b][v] == EdgeHadamard {
			peel(circuit.H, []int{w})
			g.SetEdge(b, v, EdgeSimple)
		}
		if q, ok := isInput[v]; ok {
			done[w] = q
			g.RemoveEdge(b, v)
			continue
		}
		if claimed[v] {
			// Two outputs share a spider; splice in a Hadamard pair so
			// each output owns its frontier vertex.
			s1 := g.AddVertex(Spider, 0)
			s2 := g.AddVertex(Spider, 0)
			g.RemoveEdge(b, v)
			g.SetEdge(v, s1, EdgeHadamard)
			g.SetEdge(s1, s2, EdgeHadamard)
			g.SetEdge(s2, b, EdgeSimple)
			v = s2
		}
		claimed[v] = true
		frontier[w] = v
		active++
	}

	for active > 0 {
		progress := false

		// Frontier phases leave as Rz.
		for w := 0; w < n; w++ {
			if done[w] >= 0 {
				continue
			}
			if p := g.Phase(frontier[w]); !near(p, 0) {
				if p > 1 {
					p -= 2
				}
				peel(circuit.Rz, []int{w}, p)
				g.SetPhase(frontier[w], 0)
				progress = true
			}
		}
		// Frontier-frontier Hadamard edges leave as CZ.
		for w1 := 0; w1 < n; w1++ {
			if done[w1] >= 0 {
				continue
			}
			for w2 := w1 + 1; w2 < n; w2++ {
				if done[w2] >= 0 {
					continue
				}
				if t, ok := g.EdgeType(frontier[w1], frontier[w2]); ok {
					if t != EdgeHadamard {
						return nil, fmt.Errorf("zxgraph: simple edge between frontier spiders")
					}
					peel(circuit.CZ, []int{w1, w2})
					g.RemoveEdge(frontier[w1], frontier[w2])
					progress = true
				}
			}
		}

		rows, cols, m, simpleIn, err := g.frontierMatrix(frontier, done, isInput, isOutput)
		if err != nil {
			return nil, err
		}
		g.eliminate(rows, cols, m, simpleIn, frontier, &peeled)

		// Advance every weight-0 or weight-1 row.
		for ri, w := range rows {
			weight, col := 0, -1
			for ci := range cols {
				if m[ri][ci] {
					weight++
					col = ci
				}
			}
			switch {
			case weight == 0:
				bv, ok := simpleIn[w]
				if !ok {
					return nil, fmt.Errorf("zxgraph: frontier spider on wire %d is disconnected", w)
				}
				done[w] = isInput[bv]
				g.RemoveVertex(frontier[w])
				active--
				progress = true
			case weight == 1:
				if _, hasSimple := simpleIn[w]; hasSimple {
					continue
				}
				v := cols[col]
				peel(circuit.H, []int{w})
				g.RemoveVertex(frontier[w])
				if q, ok := isInput[v]; ok {
					done[w] = q
					active--
				} else {
					frontier[w] = v
				}
				progress = true
			}
		}
		if !progress {
			return nil, fmt.Errorf("zxgraph: extraction stalled with %d wires remaining", active)
		}
	}

	// done[w] = q means logical qubit q exits on wire w; invert to the
	// circuit's Perm convention and relabel the peeled gates to input
	// wire coordinates.
	perm := make([]int, n)
	inv := make([]int, n)
	for w, q := range done {
		perm[q] = w
		inv[w] = q
	}
	out := circuit.New(n)
	out.Perm = perm
	for i := len(peeled) - 1; i >= 0; i-- {
		cmd := peeled[i]
		wires := make([]int, len(cmd.Qubits))
		for k, w := range cmd.Qubits {
			wires[k] = inv[w]
		}
		cmd.Qubits = wires
		out.Append(cmd)
	}
	return out, nil
}

// frontierMatrix builds the biadjacency between active frontier spiders
// (rows, identified by wire) and their non-frontier neighbours (cols).
// A simple edge is legal only towards an input boundary and is tracked
// separately in simpleIn.
func (g *Graph) frontierMatrix(frontier, done []int, isInput map[int]int, isOutput map[int]bool) (rows []int, cols []int, m [][]bool, simpleIn map[int]int, err error) {
	simpleIn = map[int]int{}
	onFrontier := map[int]bool{}
	for w := range frontier {
		if done[w] < 0 {
			onFrontier[frontier[w]] = true
		}
	}
	colSet := map[int]bool{}
	for w := range frontier {
		if done[w] >= 0 {
			continue
		}
		rows = append(rows, w)
		v := frontier[w]
		for u, t := range g.adj[v] {
			if isOutput[u] || onFrontier[u] {
				continue
			}
			if t == EdgeSimple {
				if _, ok := isInput[u]; !ok {
					return nil, nil, nil, nil, fmt.Errorf("zxgraph: simple interior edge on wire %d", w)
				}
				if _, dup := simpleIn[w]; dup {
					return nil, nil, nil, nil, fmt.Errorf("zxgraph: two plain input edges on wire %d", w)
				}
				simpleIn[w] = u
				continue
			}
			colSet[u] = true
		}
	}
	for u := range colSet {
		cols = append(cols, u)
	}
	sort.Ints(cols)
	sort.Ints(rows)
	m = make([][]bool, len(rows))
	for ri, w := range rows {
		m[ri] = make([]bool, len(cols))
		for ci, u := range cols {
			if t, ok := g.EdgeType(frontier[w], u); ok && t == EdgeHadamard {
				m[ri][ci] = true
			}
		}
	}
	return rows, cols, m, simpleIn, nil
}

// eliminate reduces the biadjacency matrix, mirroring every row
// operation on the graph and peeling it as a CX. Adding the pivot row
// src into row dst corresponds to a CX with control on dst's wire and
// target on src's wire. Rows carrying a plain input edge cannot serve
// as pivots, since the operation would entangle that edge.
func (g *Graph) eliminate(rows, cols []int, m [][]bool, simpleIn map[int]int, frontier []int, peeled *[]circuit.Command) {
	rowOp := func(dst, src int) {
		for ci, u := range cols {
			if m[src][ci] {
				m[dst][ci] = !m[dst][ci]
				g.toggleHadamard(frontier[rows[dst]], u)
			}
		}
		*peeled = append(*peeled, circuit.Command{Op: circuit.CX, Qubits: []int{rows[dst], rows[src]}})
	}
	isPivot := make([]bool, len(rows))
	for ci := range cols {
		pivot := -1
		for ri := range rows {
			if _, blocked := simpleIn[rows[ri]]; blocked {
				continue
			}
			if !isPivot[ri] && m[ri][ci] {
				pivot = ri
				break
			}
		}
		if pivot < 0 {
			continue
		}
		isPivot[pivot] = true
		for ri := range rows {
			if ri != pivot && m[ri][ci] {
				rowOp(ri, pivot)
			}
		}
	}
}
