// Package zxgraph implements graphlike ZX diagrams: Z spiders joined by
// Hadamard edges, plus boundary vertices for the circuit inputs and
// outputs. It provides circuit ingestion, the graph-theoretic
// simplification rules (spider fusion, identity removal, local
// complementation, pivoting), and frontier extraction back to a circuit.
package zxgraph

import (
	"fmt"
	"math"
	"sort"
)

// VType is the vertex kind.
type VType uint8

const (
	// Boundary vertices mark circuit inputs and outputs; degree one.
	Boundary VType = iota
	// Spider is a Z spider carrying a phase in half-turns mod 2.
	Spider
)

// EType is the edge kind.
type EType uint8

const (
	EdgeSimple EType = iota
	EdgeHadamard
)

// Graph is a ZX diagram. Vertex identifiers are allocated sequentially
// and never reused, which keeps iteration order reproducible.
type Graph struct {
	next    int
	vt      map[int]VType
	phase   map[int]float64
	adj     map[int]map[int]EType
	Inputs  []int
	Outputs []int
}

// NewGraph returns an empty diagram.
func NewGraph() *Graph {
	return &Graph{
		vt:    map[int]VType{},
		phase: map[int]float64{},
		adj:   map[int]map[int]EType{},
	}
}

// AddVertex inserts a vertex and returns its identifier.
func (g *Graph) AddVertex(t VType, phase float64) int {
	v := g.next
	g.next++
	g.vt[v] = t
	g.phase[v] = normPhase(phase)
	g.adj[v] = map[int]EType{}
	return v
}

func normPhase(p float64) float64 {
	p = math.Mod(p, 2)
	if p < 0 {
		p += 2
	}
	// Snap residue from accumulated arithmetic onto the exact grid.
	if math.Abs(p-2) < 1e-12 {
		p = 0
	}
	return p
}

// Type returns the vertex kind.
func (g *Graph) Type(v int) VType { return g.vt[v] }

// Phase returns the spider phase in half-turns, in [0, 2).
func (g *Graph) Phase(v int) float64 { return g.phase[v] }

// SetPhase stores a phase, normalized mod 2.
func (g *Graph) SetPhase(v int, p float64) { g.phase[v] = normPhase(p) }

// AddPhase adds to a spider phase mod 2.
func (g *Graph) AddPhase(v int, p float64) { g.phase[v] = normPhase(g.phase[v] + p) }

// Contains reports whether the vertex exists.
func (g *Graph) Contains(v int) bool {
	_, ok := g.vt[v]
	return ok
}

// SetEdge inserts or overwrites the edge between u and v.
func (g *Graph) SetEdge(u, v int, t EType) {
	if u == v {
		panic("zxgraph: self edge")
	}
	g.adj[u][v] = t
	g.adj[v][u] = t
}

// RemoveEdge deletes the edge if present.
func (g *Graph) RemoveEdge(u, v int) {
	delete(g.adj[u], v)
	delete(g.adj[v], u)
}

// EdgeType returns the edge type between u and v.
func (g *Graph) EdgeType(u, v int) (EType, bool) {
	t, ok := g.adj[u][v]
	return t, ok
}

// RemoveVertex deletes a vertex and its edges.
func (g *Graph) RemoveVertex(v int) {
	for w := range g.adj[v] {
		delete(g.adj[w], v)
	}
	delete(g.adj, v)
	delete(g.vt, v)
	delete(g.phase, v)
}

// Degree returns the number of neighbours.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// Neighbors returns the neighbours of v in ascending identifier order.
func (g *Graph) Neighbors(v int) []int {
	out := make([]int, 0, len(g.adj[v]))
	for w := range g.adj[v] {
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// Vertices returns all vertex identifiers in ascending order.
func (g *Graph) Vertices() []int {
	out := make([]int, 0, len(g.vt))
	for v := range g.vt {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// SpiderCount returns the number of non-boundary vertices.
func (g *Graph) SpiderCount() int {
	n := 0
	for v, t := range g.vt {
		_ = v
		if t == Spider {
			n++
		}
	}
	return n
}

// hasBoundaryNeighbor reports whether any neighbour is a boundary vertex.
func (g *Graph) hasBoundaryNeighbor(v int) bool {
	for w := range g.adj[v] {
		if g.vt[w] == Boundary {
			return true
		}
	}
	return false
}

// allHadamardToSpiders reports whether every edge at v is a Hadamard edge
// leading to a spider.
func (g *Graph) allHadamardToSpiders(v int) bool {
	for w, t := range g.adj[v] {
		if t != EdgeHadamard || g.vt[w] != Spider {
			return false
		}
	}
	return true
}

func (g *Graph) String() string {
	s := fmt.Sprintf("inputs: %v\noutputs: %v\n", g.Inputs, g.Outputs)
	for _, v := range g.Vertices() {
		kind := "B"
		if g.vt[v] == Spider {
			kind = "Z"
		}
		s += fmt.Sprintf("%d %s(%g):", v, kind, g.phase[v])
		for _, w := range g.Neighbors(v) {
			e := "-"
			if g.adj[v][w] == EdgeHadamard {
				e = "~"
			}
			s += fmt.Sprintf(" %s%d", e, w)
		}
		s += "\n"
	}
	return s
}
