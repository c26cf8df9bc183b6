package zxgraph

const gridTol = 1e-9

func near(p, target float64) bool {
	d := p - target
	if d < 0 {
		d = -d
	}
	return d < gridTol
}

// isProperClifford reports a +-pi/2 spider phase.
func isProperClifford(p float64) bool { return near(p, 0.5) || near(p, 1.5) }

// isPauli reports a 0 or pi spider phase.
func isPauli(p float64) bool { return near(p, 0) || near(p, 1) || near(p, 2) }

// Simplify runs spider fusion, identity removal, local complementation
// and pivoting to a fixpoint. All four rules preserve the diagram
// semantics up to global phase and preserve the generalized flow the
// extractor relies on.
func (g *Graph) Simplify() bool {
	changed := false
	for {
		any := false
		if g.fuseAll() {
			any = true
		}
		if g.idSimpAll() {
			any = true
		}
		if g.lcompOnce() {
			any = true
		}
		if g.pivotOnce() {
			any = true
		}
		if !any {
			return changed
		}
		changed = true
	}
}

// fuseAll merges spiders joined by simple edges until none remain.
func (g *Graph) fuseAll() bool {
	changed := false
	for {
		u, v, ok := g.findSimpleSpiderEdge()
		if !ok {
			return changed
		}
		g.fuse(u, v)
		changed = true
	}
}

func (g *Graph) findSimpleSpiderEdge() (int, int, bool) {
	for _, u := range g.Vertices() {
		if g.vt[u] != Spider {
			continue
		}
		for _, w := range g.Neighbors(u) {
			if w > u && g.vt[w] == Spider && g.adj[u][w] == EdgeSimple {
				return u, w, true
			}
		}
	}
	return 0, 0, false
}

// fuse merges spider v into spider u across their simple edge. Parallel
// edges left behind resolve by the Hopf law (Hadamard pairs vanish) or
// collapse to a simple edge carrying a pi phase when the types mix.
func (g *Graph) fuse(u, v int) {
	g.RemoveEdge(u, v)
	g.AddPhase(u, g.phase[v])
	for _, w := range g.Neighbors(v) {
		t := g.adj[v][w]
		g.mergeEdge(u, w, t)
	}
	g.RemoveVertex(v)
}

// mergeEdge adds an edge u-w of type t on top of whatever edge already
// exists between them.
func (g *Graph) mergeEdge(u, w int, t EType) {
	if u == w {
		if t == EdgeHadamard {
			g.AddPhase(u, 1)
		}
		return
	}
	old, ok := g.EdgeType(u, w)
	switch {
	case !ok:
		g.SetEdge(u, w, t)
	case old == EdgeHadamard && t == EdgeHadamard:
		g.RemoveEdge(u, w)
	case old == EdgeSimple && t == EdgeSimple:
		// Z spiders copy, one edge suffices.
	default:
		// Simple in parallel with Hadamard: fusing through the simple
		// edge turns the Hadamard edge into a self loop, a pi phase.
		g.SetEdge(u, w, EdgeSimple)
		if g.vt[u] == Spider {
			g.AddPhase(u, 1)
		} else {
			g.AddPhase(w, 1)
		}
	}
}

// idSimpAll removes phase-free degree-2 spiders, splicing their two
// edges together (types compose by XOR).
func (g *Graph) idSimpAll() bool {
	changed := false
	for {
		v, ok := g.findIdentitySpider()
		if !ok {
			return changed
		}
		nb := g.Neighbors(v)
		t1, t2 := g.adj[v][nb[0]], g.adj[v][nb[1]]
		t := EdgeSimple
		if (t1 == EdgeHadamard) != (t2 == EdgeHadamard) {
			t = EdgeHadamard
		}
		g.RemoveVertex(v)
		g.mergeEdge(nb[0], nb[1], t)
		changed = true
	}
}

func (g *Graph) findIdentitySpider() (int, bool) {
	for _, v := range g.Vertices() {
		if g.vt[v] == Spider && near(g.phase[v], 0) && g.Degree(v) == 2 {
			return v, true
		}
	}
	return 0, false
}

// lcompOnce applies one local complementation: an interior +-pi/2 spider
// is deleted, its neighbourhood complemented, and its phase subtracted
// from every neighbour.
func (g *Graph) lcompOnce() bool {
	for _, v := range g.Vertices() {
		if g.vt[v] != Spider || !isProperClifford(g.phase[v]) {
			continue
		}
		if g.hasBoundaryNeighbor(v) || !g.allHadamardToSpiders(v) {
			continue
		}
		nb := g.Neighbors(v)
		pv := g.phase[v]
		for i := 0; i < len(nb); i++ {
			for j := i + 1; j < len(nb); j++ {
				g.toggleHadamard(nb[i], nb[j])
			}
		}
		for _, w := range nb {
			g.AddPhase(w, -pv)
		}
		g.RemoveVertex(v)
		return true
	}
	return false
}

// pivotOnce applies one pivot: a Hadamard-joined pair of interior Pauli
// spiders is deleted, with the edges between the three neighbourhood
// classes complemented and phases pushed onto the survivors.
func (g *Graph) pivotOnce() bool {
	for _, u := range g.Vertices() {
		if g.vt[u] != Spider || !isPauli(g.phase[u]) {
			continue
		}
		if g.hasBoundaryNeighbor(u) || !g.allHadamardToSpiders(u) {
			continue
		}
		for _, v := range g.Neighbors(u) {
			if v < u {
				continue
			}
			if !isPauli(g.phase[v]) || g.hasBoundaryNeighbor(v) || !g.allHadamardToSpiders(v) {
				continue
			}
			g.pivot(u, v)
			return true
		}
	}
	return false
}

func (g *Graph) pivot(u, v int) {
	pu, pv := g.phase[u], g.phase[v]
	inU := map[int]bool{}
	for w := range g.adj[u] {
		if w != v {
			inU[w] = true
		}
	}
	var a, b, c []int
	for _, w := range g.Neighbors(u) {
		if w == v {
			continue
		}
		if _, shared := g.adj[v][w]; shared {
			c = append(c, w)
		} else {
			a = append(a, w)
		}
	}
	for _, w := range g.Neighbors(v) {
		if w != u && !inU[w] {
			b = append(b, w)
		}
	}

	toggleAcross := func(xs, ys []int) {
		for _, x := range xs {
			for _, y := range ys {
				g.toggleHadamard(x, y)
			}
		}
	}
	toggleAcross(a, b)
	toggleAcross(a, c)
	toggleAcross(b, c)

	for _, w := range a {
		g.AddPhase(w, pv)
	}
	for _, w := range b {
		g.AddPhase(w, pu)
	}
	for _, w := range c {
		g.AddPhase(w, pu+pv+1)
	}
	g.RemoveVertex(u)
	g.RemoveVertex(v)
}

// toggleHadamard flips the presence of a Hadamard edge between two
// spiders.
func (g *Graph) toggleHadamard(x, y int) {
	if x == y {
		return
	}
	if _, ok := g.EdgeType(x, y); ok {
		g.RemoveEdge(x, y)
	} else {
		g.SetEdge(x, y, EdgeHadamard)
	}
}
