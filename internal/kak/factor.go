package kak

import (
	"math"
	"math/cmplx"

	"github.com/rydberg-labs/circopt/internal/matrix"
)

// FactorKron splits a 4x4 matrix w into w ~ Kron(g, h) (g on the high
// bit, h on the low bit) up to global phase. It fails when w is not a
// tensor product within tol.
func FactorKron(w *matrix.Matrix, tol float64) (g, h *matrix.Matrix, ok bool) {
	// Locate the dominant 2x2 block (g entry) and take it as the shape
	// of h, then read g off as the ratio of each block to h.
	bi, bj := matrix.MaxAbsIndex(w)
	p, q := bi/2, bj/2

	h = matrix.New(2, 2)
	for s := 0; s < 2; s++ {
		for t := 0; t < 2; t++ {
			h.Set(s, t, w.At(2*p+s, 2*q+t))
		}
	}
	dh := matrix.Det2(h)
	if cmplx.Abs(dh) < 1e-14 {
		return nil, nil, false
	}
	h = matrix.Scale(cmplx.Pow(dh, -0.5), h)

	// g[p'][q'] = block(p',q') / h at the dominant position of h.
	hi, hj := matrix.MaxAbsIndex(h)
	href := h.At(hi, hj)
	g = matrix.New(2, 2)
	for gp := 0; gp < 2; gp++ {
		for gq := 0; gq < 2; gq++ {
			g.Set(gp, gq, w.At(2*gp+hi, 2*gq+hj)/href)
		}
	}
	dg := matrix.Det2(g)
	if cmplx.Abs(dg) < 1e-14 {
		return nil, nil, false
	}
	g = matrix.Scale(cmplx.Pow(dg, -0.5), g)

	if !matrix.EqualUpToPhase(w, matrix.Kron(g, h), math.Max(tol, 1e-9)) {
		return nil, nil, false
	}
	return g, h, true
}
