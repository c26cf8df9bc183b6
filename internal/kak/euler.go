// Package kak implements the canonical (Cartan/KAK) decomposition of one-
// and two-qubit unitaries and resynthesis of two-qubit windows into a
// minimal sequence over {CX, TK1} or {TK2, TK1}.
package kak

import (
	"math"
	"math/cmplx"

	"github.com/rydberg-labs/circopt/internal/matrix"
)

// ZXZAngles returns half-turn angles (a, b, c) such that
// u ~ Rz(a) * Rx(b) * Rz(c) up to global phase.
func ZXZAngles(u *matrix.Matrix) (a, b, c float64) {
	// Normalize to SU(2) so the entry formulas below hold exactly:
	// v00 = cos(B/2) e^{-i(A+C)/2},  v10 = -i sin(B/2) e^{i(A-C)/2}.
	det := matrix.Det2(u)
	scale := cmplx.Pow(det, -0.5)
	v00 := scale * u.At(0, 0)
	v10 := scale * u.At(1, 0)
	v11 := scale * u.At(1, 1)

	const eps = 1e-12
	B := 2 * math.Atan2(cmplx.Abs(v10), cmplx.Abs(v00))
	var A, C float64
	switch {
	case cmplx.Abs(v10) < eps:
		// Diagonal: only A+C matters.
		A = 2 * cmplx.Phase(v11)
		C = 0
	case cmplx.Abs(v00) < eps:
		// Antidiagonal: only A-C matters.
		A = 2 * (cmplx.Phase(v10) + math.Pi/2)
		C = 0
	default:
		p := cmplx.Phase(v11)              // (A+C)/2
		q := cmplx.Phase(v10) + math.Pi/2 // (A-C)/2
		A = p + q
		C = p - q
	}
	return A / math.Pi, B / math.Pi, C / math.Pi
}

// TK1Params returns the TK1 parameters realizing u up to global phase.
// It is ZXZAngles under the TK1(a,b,c) = Rz(a)Rx(b)Rz(c) convention.
func TK1Params(u *matrix.Matrix) (a, b, c float64) {
	return ZXZAngles(u)
}

// IsIdentityUpToPhase reports whether u is trivial within tol.
func IsIdentityUpToPhase(u *matrix.Matrix, tol float64) bool {
	return matrix.EqualUpToPhase(u, matrix.Identity(u.Rows), tol)
}
