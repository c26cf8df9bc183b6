package kak

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/rydberg-labs/circopt/internal/matrix"
)

// magicBasis columns are the Bell states (Phi+, i Psi+, Psi-, i Phi-);
// conjugating by it carries SU(2) x SU(2) onto SO(4) and the canonical
// interaction exp(i(ax XX + ay YY + az ZZ)) onto a diagonal of phases.
var magicBasis = func() *matrix.Matrix {
	s := complex(1/math.Sqrt2, 0)
	i := complex(0, 1) / complex(math.Sqrt2, 0)
	return matrix.FromRows([][]complex128{
		{s, 0, 0, i},
		{0, i, s, 0},
		{0, i, -s, 0},
		{s, 0, 0, -i},
	})
}()

// Decomposition is the Cartan form of a two-qubit unitary:
//
//	u ~ (K1hi (x) K1lo) * exp(i(Ax XX + Ay YY + Az ZZ)) * (K2hi (x) K2lo)
//
// up to global phase, with the low factor acting on the first wire (low
// bit) and the high factor on the second. Coefficients are in radians,
// normalized into (-pi/4, pi/4].
type Decomposition struct {
	Ax, Ay, Az float64
	K1lo, K1hi *matrix.Matrix
	K2lo, K2hi *matrix.Matrix
}

// Decompose computes the Cartan decomposition of a 4x4 unitary. It fails
// when the numerics do not reproduce u within tol (non-unitary input,
// ill-conditioned eigenspaces).
func Decompose(u *matrix.Matrix, tol float64) (*Decomposition, error) {
	if u.Rows != 4 || u.Cols != 4 {
		return nil, fmt.Errorf("kak: need a 4x4 matrix, got %dx%d", u.Rows, u.Cols)
	}

	// Take u into SU(4) and the magic basis.
	det := matrix.Det4(u)
	if cmplx.Abs(det) < 1e-12 {
		return nil, fmt.Errorf("kak: singular matrix")
	}
	su := matrix.Scale(cmplx.Pow(det, -0.25), u)
	mdag := matrix.Dagger(magicBasis)
	up := matrix.MulAll(mdag, su, magicBasis)

	// m2 = up^T up is unitary symmetric; its real and imaginary parts
	// are commuting real symmetric matrices, diagonalized together by a
	// real orthogonal p.
	m2 := matrix.Mul(matrix.Transpose(up), up)
	p := matrix.SimultaneousDiagonalize(matrix.RealPart(m2), matrix.ImagPart(m2))
	if matrix.DetReal(p) < 0 {
		for r := 0; r < 4; r++ {
			p[r][3] = -p[r][3]
		}
	}
	pc := matrix.New(4, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			pc.Set(r, c, complex(p[r][c], 0))
		}
	}

	// Columns of up*p are real vectors times a phase e^{i phi_k}; peel
	// the phases off to get the left orthogonal factor.
	c := matrix.Mul(up, pc)
	phi := make([]float64, 4)
	o1 := matrix.New(4, 4)
	for k := 0; k < 4; k++ {
		// Phase from the dominant entry of the column.
		br, best := 0, -1.0
		for r := 0; r < 4; r++ {
			if a := cmplx.Abs(c.At(r, k)); a > best {
				best, br = a, r
			}
		}
		phi[k] = cmplx.Phase(c.At(br, k))
		ph := cmplx.Exp(complex(0, -phi[k]))
		for r := 0; r < 4; r++ {
			o1.Set(r, k, c.At(r, k)*ph)
		}
	}
	if matrix.MaxImag(o1) > 1e-8 {
		return nil, fmt.Errorf("kak: eigenbasis did not split the phases (residual %g)", matrix.MaxImag(o1))
	}
	// Zero the residual imaginary parts.
	for i := range o1.Data {
		o1.Data[i] = complex(real(o1.Data[i]), 0)
	}
	if matrix.DetReal(matrix.RealPart(o1)) < 0 {
		phi[0] += math.Pi
		for r := 0; r < 4; r++ {
			o1.Set(r, 0, -o1.At(r, 0))
		}
	}

	// Distribute the residual global phase evenly and read the
	// interaction coefficients off the Bell-state phase pattern:
	//   phi = (ax-ay+az, ax+ay-az, -ax-ay-az, -ax+ay+az).
	mean := (phi[0] + phi[1] + phi[2] + phi[3]) / 4
	psi := make([]float64, 4)
	for k := range phi {
		psi[k] = phi[k] - mean
	}
	ax := (psi[0] + psi[1]) / 2
	ay := (psi[1] + psi[3]) / 2
	az := (psi[0] + psi[3]) / 2

	// Locals back in the computational basis.
	k1 := matrix.MulAll(magicBasis, o1, mdag)
	k2 := matrix.MulAll(magicBasis, matrix.Transpose(pc), mdag)
	k1hi, k1lo, ok1 := FactorKron(k1, tol)
	k2hi, k2lo, ok2 := FactorKron(k2, tol)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("kak: orthogonal factor is not a local product")
	}

	d := &Decomposition{
		Ax: ax, Ay: ay, Az: az,
		K1lo: k1lo, K1hi: k1hi,
		K2lo: k2lo, K2hi: k2hi,
	}
	d.normalize()

	if dist := matrix.PhaseDistance(u, d.Reconstruct()); dist > math.Max(tol, 1e-9) {
		return nil, fmt.Errorf("kak: reconstruction off by %g", dist)
	}
	return d, nil
}

// normalize folds pi/2 shifts of the interaction coefficients into the
// right-hand locals, leaving each coefficient in (-pi/4, pi/4].
func (d *Decomposition) normalize() {
	fold := func(a *float64, pauli *matrix.Matrix) {
		for *a > math.Pi/4+1e-12 {
			*a -= math.Pi / 2
			d.K2lo = matrix.Mul(pauli, d.K2lo)
			d.K2hi = matrix.Mul(pauli, d.K2hi)
		}
		for *a <= -math.Pi/4+1e-12 {
			*a += math.Pi / 2
			d.K2lo = matrix.Mul(pauli, d.K2lo)
			d.K2hi = matrix.Mul(pauli, d.K2hi)
		}
	}
	fold(&d.Ax, pauliXMat)
	fold(&d.Ay, pauliYMat)
	fold(&d.Az, pauliZMat)
}

var (
	pauliXMat = matrix.FromRows([][]complex128{{0, 1}, {1, 0}})
	pauliYMat = matrix.FromRows([][]complex128{{0, -1i}, {1i, 0}})
	pauliZMat = matrix.FromRows([][]complex128{{1, 0}, {0, -1}})
)

// interaction builds exp(i(ax XX + ay YY + az ZZ)) directly from the
// Bell-state phase pattern.
func interaction(ax, ay, az float64) *matrix.Matrix {
	phases := []float64{ax - ay + az, ax + ay - az, -ax - ay - az, -ax + ay + az}
	f := matrix.New(4, 4)
	for k, p := range phases {
		f.Set(k, k, cmplx.Exp(complex(0, p)))
	}
	return matrix.MulAll(magicBasis, f, matrix.Dagger(magicBasis))
}

// Reconstruct rebuilds the unitary from the decomposition (up to global
// phase).
func (d *Decomposition) Reconstruct() *matrix.Matrix {
	return matrix.MulAll(
		matrix.Kron(d.K1hi, d.K1lo),
		interaction(d.Ax, d.Ay, d.Az),
		matrix.Kron(d.K2hi, d.K2lo),
	)
}

// CXCost returns the number of CX gates the synthesis templates will
// spend on the interaction part.
func (d *Decomposition) CXCost(tol float64) int {
	return interactionCost(d.Ax, d.Ay, d.Az, tol)
}
