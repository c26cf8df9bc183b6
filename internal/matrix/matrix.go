// Package matrix provides the dense complex linear algebra used by the
// decomposition and verification code. Matrices are small (2x2 up to
// 2^n x 2^n for circuit unitaries of a handful of qubits), so everything
// is plain row-major complex128 with no sparsity or blocking.
package matrix

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Matrix is a dense row-major complex matrix.
type Matrix struct {
	Rows, Cols int
	Data       []complex128
}

// New returns a zero matrix of the given shape.
func New(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]complex128, rows*cols)}
}

// Identity returns the n x n identity.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

// FromRows builds a matrix from row slices. All rows must have equal length.
func FromRows(rows [][]complex128) *Matrix {
	if len(rows) == 0 {
		return New(0, 0)
	}
	m := New(len(rows), len(rows[0]))
	for i, r := range rows {
		if len(r) != m.Cols {
			panic(fmt.Sprintf("matrix: ragged row %d (%d != %d)", i, len(r), m.Cols))
		}
		copy(m.Data[i*m.Cols:(i+1)*m.Cols], r)
	}
	return m
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) complex128 { return m.Data[i*m.Cols+j] }

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, v complex128) { m.Data[i*m.Cols+j] = v }

// Copy returns a deep copy.
func (m *Matrix) Copy() *Matrix {
	c := New(m.Rows, m.Cols)
	copy(c.Data, m.Data)
	return c
}

// Mul returns a * b.
func Mul(a, b *Matrix) *Matrix {
	if a.Cols != b.Rows {
		panic(fmt.Sprintf("matrix: mul shape mismatch %dx%d * %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	out := New(a.Rows, b.Cols)
	for i := 0; i < a.Rows; i++ {
		for k := 0; k < a.Cols; k++ {
			aik := a.Data[i*a.Cols+k]
			if aik == 0 {
				continue
			}
			for j := 0; j < b.Cols; j++ {
				out.Data[i*out.Cols+j] += aik * b.Data[k*b.Cols+j]
			}
		}
	}
	return out
}

// MulAll multiplies left to right: MulAll(a, b, c) = a*b*c.
func MulAll(ms ...*Matrix) *Matrix {
	if len(ms) == 0 {
		panic("matrix: MulAll of nothing")
	}
	out := ms[0]
	for _, m := range ms[1:] {
		out = Mul(out, m)
	}
	return out
}

// Kron returns the Kronecker product a (x) b.
func Kron(a, b *Matrix) *Matrix {
	out := New(a.Rows*b.Rows, a.Cols*b.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			aij := a.Data[i*a.Cols+j]
			if aij == 0 {
				continue
			}
			for k := 0; k < b.Rows; k++ {
				for l := 0; l < b.Cols; l++ {
					out.Set(i*b.Rows+k, j*b.Cols+l, aij*b.Data[k*b.Cols+l])
				}
			}
		}
	}
	return out
}

// Dagger returns the conjugate transpose.
func Dagger(m *Matrix) *Matrix {
	out := New(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Set(j, i, cmplx.Conj(m.At(i, j)))
		}
	}
	return out
}

// Transpose returns the plain (unconjugated) transpose.
func Transpose(m *Matrix) *Matrix {
	out := New(m.Cols, m.Rows)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

// Scale returns s * m.
func Scale(s complex128, m *Matrix) *Matrix {
	out := m.Copy()
	for i := range out.Data {
		out.Data[i] *= s
	}
	return out
}

// Trace returns the trace of a square matrix.
func Trace(m *Matrix) complex128 {
	var t complex128
	for i := 0; i < m.Rows; i++ {
		t += m.At(i, i)
	}
	return t
}

// Det2 returns the determinant of a 2x2 matrix.
func Det2(m *Matrix) complex128 {
	return m.At(0, 0)*m.At(1, 1) - m.At(0, 1)*m.At(1, 0)
}

// Det4 returns the determinant of a 4x4 matrix by cofactor expansion on
// 2x2 minors (fast and stable enough at this size).
func Det4(m *Matrix) complex128 {
	minor := func(r0, r1, c0, c1 int) complex128 {
		return m.At(r0, c0)*m.At(r1, c1) - m.At(r0, c1)*m.At(r1, c0)
	}
	return minor(0, 1, 0, 1)*minor(2, 3, 2, 3) -
		minor(0, 1, 0, 2)*minor(2, 3, 1, 3) +
		minor(0, 1, 0, 3)*minor(2, 3, 1, 2) +
		minor(0, 1, 1, 2)*minor(2, 3, 0, 3) -
		minor(0, 1, 1, 3)*minor(2, 3, 0, 2) +
		minor(0, 1, 2, 3)*minor(2, 3, 0, 1)
}

// MaxAbsIndex returns the index of the entry with the largest modulus.
func MaxAbsIndex(m *Matrix) (int, int) {
	bi, bj, best := 0, 0, -1.0
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if a := cmplx.Abs(m.At(i, j)); a > best {
				best, bi, bj = a, i, j
			}
		}
	}
	return bi, bj
}

// PhaseDistance returns max_ij |a_ij - e^{i phi} b_ij| where phi is chosen
// to align the largest entry of b with the corresponding entry of a. A
// small result means a and b are equal up to global phase.
func PhaseDistance(a, b *Matrix) float64 {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return math.Inf(1)
	}
	i, j := MaxAbsIndex(b)
	bij := b.At(i, j)
	if cmplx.Abs(bij) == 0 {
		return maxAbsDiff(a, b)
	}
	phase := a.At(i, j) / bij
	if cmplx.Abs(phase) == 0 {
		return maxAbsDiff(a, b)
	}
	phase /= complex(cmplx.Abs(phase), 0)
	return maxAbsDiff(a, Scale(phase, b))
}

func maxAbsDiff(a, b *Matrix) float64 {
	worst := 0.0
	for i := range a.Data {
		if d := cmplx.Abs(a.Data[i] - b.Data[i]); d > worst {
			worst = d
		}
	}
	return worst
}

// EqualUpToPhase reports whether a and b agree up to a global phase
// within tol.
func EqualUpToPhase(a, b *Matrix, tol float64) bool {
	return PhaseDistance(a, b) <= tol
}

// IsUnitary reports whether m^dag * m is the identity within tol.
func IsUnitary(m *Matrix, tol float64) bool {
	if m.Rows != m.Cols {
		return false
	}
	p := Mul(Dagger(m), m)
	for i := 0; i < p.Rows; i++ {
		for j := 0; j < p.Cols; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(p.At(i, j)-want) > tol {
				return false
			}
		}
	}
	return true
}

// MaxImag returns the largest |Im| over all entries.
func MaxImag(m *Matrix) float64 {
	worst := 0.0
	for _, v := range m.Data {
		if a := math.Abs(imag(v)); a > worst {
			worst = a
		}
	}
	return worst
}

// RealPart extracts the real parts into a float64 row-major matrix.
func RealPart(m *Matrix) [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, m.Cols)
		for j := 0; j < m.Cols; j++ {
			out[i][j] = real(m.At(i, j))
		}
	}
	return out
}

// ImagPart extracts the imaginary parts into a float64 row-major matrix.
func ImagPart(m *Matrix) [][]float64 {
	out := make([][]float64, m.Rows)
	for i := range out {
		out[i] = make([]float64, m.Cols)
		for j := 0; j < m.Cols; j++ {
			out[i][j] = imag(m.At(i, j))
		}
	}
	return out
}
