// Package tableau implements the stabilizer-tableau representation of
// Clifford unitaries: bit-matrix conjugation updates for the Clifford
// generators, recognition of Clifford commands, and a deterministic
// resynthesis of a tableau back into a CX + single-qubit circuit.
package tableau

import (
	"fmt"
)

// Tableau is the destabilizer/stabilizer tableau of an n-qubit Clifford
// unitary U. Row i < n is the image of X_i under conjugation by U, row
// n+i the image of Z_i, each stored as x/z bit vectors plus a sign bit.
type Tableau struct {
	N int
	// x[r][q], z[r][q] and sign r[r] for the 2N rows.
	X    [][]bool
	Z    [][]bool
	Sign []bool
}

// New returns the identity tableau on n qubits.
func New(n int) *Tableau {
	t := &Tableau{
		N:    n,
		X:    make([][]bool, 2*n),
		Z:    make([][]bool, 2*n),
		Sign: make([]bool, 2*n),
	}
	for r := 0; r < 2*n; r++ {
		t.X[r] = make([]bool, n)
		t.Z[r] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		t.X[i][i] = true
		t.Z[n+i][i] = true
	}
	return t
}

// Copy returns a deep copy.
func (t *Tableau) Copy() *Tableau {
	out := &Tableau{
		N:    t.N,
		X:    make([][]bool, 2*t.N),
		Z:    make([][]bool, 2*t.N),
		Sign: append([]bool(nil), t.Sign...),
	}
	for r := range t.X {
		out.X[r] = append([]bool(nil), t.X[r]...)
		out.Z[r] = append([]bool(nil), t.Z[r]...)
	}
	return out
}

// IsIdentity reports whether the tableau is the identity conjugation.
func (t *Tableau) IsIdentity() bool {
	for r := 0; r < 2*t.N; r++ {
		if t.Sign[r] {
			return false
		}
		for q := 0; q < t.N; q++ {
			wantX := r < t.N && q == r
			wantZ := r >= t.N && q == r-t.N
			if t.X[r][q] != wantX || t.Z[r][q] != wantZ {
				return false
			}
		}
	}
	return true
}

// Equal reports whether two tableaus describe the same conjugation.
func (t *Tableau) Equal(other *Tableau) bool {
	if t.N != other.N {
		return false
	}
	for r := 0; r < 2*t.N; r++ {
		if t.Sign[r] != other.Sign[r] {
			return false
		}
		for q := 0; q < t.N; q++ {
			if t.X[r][q] != other.X[r][q] || t.Z[r][q] != other.Z[r][q] {
				return false
			}
		}
	}
	return true
}

func (t *Tableau) String() string {
	s := ""
	for r := 0; r < 2*t.N; r++ {
		if t.Sign[r] {
			s += "-"
		} else {
			s += "+"
		}
		for q := 0; q < t.N; q++ {
			switch {
			case t.X[r][q] && t.Z[r][q]:
				s += "Y"
			case t.X[r][q]:
				s += "X"
			case t.Z[r][q]:
				s += "Z"
			default:
				s += "I"
			}
		}
		s += "\n"
	}
	return s
}

func (t *Tableau) check(q int) {
	if q < 0 || q >= t.N {
		panic(fmt.Sprintf("tableau: qubit %d out of range [0,%d)", q, t.N))
	}
}

// H applies a Hadamard on qubit q: X <-> Z, with Y picking up a sign.
func (t *Tableau) H(q int) {
	t.check(q)
	for r := 0; r < 2*t.N; r++ {
		if t.X[r][q] && t.Z[r][q] {
			t.Sign[r] = !t.Sign[r]
		}
		t.X[r][q], t.Z[r][q] = t.Z[r][q], t.X[r][q]
	}
}

// S applies the phase gate on qubit q: X -> Y, Y -> -X, Z -> Z.
func (t *Tableau) S(q int) {
	t.check(q)
	for r := 0; r < 2*t.N; r++ {
		if t.X[r][q] && t.Z[r][q] {
			t.Sign[r] = !t.Sign[r]
		}
		t.Z[r][q] = t.Z[r][q] != t.X[r][q]
	}
}

// Sdg applies the inverse phase gate (three S applications).
func (t *Tableau) Sdg(q int) {
	t.S(q)
	t.S(q)
	t.S(q)
}

// XGate applies a Pauli X on qubit q, flipping the sign of Z-bearing rows.
func (t *Tableau) XGate(q int) {
	t.check(q)
	for r := 0; r < 2*t.N; r++ {
		if t.Z[r][q] {
			t.Sign[r] = !t.Sign[r]
		}
	}
}

// ZGate applies a Pauli Z on qubit q, flipping the sign of X-bearing rows.
func (t *Tableau) ZGate(q int) {
	t.check(q)
	for r := 0; r < 2*t.N; r++ {
		if t.X[r][q] {
			t.Sign[r] = !t.Sign[r]
		}
	}
}

// CX applies a controlled-X with control a and target b.
func (t *Tableau) CX(a, b int) {
	t.check(a)
	t.check(b)
	if a == b {
		panic("tableau: CX control equals target")
	}
	for r := 0; r < 2*t.N; r++ {
		if t.X[r][a] && t.Z[r][b] && (t.X[r][b] == t.Z[r][a]) {
			t.Sign[r] = !t.Sign[r]
		}
		t.X[r][b] = t.X[r][b] != t.X[r][a]
		t.Z[r][a] = t.Z[r][a] != t.Z[r][b]
	}
}

// CZ applies a controlled-Z between a and b.
func (t *Tableau) CZ(a, b int) {
	t.H(b)
	t.CX(a, b)
	t.H(b)
}

// SWAP exchanges qubits a and b.
func (t *Tableau) SWAP(a, b int) {
	t.CX(a, b)
	t.CX(b, a)
	t.CX(a, b)
}
