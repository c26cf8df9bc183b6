package circuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/rydberg-labs/circopt/internal/matrix"
)

// Basis convention: qubit q is bit q of the basis-state index (little
// endian). For a k-wire gate the local index is built the same way from
// the listed wires in order, so the first listed wire is the low bit.

var (
	matI = matrix.FromRows([][]complex128{{1, 0}, {0, 1}})
	matX = matrix.FromRows([][]complex128{{0, 1}, {1, 0}})
	matY = matrix.FromRows([][]complex128{{0, -1i}, {1i, 0}})
	matZ = matrix.FromRows([][]complex128{{1, 0}, {0, -1}})
)

// PauliMatrix returns the 2x2 matrix of a single Pauli.
func PauliMatrix(p Pauli) *matrix.Matrix {
	switch p {
	case PauliX:
		return matX
	case PauliY:
		return matY
	case PauliZ:
		return matZ
	default:
		return matI
	}
}

// RotationMatrix returns exp(-i*pi*t/2 * P) for a single Pauli axis.
func RotationMatrix(p Pauli, t float64) *matrix.Matrix {
	c := complex(math.Cos(math.Pi*t/2), 0)
	s := complex(0, -math.Sin(math.Pi*t/2))
	pm := PauliMatrix(p)
	out := matrix.New(2, 2)
	for i := range out.Data {
		out.Data[i] = c*matI.Data[i] + s*pm.Data[i]
	}
	return out
}

// pauli2 builds P on the first listed wire and Q on the second, in the
// local little-endian convention (second wire is the high bit).
func pauli2(p, q *matrix.Matrix) *matrix.Matrix {
	return matrix.Kron(q, p)
}

// pauliRot2 builds exp(-i*pi*t/2 * PQ) for a two-qubit Pauli product.
func pauliRot2(p, q Pauli, t float64) *matrix.Matrix {
	m := pauli2(PauliMatrix(p), PauliMatrix(q))
	c := complex(math.Cos(math.Pi*t/2), 0)
	s := complex(0, -math.Sin(math.Pi*t/2))
	out := matrix.Identity(4)
	for i := range out.Data {
		out.Data[i] = c*out.Data[i] + s*m.Data[i]
	}
	return out
}

// LocalMatrix returns the gate matrix of a command over its own wires
// (2^k x 2^k for a k-wire gate). The second return is false for non-gate
// commands and for Custom operations, whose matrix is unknown.
func LocalMatrix(cmd Command) (*matrix.Matrix, bool) {
	switch cmd.Op {
	case Noop:
		return matrix.Identity(2), true
	case X:
		return matX.Copy(), true
	case Y:
		return matY.Copy(), true
	case Z:
		return matZ.Copy(), true
	case H:
		s := complex(1/math.Sqrt2, 0)
		return matrix.FromRows([][]complex128{{s, s}, {s, -s}}), true
	case S:
		return matrix.FromRows([][]complex128{{1, 0}, {0, 1i}}), true
	case Sdg:
		return matrix.FromRows([][]complex128{{1, 0}, {0, -1i}}), true
	case T:
		return matrix.FromRows([][]complex128{{1, 0}, {0, cmplx.Exp(1i * math.Pi / 4)}}), true
	case Tdg:
		return matrix.FromRows([][]complex128{{1, 0}, {0, cmplx.Exp(-1i * math.Pi / 4)}}), true
	case SX:
		return matrix.Scale(cmplx.Exp(1i*math.Pi/4), RotationMatrix(PauliX, 0.5)), true
	case SXdg:
		return matrix.Scale(cmplx.Exp(-1i*math.Pi/4), RotationMatrix(PauliX, -0.5)), true
	case Rx:
		return RotationMatrix(PauliX, cmd.Params[0]), true
	case Ry:
		return RotationMatrix(PauliY, cmd.Params[0]), true
	case Rz:
		return RotationMatrix(PauliZ, cmd.Params[0]), true
	case TK1:
		return matrix.MulAll(
			RotationMatrix(PauliZ, cmd.Params[0]),
			RotationMatrix(PauliX, cmd.Params[1]),
			RotationMatrix(PauliZ, cmd.Params[2]),
		), true
	case PhasedX:
		return matrix.MulAll(
			RotationMatrix(PauliZ, cmd.Params[1]),
			RotationMatrix(PauliX, cmd.Params[0]),
			RotationMatrix(PauliZ, -cmd.Params[1]),
		), true
	case CX:
		return matrix.FromRows([][]complex128{
			{1, 0, 0, 0},
			{0, 0, 0, 1},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
		}), true
	case CZ:
		return matrix.FromRows([][]complex128{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, -1},
		}), true
	case SWAP:
		return matrix.FromRows([][]complex128{
			{1, 0, 0, 0},
			{0, 0, 1, 0},
			{0, 1, 0, 0},
			{0, 0, 0, 1},
		}), true
	case ZZPhase:
		return pauliRot2(PauliZ, PauliZ, cmd.Params[0]), true
	case XXPhase:
		return pauliRot2(PauliX, PauliX, cmd.Params[0]), true
	case YYPhase:
		return pauliRot2(PauliY, PauliY, cmd.Params[0]), true
	case ZZMax:
		return pauliRot2(PauliZ, PauliZ, 0.5), true
	case ECR:
		ix := pauli2(matI, matX)
		xy := pauli2(matX, matY)
		out := matrix.New(4, 4)
		s := complex(1/math.Sqrt2, 0)
		for i := range out.Data {
			out.Data[i] = s * (ix.Data[i] - xy.Data[i])
		}
		return out, true
	case TK2:
		return matrix.MulAll(
			pauliRot2(PauliX, PauliX, cmd.Params[0]),
			pauliRot2(PauliY, PauliY, cmd.Params[1]),
			pauliRot2(PauliZ, PauliZ, cmd.Params[2]),
		), true
	case PauliExpBox:
		m := matrix.Identity(1)
		for _, p := range cmd.Paulis {
			// Later wires are higher bits, so they go on the left of
			// the Kronecker chain.
			m = matrix.Kron(PauliMatrix(p), m)
		}
		dim := m.Rows
		c := complex(math.Cos(math.Pi*cmd.Params[0]/2), 0)
		s := complex(0, -math.Sin(math.Pi*cmd.Params[0]/2))
		out := matrix.Identity(dim)
		for i := range out.Data {
			out.Data[i] = c*out.Data[i] + s*m.Data[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// embed lifts a k-wire gate matrix to the full register.
func embed(g *matrix.Matrix, wires []int, n int) *matrix.Matrix {
	k := len(wires)
	dim := 1 << n
	out := matrix.New(dim, dim)
	for i := 0; i < dim; i++ {
		// Local index and remainder of the row index.
		iloc := 0
		rest := i
		for b, w := range wires {
			if i>>(w)&1 == 1 {
				iloc |= 1 << b
				rest &^= 1 << w
			}
		}
		for jloc := 0; jloc < 1<<k; jloc++ {
			v := g.At(iloc, jloc)
			if v == 0 {
				continue
			}
			j := rest
			for b, w := range wires {
				if jloc>>b&1 == 1 {
					j |= 1 << w
				}
			}
			out.Set(i, j, v)
		}
	}
	return out
}

// Unitary computes the full unitary of the circuit, including the implicit
// output permutation. It fails if the circuit contains non-unitary
// operations (measure, reset, boundary ops) or Custom gates.
func (c *Circuit) Unitary() (*matrix.Matrix, error) {
	dim := 1 << c.NumQubits
	u := matrix.Identity(dim)
	for _, cmd := range c.Cmds {
		if cmd.Op == Barrier {
			continue
		}
		g, ok := LocalMatrix(cmd)
		if !ok {
			return nil, fmt.Errorf("circuit: %s has no unitary", cmd.Op)
		}
		u = matrix.Mul(embed(g, cmd.Qubits, c.NumQubits), u)
	}
	if !c.PermIsIdentity() {
		p := matrix.New(dim, dim)
		for x := 0; x < dim; x++ {
			y := 0
			for q := 0; q < c.NumQubits; q++ {
				if x>>q&1 == 1 {
					y |= 1 << c.Perm[q]
				}
			}
			p.Set(y, x, 1)
		}
		u = matrix.Mul(p, u)
	}
	return u, nil
}
