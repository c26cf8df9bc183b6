package matrix

import (
	"math"
)

// JacobiSymmetric diagonalizes a real symmetric matrix with the classic
// cyclic Jacobi iteration. It returns the eigenvalues and an orthogonal
// matrix whose columns are the corresponding eigenvectors (a = v * diag * v^T).
// The input is not modified.
func JacobiSymmetric(a [][]float64) (vals []float64, vecs [][]float64) {
	n := len(a)
	m := make([][]float64, n)
	vecs = make([][]float64, n)
	for i := 0; i < n; i++ {
		m[i] = append([]float64(nil), a[i]...)
		vecs[i] = make([]float64, n)
		vecs[i][i] = 1
	}

	const maxSweeps = 64
	for sweep := 0; sweep < maxSweeps; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += m[i][j] * m[i][j]
			}
		}
		if off < 1e-28 {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(m[p][q]) < 1e-15 {
					continue
				}
				// Rotation angle zeroing m[p][q].
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c
				for k := 0; k < n; k++ {
					mkp, mkq := m[k][p], m[k][q]
					m[k][p] = c*mkp - s*mkq
					m[k][q] = s*mkp + c*mkq
				}
				for k := 0; k < n; k++ {
					mpk, mqk := m[p][k], m[q][k]
					m[p][k] = c*mpk - s*mqk
					m[q][k] = s*mpk + c*mqk
				}
				for k := 0; k < n; k++ {
					vkp, vkq := vecs[k][p], vecs[k][q]
					vecs[k][p] = c*vkp - s*vkq
					vecs[k][q] = s*vkp + c*vkq
				}
			}
		}
	}

	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = m[i][i]
	}
	return vals, vecs
}

// SimultaneousDiagonalize finds a real orthogonal matrix P whose columns
// diagonalize both a and b, which must be symmetric and commuting (as the
// real and imaginary parts of a unitary complex symmetric matrix are).
//
// It eigendecomposes a first, then rediagonalizes b restricted to each
// (near-)degenerate eigenspace of a.
func SimultaneousDiagonalize(a, b [][]float64) [][]float64 {
	n := len(a)
	_, p := JacobiSymmetric(a)

	// Eigenvalues of a in the basis p, used for degeneracy grouping.
	ap := congruence(a, p)
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		vals[i] = ap[i][i]
	}

	// Sort columns by eigenvalue so degenerate groups are contiguous.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if vals[order[j]] < vals[order[i]] {
				order[i], order[j] = order[j], order[i]
			}
		}
	}
	p = permuteColumns(p, order)
	sorted := make([]float64, n)
	for i, o := range order {
		sorted[i] = vals[o]
	}

	const degTol = 1e-7
	bp := congruence(b, p)
	start := 0
	for start < n {
		end := start + 1
		for end < n && math.Abs(sorted[end]-sorted[start]) < degTol {
			end++
		}
		if end-start > 1 {
			// Diagonalize b inside the degenerate block.
			k := end - start
			sub := make([][]float64, k)
			for i := 0; i < k; i++ {
				sub[i] = make([]float64, k)
				for j := 0; j < k; j++ {
					sub[i][j] = bp[start+i][start+j]
				}
			}
			_, r := JacobiSymmetric(sub)
			p = rotateBlock(p, start, r)
			bp = congruence(b, p)
		}
		start = end
	}
	return p
}

// congruence computes p^T * a * p.
func congruence(a, p [][]float64) [][]float64 {
	n := len(a)
	tmp := make([][]float64, n)
	for i := 0; i < n; i++ {
		tmp[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				tmp[i][j] += a[i][k] * p[k][j]
			}
		}
	}
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				out[i][j] += p[k][i] * tmp[k][j]
			}
		}
	}
	return out
}

func permuteColumns(p [][]float64, order []int) [][]float64 {
	n := len(p)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j, o := range order {
			out[i][j] = p[i][o]
		}
	}
	return out
}

// rotateBlock applies the k x k rotation r to columns [start, start+k) of p.
func rotateBlock(p [][]float64, start int, r [][]float64) [][]float64 {
	n := len(p)
	k := len(r)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = append([]float64(nil), p[i]...)
		for j := 0; j < k; j++ {
			v := 0.0
			for l := 0; l < k; l++ {
				v += p[i][start+l] * r[l][j]
			}
			out[i][start+j] = v
		}
	}
	return out
}

// DetReal computes the determinant of a small real matrix by Gaussian
// elimination with partial pivoting.
func DetReal(a [][]float64) float64 {
	n := len(a)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append([]float64(nil), a[i]...)
	}
	det := 1.0
	for c := 0; c < n; c++ {
		pivot := c
		for r := c + 1; r < n; r++ {
			if math.Abs(m[r][c]) > math.Abs(m[pivot][c]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][c]) < 1e-14 {
			return 0
		}
		if pivot != c {
			m[pivot], m[c] = m[c], m[pivot]
			det = -det
		}
		det *= m[c][c]
		for r := c + 1; r < n; r++ {
			f := m[r][c] / m[c][c]
			for k := c; k < n; k++ {
				m[r][k] -= f * m[c][k]
			}
		}
	}
	return det
}
