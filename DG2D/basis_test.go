package DG2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func near(t *testing.T, a, b, tol float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, b, a, tol, msgAndArgs...)
}

func TestLobattoNodesAndWeights(t *testing.T) {
	for N := 1; N <= 6; N++ {
		b := NewLobattoBasis(N)
		assert.Equal(t, N+1, b.R.Len())
		near(t, b.R.AtVec(0), -1, 1.e-14)
		near(t, b.R.AtVec(N), 1, 1.e-14)
		var wsum float64
		for i := 0; i <= N; i++ {
			assert.True(t, b.W.AtVec(i) > 0)
			wsum += b.W.AtVec(i)
		}
		near(t, wsum, 2, 1.e-13, "weights must integrate constants exactly")
		for i := 0; i < N; i++ {
			assert.True(t, b.R.AtVec(i) < b.R.AtVec(i+1))
		}
	}
	// Known N=3 interior points at +-sqrt(1/5)
	b := NewLobattoBasis(3)
	near(t, b.R.AtVec(1), -math.Sqrt(1./5.), 1.e-12)
	near(t, b.R.AtVec(2), math.Sqrt(1./5.), 1.e-12)
}

func TestDerivativeMatrix(t *testing.T) {
	var (
		N = 4
		b = NewLobattoBasis(N)
	)
	// D differentiates polynomials up to degree N exactly
	for m := 0; m <= N; m++ {
		for i := 0; i <= N; i++ {
			var du float64
			for l := 0; l <= N; l++ {
				du += b.D.At(i, l) * math.Pow(b.R.AtVec(l), float64(m))
			}
			var exact float64
			if m > 0 {
				exact = float64(m) * math.Pow(b.R.AtVec(i), float64(m-1))
			}
			near(t, du, exact, 1.e-10)
		}
	}
}

// The diagonal-norm SBP property: W*D + (W*D)^T equals the boundary matrix
func TestSummationByParts(t *testing.T) {
	for N := 1; N <= 5; N++ {
		b := NewLobattoBasis(N)
		for i := 0; i <= N; i++ {
			for j := 0; j <= N; j++ {
				q := b.W.AtVec(i)*b.D.At(i, j) + b.W.AtVec(j)*b.D.At(j, i)
				var boundary float64
				if i == 0 && j == 0 {
					boundary = -1
				}
				if i == N && j == N {
					boundary = 1
				}
				near(t, q, boundary, 1.e-12)
			}
		}
	}
}

func TestWeakAndSplitOperators(t *testing.T) {
	var (
		N = 3
		b = NewLobattoBasis(N)
	)
	for i := 0; i <= N; i++ {
		for l := 0; l <= N; l++ {
			near(t, b.Dhat.At(i, l), -b.W.AtVec(l)/b.W.AtVec(i)*b.D.At(l, i), 1.e-13)
			expected := 2 * b.Dhat.At(i, l)
			if i == 0 && l == 0 {
				expected += 1. / b.W.AtVec(0)
			}
			if i == N && l == N {
				expected -= 1. / b.W.AtVec(N)
			}
			near(t, b.Dsplit.At(i, l), expected, 1.e-13)
			near(t, b.DsplitT.At(l, i), b.Dsplit.At(i, l), 1.e-15)
		}
	}
	// Boundary lifting reduces to inverse endpoint weights on Lobatto nodes
	for i := 0; i <= N; i++ {
		var lm, lp float64
		if i == 0 {
			lm = 1. / b.W.AtVec(0)
		}
		if i == N {
			lp = 1. / b.W.AtVec(N)
		}
		near(t, b.Lhat.At(i, 0), lm, 1.e-13)
		near(t, b.Lhat.At(i, 1), lp, 1.e-13)
	}
}

func TestVandermondeInverse(t *testing.T) {
	var (
		N  = 4
		b  = NewLobattoBasis(N)
		id = b.Vinv.Mul(b.V)
	)
	for i := 0; i <= N; i++ {
		for j := 0; j <= N; j++ {
			var expected float64
			if i == j {
				expected = 1
			}
			near(t, id.At(i, j), expected, 1.e-10)
		}
	}
}

func TestInterpolationMatrix(t *testing.T) {
	var (
		N = 3
		b = NewLobattoBasis(N)
		f = func(x float64) float64 { return 1. + x - 2.*x*x + 0.5*x*x*x }
	)
	to := []float64{-0.9, -0.3, 0.1, 0.77}
	I := PolynomialInterpolationMatrix(b.R.DataP, to)
	for j, x := range to {
		var fi float64
		for l := 0; l <= N; l++ {
			fi += I.At(j, l) * f(b.R.AtVec(l))
		}
		near(t, fi, f(x), 1.e-12)
	}
}
