package DG2D

import (
	"math"
	"math/rand"
	"testing"
)

// The forward operators must reproduce polynomial traces exactly at the
// half-face node images
func TestMortarForwardInterpolation(t *testing.T) {
	var (
		N  = 4
		b  = NewLobattoBasis(N)
		mo = NewMortarL2(b)
		p  = func(x float64) float64 { return 0.3 + 1.7*x - x*x + 0.25*math.Pow(x, 4) }
	)
	trace := make([]float64, b.Np1)
	out := make([]float64, b.Np1)
	for i := 0; i <= N; i++ {
		trace[i] = p(b.R.AtVec(i))
	}
	mo.ForwardLower.MulVec(trace, out)
	for j := 0; j <= N; j++ {
		near(t, out[j], p(0.5*(b.R.AtVec(j)-1)), 1.e-12)
	}
	mo.ForwardUpper.MulVec(trace, out)
	for j := 0; j <= N; j++ {
		near(t, out[j], p(0.5*(b.R.AtVec(j)+1)), 1.e-12)
	}
}

// A constant flux on both small faces must come back as the same constant
// on the large face, for both flavors
func TestMortarFreeStreamOperators(t *testing.T) {
	var (
		N = 3
		b = NewLobattoBasis(N)
	)
	for _, mo := range []*MortarOperators{NewMortarL2(b), NewMortarEC(b)} {
		ones := make([]float64, b.Np1)
		lo := make([]float64, b.Np1)
		up := make([]float64, b.Np1)
		for i := range ones {
			ones[i] = 1
		}
		mo.ForwardLower.MulVec(ones, lo)
		mo.ForwardUpper.MulVec(ones, up)
		for i := 0; i <= N; i++ {
			near(t, lo[i], 1, 1.e-13)
			near(t, up[i], 1, 1.e-13)
		}
		mo.ReverseLower.MulVec(ones, lo)
		mo.ReverseUpper.MulVec(ones, up)
		for i := 0; i <= N; i++ {
			near(t, lo[i]+up[i], 1, 1.e-12)
		}
	}
}

// The reverse operators are quadrature adjoints of the forward ones, so
// the large face integral of the projected flux equals half the sum of
// the small face integrals; this is what makes the coupling conservative
func TestMortarConservation(t *testing.T) {
	var (
		N   = 4
		b   = NewLobattoBasis(N)
		rng = rand.New(rand.NewSource(42))
	)
	for _, mo := range []*MortarOperators{NewMortarL2(b), NewMortarEC(b)} {
		fLo := make([]float64, b.Np1)
		fUp := make([]float64, b.Np1)
		gLo := make([]float64, b.Np1)
		gUp := make([]float64, b.Np1)
		for i := range fLo {
			fLo[i] = rng.NormFloat64()
			fUp[i] = rng.NormFloat64()
		}
		mo.ReverseLower.MulVec(fLo, gLo)
		mo.ReverseUpper.MulVec(fUp, gUp)
		var large, small float64
		for i := 0; i <= N; i++ {
			large += b.W.AtVec(i) * (gLo[i] + gUp[i])
			small += b.W.AtVec(i) * (fLo[i] + fUp[i])
		}
		near(t, large, 0.5*small, 1.e-12)
	}
}
