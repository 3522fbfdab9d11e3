package DG2D

import (
	"fmt"
	"math"

	"github.com/KrisshChawla/dgsem/utils"
	"gonum.org/v1/gonum/mat"
)

/*
	One-dimensional Lobatto-Legendre operator kit for the tensor product
	DGSEM element. Everything here is computed once at solver construction
	and read-only afterwards.

	Dhat pairs with Lhat to give summation by parts: for the weak form,
	Dhat[i,l] = -w[l]/w[i] * D[l,i]. Dsplit is the two-point flux
	differencing operator 2*D with the SBP boundary correction folded into
	its corner entries.
*/
type LobattoBasis struct {
	N        int // Polynomial degree
	Np1      int // N+1 nodes per direction
	R        utils.Vector
	W        utils.Vector
	WInv     utils.Vector
	D        utils.Matrix // Nodal polynomial derivative matrix
	Dhat     utils.Matrix // Weak form SBP derivative
	Dsplit   utils.Matrix // Split form (flux differencing) derivative
	DsplitT  utils.Matrix // Transpose, for the inner loop access pattern
	V, Vinv  utils.Matrix // Legendre Vandermonde pair for modal transforms
	Lhat     utils.Matrix // (N+1)x2 boundary lifting, col 0 at r=-1, col 1 at r=+1
	BaryW    []float64    // Barycentric weights of the node set
}

func NewLobattoBasis(N int) (b *LobattoBasis) {
	if N < 1 {
		panic(fmt.Errorf("polynomial degree must be >= 1, have %d", N))
	}
	b = &LobattoBasis{
		N:   N,
		Np1: N + 1,
	}
	b.R, b.W = JacobiGL(0, 0, N)
	b.WInv = b.W.Copy().Apply(func(w float64) float64 { return 1. / w })
	b.V = Vandermonde1D(N, b.R)
	b.Vinv = b.V.InverseWithCheck()
	Vr := GradVandermonde1D(b.R, N)
	b.D = Vr.Mul(b.Vinv)
	b.BaryW = BarycentricWeights(b.R.DataP)

	b.Dhat = utils.NewMatrix(b.Np1, b.Np1)
	for i := 0; i < b.Np1; i++ {
		for l := 0; l < b.Np1; l++ {
			b.Dhat.Set(i, l, -b.W.AtVec(l)/b.W.AtVec(i)*b.D.At(l, i))
		}
	}
	b.Dsplit = b.Dhat.Copy().Scale(2)
	b.Dsplit.Set(0, 0, b.Dsplit.At(0, 0)+1./b.W.AtVec(0))
	b.Dsplit.Set(N, N, b.Dsplit.At(N, N)-1./b.W.AtVec(N))
	b.DsplitT = b.Dsplit.Transpose()

	// With Lobatto nodes the boundary Lagrange values are Kronecker deltas,
	// so the lifting reduces to the inverse boundary weights
	b.Lhat = utils.NewMatrix(b.Np1, 2)
	lm := LagrangeInterpolatingPolynomials(-1, b.R.DataP, b.BaryW)
	lp := LagrangeInterpolatingPolynomials(1, b.R.DataP, b.BaryW)
	for i := 0; i < b.Np1; i++ {
		b.Lhat.Set(i, 0, lm[i]/b.W.AtVec(i))
		b.Lhat.Set(i, 1, lp[i]/b.W.AtVec(i))
	}
	return
}

// JacobiGQ computes the Gauss quadrature points and weights of the Jacobi
// polynomial via the Golub-Welsch symmetric tridiagonal eigenproblem
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x, w []float64
		fac  float64
	)
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
	}

	h1 := make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	d0 := make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	var ip1 float64
	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) /
			((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymBandDense(N+1, 1, make([]float64, (N+1)*2))
	for i := 0; i < N+1; i++ {
		JJ.SetSymBand(i, i, d0[i])
		if i < N {
			JJ.SetSymBand(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)
	X = utils.NewVector(N+1, x)

	VVr := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	W = utils.NewVector(len(x), VVr.RawRowView(0)).POW(2).Scale(gamma0(alpha, beta))
	return X, W
}

// JacobiGL computes the Gauss-Lobatto points and weights: endpoints plus the
// interior Gauss points of the (alpha+1, beta+1) Jacobi polynomial
func JacobiGL(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x = make([]float64, N+1)
	)
	if N == 1 {
		x[0], x[1] = -1, 1
		X = utils.NewVector(N+1, x)
		W = utils.NewVector(N+1, []float64{1, 1})
		return
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
	x[0] = -1
	x[N] = 1
	for i := 1; i < N; i++ {
		x[i] = xint.AtVec(i - 1)
	}
	X = utils.NewVector(len(x), x)
	// Lobatto weights from the normalized Legendre polynomial of degree N
	W = utils.NewVector(N + 1)
	for i := 0; i < N+1; i++ {
		p := JacobiP(utils.NewVector(1, []float64{x[i]}), 0, 0, N)
		// w_i = 2 / (N*(N+1)*P_N(x_i)^2) with orthonormal scaling stripped
		pn := p[0] * math.Sqrt(2./(2.*float64(N)+1.))
		W.SetVec(i, 2./(float64(N)*(float64(N)+1.)*pn*pn))
	}
	return
}

func Vandermonde1D(N int, R utils.Vector) (V utils.Matrix) {
	V = utils.NewMatrix(R.Len(), N+1)
	for j := 0; j < N+1; j++ {
		V.SetCol(j, JacobiP(R, 0, 0, j))
	}
	return
}

func GradVandermonde1D(R utils.Vector, N int) (Vr utils.Matrix) {
	Vr = utils.NewMatrix(R.Len(), N+1)
	for i := 0; i < N+1; i++ {
		Vr.SetCol(i, GradJacobiP(R, 0, 0, i))
	}
	return
}

// JacobiP evaluates the orthonormal Jacobi polynomial of degree N at the
// points in r, by the standard three-term recurrence
func JacobiP(r utils.Vector, alpha, beta float64, N int) (p []float64) {
	var (
		Nc = r.Len()
	)
	rg := 1. / math.Sqrt(gamma0(alpha, beta))
	if N == 0 {
		p = utils.ConstArray(Nc, rg)
		return
	}
	Np1 := N + 1
	pl := make([][]float64, Np1)
	for i := range pl {
		pl[i] = make([]float64, Nc)
	}
	for i := 0; i < Nc; i++ {
		pl[0][i] = rg
	}
	ab := alpha + beta
	rg1 := 1. / math.Sqrt(gamma1(alpha, beta))
	for i := 0; i < Nc; i++ {
		pl[1][i] = rg1 * ((ab+2.0)*r.AtVec(i)/2.0 + (alpha-beta)/2.0)
	}
	if N == 1 {
		p = pl[1]
		return
	}
	a1 := alpha + 1.
	b1 := beta + 1.
	ab1 := ab + 1.
	aold := 2.0 * math.Sqrt(a1*b1/(ab+3.0)) / (ab + 2.0)
	for i := 0; i < N-1; i++ {
		ip1 := float64(i + 1)
		ip2 := ip1 + 1
		h1 := 2.0*ip1 + ab
		anew := 2.0 / (h1 + 2.0) * math.Sqrt(ip2*(ip1+ab1)*(ip1+a1)*(ip1+b1)/(h1+1.0)/(h1+3.0))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2.0)
		for j := 0; j < Nc; j++ {
			pl[i+2][j] = (-aold*pl[i][j] + (r.AtVec(j)-bnew)*pl[i+1][j]) / anew
		}
		aold = anew
	}
	p = pl[N]
	return
}

func GradJacobiP(r utils.Vector, alpha, beta float64, N int) (p []float64) {
	if N == 0 {
		p = make([]float64, r.Len())
		return
	}
	p = JacobiP(r, alpha+1, beta+1, N-1)
	fN := float64(N)
	fac := math.Sqrt(fN * (fN + alpha + beta + 1))
	for i, val := range p {
		p[i] = val * fac
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func gamma1(alpha, beta float64) float64 {
	ab := alpha + beta
	a1 := alpha + 1.
	b1 := beta + 1.
	return a1 * b1 * gamma0(alpha, beta) / (ab + 3.0)
}

// BarycentricWeights for the Lagrange basis on the given nodes
func BarycentricWeights(nodes []float64) (w []float64) {
	n := len(nodes)
	w = make([]float64, n)
	for i := range w {
		w[i] = 1.
	}
	for j := 1; j < n; j++ {
		for k := 0; k < j; k++ {
			w[k] *= nodes[k] - nodes[j]
			w[j] *= nodes[j] - nodes[k]
		}
	}
	for i := range w {
		w[i] = 1. / w[i]
	}
	return
}

// LagrangeInterpolatingPolynomials evaluates all cardinal functions of the
// node set at x, using the barycentric form
func LagrangeInterpolatingPolynomials(x float64, nodes, baryWeights []float64) (l []float64) {
	n := len(nodes)
	l = make([]float64, n)
	for i, xi := range nodes {
		if math.Abs(x-xi) < utils.NODETOL {
			l[i] = 1.
			return
		}
	}
	var total float64
	for i := range nodes {
		l[i] = baryWeights[i] / (x - nodes[i])
		total += l[i]
	}
	for i := range l {
		l[i] /= total
	}
	return
}

// PolynomialInterpolationMatrix maps nodal values on fromNodes to values at
// toNodes
func PolynomialInterpolationMatrix(fromNodes, toNodes []float64) (I utils.Matrix) {
	var (
		baryW = BarycentricWeights(fromNodes)
	)
	I = utils.NewMatrix(len(toNodes), len(fromNodes))
	for j, x := range toNodes {
		l := LagrangeInterpolatingPolynomials(x, fromNodes, baryW)
		I.SetRow(j, l)
	}
	return
}
