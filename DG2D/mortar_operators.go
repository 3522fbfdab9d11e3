package DG2D

import (
	"github.com/KrisshChawla/dgsem/utils"
)

/*
	Mortar projection operators connecting one large face to two small faces
	at a refinement jump. Forward operators interpolate the large-face trace
	to the small node sets; reverse operators project the two small-face
	fluxes back onto the large face.

	The reverse operators are the quadrature adjoints of the forward ones:
	M_large * R = 1/2 * F^T * M_small. The EC flavor takes both mass
	matrices as the collocated Lobatto ones, which keeps the discrete
	entropy balance across the jump. The L2 flavor assembles the projection
	in the Legendre-Gauss basis, where (N+1)-point quadrature is exact
	through degree 2N+1, and sandwiches it between Lobatto<->Gauss
	interpolation, giving the true L2 projection.
*/
type MortarOperators struct {
	ForwardLower utils.Matrix // large trace -> lower small face nodes
	ForwardUpper utils.Matrix // large trace -> upper small face nodes
	ReverseLower utils.Matrix // lower small flux -> large face
	ReverseUpper utils.Matrix // upper small flux -> large face
}

// NewMortarL2 builds the Gauss quadrature based projection pair
func NewMortarL2(b *LobattoBasis) (mo *MortarOperators) {
	mo = &MortarOperators{
		ForwardLower: calcForward(b, -1),
		ForwardUpper: calcForward(b, +1),
	}
	mo.ReverseLower = calcReverseGauss(b, -1)
	mo.ReverseUpper = calcReverseGauss(b, +1)
	return
}

// NewMortarEC builds the Gauss-Lobatto (flux and entropy preserving) pair
func NewMortarEC(b *LobattoBasis) (mo *MortarOperators) {
	mo = &MortarOperators{
		ForwardLower: calcForward(b, -1),
		ForwardUpper: calcForward(b, +1),
	}
	mo.ReverseLower = calcReverseLobatto(b, mo.ForwardLower)
	mo.ReverseUpper = calcReverseLobatto(b, mo.ForwardUpper)
	return
}

// calcForward interpolates the large face polynomial at the small face node
// images: x = (r + sign)/2 maps small coordinates into the large half face
func calcForward(b *LobattoBasis, sign float64) (F utils.Matrix) {
	F = utils.NewMatrix(b.Np1, b.Np1)
	for j := 0; j < b.Np1; j++ {
		x := 0.5 * (b.R.AtVec(j) + sign)
		F.SetRow(j, LagrangeInterpolatingPolynomials(x, b.R.DataP, b.BaryW))
	}
	return
}

// calcReverseLobatto forms the direct adjoint in the collocated basis:
// R[i,j] = (w[j] / (2 w[i])) * F[j,i]
func calcReverseLobatto(b *LobattoBasis, F utils.Matrix) (R utils.Matrix) {
	R = utils.NewMatrix(b.Np1, b.Np1)
	for i := 0; i < b.Np1; i++ {
		for j := 0; j < b.Np1; j++ {
			R.Set(i, j, 0.5*b.W.AtVec(j)/b.W.AtVec(i)*F.At(j, i))
		}
	}
	return
}

// calcReverseGauss forms the exact L2 projection using Legendre-Gauss
// quadrature, then re-expresses it on the Lobatto nodes
func calcReverseGauss(b *LobattoBasis, sign float64) (R utils.Matrix) {
	var (
		N         = b.N
		Np1       = b.Np1
		gR, gW    = JacobiGQ(0, 0, N)
		gBary     = BarycentricWeights(gR.DataP)
		gaussRev  = utils.NewMatrix(Np1, Np1)
		lob2Gauss = PolynomialInterpolationMatrix(b.R.DataP, gR.DataP)
		gauss2Lob = PolynomialInterpolationMatrix(gR.DataP, b.R.DataP)
	)
	// Adjoint of the forward interpolation, all in the Gauss basis
	for j := 0; j < Np1; j++ {
		x := 0.5 * (gR.AtVec(j) + sign)
		l := LagrangeInterpolatingPolynomials(x, gR.DataP, gBary)
		for i := 0; i < Np1; i++ {
			gaussRev.Set(i, j, 0.5*gW.AtVec(j)/gW.AtVec(i)*l[i])
		}
	}
	R = gauss2Lob.Mul(gaussRev).Mul(lob2Gauss)
	return
}
