package DG2D

import (
	"math"
	"testing"
	"time"

	"github.com/KrisshChawla/dgsem/equations"
	"github.com/KrisshChawla/dgsem/mesh"
	"github.com/stretchr/testify/assert"
)

func uniformTree(levels int, periodic bool) *mesh.Tree {
	t := mesh.NewTree([2]float64{0, 0}, 2, periodic)
	t.RefineUniform(levels)
	return t
}

// refinedTree refines one interior cell of a 4x4 mesh, producing four
// mortars that exercise both large-side senses
func refinedTree(periodic bool) *mesh.Tree {
	t := uniformTree(2, periodic)
	id := t.CellAt(2, [2]float64{0.25, 0.25})
	t.Refine(id)
	return t
}

func constEulerState() []float64 {
	return []float64{1, 0.1, -0.2, 2}
}

func maxAbsUT(s *Solver) (m float64) {
	for n := 0; n < s.El.NVars; n++ {
		for _, v := range s.El.UT[n].DataP {
			if a := math.Abs(v); a > m {
				m = a
			}
		}
	}
	return
}

func TestConnectivityCounts(t *testing.T) {
	eq := equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)

	s := NewSolver(uniformTree(2, true), eq, 2, SolverOptions{})
	assert.Equal(t, 16, s.El.K)
	assert.Equal(t, 32, s.Surf.NSurf)
	assert.Equal(t, 0, s.L2Mortars.NMortars)
	assert.Equal(t, 0, s.Bound.NBound)

	s = NewSolver(uniformTree(2, false), eq, 2, SolverOptions{BC: WallBC{}})
	assert.Equal(t, 24, s.Surf.NSurf)
	assert.Equal(t, 16, s.Bound.NBound)

	s = NewSolver(refinedTree(false), eq, 2, SolverOptions{BC: WallBC{}})
	assert.Equal(t, 19, s.El.K)
	assert.Equal(t, 24, s.Surf.NSurf)
	assert.Equal(t, 4, s.L2Mortars.NMortars)
	assert.Equal(t, 16, s.Bound.NBound)
}

// A constant state must produce an identically zero time derivative on a
// non-conforming mesh, for every volume integral and mortar flavor
func TestFreeStreamPreservation(t *testing.T) {
	var (
		eq    = equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
		state = constEulerState()
		ic    = func(x, y, tt float64, u []float64) { copy(u, state) }
	)
	for _, mortar := range []MortarFlavor{MortarL2, MortarEC} {
		for _, vi := range []VolumeIntegralType{WeakForm, SplitForm, ShockCapturing} {
			s := NewSolver(refinedTree(false), eq, 3, SolverOptions{
				VolumeIntegral: vi,
				Mortar:         mortar,
				BC:             DirichletBC{State: ic},
			})
			s.SetInitialCondition(ic, 0)
			s.RHS(0)
			assert.Less(t, maxAbsUT(s), 1.e-11,
				"mortar %d, volume integral %d", mortar, vi)
		}
	}
}

// On a periodic mesh the quadrature integral of du/dt vanishes for every
// conserved variable, including across mortars
func TestConservation(t *testing.T) {
	eq := equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
	for _, mortar := range []MortarFlavor{MortarL2, MortarEC} {
		s := NewSolver(refinedTree(true), eq, 3, SolverOptions{
			VolumeIntegral: SplitForm,
			Mortar:         mortar,
		})
		s.SetInitialCondition(eq.InitialConditionConvergenceTest, 0)
		s.RHS(0)
		var (
			b   = s.Basis
			el  = s.El
			Np1 = b.Np1
		)
		for n := 0; n < el.NVars; n++ {
			var total float64
			for k := 0; k < el.K; k++ {
				jac := 1. / (el.InverseJacobian[k] * el.InverseJacobian[k])
				for j := 0; j < Np1; j++ {
					for i := 0; i < Np1; i++ {
						total += jac * b.W.AtVec(i) * b.W.AtVec(j) *
							el.UT[n].DataP[el.NodeID(i, j)*el.K+k]
					}
				}
			}
			near(t, total, 0, 1.e-11, "variable %d, mortar %d", n, mortar)
		}
	}
}

func TestBlendingFactors(t *testing.T) {
	var (
		eq    = equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
		state = constEulerState()
		ic    = func(x, y, tt float64, u []float64) { copy(u, state) }
	)
	s := NewSolver(uniformTree(2, true), eq, 3, SolverOptions{
		VolumeIntegral: ShockCapturing,
	})
	s.SetInitialCondition(ic, 0)
	s.calcBlendingFactors()
	for k, a := range s.Alpha {
		assert.Equal(t, 0., a, "element %d must not blend on a constant state", k)
	}

	// A density jump inside the elements must trigger blending there and,
	// through smoothing, in the neighbors
	s.SetInitialCondition(func(x, y, tt float64, u []float64) {
		rho := 1.
		if x > 0.13 {
			rho = 2.
		}
		u[0], u[1], u[2], u[3] = rho, 0, 0, 2.5
	}, 0)
	s.calcBlendingFactors()
	var amax float64
	for _, a := range s.Alpha {
		assert.True(t, a >= 0 && a <= s.AlphaMax)
		if a > amax {
			amax = a
		}
	}
	assert.Equal(t, s.AlphaMax, amax, "a strong jump saturates the blending")
}

// A slip wall must not let mass through: the boundary mass flux of the
// mirrored Riemann problem is exactly zero
func TestWallBoundary(t *testing.T) {
	var (
		eq     = equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
		uInner = []float64{1.2, 0.4, -0.3, 3}
		flux   = make([]float64, 4)
	)
	for o := 0; o < 2; o++ {
		for _, side := range []int{1, 2} {
			WallBC{}.Apply(eq, uInner, o, side, 0, 0, 0, 0, 0, flux)
			near(t, flux[0], 0, 1.e-14)
		}
	}
}

// Coupling against an external buffer holding the interior state must be
// indistinguishable from a free stream
func TestCoupledBoundary(t *testing.T) {
	var (
		eq    = equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
		state = constEulerState()
		ic    = func(x, y, tt float64, u []float64) { copy(u, state) }
		tree  = uniformTree(2, false)
	)
	nBound := CountRequiredBoundaries(tree)
	cbc := NewCoupledBC(4, 4, nBound)
	for n := range cbc.External {
		for i := range cbc.External[n] {
			cbc.External[n][i] = state[n]
		}
	}
	s := NewSolver(tree, eq, 3, SolverOptions{BC: cbc})
	s.SetInitialCondition(ic, 0)
	s.RHS(0)
	assert.Less(t, maxAbsUT(s), 1.e-11)
}

func TestCalcDT(t *testing.T) {
	eq := equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
	s := NewSolver(uniformTree(2, true), eq, 3, SolverOptions{CFL: 0.5})
	s.SetInitialCondition(eq.InitialConditionConvergenceTest, 0)
	dt := s.CalcDT()
	assert.True(t, dt > 0 && dt < 1)
}

func TestTimerCallback(t *testing.T) {
	eq := equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
	s := NewSolver(uniformTree(1, true), eq, 2, SolverOptions{})
	phases := make(map[string]int)
	s.TimerCallback = func(phase string, _ time.Duration) { phases[phase]++ }
	s.SetInitialCondition(eq.InitialConditionConvergenceTest, 0)
	s.RHS(0)
	assert.True(t, phases["volume integral"] == 1)
	assert.True(t, phases["surface integral"] == 1)
}

// Smooth advection converges at high order; the rate between two uniform
// resolutions must exceed the polynomial degree
func TestAdvectionConvergence(t *testing.T) {
	var (
		eq = equations.NewLinearAdvection(1, 0.5)
		N  = 2
	)
	runCase := func(levels int) float64 {
		s := NewSolver(uniformTree(levels, true), eq, N, SolverOptions{
			VolumeIntegral: WeakForm,
			CFL:            0.4,
		})
		s.SetInitialCondition(eq.InitialConditionSineWave, 0)
		rk := NewRK3SSP(s)
		tFinal := 0.2
		rk.Integrate(tFinal, nil)
		l2, _ := s.CalcErrorNorms(eq.InitialConditionSineWave, tFinal)
		return l2[0]
	}
	eCoarse := runCase(2)
	eFine := runCase(3)
	rate := math.Log2(eCoarse / eFine)
	assert.Less(t, eFine, 5.e-3)
	assert.Greater(t, rate, 2.0, "coarse %v fine %v", eCoarse, eFine)
}

// The manufactured Euler solution with its source terms stays close to
// the exact profile over a short integration
func TestEulerManufacturedSolution(t *testing.T) {
	eq := equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
	s := NewSolver(uniformTree(3, true), eq, 3, SolverOptions{
		VolumeIntegral: SplitForm,
		CFL:            0.5,
		SourceTerms:    eq.SourceTermsConvergenceTest,
	})
	s.SetInitialCondition(eq.InitialConditionConvergenceTest, 0)
	rk := NewRK3SSP(s)
	tFinal := 0.3
	rk.Integrate(tFinal, nil)
	l2, linf := s.CalcErrorNorms(eq.InitialConditionConvergenceTest, tFinal)
	for n := 0; n < 4; n++ {
		assert.Less(t, l2[n], 1.e-3)
		assert.Less(t, linf[n], 1.e-2)
	}
}

// Shock capturing on discontinuous data must stay conservative
func TestShockCapturingConservation(t *testing.T) {
	eq := equations.NewEuler(1.4, equations.FluxRusanov, equations.FluxRanocha)
	s := NewSolver(refinedTree(true), eq, 3, SolverOptions{
		VolumeIntegral: ShockCapturing,
	})
	s.SetInitialCondition(func(x, y, tt float64, u []float64) {
		rho, p := 1., 1.
		if x > 0.13 {
			rho, p = 2., 2.5
		}
		u[0], u[1], u[2], u[3] = rho, 0.1*rho, 0, p/0.4+0.005*rho
	}, 0)
	s.RHS(0)
	var (
		b   = s.Basis
		el  = s.El
		Np1 = b.Np1
	)
	for n := 0; n < el.NVars; n++ {
		var total float64
		for k := 0; k < el.K; k++ {
			jac := 1. / (el.InverseJacobian[k] * el.InverseJacobian[k])
			for j := 0; j < Np1; j++ {
				for i := 0; i < Np1; i++ {
					total += jac * b.W.AtVec(i) * b.W.AtVec(j) *
						el.UT[n].DataP[el.NodeID(i, j)*el.K+k]
				}
			}
		}
		near(t, total, 0, 1.e-11, "variable %d", n)
	}
}
