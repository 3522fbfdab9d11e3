package DG2D

import (
	"github.com/KrisshChawla/dgsem/utils"
)

/*
	Third order strong stability preserving Runge-Kutta (Shu-Osher form).
	The stepper owns one snapshot of the solution for the convex
	combinations; the solver's U and UT buffers are reused across stages.
*/
type RK3SSP struct {
	s  *Solver
	u0 []utils.Matrix
}

func NewRK3SSP(s *Solver) (rk *RK3SSP) {
	rk = &RK3SSP{
		s:  s,
		u0: make([]utils.Matrix, s.El.NVars),
	}
	for n := range rk.u0 {
		rk.u0[n] = utils.NewMatrix(s.El.Np, s.El.K)
	}
	return
}

// Step advances the solution one step of size dt from time t
func (rk *RK3SSP) Step(t, dt float64) {
	var (
		s  = rk.s
		el = s.El
	)
	for n := 0; n < el.NVars; n++ {
		copy(rk.u0[n].DataP, el.U[n].DataP)
	}
	// Stage 1: u <- u0 + dt*L(u0)
	s.RHS(t)
	rk.combine(1, 0, dt)
	// Stage 2: u <- 3/4 u0 + 1/4 (u + dt*L(u))
	s.RHS(t + dt)
	rk.combine(0.25, 0.75, 0.25*dt)
	// Stage 3: u <- 1/3 u0 + 2/3 (u + dt*L(u))
	s.RHS(t + 0.5*dt)
	rk.combine(2./3., 1./3., 2./3.*dt)
}

// combine sets u <- a*u + b*u0 + dtFac*ut pointwise
func (rk *RK3SSP) combine(a, b, dtFac float64) {
	var (
		s  = rk.s
		el = s.El
	)
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		for n := 0; n < el.NVars; n++ {
			var (
				u  = el.U[n].DataP
				u0 = rk.u0[n].DataP
				ut = el.UT[n].DataP
			)
			for node := 0; node < el.Np; node++ {
				row := node * el.K
				for k := kMin; k < kMax; k++ {
					i := row + k
					u[i] = a*u[i] + b*u0[i] + dtFac*ut[i]
				}
			}
		}
	})
}

// Integrate runs adaptive CFL-limited steps until tFinal, returning the
// number of steps taken. stepHook, when non-nil, observes every accepted
// step.
func (rk *RK3SSP) Integrate(tFinal float64, stepHook func(step int, t, dt float64)) (steps int) {
	var t float64
	for t < tFinal {
		dt := rk.s.CalcDT()
		if t+dt > tFinal {
			dt = tFinal - t
		}
		rk.Step(t, dt)
		t += dt
		steps++
		if stepHook != nil {
			stepHook(steps, t, dt)
		}
	}
	return
}
