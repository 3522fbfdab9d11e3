package equations

import (
	"math"
)

// LinearAdvection is scalar advection with constant velocity (A1, A2),
// useful for exact-solution verification of the discretization
type LinearAdvection struct {
	A1, A2 float64
}

func NewLinearAdvection(a1, a2 float64) (eq *LinearAdvection) {
	eq = &LinearAdvection{A1: a1, A2: a2}
	return
}

func (eq *LinearAdvection) NumVars() int { return 1 }

func (eq *LinearAdvection) Flux(u []float64, orientation int, f []float64) {
	if orientation == 0 {
		f[0] = eq.A1 * u[0]
	} else {
		f[0] = eq.A2 * u[0]
	}
}

// SurfaceFlux is the exact upwind (Godunov) flux for linear advection
func (eq *LinearAdvection) SurfaceFlux(uL, uR []float64, orientation int, f []float64) {
	a := eq.A1
	if orientation == 1 {
		a = eq.A2
	}
	if a >= 0 {
		f[0] = a * uL[0]
	} else {
		f[0] = a * uR[0]
	}
}

func (eq *LinearAdvection) VolumeFlux(uL, uR []float64, orientation int, f []float64) {
	a := eq.A1
	if orientation == 1 {
		a = eq.A2
	}
	f[0] = 0.5 * a * (uL[0] + uR[0])
}

func (eq *LinearAdvection) MaxWaveSpeeds(u []float64) (lambda1, lambda2 float64) {
	lambda1 = math.Abs(eq.A1)
	lambda2 = math.Abs(eq.A2)
	return
}

func (eq *LinearAdvection) IndicatorVariable(u []float64) float64 { return u[0] }

// InitialConditionSineWave is periodic on [-1,1]^2 and advects unchanged
func (eq *LinearAdvection) InitialConditionSineWave(x, y, t float64, u []float64) {
	u[0] = 1. + 0.5*math.Sin(math.Pi*(x-eq.A1*t))*math.Sin(math.Pi*(y-eq.A2*t))
}
