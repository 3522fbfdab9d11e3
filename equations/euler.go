package equations

import (
	"math"
)

/*
	Compressible Euler equations in 2D, conservative variables
	[rho, rho*v1, rho*v2, E] with p = (gamma-1)*(E - 0.5*rho*(v1^2+v2^2))
*/
type Euler struct {
	Gamma           float64
	SurfaceFluxType FluxType // two-state flux at interfaces
	VolumeFluxType  FluxType // symmetric two-point flux for split form
}

func NewEuler(gamma float64, surfaceFlux, volumeFlux FluxType) (eq *Euler) {
	eq = &Euler{
		Gamma:           gamma,
		SurfaceFluxType: surfaceFlux,
		VolumeFluxType:  volumeFlux,
	}
	return
}

func (eq *Euler) NumVars() int { return 4 }

func (eq *Euler) Pressure(u []float64) (p float64) {
	var (
		rho  = u[0]
		rhoU = u[1]
		rhoV = u[2]
		E    = u[3]
	)
	p = (eq.Gamma - 1.) * (E - 0.5*(rhoU*rhoU+rhoV*rhoV)/rho)
	return
}

func (eq *Euler) SoundSpeed(u []float64) (c float64) {
	c = math.Sqrt(eq.Gamma * eq.Pressure(u) / u[0])
	return
}

func (eq *Euler) Flux(u []float64, orientation int, f []float64) {
	var (
		rho  = u[0]
		rhoU = u[1]
		rhoV = u[2]
		E    = u[3]
		p    = eq.Pressure(u)
	)
	if orientation == 0 {
		v1 := rhoU / rho
		f[0] = rhoU
		f[1] = rhoU*v1 + p
		f[2] = rhoV * v1
		f[3] = (E + p) * v1
	} else {
		v2 := rhoV / rho
		f[0] = rhoV
		f[1] = rhoU * v2
		f[2] = rhoV*v2 + p
		f[3] = (E + p) * v2
	}
}

func (eq *Euler) MaxWaveSpeeds(u []float64) (lambda1, lambda2 float64) {
	var (
		c  = eq.SoundSpeed(u)
		v1 = u[1] / u[0]
		v2 = u[2] / u[0]
	)
	lambda1 = math.Abs(v1) + c
	lambda2 = math.Abs(v2) + c
	return
}

// IndicatorVariable uses rho*p, which reacts to both density and pressure
// discontinuities
func (eq *Euler) IndicatorVariable(u []float64) float64 {
	return u[0] * eq.Pressure(u)
}

func (eq *Euler) Cons2Prim(u, prim []float64) {
	prim[0] = u[0]
	prim[1] = u[1] / u[0]
	prim[2] = u[2] / u[0]
	prim[3] = eq.Pressure(u)
}

func (eq *Euler) Prim2Cons(prim, u []float64) {
	var (
		rho, v1, v2, p = prim[0], prim[1], prim[2], prim[3]
	)
	u[0] = rho
	u[1] = rho * v1
	u[2] = rho * v2
	u[3] = p/(eq.Gamma-1.) + 0.5*rho*(v1*v1+v2*v2)
}

func (eq *Euler) Cons2Entropy(u, w []float64) {
	var (
		rho      = u[0]
		v1       = u[1] / rho
		v2       = u[2] / rho
		p        = eq.Pressure(u)
		s        = math.Log(p) - eq.Gamma*math.Log(rho)
		rhoOverP = rho / p
		vSquare  = v1*v1 + v2*v2
	)
	w[0] = (eq.Gamma-s)/(eq.Gamma-1.) - 0.5*rhoOverP*vSquare
	w[1] = rhoOverP * v1
	w[2] = rhoOverP * v2
	w[3] = -rhoOverP
}

func (eq *Euler) SurfaceFlux(uL, uR []float64, orientation int, f []float64) {
	switch eq.SurfaceFluxType {
	case FluxHLL:
		eq.fluxHLL(uL, uR, orientation, f)
	case FluxCentral:
		eq.fluxCentral(uL, uR, orientation, f)
	case FluxRanocha:
		eq.fluxRanocha(uL, uR, orientation, f)
	default:
		eq.fluxRusanov(uL, uR, orientation, f)
	}
}

func (eq *Euler) VolumeFlux(uL, uR []float64, orientation int, f []float64) {
	switch eq.VolumeFluxType {
	case FluxRanocha:
		eq.fluxRanocha(uL, uR, orientation, f)
	default:
		eq.fluxCentral(uL, uR, orientation, f)
	}
}

func (eq *Euler) fluxRusanov(uL, uR []float64, orientation int, f []float64) {
	var (
		fL, fR [4]float64
	)
	eq.Flux(uL, orientation, fL[:])
	eq.Flux(uR, orientation, fR[:])
	l1L, l2L := eq.MaxWaveSpeeds(uL)
	l1R, l2R := eq.MaxWaveSpeeds(uR)
	var lMax float64
	if orientation == 0 {
		lMax = math.Max(l1L, l1R)
	} else {
		lMax = math.Max(l2L, l2R)
	}
	for n := 0; n < 4; n++ {
		f[n] = 0.5*(fL[n]+fR[n]) - 0.5*lMax*(uR[n]-uL[n])
	}
}

func (eq *Euler) fluxHLL(uL, uR []float64, orientation int, f []float64) {
	var (
		fL, fR [4]float64
		cL     = eq.SoundSpeed(uL)
		cR     = eq.SoundSpeed(uR)
		vL     = uL[1+orientation] / uL[0]
		vR     = uR[1+orientation] / uR[0]
	)
	sL := math.Min(vL-cL, vR-cR)
	sR := math.Max(vL+cL, vR+cR)
	switch {
	case sL >= 0:
		eq.Flux(uL, orientation, f)
	case sR <= 0:
		eq.Flux(uR, orientation, f)
	default:
		eq.Flux(uL, orientation, fL[:])
		eq.Flux(uR, orientation, fR[:])
		oosd := 1. / (sR - sL)
		for n := 0; n < 4; n++ {
			f[n] = oosd * (sR*fL[n] - sL*fR[n] + sL*sR*(uR[n]-uL[n]))
		}
	}
}

// fluxCentral is the simple symmetric average, consistent on the diagonal
func (eq *Euler) fluxCentral(uL, uR []float64, orientation int, f []float64) {
	var (
		fL, fR [4]float64
	)
	eq.Flux(uL, orientation, fL[:])
	eq.Flux(uR, orientation, fR[:])
	for n := 0; n < 4; n++ {
		f[n] = 0.5 * (fL[n] + fR[n])
	}
}

// fluxRanocha is the entropy conserving and kinetic energy preserving
// two-point flux of Ranocha (2018)
func (eq *Euler) fluxRanocha(uL, uR []float64, orientation int, f []float64) {
	var (
		rhoL, rhoR = uL[0], uR[0]
		v1L, v1R   = uL[1] / rhoL, uR[1] / rhoR
		v2L, v2R   = uL[2] / rhoL, uR[2] / rhoR
		pL         = eq.Pressure(uL)
		pR         = eq.Pressure(uR)
	)
	rhoMean := LogMean(rhoL, rhoR)
	// inverse of ln-mean of rho/p, multiplied out to avoid divisions
	invRhoPMean := pL * pR * InvLogMean(rhoL*pR, rhoR*pL)
	v1Avg := 0.5 * (v1L + v1R)
	v2Avg := 0.5 * (v2L + v2R)
	pAvg := 0.5 * (pL + pR)
	velSqAvg := 0.5 * (v1L*v1R + v2L*v2R)
	ooGm1 := 1. / (eq.Gamma - 1.)
	if orientation == 0 {
		f[0] = rhoMean * v1Avg
		f[1] = f[0]*v1Avg + pAvg
		f[2] = f[0] * v2Avg
		f[3] = f[0]*(velSqAvg+invRhoPMean*ooGm1) + 0.5*(pL*v1R+pR*v1L)
	} else {
		f[0] = rhoMean * v2Avg
		f[1] = f[0] * v1Avg
		f[2] = f[0]*v2Avg + pAvg
		f[3] = f[0]*(velSqAvg+invRhoPMean*ooGm1) + 0.5*(pL*v2R+pR*v2L)
	}
}

// LogMean is the numerically stable logarithmic mean (y-x)/(log(y)-log(x))
func LogMean(x, y float64) float64 {
	const epsF2 = 1.0e-4
	f2 := (x*(x-2*y) + y*y) / (x*(x+2*y) + y*y) // ((y-x)/(y+x))^2
	if f2 < epsF2 {
		return (x + y) / (2. + f2*(2./3.+f2*(2./5.+f2*(2./7.))))
	}
	return (y - x) / math.Log(y/x)
}

// InvLogMean is 1/LogMean without the extra division
func InvLogMean(x, y float64) float64 {
	const epsF2 = 1.0e-4
	f2 := (x*(x-2*y) + y*y) / (x*(x+2*y) + y*y)
	if f2 < epsF2 {
		return (2. + f2*(2./3.+f2*(2./5.+f2*(2./7.)))) / (x + y)
	}
	return math.Log(y/x) / (y - x)
}

/*
	Manufactured smooth solution used for order-of-accuracy studies: density
	is a traveling sine wave, momentum components equal density, total energy
	its square. The matching source terms close the system exactly.
*/
func (eq *Euler) InitialConditionConvergenceTest(x, y, t float64, u []float64) {
	const (
		c = 2.
		A = 0.1
		L = 2.
	)
	omega := 2. * math.Pi / L
	ini := c + A*math.Sin(omega*(x+y-t))
	u[0] = ini
	u[1] = ini
	u[2] = ini
	u[3] = ini * ini
}

func (eq *Euler) SourceTermsConvergenceTest(u []float64, x, y, t float64, s []float64) {
	const (
		c = 2.
		A = 0.1
		L = 2.
	)
	var (
		omega = 2. * math.Pi / L
		g     = eq.Gamma
	)
	si, co := math.Sincos(omega * (x + y - t))
	rho := c + A*si
	rhoX := omega * A * co
	tmp := (2.*rho - 1.) * (g - 1.)
	s[0] += rhoX
	s[1] += rhoX * (1. + tmp)
	s[2] += rhoX * (1. + tmp)
	s[3] += 2. * rhoX * (rho + tmp)
}
