package equations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEulerFluxes(t *testing.T) {
	eq := NewEuler(1.4, FluxRusanov, FluxRanocha)
	u := []float64{1.2, 0.3, -0.4, 2.5}
	{
		// Pressure and round trip through primitives
		prim := make([]float64, 4)
		back := make([]float64, 4)
		eq.Cons2Prim(u, prim)
		eq.Prim2Cons(prim, back)
		for n := 0; n < 4; n++ {
			assert.InDelta(t, u[n], back[n], 1e-14)
		}
		assert.True(t, prim[3] > 0)
	}
	{
		// Two-point fluxes are consistent: diagonal recovers the physical flux
		f := make([]float64, 4)
		fPhys := make([]float64, 4)
		for orientation := 0; orientation < 2; orientation++ {
			eq.Flux(u, orientation, fPhys)
			eq.VolumeFlux(u, u, orientation, f)
			for n := 0; n < 4; n++ {
				assert.InDelta(t, fPhys[n], f[n], 1e-13)
			}
			eq.fluxCentral(u, u, orientation, f)
			for n := 0; n < 4; n++ {
				assert.InDelta(t, fPhys[n], f[n], 1e-13)
			}
		}
	}
	{
		// Riemann fluxes reduce to the physical flux for equal states
		f := make([]float64, 4)
		fPhys := make([]float64, 4)
		for orientation := 0; orientation < 2; orientation++ {
			eq.Flux(u, orientation, fPhys)
			eq.fluxRusanov(u, u, orientation, f)
			for n := 0; n < 4; n++ {
				assert.InDelta(t, fPhys[n], f[n], 1e-13)
			}
			eq.fluxHLL(u, u, orientation, f)
			for n := 0; n < 4; n++ {
				assert.InDelta(t, fPhys[n], f[n], 1e-13)
			}
		}
	}
	{
		// Symmetry of the two-point fluxes
		uR := []float64{0.9, -0.1, 0.2, 2.1}
		fLR := make([]float64, 4)
		fRL := make([]float64, 4)
		eq.fluxRanocha(u, uR, 0, fLR)
		eq.fluxRanocha(uR, u, 0, fRL)
		for n := 0; n < 4; n++ {
			assert.InDelta(t, fLR[n], fRL[n], 1e-13)
		}
	}
}

func TestLogMean(t *testing.T) {
	// Stable branch agrees with the direct formula away from x == y
	x, y := 1.0, 2.5
	direct := (y - x) / math.Log(y/x)
	assert.InDelta(t, direct, LogMean(x, y), 1e-12)
	assert.InDelta(t, 1./direct, InvLogMean(x, y), 1e-12)
	// Degenerate limit
	assert.InDelta(t, 3.0, LogMean(3.0, 3.0), 1e-12)
	// Series branch is continuous across the switch point
	assert.InDelta(t, LogMean(1.0, 1.0201), LogMean(1.0, 1.0199), 2e-4)
}

func TestAdvection(t *testing.T) {
	eq := NewLinearAdvection(1.0, -0.5)
	u := []float64{2.0}
	f := make([]float64, 1)
	eq.Flux(u, 0, f)
	assert.InDelta(t, 2.0, f[0], 1e-14)
	eq.Flux(u, 1, f)
	assert.InDelta(t, -1.0, f[0], 1e-14)
	// Upwinding picks the correct side
	uL, uR := []float64{1.0}, []float64{3.0}
	eq.SurfaceFlux(uL, uR, 0, f)
	assert.InDelta(t, 1.0, f[0], 1e-14) // a1 > 0: left state
	eq.SurfaceFlux(uL, uR, 1, f)
	assert.InDelta(t, -1.5, f[0], 1e-14) // a2 < 0: right state
	l1, l2 := eq.MaxWaveSpeeds(u)
	assert.InDelta(t, 1.0, l1, 1e-14)
	assert.InDelta(t, 0.5, l2, 1e-14)
}
