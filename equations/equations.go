package equations

import (
	"fmt"
	"strings"
)

/*
	The equations capability supplies all physics to the DG solver: pointwise
	fluxes, two-state numerical (Riemann) fluxes, symmetric two-point fluxes
	for split-form volume integrals, wave speed estimates and variable
	transforms. Implementations are stateless after construction.

	Orientation is 0 for the x axis and 1 for the y axis.
*/

type EquationsOfMotion interface {
	NumVars() int
	// Flux evaluates the physical flux of state u along orientation into f
	Flux(u []float64, orientation int, f []float64)
	// SurfaceFlux evaluates the numerical flux between two trace states
	SurfaceFlux(uL, uR []float64, orientation int, f []float64)
	// VolumeFlux evaluates the symmetric two-point flux; its diagonal
	// (uL == uR) must recover Flux
	VolumeFlux(uL, uR []float64, orientation int, f []float64)
	// MaxWaveSpeeds returns the largest signal speeds per axis at state u
	MaxWaveSpeeds(u []float64) (lambda1, lambda2 float64)
	// IndicatorVariable extracts the scalar used for troubled-cell detection
	IndicatorVariable(u []float64) float64
}

// SourceFunc adds physical-space source terms at a node; nil means none
type SourceFunc func(u []float64, x, y, t float64, s []float64)

type FluxType uint8

const (
	FluxRusanov FluxType = iota
	FluxHLL
	FluxCentral
	FluxRanocha
)

var fluxNames = map[string]FluxType{
	"rusanov": FluxRusanov,
	"lax":     FluxRusanov,
	"hll":     FluxHLL,
	"central": FluxCentral,
	"ranocha": FluxRanocha,
}

func NewFluxType(label string) (ft FluxType) {
	var (
		ok  bool
		err error
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if ft, ok = fluxNames[label]; !ok {
		err = fmt.Errorf("unable to use flux named %s", label)
		panic(err)
	}
	return
}

func (ft FluxType) Print() (l string) {
	switch ft {
	case FluxRusanov:
		l = "Rusanov (local Lax-Friedrichs)"
	case FluxHLL:
		l = "HLL"
	case FluxCentral:
		l = "Central (kinetic energy consistent average)"
	case FluxRanocha:
		l = "Ranocha (entropy conserving)"
	}
	return
}
