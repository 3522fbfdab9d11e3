package DG2D

import "github.com/KrisshChawla/dgsem/equations"

/*
	Physical boundary treatment. Apply receives the inner trace state at one
	boundary node and fills the axis-oriented numerical flux for that node.
	side is 1 when the element sits on the negative side of the face (its
	outward normal points along the positive axis) and 2 otherwise; the
	left/right Riemann ordering follows from it. l and bid index the node
	within the boundary container for conditions that look up external data.

	Apply runs concurrently across boundary faces, so implementations must
	not share mutable state between calls.
*/
type BoundaryCondition interface {
	Apply(eq equations.EquationsOfMotion, uInner []float64,
		orientation, side, l, bid int, x, y, t float64, flux []float64)
}

func riemannAtBoundary(eq equations.EquationsOfMotion, uInner, uOuter []float64,
	orientation, side int, flux []float64) {
	if side == 1 {
		eq.SurfaceFlux(uInner, uOuter, orientation, flux)
	} else {
		eq.SurfaceFlux(uOuter, uInner, orientation, flux)
	}
}

// DirichletBC imposes an exact external state and resolves the jump with
// the equations' surface flux
type DirichletBC struct {
	State func(x, y, t float64, u []float64)
}

func (d DirichletBC) Apply(eq equations.EquationsOfMotion, uInner []float64,
	orientation, side, l, bid int, x, y, t float64, flux []float64) {
	uOuter := make([]float64, len(uInner))
	d.State(x, y, t, uOuter)
	riemannAtBoundary(eq, uInner, uOuter, orientation, side, flux)
}

// WallBC mirrors the inner state with the normal momentum negated, a slip
// wall for Euler and the reflecting condition for systems that carry one
// velocity-like variable per direction
type WallBC struct{}

func (WallBC) Apply(eq equations.EquationsOfMotion, uInner []float64,
	orientation, side, l, bid int, x, y, t float64, flux []float64) {
	uOuter := make([]float64, len(uInner))
	copy(uOuter, uInner)
	uOuter[1+orientation] = -uOuter[1+orientation]
	riemannAtBoundary(eq, uInner, uOuter, orientation, side, flux)
}

/*
	CoupledBC reads the external state from a caller-maintained buffer,
	indexed like the boundary container: External[n][l*NBound+bid]. A
	multi-domain driver fills the buffer between stages; this solver only
	consumes it.
*/
type CoupledBC struct {
	External [][]float64
	NBound   int
}

func NewCoupledBC(nVars, np1, nBound int) *CoupledBC {
	c := &CoupledBC{
		External: make([][]float64, nVars),
		NBound:   nBound,
	}
	for n := range c.External {
		c.External[n] = make([]float64, np1*nBound)
	}
	return c
}

func (c *CoupledBC) Apply(eq equations.EquationsOfMotion, uInner []float64,
	orientation, side, l, bid int, x, y, t float64, flux []float64) {
	uOuter := make([]float64, len(uInner))
	for n := range uOuter {
		uOuter[n] = c.External[n][l*c.NBound+bid]
	}
	riemannAtBoundary(eq, uInner, uOuter, orientation, side, flux)
}
