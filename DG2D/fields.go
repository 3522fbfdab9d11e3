package DG2D

import "math"

// StateFunc evaluates a full conserved state at a physical point and time
type StateFunc func(x, y, t float64, u []float64)

// SetInitialCondition collocates the given state at every solution node
func (s *Solver) SetInitialCondition(ic StateFunc, t float64) {
	var (
		el = s.El
	)
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		u := ws.uL
		for k := kMin; k < kMax; k++ {
			for node := 0; node < el.Np; node++ {
				ind := node*el.K + k
				ic(el.X.DataP[ind], el.Y.DataP[ind], t, u)
				for n := 0; n < el.NVars; n++ {
					el.U[n].DataP[ind] = u[n]
				}
			}
		}
	})
}

// CalcErrorNorms returns volume-weighted L2 and pointwise Linf errors per
// variable against an exact state, using the collocation quadrature
func (s *Solver) CalcErrorNorms(exact StateFunc, t float64) (l2, linf []float64) {
	var (
		el     = s.El
		b      = s.Basis
		Np1    = b.Np1
		uex    = make([]float64, el.NVars)
		volume float64
	)
	l2 = make([]float64, el.NVars)
	linf = make([]float64, el.NVars)
	for k := 0; k < el.K; k++ {
		jac := 1. / (el.InverseJacobian[k] * el.InverseJacobian[k])
		for j := 0; j < Np1; j++ {
			for i := 0; i < Np1; i++ {
				ind := el.NodeID(i, j)*el.K + k
				wq := b.W.AtVec(i) * b.W.AtVec(j) * jac
				volume += wq
				exact(el.X.DataP[ind], el.Y.DataP[ind], t, uex)
				for n := 0; n < el.NVars; n++ {
					diff := el.U[n].DataP[ind] - uex[n]
					l2[n] += wq * diff * diff
					if a := math.Abs(diff); a > linf[n] {
						linf[n] = a
					}
				}
			}
		}
	}
	for n := range l2 {
		l2[n] = math.Sqrt(l2[n] / volume)
	}
	return
}

// IntegrateState returns the quadrature integral of each conserved
// variable over the domain, the quantity a conservative scheme preserves
func (s *Solver) IntegrateState() (total []float64) {
	var (
		el  = s.El
		b   = s.Basis
		Np1 = b.Np1
	)
	total = make([]float64, el.NVars)
	for k := 0; k < el.K; k++ {
		jac := 1. / (el.InverseJacobian[k] * el.InverseJacobian[k])
		for j := 0; j < Np1; j++ {
			for i := 0; i < Np1; i++ {
				ind := el.NodeID(i, j)*el.K + k
				wq := b.W.AtVec(i) * b.W.AtVec(j) * jac
				for n := 0; n < el.NVars; n++ {
					total[n] += wq * el.U[n].DataP[ind]
				}
			}
		}
	}
	return
}
