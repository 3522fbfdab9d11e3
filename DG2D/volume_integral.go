package DG2D

/*
	Volume integral kernels. All three variants accumulate into UT per
	element, independently across elements. Raw slice indexing throughout;
	matrices are row-major with element index fastest (ind = node*K + k).
*/

func (s *Solver) calcVolumeIntegral() {
	switch s.VolumeIntegral {
	case WeakForm:
		s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
			for k := kMin; k < kMax; k++ {
				s.weakFormKernel(k, 1.0, ws)
			}
		})
	case SplitForm:
		s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
			for k := kMin; k < kMax; k++ {
				s.splitFormKernel(k, 1.0, ws)
			}
		})
	case ShockCapturing:
		// Bucketed work lists keep the pure-DG hot loop branch free
		s.elementIDsDG = s.elementIDsDG[:0]
		s.elementIDsDGFV = s.elementIDsDGFV[:0]
		for k := 0; k < s.El.K; k++ {
			if s.Alpha[k] > 1.e-12 {
				s.elementIDsDGFV = append(s.elementIDsDGFV, k)
			} else {
				s.elementIDsDG = append(s.elementIDsDG, k)
			}
		}
		s.parallelRange(len(s.elementIDsDG), func(iMin, iMax int, ws *workerScratch) {
			for i := iMin; i < iMax; i++ {
				s.splitFormKernel(s.elementIDsDG[i], 1.0, ws)
			}
		})
		s.parallelRange(len(s.elementIDsDGFV), func(iMin, iMax int, ws *workerScratch) {
			for i := iMin; i < iMax; i++ {
				k := s.elementIDsDGFV[i]
				alpha := s.Alpha[k]
				s.splitFormKernel(k, 1.-alpha, ws)
				s.fvKernel(k, alpha, ws)
			}
		})
	}
}

// weakFormKernel is the standard nodal DG weak-form derivative:
// ut[v,i,j] += sum_l Dhat[i,l]*f1[v,l,j] + Dhat[j,l]*f2[v,i,l]
func (s *Solver) weakFormKernel(k int, factor float64, ws *workerScratch) {
	var (
		el    = s.El
		b     = s.Basis
		Np1   = b.Np1
		K     = el.K
		nVars = el.NVars
		u     = ws.uL
		dhat  = b.Dhat.DataP
	)
	// Pointwise physical fluxes over the element
	for node := 0; node < el.Np; node++ {
		ind := node*K + k
		for n := 0; n < nVars; n++ {
			u[n] = el.U[n].DataP[ind]
		}
		s.Equations.Flux(u, 0, ws.fn)
		for n := 0; n < nVars; n++ {
			ws.f1[n*el.Np+node] = ws.fn[n]
		}
		s.Equations.Flux(u, 1, ws.fn)
		for n := 0; n < nVars; n++ {
			ws.f2[n*el.Np+node] = ws.fn[n]
		}
	}
	for n := 0; n < nVars; n++ {
		f1 := ws.f1[n*el.Np:]
		f2 := ws.f2[n*el.Np:]
		ut := el.UT[n].DataP
		for j := 0; j < Np1; j++ {
			for i := 0; i < Np1; i++ {
				var sum float64
				drow := dhat[i*Np1:]
				for l := 0; l < Np1; l++ {
					sum += drow[l] * f1[l+Np1*j]
				}
				drow = dhat[j*Np1:]
				for l := 0; l < Np1; l++ {
					sum += drow[l] * f2[i+Np1*l]
				}
				ut[(i+Np1*j)*K+k] += factor * sum
			}
		}
	}
}

// splitFormKernel is the flux-differencing form using the symmetric
// two-point volume flux; the diagonal terms recover the physical flux
func (s *Solver) splitFormKernel(k int, factor float64, ws *workerScratch) {
	var (
		el     = s.El
		b      = s.Basis
		Np1    = b.Np1
		K      = el.K
		nVars  = el.NVars
		u, uo  = ws.uL, ws.uR
		fn     = ws.fn
		dsplit = b.Dsplit.DataP
	)
	for j := 0; j < Np1; j++ {
		for i := 0; i < Np1; i++ {
			node := i + Np1*j
			ind := node*K + k
			for n := 0; n < nVars; n++ {
				u[n] = el.U[n].DataP[ind]
			}
			// Diagonal contributions, both directions
			s.Equations.Flux(u, 0, fn)
			dii := dsplit[i*Np1+i]
			for n := 0; n < nVars; n++ {
				el.UT[n].DataP[ind] += factor * dii * fn[n]
			}
			s.Equations.Flux(u, 1, fn)
			djj := dsplit[j*Np1+j]
			for n := 0; n < nVars; n++ {
				el.UT[n].DataP[ind] += factor * djj * fn[n]
			}
			// x-direction pairs along the line, symmetric so each pair is
			// evaluated once and scattered to both nodes
			for ii := i + 1; ii < Np1; ii++ {
				indII := (ii + Np1*j)*K + k
				for n := 0; n < nVars; n++ {
					uo[n] = el.U[n].DataP[indII]
				}
				s.Equations.VolumeFlux(u, uo, 0, fn)
				dIii := dsplit[i*Np1+ii]
				dIIi := dsplit[ii*Np1+i]
				for n := 0; n < nVars; n++ {
					el.UT[n].DataP[ind] += factor * dIii * fn[n]
					el.UT[n].DataP[indII] += factor * dIIi * fn[n]
				}
			}
			// y-direction pairs
			for jj := j + 1; jj < Np1; jj++ {
				indJJ := (i + Np1*jj)*K + k
				for n := 0; n < nVars; n++ {
					uo[n] = el.U[n].DataP[indJJ]
				}
				s.Equations.VolumeFlux(u, uo, 1, fn)
				dJjj := dsplit[j*Np1+jj]
				dJJj := dsplit[jj*Np1+j]
				for n := 0; n < nVars; n++ {
					el.UT[n].DataP[ind] += factor * dJjj * fn[n]
					el.UT[n].DataP[indJJ] += factor * dJJj * fn[n]
				}
			}
		}
	}
}

// fvKernel adds the first-order subcell finite volume update scaled by
// alpha, from two-state Riemann solves between adjacent nodes
func (s *Solver) fvKernel(k int, alpha float64, ws *workerScratch) {
	var (
		el     = s.El
		b      = s.Basis
		Np1    = b.Np1
		K      = el.K
		nVars  = el.NVars
		stride = (Np1 + 1) * Np1
	)
	s.calcFluxFV(k, ws)
	for j := 0; j < Np1; j++ {
		for i := 0; i < Np1; i++ {
			ind := (i+Np1*j)*K + k
			wi := b.WInv.AtVec(i)
			wj := b.WInv.AtVec(j)
			for n := 0; n < nVars; n++ {
				fs1 := ws.fstar1[n*stride:]
				fs2 := ws.fstar2[n*stride:]
				el.UT[n].DataP[ind] += alpha * (wi*(fs1[(i+1)*Np1+j]-fs1[i*Np1+j]) +
					wj*(fs2[(j+1)*Np1+i]-fs2[j*Np1+i]))
			}
		}
	}
}

// calcFluxFV fills the subcell interface fluxes fstar1 (x) and fstar2 (y).
// The outermost interfaces stay zero; element faces are handled by the
// surface integral.
func (s *Solver) calcFluxFV(k int, ws *workerScratch) {
	var (
		el     = s.El
		Np1    = s.Basis.Np1
		K      = el.K
		nVars  = el.NVars
		u, uo  = ws.uL, ws.uR
		fn     = ws.fn
		stride = (Np1 + 1) * Np1
	)
	for n := range ws.fstar1 {
		ws.fstar1[n] = 0
	}
	for n := range ws.fstar2 {
		ws.fstar2[n] = 0
	}
	// x-direction interior interfaces: between nodes (i-1,j) and (i,j)
	for j := 0; j < Np1; j++ {
		for i := 1; i < Np1; i++ {
			indL := (i - 1 + Np1*j) * K
			indR := (i + Np1*j) * K
			for n := 0; n < nVars; n++ {
				u[n] = el.U[n].DataP[indL+k]
				uo[n] = el.U[n].DataP[indR+k]
			}
			s.Equations.SurfaceFlux(u, uo, 0, fn)
			for n := 0; n < nVars; n++ {
				ws.fstar1[n*stride+i*Np1+j] = fn[n]
			}
		}
	}
	// y-direction interior interfaces: between nodes (i,j-1) and (i,j)
	for j := 1; j < Np1; j++ {
		for i := 0; i < Np1; i++ {
			indL := (i + Np1*(j-1)) * K
			indR := (i + Np1*j) * K
			for n := 0; n < nVars; n++ {
				u[n] = el.U[n].DataP[indL+k]
				uo[n] = el.U[n].DataP[indR+k]
			}
			s.Equations.SurfaceFlux(u, uo, 1, fn)
			for n := 0; n < nVars; n++ {
				ws.fstar2[n*stride+j*Np1+i] = fn[n]
			}
		}
	}
}
