package DG2D

/*
	Prolongation of element traces to the interface containers, numerical
	flux evaluation there, conservative scatter back into the per-element
	face flux storage, and the surface integral.

	Face flux values are always stored with positive-axis orientation; the
	surface integral applies the face sign (negative faces subtract). A
	conforming surface computes one flux consumed by both neighbors, which
	makes local conservation exact by construction.
*/

// faceNode maps (face direction, face node) to the element node id
func (s *Solver) faceNode(direction, l int) int {
	var (
		N   = s.Basis.N
		Np1 = s.Basis.Np1
	)
	switch direction {
	case 0:
		return Np1 * l // (0, l)
	case 1:
		return N + Np1*l // (N, l)
	case 2:
		return l // (l, 0)
	default:
		return l + Np1*N // (l, N)
	}
}

// mortarFaceDirections returns the face direction of the small elements
// toward the large element and vice versa
func mortarFaceDirections(orientation, largeSide int) (smallDir, largeDir int) {
	if largeSide == 1 { // large element on the negative side
		return 2 * orientation, 2*orientation + 1
	}
	return 2*orientation + 1, 2 * orientation
}

func (s *Solver) prolongToSurfaces() {
	var (
		el = s.El
		sc = s.Surf
	)
	s.parallelRange(sc.NSurf, func(iMin, iMax int, ws *workerScratch) {
		for sid := iMin; sid < iMax; sid++ {
			var (
				o  = sc.Orientations[sid]
				kl = sc.NeighborIDs[0][sid]
				kr = sc.NeighborIDs[1][sid]
			)
			for l := 0; l < sc.Np1; l++ {
				nodeL := s.faceNode(2*o+1, l) // left element's positive face
				nodeR := s.faceNode(2*o, l)   // right element's negative face
				for n := 0; n < el.NVars; n++ {
					sc.UL[n].DataP[l*sc.NSurf+sid] = el.U[n].DataP[nodeL*el.K+kl]
					sc.UR[n].DataP[l*sc.NSurf+sid] = el.U[n].DataP[nodeR*el.K+kr]
				}
			}
		}
	})
}

func (s *Solver) calcSurfaceFlux() {
	var (
		el = s.El
		sc = s.Surf
	)
	s.parallelRange(sc.NSurf, func(iMin, iMax int, ws *workerScratch) {
		for sid := iMin; sid < iMax; sid++ {
			var (
				o  = sc.Orientations[sid]
				kl = sc.NeighborIDs[0][sid]
				kr = sc.NeighborIDs[1][sid]
			)
			for l := 0; l < sc.Np1; l++ {
				for n := 0; n < el.NVars; n++ {
					ws.uL[n] = sc.UL[n].DataP[l*sc.NSurf+sid]
					ws.uR[n] = sc.UR[n].DataP[l*sc.NSurf+sid]
				}
				s.Equations.SurfaceFlux(ws.uL, ws.uR, o, ws.fn)
				// One flux, two consumers
				fL := el.FaceNodeID(2*o+1, l)
				fR := el.FaceNodeID(2*o, l)
				for n := 0; n < el.NVars; n++ {
					el.SurfaceFlux[n].DataP[fL*el.K+kl] = ws.fn[n]
					el.SurfaceFlux[n].DataP[fR*el.K+kr] = ws.fn[n]
				}
			}
		}
	})
}

func (s *Solver) prolongToMortars() {
	switch s.Mortar {
	case MortarL2:
		s.prolongToL2Mortars()
	case MortarEC:
		s.prolongToECMortars()
	}
}

func (s *Solver) prolongToL2Mortars() {
	var (
		el = s.El
		mc = s.L2Mortars
		mo = s.MortarOps
	)
	s.parallelRange(mc.NMortars, func(iMin, iMax int, ws *workerScratch) {
		for m := iMin; m < iMax; m++ {
			var (
				o                  = mc.Orientations[m]
				kLo                = mc.NeighborIDs[0][m]
				kUp                = mc.NeighborIDs[1][m]
				kBig               = mc.NeighborIDs[2][m]
				smallDir, largeDir = mortarFaceDirections(o, mc.LargeSides[m])
				Np1                = mc.Np1
			)
			// Small traces copy over directly, nodes coincide per side
			for l := 0; l < Np1; l++ {
				nodeS := s.faceNode(smallDir, l)
				nodeB := s.faceNode(largeDir, l)
				for n := 0; n < el.NVars; n++ {
					mc.ULower[n].DataP[l*mc.NMortars+m] = el.U[n].DataP[nodeS*el.K+kLo]
					mc.UUpper[n].DataP[l*mc.NMortars+m] = el.U[n].DataP[nodeS*el.K+kUp]
					ws.line[n*Np1+l] = el.U[n].DataP[nodeB*el.K+kBig]
				}
			}
			// Large trace interpolated onto each small node set
			for n := 0; n < el.NVars; n++ {
				mo.ForwardLower.MulVec(ws.line[n*Np1:(n+1)*Np1], ws.proj[:Np1])
				for l := 0; l < Np1; l++ {
					mc.PLower[n].DataP[l*mc.NMortars+m] = ws.proj[l]
				}
				mo.ForwardUpper.MulVec(ws.line[n*Np1:(n+1)*Np1], ws.proj[:Np1])
				for l := 0; l < Np1; l++ {
					mc.PUpper[n].DataP[l*mc.NMortars+m] = ws.proj[l]
				}
			}
		}
	})
}

func (s *Solver) prolongToECMortars() {
	var (
		el = s.El
		mc = s.ECMortars
	)
	s.parallelRange(mc.NMortars, func(iMin, iMax int, ws *workerScratch) {
		for m := iMin; m < iMax; m++ {
			var (
				o                  = mc.Orientations[m]
				kLo                = mc.NeighborIDs[0][m]
				kUp                = mc.NeighborIDs[1][m]
				kBig               = mc.NeighborIDs[2][m]
				smallDir, largeDir = mortarFaceDirections(o, mc.LargeSides[m])
			)
			for l := 0; l < mc.Np1; l++ {
				nodeS := s.faceNode(smallDir, l)
				nodeB := s.faceNode(largeDir, l)
				for n := 0; n < el.NVars; n++ {
					mc.ULower[n].DataP[l*mc.NMortars+m] = el.U[n].DataP[nodeS*el.K+kLo]
					mc.UUpper[n].DataP[l*mc.NMortars+m] = el.U[n].DataP[nodeS*el.K+kUp]
					mc.ULarge[n].DataP[l*mc.NMortars+m] = el.U[n].DataP[nodeB*el.K+kBig]
				}
			}
		}
	})
}

func (s *Solver) calcMortarFlux() {
	switch s.Mortar {
	case MortarL2:
		s.calcL2MortarFlux()
	case MortarEC:
		s.calcECMortarFlux()
	}
}

// mortarRiemann solves per-node Riemann problems between a small trace and
// the projected large trace, respecting the left/right side convention
func (s *Solver) mortarRiemann(small, projLarge, fOut []float64,
	orientation, largeSide, Np1, nVars int, ws *workerScratch) {
	for l := 0; l < Np1; l++ {
		for n := 0; n < nVars; n++ {
			if largeSide == 1 {
				ws.uL[n] = projLarge[n*Np1+l]
				ws.uR[n] = small[n*Np1+l]
			} else {
				ws.uL[n] = small[n*Np1+l]
				ws.uR[n] = projLarge[n*Np1+l]
			}
		}
		s.Equations.SurfaceFlux(ws.uL, ws.uR, orientation, ws.fn)
		for n := 0; n < nVars; n++ {
			fOut[n*Np1+l] = ws.fn[n]
		}
	}
}

// scatterMortarFluxes writes the small-side fluxes directly and the
// reverse-projected combination to the large element
func (s *Solver) scatterMortarFluxes(mc *MortarConnectivity, m, Np1 int,
	ws *workerScratch) {
	var (
		el                 = s.El
		mo                 = s.MortarOps
		o                  = mc.Orientations[m]
		kLo                = mc.NeighborIDs[0][m]
		kUp                = mc.NeighborIDs[1][m]
		kBig               = mc.NeighborIDs[2][m]
		smallDir, largeDir = mortarFaceDirections(o, mc.LargeSides[m])
	)
	for l := 0; l < Np1; l++ {
		fS := el.FaceNodeID(smallDir, l)
		for n := 0; n < el.NVars; n++ {
			el.SurfaceFlux[n].DataP[fS*el.K+kLo] = ws.fLower[n*Np1+l]
			el.SurfaceFlux[n].DataP[fS*el.K+kUp] = ws.fUpper[n*Np1+l]
		}
	}
	// The reverse operators are quadrature adjoints of the forward ones,
	// so the large element sees the same total flux the small sides removed
	for n := 0; n < el.NVars; n++ {
		mo.ReverseUpper.MulVec(ws.fUpper[n*Np1:(n+1)*Np1], ws.fLarge[n*Np1:(n+1)*Np1])
		mo.ReverseLower.MulVec(ws.fLower[n*Np1:(n+1)*Np1], ws.proj[:Np1])
		for l := 0; l < Np1; l++ {
			ws.fLarge[n*Np1+l] += ws.proj[l]
		}
	}
	for l := 0; l < Np1; l++ {
		fB := el.FaceNodeID(largeDir, l)
		for n := 0; n < el.NVars; n++ {
			el.SurfaceFlux[n].DataP[fB*el.K+kBig] = ws.fLarge[n*Np1+l]
		}
	}
}

func (s *Solver) calcL2MortarFlux() {
	var (
		mc    = s.L2Mortars
		Np1   = mc.Np1
		nVars = s.El.NVars
	)
	s.parallelRange(mc.NMortars, func(iMin, iMax int, ws *workerScratch) {
		small := make([]float64, nVars*Np1)
		proj := make([]float64, nVars*Np1)
		for m := iMin; m < iMax; m++ {
			var (
				o         = mc.Orientations[m]
				largeSide = mc.LargeSides[m]
			)
			for n := 0; n < nVars; n++ {
				for l := 0; l < Np1; l++ {
					small[n*Np1+l] = mc.ULower[n].DataP[l*mc.NMortars+m]
					proj[n*Np1+l] = mc.PLower[n].DataP[l*mc.NMortars+m]
				}
			}
			s.mortarRiemann(small, proj, ws.fLower, o, largeSide, Np1, nVars, ws)
			for n := 0; n < nVars; n++ {
				for l := 0; l < Np1; l++ {
					small[n*Np1+l] = mc.UUpper[n].DataP[l*mc.NMortars+m]
					proj[n*Np1+l] = mc.PUpper[n].DataP[l*mc.NMortars+m]
				}
			}
			s.mortarRiemann(small, proj, ws.fUpper, o, largeSide, Np1, nVars, ws)
			s.scatterMortarFluxes(&mc.MortarConnectivity, m, Np1, ws)
		}
	})
}

func (s *Solver) calcECMortarFlux() {
	var (
		mc    = s.ECMortars
		mo    = s.MortarOps
		Np1   = mc.Np1
		nVars = s.El.NVars
	)
	s.parallelRange(mc.NMortars, func(iMin, iMax int, ws *workerScratch) {
		small := make([]float64, nVars*Np1)
		large := make([]float64, nVars*Np1)
		proj := make([]float64, nVars*Np1)
		for m := iMin; m < iMax; m++ {
			var (
				o         = mc.Orientations[m]
				largeSide = mc.LargeSides[m]
			)
			for n := 0; n < nVars; n++ {
				for l := 0; l < Np1; l++ {
					large[n*Np1+l] = mc.ULarge[n].DataP[l*mc.NMortars+m]
				}
			}
			// Lower face: project the large trace, then Riemann solve
			for n := 0; n < nVars; n++ {
				mo.ForwardLower.MulVec(large[n*Np1:(n+1)*Np1], proj[n*Np1:(n+1)*Np1])
				for l := 0; l < Np1; l++ {
					small[n*Np1+l] = mc.ULower[n].DataP[l*mc.NMortars+m]
				}
			}
			s.mortarRiemann(small, proj, ws.fLower, o, largeSide, Np1, nVars, ws)
			// Upper face
			for n := 0; n < nVars; n++ {
				mo.ForwardUpper.MulVec(large[n*Np1:(n+1)*Np1], proj[n*Np1:(n+1)*Np1])
				for l := 0; l < Np1; l++ {
					small[n*Np1+l] = mc.UUpper[n].DataP[l*mc.NMortars+m]
				}
			}
			s.mortarRiemann(small, proj, ws.fUpper, o, largeSide, Np1, nVars, ws)
			s.scatterMortarFluxes(&mc.MortarConnectivity, m, Np1, ws)
		}
	})
}

func (s *Solver) prolongToBoundaries() {
	var (
		el = s.El
		bc = s.Bound
	)
	s.parallelRange(bc.NBound, func(iMin, iMax int, ws *workerScratch) {
		for bid := iMin; bid < iMax; bid++ {
			var (
				o = bc.Orientations[bid]
				k = bc.NeighborIDs[bid]
				d = 2 * o // face direction seen from the element
			)
			if bc.NeighborSides[bid] == 1 {
				d = 2*o + 1
			}
			for l := 0; l < bc.Np1; l++ {
				node := s.faceNode(d, l)
				for n := 0; n < el.NVars; n++ {
					bc.U[n].DataP[l*bc.NBound+bid] = el.U[n].DataP[node*el.K+k]
				}
			}
		}
	})
}

func (s *Solver) calcBoundaryFlux(t float64) {
	var (
		el = s.El
		bc = s.Bound
	)
	if bc.NBound == 0 {
		return
	}
	s.parallelRange(bc.NBound, func(iMin, iMax int, ws *workerScratch) {
		for bid := iMin; bid < iMax; bid++ {
			var (
				o    = bc.Orientations[bid]
				k    = bc.NeighborIDs[bid]
				side = bc.NeighborSides[bid]
				d    = 2 * o
			)
			if side == 1 {
				d = 2*o + 1
			}
			for l := 0; l < bc.Np1; l++ {
				for n := 0; n < el.NVars; n++ {
					ws.uL[n] = bc.U[n].DataP[l*bc.NBound+bid]
				}
				x := bc.NodeX.DataP[l*bc.NBound+bid]
				y := bc.NodeY.DataP[l*bc.NBound+bid]
				s.BC.Apply(s.Equations, ws.uL, o, side, l, bid, x, y, t, ws.fn)
				fID := el.FaceNodeID(d, l)
				for n := 0; n < el.NVars; n++ {
					el.SurfaceFlux[n].DataP[fID*el.K+k] = ws.fn[n]
				}
			}
		}
	})
}

// calcSurfaceIntegral lifts the stored face fluxes into UT with the SBP
// boundary coefficients; negative faces subtract, positive faces add
func (s *Solver) calcSurfaceIntegral() {
	var (
		el   = s.El
		b    = s.Basis
		N    = b.N
		Np1  = b.Np1
		facM = b.Lhat.At(0, 0)
		facP = b.Lhat.At(N, 1)
	)
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		for k := kMin; k < kMax; k++ {
			for n := 0; n < el.NVars; n++ {
				ut := el.UT[n].DataP
				sf := el.SurfaceFlux[n].DataP
				for l := 0; l < Np1; l++ {
					// x faces: nodes (0,l) and (N,l)
					ut[s.faceNode(0, l)*el.K+k] -= sf[el.FaceNodeID(0, l)*el.K+k] * facM
					ut[s.faceNode(1, l)*el.K+k] += sf[el.FaceNodeID(1, l)*el.K+k] * facP
					// y faces: nodes (l,0) and (l,N)
					ut[s.faceNode(2, l)*el.K+k] -= sf[el.FaceNodeID(2, l)*el.K+k] * facM
					ut[s.faceNode(3, l)*el.K+k] += sf[el.FaceNodeID(3, l)*el.K+k] * facP
				}
			}
		}
	})
}
