package DG2D

import "math"

/*
	Modal energy troubled-cell indicator driving the DG/FV blending factor
	Alpha. The indicator variable is transformed to the modal Legendre basis
	per element; a high share of energy in the top modes marks an unresolved
	or discontinuous solution. The element pass is parallel, the neighbor
	smoothing pass is serial over interfaces.
*/
func (s *Solver) calcBlendingFactors() {
	var (
		el  = s.El
		b   = s.Basis
		Np1 = b.Np1
		// Sharpness and midpoint of the logistic ramp; the threshold decays
		// with resolution so higher orders tolerate steeper resolved modes
		threshold = 0.5 * math.Pow(10., -1.8*math.Pow(float64(Np1), 0.25))
		sharpness = math.Log(9999.)
	)
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		var (
			unode = ws.f1[:el.Np]
			tmp   = ws.mtmp.DataP
			modal = ws.modal.DataP
			vinv  = b.Vinv.DataP
			u     = ws.uL
		)
		for k := kMin; k < kMax; k++ {
			for j := 0; j < Np1; j++ {
				for i := 0; i < Np1; i++ {
					ind := el.NodeID(i, j)*el.K + k
					for n := 0; n < el.NVars; n++ {
						u[n] = el.U[n].DataP[ind]
					}
					unode[i*Np1+j] = s.Equations.IndicatorVariable(u)
				}
			}
			// modal = Vinv * unode * Vinv^T
			for i := 0; i < Np1; i++ {
				for bb := 0; bb < Np1; bb++ {
					var sum float64
					for a := 0; a < Np1; a++ {
						sum += vinv[i*Np1+a] * unode[a*Np1+bb]
					}
					tmp[i*Np1+bb] = sum
				}
			}
			for i := 0; i < Np1; i++ {
				for j := 0; j < Np1; j++ {
					var sum float64
					for bb := 0; bb < Np1; bb++ {
						sum += tmp[i*Np1+bb] * vinv[j*Np1+bb]
					}
					modal[i*Np1+j] = sum
				}
			}
			var total, clip1, clip2 float64
			for i := 0; i < Np1; i++ {
				for j := 0; j < Np1; j++ {
					e := modal[i*Np1+j] * modal[i*Np1+j]
					total += e
					if i < Np1-1 && j < Np1-1 {
						clip1 += e
					}
					if i < Np1-2 && j < Np1-2 {
						clip2 += e
					}
				}
			}
			// Energy fraction in the highest mode band, guarded against
			// constant states where the denominators vanish
			var frac1, frac2 float64
			if total > 0 {
				frac1 = 1. - clip1/total
			}
			// The second band needs at least three modes per direction
			if clip1 > 0 && Np1 > 2 {
				frac2 = 1. - clip2/clip1
			}
			energy := math.Max(frac1, frac2)

			alpha := 1. / (1. + math.Exp(-sharpness/threshold*(energy-threshold)))
			if alpha < s.AlphaMin {
				alpha = 0.
			}
			if alpha > s.AlphaMax {
				alpha = s.AlphaMax
			}
			s.Alpha[k] = alpha
		}
	})
	s.smoothBlendingFactors()
}

// smoothBlendingFactors diffuses alpha across faces so neighbors of a
// troubled element pick up at least half its blending
func (s *Solver) smoothBlendingFactors() {
	var (
		a  = s.Alpha
		sc = s.Surf
	)
	pair := func(k1, k2 int) {
		a[k1] = math.Max(a[k1], 0.5*a[k2])
		a[k2] = math.Max(a[k2], 0.5*a[k1])
	}
	for sid := 0; sid < sc.NSurf; sid++ {
		pair(sc.NeighborIDs[0][sid], sc.NeighborIDs[1][sid])
	}
	var mc *MortarConnectivity
	switch s.Mortar {
	case MortarL2:
		mc = &s.L2Mortars.MortarConnectivity
	case MortarEC:
		mc = &s.ECMortars.MortarConnectivity
	}
	for m := 0; m < mc.NMortars; m++ {
		big := mc.NeighborIDs[2][m]
		pair(mc.NeighborIDs[0][m], big)
		pair(mc.NeighborIDs[1][m], big)
	}
}
