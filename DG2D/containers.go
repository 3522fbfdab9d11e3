package DG2D

import (
	"github.com/KrisshChawla/dgsem/utils"
)

/*
	Flat containers for the element, surface, mortar and boundary data. All
	ids are dense 0-based indices. Per-variable fields hold one Np x K
	matrix per conserved variable, row = node, column = element, matching
	the raw-slice access pattern of the hot loops.

	Element node (i,j) lives at row i + (N+1)*j: i runs along x, j along y.
	Per-direction surface flux storage packs face node l of direction d at
	row l + (N+1)*d, directions ordered -x, +x, -y, +y.
*/
type ElementContainer struct {
	NVars, N, Np1, Np, K int
	U                    []utils.Matrix // Solution, NVars x (Np x K)
	UT                   []utils.Matrix // Time derivative buffer, same shape as U
	SurfaceFlux          []utils.Matrix // Per-direction face flux, NVars x (4*(N+1) x K)
	X, Y                 utils.Matrix   // Physical node coordinates, Np x K
	InverseJacobian      []float64      // Strictly positive, one per element
	CellIDs              []int          // Mesh cell owning each element
}

func NewElementContainer(nVars, N, K int) (ec *ElementContainer) {
	var (
		Np1 = N + 1
		Np  = Np1 * Np1
	)
	ec = &ElementContainer{
		NVars:           nVars,
		N:               N,
		Np1:             Np1,
		Np:              Np,
		K:               K,
		U:               make([]utils.Matrix, nVars),
		UT:              make([]utils.Matrix, nVars),
		SurfaceFlux:     make([]utils.Matrix, nVars),
		X:               utils.NewMatrix(Np, K),
		Y:               utils.NewMatrix(Np, K),
		InverseJacobian: make([]float64, K),
		CellIDs:         make([]int, K),
	}
	for n := 0; n < nVars; n++ {
		ec.U[n] = utils.NewMatrix(Np, K)
		ec.UT[n] = utils.NewMatrix(Np, K)
		ec.SurfaceFlux[n] = utils.NewMatrix(4*Np1, K)
	}
	return
}

// NodeID maps the in-element tensor indices to the storage row
func (ec *ElementContainer) NodeID(i, j int) int { return i + ec.Np1*j }

// FaceNodeID maps (direction, face node) to the surface flux storage row
func (ec *ElementContainer) FaceNodeID(direction, l int) int { return l + ec.Np1*direction }

type SurfaceContainer struct {
	NVars, Np1, NSurf int
	UL, UR            []utils.Matrix // Two-sided trace states, NVars x (Np1 x NSurf)
	NeighborIDs       [2][]int       // 0 = left (negative side), 1 = right element
	Orientations      []int          // 0 = x axis, 1 = y axis
}

func NewSurfaceContainer(nVars, N, nSurf int) (sc *SurfaceContainer) {
	sc = &SurfaceContainer{
		NVars:        nVars,
		Np1:          N + 1,
		NSurf:        nSurf,
		UL:           make([]utils.Matrix, nVars),
		UR:           make([]utils.Matrix, nVars),
		Orientations: make([]int, nSurf),
	}
	// A zero-length dimension is rejected by mat.Dense; empty containers
	// keep their counts and skip the storage
	if nSurf > 0 {
		for n := 0; n < nVars; n++ {
			sc.UL[n] = utils.NewMatrix(N+1, nSurf)
			sc.UR[n] = utils.NewMatrix(N+1, nSurf)
		}
	}
	for s := range sc.NeighborIDs {
		sc.NeighborIDs[s] = make([]int, nSurf)
	}
	return
}

/*
	Mortar connectivity shared by both flavors: neighbor slot 0 holds the
	lower small element, slot 1 the upper small element, slot 2 the large
	element. LargeSides is 1 when the large element sits on the negative
	side of the interface, 2 on the positive side.
*/
type MortarConnectivity struct {
	NMortars     int
	NeighborIDs  [3][]int
	Orientations []int
	LargeSides   []int
}

func newMortarConnectivity(nMortars int) (mc MortarConnectivity) {
	mc = MortarConnectivity{
		NMortars:     nMortars,
		Orientations: make([]int, nMortars),
		LargeSides:   make([]int, nMortars),
	}
	for s := range mc.NeighborIDs {
		mc.NeighborIDs[s] = make([]int, nMortars)
	}
	return
}

// L2MortarContainer carries the small-side traces plus the large trace
// interpolated onto each small node set by the forward operators
type L2MortarContainer struct {
	MortarConnectivity
	NVars, Np1     int
	ULower, UUpper []utils.Matrix // Small element traces
	PLower, PUpper []utils.Matrix // Large trace projected to lower/upper node sets
}

func NewL2MortarContainer(nVars, N, nMortars int) (mc *L2MortarContainer) {
	mc = &L2MortarContainer{
		MortarConnectivity: newMortarConnectivity(nMortars),
		NVars:              nVars,
		Np1:                N + 1,
		ULower:             make([]utils.Matrix, nVars),
		UUpper:             make([]utils.Matrix, nVars),
		PLower:             make([]utils.Matrix, nVars),
		PUpper:             make([]utils.Matrix, nVars),
	}
	if nMortars > 0 {
		for n := 0; n < nVars; n++ {
			mc.ULower[n] = utils.NewMatrix(N+1, nMortars)
			mc.UUpper[n] = utils.NewMatrix(N+1, nMortars)
			mc.PLower[n] = utils.NewMatrix(N+1, nMortars)
			mc.PUpper[n] = utils.NewMatrix(N+1, nMortars)
		}
	}
	return
}

// ECMortarContainer stores the large trace directly; the flux computation
// projects it through the entropy conserving operator pair
type ECMortarContainer struct {
	MortarConnectivity
	NVars, Np1     int
	ULower, UUpper []utils.Matrix
	ULarge         []utils.Matrix
}

func NewECMortarContainer(nVars, N, nMortars int) (mc *ECMortarContainer) {
	mc = &ECMortarContainer{
		MortarConnectivity: newMortarConnectivity(nMortars),
		NVars:              nVars,
		Np1:                N + 1,
		ULower:             make([]utils.Matrix, nVars),
		UUpper:             make([]utils.Matrix, nVars),
		ULarge:             make([]utils.Matrix, nVars),
	}
	if nMortars > 0 {
		for n := 0; n < nVars; n++ {
			mc.ULower[n] = utils.NewMatrix(N+1, nMortars)
			mc.UUpper[n] = utils.NewMatrix(N+1, nMortars)
			mc.ULarge[n] = utils.NewMatrix(N+1, nMortars)
		}
	}
	return
}

type BoundaryContainer struct {
	NVars, Np1, NBound int
	U                  []utils.Matrix // Inner trace at the boundary face
	NeighborIDs        []int
	Orientations       []int
	NeighborSides      []int        // 1 = element on negative side of the face, 2 = positive
	NodeX, NodeY       utils.Matrix // Face node coordinates, Np1 x NBound
}

func NewBoundaryContainer(nVars, N, nBound int) (bc *BoundaryContainer) {
	bc = &BoundaryContainer{
		NVars:         nVars,
		Np1:           N + 1,
		NBound:        nBound,
		U:             make([]utils.Matrix, nVars),
		NeighborIDs:   make([]int, nBound),
		Orientations:  make([]int, nBound),
		NeighborSides: make([]int, nBound),
	}
	if nBound > 0 {
		bc.NodeX = utils.NewMatrix(N+1, nBound)
		bc.NodeY = utils.NewMatrix(N+1, nBound)
		for n := 0; n < nVars; n++ {
			bc.U[n] = utils.NewMatrix(N+1, nBound)
		}
	}
	return
}
