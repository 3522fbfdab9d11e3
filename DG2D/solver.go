package DG2D

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/KrisshChawla/dgsem/equations"
	"github.com/KrisshChawla/dgsem/mesh"
	"github.com/KrisshChawla/dgsem/utils"
)

type VolumeIntegralType uint8

const (
	WeakForm VolumeIntegralType = iota
	SplitForm
	ShockCapturing
)

func NewVolumeIntegralType(label string) (vt VolumeIntegralType) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "weak", "weakform", "":
		vt = WeakForm
	case "split", "splitform":
		vt = SplitForm
	case "shock", "shockcapturing", "blended":
		vt = ShockCapturing
	default:
		panic(fmt.Errorf("unknown volume integral type %q", label))
	}
	return
}

type MortarFlavor uint8

const (
	MortarL2 MortarFlavor = iota
	MortarEC
)

func NewMortarFlavor(label string) (mf MortarFlavor) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "l2", "":
		mf = MortarL2
	case "ec", "entropy", "entropyconserving":
		mf = MortarEC
	default:
		panic(fmt.Errorf("unknown mortar type %q", label))
	}
	return
}

/*
	Solver owns the semi-discrete DGSEM operator: given element solution
	data U, RHS fills the time derivative buffer UT with du/dt = L(u). Time
	integration is the caller's business.

	All loops over elements and interfaces run across a goroutine pool of
	ParallelDegree workers; scratch buffers are per worker, allocated once.
*/
type Solver struct {
	Equations equations.EquationsOfMotion
	Basis     *LobattoBasis
	Tree      *mesh.Tree

	El        *ElementContainer
	Surf      *SurfaceContainer
	L2Mortars *L2MortarContainer
	ECMortars *ECMortarContainer
	Bound     *BoundaryContainer
	MortarOps *MortarOperators

	VolumeIntegral VolumeIntegralType
	Mortar         MortarFlavor
	BC             BoundaryCondition
	SourceTerms    equations.SourceFunc
	CFL            float64

	// Shock capturing state
	Alpha              []float64
	AlphaMax, AlphaMin float64
	elementIDsDG       []int
	elementIDsDGFV     []int

	ParallelDegree int
	pmElements     *utils.PartitionMap
	scratch        []*workerScratch

	// TimerCallback, when set, observes the duration of each RHS phase
	TimerCallback func(phase string, elapsed time.Duration)
}

// workerScratch holds all hot-loop temporaries for one worker
type workerScratch struct {
	f1, f2         []float64 // pointwise fluxes, NVars*Np
	fstar1, fstar2 []float64 // subcell FV fluxes, NVars*(Np1+1)*Np1
	uL, uR, fn     []float64 // small state/flux temporaries
	st             []float64 // source term accumulator
	modal, mtmp    utils.Matrix
	line           []float64 // one face trace, NVars*Np1
	proj           []float64
	fLower, fUpper []float64 // mortar small-side fluxes, NVars*Np1
	fLarge         []float64
}

func newWorkerScratch(nVars, Np1 int) (ws *workerScratch) {
	Np := Np1 * Np1
	ws = &workerScratch{
		f1:     make([]float64, nVars*Np),
		f2:     make([]float64, nVars*Np),
		fstar1: make([]float64, nVars*(Np1+1)*Np1),
		fstar2: make([]float64, nVars*(Np1+1)*Np1),
		uL:     make([]float64, nVars),
		uR:     make([]float64, nVars),
		fn:     make([]float64, nVars),
		st:     make([]float64, nVars),
		modal:  utils.NewMatrix(Np1, Np1),
		mtmp:   utils.NewMatrix(Np1, Np1),
		line:   make([]float64, nVars*Np1),
		proj:   make([]float64, nVars*Np1),
		fLower: make([]float64, nVars*Np1),
		fUpper: make([]float64, nVars*Np1),
		fLarge: make([]float64, nVars*Np1),
	}
	return
}

type SolverOptions struct {
	VolumeIntegral VolumeIntegralType
	Mortar         MortarFlavor
	CFL            float64
	AlphaMax       float64
	AlphaMin       float64
	ProcLimit      int // 0 means one worker per CPU
	BC             BoundaryCondition
	SourceTerms    equations.SourceFunc
}

func NewSolver(t *mesh.Tree, eq equations.EquationsOfMotion, N int,
	opts SolverOptions) (s *Solver) {
	var (
		nVars = eq.NumVars()
	)
	b := NewLobattoBasis(N)
	s = &Solver{
		Equations:      eq,
		Basis:          b,
		Tree:           t,
		VolumeIntegral: opts.VolumeIntegral,
		Mortar:         opts.Mortar,
		BC:             opts.BC,
		SourceTerms:    opts.SourceTerms,
		CFL:            opts.CFL,
		AlphaMax:       opts.AlphaMax,
		AlphaMin:       opts.AlphaMin,
	}
	if s.CFL == 0 {
		s.CFL = 1.0
	}
	if s.AlphaMax == 0 {
		s.AlphaMax = 0.5
	}
	if s.AlphaMin == 0 {
		s.AlphaMin = 0.001
	}

	var cell2elem map[int]int
	s.El, cell2elem = initElements(t, b, nVars)
	s.Surf = initSurfaces(t, s.El, cell2elem)
	nMortars := CountRequiredMortars(t)
	switch s.Mortar {
	case MortarL2:
		s.L2Mortars = NewL2MortarContainer(nVars, N, nMortars)
		fillMortarConnectivity(t, &s.L2Mortars.MortarConnectivity, cell2elem)
		s.MortarOps = NewMortarL2(b)
	case MortarEC:
		s.ECMortars = NewECMortarContainer(nVars, N, nMortars)
		fillMortarConnectivity(t, &s.ECMortars.MortarConnectivity, cell2elem)
		s.MortarOps = NewMortarEC(b)
	}
	s.Bound = initBoundaries(t, s.El, b, cell2elem)
	verifyAgainstAdjacency(t, s.Surf.NSurf, nMortars)
	if s.Bound.NBound > 0 && s.BC == nil {
		panic(fmt.Errorf("mesh has %d physical boundary faces but no boundary condition was given",
			s.Bound.NBound))
	}

	s.Alpha = make([]float64, s.El.K)
	s.elementIDsDG = make([]int, 0, s.El.K)
	s.elementIDsDGFV = make([]int, 0, s.El.K)

	s.ParallelDegree = opts.ProcLimit
	if s.ParallelDegree <= 0 {
		s.ParallelDegree = runtime.NumCPU()
	}
	s.pmElements = utils.NewPartitionMap(s.ParallelDegree, s.El.K)
	s.scratch = make([]*workerScratch, s.ParallelDegree)
	for np := 0; np < s.ParallelDegree; np++ {
		s.scratch[np] = newWorkerScratch(nVars, b.Np1)
	}
	return
}

// parallelElements runs f across the element partitions, handing each
// worker its scratch buffers
func (s *Solver) parallelElements(f func(kMin, kMax int, ws *workerScratch)) {
	var wg sync.WaitGroup
	for np := 0; np < s.pmElements.ParallelDegree; np++ {
		kMin, kMax := s.pmElements.GetBucketRange(np)
		wg.Add(1)
		go func(kMin, kMax int, ws *workerScratch) {
			defer wg.Done()
			f(kMin, kMax, ws)
		}(kMin, kMax, s.scratch[np])
	}
	wg.Wait()
}

// parallelRange runs f across an arbitrary index range partition
func (s *Solver) parallelRange(n int, f func(iMin, iMax int, ws *workerScratch)) {
	if n == 0 {
		return
	}
	pm := utils.NewPartitionMap(s.ParallelDegree, n)
	var wg sync.WaitGroup
	for np := 0; np < pm.ParallelDegree; np++ {
		iMin, iMax := pm.GetBucketRange(np)
		wg.Add(1)
		go func(iMin, iMax int, ws *workerScratch) {
			defer wg.Done()
			f(iMin, iMax, ws)
		}(iMin, iMax, s.scratch[np])
	}
	wg.Wait()
}

func (s *Solver) timePhase(phase string, f func()) {
	if s.TimerCallback == nil {
		f()
		return
	}
	start := time.Now()
	f()
	s.TimerCallback(phase, time.Since(start))
}

/*
	RHS evaluates the semi-discrete operator at time t. Phases are strictly
	ordered; within each phase all element/interface iterations are
	independent and run in parallel. The interface scatter writes to
	distinct elements' flux slots only, which the connectivity invariant
	guarantees, so no locking is needed anywhere.
*/
func (s *Solver) RHS(t float64) {
	s.timePhase("reset", s.zeroUT)
	if s.VolumeIntegral == ShockCapturing {
		s.timePhase("indicator", s.calcBlendingFactors)
	}
	s.timePhase("volume integral", s.calcVolumeIntegral)
	s.timePhase("prolong", func() {
		s.prolongToSurfaces()
		s.prolongToMortars()
		s.prolongToBoundaries()
	})
	s.timePhase("interface flux", func() {
		s.calcSurfaceFlux()
		s.calcMortarFlux()
		s.calcBoundaryFlux(t)
	})
	s.timePhase("surface integral", s.calcSurfaceIntegral)
	s.timePhase("jacobian", s.applyJacobian)
	if s.SourceTerms != nil {
		s.timePhase("sources", func() { s.applySourceTerms(t) })
	}
}

func (s *Solver) zeroUT() {
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		var (
			el = s.El
		)
		for n := 0; n < el.NVars; n++ {
			ut := el.UT[n].DataP
			for node := 0; node < el.Np; node++ {
				row := ut[node*el.K:]
				for k := kMin; k < kMax; k++ {
					row[k] = 0
				}
			}
		}
	})
}

func (s *Solver) applyJacobian() {
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		var (
			el = s.El
		)
		for k := kMin; k < kMax; k++ {
			fac := -el.InverseJacobian[k]
			for n := 0; n < el.NVars; n++ {
				ut := el.UT[n].DataP
				for node := 0; node < el.Np; node++ {
					ut[node*el.K+k] *= fac
				}
			}
		}
	})
}

// applySourceTerms evaluates sources in physical space, after the Jacobian
func (s *Solver) applySourceTerms(t float64) {
	s.parallelElements(func(kMin, kMax int, ws *workerScratch) {
		var (
			el = s.El
			u  = ws.uL
			st = ws.st
		)
		for k := kMin; k < kMax; k++ {
			for node := 0; node < el.Np; node++ {
				ind := node*el.K + k
				for n := 0; n < el.NVars; n++ {
					u[n] = el.U[n].DataP[ind]
					st[n] = 0
				}
				s.SourceTerms(u, el.X.DataP[ind], el.Y.DataP[ind], t, st)
				for n := 0; n < el.NVars; n++ {
					el.UT[n].DataP[ind] += st[n]
				}
			}
		}
	})
}

// CalcDT returns the CFL-limited stable explicit time step, the minimum
// over all elements of the wave-speed bound
func (s *Solver) CalcDT() (dt float64) {
	var (
		el             = s.El
		u              = make([]float64, el.NVars)
		maxScaledSpeed float64
	)
	for k := 0; k < el.K; k++ {
		var l1max, l2max float64
		for node := 0; node < el.Np; node++ {
			ind := node*el.K + k
			for n := 0; n < el.NVars; n++ {
				u[n] = el.U[n].DataP[ind]
			}
			l1, l2 := s.Equations.MaxWaveSpeeds(u)
			l1max = utils.Max(l1max, l1)
			l2max = utils.Max(l2max, l2)
		}
		scaled := el.InverseJacobian[k] * (l1max + l2max)
		maxScaledSpeed = utils.Max(maxScaledSpeed, scaled)
	}
	if maxScaledSpeed == 0 {
		panic(fmt.Errorf("zero wave speeds everywhere, cannot estimate dt"))
	}
	dt = s.CFL * 2. / (float64(s.Basis.Np1) * maxScaledSpeed)
	return
}
