package DG2D

import (
	"fmt"

	"github.com/KrisshChawla/dgsem/mesh"
)

/*
	Connectivity construction walks the mesh leaf cells and classifies every
	face into exactly one of conforming surface, mortar, or domain boundary:

	- conforming surfaces are only processed from positive directions to
	  avoid double counting;
	- a refined same-level neighbor makes the current cell the large side of
	  a mortar, in any direction;
	- no same-level neighbor and no coarse neighbor means a physical
	  boundary.

	Each classification runs as a pre-count pass and a fill pass; a mismatch
	between the two is a tree topology fault and panics.
*/

func CountRequiredSurfaces(t *mesh.Tree) (count int) {
	for _, id := range t.LeafCells() {
		for direction := 0; direction < mesh.NumDirections; direction++ {
			if direction%2 == 0 { // positive directions only
				continue
			}
			if !t.HasNeighbor(id, direction) {
				continue
			}
			if t.HasChildren(t.NeighborIDs[id][direction]) {
				continue // mortar, not a conforming surface
			}
			count++
		}
	}
	return
}

func CountRequiredMortars(t *mesh.Tree) (count int) {
	for _, id := range t.LeafCells() {
		for direction := 0; direction < mesh.NumDirections; direction++ {
			if !t.HasNeighbor(id, direction) {
				continue
			}
			if t.HasChildren(t.NeighborIDs[id][direction]) {
				count++
			}
		}
	}
	return
}

func CountRequiredBoundaries(t *mesh.Tree) (count int) {
	for _, id := range t.LeafCells() {
		for direction := 0; direction < mesh.NumDirections; direction++ {
			if t.HasNeighbor(id, direction) {
				continue
			}
			if t.HasCoarseNeighbor(id, direction) {
				continue // small side of a mortar, owned by the large cell
			}
			count++
		}
	}
	return
}

// initElements builds the element container from the leaf cells, setting
// node coordinates and the per-element inverse Jacobian
func initElements(t *mesh.Tree, b *LobattoBasis, nVars int) (ec *ElementContainer, cell2elem map[int]int) {
	leaves := t.LeafCells()
	ec = NewElementContainer(nVars, b.N, len(leaves))
	cell2elem = make(map[int]int, len(leaves))
	for k, id := range leaves {
		cell2elem[id] = k
		var (
			length = t.CellLength(t.Levels[id])
			cx     = t.Center[id][0]
			cy     = t.Center[id][1]
			h      = length / 2
		)
		ec.CellIDs[k] = id
		ec.InverseJacobian[k] = 2. / length
		for j := 0; j < ec.Np1; j++ {
			for i := 0; i < ec.Np1; i++ {
				node := ec.NodeID(i, j)
				ec.X.DataP[node*ec.K+k] = cx + h*b.R.AtVec(i)
				ec.Y.DataP[node*ec.K+k] = cy + h*b.R.AtVec(j)
			}
		}
	}
	return
}

func initSurfaces(t *mesh.Tree, ec *ElementContainer, cell2elem map[int]int) (sc *SurfaceContainer) {
	nSurf := CountRequiredSurfaces(t)
	sc = NewSurfaceContainer(ec.NVars, ec.N, nSurf)
	var count int
	for _, id := range t.LeafCells() {
		for direction := 1; direction < mesh.NumDirections; direction += 2 {
			if !t.HasNeighbor(id, direction) {
				continue
			}
			nb := t.NeighborIDs[id][direction]
			if t.HasChildren(nb) {
				continue
			}
			if count >= nSurf {
				panic(fmt.Errorf("surface fill pass exceeded pre-count %d", nSurf))
			}
			sc.NeighborIDs[0][count] = cell2elem[id] // current cell is on the negative side
			sc.NeighborIDs[1][count] = cell2elem[nb]
			sc.Orientations[count] = direction / 2
			count++
		}
	}
	if count != nSurf {
		panic(fmt.Errorf("surface count mismatch: expected %d, filled %d", nSurf, count))
	}
	return
}

// fillMortarConnectivity is shared by both mortar flavors
func fillMortarConnectivity(t *mesh.Tree, mc *MortarConnectivity, cell2elem map[int]int) {
	var count int
	for _, id := range t.LeafCells() {
		for direction := 0; direction < mesh.NumDirections; direction++ {
			if !t.HasNeighbor(id, direction) {
				continue
			}
			nb := t.NeighborIDs[id][direction]
			if !t.HasChildren(nb) {
				continue
			}
			if count >= mc.NMortars {
				panic(fmt.Errorf("mortar fill pass exceeded pre-count %d", mc.NMortars))
			}
			// The small cells are the neighbor's children on the shared
			// face; their lower/upper ordering is fixed by the face table
			lo, up := mesh.FaceChildren(mesh.OppositeDirection(direction))
			mc.NeighborIDs[0][count] = cell2elem[t.ChildIDs[nb][lo]]
			mc.NeighborIDs[1][count] = cell2elem[t.ChildIDs[nb][up]]
			mc.NeighborIDs[2][count] = cell2elem[id]
			mc.Orientations[count] = direction / 2
			if direction%2 == 1 {
				mc.LargeSides[count] = 1 // odd = positive sense: large sits on the negative side
			} else {
				mc.LargeSides[count] = 2
			}
			count++
		}
	}
	if count != mc.NMortars {
		panic(fmt.Errorf("mortar count mismatch: expected %d, filled %d", mc.NMortars, count))
	}
}

func initBoundaries(t *mesh.Tree, ec *ElementContainer, b *LobattoBasis,
	cell2elem map[int]int) (bc *BoundaryContainer) {
	nBound := CountRequiredBoundaries(t)
	bc = NewBoundaryContainer(ec.NVars, ec.N, nBound)
	var count int
	for _, id := range t.LeafCells() {
		for direction := 0; direction < mesh.NumDirections; direction++ {
			if t.HasNeighbor(id, direction) || t.HasCoarseNeighbor(id, direction) {
				continue
			}
			if count >= nBound {
				panic(fmt.Errorf("boundary fill pass exceeded pre-count %d", nBound))
			}
			var (
				length = t.CellLength(t.Levels[id])
				cx     = t.Center[id][0]
				cy     = t.Center[id][1]
				h      = length / 2
			)
			bc.NeighborIDs[count] = cell2elem[id]
			bc.Orientations[count] = direction / 2
			if direction%2 == 1 {
				bc.NeighborSides[count] = 1 // element on the negative side of the face
			} else {
				bc.NeighborSides[count] = 2
			}
			for l := 0; l < bc.Np1; l++ {
				if direction/2 == 0 { // x face: constant x, nodes run along y
					x := cx - h
					if direction == 1 {
						x = cx + h
					}
					bc.NodeX.DataP[l*nBound+count] = x
					bc.NodeY.DataP[l*nBound+count] = cy + h*b.R.AtVec(l)
				} else {
					y := cy - h
					if direction == 3 {
						y = cy + h
					}
					bc.NodeX.DataP[l*nBound+count] = cx + h*b.R.AtVec(l)
					bc.NodeY.DataP[l*nBound+count] = y
				}
			}
			count++
		}
	}
	if count != nBound {
		panic(fmt.Errorf("boundary count mismatch: expected %d, filled %d", nBound, count))
	}
	return
}

// verifyAgainstAdjacency cross-checks the classified face counts with the
// sparse leaf adjacency built independently by the mesh package
func verifyAgainstAdjacency(t *mesh.Tree, nSurf, nMortars int) {
	adjSurf, adjMortars := t.CountLeafFaces()
	if adjSurf != nSurf || adjMortars != nMortars {
		panic(fmt.Errorf(
			"connectivity/adjacency mismatch: surfaces %d vs %d, mortars %d vs %d",
			nSurf, adjSurf, nMortars, adjMortars))
	}
}
