package mesh

import (
	"github.com/james-bowman/sparse"
)

/*
	Leaf adjacency assembled as a sparse matrix, used as an independent
	cross-check on the face classification done by the solver connectivity
	pass. Weights are additive because a periodic pair of cells can share
	two distinct faces: each conforming face adds 1 to both symmetric
	entries, each large-to-small pair across a refinement jump adds 10.
*/

// LeafAdjacency returns the symmetric weighted leaf-to-leaf face adjacency
// in CSR form, along with the renumbering from cell id to leaf index
func (t *Tree) LeafAdjacency() (adj *sparse.CSR, leafIndex map[int]int) {
	leaves := t.LeafCells()
	leafIndex = make(map[int]int, len(leaves))
	for i, id := range leaves {
		leafIndex[id] = i
	}
	n := len(leaves)
	dok := sparse.NewDOK(n, n)
	bump := func(i, j int, w float64) {
		dok.Set(i, j, dok.At(i, j)+w)
		dok.Set(j, i, dok.At(j, i)+w)
	}
	for _, id := range leaves {
		for direction := 0; direction < NumDirections; direction++ {
			if !t.HasNeighbor(id, direction) {
				continue
			}
			nb := t.NeighborIDs[id][direction]
			if !t.HasChildren(nb) {
				if direction%2 == 1 { // positive senses only, to count each face once
					bump(leafIndex[id], leafIndex[nb], 1)
				}
				continue
			}
			// Refinement jump: this leaf is the large side, in any direction
			lo, up := FaceChildren(OppositeDirection(direction))
			for _, ci := range []int{lo, up} {
				small := t.ChildIDs[nb][ci]
				bump(leafIndex[id], leafIndex[small], 10)
			}
		}
	}
	adj = dok.ToCSR()
	return
}

// CountLeafFaces tallies conforming and non-conforming leaf faces from the
// sparse adjacency, for validation against the connectivity fill pass
func (t *Tree) CountLeafFaces() (nSurfaces, nMortars int) {
	adj, _ := t.LeafAdjacency()
	r, _ := adj.Dims()
	var wConforming, wMortar int
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			v := int(adj.At(i, j))
			wConforming += v % 10
			wMortar += v / 10
		}
	}
	// Symmetric storage doubles every face; each mortar owns two small pairs
	nSurfaces = wConforming / 2
	nMortars = wMortar / 4
	return
}
