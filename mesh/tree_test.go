package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformTree(t *testing.T) {
	tree := NewTree([2]float64{0.5, 0.5}, 1.0, false)
	tree.RefineUniform(2) // 4x4 leaves
	leaves := tree.LeafCells()
	assert.Equal(t, 16, len(leaves))
	assert.Equal(t, 1+4+16, tree.NumCells())

	// Interior cell has 4 neighbors, corner cell has 2
	var corner, interior int
	for _, id := range leaves {
		var n int
		for d := 0; d < NumDirections; d++ {
			if tree.HasNeighbor(id, d) {
				n++
			}
		}
		switch n {
		case 2:
			corner++
		case 4:
			interior++
		}
	}
	assert.Equal(t, 4, corner)
	assert.Equal(t, 4, interior)

	// 4x4 grid with closed boundaries: 2*4*3 internal faces
	nSurf, nMortar := tree.CountLeafFaces()
	assert.Equal(t, 24, nSurf)
	assert.Equal(t, 0, nMortar)
}

func TestPeriodicTree(t *testing.T) {
	tree := NewTree([2]float64{0, 0}, 2.0, true)
	tree.RefineUniform(1) // 2x2 leaves, fully periodic
	for _, id := range tree.LeafCells() {
		for d := 0; d < NumDirections; d++ {
			assert.True(t, tree.HasNeighbor(id, d))
		}
	}
	nSurf, nMortar := tree.CountLeafFaces()
	assert.Equal(t, 8, nSurf) // 2x2 periodic: 2 faces per cell per axis
	assert.Equal(t, 0, nMortar)
}

func TestRefinedTree(t *testing.T) {
	tree := NewTree([2]float64{0, 0}, 2.0, false)
	tree.RefineUniform(1)
	// Refine the lower-left cell: creates two mortars toward its +x and +y
	// same-level neighbors
	ll := tree.CellAt(1, [2]float64{-0.5, -0.5})
	assert.True(t, tree.IsLeaf(ll))
	tree.Refine(ll)
	assert.True(t, tree.HasChildren(ll))
	assert.Equal(t, 7, len(tree.LeafCells()))

	// The fine cells on the refinement boundary have no same-level outward
	// neighbor but do have a coarse one
	cUR := tree.ChildIDs[ll][3]
	assert.False(t, tree.HasNeighbor(cUR, 1))
	assert.True(t, tree.HasCoarseNeighbor(cUR, 1))

	// 4 faces between the new siblings plus 2 between unrefined coarse cells
	nSurf, nMortar := tree.CountLeafFaces()
	assert.Equal(t, 6, nSurf)
	assert.Equal(t, 2, nMortar)

	// Child ordering across a face is fixed
	lo, up := FaceChildren(1)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, up)
}

func TestCellGeometry(t *testing.T) {
	tree := NewTree([2]float64{0.5, 0.5}, 1.0, false)
	tree.RefineUniform(1)
	assert.InDelta(t, 0.5, tree.CellLength(1), 1e-14)
	id := tree.CellAt(1, [2]float64{0.9, 0.1})
	assert.InDelta(t, 0.75, tree.Center[id][0], 1e-14)
	assert.InDelta(t, 0.25, tree.Center[id][1], 1e-14)
}
