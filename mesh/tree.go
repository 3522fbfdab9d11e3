package mesh

import (
	"fmt"

	"github.com/KrisshChawla/dgsem/utils"
)

/*
	Quadtree of axis-aligned square cells, stored in flat arrays indexed by
	dense cell ids. Directions are 0 = -x, 1 = +x, 2 = -y, 3 = +y, so even
	directions point in the negative axis sense. Children are numbered

		2 3
		0 1

	i.e. child 0 is the (-x,-y) quadrant, child 3 the (+x,+y) quadrant.

	NeighborIDs holds same-level neighbors only; a refined region abutting a
	coarser cell leaves the fine cells without a same-level neighbor, which is
	how the solver connectivity recognizes a mortar from the coarse side.
*/

const (
	NumChildren   = 4
	NumDirections = 4
)

type Tree struct {
	Center    [][2]float64
	Levels    []int
	ParentIDs []int
	ChildIDs  [][NumChildren]int
	NeighborIDs [][NumDirections]int
	RootCenter  [2]float64
	RootLength  float64
	Periodic    bool
}

func NewTree(center [2]float64, length float64, periodic bool) (t *Tree) {
	if length <= 0 {
		panic(fmt.Errorf("invalid root cell length: %v", length))
	}
	t = &Tree{
		RootCenter: center,
		RootLength: length,
		Periodic:   periodic,
	}
	t.addCell(center, 0, -1)
	return
}

func (t *Tree) addCell(center [2]float64, level, parent int) (id int) {
	id = len(t.Center)
	t.Center = append(t.Center, center)
	t.Levels = append(t.Levels, level)
	t.ParentIDs = append(t.ParentIDs, parent)
	t.ChildIDs = append(t.ChildIDs, [NumChildren]int{-1, -1, -1, -1})
	t.NeighborIDs = append(t.NeighborIDs, [NumDirections]int{-1, -1, -1, -1})
	return
}

func (t *Tree) NumCells() int { return len(t.Center) }

func (t *Tree) HasChildren(id int) bool { return t.ChildIDs[id][0] != -1 }

func (t *Tree) IsLeaf(id int) bool { return !t.HasChildren(id) }

func (t *Tree) HasNeighbor(id, direction int) bool { return t.NeighborIDs[id][direction] != -1 }

// HasCoarseNeighbor reports whether a cell without a same-level neighbor
// abuts a coarser cell through its parent in the given direction
func (t *Tree) HasCoarseNeighbor(id, direction int) bool {
	if t.ParentIDs[id] == -1 {
		return false
	}
	return t.HasNeighbor(t.ParentIDs[id], direction)
}

func (t *Tree) CellLength(level int) float64 {
	return t.RootLength / float64(int(1)<<uint(level))
}

func (t *Tree) LeafCells() (leaves []int) {
	for id := 0; id < t.NumCells(); id++ {
		if t.IsLeaf(id) {
			leaves = append(leaves, id)
		}
	}
	return
}

func OppositeDirection(direction int) int {
	// 0<->1, 2<->3
	return direction ^ 1
}

// childOnFace reports whether child index ci touches the parent face in direction
func childOnFace(ci, direction int) bool {
	switch direction {
	case 0:
		return ci == 0 || ci == 2
	case 1:
		return ci == 1 || ci == 3
	case 2:
		return ci == 0 || ci == 1
	case 3:
		return ci == 2 || ci == 3
	}
	panic(fmt.Errorf("invalid direction %d", direction))
}

// mirrorChild maps a child index to the adjacent child index of the
// neighboring cell across the face in direction
func mirrorChild(ci, direction int) int {
	if direction < 2 {
		return ci ^ 1 // flip x bit
	}
	return ci ^ 2 // flip y bit
}

// FaceChildren returns the two child indices of a cell adjacent to its face
// in direction, ordered lower then upper along the transverse axis. This
// ordering fixes the mortar lower/upper assignment and must not change.
func FaceChildren(direction int) (lower, upper int) {
	switch direction {
	case 0:
		return 0, 2
	case 1:
		return 1, 3
	case 2:
		return 0, 1
	case 3:
		return 2, 3
	}
	panic(fmt.Errorf("invalid direction %d", direction))
}

// Refine splits a leaf cell into four children and stitches all same-level
// neighbor links. Callers are responsible for keeping the tree 2:1 balanced.
func (t *Tree) Refine(id int) (children [NumChildren]int) {
	if t.HasChildren(id) {
		panic(fmt.Errorf("cannot refine cell %d: already refined", id))
	}
	var (
		level  = t.Levels[id]
		h      = t.CellLength(level) / 4. // offset from parent center to child center
		center = t.Center[id]
	)
	offsets := [NumChildren][2]float64{
		{-h, -h}, {+h, -h}, {-h, +h}, {+h, +h},
	}
	for ci := 0; ci < NumChildren; ci++ {
		children[ci] = t.addCell(
			[2]float64{center[0] + offsets[ci][0], center[1] + offsets[ci][1]},
			level+1, id)
	}
	t.ChildIDs[id] = children

	// Sibling links inside the parent
	t.NeighborIDs[children[0]][1] = children[1]
	t.NeighborIDs[children[1]][0] = children[0]
	t.NeighborIDs[children[2]][1] = children[3]
	t.NeighborIDs[children[3]][0] = children[2]
	t.NeighborIDs[children[0]][3] = children[2]
	t.NeighborIDs[children[2]][2] = children[0]
	t.NeighborIDs[children[1]][3] = children[3]
	t.NeighborIDs[children[3]][2] = children[1]

	// External links through the parent's neighbors
	for ci := 0; ci < NumChildren; ci++ {
		child := children[ci]
		for direction := 0; direction < NumDirections; direction++ {
			if !childOnFace(ci, direction) {
				continue
			}
			pn := t.NeighborIDs[id][direction]
			if pn == -1 || !t.HasChildren(pn) {
				continue
			}
			mc := t.ChildIDs[pn][mirrorChild(ci, direction)]
			t.NeighborIDs[child][direction] = mc
			t.NeighborIDs[mc][OppositeDirection(direction)] = child
		}
	}
	return
}

// RefineUniform refines every leaf nLevels times, wiring periodic neighbor
// links at each level when the tree is periodic
func (t *Tree) RefineUniform(nLevels int) {
	for n := 0; n < nLevels; n++ {
		leaves := t.LeafCells()
		for _, id := range leaves {
			t.Refine(id)
		}
		if t.Periodic {
			t.wirePeriodic()
		}
	}
	if nLevels == 0 && t.Periodic {
		t.wirePeriodic()
	}
}

// wirePeriodic connects cells on opposite domain faces at every level
func (t *Tree) wirePeriodic() {
	var (
		xmin = t.RootCenter[0] - t.RootLength/2
		xmax = t.RootCenter[0] + t.RootLength/2
		ymin = t.RootCenter[1] - t.RootLength/2
		ymax = t.RootCenter[1] + t.RootLength/2
	)
	for id := 0; id < t.NumCells(); id++ {
		var (
			level = t.Levels[id]
			h     = t.CellLength(level) / 2
			c     = t.Center[id]
		)
		if t.NeighborIDs[id][0] == -1 && near(c[0]-h, xmin) {
			nb := t.CellAt(level, [2]float64{xmax - h, c[1]})
			if nb != -1 {
				t.NeighborIDs[id][0] = nb
				t.NeighborIDs[nb][1] = id
			}
		}
		if t.NeighborIDs[id][2] == -1 && near(c[1]-h, ymin) {
			nb := t.CellAt(level, [2]float64{c[0], ymax - h})
			if nb != -1 {
				t.NeighborIDs[id][2] = nb
				t.NeighborIDs[nb][3] = id
			}
		}
	}
}

// CellAt descends from the root to the cell of the requested level holding
// the position, returning -1 if the tree is not deep enough there
func (t *Tree) CellAt(level int, pos [2]float64) (id int) {
	id = 0
	for t.Levels[id] < level {
		if !t.HasChildren(id) {
			return -1
		}
		var ci int
		if pos[0] > t.Center[id][0] {
			ci |= 1
		}
		if pos[1] > t.Center[id][1] {
			ci |= 2
		}
		id = t.ChildIDs[id][ci]
	}
	return
}

func near(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < utils.NODETOL
}
