package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := A.Transpose()
		assert.True(t, near(B.At(0, 1), 3))
		assert.True(t, near(B.At(1, 0), 2))
		C := A.Mul(B)
		assert.True(t, near(C.At(0, 0), 5))
		assert.True(t, near(C.At(1, 1), 25))
	}
	{ // MulVec matches Mul against a column
		A := NewMatrix(3, 2, []float64{1, 2, 3, 4, 5, 6})
		x := []float64{2, -1}
		out := make([]float64, 3)
		A.MulVec(x, out)
		assert.True(t, near(out[0], 0))
		assert.True(t, near(out[1], 2))
		assert.True(t, near(out[2], 4))
	}
	{ // Inverse
		A := NewMatrix(2, 2, []float64{4, 7, 2, 6})
		Ainv := A.InverseWithCheck()
		I := A.Mul(Ainv)
		assert.True(t, near(I.At(0, 0), 1))
		assert.True(t, near(I.At(0, 1), 0))
		assert.True(t, near(I.At(1, 1), 1))
	}
	{ // Diagonal constructor and row/col sums
		D := NewDiagMatrix(3, []float64{1, 2, 3})
		assert.True(t, near(D.SumRows().AtVec(1), 2))
		assert.True(t, near(D.SumCols().AtVec(2), 3))
	}
}

func TestPartitionMap(t *testing.T) {
	pm := NewPartitionMap(4, 10)
	var total int
	for n := 0; n < pm.ParallelDegree; n++ {
		kMin, kMax := pm.GetBucketRange(n)
		assert.Equal(t, kMax-kMin, pm.GetBucketDimension(n))
		total += kMax - kMin
	}
	assert.Equal(t, 10, total)
	// Imbalance is at most one item
	for n := 0; n < pm.ParallelDegree; n++ {
		d := pm.GetBucketDimension(n)
		assert.True(t, d == 2 || d == 3)
	}
	// More workers than work collapses to one item per worker
	pm = NewPartitionMap(8, 3)
	assert.Equal(t, 3, pm.ParallelDegree)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1.e-10) {
		l = true
	}
	return
}
