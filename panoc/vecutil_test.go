package panoc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestFiniteVec(t *testing.T) {
	assert.True(t, finiteVec(mat.NewVecDense(2, []float64{1, -2})))
	assert.False(t, finiteVec(mat.NewVecDense(2, []float64{1, math.NaN()})))
	assert.False(t, finiteVec(mat.NewVecDense(2, []float64{math.Inf(1), 0})))
}

func TestVecNorm(t *testing.T) {
	v := mat.NewVecDense(2, []float64{3, 4})
	assert.InDelta(t, 5.0, vecNorm(v), 1e-12)
}

func TestVecEqual(t *testing.T) {
	a := mat.NewVecDense(2, []float64{1, 2})
	b := mat.NewVecDense(2, []float64{1, 2})
	c := mat.NewVecDense(2, []float64{1, 2.0000001})
	assert.True(t, vecEqual(a, b))
	assert.False(t, vecEqual(a, c))
	assert.False(t, vecEqual(a, mat.NewVecDense(3, nil)))
}
