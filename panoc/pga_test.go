package panoc_test

import (
	"testing"

	"github.com/curioloop/panocalm/panoc"
	"github.com/curioloop/panocalm/panoc/testproblems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPGABoxQPConvergesToCenter(t *testing.T) {
	problem := testproblems.NewBoxQP([]float64{-0.5, 0.5, 1.5})
	solver := panoc.NewPGASolver(panoc.DefaultPGAParams())

	x := mat.NewVecDense(3, nil)
	sigma := mat.NewVecDense(0, nil)
	y := mat.NewVecDense(0, nil)
	errZ := mat.NewVecDense(0, nil)

	stats, err := solver.Solve(problem, sigma, 1e-10, false, x, y, errZ)
	require.NoError(t, err)
	assert.Equal(t, panoc.Converged, stats.Status)
	assert.InDelta(t, 0.0, x.AtVec(0), 1e-6)
	assert.InDelta(t, 0.5, x.AtVec(1), 1e-6)
	assert.InDelta(t, 1.0, x.AtVec(2), 1e-6)
}

func TestPGANoProgressStopsQuickly(t *testing.T) {
	// BoxQP centered inside the feasible box is already a fixed point:
	// x0 = a means ∇f(x0) = 0 and the very first prox step leaves x
	// unchanged, so ε₀ = 0 and the solve stops at once (as Converged; PGA's
	// tight max_no_progress=1 threshold is the other allowed exit) rather
	// than running all the way to max_iter.
	problem := testproblems.NewBoxQP([]float64{0.3, 0.6})
	params := panoc.DefaultPGAParams()
	params.MaxIter = 10000
	solver := panoc.NewPGASolver(params)

	x := mat.NewVecDense(2, []float64{0.3, 0.6})
	sigma := mat.NewVecDense(0, nil)
	y := mat.NewVecDense(0, nil)
	errZ := mat.NewVecDense(0, nil)

	stats, err := solver.Solve(problem, sigma, 1e-300, true, x, y, errZ)
	require.NoError(t, err)
	assert.True(t, stats.Status == panoc.Converged || stats.Status == panoc.NoProgress)
	assert.Less(t, stats.Iterations, 10)
}

func TestPGAValidateSolveInputsRejectsDimensionMismatch(t *testing.T) {
	problem := testproblems.Rosenbrock{}
	solver := panoc.NewPGASolver(panoc.DefaultPGAParams())

	x := mat.NewVecDense(3, nil) // wrong length: Rosenbrock.N()==2
	sigma := mat.NewVecDense(0, nil)
	y := mat.NewVecDense(0, nil)
	errZ := mat.NewVecDense(0, nil)

	_, err := solver.Solve(problem, sigma, 1e-8, false, x, y, errZ)
	assert.Error(t, err)
}

func TestPGAAlwaysOverwriteResultsOnMaxIter(t *testing.T) {
	problem := testproblems.Rosenbrock{}
	params := panoc.DefaultPGAParams()
	params.MaxIter = 1
	solver := panoc.NewPGASolver(params)

	x := mat.NewVecDense(2, []float64{-1.2, 1.0})
	xBefore := mat.NewVecDense(2, nil)
	xBefore.CopyVec(x)
	sigma := mat.NewVecDense(0, nil)
	y := mat.NewVecDense(0, nil)
	errZ := mat.NewVecDense(0, nil)

	stats, err := solver.Solve(problem, sigma, 1e-300, true, x, y, errZ)
	require.NoError(t, err)
	assert.Equal(t, panoc.MaxIter, stats.Status)
	assert.NotEqual(t, xBefore.RawVector().Data, x.RawVector().Data,
		"alwaysOverwriteResults=true must write back even on MaxIter")
}

func TestPGANoOverwriteResultsOnMaxIterLeavesXUnchanged(t *testing.T) {
	problem := testproblems.Rosenbrock{}
	params := panoc.DefaultPGAParams()
	params.MaxIter = 1
	solver := panoc.NewPGASolver(params)

	x := mat.NewVecDense(2, []float64{-1.2, 1.0})
	xBefore := mat.NewVecDense(2, nil)
	xBefore.CopyVec(x)
	sigma := mat.NewVecDense(0, nil)
	y := mat.NewVecDense(0, nil)
	errZ := mat.NewVecDense(0, nil)

	stats, err := solver.Solve(problem, sigma, 1e-300, false, x, y, errZ)
	require.NoError(t, err)
	assert.Equal(t, panoc.MaxIter, stats.Status)
	assert.Equal(t, xBefore.RawVector().Data, x.RawVector().Data,
		"alwaysOverwriteResults=false must leave x untouched on MaxIter")
}
