package panoc

import "time"

// LipschitzParams controls the initial finite-difference Lipschitz
// estimate and the γ = factor/L relationship (spec.md §6).
type LipschitzParams struct {
	// Epsilon is the relative perturbation size, ε in h = max(δ, ε·|x|).
	Epsilon float64
	// Delta is the minimum absolute perturbation size.
	Delta float64
	// LGammaFactor relates the step size γ to the Lipschitz estimate L:
	// γ = LGammaFactor / L.
	LGammaFactor float64
}

// DefaultLipschitzParams returns the spec.md §6 defaults.
func DefaultLipschitzParams() LipschitzParams {
	return LipschitzParams{
		Epsilon:      1e-6,
		Delta:        1e-12,
		LGammaFactor: 0.95,
	}
}

// ProgressInfo snapshots one PANOC iteration for an optional progress
// callback, mirroring original_source/.../panoc.hpp's progress_cb payload.
type ProgressInfo struct {
	K              int
	X, P, XHat     []float64
	NormSqP        float64
	Psi            float64
	GradPsi        []float64
	PsiXHat        float64
	GradPsiXHat    []float64
	L, Gamma, Eps  float64
}

// ProgressFunc is called once per PANOC iteration, synchronously, right
// before the stop-condition checks (see SPEC_FULL.md "Supplemented
// features" item 6). It must not retain the slices in ProgressInfo beyond
// the call.
type ProgressFunc func(ProgressInfo)

// PANOCParams holds the tunable knobs of the PANOC inner solver (spec.md
// §6). DefaultPANOCParams returns the documented defaults; fields are
// exported so callers can override individual ones, following
// liblinear.Parameter's "struct with a constructor for the defaults"
// shape.
type PANOCParams struct {
	Lipschitz LipschitzParams

	MaxIter int
	MaxTime time.Duration

	// LBFGSMem is both the L-BFGS curvature-history size and the
	// no-progress grace window (spec.md §6).
	LBFGSMem int

	// TauMin is the minimum line-search backtrack fraction before falling
	// back to the safe prox step.
	TauMin float64

	// QuadraticUpperboundThreshold guards the Lipschitz-doubling loop
	// against infinite doubling when ψ is near zero.
	QuadraticUpperboundThreshold float64

	UpdateLipschitzInLinesearch bool
	AlternativeLinesearchCond   bool

	// AndersonAcceleration is the Anderson memory depth mₐₐ; 0 disables
	// Anderson acceleration entirely.
	AndersonAcceleration int

	// PrintInterval: 0 disables progress printing; N != 0 prints every N
	// iterations.
	PrintInterval int

	// Progress, if non-nil, is called once per iteration (see
	// ProgressFunc).
	Progress ProgressFunc
}

// DefaultPANOCParams returns the spec.md §6 defaults.
func DefaultPANOCParams() PANOCParams {
	return PANOCParams{
		Lipschitz:                    DefaultLipschitzParams(),
		MaxIter:                      100,
		MaxTime:                      5 * time.Minute,
		LBFGSMem:                     10,
		TauMin:                       1.0 / 256,
		QuadraticUpperboundThreshold: 1e-6,
		UpdateLipschitzInLinesearch:  false,
		AlternativeLinesearchCond:    false,
		AndersonAcceleration:         0,
		PrintInterval:                0,
	}
}

// PGAParams holds the tunables of the degenerate Proximal Gradient
// Algorithm driver (spec.md §4.8): no direction provider, no line search,
// so no LBFGSMem/TauMin/Anderson knobs.
type PGAParams struct {
	Lipschitz     LipschitzParams
	MaxIter       int
	MaxTime       time.Duration
	PrintInterval int
}

// DefaultPGAParams returns the spec.md §6 defaults applied to PGA.
func DefaultPGAParams() PGAParams {
	return PGAParams{
		Lipschitz:     DefaultLipschitzParams(),
		MaxIter:       100,
		MaxTime:       5 * time.Minute,
		PrintInterval: 0,
	}
}
