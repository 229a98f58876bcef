// Package graphcut implements the global disparity solver: every
// candidate match between a left and a right pixel is a node in a binary
// labelling problem (active vs. occluded), minimized one disparity value
// ("alpha") at a time by expansion moves, each solved exactly as a min
// s-t cut over pkg/maxflow.
package graphcut

import (
	"log/slog"

	"stereodisparity/internal/models"
)

// DefaultIterations is the number of outer passes over the disparity
// range when no explicit count is configured. There is no convergence
// check; two passes are enough for the energy to settle in practice.
const DefaultIterations = 2

// Solver is the graph-cut disparity solver. Cp is the per-pixel occlusion
// penalty, V the per-neighbour-pair smoothness penalty; both must be
// non-negative. NumIters is the number of full passes over the disparity
// range and must be positive.
type Solver struct {
	Cp       int64
	V        int64
	NumIters int
}

// New constructs a graph-cut solver with the given occlusion and
// smoothness penalties and the default iteration count.
func New(cp, v int64) (*Solver, error) {
	return NewWithIterations(cp, v, DefaultIterations)
}

// NewWithIterations is New with an explicit outer-pass count.
func NewWithIterations(cp, v int64, numIters int) (*Solver, error) {
	if cp < 0 {
		return nil, &models.ErrInvalidParameter{Parameter: "Cp", Value: cp, Reason: "must be non-negative"}
	}
	if v < 0 {
		return nil, &models.ErrInvalidParameter{Parameter: "V", Value: v, Reason: "must be non-negative"}
	}
	if numIters <= 0 {
		return nil, &models.ErrInvalidParameter{Parameter: "NumIters", Value: numIters, Reason: "must be positive"}
	}
	return &Solver{Cp: cp, V: v, NumIters: numIters}, nil
}

// Compute writes pair.DisparityLeft and pair.DisparityRight by running
// alpha expansions over the disparity range implied by the pair's ground
// truth, widened by 2 at each end and clamped to [1, 255]. An empty range
// (minimum above maximum) is a completed no-op: both maps stay all
// occluded.
func (s *Solver) Compute(pair *models.StereoPair) error {
	pair.DisparityLeft = models.NewDisparityMap(pair.Rows, pair.Cols)
	pair.DisparityRight = models.NewDisparityMap(pair.Rows, pair.Cols)

	minD := pair.MinDisparityLeft
	if pair.MinDisparityRight < minD {
		minD = pair.MinDisparityRight
	}
	minD -= 2
	if minD < 1 {
		minD = 1
	}
	maxD := pair.MaxDisparityLeft
	if pair.MaxDisparityRight > maxD {
		maxD = pair.MaxDisparityRight
	}
	maxD += 2
	if maxD > models.MaxDisparity {
		maxD = models.MaxDisparity
	}

	r := &run{
		solver:       s,
		pair:         pair,
		minDisparity: minD,
		maxDisparity: maxD,
		leftOcc:      make([]int, pair.Rows*pair.Cols),
		rightOcc:     make([]int, pair.Rows*pair.Cols),
	}

	for iter := 0; iter < s.NumIters; iter++ {
		changed := false
		for alpha := minD; alpha <= maxD; alpha++ {
			if r.runAlphaExpansion(-alpha) {
				changed = true
			}
		}
		slog.Default().Debug("graphcut iteration complete", "iteration", iter, "changed", changed,
			"minDisparity", minD, "maxDisparity", maxD)
	}
	return nil
}
