// Package ncc implements the window-based normalized cross-correlation
// disparity solver: for every interior pixel, correlate a mean-subtracted
// per-channel template against every candidate position along the
// opposite view's epipolar line, normalize each channel by its own local
// standard deviation, merge to luma, and take the best-scoring column.
package ncc

import (
	"log/slog"
	"math"

	"stereodisparity/internal/models"
	"stereodisparity/pkg/kernel"
)

// Solver is the NCC disparity solver. WindowSize must be odd and positive;
// New validates this once so Compute never has to.
type Solver struct {
	WindowSize int
}

// New constructs an NCC solver with the given template/local-variance
// window side length.
func New(windowSize int) (*Solver, error) {
	if windowSize <= 0 || windowSize%2 == 0 {
		return nil, &models.ErrInvalidParameter{Parameter: "windowSize", Value: windowSize, Reason: "must be odd and positive"}
	}
	return &Solver{WindowSize: windowSize}, nil
}

// channels is an image decomposed into its three colour planes.
type channels struct {
	r, g, b *kernel.Grid
}

func split(im *models.RGBImage) channels {
	r, g, b := kernel.SplitRGB(im.Data, im.Rows, im.Cols)
	return channels{r: r, g: g, b: b}
}

// Compute writes pair.DisparityLeft and pair.DisparityRight by running an
// independent per-scanline NCC search for each view. Border pixels
// (within half a window of any edge) stay at 0.
func (s *Solver) Compute(pair *models.StereoPair) error {
	pair.DisparityLeft = models.NewDisparityMap(pair.Rows, pair.Cols)
	pair.DisparityRight = models.NewDisparityMap(pair.Rows, pair.Cols)

	left := split(pair.Left)
	right := split(pair.Right)

	magLeft := s.magnitude(left)
	magRight := s.magnitude(right)

	r := (s.WindowSize - 1) / 2
	for i := r; i < pair.Rows-r; i++ {
		if i%20 == 0 {
			slog.Default().Debug("ncc progress", "row", i, "rows", pair.Rows)
		}
		for j := r; j < pair.Cols-r; j++ {
			dLeft := s.bestMatch(left, right, magRight, i, j,
				j-pair.MaxDisparityLeft, j-pair.MinDisparityLeft)
			dRight := s.bestMatch(right, left, magLeft, i, j,
				j+pair.MinDisparityRight, j+pair.MaxDisparityRight)

			pair.DisparityLeft.Set(j, i, clampDisparity(j-dLeft))
			pair.DisparityRight.Set(j, i, clampDisparity(dRight-j))
		}
	}
	return nil
}

// magnitude returns the per-channel local (WindowSize x WindowSize)
// standard deviation of im, via the identity Var(X) = E[X^2] - E[X]^2
// computed with BoxFilter.
func (s *Solver) magnitude(im channels) channels {
	stdDev := func(g *kernel.Grid) *kernel.Grid {
		mean := kernel.BoxFilter(g, s.WindowSize)
		meanSq := kernel.BoxFilter(kernel.Square(g), s.WindowSize)
		return kernel.Sqrt(kernel.Sub(meanSq, kernel.Square(mean)))
	}
	return channels{r: stdDev(im.r), g: stdDev(im.g), b: stdDev(im.b)}
}

// bestMatch searches row i of `opposite` for the column in [minCol, maxCol]
// (clamped to the valid interior range) whose WindowSize x WindowSize
// neighbourhood best correlates with the mean-subtracted template centred
// at (j, i) in `base`: per channel, a strip of the opposite row is run
// through Filter2D with the template, the centre stripe of responses is
// divided by the opposite image's own local magnitude, the channels are
// merged to luma, and ArgMax picks the winning column. It returns j
// (meaning: report a zero disparity, i.e. leave the result at its
// zero-initialized occluded value) if the search range collapses to
// nothing, or if every candidate scores NaN because the opposite image has
// zero local variance across the whole range.
//
// The candidate strip is never mean-subtracted, only the template is.
// The asymmetry is deliberate: once the template carries the mean
// subtraction, every candidate position in one search is scored with the
// same constant shift, so the argmax is unchanged.
func (s *Solver) bestMatch(base, opposite, oppositeMag channels, i, j, minCol, maxCol int) int {
	r := (s.WindowSize - 1) / 2
	if minCol < r {
		minCol = r
	}
	if maxCol > opposite.r.Cols-1-r {
		maxCol = opposite.r.Cols - 1 - r
	}
	if minCol > maxCol {
		return j
	}

	detR := s.detections(s.template(base.r, j, i), opposite.r, oppositeMag.r, i, minCol, maxCol)
	detG := s.detections(s.template(base.g, j, i), opposite.g, oppositeMag.g, i, minCol, maxCol)
	detB := s.detections(s.template(base.b, j, i), opposite.b, oppositeMag.b, i, minCol, maxCol)

	score := kernel.RGBToGray(kernel.MergeRGB(detR, detG, detB), 1, maxCol-minCol+1)
	best := kernel.ArgMax(score)
	if math.IsNaN(score.Data[best]) {
		return j
	}
	return minCol + best
}

// template extracts g's WindowSize x WindowSize neighbourhood centred at
// (col, row), with its own mean subtracted.
func (s *Solver) template(g *kernel.Grid, col, row int) *kernel.Grid {
	r := (s.WindowSize - 1) / 2
	t := kernel.NewGrid(s.WindowSize, s.WindowSize)
	var sum float64
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			v := g.At(col+x, row+y)
			t.Set(x+r, y+r, v)
			sum += v
		}
	}
	return kernel.SubScalar(t, sum/float64(len(t.Data)))
}

// detections correlates the template against the WindowSize-tall strip of
// g centred on row i and covering centre columns minCol..maxCol, then
// normalizes each response by the local magnitude at its centre. The
// returned 1-row grid holds one score per candidate column.
func (s *Solver) detections(t, g, mag *kernel.Grid, i, minCol, maxCol int) *kernel.Grid {
	r := (s.WindowSize - 1) / 2
	n := maxCol - minCol + 1

	strip := kernel.NewGrid(s.WindowSize, n+2*r)
	for y := 0; y < s.WindowSize; y++ {
		for x := 0; x < n+2*r; x++ {
			strip.Set(x, y, g.At(minCol-r+x, i-r+y))
		}
	}
	resp := kernel.Filter2D(strip, t)

	det := kernel.NewGrid(1, n)
	magRow := kernel.NewGrid(1, n)
	for k := 0; k < n; k++ {
		det.Set(k, 0, resp.At(r+k, r))
		magRow.Set(k, 0, mag.At(minCol+k, i))
	}
	return kernel.Div(det, magRow)
}

func clampDisparity(d int) uint8 {
	if d < 0 {
		d = 0
	}
	if d > models.MaxDisparity {
		d = models.MaxDisparity
	}
	return uint8(d)
}
