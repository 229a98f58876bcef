package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MeanMasked returns the unweighted mean of g restricted to the pixels
// where mask is non-zero, using N normalization (not N-1), matching
// cv::meanStdDev. stat.Mean with nil weights is exactly sum/len, so the
// masking is done by gathering the selected values first.
func MeanMasked(g, mask *Grid) float64 {
	vals := maskedValues(g, mask)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// StdDevMasked returns the population standard deviation (N normalization)
// of g restricted to the pixels where mask is non-zero.
func StdDevMasked(g, mask *Grid) float64 {
	vals := maskedValues(g, mask)
	if len(vals) == 0 {
		return math.NaN()
	}
	mean := stat.Mean(vals, nil)
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}

func maskedValues(g, mask *Grid) []float64 {
	vals := make([]float64, 0, len(g.Data))
	for i, m := range mask.Data {
		if m != 0 {
			vals = append(vals, g.Data[i])
		}
	}
	return vals
}

// L2Norm returns the Euclidean (L2) norm of a grid's values, via
// gonum/floats.Norm.
func L2Norm(g *Grid) float64 {
	return floats.Norm(g.Data, 2)
}
