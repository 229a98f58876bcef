// Package metrics implements occlusion-aware disparity accuracy
// measures: RMSE, bad-match rate, correlation, bias, and R^2 restricted
// to pixels unoccluded in both the ground truth and a solver's output,
// plus their "all pixels" counterparts and an occlusion confusion
// matrix.
package metrics

import (
	"math"

	"stereodisparity/internal/models"
	"stereodisparity/pkg/kernel"
)

// BadMatchThresholdAll is the fixed disparity-error threshold BadMatchAll
// uses; BadMatchUnoccluded takes its threshold as a parameter instead.
const BadMatchThresholdAll = 5

func toGrid(d *models.DisparityMap) *kernel.Grid {
	g := kernel.NewGrid(d.Rows, d.Cols)
	for i, v := range d.Data {
		g.Data[i] = float64(v)
	}
	return g
}

// UnoccludedMask is 1 at pixels nonzero in both gold and guess, 0
// elsewhere.
func UnoccludedMask(gold, guess *models.DisparityMap) *kernel.Grid {
	mask := kernel.NewGrid(gold.Rows, gold.Cols)
	for i := range gold.Data {
		if gold.Data[i] != 0 && guess.Data[i] != 0 {
			mask.Data[i] = 1
		}
	}
	return mask
}

// unoccludedDiff returns guess-gold restricted to the unoccluded mask
// (zeroed elsewhere), the mask itself, and the unoccluded pixel count.
func unoccludedDiff(gold, guess *models.DisparityMap) (diff, mask *kernel.Grid, n int) {
	mask = UnoccludedMask(gold, guess)
	diff = kernel.NewGrid(gold.Rows, gold.Cols)
	for i := range gold.Data {
		if mask.Data[i] == 0 {
			continue
		}
		diff.Data[i] = float64(guess.Data[i]) - float64(gold.Data[i])
		n++
	}
	return
}

// RMSEUnoccluded is the root-mean-square disparity error, in pixels, over
// pixels unoccluded in both gold and guess.
func RMSEUnoccluded(gold, guess *models.DisparityMap) float64 {
	diff, _, n := unoccludedDiff(gold, guess)
	if n == 0 {
		return math.NaN()
	}
	return kernel.L2Norm(diff) / math.Sqrt(float64(n))
}

// BadMatchUnoccluded is the fraction of unoccluded pixels whose absolute
// disparity error exceeds thresh.
func BadMatchUnoccluded(gold, guess *models.DisparityMap, thresh int) float64 {
	diff, _, n := unoccludedDiff(gold, guess)
	if n == 0 {
		return math.NaN()
	}
	bad := 0
	for _, v := range diff.Data {
		if math.Abs(v) > float64(thresh) {
			bad++
		}
	}
	return float64(bad) / float64(n)
}

// BiasUnoccluded is the mean signed disparity error over unoccluded
// pixels.
func BiasUnoccluded(gold, guess *models.DisparityMap) float64 {
	diff, _, n := unoccludedDiff(gold, guess)
	if n == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range diff.Data {
		sum += v
	}
	return sum / float64(n)
}

// CorrelationUnoccluded is the correlation between gold and guess
// disparities over unoccluded pixels. The denominator uses n-1 against
// population standard deviations, so the value is slightly larger than a
// textbook Pearson coefficient.
func CorrelationUnoccluded(gold, guess *models.DisparityMap) float64 {
	goldGrid, guessGrid := toGrid(gold), toGrid(guess)
	_, mask, n := unoccludedDiff(gold, guess)
	if n < 2 {
		return math.NaN()
	}
	goldMean := kernel.MeanMasked(goldGrid, mask)
	guessMean := kernel.MeanMasked(guessGrid, mask)
	goldStd := kernel.StdDevMasked(goldGrid, mask)
	guessStd := kernel.StdDevMasked(guessGrid, mask)

	var sumProd float64
	for i := range mask.Data {
		if mask.Data[i] == 0 {
			continue
		}
		sumProd += goldGrid.Data[i] * guessGrid.Data[i]
	}
	num := sumProd - float64(n)*guessMean*goldMean
	denom := float64(n-1) * guessStd * goldStd
	return num / denom
}

// RSquaredUnoccluded is the coefficient of determination of guess against
// gold over unoccluded pixels, using gold's own unoccluded mean as the
// baseline predictor that a "no model" guess would produce.
func RSquaredUnoccluded(gold, guess *models.DisparityMap) float64 {
	diff, mask, n := unoccludedDiff(gold, guess)
	if n == 0 {
		return math.NaN()
	}
	goldGrid := toGrid(gold)
	goldMean := kernel.MeanMasked(goldGrid, mask)

	var ssRes, ssTot float64
	for i := range mask.Data {
		if mask.Data[i] == 0 {
			continue
		}
		ssRes += diff.Data[i] * diff.Data[i]
		d := goldGrid.Data[i] - goldMean
		ssTot += d * d
	}
	return 1 - ssRes/ssTot
}

// OcclusionConfusionMatrix classifies every pixel's occlusion agreement
// between gold and guess, treating "occluded" as the positive class. It
// returns (true negative, false positive, false negative, true positive)
// counts.
func OcclusionConfusionMatrix(gold, guess *models.DisparityMap) (tn, fp, fn, tp int) {
	for i := range gold.Data {
		goldOccluded := gold.Data[i] == 0
		guessOccluded := guess.Data[i] == 0
		switch {
		case !goldOccluded && !guessOccluded:
			tn++
		case !goldOccluded && guessOccluded:
			fp++
		case goldOccluded && !guessOccluded:
			fn++
		default:
			tp++
		}
	}
	return
}

// RMSEAll is the root-mean-square disparity error over every pixel,
// including those occluded in gold or guess or both.
func RMSEAll(gold, guess *models.DisparityMap) float64 {
	n := gold.Rows * gold.Cols
	diff := kernel.NewGrid(gold.Rows, gold.Cols)
	for i := range gold.Data {
		diff.Data[i] = float64(gold.Data[i]) - float64(guess.Data[i])
	}
	return kernel.L2Norm(diff) / math.Sqrt(float64(n))
}

// BadMatchAll is the fraction of all pixels whose absolute disparity error
// exceeds BadMatchThresholdAll.
func BadMatchAll(gold, guess *models.DisparityMap) float64 {
	n := gold.Rows * gold.Cols
	bad := 0
	for i := range gold.Data {
		d := int(gold.Data[i]) - int(guess.Data[i])
		if d < 0 {
			d = -d
		}
		if d > BadMatchThresholdAll {
			bad++
		}
	}
	return float64(bad) / float64(n)
}
