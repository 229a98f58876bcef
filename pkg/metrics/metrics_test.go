package metrics

import (
	"math"
	"testing"

	"stereodisparity/internal/models"
)

func mapFrom(rows, cols int, vals []uint8) *models.DisparityMap {
	m := models.NewDisparityMap(rows, cols)
	copy(m.Data, vals)
	return m
}

func TestRMSEUnoccludedPerfectMatch(t *testing.T) {
	gold := mapFrom(1, 4, []uint8{1, 2, 3, 4})
	guess := mapFrom(1, 4, []uint8{1, 2, 3, 4})
	if got := RMSEUnoccluded(gold, guess); got != 0 {
		t.Errorf("RMSEUnoccluded = %v, want 0", got)
	}
}

func TestRMSEUnoccludedIgnoresOccludedPixels(t *testing.T) {
	gold := mapFrom(1, 4, []uint8{0, 2, 3, 4})
	guess := mapFrom(1, 4, []uint8{9, 2, 3, 4})
	if got := RMSEUnoccluded(gold, guess); got != 0 {
		t.Errorf("RMSEUnoccluded = %v, want 0 (pixel 0 excluded by gold occlusion)", got)
	}
}

func TestBadMatchUnoccludedCountsOverThreshold(t *testing.T) {
	gold := mapFrom(1, 4, []uint8{10, 10, 10, 10})
	guess := mapFrom(1, 4, []uint8{10, 11, 20, 10})
	got := BadMatchUnoccluded(gold, guess, 5)
	if got != 0.25 {
		t.Errorf("BadMatchUnoccluded = %v, want 0.25", got)
	}
}

func TestBiasUnoccludedSignedMean(t *testing.T) {
	gold := mapFrom(1, 2, []uint8{10, 10})
	guess := mapFrom(1, 2, []uint8{12, 8})
	if got := BiasUnoccluded(gold, guess); got != 0 {
		t.Errorf("BiasUnoccluded = %v, want 0", got)
	}
}

func TestRSquaredUnoccludedPerfectFit(t *testing.T) {
	gold := mapFrom(1, 4, []uint8{1, 2, 3, 4})
	guess := mapFrom(1, 4, []uint8{1, 2, 3, 4})
	if got := RSquaredUnoccluded(gold, guess); math.Abs(got-1) > 1e-9 {
		t.Errorf("RSquaredUnoccluded = %v, want 1", got)
	}
}

// The scenario below is small enough to check by hand: of the five
// pixels, 1..3 are unoccluded in both maps (diffs +2, -2, 0), pixel 0 is
// occluded only in gold, pixel 4 in both.
func handScenario() (gold, guess *models.DisparityMap) {
	gold = mapFrom(1, 5, []uint8{0, 10, 20, 30, 0})
	guess = mapFrom(1, 5, []uint8{5, 12, 18, 30, 0})
	return
}

func TestRMSEUnoccludedHandComputed(t *testing.T) {
	gold, guess := handScenario()
	want := math.Sqrt(8.0 / 3.0)
	if got := RMSEUnoccluded(gold, guess); math.Abs(got-want) > 1e-12 {
		t.Errorf("RMSEUnoccluded = %v, want %v", got, want)
	}
}

func TestBiasUnoccludedHandComputed(t *testing.T) {
	gold, guess := handScenario()
	if got := BiasUnoccluded(gold, guess); got != 0 {
		t.Errorf("BiasUnoccluded = %v, want 0 (+2 and -2 cancel)", got)
	}
}

func TestCorrelationUnoccludedHandComputed(t *testing.T) {
	gold, guess := handScenario()
	// gold values {10,20,30}: mean 20, population variance 200/3.
	// guess values {12,18,30}: mean 20, population variance 56.
	// sum of products 1380, so the numerator is 1380 - 3*20*20 = 180.
	want := 180.0 / (2.0 * math.Sqrt(56.0*200.0/3.0))
	if got := CorrelationUnoccluded(gold, guess); math.Abs(got-want) > 1e-12 {
		t.Errorf("CorrelationUnoccluded = %v, want %v", got, want)
	}
}

func TestRSquaredUnoccludedHandComputed(t *testing.T) {
	gold, guess := handScenario()
	// ssRes = 4+4+0 = 8, ssTot = 100+0+100 = 200.
	want := 1.0 - 8.0/200.0
	if got := RSquaredUnoccluded(gold, guess); math.Abs(got-want) > 1e-12 {
		t.Errorf("RSquaredUnoccluded = %v, want %v", got, want)
	}
}

func TestOcclusionConfusionMatrixHandComputed(t *testing.T) {
	gold, guess := handScenario()
	tn, fp, fn, tp := OcclusionConfusionMatrix(gold, guess)
	if tn != 3 || fp != 0 || fn != 1 || tp != 1 {
		t.Errorf("confusion matrix = (%d,%d,%d,%d), want (3,0,1,1)", tn, fp, fn, tp)
	}
}

func TestRMSEAllHandComputed(t *testing.T) {
	gold, guess := handScenario()
	want := math.Sqrt(33.0 / 5.0)
	if got := RMSEAll(gold, guess); math.Abs(got-want) > 1e-12 {
		t.Errorf("RMSEAll = %v, want %v", got, want)
	}
}

func TestCorrelationUnoccludedNeedsTwoPixels(t *testing.T) {
	gold := mapFrom(1, 2, []uint8{0, 10})
	guess := mapFrom(1, 2, []uint8{0, 10})
	if got := CorrelationUnoccluded(gold, guess); !math.IsNaN(got) {
		t.Errorf("CorrelationUnoccluded = %v, want NaN with a single unoccluded pixel", got)
	}
}

func TestOcclusionConfusionMatrix(t *testing.T) {
	gold := mapFrom(1, 4, []uint8{0, 5, 0, 5})
	guess := mapFrom(1, 4, []uint8{0, 5, 5, 0})
	tn, fp, fn, tp := OcclusionConfusionMatrix(gold, guess)
	if tn != 1 || fp != 1 || fn != 1 || tp != 1 {
		t.Errorf("confusion matrix = (%d,%d,%d,%d), want (1,1,1,1)", tn, fp, fn, tp)
	}
}

func TestRMSEAllCountsEveryPixel(t *testing.T) {
	gold := mapFrom(1, 2, []uint8{0, 10})
	guess := mapFrom(1, 2, []uint8{0, 10})
	if got := RMSEAll(gold, guess); got != 0 {
		t.Errorf("RMSEAll = %v, want 0", got)
	}
}

func TestBadMatchAllFixedThreshold(t *testing.T) {
	gold := mapFrom(1, 2, []uint8{10, 10})
	guess := mapFrom(1, 2, []uint8{10, 20})
	if got := BadMatchAll(gold, guess); got != 0.5 {
		t.Errorf("BadMatchAll = %v, want 0.5", got)
	}
}
