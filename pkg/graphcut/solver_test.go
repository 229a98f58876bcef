package graphcut

import (
	"testing"

	"stereodisparity/internal/models"
)

func TestNewRejectsNegativeCp(t *testing.T) {
	if _, err := New(-1, 5); err == nil {
		t.Fatal("expected error for negative Cp")
	}
}

func TestNewRejectsNegativeV(t *testing.T) {
	if _, err := New(5, -1); err == nil {
		t.Fatal("expected error for negative V")
	}
}

func TestNewAcceptsZero(t *testing.T) {
	if _, err := New(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func stripedPair(rows, cols, shift int) *models.StereoPair {
	left := models.NewRGBImage(rows, cols)
	right := models.NewRGBImage(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := float64((x/3)%2) * 200
			left.Set(x, y, v, v, v)
		}
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			srcX := x + shift
			var v float64
			if srcX < cols {
				v = float64((srcX/3)%2) * 200
			}
			right.Set(x, y, v, v, v)
		}
	}

	trueLeft := models.NewDisparityMap(rows, cols)
	trueRight := models.NewDisparityMap(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if x-shift >= 0 {
				trueLeft.Set(x, y, uint8(shift))
			}
			if x+shift < cols {
				trueRight.Set(x, y, uint8(shift))
			}
		}
	}

	pair, err := models.NewStereoPair(left, right, trueLeft, trueRight, 0, "test")
	if err != nil {
		panic(err)
	}
	return pair
}

func TestComputeRunsToCompletion(t *testing.T) {
	s, err := New(20, 10)
	if err != nil {
		t.Fatal(err)
	}
	pair := stripedPair(10, 15, 2)
	if err := s.Compute(pair); err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if pair.DisparityLeft == nil || pair.DisparityRight == nil {
		t.Fatal("Compute did not populate disparity maps")
	}
}

// texturedPair builds a pair whose right view is the left view shifted by
// a constant, with an aperiodic high-contrast texture so a mismatched
// correspondence always carries a large data cost.
func texturedPair(rows, cols, shift int) *models.StereoPair {
	value := func(x, y int) float64 { return float64((x*5+y*3)%7) * 40 }

	left := models.NewRGBImage(rows, cols)
	right := models.NewRGBImage(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := value(x, y)
			left.Set(x, y, v, v, v)
			if x+shift < cols {
				w := value(x+shift, y)
				right.Set(x, y, w, w, w)
			}
		}
	}

	trueLeft := models.NewDisparityMap(rows, cols)
	trueRight := models.NewDisparityMap(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if x-shift >= 0 {
				trueLeft.Set(x, y, uint8(shift))
			}
			if x+shift < cols {
				trueRight.Set(x, y, uint8(shift))
			}
		}
	}

	pair, err := models.NewStereoPair(left, right, trueLeft, trueRight, 0, "textured")
	if err != nil {
		panic(err)
	}
	return pair
}

func TestComputeRecoversConstantShift(t *testing.T) {
	// A correct correspondence has zero data cost and covers two occluded
	// pixels; with the mismatch cost far above 2*Cp, expansion moves
	// activate the true matches and nothing else.
	s, err := New(500, 10)
	if err != nil {
		t.Fatal(err)
	}
	pair := texturedPair(12, 24, 2)
	if err := s.Compute(pair); err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	correct, total := 0, 0
	for y := 0; y < pair.Rows; y++ {
		for x := 2; x < pair.Cols; x++ {
			total++
			if pair.DisparityLeft.At(x, y) == 2 {
				correct++
			}
		}
	}
	if frac := float64(correct) / float64(total); frac < 0.8 {
		t.Errorf("recovered shift at %.2f of coverable pixels, want >= 0.8", frac)
	}
}

func TestComputeRecoversPiecewiseConstantScene(t *testing.T) {
	// Two fronto-parallel regions: disparity 4 on the left half of the
	// image, 2 on the right half. The right view is built by forward
	// warping, leaving a genuinely occluded gap where the disparity drops.
	rows, cols := 32, 32
	value := func(x, y int) float64 { return float64((x*5+y*3)%7) * 40 }
	dOf := func(x int) int {
		if x < 16 {
			return 4
		}
		return 2
	}

	left := models.NewRGBImage(rows, cols)
	right := models.NewRGBImage(rows, cols)
	trueLeft := models.NewDisparityMap(rows, cols)
	trueRight := models.NewDisparityMap(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := value(x, y)
			left.Set(x, y, v, v, v)
			d := dOf(x)
			if x-d >= 0 {
				right.Set(x-d, y, v, v, v)
				trueLeft.Set(x, y, uint8(d))
				trueRight.Set(x-d, y, uint8(d))
			}
		}
	}

	pair, err := models.NewStereoPair(left, right, trueLeft, trueRight, 0, "piecewise")
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(50, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Compute(pair); err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	correct, total := 0, 0
	for y := 0; y < rows; y++ {
		for x := 4; x < cols; x++ {
			if x == 14 || x == 15 {
				continue // columns adjacent to the occluded gap
			}
			total++
			if int(pair.DisparityLeft.At(x, y)) == dOf(x) {
				correct++
			}
		}
	}
	if frac := float64(correct) / float64(total); frac < 0.8 {
		t.Errorf("recovered piecewise disparity at %.2f of interior pixels, want >= 0.8", frac)
	}
}

func TestComputeOnFlatSceneTerminates(t *testing.T) {
	// A uniform scene gives every candidate correspondence the same
	// (zero) data cost, so many labellings tie in energy; Compute must
	// still terminate without error.
	s, err := New(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := 8, 8
	left := models.NewRGBImage(rows, cols)
	right := models.NewRGBImage(rows, cols)
	for i := range left.Data {
		left.Data[i] = 128
		right.Data[i] = 128
	}
	trueLeft := models.NewDisparityMap(rows, cols)
	trueRight := models.NewDisparityMap(rows, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			trueLeft.Set(x, y, 1)
			trueRight.Set(x, y, 1)
		}
	}
	pair, err := models.NewStereoPair(left, right, trueLeft, trueRight, 0, "flat")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Compute(pair); err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
}
