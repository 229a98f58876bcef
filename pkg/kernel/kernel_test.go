package kernel

import (
	"math"
	"testing"
)

func gridFromRows(rows [][]float64) *Grid {
	r, c := len(rows), len(rows[0])
	g := NewGrid(r, c)
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			g.Set(x, y, rows[y][x])
		}
	}
	return g
}

func TestBoxFilterUniform(t *testing.T) {
	// A uniform interior region should have a box-filter mean equal to its
	// own value, away from the zero-extended border.
	g := NewGrid(9, 9)
	for i := range g.Data {
		g.Data[i] = 5
	}
	out := BoxFilter(g, 3)
	if got := out.At(4, 4); got != 5 {
		t.Errorf("interior box filter = %v, want 5", got)
	}
	// Corner pixel sees zero padding, so its mean must be below 5.
	if got := out.At(0, 0); got >= 5 {
		t.Errorf("corner box filter = %v, want < 5 (zero border)", got)
	}
}

func TestFilter2DIdentityLikeKernel(t *testing.T) {
	src := gridFromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	k := gridFromRows([][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	out := Filter2D(src, k)
	for i := range src.Data {
		if out.Data[i] != src.Data[i] {
			t.Fatalf("filter2D with identity kernel should be a no-op: got %v want %v", out.Data[i], src.Data[i])
		}
	}
}

func TestFilter2DCorrelatesNotConvolves(t *testing.T) {
	// An asymmetric kernel distinguishes correlation from convolution:
	// correlation does not flip the kernel.
	src := gridFromRows([][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 0, 0},
	})
	k := gridFromRows([][]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 0, 0},
	})
	out := Filter2D(src, k)
	// The kernel's weight sits at offset (-1, 0) from its center, so
	// correlation (no flip) gives out(x,y) = src(x-1,y). The source impulse
	// at (0,1) therefore shows up at (1,1) in the output.
	if got := out.At(1, 1); got != 1 {
		t.Errorf("correlation response at (1,1) = %v, want 1", got)
	}
}

func TestRGBToGrayWeights(t *testing.T) {
	data := []float64{10, 20, 30} // R, G, B
	g := RGBToGray(data, 1, 1)
	want := 0.299*10 + 0.587*20 + 0.114*30
	if math.Abs(g.Data[0]-want) > 1e-9 {
		t.Errorf("RGBToGray = %v, want %v", g.Data[0], want)
	}
}

func TestArgMaxFirstMaxWins(t *testing.T) {
	row := NewGrid(1, 5)
	row.Data = []float64{1, 3, 3, 2, 0}
	if got := ArgMax(row); got != 1 {
		t.Errorf("ArgMax = %v, want 1 (first max)", got)
	}
}

func TestArgMaxSkipsNaN(t *testing.T) {
	row := NewGrid(1, 4)
	row.Data = []float64{math.NaN(), 1, 2, math.NaN()}
	if got := ArgMax(row); got != 2 {
		t.Errorf("ArgMax = %v, want 2 (NaN entries never win)", got)
	}
	allNaN := NewGrid(1, 3)
	allNaN.Data = []float64{math.NaN(), math.NaN(), math.NaN()}
	if got := ArgMax(allNaN); got != 0 {
		t.Errorf("ArgMax over all-NaN row = %v, want 0", got)
	}
}

func TestMeanStdDevMasked(t *testing.T) {
	g := gridFromRows([][]float64{
		{1, 2},
		{3, 4},
	})
	mask := gridFromRows([][]float64{
		{1, 0},
		{1, 1},
	})
	mean := MeanMasked(g, mask)
	wantMean := (1.0 + 3.0 + 4.0) / 3.0
	if math.Abs(mean-wantMean) > 1e-9 {
		t.Errorf("MeanMasked = %v, want %v", mean, wantMean)
	}
	std := StdDevMasked(g, mask)
	var ss float64
	for _, v := range []float64{1, 3, 4} {
		ss += (v - wantMean) * (v - wantMean)
	}
	wantStd := math.Sqrt(ss / 3)
	if math.Abs(std-wantStd) > 1e-9 {
		t.Errorf("StdDevMasked = %v, want %v", std, wantStd)
	}
}

func TestL2Norm(t *testing.T) {
	g := gridFromRows([][]float64{{3, 4}})
	if got := L2Norm(g); math.Abs(got-5) > 1e-9 {
		t.Errorf("L2Norm = %v, want 5", got)
	}
}

func TestDivByZeroIsNonFiniteNotError(t *testing.T) {
	a := gridFromRows([][]float64{{1}})
	b := gridFromRows([][]float64{{0}})
	out := Div(a, b)
	if !math.IsInf(out.Data[0], 1) {
		t.Errorf("Div by zero = %v, want +Inf", out.Data[0])
	}
}
