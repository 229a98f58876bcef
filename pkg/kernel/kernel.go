// Package kernel implements the small set of 2D array primitives the
// disparity solvers are built on: correlation, box filtering, channel
// split/merge, colour conversion, and the statistics needed for
// normalization.
//
// Grid is the common currency: a flat, row-major []float64 of length
// rows*cols.
package kernel

import "math"

// Grid is a row-major 2D array of float64.
type Grid struct {
	Data       []float64
	Rows, Cols int
}

// NewGrid allocates a zeroed grid.
func NewGrid(rows, cols int) *Grid {
	return &Grid{Data: make([]float64, rows*cols), Rows: rows, Cols: cols}
}

// At returns the value at (x, y); out-of-bounds coordinates are clamped to
// the nearest edge (replicated borders) without a special case at every
// call site. Filter2D and BoxFilter use AtZero instead.
func (g *Grid) At(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= g.Cols {
		x = g.Cols - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Rows {
		y = g.Rows - 1
	}
	return g.Data[y*g.Cols+x]
}

// AtZero is like At but extends borders with a constant zero rather than
// clamping. BoxFilter and Filter2D use this extension.
func (g *Grid) AtZero(x, y int) float64 {
	if x < 0 || x >= g.Cols || y < 0 || y >= g.Rows {
		return 0
	}
	return g.Data[y*g.Cols+x]
}

// Set stores the value at (x, y).
func (g *Grid) Set(x, y int, v float64) { g.Data[y*g.Cols+x] = v }

// Sub returns a - b, element-wise. a and b must share dimensions.
func Sub(a, b *Grid) *Grid {
	out := NewGrid(a.Rows, a.Cols)
	for i := range a.Data {
		out.Data[i] = a.Data[i] - b.Data[i]
	}
	return out
}

// Div returns a / b, element-wise. Division by zero yields +Inf/-Inf/NaN
// per IEEE 754 float64 semantics; the non-finite result is emitted
// verbatim, never an error.
func Div(a, b *Grid) *Grid {
	out := NewGrid(a.Rows, a.Cols)
	for i := range a.Data {
		out.Data[i] = a.Data[i] / b.Data[i]
	}
	return out
}

// Square returns a element-wise squared.
func Square(a *Grid) *Grid {
	out := NewGrid(a.Rows, a.Cols)
	for i, v := range a.Data {
		out.Data[i] = v * v
	}
	return out
}

// Sqrt returns the element-wise square root. Negative inputs (possible from
// floating-point cancellation in variance computations) yield NaN, again
// emitted verbatim rather than clamped.
func Sqrt(a *Grid) *Grid {
	out := NewGrid(a.Rows, a.Cols)
	for i, v := range a.Data {
		out.Data[i] = math.Sqrt(v)
	}
	return out
}

// SubScalar returns a - s, element-wise.
func SubScalar(a *Grid, s float64) *Grid {
	out := NewGrid(a.Rows, a.Cols)
	for i, v := range a.Data {
		out.Data[i] = v - s
	}
	return out
}

// Filter2D correlates src against the (small, odd-sized) kernel k, with
// zero-extended borders. Correlation, not convolution: the kernel is not
// flipped.
func Filter2D(src, k *Grid) *Grid {
	out := NewGrid(src.Rows, src.Cols)
	kr, kc := k.Rows/2, k.Cols/2
	for y := 0; y < src.Rows; y++ {
		for x := 0; x < src.Cols; x++ {
			var sum float64
			for ky := 0; ky < k.Rows; ky++ {
				for kx := 0; kx < k.Cols; kx++ {
					sum += src.AtZero(x+kx-kc, y+ky-kr) * k.At(kx, ky)
				}
			}
			out.Set(x, y, sum)
		}
	}
	return out
}

// BoxFilter returns the normalized (mean) box filter of src over a w x w
// neighbourhood, zero-extended at the borders.
func BoxFilter(src *Grid, w int) *Grid {
	out := NewGrid(src.Rows, src.Cols)
	r := w / 2
	norm := 1.0 / float64(w*w)
	for y := 0; y < src.Rows; y++ {
		for x := 0; x < src.Cols; x++ {
			var sum float64
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					sum += src.AtZero(x+dx, y+dy)
				}
			}
			out.Set(x, y, sum*norm)
		}
	}
	return out
}

// SplitRGB decomposes a 3-channel row-major []float64 (interleaved R,G,B)
// into three single-channel grids.
func SplitRGB(data []float64, rows, cols int) (r, g, b *Grid) {
	r, g, b = NewGrid(rows, cols), NewGrid(rows, cols), NewGrid(rows, cols)
	for i := 0; i < rows*cols; i++ {
		r.Data[i] = data[i*3]
		g.Data[i] = data[i*3+1]
		b.Data[i] = data[i*3+2]
	}
	return
}

// MergeRGB interleaves three single-channel grids back into one
// row-major []float64 buffer of R,G,B triples.
func MergeRGB(r, g, b *Grid) []float64 {
	out := make([]float64, r.Rows*r.Cols*3)
	for i := 0; i < r.Rows*r.Cols; i++ {
		out[i*3] = r.Data[i]
		out[i*3+1] = g.Data[i]
		out[i*3+2] = b.Data[i]
	}
	return out
}

// RGBToGray converts interleaved R,G,B triples to grayscale using the
// standard luma weights 0.299*R + 0.587*G + 0.114*B.
func RGBToGray(data []float64, rows, cols int) *Grid {
	out := NewGrid(rows, cols)
	for i := 0; i < rows*cols; i++ {
		r, g, b := data[i*3], data[i*3+1], data[i*3+2]
		out.Data[i] = 0.299*r + 0.587*g + 0.114*b
	}
	return out
}

// ArgMax returns the column index of the maximum value in a 1-row grid.
// Ties resolve to the first (lowest-index) maximum. NaN entries never win;
// if every entry is NaN, the index of the first entry is returned.
func ArgMax(row *Grid) int {
	best := 0
	bestVal := math.Inf(-1)
	for i, v := range row.Data {
		if v > bestVal {
			bestVal = v
			best = i
		}
	}
	return best
}
