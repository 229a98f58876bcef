// Package models holds the core data types shared by every solver and by
// the error-metrics package: pixels, disparities, correspondences, and the
// StereoPair that owns a rectified image pair together with its ground
// truth and solver outputs.
package models

import (
	"fmt"
	"log/slog"
	"math"
)

// MaxDisparity is the largest disparity value the 8-bit storage convention
// can represent. 0 is reserved for occluded/unknown.
const MaxDisparity = 255

// CrossCheckTolerance is the maximum allowed disagreement, in disparity
// units, between a ground-truth pixel and the counterpart it points to in
// the opposite view before the pixel is rewritten to occluded.
const CrossCheckTolerance = 2

// ErrShapeMismatch is returned by NewStereoPair when the left image, right
// image, and ground-truth maps do not all share the same dimensions.
type ErrShapeMismatch struct {
	Rows, Cols             int
	GotRows, GotCols       int
	Field                  string
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("models: %s has shape %dx%d, want %dx%d", e.Field, e.GotRows, e.GotCols, e.Rows, e.Cols)
}

// Pixel is an integer image coordinate, 0 <= X < cols, 0 <= Y < rows.
type Pixel struct {
	X, Y int
}

// Correspondence asserts that left-image pixel (X, Y) matches right-image
// pixel (X+D, Y). D is signed: a left-view disparity magnitude m points at
// right pixel X-m, so it corresponds to D = -m. pkg/graphcut uses its own
// unexported correspondence type with the same convention.
type Correspondence struct {
	X, Y, D int
}

// RightPixel returns the right-view pixel this correspondence claims.
func (c Correspondence) RightPixel() Pixel { return Pixel{X: c.X + c.D, Y: c.Y} }

// LeftPixel returns the left-view pixel this correspondence claims.
func (c Correspondence) LeftPixel() Pixel { return Pixel{X: c.X, Y: c.Y} }

// RGBImage is a row-major, 3-channel float image: Data[y*cols*3 + x*3 + c]
// for channel c in {0=R, 1=G, 2=B}.
type RGBImage struct {
	Data       []float64
	Rows, Cols int
}

// NewRGBImage allocates a zeroed image of the given size.
func NewRGBImage(rows, cols int) *RGBImage {
	return &RGBImage{Data: make([]float64, rows*cols*3), Rows: rows, Cols: cols}
}

// At returns the R, G, B values at (x, y).
func (im *RGBImage) At(x, y int) (r, g, b float64) {
	i := (y*im.Cols + x) * 3
	return im.Data[i], im.Data[i+1], im.Data[i+2]
}

// Set stores the R, G, B values at (x, y).
func (im *RGBImage) Set(x, y int, r, g, b float64) {
	i := (y*im.Cols + x) * 3
	im.Data[i], im.Data[i+1], im.Data[i+2] = r, g, b
}

// DisparityMap is a row-major unsigned 8-bit disparity map. 0 means
// occluded/unknown, uniformly for ground truth and solver output.
type DisparityMap struct {
	Data       []uint8
	Rows, Cols int
}

// NewDisparityMap allocates an all-zero (fully occluded) map.
func NewDisparityMap(rows, cols int) *DisparityMap {
	return &DisparityMap{Data: make([]uint8, rows*cols), Rows: rows, Cols: cols}
}

// At returns the disparity at (x, y).
func (d *DisparityMap) At(x, y int) uint8 { return d.Data[y*d.Cols+x] }

// Set stores the disparity at (x, y).
func (d *DisparityMap) Set(x, y int, v uint8) { d.Data[y*d.Cols+x] = v }

// NonZeroBounds returns the min and max of the nonzero entries of the map.
// If there are no nonzero entries it returns (0, 0).
func (d *DisparityMap) NonZeroBounds() (min, max int) {
	min, max = math.MaxInt, 0
	found := false
	for _, v := range d.Data {
		if v == 0 {
			continue
		}
		found = true
		if int(v) < min {
			min = int(v)
		}
		if int(v) > max {
			max = int(v)
		}
	}
	if !found {
		return 0, 0
	}
	return min, max
}

// StereoPair owns a rectified left/right image pair, their preprocessed
// ground-truth disparity maps, and the disparity maps a solver writes.
//
// A StereoPair is constructed once by NewStereoPair, optionally rescaled by
// Resize and optionally denoised by pkg/shearlet's DenoisePair (the only
// mutators other than a solver's Compute), then handed by exclusive
// mutable reference to exactly one solver at a time.
type StereoPair struct {
	Left, Right                     *RGBImage
	TrueDisparityLeft               *DisparityMap
	TrueDisparityRight              *DisparityMap
	DisparityLeft, DisparityRight   *DisparityMap

	Rows, Cols int
	BaseOffset int
	Name       string

	MinDisparityLeft, MaxDisparityLeft   int
	MinDisparityRight, MaxDisparityRight int
}

// NewStereoPair builds a StereoPair from a left/right image pair and their
// ground-truth disparity maps, cross-checking the ground truth and
// computing the search bounds used by both solvers.
//
// left, right, trueLeft, trueRight must all share the same rows/cols or
// NewStereoPair returns an *ErrShapeMismatch.
func NewStereoPair(left, right *RGBImage, trueLeft, trueRight *DisparityMap, baseOffset int, name string) (*StereoPair, error) {
	rows, cols := left.Rows, left.Cols
	for field, got := range map[string][2]int{
		"right":     {right.Rows, right.Cols},
		"trueLeft":  {trueLeft.Rows, trueLeft.Cols},
		"trueRight": {trueRight.Rows, trueRight.Cols},
	} {
		if got[0] != rows || got[1] != cols {
			return nil, &ErrShapeMismatch{Rows: rows, Cols: cols, GotRows: got[0], GotCols: got[1], Field: field}
		}
	}

	p := &StereoPair{
		Left:                left,
		Right:               right,
		TrueDisparityLeft:   trueLeft,
		TrueDisparityRight:  trueRight,
		DisparityLeft:       NewDisparityMap(rows, cols),
		DisparityRight:      NewDisparityMap(rows, cols),
		Rows:                rows,
		Cols:                cols,
		BaseOffset:          baseOffset,
		Name:                name,
	}
	p.crossCheck()
	p.MinDisparityLeft, p.MaxDisparityLeft = p.TrueDisparityLeft.NonZeroBounds()
	p.MinDisparityRight, p.MaxDisparityRight = p.TrueDisparityRight.NonZeroBounds()

	slog.Default().Debug("stereo pair constructed", "name", name, "rows", rows, "cols", cols,
		"minDisparityLeft", p.MinDisparityLeft, "maxDisparityLeft", p.MaxDisparityLeft)

	return p, nil
}

// crossCheck rewrites ground-truth disparities whose counterpart in the
// opposite view disagrees by more than CrossCheckTolerance or is out of
// frame to 0 (occluded). It is a single sweep over the pixels that checks
// the left-view entry and then the right-view entry at each position,
// mutating both maps in place as it goes, so a later check can read a
// counterpart already rewritten earlier in the same sweep.
func (p *StereoPair) crossCheck() {
	left, right := p.TrueDisparityLeft, p.TrueDisparityRight
	for y := 0; y < p.Rows; y++ {
		for x := 0; x < p.Cols; x++ {
			// A left-view disparity d points at the right-view pixel x-d.
			if d := int(left.At(x, y)); d != 0 {
				xRight := x - d
				if xRight < 0 || xRight >= p.Cols ||
					abs(int(right.At(xRight, y))-d) > CrossCheckTolerance {
					left.Set(x, y, 0)
				}
			}
			// A right-view disparity d points at the left-view pixel x+d.
			if d := int(right.At(x, y)); d != 0 {
				xLeft := x + d
				if xLeft < 0 || xLeft >= p.Cols ||
					abs(int(left.At(xLeft, y))-d) > CrossCheckTolerance {
					right.Set(x, y, 0)
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
