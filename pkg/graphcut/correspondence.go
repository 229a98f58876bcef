package graphcut

import "stereodisparity/internal/models"

// correspondence claims that left pixel (X, Y) matches right pixel
// (X+D, Y). D is stored as the negative of the on-disk disparity
// magnitude: a stored DisparityMap value m corresponds to D = -m, so that
// a correspondence whose D equals -alpha is the one an alpha expansion is
// trying to activate.
type correspondence struct {
	X, Y, D int
}

// hash returns a value unique to (X, Y, D) across the bounded ranges a
// single Compute call ever constructs (X in [0,cols), Y in [0,rows), D in
// [-maxDisparity,-minDisparity]), used both as the min-cut graph's
// node-lookup key and as the arbitrary-but-consistent total order
// addNeighborEdges needs to add each smoothness edge only once.
func (c correspondence) hash(rows, minDisparity, maxDisparity int) int64 {
	width := int64(maxDisparity - minDisparity + 1)
	h := int64(c.X)
	h *= int64(rows)
	h += int64(c.Y)
	h *= width
	h += int64(c.D + maxDisparity)
	return h
}

func (c correspondence) withinBounds(rows, cols int) bool {
	return c.X >= 0 && c.X+c.D >= 0 && c.Y >= 0 &&
		c.X < cols && c.X+c.D < cols && c.Y < rows
}

// isActive reports whether the left disparity map currently records this
// exact correspondence as the active match for pixel (X, Y).
func (c correspondence) isActive(pair *models.StereoPair) bool {
	m := -c.D
	if m < 0 || m > models.MaxDisparity {
		return false
	}
	return int(pair.DisparityLeft.At(c.X, c.Y)) == m
}

// isValid reports whether c sits inside the image and is either the
// correspondence currently active for its pixel or the one this alpha
// expansion is trying to activate.
func (c correspondence) isValid(pair *models.StereoPair, alpha, rows, cols int) bool {
	return c.withinBounds(rows, cols) && (c.isActive(pair) || c.D == alpha)
}

// fourNeighborOffsets are the 4-connected pixel offsets the smoothness
// edges and the smoothness cost are built over.
var fourNeighborOffsets = [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}}
