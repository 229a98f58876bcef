package graphcut

import (
	"stereodisparity/internal/models"
	"stereodisparity/pkg/maxflow"
)

// run holds the mutable state for a single Compute call: the pair being
// labeled, the disparity search range, and the per-pixel occlusion counts
// that persist across alpha expansions (they're reset, not reallocated, at
// the start of each one). A fresh min-cut graph and hash-to-node-index map
// are built from scratch for every single alpha expansion, so neither
// grows with the number of moves.
type run struct {
	solver       *Solver
	pair         *models.StereoPair
	minDisparity int
	maxDisparity int
	leftOcc      []int
	rightOcc     []int

	graph     *maxflow.Graph
	nodeIndex map[int64]int
}

func (r *run) rows() int { return r.pair.Rows }
func (r *run) cols() int { return r.pair.Cols }

// forEachActive calls fn for every correspondence currently active whose
// disparity is not alpha.
func (r *run) forEachActive(alpha int, fn func(correspondence)) {
	for y := 0; y < r.rows(); y++ {
		for x := 0; x < r.cols(); x++ {
			d := -int(r.pair.DisparityLeft.At(x, y))
			if d == 0 || d == alpha {
				continue
			}
			fn(correspondence{X: x, Y: y, D: d})
		}
	}
}

// forEachAlpha calls fn for every valid correspondence with disparity
// alpha.
func (r *run) forEachAlpha(alpha int, fn func(correspondence)) {
	rows, cols := r.rows(), r.cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := correspondence{X: x, Y: y, D: alpha}
			if c.isValid(r.pair, alpha, rows, cols) {
				fn(c)
			}
		}
	}
}

// dataCost is the squared RGB Euclidean distance between the two pixels c
// claims correspond.
func (r *run) dataCost(c correspondence) int64 {
	lr, lg, lb := r.pair.Left.At(c.X, c.Y)
	rr, rg, rb := r.pair.Right.At(c.X+c.D, c.Y)
	dr, dg, db := lr-rr, lg-rg, lb-rb
	sq := dr*dr + dg*dg + db*db
	return int64(sq)
}

// occCost charges Cp once for each side (left, right) of c whose pixel is
// touched by exactly one candidate correspondence this alpha expansion is
// considering: deactivating c would leave that pixel with no correspondence
// at all, a genuine occlusion. If another candidate also touches the
// pixel, deactivating c just shifts coverage to it, so that side is free.
func (r *run) occCost(c correspondence) int64 {
	count := int64(0)
	if r.leftOcc[c.Y*r.cols()+c.X] == 1 {
		count++
	}
	if r.rightOcc[c.Y*r.cols()+(c.X+c.D)] == 1 {
		count++
	}
	return r.solver.Cp * count
}

func (r *run) recordOcclusionCount(c correspondence) {
	r.leftOcc[c.Y*r.cols()+c.X]++
	r.rightOcc[c.Y*r.cols()+(c.X+c.D)]++
}

func (r *run) recordOcclusionCounts(alpha int) {
	r.forEachActive(alpha, r.recordOcclusionCount)
	r.forEachAlpha(alpha, r.recordOcclusionCount)
}

// nodeFor returns the min-cut graph node representing c, creating it (and
// recording it in nodeIndex) on first use.
func (r *run) nodeFor(c correspondence) int {
	h := c.hash(r.rows(), r.minDisparity, r.maxDisparity)
	if id, ok := r.nodeIndex[h]; ok {
		return id
	}
	id := r.graph.AddNode()
	r.nodeIndex[h] = id
	return id
}

func (r *run) addAlphaNode(c correspondence) {
	sourceW := r.dataCost(c)
	sinkW := r.occCost(c)
	id := r.nodeFor(c)
	r.graph.AddSourceEdge(id, sourceW)
	r.graph.AddSinkEdge(id, sinkW)
}

func (r *run) addActiveNode(c correspondence, alpha int) {
	sourceW := r.occCost(c)
	sinkW := r.dataCost(c) + r.smoothCost(c, alpha)
	id := r.nodeFor(c)
	r.graph.AddSourceEdge(id, sourceW)
	r.graph.AddSinkEdge(id, sinkW)
}

// smoothCost charges V for every 4-connected neighbor of c that is
// neither active nor part of this alpha expansion: a fixed penalty for
// the disagreement c would have with a neighbor the expansion leaves
// untouched.
func (r *run) smoothCost(c correspondence, alpha int) int64 {
	rows, cols := r.rows(), r.cols()
	var n int64
	for _, off := range fourNeighborOffsets {
		nb := correspondence{X: c.X + off[0], Y: c.Y + off[1], D: c.D}
		if nb.withinBounds(rows, cols) && !nb.isValid(r.pair, alpha, rows, cols) {
			n++
		}
	}
	return r.solver.V * n
}

// addAllConflictEdges enforces that every pixel belongs to at most one
// active correspondence: an infinite-capacity edge forbids the cut from
// keeping an active correspondence active while activating the alpha
// candidate that shares one of its pixels; the reverse edge carries
// capacity Cp, charged when both end up inactive and the shared pixel is
// left occluded.
func (r *run) addAllConflictEdges(alpha int) {
	rows, cols := r.rows(), r.cols()
	r.forEachActive(alpha, func(c correspondence) {
		if c.D == alpha {
			return
		}
		alphaShare := correspondence{X: c.X, Y: c.Y, D: alpha}
		if alphaShare.isValid(r.pair, alpha, rows, cols) {
			r.graph.AddEdge(r.nodeFor(c), r.nodeFor(alphaShare), maxflow.Inf, r.solver.Cp)
		}
		mappedShare := correspondence{X: c.X + c.D - alpha, Y: c.Y, D: alpha}
		if mappedShare.isValid(r.pair, alpha, rows, cols) {
			r.graph.AddEdge(r.nodeFor(c), r.nodeFor(mappedShare), maxflow.Inf, r.solver.Cp)
		}
	})
}

// addAllNeighborEdges adds the smoothness edges between every pair of
// 4-connected correspondences that share disparity, each exactly once
// (the hash comparison dedups the two directions a shared edge is found
// from).
func (r *run) addAllNeighborEdges(alpha int) {
	rows, cols := r.rows(), r.cols()
	add := func(c correspondence) {
		for _, off := range fourNeighborOffsets {
			nb := correspondence{X: c.X + off[0], Y: c.Y + off[1], D: c.D}
			if !nb.isValid(r.pair, alpha, rows, cols) {
				continue
			}
			if c.hash(rows, r.minDisparity, r.maxDisparity) > nb.hash(rows, r.minDisparity, r.maxDisparity) {
				r.graph.AddEdge(r.nodeFor(c), r.nodeFor(nb), r.solver.V, r.solver.V)
			}
		}
	}
	r.forEachActive(alpha, add)
	r.forEachAlpha(alpha, add)
}

// runAlphaExpansion builds a fresh min-cut graph for this alpha, solves
// it, and writes back whichever correspondences changed side. It reports
// whether anything changed.
func (r *run) runAlphaExpansion(alpha int) bool {
	r.graph = maxflow.NewDynamic()
	r.nodeIndex = make(map[int64]int)
	for i := range r.leftOcc {
		r.leftOcc[i] = 0
		r.rightOcc[i] = 0
	}

	r.recordOcclusionCounts(alpha)
	r.forEachActive(alpha, func(c correspondence) { r.addActiveNode(c, alpha) })
	r.forEachAlpha(alpha, r.addAlphaNode)
	r.addAllConflictEdges(alpha)
	r.addAllNeighborEdges(alpha)

	_, onSourceSide := r.graph.Solve()

	return r.updateCorrespondences(alpha, onSourceSide)
}

// updateCorrespondences reads back the min-cut partition. The source side
// means "keep the current label" and the sink side means "flip": an
// active non-alpha correspondence on the sink side is deactivated
// (written back to 0, occluded), and an alpha candidate on the sink side
// is written into both disparity maps (an alpha correspondence that was
// already active and lands on the source side is deactivated).
// Deactivations run first so that an alpha candidate activated in the
// same move wins any pixel both touch.
func (r *run) updateCorrespondences(alpha int, onSourceSide func(int) bool) bool {
	changed := false

	r.forEachActive(alpha, func(c correspondence) {
		id := r.nodeFor(c)
		if onSourceSide(id) {
			return // still active, unchanged
		}
		changed = true
		r.pair.DisparityLeft.Set(c.X, c.Y, 0)
		r.pair.DisparityRight.Set(c.X+c.D, c.Y, 0)
	})

	r.forEachAlpha(alpha, func(c correspondence) {
		wasActive := c.isActive(r.pair)
		id := r.nodeFor(c)
		nowActive := !onSourceSide(id)
		if nowActive == wasActive {
			return
		}
		changed = true
		if nowActive {
			r.pair.DisparityLeft.Set(c.X, c.Y, uint8(-c.D))
			r.pair.DisparityRight.Set(c.X+c.D, c.Y, uint8(-c.D))
		} else {
			r.pair.DisparityLeft.Set(c.X, c.Y, 0)
			r.pair.DisparityRight.Set(c.X+c.D, c.Y, 0)
		}
	})

	return changed
}
