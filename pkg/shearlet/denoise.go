// Package shearlet implements an optional edge-preserving denoising pass
// for rectified stereo images. A small bank of directional band-pass
// (shearlet) filters, applied in the frequency domain, locates edges and
// their orientations; a mean-median smoothing step then cleans up pixel
// noise around those edges without blurring across them. Both solvers
// benefit from the pass on noisy inputs, since their data terms compare
// raw colour values.
package shearlet

import (
	"math"

	"stereodisparity/internal/models"
	"stereodisparity/pkg/kernel"
)

// Denoiser holds the tuning knobs of the denoising pass. Scales is the
// number of dyadic frequency bands in the filter bank; EdgeThreshold is
// the normalized coefficient magnitude above which a pixel counts as an
// edge.
type Denoiser struct {
	Scales        int
	EdgeThreshold float64
}

// NewDenoiser returns a Denoiser with the default three scales and an
// edge threshold of 0.2.
func NewDenoiser() *Denoiser {
	return &Denoiser{Scales: 3, EdgeThreshold: 0.2}
}

// EdgeInfo holds a per-pixel edge-strength map, normalized to [0, 1], and
// the dominant edge orientation in radians at each pixel.
type EdgeInfo struct {
	Edges        []float64
	Orientations []float64
}

// shearRange returns the shear parameters -maxShear..maxShear for one
// scale of the filter bank.
func shearRange(maxShear int) []int {
	out := make([]int, 2*maxShear+1)
	for i := range out {
		out[i] = i - maxShear
	}
	return out
}

// meyer is the Meyer auxiliary polynomial, a smooth step from 0 (t <= 0)
// to 1 (t >= 1). filter does not use it; its radial profile is mexicanHat.
func meyer(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// mexicanHat is the radial band-pass profile of each filter.
func mexicanHat(radius float64) float64 {
	const sigma = 0.5
	norm := 1.0 / (math.Sqrt(2*math.Pi) * math.Pow(sigma, 5))
	r2 := radius * radius
	return norm * (1 - r2/(2*sigma*sigma)) * math.Exp(-r2/(2*sigma*sigma))
}

// filter evaluates one directional band-pass filter over the full
// rows x cols frequency grid. scale selects the dyadic band; shear tilts
// the filter's orientation by shear/2^scale.
func filter(rows, cols, scale, shear int) []float64 {
	a := math.Pow(2, float64(scale))
	s := float64(shear) / a

	psi := make([]float64, rows*cols)
	for y := 0; y < rows; y++ {
		fy := y
		if fy > rows/2 {
			fy -= rows
		}
		w2 := float64(fy) / float64(rows/2)
		for x := 0; x < cols; x++ {
			fx := x
			if fx > cols/2 {
				fx -= cols
			}
			w1 := float64(fx) / float64(cols/2)

			w1s := w1 + s*w2
			radial := mexicanHat(math.Sqrt(w1s*w1s + w2*w2))
			angular := math.Exp(-0.5 * (w2 * w2) / a)
			psi[y*cols+x] = radial * angular
		}
	}
	return psi
}

// DetectEdges applies the filter bank to a single-channel image and
// returns per-pixel edge strengths and orientations. The strength at a
// pixel is the largest coefficient magnitude across all scales and
// shears; the orientation is that of the winning filter.
func (d *Denoiser) DetectEdges(g *kernel.Grid) EdgeInfo {
	rows, cols := g.Rows, g.Cols
	n := rows * cols
	edges := make([]float64, n)
	orientations := make([]float64, n)

	freq := fft2D(g.Data, rows, cols)
	prod := make([]complex128, n)

	for scale := 0; scale < d.Scales; scale++ {
		maxShear := int(math.Pow(2, float64(scale)))
		for _, shear := range shearRange(maxShear) {
			psi := filter(rows, cols, scale, shear)
			for i := range prod {
				prod[i] = freq[i] * complex(psi[i], 0)
			}
			coeff := ifft2D(prod, rows, cols)

			orientation := math.Atan2(float64(shear)/math.Pow(2, float64(scale)), 1)
			for i, c := range coeff {
				if mag := math.Abs(c); mag > edges[i] {
					edges[i] = mag
					orientations[i] = orientation
				}
			}
		}
	}

	maxEdge := 0.0
	for _, e := range edges {
		if e > maxEdge {
			maxEdge = e
		}
	}
	if maxEdge > 0 {
		for i := range edges {
			edges[i] /= maxEdge
		}
	}
	return EdgeInfo{Edges: edges, Orientations: orientations}
}

// Denoise returns an edge-preserving smoothed copy of a single-channel
// image: at each interior edge pixel whose neighbourhood shows incoherent
// edge orientations, the 8 surrounding pixels are replaced by the median
// of the neighbours on their side of the dominant edge, while the edge
// pixel itself keeps its value.
func (d *Denoiser) Denoise(g *kernel.Grid) *kernel.Grid {
	rows, cols := g.Rows, g.Cols
	out := kernel.NewGrid(rows, cols)
	copy(out.Data, g.Data)

	info := d.DetectEdges(g)
	isEdge := make([]bool, rows*cols)
	for i, e := range info.Edges {
		isEdge[i] = e > d.EdgeThreshold
	}

	for y := 1; y < rows-1; y++ {
		for x := 1; x < cols-1; x++ {
			if !isEdge[y*cols+x] {
				continue
			}
			orientation, incoherent := consensusOrientation(x, y, cols, rows, isEdge, info.Orientations)
			if incoherent {
				smoothAcrossEdge(out, x, y, orientation)
			}
		}
	}
	return out
}

// consensusOrientation inspects the edge pixels in the 5x5 window around
// (x, y). If their orientations disagree often enough the local edge
// estimate is considered noisy; the mean orientation is returned with
// incoherent = true so the caller smooths the window.
func consensusOrientation(x, y, cols, rows int, isEdge []bool, orientations []float64) (float64, bool) {
	var idx []int
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
				continue
			}
			if isEdge[ny*cols+nx] {
				idx = append(idx, ny*cols+nx)
			}
		}
	}
	if len(idx) < 3 {
		return 0, false
	}

	changes := 0
	for i := 1; i < len(idx); i++ {
		if math.Abs(orientations[idx[i]]-orientations[idx[i-1]]) > 0.2 {
			changes++
		}
	}
	if float64(changes)/float64(len(idx)) <= 0.3 {
		return 0, false
	}

	var sum float64
	for _, i := range idx {
		sum += orientations[i]
	}
	return sum / float64(len(idx)), true
}

// smoothAcrossEdge replaces the 8-neighbourhood of (x, y) with the median
// of each side of the edge through (x, y): for near-horizontal
// orientations the split is above/below, otherwise left/right.
func smoothAcrossEdge(g *kernel.Grid, x, y int, orientation float64) {
	horizontal := orientation >= -math.Pi/4 && orientation < math.Pi/4

	var lo, hi []float64
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= g.Cols || ny < 0 || ny >= g.Rows {
				continue
			}
			v := g.At(nx, ny)
			if horizontal {
				if dy < 0 {
					lo = append(lo, v)
				} else if dy > 0 {
					hi = append(hi, v)
				}
			} else {
				if dx < 0 {
					lo = append(lo, v)
				} else if dx > 0 {
					hi = append(hi, v)
				}
			}
		}
	}
	if len(lo) == 0 || len(hi) == 0 {
		return
	}

	loMed, hiMed := median(lo), median(hi)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= g.Cols || ny < 0 || ny >= g.Rows {
				continue
			}
			onLo := dy < 0
			if !horizontal {
				onLo = dx < 0
			}
			if onLo {
				g.Set(nx, ny, loMed)
			} else if (horizontal && dy > 0) || (!horizontal && dx > 0) {
				g.Set(nx, ny, hiMed)
			}
		}
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i] > sorted[j] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	if len(sorted)%2 == 0 {
		return (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return sorted[len(sorted)/2]
}

// DenoisePair runs the edge-preserving smoothing over every colour
// channel of both views of a stereo pair, in place. Ground truth and
// disparity maps are untouched.
func (d *Denoiser) DenoisePair(pair *models.StereoPair) {
	pair.Left.Data = d.denoiseRGB(pair.Left)
	pair.Right.Data = d.denoiseRGB(pair.Right)
}

func (d *Denoiser) denoiseRGB(im *models.RGBImage) []float64 {
	r, g, b := kernel.SplitRGB(im.Data, im.Rows, im.Cols)
	return kernel.MergeRGB(d.Denoise(r), d.Denoise(g), d.Denoise(b))
}
