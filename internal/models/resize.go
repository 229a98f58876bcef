package models

import (
	"image"
	"image/color"
	"log/slog"

	"golang.org/x/image/draw"
)

// Resize scales all four images (left, right, and both ground-truth
// disparity maps) by scale, using Catmull-Rom cubic interpolation.
// Disparity values and the derived search bounds are multiplied by scale
// and rounded. Besides a solver's Compute, the only other StereoPair
// mutator is pkg/shearlet's DenoisePair, which rewrites the image data.
func (p *StereoPair) Resize(scale float64) {
	newRows := int(float64(p.Rows)*scale + 0.5)
	newCols := int(float64(p.Cols)*scale + 0.5)

	p.Left = resizeRGB(p.Left, newRows, newCols)
	p.Right = resizeRGB(p.Right, newRows, newCols)
	p.TrueDisparityLeft = resizeDisparity(p.TrueDisparityLeft, newRows, newCols, scale)
	p.TrueDisparityRight = resizeDisparity(p.TrueDisparityRight, newRows, newCols, scale)

	p.Rows, p.Cols = newRows, newCols
	p.MinDisparityLeft = scaleRound(p.MinDisparityLeft, scale)
	p.MaxDisparityLeft = scaleRound(p.MaxDisparityLeft, scale)
	p.MinDisparityRight = scaleRound(p.MinDisparityRight, scale)
	p.MaxDisparityRight = scaleRound(p.MaxDisparityRight, scale)

	slog.Default().Debug("stereo pair resized", "name", p.Name, "scale", scale, "rows", newRows, "cols", newCols)
}

func scaleRound(v int, scale float64) int {
	return int(float64(v)*scale + 0.5)
}

// resizeRGB scales a float RGB image via draw.CatmullRom after round-tripping
// through a standard image.NRGBA64, since x/image/draw operates on the
// image.Image interface rather than raw float planes.
func resizeRGB(im *RGBImage, newRows, newCols int) *RGBImage {
	src := image.NewNRGBA64(image.Rect(0, 0, im.Cols, im.Rows))
	for y := 0; y < im.Rows; y++ {
		for x := 0; x < im.Cols; x++ {
			r, g, b := im.At(x, y)
			src.Set(x, y, color.NRGBA64{
				R: floatToUint16(r), G: floatToUint16(g), B: floatToUint16(b), A: 0xffff,
			})
		}
	}

	dst := image.NewNRGBA64(image.Rect(0, 0, newCols, newRows))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := NewRGBImage(newRows, newCols)
	for y := 0; y < newRows; y++ {
		for x := 0; x < newCols; x++ {
			c := dst.NRGBA64At(x, y)
			out.Set(x, y, float64(c.R), float64(c.G), float64(c.B))
		}
	}
	return out
}

// resizeDisparity scales a disparity map spatially via draw.CatmullRom,
// then multiplies values by scale.
func resizeDisparity(d *DisparityMap, newRows, newCols int, scale float64) *DisparityMap {
	src := image.NewGray(image.Rect(0, 0, d.Cols, d.Rows))
	for y := 0; y < d.Rows; y++ {
		for x := 0; x < d.Cols; x++ {
			src.SetGray(x, y, color.Gray{Y: d.At(x, y)})
		}
	}

	dst := image.NewGray(image.Rect(0, 0, newCols, newRows))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := NewDisparityMap(newRows, newCols)
	for y := 0; y < newRows; y++ {
		for x := 0; x < newCols; x++ {
			v := int(float64(dst.GrayAt(x, y).Y)*scale + 0.5)
			out.Set(x, y, clampUint8(v))
		}
	}
	return out
}

func floatToUint16(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xffff {
		return 0xffff
	}
	return uint16(v)
}

func clampUint8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > MaxDisparity {
		return MaxDisparity
	}
	return uint8(v)
}
