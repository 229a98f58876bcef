package models

import "testing"

func constantDisparity(rows, cols int, v uint8) *DisparityMap {
	d := NewDisparityMap(rows, cols)
	for i := range d.Data {
		d.Data[i] = v
	}
	return d
}

func halfScalePair() *StereoPair {
	return &StereoPair{
		Left:               uniformImage(20, 40, 100),
		Right:              uniformImage(20, 40, 100),
		TrueDisparityLeft:  constantDisparity(20, 40, 80),
		TrueDisparityRight: constantDisparity(20, 40, 80),
		DisparityLeft:      NewDisparityMap(20, 40),
		DisparityRight:     NewDisparityMap(20, 40),
		Rows:               20,
		Cols:               40,
		Name:               "half",
		MinDisparityLeft:   80,
		MaxDisparityLeft:   80,
		MinDisparityRight:  80,
		MaxDisparityRight:  80,
	}
}

func TestResizeHalvesDimensions(t *testing.T) {
	p := halfScalePair()
	p.Resize(0.5)
	if p.Rows != 10 || p.Cols != 20 {
		t.Errorf("dims = %dx%d, want 10x20", p.Rows, p.Cols)
	}
	if p.Left.Rows != 10 || p.Left.Cols != 20 {
		t.Errorf("left image dims = %dx%d, want 10x20", p.Left.Rows, p.Left.Cols)
	}
	if p.TrueDisparityLeft.Rows != 10 || p.TrueDisparityLeft.Cols != 20 {
		t.Errorf("ground-truth dims = %dx%d, want 10x20",
			p.TrueDisparityLeft.Rows, p.TrueDisparityLeft.Cols)
	}
}

func TestResizeScalesDisparityValuesAndBounds(t *testing.T) {
	p := halfScalePair()
	p.Resize(0.5)

	// A constant-80 map resampled at any scale stays constant, so every
	// pixel must carry the rescaled value 40.
	if d := p.TrueDisparityLeft.At(5, 5); d != 40 {
		t.Errorf("rescaled disparity = %d, want 40", d)
	}
	if p.MinDisparityLeft != 40 || p.MaxDisparityLeft != 40 {
		t.Errorf("left bounds = [%d, %d], want [40, 40]", p.MinDisparityLeft, p.MaxDisparityLeft)
	}
	if p.MinDisparityRight != 40 || p.MaxDisparityRight != 40 {
		t.Errorf("right bounds = [%d, %d], want [40, 40]", p.MinDisparityRight, p.MaxDisparityRight)
	}
}

func TestResizePreservesConstantImageValues(t *testing.T) {
	p := halfScalePair()
	p.Resize(0.5)
	r, g, b := p.Left.At(4, 4)
	if r != 100 || g != 100 || b != 100 {
		t.Errorf("rescaled pixel = (%v, %v, %v), want (100, 100, 100)", r, g, b)
	}
}
