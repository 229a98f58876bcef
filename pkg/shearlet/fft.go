package shearlet

import "gonum.org/v1/gonum/dsp/fourier"

// fft2D computes the unnormalized 2D discrete Fourier transform of a
// row-major rows x cols real array: a complex FFT over each row, then over
// each column of the row results.
func fft2D(data []float64, rows, cols int) []complex128 {
	rowFFT := fourier.NewCmplxFFT(cols)
	colFFT := fourier.NewCmplxFFT(rows)

	out := make([]complex128, rows*cols)
	row := make([]complex128, cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			row[x] = complex(data[y*cols+x], 0)
		}
		rowFFT.Coefficients(row, row)
		copy(out[y*cols:(y+1)*cols], row)
	}

	col := make([]complex128, rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			col[y] = out[y*cols+x]
		}
		colFFT.Coefficients(col, col)
		for y := 0; y < rows; y++ {
			out[y*cols+x] = col[y]
		}
	}
	return out
}

// ifft2D inverts fft2D, returning the real part of the normalized inverse
// transform. ifft2D(fft2D(x)) == x up to floating-point rounding.
func ifft2D(freq []complex128, rows, cols int) []float64 {
	rowFFT := fourier.NewCmplxFFT(cols)
	colFFT := fourier.NewCmplxFFT(rows)

	tmp := make([]complex128, len(freq))
	copy(tmp, freq)

	col := make([]complex128, rows)
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			col[y] = tmp[y*cols+x]
		}
		colFFT.Sequence(col, col)
		for y := 0; y < rows; y++ {
			tmp[y*cols+x] = col[y]
		}
	}

	out := make([]float64, rows*cols)
	row := make([]complex128, cols)
	norm := 1 / float64(rows*cols)
	for y := 0; y < rows; y++ {
		copy(row, tmp[y*cols:(y+1)*cols])
		rowFFT.Sequence(row, row)
		for x := 0; x < cols; x++ {
			out[y*cols+x] = real(row[x]) * norm
		}
	}
	return out
}
