// Package solver defines the capability every disparity algorithm
// provides: transform a stereo pair in place. Both pkg/ncc and
// pkg/graphcut satisfy Disparity structurally; neither imports this
// package, since the two solvers share no state and only the method
// signature is common.
package solver

import "stereodisparity/internal/models"

// Disparity takes exclusive mutable access to a StereoPair, writes its
// DisparityLeft and DisparityRight fields, and returns nothing observable
// beyond those writes. Occlusion is a normal outcome encoded as 0, never
// an error; shape and parameter problems are caught at pair or solver
// construction, so Compute implementations typically return nil
// unconditionally.
type Disparity interface {
	Compute(pair *models.StereoPair) error
}
