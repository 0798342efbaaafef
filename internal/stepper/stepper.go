// Package stepper provides numerical integration of scalar rates along
// a transport step, used by continuous processes to advance quantities
// such as kinetic energy under a distance-dependent loss rate.
package stepper

// Rate is the derivative dQ/ds of the integrated quantity with respect
// to path length, evaluated at quantity value q.
type Rate func(q float64) float64

// Stepper advances q across a path of length ds under the given rate.
type Stepper interface {
	Step(rate Rate, q, ds float64) float64
}
