// Package dynamo provides core primitives for batched oscillator simulation.
//
// The package defines the fundamental types for advancing N independent
// oscillators in lock-step:
//
//   - [StateBatch], [ParamBatch], [ControlBatch]: parallel per-oscillator rows
//   - [System]: batched ODE right-hand side (dY/dt = f(Y, P, U))
//   - [Integrator]: fixed-step numerical integrator
//   - [Controller]: per-step forcing source
//
// # Example
//
//	sys := crvdo.New()
//	integ, _ := integrators.NewRK4(1.0 / 128)
//	y, err := integ.Step(sys, y0, params, control)
//
// # Thread Safety
//
// Integrators hold only their fixed step size; concurrent Step calls on
// unrelated batches may share one instance. No shared mutable state
// exists between batch rows, so row loops need no locking.
package dynamo
