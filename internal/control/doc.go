// Package control provides forcing sources for oscillator batches.
//
// Controllers implement the [dynamo.Controller] interface; the runner
// samples them once per step, so forcing is piecewise constant over a
// step regardless of the source:
//
//   - [None]: zero forcing
//   - [Constant]: fixed per-oscillator forcing rows
//   - [Sinusoid]: periodic forcing on the u1/u3 channels
//
// Only u1 and u3 enter the oscillator equations; u2 and u4 are carried
// for interface symmetry and ignored downstream.
package control
