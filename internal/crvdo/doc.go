// Package crvdo implements the batched derivative evaluation for
// complex Rayleigh-van-der-Pol-Duffing oscillators.
//
// Each oscillator carries two complex degrees of freedom, stored as
// four real state components, five constants and four forcing inputs.
// A batch of N oscillators evolves with no cross-row coupling, which
// makes the evaluation embarrassingly parallel over rows.
package crvdo
