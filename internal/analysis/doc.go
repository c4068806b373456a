// Package analysis provides post-run diagnostics for oscillator
// trajectories: power spectra, phase portraits, Lyapunov exponent
// estimation and pairwise synchronization error.
package analysis
