package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the positive-frequency half
// of the FFT of a scalar trajectory.
func PowerSpectrum(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}

	spectrum := fft.FFTReal(series)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz, given
// the sampling step dt of the trajectory.
func DominantFrequency(series []float64, dt float64) float64 {
	ps := PowerSpectrum(series)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	return float64(peak) / (float64(len(series)) * dt)
}
