package analysis

import (
	"math"

	"github.com/oscillab/crvdo/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent of one
// oscillator using the trajectory separation method. A positive value
// indicates chaos.
//
// Two copies of the oscillator run side by side, the second perturbed
// in z1; their divergence is renormalized to keep separation bounded.
func LyapunovExponent(
	sys dynamo.System,
	integ dynamo.Integrator,
	y0 dynamo.State,
	params dynamo.Params,
	u dynamo.Control,
	steps int,
	perturbation float64,
) (float64, error) {
	y := dynamo.StateBatch{y0, y0}
	y[1][0] += perturbation

	p := dynamo.ParamBatch{params, params}
	uu := dynamo.ControlBatch{u, u}

	d0 := perturbation
	dt := integ.Dt()

	sumLog := 0.0
	count := 0

	for s := 0; s < steps; s++ {
		next, err := integ.Step(sys, y, p, uu)
		if err != nil {
			return 0, err
		}
		y = next

		sep := 0.0
		for j := 0; j < dynamo.StateDim; j++ {
			diff := y[1][j] - y[0][j]
			sep += diff * diff
		}
		sep = math.Sqrt(sep)

		if sep <= 0 || d0 <= 0 {
			continue
		}

		sumLog += math.Log(sep / d0)
		count++

		// Renormalize the twin back to the reference separation so
		// each step contributes one local expansion rate.
		scale := d0 / sep
		for j := 0; j < dynamo.StateDim; j++ {
			y[1][j] = y[0][j] + (y[1][j]-y[0][j])*scale
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / (float64(count) * dt), nil
}
