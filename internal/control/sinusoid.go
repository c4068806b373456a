package control

import (
	"math"

	"github.com/oscillab/crvdo/internal/dynamo"
)

// Sinusoid drives u1 and u3 of every oscillator with A*sin(omega*t),
// sampled at the start of each step. u2 and u4 stay zero.
type Sinusoid struct {
	n         int
	amplitude float64
	omega     float64
}

func NewSinusoid(n int, amplitude, omega float64) *Sinusoid {
	return &Sinusoid{n: n, amplitude: amplitude, omega: omega}
}

func (c *Sinusoid) Compute(_ dynamo.StateBatch, t float64) dynamo.ControlBatch {
	v := c.amplitude * math.Sin(c.omega*t)
	u := make(dynamo.ControlBatch, c.n)
	for i := range u {
		u[i][0] = v
		u[i][2] = v
	}
	return u
}
