package metrics

import (
	"math"

	"github.com/oscillab/crvdo/internal/dynamo"
)

// Amplitude tracks the peak absolute state component seen across the
// whole batch. Unbounded growth here is the first sign a parameter
// regime is unstable.
type Amplitude struct {
	name string
	peak float64
}

func NewAmplitude() *Amplitude {
	return &Amplitude{name: "amplitude"}
}

func (a *Amplitude) Name() string { return a.name }

func (a *Amplitude) Observe(y dynamo.StateBatch, _ dynamo.ControlBatch, _ float64) {
	for i := range y {
		for _, v := range y[i] {
			if abs := math.Abs(v); abs > a.peak {
				a.peak = abs
			}
		}
	}
}

func (a *Amplitude) Value() float64 { return a.peak }

func (a *Amplitude) Reset() { a.peak = 0 }
