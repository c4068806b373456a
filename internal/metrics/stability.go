package metrics

import (
	"math"

	"github.com/oscillab/crvdo/internal/dynamo"
)

// Stability reports the fraction of observed steps where every
// oscillator stayed finite and below a magnitude threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) Observe(y dynamo.StateBatch, _ dynamo.ControlBatch, _ float64) {
	s.samples++
	for i := range y {
		for _, v := range y[i] {
			if math.IsNaN(v) || math.Abs(v) > s.threshold {
				s.violations++
				return
			}
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
