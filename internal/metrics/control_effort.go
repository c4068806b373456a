package metrics

import "github.com/oscillab/crvdo/internal/dynamo"

// ControlEffort accumulates the mean squared forcing applied per step,
// summed over oscillators and channels.
type ControlEffort struct {
	name    string
	total   float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{name: "control_effort"}
}

func (c *ControlEffort) Name() string { return c.name }

func (c *ControlEffort) Observe(_ dynamo.StateBatch, u dynamo.ControlBatch, _ float64) {
	for i := range u {
		for _, v := range u[i] {
			c.total += v * v
		}
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.total = 0
	c.samples = 0
}
