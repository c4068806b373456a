package control

import "github.com/oscillab/crvdo/internal/dynamo"

// Constant returns the same forcing rows on every step.
type Constant struct {
	u dynamo.ControlBatch
}

func NewConstant(u dynamo.ControlBatch) *Constant {
	return &Constant{u: u.Clone()}
}

func (c *Constant) Compute(_ dynamo.StateBatch, _ float64) dynamo.ControlBatch {
	return c.u.Clone()
}
