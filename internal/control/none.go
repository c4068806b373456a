package control

import "github.com/oscillab/crvdo/internal/dynamo"

type None struct {
	n int
}

func NewNone(n int) *None {
	return &None{n: n}
}

func (c *None) Compute(_ dynamo.StateBatch, _ float64) dynamo.ControlBatch {
	return make(dynamo.ControlBatch, c.n)
}
