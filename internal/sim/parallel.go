package sim

import (
	"context"
	"sync"

	"github.com/oscillab/crvdo/internal/dynamo"
)

// Ensemble runs the same batch from several initial conditions in
// parallel. Each run gets its own Runner; integrators are shared since
// they hold only dt.
type Ensemble struct {
	base   *Runner
	inits  []dynamo.StateBatch
	params dynamo.ParamBatch
}

func NewEnsemble(base *Runner, inits []dynamo.StateBatch, params dynamo.ParamBatch) *Ensemble {
	return &Ensemble{base: base, inits: inits, params: params}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.inits))
	errs := make([]error, len(e.inits))

	var wg sync.WaitGroup
	for i := range e.inits {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Metrics are stateful, so ensemble runs collect raw
			// history only; callers compute metrics per result.
			r := New(e.base.sys, e.base.integ, e.base.ctrl)

			results[idx], errs[idx] = r.Run(ctx, e.inits[idx], e.params, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
