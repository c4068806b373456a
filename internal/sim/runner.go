package sim

import (
	"context"
	"fmt"

	"github.com/oscillab/crvdo/internal/control"
	"github.com/oscillab/crvdo/internal/dynamo"
)

type Config struct {
	Steps         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         2000,
		ValidateState: true,
	}
}

type Result struct {
	States     []dynamo.StateBatch
	Controls   []dynamo.ControlBatch
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Trajectory extracts component idx of oscillator osc over the run.
func (r *Result) Trajectory(osc, idx int) []float64 {
	out := make([]float64, len(r.States))
	for i, b := range r.States {
		out[i] = b[osc][idx]
	}
	return out
}

// Runner owns the driving loop: it repeatedly invokes the integrator
// on a caller-supplied batch and collects the history. Parameters stay
// fixed for the whole run; forcing comes from the controller, sampled
// once per step.
type Runner struct {
	sys       dynamo.System
	integ     dynamo.Integrator
	ctrl      dynamo.Controller
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(sys dynamo.System, integ dynamo.Integrator, ctrl dynamo.Controller) *Runner {
	return &Runner{
		sys:       sys,
		integ:     integ,
		ctrl:      ctrl,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (r *Runner) AddMetric(m dynamo.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o dynamo.Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, y0 dynamo.StateBatch, params dynamo.ParamBatch, cfg Config) (*Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("crvdo: step count must be positive, got %d", cfg.Steps)
	}
	if len(params) != len(y0) {
		return nil, dynamo.ErrBatchMismatch
	}

	ctrl := r.ctrl
	if ctrl == nil {
		ctrl = control.NewNone(len(y0))
	}

	result := &Result{
		States:   make([]dynamo.StateBatch, 0, cfg.Steps+1),
		Controls: make([]dynamo.ControlBatch, 0, cfg.Steps),
		Times:    make([]float64, 0, cfg.Steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	y := y0.Clone()
	t := 0.0
	dt := r.integ.Dt()

	result.States = append(result.States, y.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, dynamo.ErrContextCanceled
		default:
		}

		u := ctrl.Compute(y, t)

		for _, m := range r.metrics {
			m.Observe(y, u, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(y, u, t)
		}

		newY, err := r.integ.Step(r.sys, y, params, u)
		if err != nil {
			return result, err
		}

		if cfg.ValidateState && !newY.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimulationError{
				Step: i, Time: t, Wrapped: dynamo.ErrInvalidState,
			})
			break
		}

		y = newY
		t += dt
		result.StepsTaken++

		result.States = append(result.States, y)
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps without collecting history, handing each state
// to the callback. Returning false from the callback stops the run.
func (r *Runner) RunWithCallback(ctx context.Context, y0 dynamo.StateBatch, params dynamo.ParamBatch, cfg Config, callback func(y dynamo.StateBatch, u dynamo.ControlBatch, t float64) bool) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("crvdo: step count must be positive, got %d", cfg.Steps)
	}
	if len(params) != len(y0) {
		return dynamo.ErrBatchMismatch
	}

	ctrl := r.ctrl
	if ctrl == nil {
		ctrl = control.NewNone(len(y0))
	}

	y := y0.Clone()
	t := 0.0
	dt := r.integ.Dt()

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return dynamo.ErrContextCanceled
		default:
		}

		u := ctrl.Compute(y, t)

		if !callback(y, u, t) {
			return nil
		}

		newY, err := r.integ.Step(r.sys, y, params, u)
		if err != nil {
			return err
		}

		if cfg.ValidateState && !newY.IsValid() {
			return &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}

		y = newY
		t += dt
	}

	return nil
}
