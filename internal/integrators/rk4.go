package integrators

import "github.com/oscillab/crvdo/internal/dynamo"

// RK4 advances a batch with the classic fourth-order Runge-Kutta
// scheme at a fixed step size. Parameters and control are held constant
// across the four stage evaluations of a step.
//
// The instance holds only dt, so one RK4 may serve concurrent Step
// calls on unrelated batches.
type RK4 struct {
	dt float64
}

func NewRK4(dt float64) (*RK4, error) {
	if dt <= 0 {
		return nil, dynamo.ErrInvalidTimestep
	}
	return &RK4{dt: dt}, nil
}

func (r *RK4) Dt() float64 { return r.dt }

// Step returns the batch advanced by one step of size dt. Inputs are
// never mutated; the result is freshly allocated.
func (r *RK4) Step(sys dynamo.System, y dynamo.StateBatch, p dynamo.ParamBatch, u dynamo.ControlBatch) (dynamo.StateBatch, error) {
	if err := checkShapes(y, p, u); err != nil {
		return nil, err
	}

	n := len(y)
	dt := r.dt

	k1 := sys.Derive(y, p, u)

	stage := make(dynamo.StateBatch, n)
	for i := 0; i < n; i++ {
		for j := 0; j < dynamo.StateDim; j++ {
			stage[i][j] = y[i][j] + 0.5*dt*k1[i][j]
		}
	}
	k2 := sys.Derive(stage, p, u)

	for i := 0; i < n; i++ {
		for j := 0; j < dynamo.StateDim; j++ {
			stage[i][j] = y[i][j] + 0.5*dt*k2[i][j]
		}
	}
	k3 := sys.Derive(stage, p, u)

	for i := 0; i < n; i++ {
		for j := 0; j < dynamo.StateDim; j++ {
			stage[i][j] = y[i][j] + dt*k3[i][j]
		}
	}
	k4 := sys.Derive(stage, p, u)

	result := make(dynamo.StateBatch, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		for j := 0; j < dynamo.StateDim; j++ {
			result[i][j] = y[i][j] + dt6*(k1[i][j]+2*k2[i][j]+2*k3[i][j]+k4[i][j])
		}
	}

	return result, nil
}

func checkShapes(y dynamo.StateBatch, p dynamo.ParamBatch, u dynamo.ControlBatch) error {
	if len(y) == 0 {
		return dynamo.ErrEmptyBatch
	}
	if len(p) != len(y) || len(u) != len(y) {
		return dynamo.ErrBatchMismatch
	}
	return nil
}
