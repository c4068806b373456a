package integrators

import "github.com/oscillab/crvdo/internal/dynamo"

// Euler is a first-order explicit stepper. It exists as a cheap
// reference point: RK4 at the same dt should beat it by orders of
// magnitude, which the convergence tests rely on.
type Euler struct {
	dt float64
}

func NewEuler(dt float64) (*Euler, error) {
	if dt <= 0 {
		return nil, dynamo.ErrInvalidTimestep
	}
	return &Euler{dt: dt}, nil
}

func (e *Euler) Dt() float64 { return e.dt }

func (e *Euler) Step(sys dynamo.System, y dynamo.StateBatch, p dynamo.ParamBatch, u dynamo.ControlBatch) (dynamo.StateBatch, error) {
	if err := checkShapes(y, p, u); err != nil {
		return nil, err
	}

	dy := sys.Derive(y, p, u)
	result := make(dynamo.StateBatch, len(y))
	for i := range y {
		for j := 0; j < dynamo.StateDim; j++ {
			result[i][j] = y[i][j] + e.dt*dy[i][j]
		}
	}
	return result, nil
}
