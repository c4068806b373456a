package dynamo

import "math"

// Dimensions of a single oscillator row.
const (
	StateDim   = 4 // z1, z2, z3, z4
	ParamDim   = 5 // a, b, c, d, e
	ControlDim = 4 // u1, u2, u3, u4
)

// State holds the four real components of one oscillator's two complex
// degrees of freedom: z1+i*z2 (position-like), z3+i*z4 (velocity-like).
type State [StateDim]float64

// Params holds one oscillator's constants [a, b, c, d, e].
type Params [ParamDim]float64

// Control holds one oscillator's external forcing [u1, u2, u3, u4].
type Control [ControlDim]float64

// StateBatch, ParamBatch and ControlBatch are parallel collections
// indexed by oscillator. All three must share the same length N; row i
// of each belongs to oscillator i. Oscillators never couple across rows.
type StateBatch []State

type ParamBatch []Params

type ControlBatch []Control

func (b StateBatch) Clone() StateBatch {
	c := make(StateBatch, len(b))
	copy(c, b)
	return c
}

// IsValid reports whether every component of every row is finite.
func (b StateBatch) IsValid() bool {
	for i := range b {
		for _, v := range b[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Norm returns the Euclidean norm over all rows and components.
func (b StateBatch) Norm() float64 {
	sum := 0.0
	for i := range b {
		for _, v := range b[i] {
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}

// Component extracts one state component (0..3) across the batch,
// one value per oscillator.
func (b StateBatch) Component(idx int) []float64 {
	out := make([]float64, len(b))
	for i := range b {
		out[i] = b[i][idx]
	}
	return out
}

func (b ControlBatch) Clone() ControlBatch {
	c := make(ControlBatch, len(b))
	copy(c, b)
	return c
}

func (p ParamBatch) Clone() ParamBatch {
	c := make(ParamBatch, len(p))
	copy(c, p)
	return c
}

// System is a batched ODE right-hand side: dY/dt = f(Y, P, U).
// Implementations must be pure and must not retain or mutate arguments.
type System interface {
	Derive(y StateBatch, p ParamBatch, u ControlBatch) StateBatch
}

// Integrator advances a whole batch by one fixed time step. The step
// size is configuration, fixed when the integrator is constructed.
type Integrator interface {
	Step(sys System, y StateBatch, p ParamBatch, u ControlBatch) (StateBatch, error)
	Dt() float64
}

// Controller produces the forcing batch for the next step. The runner
// samples it once per step; control is piecewise constant over a step.
type Controller interface {
	Compute(y StateBatch, t float64) ControlBatch
}

type Metric interface {
	Name() string
	Observe(y StateBatch, u ControlBatch, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(y StateBatch, u ControlBatch, t float64)
}
