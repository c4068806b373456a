package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oscillab/crvdo/internal/control"
	"github.com/oscillab/crvdo/internal/crvdo"
	"github.com/oscillab/crvdo/internal/dynamo"
	"github.com/oscillab/crvdo/internal/integrators"
	"github.com/oscillab/crvdo/internal/metrics"
	"github.com/oscillab/crvdo/internal/sim"
)

// explosive produces non-finite derivatives immediately, to exercise
// the runner's state validation path.
type explosive struct{}

func (e *explosive) Derive(y dynamo.StateBatch, _ dynamo.ParamBatch, _ dynamo.ControlBatch) dynamo.StateBatch {
	dy := make(dynamo.StateBatch, len(y))
	for i := range dy {
		dy[i] = dynamo.State{math.Inf(1), 0, 0, 0}
	}
	return dy
}

var _ = Describe("Runner", func() {
	var (
		integ  *integrators.RK4
		params dynamo.ParamBatch
		y0     dynamo.StateBatch
	)

	BeforeEach(func() {
		var err error
		integ, err = integrators.NewRK4(1.0 / 128)
		Expect(err).NotTo(HaveOccurred())

		params = dynamo.ParamBatch{
			{1.25, 2.0, 1.0 / 16, 1.0, 0.25},
			{1.25, 2.0, 1.0 / 17, 1.0, 0.25},
		}
		y0 = make(dynamo.StateBatch, 2)
	})

	It("records the initial state plus one state per step", func() {
		runner := sim.New(crvdo.New(), integ, control.NewNone(2))

		result, err := runner.Run(context.Background(), y0, params, sim.Config{Steps: 50})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.States).To(HaveLen(51))
		Expect(result.Times).To(HaveLen(51))
		Expect(result.StepsTaken).To(Equal(50))
		Expect(result.Times[50]).To(BeNumerically("~", 50.0/128, 1e-12))
	})

	It("keeps an unforced zero batch at the origin", func() {
		runner := sim.New(crvdo.New(), integ, control.NewNone(2))

		result, err := runner.Run(context.Background(), y0, params, sim.Config{Steps: 20})
		Expect(err).NotTo(HaveOccurred())

		final := result.States[len(result.States)-1]
		for i := range final {
			Expect(final[i]).To(Equal(dynamo.State{}))
		}
	})

	It("moves z1 and z3 under constant forcing while z2 and z4 stay zero", func() {
		u := dynamo.ControlBatch{{0.5, 0, 0.5, 0}, {1.0 / 3, 0, 1.0 / 3, 0}}
		runner := sim.New(crvdo.New(), integ, control.NewConstant(u))

		result, err := runner.Run(context.Background(), y0, params, sim.Config{Steps: 100})
		Expect(err).NotTo(HaveOccurred())

		final := result.States[len(result.States)-1]
		for i := range final {
			Expect(final[i][0]).NotTo(BeZero())
			Expect(final[i][2]).NotTo(BeZero())
			Expect(final[i][1]).To(BeZero())
			Expect(final[i][3]).To(BeZero())
		}
	})

	It("rejects non-positive step counts", func() {
		runner := sim.New(crvdo.New(), integ, nil)

		_, err := runner.Run(context.Background(), y0, params, sim.Config{Steps: 0})
		Expect(err).To(HaveOccurred())
	})

	It("rejects mismatched parameter batches", func() {
		runner := sim.New(crvdo.New(), integ, nil)

		_, err := runner.Run(context.Background(), y0, params[:1], sim.Config{Steps: 10})
		Expect(err).To(MatchError(dynamo.ErrBatchMismatch))
	})

	It("stops on context cancellation", func() {
		runner := sim.New(crvdo.New(), integ, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runner.Run(ctx, y0, params, sim.Config{Steps: 10})
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
	})

	It("halts and records an error when the state diverges", func() {
		runner := sim.New(&explosive{}, integ, nil)

		result, err := runner.Run(context.Background(), y0, params, sim.Config{
			Steps:         10,
			ValidateState: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(HaveLen(1))
		Expect(result.Errors[0]).To(MatchError(dynamo.ErrInvalidState))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("reports metric values in the result", func() {
		u := dynamo.ControlBatch{{0.5, 0, 0.5, 0}, {0.5, 0, 0.5, 0}}
		runner := sim.New(crvdo.New(), integ, control.NewConstant(u))
		runner.AddMetric(metrics.NewAmplitude())
		runner.AddMetric(metrics.NewControlEffort())

		result, err := runner.Run(context.Background(), y0, params, sim.Config{Steps: 50})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKey("amplitude"))
		Expect(result.Metrics["control_effort"]).To(BeNumerically("~", 2*2*0.25, 1e-12))
	})

	It("extracts per-oscillator trajectories", func() {
		u := dynamo.ControlBatch{{0.5, 0, 0.5, 0}, {0.25, 0, 0.25, 0}}
		runner := sim.New(crvdo.New(), integ, control.NewConstant(u))

		result, err := runner.Run(context.Background(), y0, params, sim.Config{Steps: 10})
		Expect(err).NotTo(HaveOccurred())

		z1 := result.Trajectory(0, 0)
		Expect(z1).To(HaveLen(11))
		Expect(z1[0]).To(BeZero())
		Expect(z1[10]).To(Equal(result.States[10][0][0]))
	})

	It("supports early stop through the callback", func() {
		runner := sim.New(crvdo.New(), integ, nil)

		calls := 0
		err := runner.RunWithCallback(context.Background(), y0, params, sim.Config{Steps: 100},
			func(dynamo.StateBatch, dynamo.ControlBatch, float64) bool {
				calls++
				return calls < 5
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(5))
	})
})

var _ = Describe("Ensemble", func() {
	It("matches sequential runs per initial condition", func() {
		integ, err := integrators.NewRK4(1.0 / 128)
		Expect(err).NotTo(HaveOccurred())

		params := dynamo.ParamBatch{{1.25, 2.0, 1.0 / 16, 1.0, 0.25}}
		u := dynamo.ControlBatch{{0.5, 0, 0.5, 0}}
		inits := []dynamo.StateBatch{
			{{0, 0, 0, 0}},
			{{0.1, 0, 0.1, 0}},
			{{0.2, 0.1, 0, 0}},
		}

		base := sim.New(crvdo.New(), integ, control.NewConstant(u))
		ensemble := sim.NewEnsemble(base, inits, params)

		cfg := sim.Config{Steps: 50, ValidateState: true}
		results, err := ensemble.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, y0 := range inits {
			solo, err := sim.New(crvdo.New(), integ, control.NewConstant(u)).Run(context.Background(), y0, params, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].States[len(results[i].States)-1]).To(Equal(solo.States[len(solo.States)-1]))
		}
	})
})
