package analysis

import (
	"math"

	"github.com/oscillab/crvdo/internal/dynamo"
)

// SyncError measures how closely two oscillators of a recorded history
// track each other: the mean Euclidean distance between their state
// rows over the run. Zero means complete synchronization; for
// antiphase pairs compare against the mirrored row instead.
func SyncError(states []dynamo.StateBatch, i, j int) float64 {
	if len(states) == 0 || i >= len(states[0]) || j >= len(states[0]) {
		return math.NaN()
	}

	total := 0.0
	for _, batch := range states {
		sum := 0.0
		for k := 0; k < dynamo.StateDim; k++ {
			d := batch[i][k] - batch[j][k]
			sum += d * d
		}
		total += math.Sqrt(sum)
	}
	return total / float64(len(states))
}

// AntiphaseSyncError is SyncError with oscillator j negated, so it
// vanishes when the pair locks in antiphase.
func AntiphaseSyncError(states []dynamo.StateBatch, i, j int) float64 {
	if len(states) == 0 || i >= len(states[0]) || j >= len(states[0]) {
		return math.NaN()
	}

	total := 0.0
	for _, batch := range states {
		sum := 0.0
		for k := 0; k < dynamo.StateDim; k++ {
			d := batch[i][k] + batch[j][k]
			sum += d * d
		}
		total += math.Sqrt(sum)
	}
	return total / float64(len(states))
}
