package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

// TimeSeries renders a scalar trajectory as an ASCII line graph.
func TimeSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Downsample keeps every k-th point so long runs fit a terminal plot.
func Downsample(data []float64, maxPoints int) []float64 {
	if maxPoints <= 0 || len(data) <= maxPoints {
		return data
	}
	stride := (len(data) + maxPoints - 1) / maxPoints
	out := make([]float64, 0, maxPoints)
	for i := 0; i < len(data); i += stride {
		out = append(out, data[i])
	}
	return out
}

// ComponentCaption labels a plot for component idx of oscillator osc.
func ComponentCaption(osc, idx int) string {
	return fmt.Sprintf("oscillator %d  z%d", osc+1, idx+1)
}
