package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/oscillab/crvdo/internal/sim"
)

type ExportData struct {
	Integrator  string             `json:"integrator"`
	Controller  string             `json:"controller"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Oscillators int                `json:"oscillators"`
	Times       []float64          `json:"times"`
	States      [][][]float64      `json:"states"`
	Metrics     map[string]float64 `json:"metrics"`
}

func buildExport(integrator, controller string, dt float64, result *sim.Result) ExportData {
	n := 0
	if len(result.States) > 0 {
		n = len(result.States[0])
	}

	data := ExportData{
		Integrator:  integrator,
		Controller:  controller,
		Dt:          dt,
		Steps:       result.StepsTaken,
		Oscillators: n,
		Times:       result.Times,
		States:      make([][][]float64, len(result.States)),
		Metrics:     result.Metrics,
	}

	for k, batch := range result.States {
		rows := make([][]float64, len(batch))
		for i := range batch {
			row := make([]float64, len(batch[i]))
			copy(row, batch[i][:])
			rows[i] = row
		}
		data.States[k] = rows
	}

	return data
}

// ExportJSON writes a full run as indented JSON to w.
func ExportJSON(w io.Writer, integrator, controller string, dt float64, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExport(integrator, controller, dt, result))
}

// ExportJSONFile writes a full run as indented JSON to path.
func ExportJSONFile(path, integrator, controller string, dt float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, integrator, controller, dt, result)
}
