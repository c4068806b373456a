package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oscillab/crvdo/internal/dynamo"
	"github.com/oscillab/crvdo/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		States: []dynamo.StateBatch{
			{{0, 0, 0, 0}, {0, 0, 0, 0}},
			{{0.00390625, 0, 0.0009765625, 0}, {0.125, -0.25, 0.5, 1}},
		},
		Times:      []float64{0, 1.0 / 128},
		Metrics:    map[string]float64{"amplitude": 1.0},
		StepsTaken: 1,
	}
}

func sampleParams() dynamo.ParamBatch {
	return dynamo.ParamBatch{
		{1.25, 2.0, 1.0 / 16, 1.0, 0.25},
		{1.25, 2.0, 1.0 / 17, 1.0, 0.25},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(1.0/128, "rk4", "constant", sampleParams(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Oscillators != 2 {
		t.Errorf("expected 2 oscillators, got %d", meta.Oscillators)
	}
	if meta.Integrator != "rk4" || meta.Controller != "constant" {
		t.Errorf("metadata wrong: %+v", meta)
	}
	if meta.Metrics["amplitude"] != 1.0 {
		t.Errorf("expected amplitude 1.0, got %f", meta.Metrics["amplitude"])
	}
	if len(meta.Params) != 2 || meta.Params[1][2] != 1.0/17 {
		t.Errorf("params not preserved: %v", meta.Params)
	}
}

func TestStoreStatesRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	want := sampleResult()
	runID, err := st.Save(1.0/128, "rk4", "constant", sampleParams(), want)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 rows, got %d states, %d times", len(states), len(times))
	}

	// 'g'/17 formatting preserves float64 exactly.
	for k := range want.States {
		if times[k] != want.Times[k] {
			t.Errorf("row %d: time %v != %v", k, times[k], want.Times[k])
		}
		for i := range want.States[k] {
			if states[k][i] != want.States[k][i] {
				t.Errorf("row %d osc %d: %v != %v", k, i, states[k][i], want.States[k][i])
			}
		}
	}
}

func TestStoreRejectsEmptyRun(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := st.Save(1.0/128, "rk4", "none", nil, &sim.Result{}); err == nil {
		t.Error("expected error saving empty run")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(1.0/128, "rk4", "constant", sampleParams(), sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(1.0/128, "rk4", "constant", sampleParams(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, "rk4", "constant", 1.0/128, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if data.Oscillators != 2 || data.Steps != 1 {
		t.Errorf("export header wrong: %+v", data)
	}
	if len(data.States) != 2 || len(data.States[1]) != 2 || len(data.States[1][0]) != 4 {
		t.Errorf("export states shape wrong")
	}
	if data.States[1][1][3] != 1 {
		t.Errorf("expected z4 of oscillator 1 to be 1, got %v", data.States[1][1][3])
	}
}
