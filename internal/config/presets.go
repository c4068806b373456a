package config

import "sort"

// Presets are ready-made run configurations. "paper" reproduces the
// ten-oscillator run from the reference publication.
var Presets = map[string]*Config{
	"paper": {
		Dt: 1.0 / 128, Steps: 2000, Oscillators: 10,
		Integrator: "rk4", Controller: "constant",
		Params:  ParamConfig{A: 1.25, B: 2.0, CBase: 16, D: 1.0, E: 0.25},
		Control: ControlConfig{UBase: 2},
	},
	"single": {
		Dt: 1.0 / 128, Steps: 2000, Oscillators: 1,
		Integrator: "rk4", Controller: "constant",
		Params:  ParamConfig{A: 1.25, B: 2.0, CBase: 16, D: 1.0, E: 0.25},
		Control: ControlConfig{UBase: 2},
	},
	"unforced": {
		Dt: 1.0 / 128, Steps: 4000, Oscillators: 4,
		Integrator: "rk4", Controller: "none",
		Params: ParamConfig{A: 1.25, B: 2.0, CBase: 16, D: 1.0, E: 0.25},
		InitState: [][]float64{
			{0.1, 0.1, 0, 0},
			{0.2, 0.1, 0, 0},
			{0.1, 0.2, 0, 0},
			{0.2, 0.2, 0, 0},
		},
	},
	"driven": {
		Dt: 1.0 / 128, Steps: 8000, Oscillators: 4,
		Integrator: "rk4", Controller: "sinusoid",
		Params:  ParamConfig{A: 1.25, B: 2.0, CBase: 16, D: 1.0, E: 0.25},
		Control: ControlConfig{Amplitude: 0.5, Omega: 1.0},
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
