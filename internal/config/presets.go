package config

// Presets is a two-level model/variant table covering the three demo
// scenarios the CLI ships: hinge (free, limited, spinning), point-on-plane
// (resting, bouncing) and hinge chain (short, long). Variants differ only
// in gravity, step count and, for the chain, world capacity; the bodies
// and rows each model gets (including its hinge limits) are the same for
// every variant.
var Presets = map[string]map[string]*Scenario{
	"hinge": {
		"free": {
			Model: "hinge", World: DefaultWorldConfig(), Step: DefaultStepConfig(),
			Gravity: [3]float64{0, 0, 0}, Dt: DefaultDt, Steps: 300,
		},
		"limited": {
			Model: "hinge", World: DefaultWorldConfig(), Step: DefaultStepConfig(),
			Gravity: [3]float64{0, -9.81, 0}, Dt: DefaultDt, Steps: 600,
		},
		"spinning": {
			Model: "hinge", World: DefaultWorldConfig(), Step: DefaultStepConfig(),
			Gravity: [3]float64{0, 0, 0}, Dt: DefaultDt, Steps: 600,
		},
	},
	"point_on_plane": {
		"resting": {
			Model: "point_on_plane", World: DefaultWorldConfig(), Step: DefaultStepConfig(),
			Gravity: [3]float64{0, -9.81, 0}, Dt: DefaultDt, Steps: 300,
		},
		"bouncing": {
			Model: "point_on_plane", World: DefaultWorldConfig(), Step: DefaultStepConfig(),
			Gravity: [3]float64{0, -9.81, 0}, Dt: DefaultDt, Steps: 600,
		},
	},
	"chain": {
		"short": {
			Model: "chain", World: WorldConfig{BodyCount: 8, ContactCount: 16, ConstraintCount: 16, SmallConstraintCount: 16},
			Step: DefaultStepConfig(), Gravity: [3]float64{0, -9.81, 0}, Dt: DefaultDt, Steps: 600,
		},
		"long": {
			Model: "chain", World: WorldConfig{BodyCount: 32, ContactCount: 64, ConstraintCount: 64, SmallConstraintCount: 64},
			Step: DefaultStepConfig(), Gravity: [3]float64{0, -9.81, 0}, Dt: DefaultDt, Steps: 1200,
		},
	},
}

func GetPreset(model, variant string) *Scenario {
	variants, ok := Presets[model]
	if !ok {
		return nil
	}
	s, ok := variants[variant]
	if !ok {
		return nil
	}
	return s
}

func ListPresets(model string) []string {
	variants, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	return names
}
