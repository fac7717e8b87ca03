package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 1.0 / 60.0
	DefaultSteps        = 600
	DefaultBodyCount    = 64
	DefaultConstraints  = 128
	DefaultSolverPasses = 8
	DefaultRelaxPasses  = 2
	DefaultSubsteps     = 1
)

// IterationCounts is the solver_iterations pair (n_solver, n_relax).
type IterationCounts struct {
	Solver int `yaml:"solver"`
	Relax  int `yaml:"relax"`
}

// WorldConfig fixes the capacity of every arena the world owns at
// construction: capacity never changes for the lifetime of a World.
type WorldConfig struct {
	BodyCount            int `yaml:"body_count"`
	ContactCount         int `yaml:"contact_count"`
	ConstraintCount      int `yaml:"constraint_count"`
	SmallConstraintCount int `yaml:"small_constraint_count"`
}

// StepConfig governs one call to World.Step.
type StepConfig struct {
	SolverIterations        IterationCounts `yaml:"solver_iterations"`
	SubstepCount            int             `yaml:"substep_count"`
	EnableAuxiliaryContacts bool            `yaml:"enable_auxiliary_contacts"`
	ThreadModel             string          `yaml:"thread_model"` // "persistent" | "regular"
	ThreadCount             int             `yaml:"thread_count"`
}

// Scenario is a runnable demo: which model to build (hinge,
// point_on_plane, chain), the world/step configuration, and how long to
// run it for.
type Scenario struct {
	Model   string     `yaml:"model"`
	World   WorldConfig `yaml:"world"`
	Step    StepConfig  `yaml:"step"`
	Gravity [3]float64  `yaml:"gravity"`
	Dt      float64     `yaml:"dt"`
	Steps   int         `yaml:"steps"`
	Seed    int64       `yaml:"seed"`
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		BodyCount:            DefaultBodyCount,
		ContactCount:         DefaultConstraints,
		ConstraintCount:      DefaultConstraints,
		SmallConstraintCount: DefaultConstraints,
	}
}

func DefaultStepConfig() StepConfig {
	return StepConfig{
		SolverIterations: IterationCounts{Solver: DefaultSolverPasses, Relax: DefaultRelaxPasses},
		SubstepCount:     DefaultSubsteps,
		ThreadModel:      "regular",
		ThreadCount:      1,
	}
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Model:   "hinge",
		World:   DefaultWorldConfig(),
		Step:    DefaultStepConfig(),
		Gravity: [3]float64{0, -9.81, 0},
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
