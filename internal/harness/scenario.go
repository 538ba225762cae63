package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vera/internal/engine"
	"github.com/roach88/vera/internal/ir"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is inline Vera source text.
	Source string `yaml:"source,omitempty"`

	// SourceFile is a path to a Vera source file, relative to the scenario
	// file. Exactly one of Source and SourceFile must be set.
	SourceFile string `yaml:"source_file,omitempty"`

	// ImplicitConstants enables "symbol:N" counts. Default: true.
	ImplicitConstants *bool `yaml:"implicit_constants,omitempty"`

	// Variables runs the variables pass before evaluation.
	Variables bool `yaml:"variables,omitempty"`

	// Force generates every transfer rule in the variables pass.
	Force bool `yaml:"force,omitempty"`

	// MaxSteps bounds evaluation. Unset means run to the fixed point; 0
	// takes no step.
	MaxSteps *int `yaml:"max_steps,omitempty"`

	// Limits overrides the harness capacity limits for this scenario.
	Limits *ir.Limits `yaml:"limits,omitempty"`

	// RoundTrip also compiles the program to Go and checks that executing
	// it yields the interpreter's final values.
	RoundTrip bool `yaml:"round_trip,omitempty"`

	// RunID is an optional fixed run ID for deterministic golden output.
	RunID string `yaml:"run_id,omitempty"`

	// Expect describes the required outcome.
	Expect Expect `yaml:"expect"`

	// dir is the directory of the scenario file, for SourceFile.
	dir string
}

// Expect is the outcome a scenario requires. Unset fields are not checked.
type Expect struct {
	// Final is the exact final bag. Symbols not listed must be zero;
	// listing a symbol with 0 is allowed.
	Final map[string]int `yaml:"final,omitempty"`

	// Steps is the number of firings.
	Steps *int `yaml:"steps,omitempty"`

	// Fired is the sequence of fired rule indices.
	Fired []int `yaml:"fired,omitempty"`

	// Error is the error kind the run must fail with, e.g.
	// UNTERMINATED_RULE or IDENTIFIER_COLLISION.
	Error string `yaml:"error,omitempty"`
}

// StepLimit returns the evaluation limit, engine.Unbounded when MaxSteps is
// unset.
func (s *Scenario) StepLimit() int {
	if s.MaxSteps == nil {
		return engine.Unbounded
	}
	return *s.MaxSteps
}

// ImplicitConstantsEnabled reports the effective implicit constants setting.
func (s *Scenario) ImplicitConstantsEnabled() bool {
	return s.ImplicitConstants == nil || *s.ImplicitConstants
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)

	if s.SourceFile != "" {
		if _, err := os.Stat(s.sourcePath()); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: source file not found: %s", s.sourcePath())
		}
	}
	return s, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// sourcePath resolves SourceFile against the scenario directory.
func (s *Scenario) sourcePath() string {
	if filepath.IsAbs(s.SourceFile) || s.dir == "" {
		return s.SourceFile
	}
	return filepath.Join(s.dir, s.SourceFile)
}

// source returns the Vera program text.
func (s *Scenario) source() ([]byte, error) {
	if s.SourceFile == "" {
		return []byte(s.Source), nil
	}
	data, err := os.ReadFile(s.sourcePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	return data, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Source == "" && s.SourceFile == "":
		return fmt.Errorf("one of source or source_file is required")
	case s.Source != "" && s.SourceFile != "":
		return fmt.Errorf("source and source_file are mutually exclusive")
	}

	if s.MaxSteps != nil && *s.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative")
	}
	if s.Force && !s.Variables {
		return fmt.Errorf("force requires variables")
	}
	if s.RoundTrip && s.MaxSteps != nil {
		return fmt.Errorf("round_trip requires an unbounded run (max_steps must be unset)")
	}

	e := s.Expect
	if e.Final == nil && e.Steps == nil && e.Fired == nil && e.Error == "" {
		return fmt.Errorf("expect must set at least one of final, steps, fired, error")
	}
	if e.Error != "" && (e.Final != nil || e.Steps != nil || e.Fired != nil) {
		return fmt.Errorf("expect.error cannot be combined with final, steps or fired")
	}
	if e.Error != "" && !knownErrorKind(e.Error) {
		return fmt.Errorf("expect.error: unknown error kind %q", e.Error)
	}
	if e.Steps != nil && *e.Steps < 0 {
		return fmt.Errorf("expect.steps must be non-negative")
	}
	for name, n := range e.Final {
		if n < 0 {
			return fmt.Errorf("expect.final[%q]: count must be non-negative", name)
		}
	}
	return nil
}
