package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a simulation run described in YAML.
// Loaded from YAML via LoadScenario(path).
//
//	iterations: 1000000
//	seed: 42
//	parallel: true
//	decisions:
//	  - if: 1d20
//	    op: ">="
//	    value: 12
//	    then: 1d8,1d6
type Scenario struct {
	Version    string         `yaml:"version"`
	Seed       int64          `yaml:"seed"`
	Iterations int            `yaml:"iterations"`
	Parallel   bool           `yaml:"parallel"`
	Workers    int            `yaml:"workers,omitempty"`   // 0 = available parallelism
	Reduction  string         `yaml:"reduction,omitempty"` // "" = renormalize
	Dice       string         `yaml:"dice,omitempty"`
	Decisions  []DecisionSpec `yaml:"decisions,omitempty"`
}

// DecisionSpec is the textual form of a Decision.
type DecisionSpec struct {
	If    string `yaml:"if" json:"if"`
	Op    string `yaml:"op" json:"op"`
	Value int    `yaml:"value" json:"value"`
	Then  string `yaml:"then" json:"then"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Version == "" {
		sc.Version = "1"
	}
	return &sc, nil
}

// Validate checks that all fields in the scenario are valid.
func (s *Scenario) Validate() error {
	if s.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", s.Iterations)
	}
	if s.Workers < 0 || s.Workers > MaxWorkers {
		return fmt.Errorf("workers must be in [0, %d], got %d", MaxWorkers, s.Workers)
	}
	if !ValidReductionPolicies[s.Reduction] {
		return fmt.Errorf("unknown reduction %q; valid: renormalize, sum", s.Reduction)
	}
	if s.Dice != "" && len(s.Decisions) > 0 {
		return errors.New("dice and decisions are mutually exclusive")
	}
	if s.Dice == "" && len(s.Decisions) == 0 {
		return errors.New("one of dice or decisions is required")
	}
	for i, d := range s.Decisions {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("decision[%d]: %w", i, err)
		}
	}
	return nil
}

// Expression builds the Rollable the scenario describes: a DiceSet for
// dice, a DecisionSet for decisions.
func (s *Scenario) Expression() (Rollable, error) {
	if len(s.Decisions) == 0 {
		return ParseDiceSet(s.Dice), nil
	}
	return BuildDecisionSet(s.Decisions)
}

// ParallelConfig returns the engine configuration for the scenario.
func (s *Scenario) ParallelConfig() ParallelConfig {
	return ParallelConfig{
		Workers:   s.Workers,
		Key:       NewSimulationKey(s.Seed),
		Reduction: ReductionPolicy(s.Reduction),
	}
}

// Validate checks the operator token and threshold.
func (d DecisionSpec) Validate() error {
	if _, err := ParseComparison(d.Op); err != nil {
		return err
	}
	if d.Value < 0 {
		return fmt.Errorf("value must be non-negative, got %d", d.Value)
	}
	return nil
}

// Build parses both dice expressions and the operator into a Decision.
// Dice text is parsed tolerantly; only the operator can fail.
func (d DecisionSpec) Build() (Decision, error) {
	if err := d.Validate(); err != nil {
		return Decision{}, err
	}
	op, _ := ParseComparison(d.Op)
	return NewDecision(op, ParseDiceSet(d.If), d.Value, ParseDiceSet(d.Then)), nil
}

// BuildDecisionSet builds every spec in order.
func BuildDecisionSet(specs []DecisionSpec) (DecisionSet, error) {
	decisions := make([]Decision, len(specs))
	for i, spec := range specs {
		d, err := spec.Build()
		if err != nil {
			return DecisionSet{}, fmt.Errorf("decision[%d]: %w", i, err)
		}
		decisions[i] = d
	}
	return NewDecisionSet(decisions...), nil
}
