package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/discern/internal/ir"
)

// DecisionSnapshot captures the decisions of a scenario run.
// Counters are left out: they measure the algorithm, not its answers.
type DecisionSnapshot struct {
	Scenario string
	Pass     bool
	Checks   []CheckResult
}

// toCanonicalMap converts a DecisionSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles IR types and primitives.
func (s *DecisionSnapshot) toCanonicalMap() map[string]any {
	checks := make([]any, len(s.Checks))
	for i, c := range s.Checks {
		m := map[string]any{
			"name":     c.Name,
			"op":       c.Op,
			"left":     c.Left,
			"right":    c.Right,
			"profile":  c.Profile,
			"strategy": c.Strategy,
			"got":      c.Got,
			"pass":     c.Pass,
		}
		if c.Error != "" {
			m["error"] = c.Error
		}
		checks[i] = m
	}

	return map[string]any{
		"scenario": s.Scenario,
		"pass":     s.Pass,
		"checks":   checks,
	}
}

// MarshalDecisions renders the decisions of result as canonical JSON, the
// golden file format.
func MarshalDecisions(name string, result *Result) ([]byte, error) {
	snapshot := DecisionSnapshot{
		Scenario: name,
		Pass:     result.Pass,
		Checks:   result.Checks,
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its decisions against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the decisions don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalDecisions(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
