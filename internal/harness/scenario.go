package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/discern/internal/engine"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/rules"
)

// Scenario defines a conformance scenario: a schema with rules, the stores
// to compare and the decisions expected from a single discriminator.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is inline CUE declaring entities and optional rules.
	Schema string `yaml:"schema"`

	// Backend selects where stores live: "memory" (default) or "sqlite".
	Backend string `yaml:"backend,omitempty"`

	// Stores are the named object stores; check refs use "store/id".
	Stores []StoreSpec `yaml:"stores"`

	// Checks run in order against one discriminator, so the pair cache
	// carries from one check to the next unless a check flushes it.
	Checks []Check `yaml:"checks"`
}

// StoreSpec is one named store and its objects.
type StoreSpec struct {
	Name    string       `yaml:"name"`
	Objects []ObjectSpec `yaml:"objects"`
}

// ObjectSpec is one instance in a fixture.
type ObjectSpec struct {
	ID         string            `yaml:"id"`
	Entity     string            `yaml:"entity"`
	Attributes map[string]any    `yaml:"attributes,omitempty"`
	Links      map[string]IDList `yaml:"links,omitempty"`
}

// IDList holds related ids. In YAML it is a single id or a list of ids.
type IDList []string

// UnmarshalYAML accepts a scalar or a sequence.
func (l *IDList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var id string
		if err := node.Decode(&id); err != nil {
			return err
		}
		*l = IDList{id}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*l = ids
		return nil
	default:
		return fmt.Errorf("line %d: links must be an id or a list of ids", node.Line)
	}
}

// Check is one decision to make and its expected outcome.
type Check struct {
	// Name labels the check in results. Defaults to "left <-> right".
	Name string `yaml:"name,omitempty"`

	// Op is "similar" (default), "compare" or "attributes".
	Op string `yaml:"op,omitempty"`

	Left  string `yaml:"left"`
	Right string `yaml:"right"`

	// Profile and Strategy switch the discriminator before the check.
	// Empty keeps the current setting.
	Profile  string `yaml:"profile,omitempty"`
	Strategy string `yaml:"strategy,omitempty"`

	// Cache controls useCache for "similar". Default true.
	Cache *bool `yaml:"cache,omitempty"`

	// Flush empties the pair cache before the check.
	Flush bool `yaml:"flush,omitempty"`

	// Expect is the expected decision. Ignored when Error is set.
	Expect bool `yaml:"expect"`

	// Error, when set, is the substring the check's error must contain.
	Error string `yaml:"error,omitempty"`
}

// Check operations.
const (
	OpSimilar    = "similar"
	OpCompare    = "compare"
	OpAttributes = "attributes"
)

// Backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}

	switch s.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}

	if len(s.Stores) == 0 {
		return fmt.Errorf("stores list is required and must be non-empty")
	}
	if err := validateStores(s.Stores); err != nil {
		return err
	}

	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}
	for i := range s.Checks {
		if err := validateCheck(i, &s.Checks[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStores(stores []StoreSpec) error {
	seen := make(map[string]bool, len(stores))
	for i, st := range stores {
		if st.Name == "" {
			return fmt.Errorf("stores[%d]: name is required", i)
		}
		if seen[st.Name] {
			return fmt.Errorf("stores[%d]: duplicate store %q", i, st.Name)
		}
		seen[st.Name] = true

		ids := make(map[string]bool, len(st.Objects))
		for j, obj := range st.Objects {
			if obj.ID == "" {
				return fmt.Errorf("stores[%d].objects[%d]: id is required", i, j)
			}
			if obj.Entity == "" {
				return fmt.Errorf("stores[%d].objects[%d]: entity is required", i, j)
			}
			if ids[obj.ID] {
				return fmt.Errorf("stores[%d].objects[%d]: duplicate id %q", i, j, obj.ID)
			}
			ids[obj.ID] = true
		}
	}
	return nil
}

func validateCheck(index int, c *Check) error {
	switch c.Op {
	case "", OpSimilar, OpCompare, OpAttributes:
	default:
		return fmt.Errorf("checks[%d]: unknown op %q", index, c.Op)
	}
	if _, ok := object.ParseRef(c.Left); !ok {
		return fmt.Errorf("checks[%d]: left must be store/id, got %q", index, c.Left)
	}
	if _, ok := object.ParseRef(c.Right); !ok {
		return fmt.Errorf("checks[%d]: right must be store/id, got %q", index, c.Right)
	}
	if c.Profile != "" {
		if _, err := rules.ParseProfile(c.Profile); err != nil {
			return fmt.Errorf("checks[%d]: %w", index, err)
		}
	}
	if c.Strategy != "" {
		if _, err := engine.ParseStrategy(c.Strategy); err != nil {
			return fmt.Errorf("checks[%d]: %w", index, err)
		}
	}
	return nil
}
