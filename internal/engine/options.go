package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/discern/internal/rules"
)

// Strategy selects how recursive comparisons deal with cyclic graphs.
type Strategy int

const (
	// Exact tracks pairs on the recursion stack. The default.
	Exact Strategy = iota
	// Heuristic tracks every pair in a run and caps recursion depth.
	Heuristic
)

// String returns the strategy's flag name.
func (s Strategy) String() string {
	switch s {
	case Exact:
		return "exact"
	case Heuristic:
		return "heuristic"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy parses "exact" or "heuristic" (case-insensitive).
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return Exact, nil
	case "heuristic":
		return Heuristic, nil
	default:
		return Exact, fmt.Errorf("unknown strategy %q: must be exact or heuristic", s)
	}
}

// DefaultMaxDepth is the default recursion cap of the heuristic strategy.
const DefaultMaxDepth = 64

// Option configures a Discriminator.
type Option func(*Discriminator)

// WithProfile sets the initial strictness profile.
// Default: rules.SemiFacilitating.
func WithProfile(p rules.Profile) Option {
	return func(d *Discriminator) {
		d.registry.SetProfile(p)
	}
}

// WithIgnoreWins sets whether ignore beats include when one unit names an
// attribute or relationship in both lists. Default: true.
func WithIgnoreWins(ignoreWins bool) Option {
	return func(d *Discriminator) {
		d.registry.SetIgnoreWins(ignoreWins)
	}
}

// WithStrategy selects the cycle strategy. Default: Exact.
func WithStrategy(s Strategy) Option {
	return func(d *Discriminator) {
		d.strategy = s
	}
}

// WithMaxDepth sets the heuristic recursion cap. Zero or negative disables
// the cap. Ignored by the exact strategy.
func WithMaxDepth(n int) Option {
	return func(d *Discriminator) {
		d.maxDepth = n
	}
}

// WithLogger sets the logger used for diagnostics and enables logging.
func WithLogger(l *slog.Logger) Option {
	return func(d *Discriminator) {
		d.logger = l
		d.logging = true
	}
}
