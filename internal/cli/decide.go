package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/discern/internal/engine"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/rules"
	"github.com/roach88/discern/internal/schema"
	"github.com/roach88/discern/internal/store"
)

// Store names used in refs for the two snapshots a decision reads.
const (
	leftStore  = "left"
	rightStore = "right"
)

// DecisionOptions holds flags shared by commands that compare snapshots.
type DecisionOptions struct {
	*RootOptions
	Left       string // left snapshot path
	Right      string // right snapshot path
	Profile    string
	Strategy   string
	MaxDepth   int
	NoCache    bool
	IgnoreWins bool
}

func addDecisionFlags(cmd *cobra.Command, opts *DecisionOptions) {
	cmd.Flags().StringVar(&opts.Left, "left", "", "left snapshot database (required)")
	cmd.Flags().StringVar(&opts.Right, "right", "", "right snapshot database (required)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "semi-facilitating", "default for entities without rules (facilitating|semi-facilitating|demanding)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "exact", "cycle strategy (exact|heuristic)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", engine.DefaultMaxDepth, "recursion cap for the heuristic strategy (0 disables)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "do not read or fill the pair cache")
	cmd.Flags().BoolVar(&opts.IgnoreWins, "ignore-wins", true, "ignore beats include when one rule names both")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")
}

// engineOptions turns the flags into discriminator options that log
// comparison details through logger.
func (o *DecisionOptions) engineOptions(logger *slog.Logger) ([]engine.Option, error) {
	profile, err := rules.ParseProfile(o.Profile)
	if err != nil {
		return nil, err
	}
	strategy, err := engine.ParseStrategy(o.Strategy)
	if err != nil {
		return nil, err
	}
	if o.MaxDepth < 0 {
		return nil, fmt.Errorf("max-depth must not be negative, got %d", o.MaxDepth)
	}

	return []engine.Option{
		engine.WithProfile(profile),
		engine.WithStrategy(strategy),
		engine.WithMaxDepth(o.MaxDepth),
		engine.WithIgnoreWins(o.IgnoreWins),
		engine.WithLogger(logger),
	}, nil
}

// session is an open pair of snapshots plus a discriminator over them.
type session struct {
	model       *schema.Model
	left, right *store.Store
	d           *engine.Discriminator
}

func (s *session) Close() {
	s.left.Close()
	s.right.Close()
}

// openSession opens both snapshots, checks their recorded schema and
// builds a discriminator with the bundle's rules registered. The returned
// LoadError carries the CLI error code.
func openSession(ctx context.Context, opts *DecisionOptions, specsDir string, pr *Printer) (*session, *LoadError) {
	bundle, loadErr := LoadSpecs(specsDir)
	if loadErr != nil {
		return nil, loadErr
	}

	engineOpts, err := opts.engineOptions(pr.Logger())
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidFlag, Message: err.Error()}
	}

	hash, err := bundle.Model.Hash()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}

	left, loadErr := openSnapshot(ctx, leftStore, opts.Left, hash, pr)
	if loadErr != nil {
		return nil, loadErr
	}
	right, loadErr := openSnapshot(ctx, rightStore, opts.Right, hash, pr)
	if loadErr != nil {
		left.Close()
		return nil, loadErr
	}

	router := object.NewRouter().Route(leftStore, left).Route(rightStore, right)
	d := engine.New(bundle.Model, router, engineOpts...)
	d.SetLoggingEnabled(opts.Verbose)
	for _, u := range bundle.Units {
		if err := d.Register(u); err != nil {
			left.Close()
			right.Close()
			return nil, &LoadError{Code: ErrCodeInvalidRule, Message: err.Error()}
		}
	}
	return &session{model: bundle.Model, left: left, right: right, d: d}, nil
}

// openSnapshot opens an existing snapshot and verifies that it was written
// under the same schema. A snapshot without a recorded hash is accepted.
func openSnapshot(ctx context.Context, name, path, wantHash string, pr *Printer) (*store.Store, *LoadError) {
	if _, err := os.Stat(path); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s snapshot not found: %s", name, path)}
	}

	st, err := store.Open(name, path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("opening %s snapshot: %v", name, err)}
	}

	got, ok, err := st.SchemaHash(ctx)
	if err != nil {
		st.Close()
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s schema hash: %v", name, err)}
	}
	if !ok {
		pr.Logf("%s snapshot %s has no recorded schema hash", name, path)
		return st, nil
	}
	if got != wantHash {
		st.Close()
		return nil, &LoadError{
			Code:    ErrCodeSchemaMismatch,
			Message: fmt.Sprintf("%s snapshot %s was written under a different schema", name, path),
		}
	}
	return st, nil
}

// knownEntity reports whether entity is declared, for flag validation.
func knownEntity(p schema.Provider, entity string) bool {
	_, ok := p.Entity(entity)
	return ok
}
