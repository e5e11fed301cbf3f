package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// MatchPair is the decision for one left instance. Right is empty when no
// right instance is equivalent.
type MatchPair struct {
	Left    string `json:"left"`
	Right   string `json:"right,omitempty"`
	Matched bool   `json:"matched"`
}

// MatchResult summarizes a match run.
type MatchResult struct {
	Entity      string      `json:"entity"`
	Pairs       []MatchPair `json:"pairs"`
	Matched     int         `json:"matched"`
	Unmatched   int         `json:"unmatched"`
	Comparisons int         `json:"comparisons"`
	CacheLen    int         `json:"cache_len"`
}

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	DecisionOptions
	Entity string
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{DecisionOptions: DecisionOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "match <specs-dir>",
		Short: "Find an equivalent right instance for every left instance",
		Long: `For every left instance of an entity type, report the first right
instance of the same type that is equivalent, in snapshot order.

This is the reuse-or-create decision an import makes: a matched instance
would be reused, an unmatched one created. One discriminator serves the
whole run, so related pairs decided once are answered from the pair cache
afterwards (unless --no-cache).

Examples:
  discern match ./specs --left import.db --right existing.db --entity Person`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args[0], cmd)
		},
	}

	addDecisionFlags(cmd, &opts.DecisionOptions)
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "entity type to match (required)")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

func runMatch(opts *MatchOptions, specsDir string, cmd *cobra.Command) error {
	pr := NewPrinter(cmd, opts.RootOptions)
	ctx := cmd.Context()

	s, loadErr := openSession(ctx, &opts.DecisionOptions, specsDir, pr)
	if loadErr != nil {
		return pr.Fail(loadErr.Code, loadErr.Message)
	}
	defer s.Close()

	if !knownEntity(s.model, opts.Entity) {
		return pr.Fail(ErrCodeInvalidFlag, fmt.Sprintf("unknown entity %q", opts.Entity))
	}

	lefts, err := s.left.ListObjects(ctx, opts.Entity)
	if err != nil {
		return pr.Fail(ErrCodeLoadFailed, err.Error())
	}
	rights, err := s.right.ListObjects(ctx, opts.Entity)
	if err != nil {
		return pr.Fail(ErrCodeLoadFailed, err.Error())
	}

	result := MatchResult{Entity: opts.Entity, Pairs: make([]MatchPair, 0, len(lefts))}
	for _, l := range lefts {
		pair := MatchPair{Left: l.String()}
		for _, r := range rights {
			equal, err := s.d.IsSimilar(ctx, l, r, !opts.NoCache)
			if err != nil {
				return pr.Fail(ErrCodeCompareFailed, err.Error())
			}
			if equal {
				pair.Right = r.String()
				pair.Matched = true
				break
			}
		}
		if pair.Matched {
			result.Matched++
		} else {
			result.Unmatched++
		}
		result.Pairs = append(result.Pairs, pair)
	}
	result.Comparisons = s.d.Comparisons()
	result.CacheLen = s.d.CacheLen()

	if err := pr.Result(result); err != nil {
		return err
	}
	pr.Logf("%d pair comparison(s), %d cached result(s)", result.Comparisons, result.CacheLen)
	return nil
}

func (r MatchResult) writeText(w io.Writer) {
	for _, p := range r.Pairs {
		if p.Matched {
			fmt.Fprintf(w, "%s %s -> %s\n", mark(true), p.Left, p.Right)
		} else {
			fmt.Fprintf(w, "%s %s (no match)\n", mark(false), p.Left)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d matched, %d unmatched\n", r.Matched, r.Unmatched)
}
