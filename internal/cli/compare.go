package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/discern/internal/object"
)

// CompareResult is the outcome of one decision.
type CompareResult struct {
	Left        string `json:"left"`
	Right       string `json:"right"`
	Equivalent  bool   `json:"equivalent"`
	Profile     string `json:"profile"`
	Strategy    string `json:"strategy"`
	Comparisons int    `json:"comparisons"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecisionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <specs-dir> <left-id> <right-id>",
		Short: "Decide whether two stored records are equivalent",
		Long: `Decide whether an instance in the left snapshot and an instance in the
right snapshot represent the same record under the declared rules.

Exit codes:
  0 - Records are equivalent
  1 - Records differ
  2 - Command error (invalid paths, schema mismatch, unknown id, etc.)

Examples:
  discern compare ./specs al al-2 --left old.db --right new.db
  discern compare ./specs al al --left a.db --right b.db --profile demanding --strategy heuristic`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], args[2], cmd)
		},
	}

	addDecisionFlags(cmd, opts)
	return cmd
}

func runCompare(opts *DecisionOptions, specsDir, leftID, rightID string, cmd *cobra.Command) error {
	pr := NewPrinter(cmd, opts.RootOptions)
	ctx := cmd.Context()

	s, loadErr := openSession(ctx, opts, specsDir, pr)
	if loadErr != nil {
		return pr.Fail(loadErr.Code, loadErr.Message)
	}
	defer s.Close()

	left := object.Ref{Store: leftStore, ID: leftID}
	right := object.Ref{Store: rightStore, ID: rightID}

	equal, err := s.d.IsSimilar(ctx, left, right, !opts.NoCache)
	if err != nil {
		return pr.Fail(ErrCodeCompareFailed, err.Error())
	}

	result := CompareResult{
		Left:        left.String(),
		Right:       right.String(),
		Equivalent:  equal,
		Profile:     s.d.Profile().String(),
		Strategy:    s.d.Strategy().String(),
		Comparisons: s.d.Comparisons(),
	}
	if err := pr.Result(result); err != nil {
		return err
	}
	pr.Logf("%d pair comparison(s), profile %s, strategy %s",
		result.Comparisons, result.Profile, result.Strategy)

	if !equal {
		return NewExitError(ExitFailure, "records differ")
	}
	return nil
}

func (r CompareResult) writeText(w io.Writer) {
	verdict := "differ"
	if r.Equivalent {
		verdict = "are equivalent"
	}
	fmt.Fprintf(w, "%s %s and %s %s\n", mark(r.Equivalent), r.Left, r.Right, verdict)
}
