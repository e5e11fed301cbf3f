package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/discern/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                  `json:"valid"`
	Entities int                   `json:"entities"`
	Rules    int                   `json:"rules"`
	Files    int                   `json:"files"`
	Cycles   []schema.CycleWarning `json:"cycles,omitempty"`
	Error    *LoadErrorInfo        `json:"error,omitempty"`
}

// LoadErrorInfo is the JSON form of a LoadError.
type LoadErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate entity and rule declarations",
		Long: `Compile the CUE entity and rule declarations in a directory.

Checks that every parent and relationship target exists, that inheritance
has no cycles, that attribute kinds are known and that every rule names
only declared entities, attributes and relationships. Relationship cycles
between entity types are reported; they are legal but make comparisons
recurse through the cycle strategy.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	pr := NewPrinter(cmd, opts)

	bundle, loadErr := LoadSpecs(specsDir)
	if loadErr != nil {
		switch loadErr.Code {
		case ErrCodeNotFound, ErrCodeScanError, ErrCodeNoFiles:
			return pr.Fail(loadErr.Code, loadErr.Message)
		}
		// Declaration errors are validation failures, not command errors.
		info := &LoadErrorInfo{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			info.Line = loadErr.Pos.Line()
		}
		return pr.Rejected(ValidationResult{Error: info}, info.Code, info.Message)
	}

	pr.Logf("Found %d CUE file(s) in %s", bundle.Files, specsDir)
	for _, name := range bundle.Model.Names() {
		pr.Logf("Entity: %s", name)
	}
	for _, u := range bundle.Units {
		pr.Logf("Rule: %s", u.Entity())
	}

	return pr.Result(ValidationResult{
		Valid:    true,
		Entities: len(bundle.Model.Names()),
		Rules:    len(bundle.Units),
		Files:    bundle.Files,
		Cycles:   bundle.Model.AnalyzeCycles(),
	})
}

func (r ValidationResult) writeText(w io.Writer) {
	if !r.Valid {
		fmt.Fprintf(w, "%s Validation failed\n\n", mark(false))
		if r.Error == nil {
			return
		}
		if r.Error.Line > 0 {
			fmt.Fprintf(w, "line %d\n", r.Error.Line)
		}
		fmt.Fprintf(w, "  %s: %s\n", r.Error.Code, r.Error.Message)
		return
	}
	fmt.Fprintf(w, "%s All specs valid (%d entities, %d rules)\n", mark(true), r.Entities, r.Rules)
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "  cycle: %s\n", c.Message)
	}
}
