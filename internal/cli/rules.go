package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/discern/internal/rules"
)

// EffectiveRules is the resolved rule set of the listed entity types.
type EffectiveRules struct {
	Profile  string            `json:"profile"`
	Entities []rules.Effective `json:"entities"`
}

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Profile    string
	Entity     string
	IgnoreWins bool
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules <specs-dir>",
		Short: "Show the effective rules of every entity type",
		Long: `Resolve the declared rules against the schema and print, per entity type,
whether it is ignored and which attributes and relationships a comparison
examines under the chosen profile. Inherited rules are included.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Profile, "profile", "semi-facilitating", "default for entities without rules (facilitating|semi-facilitating|demanding)")
	cmd.Flags().StringVar(&opts.Entity, "entity", "", "only show this entity type")
	cmd.Flags().BoolVar(&opts.IgnoreWins, "ignore-wins", true, "ignore beats include when one rule names both")

	return cmd
}

func runRules(opts *RulesOptions, specsDir string, cmd *cobra.Command) error {
	pr := NewPrinter(cmd, opts.RootOptions)

	profile, err := rules.ParseProfile(opts.Profile)
	if err != nil {
		return pr.Fail(ErrCodeInvalidFlag, err.Error())
	}

	bundle, loadErr := LoadSpecs(specsDir)
	if loadErr != nil {
		return pr.Fail(loadErr.Code, loadErr.Message)
	}

	reg := rules.NewRegistry(bundle.Model, profile, opts.IgnoreWins)
	for _, u := range bundle.Units {
		if err := reg.Register(u); err != nil {
			return pr.Fail(ErrCodeInvalidRule, err.Error())
		}
	}

	names := bundle.Model.Names()
	if opts.Entity != "" {
		if !knownEntity(bundle.Model, opts.Entity) {
			return pr.Fail(ErrCodeInvalidFlag, fmt.Sprintf("unknown entity %q", opts.Entity))
		}
		names = []string{opts.Entity}
	}

	result := EffectiveRules{Profile: profile.String(), Entities: make([]rules.Effective, 0, len(names))}
	for _, name := range names {
		result.Entities = append(result.Entities, reg.Resolve(name))
	}
	return pr.Result(result)
}

func (r EffectiveRules) writeText(w io.Writer) {
	fmt.Fprintf(w, "Profile: %s\n", r.Profile)
	for _, e := range r.Entities {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s%s\n", e.Entity, describeSource(e))
		if e.Ignored {
			continue
		}
		fmt.Fprintf(w, "  attributes:    %s\n", joinNames(e.Attributes))
		fmt.Fprintf(w, "  relationships: %s\n", joinNames(e.Relationships))
	}
}

func describeSource(e rules.Effective) string {
	var tags []string
	if e.Explicit {
		tags = append(tags, "rule")
	}
	if e.Ignored {
		tags = append(tags, "ignored")
	}
	if len(tags) == 0 {
		return ""
	}
	return " [" + strings.Join(tags, ", ") + "]"
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
