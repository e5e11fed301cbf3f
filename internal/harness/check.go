package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/discern/internal/engine"
	"github.com/roach88/discern/internal/object"
	"github.com/roach88/discern/internal/rules"
)

// runCheck applies the check's settings to d and makes its decision.
// Comparison errors are part of the outcome; the returned error is only
// for checks that cannot be run at all.
func runCheck(ctx context.Context, d *engine.Discriminator, c Check) (CheckResult, error) {
	left, _ := object.ParseRef(c.Left)
	right, _ := object.ParseRef(c.Right)

	if c.Flush {
		d.FlushCache()
	}
	if c.Profile != "" {
		p, err := rules.ParseProfile(c.Profile)
		if err != nil {
			return CheckResult{}, err
		}
		if p != d.Profile() {
			d.SetProfile(p)
		}
	}
	if c.Strategy != "" {
		s, err := engine.ParseStrategy(c.Strategy)
		if err != nil {
			return CheckResult{}, err
		}
		d.SetStrategy(s)
	}

	op := c.Op
	if op == "" {
		op = OpSimilar
	}

	var got bool
	var err error
	switch op {
	case OpSimilar:
		useCache := c.Cache == nil || *c.Cache
		got, err = d.IsSimilar(ctx, left, right, useCache)
	case OpCompare:
		got, err = d.Compare(ctx, left, right)
	case OpAttributes:
		got, err = d.HaveSameAttributes(ctx, left, right)
	default:
		return CheckResult{}, fmt.Errorf("unknown op %q", op)
	}

	cr := CheckResult{
		Name:     c.Name,
		Op:       op,
		Left:     c.Left,
		Right:    c.Right,
		Profile:  d.Profile().String(),
		Strategy: d.Strategy().String(),
		Expect:   c.Expect,
		Got:      got,
	}
	if cr.Name == "" {
		cr.Name = c.Left + " <-> " + c.Right
	}

	switch {
	case err != nil:
		cr.Error = err.Error()
		cr.Pass = c.Error != "" && strings.Contains(cr.Error, c.Error)
	case c.Error != "":
		cr.Pass = false
	default:
		cr.Pass = got == c.Expect
	}
	return cr, nil
}

func describeFailure(cr CheckResult) string {
	if cr.Error != "" {
		return fmt.Sprintf("%s: unexpected error: %s", cr.Name, cr.Error)
	}
	if cr.Got == cr.Expect {
		return fmt.Sprintf("%s: expected an error, got %v", cr.Name, cr.Got)
	}
	return fmt.Sprintf("%s: expected %v, got %v", cr.Name, cr.Expect, cr.Got)
}
