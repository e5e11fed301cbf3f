package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_Equivalent(t *testing.T) {
	left, right := writeSnapshots(t)

	out, _, err := execute(t, NewCompareCommand, &RootOptions{Format: "text"},
		specsDir, "al", "p1", "--left", left, "--right", right)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ left/al and right/p1 are equivalent")
}

func TestCompare_Differ(t *testing.T) {
	left, right := writeSnapshots(t)

	out, _, err := execute(t, NewCompareCommand, &RootOptions{Format: "text"},
		specsDir, "cy", "p3", "--left", left, "--right", right)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ left/cy and right/p3 differ")
}

func TestCompare_JSON(t *testing.T) {
	left, right := writeSnapshots(t)

	out, _, err := execute(t, NewCompareCommand, &RootOptions{Format: "json"},
		specsDir, "al", "p1", "--left", left, "--right", right, "--strategy", "heuristic")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   CompareResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Equivalent)
	assert.Equal(t, "heuristic", resp.Data.Strategy)
	assert.Equal(t, "semi-facilitating", resp.Data.Profile)
	assert.Positive(t, resp.Data.Comparisons)
}

func TestCompare_ProfilesAndEntityTypes(t *testing.T) {
	left, right := writeSnapshots(t)

	_, _, err := execute(t, NewCompareCommand, &RootOptions{Format: "text"},
		specsDir, "home", "a1", "--left", left, "--right", right, "--profile", "demanding")
	require.NoError(t, err)

	_, _, err = execute(t, NewCompareCommand, &RootOptions{Format: "text"},
		specsDir, "home", "p1", "--left", left, "--right", right, "--profile", "facilitating")
	require.Error(t, err, "instances of different entity types never match")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCompare_VerboseLogsDecision(t *testing.T) {
	left, right := writeSnapshots(t)

	_, errOut, err := execute(t, NewCompareCommand, &RootOptions{Format: "text", Verbose: true},
		specsDir, "al", "p1", "--left", left, "--right", right)
	require.NoError(t, err)
	assert.Contains(t, errOut, "comparison finished")
	assert.Contains(t, errOut, "pair comparison(s)")
}

func TestCompare_Errors(t *testing.T) {
	left, right := writeSnapshots(t)

	other := t.TempDir()
	writeSpec(t, other, "specs.cue", "package specs\n\nentity: Thing: attributes: label: string\n")

	tests := []struct {
		name string
		args []string
		code string
	}{
		{
			name: "missing left snapshot",
			args: []string{specsDir, "al", "p1", "--left", filepath.Join(t.TempDir(), "x.db"), "--right", right},
			code: ErrCodeNotFound,
		},
		{
			name: "schema mismatch",
			args: []string{other, "al", "p1", "--left", left, "--right", right},
			code: ErrCodeSchemaMismatch,
		},
		{
			name: "unknown profile",
			args: []string{specsDir, "al", "p1", "--left", left, "--right", right, "--profile", "strict"},
			code: ErrCodeInvalidFlag,
		},
		{
			name: "unknown strategy",
			args: []string{specsDir, "al", "p1", "--left", left, "--right", right, "--strategy", "bfs"},
			code: ErrCodeInvalidFlag,
		},
		{
			name: "negative depth",
			args: []string{specsDir, "al", "p1", "--left", left, "--right", right, "--max-depth", "-1"},
			code: ErrCodeInvalidFlag,
		},
		{
			name: "unknown id",
			args: []string{specsDir, "al", "nobody", "--left", left, "--right", right},
			code: ErrCodeCompareFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewCompareCommand, &RootOptions{Format: "text"}, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, out, tt.code)
		})
	}
}
