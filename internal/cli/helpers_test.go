package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	specsDir     = filepath.Join("..", "..", "testdata", "specs")
	leftFixture  = filepath.Join("..", "..", "testdata", "fixtures", "left.yaml")
	rightFixture = filepath.Join("..", "..", "testdata", "fixtures", "right.yaml")
)

// execute runs a command built by newCmd with args and returns stdout,
// stderr and the command error.
func execute(t *testing.T, newCmd func(*RootOptions) *cobra.Command, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := newCmd(opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeSnapshots writes the left and right fixtures into fresh snapshots.
func writeSnapshots(t *testing.T) (left, right string) {
	t.Helper()
	dir := t.TempDir()
	left = filepath.Join(dir, "left.db")
	right = filepath.Join(dir, "right.db")

	_, _, err := execute(t, NewSnapshotCommand, &RootOptions{Format: "text"}, specsDir, leftFixture, "--db", left)
	require.NoError(t, err)
	_, _, err = execute(t, NewSnapshotCommand, &RootOptions{Format: "text"}, specsDir, rightFixture, "--db", right)
	require.NoError(t, err)
	return left, right
}
