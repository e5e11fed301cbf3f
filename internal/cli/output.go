package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Exit codes shared by every command.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // records differ, declarations invalid or scenarios failed
	ExitCommandError = 2 // bad paths, flags, snapshots or ids
)

// ExitError carries the process exit code for a command error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError with a plain message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Err: errors.New(message)}
}

// WrapExitError returns an ExitError wrapping err under message.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf("%s: %w", message, err)}
}

// GetExitCode maps err to a process exit code. Errors that are not
// ExitErrors (flag parsing, cobra usage) count as failures.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope is the JSON document every command prints in json format.
type Envelope struct {
	Status string   `json:"status"` // "ok" or "error"
	Data   any      `json:"data,omitempty"`
	Error  *Problem `json:"error,omitempty"`
}

// Problem describes a failed command in an Envelope.
type Problem struct {
	Code    string `json:"code"` // E001, E202, ...
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// textResult is a command result with a human-readable rendering.
type textResult interface {
	writeText(w io.Writer)
}

// Printer writes command results to stdout and diagnostics to stderr.
// In json format every result is wrapped in an Envelope, so stdout stays
// parseable while verbose output goes to Diag.
type Printer struct {
	Format  string
	Out     io.Writer
	Diag    io.Writer
	Verbose bool
}

// NewPrinter builds a Printer over cmd's streams.
func NewPrinter(cmd *cobra.Command, opts *RootOptions) *Printer {
	return &Printer{
		Format:  opts.Format,
		Out:     cmd.OutOrStdout(),
		Diag:    cmd.ErrOrStderr(),
		Verbose: opts.Verbose,
	}
}

// JSON reports whether results are printed as JSON envelopes.
func (p *Printer) JSON() bool { return p.Format == "json" }

// Result prints r as an ok envelope or in its text form.
func (p *Printer) Result(r textResult) error {
	if p.JSON() {
		return p.encode(Envelope{Status: "ok", Data: r})
	}
	r.writeText(p.Out)
	return nil
}

// Rejected prints a result that failed its check, such as an invalid
// declaration set or a failed scenario run, and returns an ExitFailure
// error. The json envelope carries both r and the error.
func (p *Printer) Rejected(r textResult, code, message string) error {
	if p.JSON() {
		env := Envelope{Status: "error", Data: r, Error: &Problem{Code: code, Message: message}}
		if err := p.encode(env); err != nil {
			return err
		}
	} else {
		r.writeText(p.Out)
	}
	return NewExitError(ExitFailure, message)
}

// Problem prints a command error without deciding the exit code.
// Details are shown in text format only when verbose.
func (p *Printer) Problem(code, message string, details any) error {
	if p.JSON() {
		return p.encode(Envelope{Status: "error", Error: &Problem{Code: code, Message: message, Details: details}})
	}
	fmt.Fprintf(p.Out, "Error [%s]: %s\n", code, message)
	if p.Verbose && details != nil {
		fmt.Fprintf(p.Out, "Details: %v\n", details)
	}
	return nil
}

// Fail prints a command error and returns it with ExitCommandError.
func (p *Printer) Fail(code, message string) error {
	_ = p.Problem(code, message, nil)
	return NewExitError(ExitCommandError, code+": "+message)
}

// Logf writes a diagnostic line when verbose.
func (p *Printer) Logf(format string, args ...any) {
	if p.Verbose {
		fmt.Fprintf(p.Diag, format+"\n", args...)
	}
}

// Logger returns a debug logger writing to Diag when verbose, and a
// discarding logger otherwise.
func (p *Printer) Logger() *slog.Logger {
	if !p.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(p.Diag, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (p *Printer) encode(v Envelope) error {
	enc := json.NewEncoder(p.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// mark renders a pass/fail glyph.
func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
