package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure, empty result set or interruption
	ExitCommandError = 2 // Command error (unreadable model, cache failure, etc.)
)

// Error codes of structured error responses.
const (
	CodeValidation  = "E_VALIDATION"  // bad flag, configuration or constraint
	CodeEmpty       = "E_EMPTY"       // nothing left to display
	CodeInterrupted = "E_INTERRUPTED" // CTRL+C or SIGTERM
	CodeCommand     = "E_COMMAND"     // unreadable model, cache failure, etc.
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
	Reason  string // Error code reported in structured output (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// emptyResult reports a command that has nothing left to display.
func emptyResult(message string, err error) *ExitError {
	return &ExitError{Code: ExitFailure, Message: message, Err: err, Reason: CodeEmpty}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
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

// ErrorCode classifies err for structured error responses.
func ErrorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		switch {
		case exitErr.Reason != "":
			return exitErr.Reason
		case exitErr.Code == ExitCommandError:
			return CodeCommand
		}
		return CodeValidation
	}
	if errors.Is(err, context.Canceled) {
		return CodeInterrupted
	}
	// cobra usage errors: unknown flag, bad argument count
	return CodeValidation
}

// Report prints the error a command run ended with and returns the process
// exit code. JSON and YAML formats render the error response on stdout,
// text prints it on stderr. A cancelled ctx always exits with ExitFailure.
func Report(ctx context.Context, opts *RootOptions, err error, stdout, stderr io.Writer) int {
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	if ctx.Err() != nil {
		if opts.Logger != nil {
			opts.Logger.Error("Detected CTRL+C, exiting...")
			_ = opts.Logger.Sync()
		} else {
			fmt.Fprintln(stderr, "Detected CTRL+C, exiting...")
		}
		if ErrorCode(err) != CodeInterrupted {
			err = interrupted(err)
		}
		code = ExitFailure
	}

	switch opts.Format {
	case "json", "yaml":
		f := &OutputFormatter{Format: opts.Format, Writer: stdout}
		if ferr := f.Error(ErrorCode(err), err.Error(), map[string]int{"exit_code": code}); ferr == nil {
			return code
		}
	}
	fmt.Fprintln(stderr, "Error:", err)
	return code
}

// OutputFormatter renders command results as text, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard structured response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`                   // "ok" or "error"
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Details any    `json:"details,omitempty" yaml:"details,omitempty"`
}

// Success outputs a successful result in the configured format. Text output
// prints data with its String method when it has one.
func (f *OutputFormatter) Success(data any) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}

	// Human-readable text output
	if s, ok := data.(fmt.Stringer); ok {
		_, err := io.WriteString(f.Writer, s.String())
		return err
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	if f.Format == "yaml" {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
