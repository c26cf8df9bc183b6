package cli

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Exit codes returned by the CLI.
const (
	ExitFailure = 1
	ExitUsage   = 2

	// ExitPassError marks a pipeline failure raised by a pass, as
	// opposed to bad input files.
	ExitPassError = 3
)

// ExitError is an error carrying a process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError wraps an error with an exit code and context message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// AsExitError unwraps err into target, reporting success.
func AsExitError(err error, target **ExitError) bool {
	return errors.As(err, target)
}

// OutputFormatter renders command results in the selected format.
type OutputFormatter struct {
	w      io.Writer
	format string
}

// NewOutputFormatter builds a formatter writing to w.
func NewOutputFormatter(w io.Writer, format string) *OutputFormatter {
	return &OutputFormatter{w: w, format: format}
}

// Print renders a result value. Text format uses the value's String
// method; yaml format marshals it.
func (f *OutputFormatter) Print(v any) error {
	if f.format == "yaml" {
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("rendering output: %w", err)
		}
		_, err = f.w.Write(data)
		return err
	}
	_, err := fmt.Fprint(f.w, v)
	return err
}

// Printf writes formatted text regardless of the output format, used for
// human-facing notes.
func (f *OutputFormatter) Printf(format string, args ...any) {
	fmt.Fprintf(f.w, format, args...)
}
