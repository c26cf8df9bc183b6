package pipeline

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"
)

// LoadError reports a failure to read or evaluate a CUE document.
type LoadError struct {
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading pipeline %s: %s", e.Path, e.Message)
}

// CompileError reports an invalid pipeline document, pointing at the
// offending field and its source position when available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func compileErr(v cue.Value, field, message string) *CompileError {
	return &CompileError{Field: field, Message: message, Pos: v.Pos()}
}
