package diag

import "fmt"

// InternalError is the hard-failure counterpart to Diagnostic, for an
// internal condition that isn't a reportable source violation (the
// frontend never aborts on source problems — those become Diagnostics).
// It is named apart from the Error severity constant. Includes Unwrap
// support for errors.Is/errors.As.
type InternalError struct {
	Filename string
	Line int
	Column int
	Sender string
	OrigErr error
}

func (e *InternalError) Error() string {
	s := "[Error"
	if e.Sender != "" {
		s += " (where: " + e.Sender + ")"
	}
	if e.Filename != "" {
		s += " in " + e.Filename
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" | Line %d Col %d", e.Line, e.Column)
	}
	s += "] "
	if e.OrigErr != nil {
		s += e.OrigErr.Error()
	}
	return s
}

func (e *InternalError) Unwrap() error {
	return e.OrigErr
}
