package learnkit

import (
	"bytes"
	"fmt"

	"go.uber.org/multierr"
)

// ErrorID identifies a kind of structural or type-contract error.
type ErrorID int

const (
	ErrNullInput ErrorID = iota + 1
	ErrEmptyTable
	ErrIncorrectNumberOfRows
	ErrIncorrectNumberOfColumns
	ErrIncorrectNumberOfDimensions
	ErrIncorrectSizeOfDimension
	ErrIncorrectType
	ErrNullModel
	ErrIncorrectNumberOfFeatures
	ErrIncorrectNumberOfResponses
	ErrIncorrectParameter
	ErrIncorrectNumberOfClasses
	ErrNullLayerData
	ErrMethodNotSupported
	ErrNullResult
	ErrNullPartialResult
	ErrNullParameter
)

var errorNames = [...]string{
	"unknown error",
	"null input",
	"empty table",
	"incorrect number of rows",
	"incorrect number of columns",
	"incorrect number of dimensions",
	"incorrect size of dimension",
	"incorrect type",
	"null model",
	"incorrect number of features",
	"incorrect number of responses",
	"incorrect parameter",
	"incorrect number of classes",
	"null layer data",
	"method not supported",
	"null result",
	"null partial result",
	"null parameter",
}

func (e ErrorID) Error() string {
	if e < 0 || int(e) >= len(errorNames) {
		return errorNames[0]
	}
	return errorNames[e]
}

func (e ErrorID) String() string { return e.Error() }

// Detail is one structured error descriptor. Argument names the slot or
// parameter at fault.
type Detail struct {
	ID       ErrorID
	Argument string
	Msg      string
}

func (d Detail) Error() string {
	var buf bytes.Buffer
	buf.WriteString(d.ID.Error())
	if d.Argument != "" {
		fmt.Fprintf(&buf, " (%s)", d.Argument)
	}
	if d.Msg != "" {
		fmt.Fprintf(&buf, ": %s", d.Msg)
	}
	return buf.String()
}

// Is allows errors.Is(err, ErrNullInput) to match a Detail.
func (d Detail) Is(target error) bool {
	id, ok := target.(ErrorID)
	return ok && id == d.ID
}

// Status aggregates the details found by a check. The zero value, and a nil
// *Status, report success.
type Status struct {
	details []Detail
}

// Add records an error against an argument.
func (s *Status) Add(id ErrorID, arg string) *Status {
	s.details = append(s.details, Detail{ID: id, Argument: arg})
	return s
}

// Addf records an error against an argument with a formatted message.
func (s *Status) Addf(id ErrorID, arg string, format string, args ...interface{}) *Status {
	s.details = append(s.details, Detail{ID: id, Argument: arg, Msg: fmt.Sprintf(format, args...)})
	return s
}

// Merge appends the details of other.
func (s *Status) Merge(other *Status) *Status {
	if other != nil {
		s.details = append(s.details, other.details...)
	}
	return s
}

// OK reports whether no error has been recorded.
func (s *Status) OK() bool { return s == nil || len(s.details) == 0 }

// Details returns the recorded details in the order they were found.
func (s *Status) Details() []Detail {
	if s == nil {
		return nil
	}
	return s.details
}

// Has reports whether an error of the given kind was recorded.
func (s *Status) Has(id ErrorID) bool {
	for _, d := range s.Details() {
		if d.ID == id {
			return true
		}
	}
	return false
}

// HasArgument reports whether any error was recorded against arg.
func (s *Status) HasArgument(arg string) bool {
	for _, d := range s.Details() {
		if d.Argument == arg {
			return true
		}
	}
	return false
}

// Err returns nil on success, otherwise all the details combined into one error.
func (s *Status) Err() error {
	if s.OK() {
		return nil
	}
	errs := make([]error, 0, len(s.details))
	for _, d := range s.details {
		errs = append(errs, d)
	}
	return multierr.Combine(errs...)
}

func (s *Status) Error() string {
	if s.OK() {
		return "ok"
	}
	var buf bytes.Buffer
	for i, d := range s.details {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(d.Error())
	}
	return buf.String()
}
