// Package errors defines the errors reported while parsing, compiling and
// running Shrimp programs, and renders them against the source they refer to.
package errors

import (
	"fmt"

	"github.com/shrimp-lang/shrimp/internal/token"
)

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// Location identifies a span of a named source text.
type Location struct {
	Filename string
	Source   string
	Span     token.Span
}

// String returns "file:line:col", or "line:col" without a filename.
func (l Location) String() string {
	pos := token.PositionOf(l.Source, l.Span.Start)
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", l.Filename, pos.LineNumber(), pos.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", pos.LineNumber(), pos.ColumnNumber())
}

func (l Location) format(kind string, code ErrorCode, message string) *FormattedError {
	fe := Locate(l.Span, l.Source)
	if fe == nil {
		fe = &FormattedError{}
	}
	fe.Kind = kind
	fe.Code = code
	fe.Message = message
	fe.Filename = l.Filename
	return fe
}

// SyntaxError is a region of the input the parser could not fit into the
// grammar.
type SyntaxError struct {
	Location
	Code    ErrorCode
	Message string
	Text    string // the offending source text, if any
}

// NewSyntaxError returns a SyntaxError for span of source.
func NewSyntaxError(code ErrorCode, message string, span token.Span, source string) *SyntaxError {
	return &SyntaxError{
		Location: Location{Source: source, Span: span},
		Code:     code,
		Message:  message,
		Text:     span.Text(source),
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s (%s)", e.Message, e.Location)
}

// ToFormatted converts to the FormattedError type for display.
func (e *SyntaxError) ToFormatted() *FormattedError {
	return e.format("syntax error", e.Code, e.Message)
}

// FriendlyErrorMessage returns the error rendered against its source.
func (e *SyntaxError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// CompileError is raised while lowering a syntax tree to bytecode.
type CompileError struct {
	Location
	Code    ErrorCode
	Message string
	Note    string
	Err     error // underlying cause, e.g. from regexp or strconv
}

// NewCompileError returns a CompileError for span of source.
func NewCompileError(code ErrorCode, message string, span token.Span, source string) *CompileError {
	return &CompileError{
		Location: Location{Source: source, Span: span},
		Code:     code,
		Message:  message,
	}
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s (%s)", e.Message, e.Location)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := e.format("compile error", e.Code, e.Message)
	fe.Note = e.Note
	return fe
}

// FriendlyErrorMessage returns the error rendered against its source.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// RuntimeError is raised by the virtual machine. Its location is that of the
// instruction that failed, when the program carries source spans.
type RuntimeError struct {
	Location
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

// RuntimeErrorf returns a RuntimeError with a formatted message.
func RuntimeErrorf(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	if e.Source == "" {
		return "runtime error: " + e.Message
	}
	return fmt.Sprintf("runtime error: %s (%s)", e.Message, e.Location)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// At returns a copy of e located at span of source.
func (e *RuntimeError) At(filename, source string, span token.Span) *RuntimeError {
	cp := *e
	cp.Location = Location{Filename: filename, Source: source, Span: span}
	return &cp
}

// ToFormatted converts to the FormattedError type for display.
func (e *RuntimeError) ToFormatted() *FormattedError {
	var fe *FormattedError
	if e.Source != "" {
		fe = e.format("runtime error", e.Code, e.Message)
	} else {
		fe = &FormattedError{Kind: "runtime error", Code: e.Code, Message: e.Message}
	}
	fe.Hint = e.Hint
	return fe
}

// FriendlyErrorMessage returns the error rendered against its source.
func (e *RuntimeError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// WithFilename sets the filename on every located error in err, which may be
// a single error or an aggregate.
func WithFilename(err error, filename string) error {
	for _, e := range Flatten(err) {
		switch e := e.(type) {
		case *SyntaxError:
			e.Filename = filename
		case *CompileError:
			e.Filename = filename
		case *RuntimeError:
			e.Filename = filename
		}
	}
	return err
}
