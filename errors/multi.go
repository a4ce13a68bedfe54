package errors

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Aggregate combines errs into one error. Nil entries are skipped; it returns
// nil when nothing remains and the error itself when exactly one does. The
// combined error's message lists every error rendered against its source.
func Aggregate(errs ...error) error {
	var result *multierror.Error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result == nil {
		return nil
	}
	if len(result.Errors) == 1 {
		return result.Errors[0]
	}
	result.ErrorFormat = formatList
	return result
}

func formatList(errs []error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors occurred:\n", len(errs))
	for _, err := range errs {
		b.WriteString("\t* ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Flatten returns the individual errors in err.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	if merr, ok := err.(*multierror.Error); ok {
		return merr.WrappedErrors()
	}
	return []error{err}
}

// Friendly renders err for display. Errors that know their source location
// are formatted with context; several errors are numbered and summarized.
func Friendly(err error, useColor bool) string {
	errs := Flatten(err)
	formatted := make([]*FormattedError, 0, len(errs))
	for _, e := range errs {
		if fe, ok := e.(FormattableError); ok {
			formatted = append(formatted, fe.ToFormatted())
		} else {
			formatted = append(formatted, &FormattedError{Message: e.Error()})
		}
	}
	return NewFormatter(useColor).FormatMultiple(formatted)
}
