package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shrimp-lang/shrimp/internal/token"
)

// ContextLines is the number of lines shown above the line an error points
// into.
const ContextLines = 7

// Locate builds a FormattedError for span within source, filling in the
// line, the column range to underline and the surrounding source lines. It
// returns nil if span does not lie within source.
func Locate(span token.Span, source string) *FormattedError {
	if span.Start < 0 || span.End < span.Start || span.Start > len(source) {
		return nil
	}
	start := token.PositionOf(source, span.Start)
	lines := strings.Split(source, "\n")
	if start.Line >= len(lines) {
		return nil
	}
	main := lines[start.Line]
	lineLen := utf8.RuneCountInString(main)

	col := start.ColumnNumber()
	endCol := col
	if span.End > span.Start {
		end := token.PositionOf(source, span.End)
		if end.Line == start.Line {
			endCol = end.Column // last covered rune, 1-indexed
		} else {
			endCol = lineLen
		}
	}
	// Keep the underline on the line, allowing one column past its end for
	// errors at end of line or end of input.
	col = min(col, lineLen+1)
	endCol = max(min(endCol, lineLen+1), col)

	first := max(0, start.Line-ContextLines)
	var entries []SourceLineEntry
	for i := first; i <= start.Line; i++ {
		entries = append(entries, SourceLineEntry{
			Number: i + 1,
			Text:   strings.TrimRight(lines[i], "\r"),
			IsMain: i == start.Line,
		})
	}
	return &FormattedError{
		Kind:        "error",
		Line:        start.LineNumber(),
		Column:      col,
		EndColumn:   endCol,
		SourceLines: entries,
	}
}

// Render formats message against the source text that span points into.
// The output shows up to ContextLines lines before the offending line, the
// line itself with the span underlined, and the message. A span outside the
// source falls back to a one-line message.
func Render(message string, span token.Span, source string) string {
	fe := Locate(span, source)
	if fe == nil {
		return fmt.Sprintf("%s at position %d:%d", message, span.Start, span.End)
	}
	fe.Message = message
	return NewFormatter(false).Format(fe)
}
