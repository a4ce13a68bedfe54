package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Syntax errors
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Syntax errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Missing expression
	E1004 ErrorCode = "E1004" // Missing colon
	E1005 ErrorCode = "E1005" // Missing end keyword
	E1006 ErrorCode = "E1006" // Unclosed parenthesis
	E1007 ErrorCode = "E1007" // Expected property name
	E1008 ErrorCode = "E1008" // Missing named argument value
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Too many errors

	// Compile errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unrecognized syntax node
	E2002 ErrorCode = "E2002" // Invalid regular expression
	E2003 ErrorCode = "E2003" // Invalid number literal
	E2004 ErrorCode = "E2004" // Invalid pipe receiver
	E2005 ErrorCode = "E2005" // Unresolved label

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Type error
	E3002 ErrorCode = "E3002" // Division by zero
	E3003 ErrorCode = "E3003" // Not callable
	E3004 ErrorCode = "E3004" // Unknown argument
	E3005 ErrorCode = "E3005" // Stack underflow
	E3006 ErrorCode = "E3006" // Stack overflow
	E3007 ErrorCode = "E3007" // Invalid operation
	E3008 ErrorCode = "E3008" // Cancelled
)

var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "missing expression",
	E1004: "missing colon",
	E1005: "missing end",
	E1006: "unclosed parenthesis",
	E1007: "expected property name",
	E1008: "missing argument value",
	E1009: "maximum nesting depth exceeded",
	E1010: "too many errors",

	E2001: "unrecognized syntax node",
	E2002: "invalid regular expression",
	E2003: "invalid number literal",
	E2004: "invalid pipe receiver",
	E2005: "unresolved label",

	E3001: "type error",
	E3002: "division by zero",
	E3003: "not callable",
	E3004: "unknown argument",
	E3005: "stack underflow",
	E3006: "stack overflow",
	E3007: "invalid operation",
	E3008: "cancelled",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
