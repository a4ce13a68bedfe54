package cst

// Kind is the type tag of a CST node.
type Kind uint8

// Node kinds
const (
	Error Kind = iota
	Program

	// Literals
	Number
	Boolean
	Regex
	String
	StringFragment
	Word
	WordFragment
	EscapeSeq
	Interpolation

	// Names
	Identifier
	AssignableIdentifier
	DotGet

	// Expressions
	BinOp
	ConditionalOp
	Assign
	ParenExpr
	PipeExpr

	// Functions and calls
	FunctionDef
	Params
	FunctionCall
	FunctionCallOrIdentifier
	PositionalArg
	NamedArg
	NamedArgPrefix

	// Conditionals
	IfExpr
	ElsifExpr
	ElseExpr
	ThenBlock

	// Punctuation leaves
	Keyword
	Operator
	Colon
)

var kindNames = [...]string{
	Error:                    "⚠",
	Program:                  "Program",
	Number:                   "Number",
	Boolean:                  "Boolean",
	Regex:                    "Regex",
	String:                   "String",
	StringFragment:           "StringFragment",
	Word:                     "Word",
	WordFragment:             "WordFragment",
	EscapeSeq:                "EscapeSeq",
	Interpolation:            "Interpolation",
	Identifier:               "Identifier",
	AssignableIdentifier:     "AssignableIdentifier",
	DotGet:                   "DotGet",
	BinOp:                    "BinOp",
	ConditionalOp:            "ConditionalOp",
	Assign:                   "Assign",
	ParenExpr:                "ParenExpr",
	PipeExpr:                 "PipeExpr",
	FunctionDef:              "FunctionDef",
	Params:                   "Params",
	FunctionCall:             "FunctionCall",
	FunctionCallOrIdentifier: "FunctionCallOrIdentifier",
	PositionalArg:            "PositionalArg",
	NamedArg:                 "NamedArg",
	NamedArgPrefix:           "NamedArgPrefix",
	IfExpr:                   "IfExpr",
	ElsifExpr:                "ElsifExpr",
	ElseExpr:                 "ElseExpr",
	ThenBlock:                "ThenBlock",
	Keyword:                  "keyword",
	Operator:                 "operator",
	Colon:                    "colon",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
