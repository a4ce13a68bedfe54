package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/internal/token"
	"github.com/shrimp-lang/shrimp/registry"
)

// tree strips the common indentation and the surrounding blank lines from an
// expected dump, so expectations can be indented along with the test code.
func tree(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = strings.TrimRight(line[indent:], " ")
		}
	}
	return strings.Join(lines, "\n")
}

func parse(t *testing.T, input string, opts ...Option) (*cst.Node, *Parser) {
	t.Helper()
	p := New(input, opts...)
	return p.Parse(context.Background()), p
}

type treeTest struct {
	name   string
	input  string
	expect string
}

func runTreeTests(t *testing.T, tests []treeTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, p := parse(t, tt.input)
			require.Nil(t, p.Err())
			require.Equal(t, tree(tt.expect), cst.Dump(root))
		})
	}
}

func TestBasics(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"emoji and digits in identifier", "moo-😊-34", `
			FunctionCallOrIdentifier
			  Identifier moo-😊-34
		`},
		{"parenthesized sum", "(2 + 3)", `
			ParenExpr
			  BinOp
			    Number 2
			    operator +
			    Number 3
		`},
		{"parenthesized call", "(echo)", `
			ParenExpr
			  FunctionCallOrIdentifier
			    Identifier echo
		`},
		{"parenthesized condition", "(a and b)", `
			ParenExpr
			  ConditionalOp
			    Identifier a
			    operator and
			    Identifier b
		`},
		{"parenthesized argument", "echo (3 + 3)", `
			FunctionCall
			  Identifier echo
			  PositionalArg
			    ParenExpr
			      BinOp
			        Number 3
			        operator +
			        Number 3
		`},
		{"call with path argument", "(basename ./cool)", `
			ParenExpr
			  FunctionCall
			    Identifier basename
			    PositionalArg
			      Word
			        WordFragment ./cool
		`},
		{"precedence", "2 + 3 * 4 - 5 / 1", `
			BinOp
			  BinOp
			    Number 2
			    operator +
			    BinOp
			      Number 3
			      operator *
			      Number 4
			  operator -
			  BinOp
			    Number 5
			    operator /
			    Number 1
		`},
		{"negative operand", "a + -3", `
			BinOp
			  Identifier a
			  operator +
			  Number -3
		`},
		{"hyphenated operands", "a-var + a-thing", `
			BinOp
			  Identifier a-var
			  operator +
			  Identifier a-thing
		`},
		{"two assignments", "x = 5\ny = 2", `
			Assign
			  AssignableIdentifier x
			  operator =
			  Number 5
			Assign
			  AssignableIdentifier y
			  operator =
			  Number 2
		`},
		{"semicolon separated", "a = hello; 2", `
			Assign
			  AssignableIdentifier a
			  operator =
			  FunctionCallOrIdentifier
			    Identifier hello
			Number 2
		`},
		{"assigned function", "add = fn a b: a + b end", `
			Assign
			  AssignableIdentifier add
			  operator =
			  FunctionDef
			    keyword fn
			    Params
			      Identifier a
			      Identifier b
			    colon :
			    BinOp
			      Identifier a
			      operator +
			      Identifier b
			    keyword end
		`},
		{"boolean and regex", "x = true; //[a-z]+//i", `
			Assign
			  AssignableIdentifier x
			  operator =
			  Boolean true
			Regex //[a-z]+//i
		`},
		{"comparison", "a <= 3", `
			ConditionalOp
			  Identifier a
			  operator <=
			  Number 3
		`},
	})
}

func TestDotGet(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"unbound dotted word", "readme.txt", `
			Word
			  WordFragment readme.txt
		`},
		{"bound name", "obj = 5; obj.prop", `
			Assign
			  AssignableIdentifier obj
			  operator =
			  Number 5
			DotGet
			  Identifier obj
			  Identifier prop
		`},
		{"parameter", "fn config: config.path end", `
			FunctionDef
			  keyword fn
			  Params
			    Identifier config
			  colon :
			  DotGet
			    Identifier config
			    Identifier path
			  keyword end
		`},
		{"parameter goes out of scope", "fn x: x.prop end; x.prop", `
			FunctionDef
			  keyword fn
			  Params
			    Identifier x
			  colon :
			  DotGet
			    Identifier x
			    Identifier prop
			  keyword end
			Word
			  WordFragment x.prop
		`},
		{"nested functions", "fn x:\n  fn y: y.inner end\n  x.outer\nend", `
			FunctionDef
			  keyword fn
			  Params
			    Identifier x
			  colon :
			  FunctionDef
			    keyword fn
			    Params
			      Identifier y
			    colon :
			    DotGet
			      Identifier y
			      Identifier inner
			    keyword end
			  DotGet
			    Identifier x
			    Identifier outer
			  keyword end
		`},
		{"arguments", "config = 42; cat readme.txt; echo config.path", `
			Assign
			  AssignableIdentifier config
			  operator =
			  Number 42
			FunctionCall
			  Identifier cat
			  PositionalArg
			    Word
			      WordFragment readme.txt
			FunctionCall
			  Identifier echo
			  PositionalArg
			    DotGet
			      Identifier config
			      Identifier path
		`},
	})
}

func TestFunctions(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"call with no args", "tail", `
			FunctionCallOrIdentifier
			  Identifier tail
		`},
		{"call with arg", "tail path", `
			FunctionCall
			  Identifier tail
			  PositionalArg
			    Identifier path
		`},
		{"call with named arg", "tail path lines=30", `
			FunctionCall
			  Identifier tail
			  PositionalArg
			    Identifier path
			  NamedArg
			    NamedArgPrefix lines=
			    Number 30
		`},
		{"command as argument", "tail tail", `
			FunctionCall
			  Identifier tail
			  PositionalArg
			    Identifier tail
		`},
		{"no parameters", "fn: 1 end", `
			FunctionDef
			  keyword fn
			  Params
			  colon :
			  Number 1
			  keyword end
		`},
		{"two parameters", "fn x y: x * y end", `
			FunctionDef
			  keyword fn
			  Params
			    Identifier x
			    Identifier y
			  colon :
			  BinOp
			    Identifier x
			    operator *
			    Identifier y
			  keyword end
		`},
		{"multiline body", "fn x y:\n  x * y\n  x + 9\nend", `
			FunctionDef
			  keyword fn
			  Params
			    Identifier x
			    Identifier y
			  colon :
			  BinOp
			    Identifier x
			    operator *
			    Identifier y
			  BinOp
			    Identifier x
			    operator +
			    Number 9
			  keyword end
		`},
		{"assigned multiline function", "add = fn a b:\n  result = a + b\n  result\nend\n\nadd 3 4\n", `
			Assign
			  AssignableIdentifier add
			  operator =
			  FunctionDef
			    keyword fn
			    Params
			      Identifier a
			      Identifier b
			    colon :
			    Assign
			      AssignableIdentifier result
			      operator =
			      BinOp
			        Identifier a
			        operator +
			        Identifier b
			    FunctionCallOrIdentifier
			      Identifier result
			    keyword end
			FunctionCall
			  Identifier add
			  PositionalArg
			    Number 3
			  PositionalArg
			    Number 4
		`},
		{"inline end is optional", "f = fn x: x", `
			Assign
			  AssignableIdentifier f
			  operator =
			  FunctionDef
			    keyword fn
			    Params
			      Identifier x
			    colon :
			    FunctionCallOrIdentifier
			      Identifier x
		`},
	})
}

func TestPipes(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"simple", "echo hello | grep h", `
			PipeExpr
			  FunctionCall
			    Identifier echo
			    PositionalArg
			      Identifier hello
			  operator |
			  FunctionCall
			    Identifier grep
			    PositionalArg
			      Identifier h
		`},
		{"chain", "find files | filter active | sort", `
			PipeExpr
			  FunctionCall
			    Identifier find
			    PositionalArg
			      Identifier files
			  operator |
			  FunctionCall
			    Identifier filter
			    PositionalArg
			      Identifier active
			  operator |
			  FunctionCallOrIdentifier
			    Identifier sort
		`},
		{"identifiers", "get-value | process", `
			PipeExpr
			  FunctionCallOrIdentifier
			    Identifier get-value
			  operator |
			  FunctionCallOrIdentifier
			    Identifier process
		`},
		{"assigned", "result = echo hello | grep h", `
			Assign
			  AssignableIdentifier result
			  operator =
			  PipeExpr
			    FunctionCall
			      Identifier echo
			      PositionalArg
			        Identifier hello
			    operator |
			    FunctionCall
			      Identifier grep
			      PositionalArg
			        Identifier h
		`},
		{"inline function argument", "items | each fn x: x end", `
			PipeExpr
			  FunctionCallOrIdentifier
			    Identifier items
			  operator |
			  FunctionCall
			    Identifier each
			    PositionalArg
			      FunctionDef
			        keyword fn
			        Params
			          Identifier x
			        colon :
			        FunctionCallOrIdentifier
			          Identifier x
			        keyword end
		`},
	})
}

func TestConditionals(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"single line", "if y = 1: 'cool'", `
			IfExpr
			  keyword if
			  ConditionalOp
			    Identifier y
			    operator =
			    Number 1
			  colon :
			  ThenBlock
			    String
			      StringFragment cool
		`},
		{"assigned", "a = if x: 2", `
			Assign
			  AssignableIdentifier a
			  operator =
			  IfExpr
			    keyword if
			    Identifier x
			    colon :
			    ThenBlock
			      Number 2
		`},
		{"multiline", "\n    if x < 9:\n      yes\n    end", `
			IfExpr
			  keyword if
			  ConditionalOp
			    Identifier x
			    operator <
			    Number 9
			  colon :
			  ThenBlock
			    FunctionCallOrIdentifier
			      Identifier yes
			  keyword end
		`},
		{"else", "if with-else:\n  x\nelse:\n  y\nend", `
			IfExpr
			  keyword if
			  Identifier with-else
			  colon :
			  ThenBlock
			    FunctionCallOrIdentifier
			      Identifier x
			  ElseExpr
			    keyword else
			    colon :
			    ThenBlock
			      FunctionCallOrIdentifier
			        Identifier y
			  keyword end
		`},
		{"elsif and else", "if a:\n  x\nelsif b:\n  y\nelsif c:\n  z\nelse:\n  oh-no\nend", `
			IfExpr
			  keyword if
			  Identifier a
			  colon :
			  ThenBlock
			    FunctionCallOrIdentifier
			      Identifier x
			  ElsifExpr
			    keyword elsif
			    Identifier b
			    colon :
			    ThenBlock
			      FunctionCallOrIdentifier
			        Identifier y
			  ElsifExpr
			    keyword elsif
			    Identifier c
			    colon :
			    ThenBlock
			      FunctionCallOrIdentifier
			        Identifier z
			  ElseExpr
			    keyword else
			    colon :
			    ThenBlock
			      FunctionCallOrIdentifier
			        Identifier oh-no
			  keyword end
		`},
	})
}

func TestStrings(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"interpolated name", "'hello $name'", `
			String
			  StringFragment hello
			  Interpolation
			    Identifier name
		`},
		{"interpolated expression", "'sum is $(a + b)!'", `
			String
			  StringFragment sum is
			  Interpolation
			    ParenExpr
			      BinOp
			        Identifier a
			        operator +
			        Identifier b
			  StringFragment !
		`},
		{"interpolation between fragments", "'x/$y/z'", `
			String
			  StringFragment x/
			  Interpolation
			    Identifier y
			  StringFragment /z
		`},
		{"escaped dollar", `'price is \$10'`, `
			String
			  StringFragment price is
			  EscapeSeq \$
			  StringFragment 10
		`},
		{"escaped quote", `'it\'s working'`, `
			String
			  StringFragment it
			  EscapeSeq \'
			  StringFragment s working
		`},
		{"escape then interpolation", `'value: $x\n'`, `
			String
			  StringFragment value:
			  Interpolation
			    Identifier x
			  EscapeSeq \n
		`},
		{"two lines", "'first'\n'second'", `
			String
			  StringFragment first
			String
			  StringFragment second
		`},
		{"bound names without spaces", "a = 1; b = 2; 'sum=$(a+b)'", `
			Assign
			  AssignableIdentifier a
			  operator =
			  Number 1
			Assign
			  AssignableIdentifier b
			  operator =
			  Number 2
			String
			  StringFragment sum=
			  Interpolation
			    ParenExpr
			      BinOp
			        Identifier a
			        operator +
			        Identifier b
		`},
	})
}

func TestWordInterpolation(t *testing.T) {
	runTreeTests(t, []treeTest{
		{"name inside word", "echo pre-$x.txt", `
			FunctionCall
			  Identifier echo
			  PositionalArg
			    Word
			      WordFragment pre-
			      Interpolation
			        Identifier x
			      WordFragment .txt
		`},
		{"expression inside word", "echo out-$(name)", `
			FunctionCall
			  Identifier echo
			  PositionalArg
			    Word
			      WordFragment out-
			      Interpolation
			        ParenExpr
			          FunctionCallOrIdentifier
			            Identifier name
		`},
		{"escaped space", `cat my\ file`, `
			FunctionCall
			  Identifier cat
			  PositionalArg
			    Word
			      WordFragment my
			      EscapeSeq \
			      WordFragment file
		`},
	})
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   errors.ErrorCode
		expect string
	}{
		{"missing operand", "2 + ", errors.E1003, `
			BinOp
			  Number 2
			  operator +
			  ⚠
		`},
		{"named arg without value", "tail lines=", errors.E1008, `
			FunctionCall
			  Identifier tail
			  NamedArg
			    NamedArgPrefix lines=
			    ⚠
		`},
		{"unterminated string", "'abc", errors.E1002, `
			String
			  StringFragment abc
			  ⚠
		`},
		{"unclosed paren", "(1 + 2", errors.E1006, `
			ParenExpr
			  BinOp
			    Number 1
			    operator +
			    Number 2
			  ⚠
		`},
		{"missing end", "fn x:\n  x", errors.E1005, `
			FunctionDef
			  keyword fn
			  Params
			    Identifier x
			  colon :
			  FunctionCallOrIdentifier
			    Identifier x
			  ⚠
		`},
		{"missing colon", "fn x\n", errors.E1004, `
			FunctionDef
			  keyword fn
			  Params
			    Identifier x
			  ⚠
			  ⚠
		`},
		{"stray paren", ") 1", errors.E1001, `
			⚠ ) 1
		`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, p := parse(t, tt.input)
			require.True(t, cst.HasErrors(root))
			require.Error(t, p.Err())
			require.NotEmpty(t, p.Errors())
			require.Equal(t, tt.code, p.Errors()[0].Code)
			require.Equal(t, tree(tt.expect), cst.Dump(root))
		})
	}
}

func TestErrorRecovery(t *testing.T) {
	root, p := parse(t, "x = 1\n) oops\ny = 2")
	require.Len(t, p.Errors(), 1)
	require.Len(t, root.Children, 3)
	require.Equal(t, cst.Assign, root.Children[0].Kind)
	require.Equal(t, cst.Error, root.Children[1].Kind)
	require.Equal(t, ") oops", root.Children[1].Text)
	require.Equal(t, cst.Assign, root.Children[2].Kind)

	err := p.Errors()[0]
	require.Equal(t, "syntax error: unexpected \")\" (2:1)", err.Error())
}

func TestMaxErrors(t *testing.T) {
	input := strings.Repeat(")\n", MaxErrors+5)
	root, p := parse(t, input)
	require.Len(t, p.Errors(), MaxErrors)
	require.Len(t, root.Children, MaxErrors+1)
	last := root.Children[len(root.Children)-1]
	require.Equal(t, cst.Error, last.Kind)
	require.Equal(t, "parsing stopped", last.Message)
	require.Len(t, errors.Flatten(p.Err()), MaxErrors)
}

func TestMaxDepth(t *testing.T) {
	root, p := parse(t, "((((1))))", WithMaxDepth(3))
	require.True(t, cst.HasErrors(root))
	require.Equal(t, errors.E1009, p.Errors()[0].Code)

	root, p = parse(t, "((((1))))")
	require.False(t, cst.HasErrors(root))
	require.NoError(t, p.Err())
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	root, err := Parse(ctx, "x = 1\ny = 2")
	require.Error(t, err)
	require.True(t, cst.HasErrors(root))
}

func TestFilename(t *testing.T) {
	_, err := Parse(context.Background(), "2 +", WithFilename("main.sh"))
	var syntaxErr *errors.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Equal(t, "main.sh", syntaxErr.Filename)
}

func TestCommands(t *testing.T) {
	reg := registry.Default()
	tests := []struct {
		input  string
		expect string
	}{
		{"ls", `
			FunctionCall
			  Identifier ls
		`},
		{"lsx", `
			FunctionCallOrIdentifier
			  Identifier lsx
		`},
		{"ls = 1; ls", `
			Assign
			  AssignableIdentifier ls
			  operator =
			  Number 1
			FunctionCallOrIdentifier
			  Identifier ls
		`},
		{"ls | sort", `
			PipeExpr
			  FunctionCall
			    Identifier ls
			  operator |
			  FunctionCall
			    Identifier sort
		`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root, p := parse(t, tt.input, WithCommands(reg))
			require.NoError(t, p.Err())
			require.Equal(t, tree(tt.expect), cst.Dump(root))
		})
	}
}

func TestScopeAfterParse(t *testing.T) {
	_, p := parse(t, "x = 5\nf = fn a: a end")
	sc := p.Scope()
	require.True(t, sc.Has("x"))
	require.True(t, sc.Has("f"))
	require.False(t, sc.Has("a"))
}

func TestTokens(t *testing.T) {
	_, p := parse(t, "x = 5")
	var kinds []token.Kind
	for _, tok := range p.Tokens() {
		kinds = append(kinds, tok.Kind)
	}
	require.Equal(t, []token.Kind{token.AssignableIdentifier, token.Eq, token.Number}, kinds)
}

func TestSpans(t *testing.T) {
	root, _ := parse(t, "echo hi")
	call := root.Child(0)
	require.Equal(t, token.Span{Start: 0, End: 7}, call.Span)
	require.Equal(t, token.Span{Start: 5, End: 7}, call.Child(1).Span)
}
