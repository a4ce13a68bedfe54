package shrimp

import (
	"bytes"
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/registry"
)

func TestBasicUsage(t *testing.T) {
	result, err := Eval(context.Background(), "1 + 1")
	require.NoError(t, err)
	require.Equal(t, float64(2), result)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"pipe into builtin", "'shrimp' | upper", "SHRIMP"},
		{"length", "length 'shrimp'", float64(6)},
		{"join", "join a b c sep=','", "a,b,c"},
		{"interpolation", "n = 3\n'$n shrimp'", "3 shrimp"},
		{"null", "if false: 1 end", nil},
		{"boolean", "1 < 2", true},
		{"function", "fn a: a end", "function(a)"},
		{"builtin type", "type upper", "builtin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Eval(context.Background(), tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, result)
		})
	}
}

func TestRegexResult(t *testing.T) {
	result, err := Eval(context.Background(), "//^sh.*p$//i")
	require.NoError(t, err)
	re, ok := result.(*regexp.Regexp)
	require.True(t, ok)
	require.True(t, re.MatchString("SHRIMP"))
}

func TestWithGlobals(t *testing.T) {
	result, err := Eval(context.Background(), "'hello $name'",
		WithGlobals(map[string]any{"name": "world"}))
	require.NoError(t, err)
	require.Equal(t, "hello world", result)

	result, err = Eval(context.Background(), "config = cfg\nconfig.depth",
		WithGlobals(map[string]any{"cfg": map[string]any{"depth": 2}}))
	require.NoError(t, err)
	require.Equal(t, float64(2), result)
}

func TestGlobalsOverrideBuiltins(t *testing.T) {
	result, err := Eval(context.Background(), "upper 'x'",
		WithGlobals(map[string]any{"upper": "shadowed"}))
	var re *errors.RuntimeError
	require.ErrorAs(t, err, &re)
	require.Equal(t, errors.E3003, re.Code)
	require.Nil(t, result)
}

func TestEchoOutput(t *testing.T) {
	var out bytes.Buffer
	result, err := Eval(context.Background(), "echo hello world", WithOutput(&out))
	require.NoError(t, err)
	require.Nil(t, result)
	require.Equal(t, "hello world\n", out.String())
}

func TestBareCommand(t *testing.T) {
	var out bytes.Buffer
	_, err := Eval(context.Background(), "echo", WithOutput(&out))
	require.NoError(t, err)
	require.Equal(t, "\n", out.String())

	out.Reset()
	result, err := Eval(context.Background(), "echo", WithOutput(&out), WithRegistry(nil))
	require.NoError(t, err)
	require.Equal(t, "echo", result)
	require.Empty(t, out.String())
}

func TestCustomRegistry(t *testing.T) {
	reg := registry.New(registry.CommandShape{Command: "echo"}, registry.CommandShape{Command: "deploy"})
	tests := []struct {
		input    string
		opts     []Option
		expected cst.Kind
	}{
		{"echo", []Option{WithRegistry(reg)}, cst.FunctionCall},
		{"deploy", []Option{WithRegistry(reg)}, cst.FunctionCallOrIdentifier},
		{"echo", []Option{WithRegistry(nil)}, cst.FunctionCallOrIdentifier},
		{"cat", []Option{WithRegistry(reg)}, cst.FunctionCallOrIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, err := Parse(context.Background(), tt.input, tt.opts...)
			require.NoError(t, err)
			require.Equal(t, tt.expected, tree.Children[0].Kind)
		})
	}

	result, err := Eval(context.Background(), "deploy", WithRegistry(reg))
	require.NoError(t, err)
	require.Equal(t, "deploy", result)
}

func TestCommandWithoutImplementation(t *testing.T) {
	result, err := Eval(context.Background(), "ls")
	require.NoError(t, err)
	require.Equal(t, "ls", result)
}

func TestSyntaxErrors(t *testing.T) {
	_, err := Eval(context.Background(), "2 + ; 3 + ", WithFilename("broken.sh"))
	require.Error(t, err)
	var se *errors.SyntaxError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "broken.sh", se.Filename)
	require.GreaterOrEqual(t, len(errors.Flatten(err)), 2)
}

func TestRuntimeErrorLocation(t *testing.T) {
	_, err := Eval(context.Background(), "x = 1\nx / 0", WithFilename("math.sh"))
	require.EqualError(t, err, "runtime error: division by zero (math.sh:2:1)")
}

func TestCompileOnceRunMany(t *testing.T) {
	prog, err := Compile(context.Background(), "double = fn x: x * 2 end\ndouble n")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]any, 10)
	errs := make([]error, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Run(context.Background(), prog,
				WithGlobals(map[string]any{"n": i}))
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, float64(2*i), results[i])
	}
}
