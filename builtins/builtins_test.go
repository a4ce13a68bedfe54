package builtins

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/object"
	"github.com/shrimp-lang/shrimp/registry"
)

func call(t *testing.T, name string, args object.Args) (object.Object, error) {
	t.Helper()
	fn, ok := ForRegistry(registry.Default())[name]
	require.True(t, ok, name)
	return fn.(*object.Builtin).Call(context.Background(), args)
}

func positional(objs ...object.Object) object.Args {
	return object.Args{Positional: objs}
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name     string
		fn       string
		args     object.Args
		expected object.Object
	}{
		{"length of string", "length", positional(object.NewString("🍤ab")), object.NewNumber(3)},
		{"length of map", "length", positional(object.NewMap(map[string]object.Object{"a": object.True})), object.NewNumber(1)},
		{"upper", "upper", positional(object.NewString("shrimp")), object.NewString("SHRIMP")},
		{"lower", "lower", positional(object.NewString("ShRiMp")), object.NewString("shrimp")},
		{"join", "join", positional(object.NewString("a"), object.NewNumber(1), object.True), object.NewString("a 1 true")},
		{"join with sep", "join", object.Args{
			Positional: []object.Object{object.NewString("a"), object.NewString("b")},
			Named:      map[string]object.Object{"sep": object.NewString(",")},
		}, object.NewString("a,b")},
		{"type", "type", positional(object.NewNumber(1)), object.NewString("number")},
		{"type of null", "type", positional(object.Nil), object.NewString("null")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := call(t, tt.fn, tt.args)
			require.NoError(t, err)
			require.True(t, tt.expected.Equals(result), "got %s, want %s", result.Inspect(), tt.expected.Inspect())
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args object.Args
		code errors.ErrorCode
	}{
		{"length of number", "length", positional(object.NewNumber(1)), errors.E3001},
		{"length arity", "length", positional(), errors.E3004},
		{"upper of number", "upper", positional(object.NewNumber(1)), errors.E3001},
		{"unknown named argument", "upper", object.Args{
			Positional: []object.Object{object.NewString("a")},
			Named:      map[string]object.Object{"loud": object.True},
		}, errors.E3004},
		{"cat without path", "cat", positional(), errors.E3004},
		{"cat missing file", "cat", positional(object.NewString("/does/not/exist")), errors.E3007},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := call(t, tt.fn, tt.args)
			var re *errors.RuntimeError
			require.ErrorAs(t, err, &re)
			require.Equal(t, tt.code, re.Code)
		})
	}
}

func TestEcho(t *testing.T) {
	var buf bytes.Buffer
	ctx := object.WithOutput(context.Background(), &buf)
	echo := ForRegistry(registry.Default())["echo"].(*object.Builtin)

	result, err := echo.Call(ctx, positional(object.NewString("hello"), object.NewNumber(2)))
	require.NoError(t, err)
	require.Equal(t, object.Nil, result)
	require.Equal(t, "hello 2\n", buf.String())

	buf.Reset()
	_, err = echo.Call(ctx, object.Args{
		Positional: []object.Object{object.NewString("x")},
		Named:      map[string]object.Object{"no-newline": object.True},
	})
	require.NoError(t, err)
	require.Equal(t, "x", buf.String())
}

func TestCat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	result, err := call(t, "cat", positional(object.NewString(path)))
	require.NoError(t, err)
	require.Equal(t, "one\ntwo\n", result.Inspect())

	result, err = call(t, "cat", object.Args{
		Positional: []object.Object{object.NewString(path)},
		Named:      map[string]object.Object{"numbered": object.True},
	})
	require.NoError(t, err)
	require.Equal(t, "     1\tone\n     2\ttwo\n", result.Inspect())
}

func TestForRegistry(t *testing.T) {
	require.NotContains(t, ForRegistry(nil), "echo")
	require.Contains(t, ForRegistry(registry.Default()), "echo")
	require.NotContains(t, ForRegistry(registry.New()), "cat")
	require.Contains(t, ForRegistry(registry.New()), "length")
}

func TestNativeLookup(t *testing.T) {
	native := Native(registry.Default())
	require.NotNil(t, native.Lookup("echo").Exact)
	require.Nil(t, native.Lookup("ls").Exact)
	require.NotEmpty(t, native.Lookup("l").Partial)
	require.Nil(t, Native(nil).Lookup("echo").Exact)
}
