package object

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/errors"
)

func TestTruthiness(t *testing.T) {
	tests := []struct {
		obj      Object
		expected bool
	}{
		{Nil, false},
		{False, false},
		{True, true},
		{NewNumber(0), true},
		{NewString(""), true},
		{NewString("false"), true},
		{NewMap(nil), true},
	}
	for _, tt := range tests {
		t.Run(string(tt.obj.Type())+" "+tt.obj.Inspect(), func(t *testing.T) {
			require.Equal(t, tt.expected, tt.obj.IsTruthy())
		})
	}
}

func TestInspect(t *testing.T) {
	re, err := NewRegex(`\d+`, "gi")
	require.NoError(t, err)
	tests := []struct {
		obj      Object
		expected string
	}{
		{Nil, "null"},
		{True, "true"},
		{NewNumber(30), "30"},
		{NewNumber(0.2), "0.2"},
		{NewNumber(-7.5), "-7.5"},
		{NewString("hi"), "hi"},
		{re, `//\d+//gi`},
		{NewMap(map[string]Object{"b": NewNumber(2), "a": NewString("x")}), "{a: x, b: 2}"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.obj.Inspect())
		})
	}
}

func TestEquals(t *testing.T) {
	require.True(t, NewNumber(1).Equals(NewNumber(1)))
	require.False(t, NewNumber(1).Equals(NewString("1")))
	require.True(t, Nil.Equals(Nil))
	require.True(t, NewString("a").Equals(NewString("a")))
	require.True(t, NewMap(map[string]Object{"a": True}).Equals(NewMap(map[string]Object{"a": True})))
	require.False(t, NewMap(map[string]Object{"a": True}).Equals(NewMap(map[string]Object{"a": False})))
}

func TestRegexFlags(t *testing.T) {
	re, err := NewRegex("abc", "gi")
	require.NoError(t, err)
	require.True(t, re.Regexp().MatchString("ABC"))

	_, err = NewRegex("[unclosed", "")
	require.Error(t, err)
}

func TestFromLiteral(t *testing.T) {
	obj, err := FromLiteral(bytecode.Number(4))
	require.NoError(t, err)
	require.Equal(t, NewNumber(4), obj)

	obj, err = FromLiteral(bytecode.Null())
	require.NoError(t, err)
	require.Equal(t, Nil, obj)

	obj, err = FromLiteral(bytecode.Regex("a+", "i"))
	require.NoError(t, err)
	require.Equal(t, REGEX, obj.Type())
}

func TestFromGo(t *testing.T) {
	obj, err := FromGo(map[string]any{"path": "/tmp", "depth": 2, "nested": map[string]any{"ok": true}})
	require.NoError(t, err)
	m := obj.(*Map)
	require.Equal(t, []string{"depth", "nested", "path"}, m.Keys())
	v, ok := m.GetAttr("depth")
	require.True(t, ok)
	require.Equal(t, NewNumber(2), v)

	_, err = FromGo(struct{}{})
	require.Error(t, err)

	_, err = AsObjects(map[string]any{"bad": []int{1}})
	require.ErrorContains(t, err, `global "bad"`)

	globals, err := AsObjects(map[string]any{
		"hello": func(ctx context.Context, args Args) (Object, error) { return NewString("hi"), nil },
	})
	require.NoError(t, err)
	require.Equal(t, "builtin(hello)", globals["hello"].Inspect())
}

func TestBuiltinNamedArgs(t *testing.T) {
	b := NewBuiltin("greet", func(ctx context.Context, args Args) (Object, error) {
		name, _ := args.Get("name", 0)
		return NewString("hello " + name.Inspect()), nil
	}, "name")

	result, err := b.Call(context.Background(), Args{Named: map[string]Object{"name": NewString("sam")}})
	require.NoError(t, err)
	require.Equal(t, "hello sam", result.Inspect())

	_, err = b.Call(context.Background(), Args{Named: map[string]Object{"nmae": NewString("sam")}})
	var re *errors.RuntimeError
	require.ErrorAs(t, err, &re)
	require.Equal(t, errors.E3004, re.Code)
	require.Equal(t, "did you mean 'name'?", re.Hint)
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithOutput(context.Background(), &buf)
	GetOutput(ctx).Write([]byte("x"))
	require.Equal(t, "x", buf.String())
	require.NotNil(t, GetOutput(context.Background()))
}
