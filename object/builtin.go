package object

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shrimp-lang/shrimp/errors"
)

// Args holds the arguments of a call.
type Args struct {
	Positional []Object
	Named      map[string]Object
}

// Get returns the named argument, or the positional argument at index when
// no argument of that name was passed. The last result reports whether
// either was found.
func (a Args) Get(name string, index int) (Object, bool) {
	if v, ok := a.Named[name]; ok {
		return v, true
	}
	if index >= 0 && index < len(a.Positional) {
		return a.Positional[index], true
	}
	return nil, false
}

// Names returns the names of the named arguments in sorted order.
func (a Args) Names() []string {
	return slices.Sorted(maps.Keys(a.Named))
}

// BuiltinFunction is the Go implementation of a builtin.
type BuiltinFunction func(ctx context.Context, args Args) (Object, error)

// Builtin wraps a BuiltinFunction. Params lists the named arguments it
// accepts; a call passing any other name fails.
type Builtin struct {
	name   string
	params []string
	fn     BuiltinFunction
}

func NewBuiltin(name string, fn BuiltinFunction, params ...string) *Builtin {
	return &Builtin{name: name, params: params, fn: fn}
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Params() []string {
	return slices.Clone(b.params)
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) Interface() any {
	return b.fn
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) Equals(other Object) bool {
	return other == Object(b)
}

// Call checks the named arguments and runs the function.
func (b *Builtin) Call(ctx context.Context, args Args) (Object, error) {
	for _, name := range args.Names() {
		if !slices.Contains(b.params, name) {
			err := errors.RuntimeErrorf(errors.E3004, "%s does not accept the argument %q", b.name, name)
			err.Hint = errors.DidYouMean(errors.Suggest(name, b.params))
			return nil, err
		}
	}
	return b.fn(ctx, args)
}

// TypeErrorf returns a runtime type error.
func TypeErrorf(format string, args ...any) *errors.RuntimeError {
	return errors.RuntimeErrorf(errors.E3001, format, args...)
}

// AsString returns the value of a String, or a type error.
func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", TypeErrorf("expected a string (%s given)", obj.Type())
	}
	return s.value, nil
}

// AsNumber returns the value of a Number, or a type error.
func AsNumber(obj Object) (float64, error) {
	n, ok := obj.(*Number)
	if !ok {
		return 0, TypeErrorf("expected a number (%s given)", obj.Type())
	}
	return n.value, nil
}

// Join concatenates the Inspect text of objs separated by sep.
func Join(objs []Object, sep string) string {
	parts := make([]string, len(objs))
	for i, o := range objs {
		parts[i] = o.Inspect()
	}
	return strings.Join(parts, sep)
}
