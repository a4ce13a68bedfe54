// Package builtins defines the native functions available to Shrimp
// programs.
package builtins

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/go-homedir"

	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/object"
	"github.com/shrimp-lang/shrimp/registry"
)

func argError(format string, args ...any) error {
	return errors.RuntimeErrorf(errors.E3004, format, args...)
}

// Echo prints its arguments separated by spaces, followed by a newline
// unless no-newline is true.
func Echo(ctx context.Context, args object.Args) (object.Object, error) {
	text := object.Join(args.Positional, " ")
	if v, ok := args.Named["text"]; ok {
		text = v.Inspect()
	}
	if v, ok := args.Named["no-newline"]; !ok || !v.IsTruthy() {
		text += "\n"
	}
	if _, err := fmt.Fprint(object.GetOutput(ctx), text); err != nil {
		return nil, err
	}
	return object.Nil, nil
}

// Cat returns the contents of the file at path. With numbered set, each line
// is prefixed by its number.
func Cat(ctx context.Context, args object.Args) (object.Object, error) {
	arg, ok := args.Get("path", 0)
	if !ok {
		return nil, argError("cat: missing path")
	}
	path, err := object.AsString(arg)
	if err != nil {
		return nil, err
	}
	if path, err = homedir.Expand(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		rerr := errors.RuntimeErrorf(errors.E3007, "cat: %v", err)
		rerr.Err = err
		return nil, rerr
	}
	text := string(data)
	if v, ok := args.Named["numbered"]; ok && v.IsTruthy() {
		lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
		var b strings.Builder
		for i, line := range lines {
			fmt.Fprintf(&b, "%6d\t%s\n", i+1, line)
		}
		text = b.String()
	}
	return object.NewString(text), nil
}

// Length returns the number of characters of a string or fields of a map.
func Length(ctx context.Context, args object.Args) (object.Object, error) {
	if len(args.Positional) != 1 {
		return nil, argError("length: expected 1 argument, got %d", len(args.Positional))
	}
	switch arg := args.Positional[0].(type) {
	case *object.String:
		return object.NewNumber(float64(utf8.RuneCountInString(arg.Value()))), nil
	case *object.Map:
		return object.NewNumber(float64(arg.Len())), nil
	default:
		return nil, object.TypeErrorf("length: unsupported argument (%s given)", arg.Type())
	}
}

func mapString(name string, fn func(string) string) object.BuiltinFunction {
	return func(ctx context.Context, args object.Args) (object.Object, error) {
		if len(args.Positional) != 1 {
			return nil, argError("%s: expected 1 argument, got %d", name, len(args.Positional))
		}
		s, err := object.AsString(args.Positional[0])
		if err != nil {
			return nil, err
		}
		return object.NewString(fn(s)), nil
	}
}

// Upper returns its string argument in upper case.
var Upper = mapString("upper", strings.ToUpper)

// Lower returns its string argument in lower case.
var Lower = mapString("lower", strings.ToLower)

// Join joins its arguments with sep, a single space by default.
func Join(ctx context.Context, args object.Args) (object.Object, error) {
	sep := " "
	if v, ok := args.Named["sep"]; ok {
		sep = v.Inspect()
	}
	return object.NewString(object.Join(args.Positional, sep)), nil
}

// Type returns the type name of its argument.
func Type(ctx context.Context, args object.Args) (object.Object, error) {
	if len(args.Positional) != 1 {
		return nil, argError("type: expected 1 argument, got %d", len(args.Positional))
	}
	return object.NewString(string(args.Positional[0].Type())), nil
}

// Builtins returns the builtins that are always available.
func Builtins() map[string]object.Object {
	return map[string]object.Object{
		"length": object.NewBuiltin("length", Length),
		"upper":  object.NewBuiltin("upper", Upper),
		"lower":  object.NewBuiltin("lower", Lower),
		"join":   object.NewBuiltin("join", Join, "sep"),
		"type":   object.NewBuiltin("type", Type),
	}
}

// commands holds the native implementations of registry commands.
var commands = map[string]object.BuiltinFunction{
	"echo": Echo,
	"cat":  Cat,
}

// ForRegistry returns Builtins plus the native implementation of every
// command of reg that has one. A command accepts the argument names its
// registry entry declares.
func ForRegistry(reg *registry.Registry) map[string]object.Object {
	out := Builtins()
	if reg == nil {
		return out
	}
	for name, fn := range commands {
		m := reg.Lookup(name)
		if m.Exact == nil {
			continue
		}
		params := make([]string, len(m.Exact.Args))
		for i, a := range m.Exact.Args {
			params[i] = a.Name
		}
		out[name] = object.NewBuiltin(name, fn, params...)
	}
	return out
}

// NativeCommands is the part of a registry that has native implementations.
// Its Lookup reports an exact match only for such commands, so a parser
// given it forces calls only for names that can actually run. Partial
// matches are reported unfiltered.
type NativeCommands struct {
	reg *registry.Registry
}

// Native returns the natively implemented commands of reg.
func Native(reg *registry.Registry) NativeCommands {
	return NativeCommands{reg: reg}
}

func (n NativeCommands) Lookup(prefix string) registry.Match {
	if n.reg == nil {
		return registry.Match{}
	}
	m := n.reg.Lookup(prefix)
	if m.Exact != nil {
		if _, ok := commands[m.Exact.Command]; !ok {
			m.Exact = nil
		}
	}
	return m
}
