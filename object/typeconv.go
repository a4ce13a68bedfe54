package object

import (
	"context"
	"fmt"
	"io"

	"github.com/shrimp-lang/shrimp/bytecode"
)

// FromLiteral converts a PUSH operand to an object.
func FromLiteral(v bytecode.Value) (Object, error) {
	switch v.Kind {
	case bytecode.NullKind:
		return Nil, nil
	case bytecode.BoolKind:
		return NewBool(v.Bool), nil
	case bytecode.NumberKind:
		return NewNumber(v.Number), nil
	case bytecode.StringKind:
		return NewString(v.Str), nil
	case bytecode.RegexKind:
		return NewRegex(v.Str, v.Flags)
	}
	return nil, fmt.Errorf("unknown literal kind %d", v.Kind)
}

// FromGo converts a Go value to an object. Objects are returned unchanged;
// maps with string keys become Map values and functions with the
// BuiltinFunction signature become builtins.
func FromGo(value any) (Object, error) {
	switch v := value.(type) {
	case Object:
		return v, nil
	case nil:
		return Nil, nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case float64:
		return NewNumber(v), nil
	case float32:
		return NewNumber(float64(v)), nil
	case int:
		return NewNumber(float64(v)), nil
	case int64:
		return NewNumber(float64(v)), nil
	case int32:
		return NewNumber(float64(v)), nil
	case uint:
		return NewNumber(float64(v)), nil
	case uint64:
		return NewNumber(float64(v)), nil
	case map[string]any:
		items := make(map[string]Object, len(v))
		for k, item := range v {
			obj, err := FromGo(item)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			items[k] = obj
		}
		return NewMap(items), nil
	case map[string]string:
		items := make(map[string]Object, len(v))
		for k, item := range v {
			items[k] = NewString(item)
		}
		return NewMap(items), nil
	case func(ctx context.Context, args Args) (Object, error):
		return NewBuiltin("native", v), nil
	}
	return nil, fmt.Errorf("unsupported type %T", value)
}

// AsObjects converts every value of a map with FromGo.
func AsObjects(values map[string]any) (map[string]Object, error) {
	out := make(map[string]Object, len(values))
	for name, value := range values {
		// Go functions are named after the global they are bound to.
		if fn, ok := value.(func(ctx context.Context, args Args) (Object, error)); ok {
			out[name] = NewBuiltin(name, fn)
			continue
		}
		obj, err := FromGo(value)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", name, err)
		}
		out[name] = obj
	}
	return out, nil
}

type contextKey string

const outputKey = contextKey("shrimp:output")

// WithOutput returns a context carrying the writer builtins print to.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey, w)
}

// GetOutput returns the writer set by WithOutput, or io.Discard.
func GetOutput(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey).(io.Writer); ok && w != nil {
		return w
	}
	return io.Discard
}
