package vm

import (
	"strings"

	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/object"
	"github.com/shrimp-lang/shrimp/op"
)

var opSymbols = map[op.Code]string{
	op.Add: "+",
	op.Sub: "-",
	op.Mul: "*",
	op.Div: "/",
	op.Lt:  "<",
	op.Gt:  ">",
	op.Lte: "<=",
	op.Gte: ">=",
}

func arithmetic(code op.Code, a, b object.Object) (object.Object, error) {
	x, okA := a.(*object.Number)
	y, okB := b.(*object.Number)
	if !okA || !okB {
		return nil, object.TypeErrorf("unsupported operand types for %s: %s and %s",
			opSymbols[code], a.Type(), b.Type())
	}
	switch code {
	case op.Add:
		return object.NewNumber(x.Value() + y.Value()), nil
	case op.Sub:
		return object.NewNumber(x.Value() - y.Value()), nil
	case op.Mul:
		return object.NewNumber(x.Value() * y.Value()), nil
	}
	if y.Value() == 0 {
		return nil, errors.RuntimeErrorf(errors.E3002, "division by zero")
	}
	return object.NewNumber(x.Value() / y.Value()), nil
}

// compare orders two numbers or two strings.
func compare(code op.Code, a, b object.Object) (object.Object, error) {
	var cmp int
	switch x := a.(type) {
	case *object.Number:
		y, ok := b.(*object.Number)
		if !ok {
			return nil, compareError(code, a, b)
		}
		switch {
		case x.Value() < y.Value():
			cmp = -1
		case x.Value() > y.Value():
			cmp = 1
		}
	case *object.String:
		y, ok := b.(*object.String)
		if !ok {
			return nil, compareError(code, a, b)
		}
		cmp = strings.Compare(x.Value(), y.Value())
	default:
		return nil, compareError(code, a, b)
	}
	switch code {
	case op.Lt:
		return object.NewBool(cmp < 0), nil
	case op.Gt:
		return object.NewBool(cmp > 0), nil
	case op.Lte:
		return object.NewBool(cmp <= 0), nil
	}
	return object.NewBool(cmp >= 0), nil
}

func compareError(code op.Code, a, b object.Object) error {
	return object.TypeErrorf("unable to compare %s and %s with %s", a.Type(), b.Type(), opSymbols[code])
}
