package vm

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/object"
)

// env is one level of lexical scope. Assignments write to the innermost
// env; lookups walk outwards.
type env struct {
	vars   map[string]object.Object
	parent *env
}

func newEnv(parent *env, vars map[string]object.Object) *env {
	if vars == nil {
		vars = map[string]object.Object{}
	}
	return &env{vars: vars, parent: parent}
}

func (e *env) get(name string) (object.Object, bool) {
	for ; e != nil; e = e.parent {
		if v, ok := e.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *env) set(name string, value object.Object) {
	e.vars[name] = value
}

// names returns every name visible from e.
func (e *env) names() []string {
	var out []string
	for ; e != nil; e = e.parent {
		for name := range e.vars {
			if !bytecode.IsTemp(name) {
				out = append(out, name)
			}
		}
	}
	return out
}

type frame struct {
	returnAddr int
	returnSp   int
	env        *env
	fn         *Function
}

// Function is a function literal closed over the scope it was created in.
type Function struct {
	label  string
	params []string
	entry  int
	env    *env
}

func (f *Function) Params() []string {
	return slices.Clone(f.params)
}

func (f *Function) Type() object.Type {
	return object.FUNCTION
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("function(%s)", strings.Join(f.params, " "))
}

func (f *Function) Interface() any {
	return f
}

func (f *Function) IsTruthy() bool {
	return true
}

func (f *Function) Equals(other object.Object) bool {
	return other == object.Object(f)
}

// bind assigns arguments to parameters. Named arguments are bound first;
// positional arguments fill the remaining parameters left to right and
// parameters left over are null.
func (f *Function) bind(args object.Args) (map[string]object.Object, error) {
	vars := make(map[string]object.Object, len(f.params))
	for _, name := range args.Names() {
		if !slices.Contains(f.params, name) {
			err := errors.RuntimeErrorf(errors.E3004, "unknown argument %q", name)
			err.Hint = errors.DidYouMean(errors.Suggest(name, f.params))
			return nil, err
		}
		vars[name] = args.Named[name]
	}
	next := 0
	for _, p := range f.params {
		if _, ok := vars[p]; ok {
			continue
		}
		if next < len(args.Positional) {
			vars[p] = args.Positional[next]
			next++
		} else {
			vars[p] = object.Nil
		}
	}
	if next < len(args.Positional) {
		return nil, errors.RuntimeErrorf(errors.E3004,
			"too many arguments: %s takes %d, %d given", f.Inspect(), len(f.params), len(args.Positional)+len(args.Named))
	}
	return vars, nil
}
