// Package shrimp compiles and runs Shrimp, a small shell flavoured
// expression language: bare words, commands with named arguments, pipes,
// string interpolation and first class functions.
//
// Compile turns source text into a symbolic bytecode.Program. Run executes a
// program on the reference virtual machine and Eval does both:
//
//	result, err := shrimp.Eval(ctx, "'shrimp' | upper")
package shrimp

import (
	"context"
	"io"
	"maps"

	"github.com/rs/zerolog"

	"github.com/shrimp-lang/shrimp/builtins"
	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/compiler"
	"github.com/shrimp-lang/shrimp/cst"
	"github.com/shrimp-lang/shrimp/object"
	"github.com/shrimp-lang/shrimp/parser"
	"github.com/shrimp-lang/shrimp/registry"
	"github.com/shrimp-lang/shrimp/vm"
)

// Option configures a Shrimp compilation or execution.
type Option func(*options)

type options struct {
	registry *registry.Registry
	globals  map[string]any
	logger   zerolog.Logger
	filename string
	output   io.Writer
}

func collectOptions(opts ...Option) *options {
	o := &options{
		registry: registry.Default(),
		globals:  map[string]any{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	opts := []parser.Option{parser.WithLogger(o.logger)}
	if o.registry != nil {
		opts = append(opts, parser.WithCommands(builtins.Native(o.registry)))
	}
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	globals := Builtins(o.registry)
	maps.Copy(globals, o.globals)
	opts := []vm.Option{vm.WithGlobals(globals), vm.WithLogger(o.logger)}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	return opts
}

// WithRegistry sets the command registry. The commands with a native
// implementation are available to programs, and their bare names parse as
// calls. The default is registry.Default(); nil disables
// both.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithGlobals provides variables that are made available to programs. This
// option is additive; if the same name is supplied multiple times, the last
// value wins. Values are converted with object.FromGo.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		maps.Copy(o.globals, globals)
	}
}

// WithLogger sets the logger handed to the parser, compiler and VM.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithOutput sets where commands such as echo write. Output is discarded by
// default.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// Builtins returns the values every program starts with for the given
// registry: the builtin functions plus the native commands reg declares.
func Builtins(reg *registry.Registry) map[string]any {
	env := map[string]any{}
	for name, value := range builtins.ForRegistry(reg) {
		env[name] = value
	}
	return env
}

// Parse parses source into a concrete syntax tree. The tree is returned
// even when the source has syntax errors; the error aggregates all of them.
func Parse(ctx context.Context, source string, opts ...Option) (*cst.Node, error) {
	o := collectOptions(opts...)
	return parser.Parse(ctx, source, o.parserOpts()...)
}

// Compile parses and compiles source code into a symbolic program.
func Compile(ctx context.Context, source string, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	tree, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(tree, &compiler.Config{
		Filename: o.filename,
		Source:   source,
		Logger:   &o.logger,
	})
}

// Run executes a program and returns the result as a native Go value.
// Functions have no Go equivalent and are returned as their description.
// Each call creates fresh runtime state, so one program may run
// concurrently.
func Run(ctx context.Context, prog *bytecode.Program, opts ...Option) (any, error) {
	o := collectOptions(opts...)
	result, err := vm.Run(ctx, prog, o.vmOpts()...)
	if err != nil {
		return nil, err
	}
	return toGo(result), nil
}

// Eval is a convenience function that compiles and runs source code.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	prog, err := Compile(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	return Run(ctx, prog, opts...)
}

func toGo(result object.Object) any {
	switch result.Type() {
	case object.FUNCTION, object.BUILTIN:
		return result.Inspect()
	}
	return result.Interface()
}
