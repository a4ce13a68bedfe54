// Package vm provides a VirtualMachine that executes compiled Shrimp
// programs.
//
// The machine runs a linked bytecode.Program on a single value stack.
// Variables live in a chain of environments: the globals at the root, and
// one environment per active call whose parent is the scope the function
// literal was evaluated in.
package vm

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shrimp-lang/shrimp/bytecode"
	"github.com/shrimp-lang/shrimp/errors"
	"github.com/shrimp-lang/shrimp/object"
	"github.com/shrimp-lang/shrimp/op"
)

const (
	MaxFrameDepth = 1024
	MaxStackDepth = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var ErrGlobalNotFound = stderrors.New("global not found")

type VirtualMachine struct {
	ip          int // instruction pointer
	sp          int // stack pointer
	fp          int // frame pointer
	activeFrame *frame
	main        *bytecode.Program
	code        []bytecode.Instruction
	constants   []object.Object // converted PUSH operands, by instruction index
	globals     *env
	running     bool
	runMutex    sync.Mutex
	stack       [MaxStackDepth]object.Object
	frames      [MaxFrameDepth]frame

	inputGlobals         map[string]any
	log                  zerolog.Logger
	output               io.Writer
	contextCheckInterval int
}

// New creates a Virtual Machine for the given program, linking it first if
// needed.
func New(main *bytecode.Program, options ...Option) (*VirtualMachine, error) {
	vm := &VirtualMachine{
		sp:                   -1,
		inputGlobals:         map[string]any{},
		log:                  zerolog.Nop(),
		output:               io.Discard,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	globals, err := object.AsObjects(vm.inputGlobals)
	if err != nil {
		return nil, fmt.Errorf("invalid global provided: %w", err)
	}
	vm.globals = newEnv(nil, globals)

	linked, err := main.Link()
	if err != nil {
		return nil, err
	}
	vm.main = linked
	vm.code = make([]bytecode.Instruction, 0, linked.Len())
	vm.constants = make([]object.Object, linked.Len())
	for i, instr := range linked.All() {
		vm.code = append(vm.code, instr)
		if instr.Op != op.Push {
			continue
		}
		if vm.constants[i], err = object.FromLiteral(instr.Value); err != nil {
			return nil, vm.locate(errors.RuntimeErrorf(errors.E3007, "invalid literal %s: %v", instr.Value, err), i)
		}
	}
	return vm, nil
}

// Run executes a program and returns its result.
func Run(ctx context.Context, main *bytecode.Program, options ...Option) (object.Object, error) {
	vm, err := New(main, options...)
	if err != nil {
		return nil, err
	}
	return vm.Run(ctx)
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the program from the start and returns the value left on
// the stack by HALT. Globals assigned by a previous run remain visible.
func (vm *VirtualMachine) Run(ctx context.Context) (result object.Object, err error) {
	if err := vm.start(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(*errors.RuntimeError)
			if !ok {
				panic(r)
			}
			result, err = nil, vm.locate(rerr, vm.ip-1)
		}
		vm.stop()
	}()

	vm.ip, vm.sp, vm.fp = 0, -1, 0
	vm.frames[0] = frame{env: vm.globals}
	vm.activeFrame = &vm.frames[0]

	ctx = object.WithOutput(ctx, vm.output)
	if err := vm.eval(ctx); err != nil {
		var rerr *errors.RuntimeError
		if !stderrors.As(err, &rerr) {
			rerr = &errors.RuntimeError{Code: errors.E3007, Message: err.Error(), Err: err}
		}
		return nil, vm.locate(rerr, vm.ip-1)
	}
	if vm.sp < 0 {
		return object.Nil, nil
	}
	return vm.stack[vm.sp], nil
}

// Get returns a global variable.
func (vm *VirtualMachine) Get(name string) (object.Object, error) {
	if v, ok := vm.globals.vars[name]; ok && !bytecode.IsTemp(name) {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrGlobalNotFound, name)
}

// GlobalNames returns the names of all global variables.
func (vm *VirtualMachine) GlobalNames() []string {
	return vm.globals.names()
}

// locate attaches the source span of the instruction at index to err,
// unless it already has a location.
func (vm *VirtualMachine) locate(err *errors.RuntimeError, index int) *errors.RuntimeError {
	if err.Source != "" || index < 0 || index >= len(vm.code) || vm.main.Source() == "" {
		return err
	}
	return err.At(vm.main.Filename(), vm.main.Source(), vm.code[index].Span)
}

// Evaluate the program until HALT. The caller must initialize vm.ip,
// vm.sp and the active frame.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for {
		if checkInterval > 0 && doneChan != nil {
			if instructionCount%checkInterval == 0 {
				select {
				case <-doneChan:
					return &errors.RuntimeError{Code: errors.E3008, Message: ctx.Err().Error(), Err: ctx.Err()}
				default:
				}
			}
			instructionCount++
		}
		if vm.ip < 0 || vm.ip >= len(vm.code) {
			return errors.RuntimeErrorf(errors.E3007, "instruction pointer %d out of range", vm.ip)
		}

		instr := vm.code[vm.ip]

		// Advance before executing, so calls return to the next instruction.
		vm.ip++

		switch instr.Op {
		case op.Halt:
			return nil
		case op.Push:
			vm.push(vm.constants[vm.ip-1])
		case op.TryLoad:
			vm.push(vm.load(instr.Name))
		case op.TryCall:
			value, ok := vm.activeFrame.env.get(instr.Name)
			if !ok {
				vm.push(object.NewString(instr.Name))
				continue
			}
			switch value.(type) {
			case *Function, *object.Builtin:
				if err := vm.call(ctx, value, object.Args{}); err != nil {
					return err
				}
			default:
				vm.push(value)
			}
		case op.Store:
			vm.activeFrame.env.set(instr.Name, vm.top())
		case op.DotGet:
			base := vm.pop()
			getter, ok := base.(object.AttrGetter)
			if !ok {
				return object.TypeErrorf("cannot read field %q of %s", instr.Name, base.Type())
			}
			value, found := getter.GetAttr(instr.Name)
			if !found {
				return errors.RuntimeErrorf(errors.E3007, "field %q not found on %s", instr.Name, base.Type())
			}
			vm.push(value)
		case op.Add, op.Sub, op.Mul, op.Div:
			b := vm.pop()
			a := vm.pop()
			result, err := arithmetic(instr.Op, a, b)
			if err != nil {
				return err
			}
			vm.push(result)
		case op.Eq:
			b := vm.pop()
			a := vm.pop()
			vm.push(object.NewBool(a.Equals(b)))
		case op.Neq:
			b := vm.pop()
			a := vm.pop()
			vm.push(object.NewBool(!a.Equals(b)))
		case op.Lt, op.Gt, op.Lte, op.Gte:
			b := vm.pop()
			a := vm.pop()
			result, err := compare(instr.Op, a, b)
			if err != nil {
				return err
			}
			vm.push(result)
		case op.Dup:
			vm.push(vm.top())
		case op.Pop:
			vm.pop()
		case op.StrConcat:
			parts := make([]object.Object, instr.Count)
			for i := instr.Count - 1; i >= 0; i-- {
				parts[i] = vm.pop()
			}
			vm.push(object.NewString(object.Join(parts, "")))
		case op.Jump:
			vm.ip = instr.Target
		case op.JumpIfFalse:
			if !vm.pop().IsTruthy() {
				vm.ip = instr.Target
			}
		case op.JumpIfTrue:
			if vm.pop().IsTruthy() {
				vm.ip = instr.Target
			}
		case op.MakeFunction:
			vm.push(&Function{
				label:  instr.Label,
				params: instr.Params,
				entry:  instr.Target,
				env:    vm.activeFrame.env,
			})
		case op.Call:
			nnamed, err := vm.popCount()
			if err != nil {
				return err
			}
			npos, err := vm.popCount()
			if err != nil {
				return err
			}
			args := object.Args{Positional: make([]object.Object, npos)}
			if nnamed > 0 {
				args.Named = make(map[string]object.Object, nnamed)
			}
			for i := 0; i < nnamed; i++ {
				value := vm.pop()
				name, err := object.AsString(vm.pop())
				if err != nil {
					return errors.RuntimeErrorf(errors.E3007, "malformed call: argument name is not a string")
				}
				args.Named[name] = value
			}
			for i := npos - 1; i >= 0; i-- {
				args.Positional[i] = vm.pop()
			}
			if err := vm.call(ctx, vm.pop(), args); err != nil {
				return err
			}
		case op.Return:
			result := vm.pop()
			if vm.fp == 0 {
				return errors.RuntimeErrorf(errors.E3007, "return outside of a function")
			}
			f := vm.activeFrame
			vm.ip = f.returnAddr
			vm.sp = f.returnSp
			vm.fp--
			vm.activeFrame = &vm.frames[vm.fp]
			vm.push(result)
		default:
			return errors.RuntimeErrorf(errors.E3007, "unsupported instruction %s", instr.Op)
		}
	}
}

// load returns the value of name, or the name itself as a string when it
// is not bound.
func (vm *VirtualMachine) load(name string) object.Object {
	if value, ok := vm.activeFrame.env.get(name); ok {
		return value
	}
	return object.NewString(name)
}

func (vm *VirtualMachine) call(ctx context.Context, callee object.Object, args object.Args) error {
	switch fn := callee.(type) {
	case *Function:
		vm.log.Debug().
			Str("callee", fn.label).
			Int("positional", len(args.Positional)).
			Int("named", len(args.Named)).
			Msg("call")
		if vm.fp+1 >= MaxFrameDepth {
			return errors.RuntimeErrorf(errors.E3006, "maximum call depth of %d exceeded", MaxFrameDepth)
		}
		vars, err := fn.bind(args)
		if err != nil {
			return err
		}
		vm.fp++
		vm.frames[vm.fp] = frame{
			returnAddr: vm.ip,
			returnSp:   vm.sp,
			env:        newEnv(fn.env, vars),
			fn:         fn,
		}
		vm.activeFrame = &vm.frames[vm.fp]
		vm.ip = fn.entry
		return nil
	case *object.Builtin:
		vm.log.Debug().
			Str("callee", fn.Name()).
			Int("positional", len(args.Positional)).
			Int("named", len(args.Named)).
			Msg("call")
		result, err := fn.Call(ctx, args)
		if err != nil {
			return err
		}
		if result == nil {
			result = object.Nil
		}
		vm.push(result)
		return nil
	case *object.String:
		// An unbound name loads as its own text.
		err := errors.RuntimeErrorf(errors.E3003, "%q is not a function", fn.Value())
		err.Hint = errors.DidYouMean(errors.Suggest(fn.Value(), vm.activeFrame.env.names()))
		return err
	}
	return errors.RuntimeErrorf(errors.E3003, "%s is not callable", callee.Type())
}

func (vm *VirtualMachine) popCount() (int, error) {
	n, err := object.AsNumber(vm.pop())
	if err != nil || n < 0 || n != math.Trunc(n) {
		return 0, errors.RuntimeErrorf(errors.E3007, "malformed call: invalid argument count")
	}
	return int(n), nil
}

func (vm *VirtualMachine) push(obj object.Object) {
	if vm.sp+1 >= MaxStackDepth {
		panic(errors.RuntimeErrorf(errors.E3006, "stack overflow"))
	}
	vm.sp++
	vm.stack[vm.sp] = obj
}

func (vm *VirtualMachine) pop() object.Object {
	if vm.sp < 0 {
		panic(errors.RuntimeErrorf(errors.E3005, "stack underflow"))
	}
	obj := vm.stack[vm.sp]
	vm.stack[vm.sp] = nil
	vm.sp--
	return obj
}

func (vm *VirtualMachine) top() object.Object {
	if vm.sp < 0 {
		panic(errors.RuntimeErrorf(errors.E3005, "stack underflow"))
	}
	return vm.stack[vm.sp]
}
