// Package vm implements the stack-based bytecode interpreter: a
// fetch-decode-execute loop over a chunk.Chunk's decoded instructions,
// with runtime type checks on every arithmetic and comparison opcode.
package vm

import (
	"fmt"
	"io"

	"github.com/informatter/nilox/chunk"
	"github.com/informatter/nilox/compiler"
	"github.com/informatter/nilox/debug"
	"github.com/informatter/nilox/value"
)

// InterpretResult is the three-way outcome the driver branches its exit
// code on.
type InterpretResult int

const (
	InterpretOk InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// VM owns a chunk for the duration of one Interpret call, a fetch-execute
// instruction pointer into it, and a value stack. All diagnostic output —
// the compiled program's printed result, compile errors forwarded from the
// compiler, and runtime errors — is written to stderr.
type VM struct {
	chunk  *chunk.Chunk
	ip     int
	stack  Stack
	stderr io.Writer
}

// New constructs a VM with an empty stack, ready to Interpret source.
// stderr is where the VM and the compiler it drives write all diagnostics.
func New(stderr io.Writer) *VM {
	return &VM{stderr: stderr}
}

// Interpret compiles source and, if compilation succeeds, runs the
// resulting chunk to completion. Once compilation succeeds, the VM's stack
// is reset and the new chunk replaces the one from the previous call; on a
// compile error the VM's state is left as it was.
func (vm *VM) Interpret(source string) InterpretResult {
	c, ok := compiler.Compile(source, vm.stderr)
	if !ok {
		return InterpretCompileError
	}

	vm.chunk = c
	vm.ip = 0
	vm.stack = vm.stack[:0]

	return vm.run()
}

func (vm *VM) run() InterpretResult {
	if len(vm.chunk.Code) == 0 {
		return InterpretOk
	}

	for {
		inst := vm.chunk.Code[vm.ip]
		vm.ip++

		if traceExecution {
			vm.traceStack()
			debug.DisassembleInstruction(vm.stderr, vm.chunk, vm.ip-1)
		}

		switch inst.Op {
		case chunk.OpConstant:
			vm.stack.Push(vm.chunk.Constants[inst.Operand])

		case chunk.OpNil:
			vm.stack.Push(value.Nil)
		case chunk.OpTrue:
			vm.stack.Push(value.Bool(true))
		case chunk.OpFalse:
			vm.stack.Push(value.Bool(false))

		case chunk.OpNegate:
			operand := vm.stack.Peek(0)
			if !operand.IsNumber() {
				return vm.runtimeError("Operand must be a number")
			}
			vm.stack.Pop()
			vm.stack.Push(value.Number(-operand.AsNumber()))

		case chunk.OpNot:
			vm.stack.Push(value.Bool(vm.stack.Pop().IsFalsey()))

		case chunk.OpAdd, chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if res, ok := vm.numericBinaryOp(inst.Op); ok {
				vm.stack.Push(res)
			} else {
				return vm.runtimeError("Operands must be numbers")
			}

		case chunk.OpEqual:
			b := vm.stack.Pop()
			a := vm.stack.Pop()
			vm.stack.Push(value.Bool(a.Equal(b)))

		case chunk.OpGreater, chunk.OpLess:
			b := vm.stack.Peek(0)
			a := vm.stack.Peek(1)
			if !a.IsNumber() || !b.IsNumber() {
				return vm.runtimeError("Operands must be numbers")
			}
			vm.stack.Pop()
			vm.stack.Pop()
			if inst.Op == chunk.OpGreater {
				vm.stack.Push(value.Bool(a.AsNumber() > b.AsNumber()))
			} else {
				vm.stack.Push(value.Bool(a.AsNumber() < b.AsNumber()))
			}

		case chunk.OpReturn:
			fmt.Fprintln(vm.stderr, vm.stack.Pop())
			return InterpretOk
		}
	}
}

// numericBinaryOp checks that the top two stack values are both numbers,
// pops them, and returns the result of applying op. ok is false — and the
// stack is left untouched — when the type check fails, so the caller can
// report a runtime error without having corrupted the stack.
func (vm *VM) numericBinaryOp(op chunk.OpCode) (value.Value, bool) {
	b := vm.stack.Peek(0)
	a := vm.stack.Peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return value.Value{}, false
	}
	vm.stack.Pop()
	vm.stack.Pop()

	switch op {
	case chunk.OpAdd:
		return value.Number(a.AsNumber() + b.AsNumber()), true
	case chunk.OpSubtract:
		return value.Number(a.AsNumber() - b.AsNumber()), true
	case chunk.OpMultiply:
		return value.Number(a.AsNumber() * b.AsNumber()), true
	case chunk.OpDivide:
		return value.Number(a.AsNumber() / b.AsNumber()), true
	default:
		return value.Value{}, false
	}
}

// runtimeError reports err at the line of the instruction that just
// faulted — lines[ip-1], since ip was advanced before dispatch — and
// clears the stack before returning control to the driver.
func (vm *VM) runtimeError(message string) InterpretResult {
	err := &RuntimeError{Message: message, Line: vm.chunk.Lines[vm.ip-1]}
	fmt.Fprintln(vm.stderr, err.Error())
	vm.stack = vm.stack[:0]
	return InterpretRuntimeError
}

func (vm *VM) traceStack() {
	fmt.Fprint(vm.stderr, "          ")
	for _, v := range vm.stack {
		fmt.Fprintf(vm.stderr, "[ %s ]", v)
	}
	fmt.Fprintln(vm.stderr)
}
