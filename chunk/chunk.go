// Package chunk defines the compiled output of the compiler: a decoded
// instruction stream, its per-instruction line table, and its constant
// pool.
package chunk

import (
	"fmt"

	"github.com/informatter/nilox/value"
)

// OpCode names the instructions the VM understands.
type OpCode byte

const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpNegate
	OpNot
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpGreater
	OpLess
	OpReturn
)

var opNames = map[OpCode]string{
	OpConstant: "OP_CONSTANT",
	OpNil:      "OP_NIL",
	OpTrue:     "OP_TRUE",
	OpFalse:    "OP_FALSE",
	OpNegate:   "OP_NEGATE",
	OpNot:      "OP_NOT",
	OpAdd:      "OP_ADD",
	OpSubtract: "OP_SUBTRACT",
	OpMultiply: "OP_MULTIPLY",
	OpDivide:   "OP_DIVIDE",
	OpEqual:    "OP_EQUAL",
	OpGreater:  "OP_GREATER",
	OpLess:     "OP_LESS",
	OpReturn:   "OP_RETURN",
}

func (op OpCode) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN(%d)", byte(op))
}

// Instruction is one decoded entry in a Chunk's code stream. Operand is
// only meaningful for OpConstant, where it is a constant-pool index.
type Instruction struct {
	Op      OpCode
	Operand byte
}

// maxConstants is the size of the constant pool a Chunk can address: the
// operand of OpConstant is a single byte.
const maxConstants = 256

// Chunk is an append-only bytecode buffer built by the compiler and handed,
// read-only, to the VM. len(Code) == len(Lines) always; Lines[i] is the
// source line that produced Code[i].
type Chunk struct {
	Code      []Instruction
	Lines     []int
	Constants []value.Value
}

// New returns an empty Chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends one decoded instruction, recording the source line that
// produced it.
func (c *Chunk) Write(op OpCode, operand byte, line int) {
	c.Code = append(c.Code, Instruction{Op: op, Operand: operand})
	c.Lines = append(c.Lines, line)
}

// AddConstant interns value v into the constant pool and returns its index.
// The pool is append-only; ids are assigned sequentially starting at 0. It
// returns an error once the pool would exceed the 256 entries addressable
// by a one-byte operand.
func (c *Chunk) AddConstant(v value.Value) (byte, error) {
	if len(c.Constants) >= maxConstants {
		return 0, fmt.Errorf("too many constants in one chunk")
	}
	c.Constants = append(c.Constants, v)
	return byte(len(c.Constants) - 1), nil
}
