// Package debug disassembles a chunk's bytecode into a human-readable form,
// used both for an optional post-compile dump (build tag compilerdebug) and
// for per-step execution tracing (build tag vmtrace).
package debug

import (
	"fmt"
	"io"

	"github.com/informatter/nilox/chunk"
)

// DisassembleChunk writes every instruction in c to w, prefixed by a
// `== name ==` header.
func DisassembleChunk(w io.Writer, c *chunk.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); offset++ {
		DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes a single instruction at offset, formatted
// as: a four-digit offset, the source line (or `|` if it repeats the
// previous instruction's line), and the opcode's human-readable rendering
// — including the referenced constant for OpConstant.
func DisassembleInstruction(w io.Writer, c *chunk.Chunk, offset int) {
	fmt.Fprintf(w, "%04d ", offset)

	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	inst := c.Code[offset]
	switch inst.Op {
	case chunk.OpConstant:
		fmt.Fprintf(w, "%-16s %4d '%s'\n", inst.Op, inst.Operand, c.Constants[inst.Operand])
	default:
		fmt.Fprintf(w, "%s\n", inst.Op)
	}
}
