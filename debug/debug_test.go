package debug

import (
	"strings"
	"testing"

	"github.com/informatter/nilox/chunk"
	"github.com/informatter/nilox/value"
)

func TestDisassembleInstructionMarksRepeatedLines(t *testing.T) {
	c := chunk.New()
	id, _ := c.AddConstant(value.Number(1))
	c.Write(chunk.OpConstant, id, 1)
	c.Write(chunk.OpReturn, 0, 1)

	var buf strings.Builder
	DisassembleChunk(&buf, c, "test")
	out := buf.String()

	if !strings.Contains(out, "== test ==") {
		t.Errorf("missing header, got: %s", out)
	}
	if !strings.Contains(out, "0000    1 OP_CONSTANT") {
		t.Errorf("missing first instruction line, got: %s", out)
	}
	if !strings.Contains(out, "0001    | OP_RETURN") {
		t.Errorf("expected continuation marker for repeated line, got: %s", out)
	}
}
