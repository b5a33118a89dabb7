package compiler

import (
	"strings"
	"testing"

	"github.com/informatter/nilox/chunk"
)

func opcodes(c *chunk.Chunk) []chunk.OpCode {
	ops := make([]chunk.OpCode, len(c.Code))
	for i, inst := range c.Code {
		ops[i] = inst.Op
	}
	return ops
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	var stderr strings.Builder
	c, ok := Compile("1 + 2 * 3", &stderr)
	if !ok {
		t.Fatalf("Compile failed: %s", stderr.String())
	}

	want := []chunk.OpCode{chunk.OpConstant, chunk.OpConstant, chunk.OpConstant, chunk.OpMultiply, chunk.OpAdd, chunk.OpReturn}
	got := opcodes(c)
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("opcode %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCompileComparisonDesugaring(t *testing.T) {
	tests := []struct {
		source string
		want   []chunk.OpCode
	}{
		{"1 != 2", []chunk.OpCode{chunk.OpConstant, chunk.OpConstant, chunk.OpEqual, chunk.OpNot, chunk.OpReturn}},
		{"1 >= 2", []chunk.OpCode{chunk.OpConstant, chunk.OpConstant, chunk.OpLess, chunk.OpNot, chunk.OpReturn}},
		{"1 <= 2", []chunk.OpCode{chunk.OpConstant, chunk.OpConstant, chunk.OpGreater, chunk.OpNot, chunk.OpReturn}},
	}

	for _, tt := range tests {
		var stderr strings.Builder
		c, ok := Compile(tt.source, &stderr)
		if !ok {
			t.Fatalf("%q: Compile failed: %s", tt.source, stderr.String())
		}
		got := opcodes(c)
		if len(got) != len(tt.want) {
			t.Fatalf("%q: opcodes = %v, want %v", tt.source, got, tt.want)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("%q: opcode %d = %s, want %s", tt.source, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCompileUnaryAndGrouping(t *testing.T) {
	var stderr strings.Builder
	c, ok := Compile("-(1 + 2)", &stderr)
	if !ok {
		t.Fatalf("Compile failed: %s", stderr.String())
	}

	want := []chunk.OpCode{chunk.OpConstant, chunk.OpConstant, chunk.OpAdd, chunk.OpNegate, chunk.OpReturn}
	got := opcodes(c)
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("opcode %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCompileLiterals(t *testing.T) {
	var stderr strings.Builder
	c, ok := Compile("!nil", &stderr)
	if !ok {
		t.Fatalf("Compile failed: %s", stderr.String())
	}

	want := []chunk.OpCode{chunk.OpNil, chunk.OpNot, chunk.OpReturn}
	got := opcodes(c)
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
}

func TestCompileMissingExpressionFails(t *testing.T) {
	var stderr strings.Builder
	_, ok := Compile("1 +", &stderr)
	if ok {
		t.Fatal("expected Compile to fail on a dangling operator")
	}
	if !strings.Contains(stderr.String(), "Expected expression") {
		t.Errorf("stderr = %q, want it to mention Expected expression", stderr.String())
	}
}

func TestCompileTrailingTokensFails(t *testing.T) {
	var stderr strings.Builder
	_, ok := Compile("1 2", &stderr)
	if ok {
		t.Fatal("expected Compile to fail on trailing tokens")
	}
	if !strings.Contains(stderr.String(), "Expected end of expression") {
		t.Errorf("stderr = %q, want it to mention Expected end of expression", stderr.String())
	}
}

func TestCompileUnterminatedGroupingFails(t *testing.T) {
	var stderr strings.Builder
	_, ok := Compile("(1 + 2", &stderr)
	if ok {
		t.Fatal("expected Compile to fail on an unterminated grouping")
	}
	if !strings.Contains(stderr.String(), "Expected ')' after expression") {
		t.Errorf("stderr = %q, want it to mention the missing ')'", stderr.String())
	}
}

func TestCompileEmptySourceFails(t *testing.T) {
	var stderr strings.Builder
	_, ok := Compile("", &stderr)
	if ok {
		t.Fatal("expected Compile to fail on empty source")
	}
}

func TestCompilePanicModeSuppressesCascadingErrors(t *testing.T) {
	var stderr strings.Builder
	_, ok := Compile("@ @ @", &stderr)
	if ok {
		t.Fatal("expected Compile to fail")
	}
	if n := strings.Count(stderr.String(), "\n"); n != 1 {
		t.Errorf("expected exactly one reported error line, got %d: %q", n, stderr.String())
	}
}

func TestCompileUnterminatedStringIsACompileError(t *testing.T) {
	var stderr strings.Builder
	_, ok := Compile("\"abc\n", &stderr)
	if ok {
		t.Fatal("expected Compile to fail on an unterminated string")
	}
	if !strings.Contains(stderr.String(), "Unterminated string") {
		t.Errorf("stderr = %q, want it to mention Unterminated string", stderr.String())
	}
}
