// Command nilox is a single-pass compiler and stack-based virtual machine
// for a small expression language. Run with no arguments for an
// interactive prompt, or with a single file path to compile and run a
// script. All program output and diagnostics go to stderr.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/informatter/nilox/vm"
)

const usageExitCode = 64
const compileErrorExitCode = 65
const runtimeErrorExitCode = 70

func main() {
	switch len(os.Args) {
	case 1:
		repl()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [path]\n", os.Args[0])
		os.Exit(usageExitCode)
	}
}

// repl drives one long-lived VM across every line read, matching a
// long-running process's variable and state lifetime rather than starting
// fresh each line.
func repl() {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(runtimeErrorExitCode)
	}
	defer rl.Close()

	m := vm.New(os.Stderr)

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		m.Interpret(line)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not read file %q: %v\n", path, err)
		os.Exit(runtimeErrorExitCode)
	}

	m := vm.New(os.Stderr)
	switch m.Interpret(string(source)) {
	case vm.InterpretCompileError:
		os.Exit(compileErrorExitCode)
	case vm.InterpretRuntimeError:
		os.Exit(runtimeErrorExitCode)
	}
}
