//go:build vmtrace

package vm

const traceExecution = true
