//go:build !vmtrace

package vm

// traceExecution gates the per-instruction stack dump and disassembly.
// Build with `-tags vmtrace` to flip it on; see debug_on.go.
const traceExecution = false
