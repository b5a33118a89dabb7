//go:build !compilerdebug

package compiler

// printCode gates chunk disassembly after a successful compile. Build
// with `-tags compilerdebug` to flip it on; see debug_on.go.
const printCode = false
