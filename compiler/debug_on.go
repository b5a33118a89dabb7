//go:build compilerdebug

package compiler

const printCode = true
