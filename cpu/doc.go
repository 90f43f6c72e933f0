// Package cpu implements the register machine and assembler for assembunny
// programs.
//
// The CPU has four signed 64-bit registers (a-d), an instruction pointer into
// a fixed-length Program, and an optional transmit buffer for the out
// instruction. Programs may rewrite themselves with tgl, which flips the
// opcode of another instruction in place.
//
// Before each dispatch the CPU looks for a five instruction multiply idiom
// (see MatchIdiom) and, when found, applies its net effect in a single step.
// The idiom shortcut never changes results; it can be disabled with
// Cpu.Optimize for cross-checking.
//
// The assembler reads the textual form of a program, with .equ constants,
// $(...) compile-time expressions, and jump labels.
package cpu
