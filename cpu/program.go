package cpu

import (
	"fmt"
	"iter"
	"slices"
)

// Opcode is a loaded instruction and the source it was assembled from.
type Opcode struct {
	LineNo int      // Source line, or 0 if loaded directly.
	Words  []string // Source words.
	Code   Code     // Current instruction. Toggled in place.
}

// Program is a fixed-length sequence of instructions addressed by position.
// Only the Op of an instruction may change after loading, via Toggle.
type Program struct {
	Opcodes []Opcode
}

// Load appends an instruction to the program.
func (prog *Program) Load(code Code) {
	prog.Opcodes = append(prog.Opcodes, Opcode{Code: code})
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Read returns the instruction at ip.
// Reading outside of the program is a caller error, and panics.
func (prog *Program) Read(ip int) Code {
	if ip < 0 || ip >= len(prog.Opcodes) {
		panic(fmt.Sprintf("program read at %d outside of [0, %d)", ip, len(prog.Opcodes)))
	}
	return prog.Opcodes[ip].Code
}

// InBounds returns true if ip addresses an instruction.
func (prog *Program) InBounds(ip int) bool {
	return ip >= 0 && ip < len(prog.Opcodes)
}

// Toggle rewrites the operation of the instruction at ip.
// Returns false, leaving the program untouched, if ip is out of bounds.
func (prog *Program) Toggle(ip int) (ok bool) {
	if !prog.InBounds(ip) {
		return
	}

	op := &prog.Opcodes[ip]
	op.Code = op.Code.Toggle()
	ok = true
	return
}

// Clone returns an independent copy of the program, so that toggles made by
// a run on the copy are not visible in the original.
func (prog *Program) Clone() *Program {
	return &Program{Opcodes: slices.Clone(prog.Opcodes)}
}

// All iterates over every instruction and its position.
func (prog *Program) All() iter.Seq2[int, Code] {
	return func(yield func(ip int, code Code) bool) {
		for ip, op := range prog.Opcodes {
			if !yield(ip, op.Code) {
				return
			}
		}
	}
}

// Debug returns the source of the instruction at ip, or nil if ip is out of
// bounds.
func (prog *Program) Debug(ip int) *Opcode {
	if !prog.InBounds(ip) {
		return nil
	}
	return &prog.Opcodes[ip]
}

// String returns the program listing, one instruction per line.
func (prog *Program) String() (text string) {
	for ip, code := range prog.All() {
		text += fmt.Sprintf("%3d: %v\n", ip, code)
	}

	return
}
