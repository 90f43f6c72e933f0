package cpu

import (
	"fmt"
	"strconv"
)

// Op is an instruction operation type.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_CPY = Op(0) // cpy
	OP_INC = Op(1) // inc
	OP_DEC = Op(2) // dec
	OP_JNZ = Op(3) // jnz
	OP_TGL = Op(4) // tgl
	OP_OUT = Op(5) // out
)

// opArgs is the operand count of each Op.
var opArgs = [...]int{
	OP_CPY: 2,
	OP_INC: 1,
	OP_DEC: 1,
	OP_JNZ: 2,
	OP_TGL: 1,
	OP_OUT: 1,
}

// Args returns the number of operands used by the operation.
func (op Op) Args() int {
	if op < 0 || int(op) >= len(opArgs) {
		panic(fmt.Sprintf("unknown op %d", int(op)))
	}
	return opArgs[op]
}

// Toggle returns the operation a tgl instruction rewrites op into.
//
//	cpy <-> jnz
//	inc <-> dec
//	tgl  -> inc
//	out  -> inc
func (op Op) Toggle() Op {
	switch op {
	case OP_CPY:
		return OP_JNZ
	case OP_JNZ:
		return OP_CPY
	case OP_INC:
		return OP_DEC
	case OP_DEC:
		return OP_INC
	case OP_TGL, OP_OUT:
		return OP_INC
	}

	panic(fmt.Sprintf("unknown op %d", int(op)))
}

// Operand is either a register reference or an immediate value.
type Operand struct {
	Reg   Register // Register referenced, when not Immediate.
	Value int64    // Immediate value.
	Imm   bool     // Set if the operand is an immediate.
}

// MakeReg creates a register operand.
func MakeReg(reg Register) Operand {
	return Operand{Reg: reg}
}

// MakeImm creates an immediate operand.
func MakeImm(value int64) Operand {
	return Operand{Value: value, Imm: true}
}

// Writable returns true if the operand can be the destination of a write.
func (arg Operand) Writable() bool {
	return !arg.Imm
}

// String returns the assembly language form of the operand.
func (arg Operand) String() string {
	if arg.Imm {
		return strconv.FormatInt(arg.Value, 10)
	}
	return arg.Reg.String()
}

// Code is a single instruction. Operands unused by Op are ignored.
type Code struct {
	Op Op
	X  Operand
	Y  Operand
}

// MakeCodeCpy creates a copy of src into dst.
func MakeCodeCpy(src, dst Operand) Code {
	return Code{Op: OP_CPY, X: src, Y: dst}
}

// MakeCodeInc creates an increment of target.
func MakeCodeInc(target Operand) Code {
	return Code{Op: OP_INC, X: target}
}

// MakeCodeDec creates a decrement of target.
func MakeCodeDec(target Operand) Code {
	return Code{Op: OP_DEC, X: target}
}

// MakeCodeJnz creates a relative jump by offset when check is non-zero.
func MakeCodeJnz(check, offset Operand) Code {
	return Code{Op: OP_JNZ, X: check, Y: offset}
}

// MakeCodeTgl creates a toggle of the instruction at ip+target.
func MakeCodeTgl(target Operand) Code {
	return Code{Op: OP_TGL, X: target}
}

// MakeCodeOut creates a transmit of value.
func MakeCodeOut(value Operand) Code {
	return Code{Op: OP_OUT, X: value}
}

// Toggle returns the code with its operation toggled. Operands are kept.
func (code Code) Toggle() Code {
	code.Op = code.Op.Toggle()
	return code
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	switch code.Op.Args() {
	case 1:
		out = fmt.Sprintf("%v %v", code.Op, code.X)
	default:
		out = fmt.Sprintf("%v %v %v", code.Op, code.X, code.Y)
	}

	return
}
