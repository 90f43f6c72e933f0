package cpu

// IDIOM_LENGTH is the number of instructions replaced by an Idiom.
const IDIOM_LENGTH = 5

// Idiom is the net effect of the multiply loop
//
//	inc A
//	dec B
//	jnz B -2
//	dec C
//	jnz C -5
//
// which is A += B*C, B = 0, C = 0.
type Idiom struct {
	A Register // Accumulator.
	B Register // Inner counter.
	C Register // Outer counter.
}

// Apply performs the idiom on a register file.
func (idiom Idiom) Apply(rf *RegisterFile) {
	rf.Set(idiom.A, rf.Get(idiom.A)+rf.Get(idiom.B)*rf.Get(idiom.C))
	rf.Set(idiom.B, 0)
	rf.Set(idiom.C, 0)
}

// isReg returns the register of arg, if arg is a register.
func isReg(arg Operand) (reg Register, ok bool) {
	if arg.Imm {
		return
	}
	return arg.Reg, true
}

// isImm returns true if arg is the immediate value.
func isImm(arg Operand, value int64) bool {
	return arg.Imm && arg.Value == value
}

// MatchIdiom checks if the multiply idiom starts at ip.
// The program is never modified. Because tgl can rewrite any of the five
// instructions, the match must be made again every time ip is reached.
func MatchIdiom(prog *Program, ip int) (idiom Idiom, ok bool) {
	if ip < 0 || ip+IDIOM_LENGTH > prog.Len() {
		return
	}

	inc_a := prog.Read(ip)
	dec_b := prog.Read(ip + 1)
	jnz_b := prog.Read(ip + 2)
	dec_c := prog.Read(ip + 3)
	jnz_c := prog.Read(ip + 4)

	if inc_a.Op != OP_INC || dec_b.Op != OP_DEC || jnz_b.Op != OP_JNZ ||
		dec_c.Op != OP_DEC || jnz_c.Op != OP_JNZ {
		return
	}

	a, a_ok := isReg(inc_a.X)
	b, b_ok := isReg(dec_b.X)
	c, c_ok := isReg(dec_c.X)
	if !a_ok || !b_ok || !c_ok {
		return
	}

	if a == b || b == c || a == c {
		return
	}

	// The loops must test the counters they decrement.
	if jb, jb_ok := isReg(jnz_b.X); !jb_ok || jb != b {
		return
	}
	if jc, jc_ok := isReg(jnz_c.X); !jc_ok || jc != c {
		return
	}

	if !isImm(jnz_b.Y, -2) || !isImm(jnz_c.Y, -5) {
		return
	}

	idiom = Idiom{A: a, B: b, C: c}
	ok = true
	return
}
