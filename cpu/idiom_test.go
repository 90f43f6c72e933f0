package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// idiomCodes is the multiply idiom over the given registers.
func idiomCodes(a, b, c Register) []Code {
	return []Code{
		MakeCodeInc(MakeReg(a)),
		MakeCodeDec(MakeReg(b)),
		MakeCodeJnz(MakeReg(b), MakeImm(-2)),
		MakeCodeDec(MakeReg(c)),
		MakeCodeJnz(MakeReg(c), MakeImm(-5)),
	}
}

func TestMatchIdiom(t *testing.T) {
	assert := assert.New(t)

	prog := makeProgram(idiomCodes(REG_A, REG_B, REG_C)...)

	idiom, ok := MatchIdiom(prog, 0)
	assert.True(ok)
	assert.Equal(Idiom{A: REG_A, B: REG_B, C: REG_C}, idiom)

	for ip := 1; ip <= 5; ip++ {
		_, ok = MatchIdiom(prog, ip)
		assert.False(ok, "ip %d", ip)
	}
	_, ok = MatchIdiom(prog, -1)
	assert.False(ok)
}

func TestMatchIdiom_Offset(t *testing.T) {
	assert := assert.New(t)

	prog := makeProgram(MakeCodeCpy(MakeReg(REG_D), MakeReg(REG_C)))
	for _, code := range idiomCodes(REG_B, REG_C, REG_D) {
		prog.Load(code)
	}
	prog.Load(MakeCodeDec(MakeReg(REG_A)))

	_, ok := MatchIdiom(prog, 0)
	assert.False(ok)

	idiom, ok := MatchIdiom(prog, 1)
	assert.True(ok)
	assert.Equal(Idiom{A: REG_B, B: REG_C, C: REG_D}, idiom)

	_, ok = MatchIdiom(prog, 2)
	assert.False(ok)
}

func TestMatchIdiom_Mismatch(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		change func(codes []Code)
	}){
		{"a == b", func(codes []Code) {
			codes[0] = MakeCodeInc(MakeReg(REG_B))
		}},
		{"b == c", func(codes []Code) {
			codes[3] = MakeCodeDec(MakeReg(REG_B))
			codes[4] = MakeCodeJnz(MakeReg(REG_B), MakeImm(-5))
		}},
		{"a == c", func(codes []Code) {
			codes[0] = MakeCodeInc(MakeReg(REG_C))
		}},
		{"inc immediate", func(codes []Code) {
			codes[0] = MakeCodeInc(MakeImm(1))
		}},
		{"dec immediate", func(codes []Code) {
			codes[1] = MakeCodeDec(MakeImm(2))
		}},
		{"inner offset", func(codes []Code) {
			codes[2] = MakeCodeJnz(MakeReg(REG_B), MakeImm(-3))
		}},
		{"outer offset", func(codes []Code) {
			codes[4] = MakeCodeJnz(MakeReg(REG_C), MakeImm(-4))
		}},
		{"offset register", func(codes []Code) {
			codes[2] = MakeCodeJnz(MakeReg(REG_B), MakeReg(REG_D))
		}},
		{"inner check", func(codes []Code) {
			codes[2] = MakeCodeJnz(MakeReg(REG_D), MakeImm(-2))
		}},
		{"outer check", func(codes []Code) {
			codes[4] = MakeCodeJnz(MakeImm(1), MakeImm(-5))
		}},
		{"outer check register", func(codes []Code) {
			codes[4] = MakeCodeJnz(MakeReg(REG_A), MakeImm(-5))
		}},
		{"toggled inc", func(codes []Code) {
			codes[0] = codes[0].Toggle()
		}},
		{"toggled jnz", func(codes []Code) {
			codes[4] = codes[4].Toggle()
		}},
	}

	for _, entry := range table {
		codes := idiomCodes(REG_A, REG_B, REG_C)
		entry.change(codes)
		prog := makeProgram(codes...)
		_, ok := MatchIdiom(prog, 0)
		assert.False(ok, entry.name)
	}
}

func TestMatchIdiom_Short(t *testing.T) {
	assert := assert.New(t)

	codes := idiomCodes(REG_A, REG_B, REG_C)
	prog := makeProgram(codes[:4]...)

	_, ok := MatchIdiom(prog, 0)
	assert.False(ok)
}

func TestMatchIdiom_ReadOnly(t *testing.T) {
	assert := assert.New(t)

	prog := makeProgram(idiomCodes(REG_A, REG_B, REG_C)...)
	before := prog.Clone()

	_, ok := MatchIdiom(prog, 0)
	assert.True(ok)
	assert.Equal(before.Opcodes, prog.Opcodes)
}

func TestIdiom_Apply(t *testing.T) {
	assert := assert.New(t)

	rf := MakeRegisterFile(0, 5, 3, 9)
	Idiom{A: REG_A, B: REG_B, C: REG_C}.Apply(&rf)
	assert.Equal(MakeRegisterFile(15, 0, 0, 9), rf)

	rf = MakeRegisterFile(-4, 2, 7, 1)
	Idiom{A: REG_D, B: REG_A, C: REG_B}.Apply(&rf)
	assert.Equal(MakeRegisterFile(0, 0, 7, -7), rf)
}
