package cpu

// Register is a register name.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // a
	REG_B = Register(1) // b
	REG_C = Register(2) // c
	REG_D = Register(3) // d
)

// REGISTER_COUNT is the size of the register file.
const REGISTER_COUNT = 4

// RegisterFile holds the value of every register.
// Arithmetic wraps on overflow.
type RegisterFile [REGISTER_COUNT]int64

// MakeRegisterFile creates a register file from values for a, b, c, d.
func MakeRegisterFile(a, b, c, d int64) RegisterFile {
	return RegisterFile{a, b, c, d}
}

// Get returns the value of a register.
func (rf *RegisterFile) Get(reg Register) int64 {
	return rf[reg]
}

// Set sets the value of a register.
func (rf *RegisterFile) Set(reg Register, value int64) {
	rf[reg] = value
}

// ParseRegister returns the register with the given name.
func ParseRegister(name string) (reg Register, ok bool) {
	for reg = REG_A; reg < REGISTER_COUNT; reg++ {
		if reg.String() == name {
			ok = true
			return
		}
	}

	return
}
