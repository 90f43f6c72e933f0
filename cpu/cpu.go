package cpu

import (
	"errors"
	"fmt"
	"log"
	"slices"
)

// Cpu is the execution context for one run of a Program.
type Cpu struct {
	Verbose  bool // Set to enable verbose logging.
	Optimize bool // Set to enable the multiply idiom shortcut.

	Program  *Program     // Program being executed. Toggled in place.
	Ip       int          // Current instruction pointer. Len() when halted.
	Register RegisterFile // Register bank.
	Transmit *Transmit    // Output buffer, or nil if out is not supported.

	Ticks     int // Instructions executed one at a time.
	Shortcuts int // Idioms executed as a single step.
}

// NewCpu creates a CPU for a program. A non-zero capacity attaches a
// transmit buffer of that size for the out instruction.
//
// The CPU toggles the program in place. Use Program.Clone() when the
// program must be reused unmodified.
func NewCpu(prog *Program, capacity int) (cpu *Cpu) {
	cpu = &Cpu{
		Optimize: true,
		Program:  prog,
	}

	if capacity > 0 {
		cpu.Transmit = &Transmit{Capacity: capacity}
	}

	return
}

// Reset the CPU state for a new run.
// - Sets the registers.
// - Zeros the instruction pointer and statistics counters.
// - Clears the transmit buffer.
func (cpu *Cpu) Reset(rf RegisterFile) {
	if cpu.Verbose {
		log.Printf("cpu: reset %v", rf)
	}

	cpu.Register = rf
	cpu.Ip = 0
	cpu.Ticks = 0
	cpu.Shortcuts = 0

	if cpu.Transmit != nil {
		cpu.Transmit.Reset()
	}
}

// Halted returns true if the CPU has run off the end of the program, or has
// filled its transmit buffer.
func (cpu *Cpu) Halted() bool {
	return cpu.Ip >= cpu.Program.Len()
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %d\n", "ip", cpu.Ip)
	for reg := REG_A; reg < REGISTER_COUNT; reg++ {
		text += fmt.Sprintf("% 5s: %d\n", reg, cpu.Register.Get(reg))
	}
	if cpu.Transmit != nil {
		text += fmt.Sprintf("% 5s: %d/%d\n", "out", cpu.Transmit.Index, cpu.Transmit.Capacity)
	}

	return
}

// Run executes until the CPU halts, and returns the final registers and the
// transmitted values.
func (cpu *Cpu) Run() (rf RegisterFile, out []int64, err error) {
	defer func() {
		rf = cpu.Register
		if cpu.Transmit != nil {
			out = slices.Clone(cpu.Transmit.Values())
		}
	}()

	for !cpu.Halted() {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Tick executes a single CPU cycle: either one multiply idiom, or the one
// instruction at the instruction pointer.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted() {
		err = ErrHalted
		return
	}

	if cpu.Optimize {
		idiom, ok := MatchIdiom(cpu.Program, cpu.Ip)
		if ok {
			if cpu.Verbose {
				log.Printf("%03d: idiom %v += %v * %v", cpu.Ip, idiom.A, idiom.B, idiom.C)
			}
			idiom.Apply(&cpu.Register)
			cpu.Ip += IDIOM_LENGTH
			cpu.Shortcuts++
			return
		}
	}

	err = cpu.Execute(cpu.Program.Read(cpu.Ip))
	return
}

// Execute executes a single decoded instruction at the current instruction
// pointer.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Ip, code)
	}

	next_ip := cpu.Ip + 1

	switch code.Op {
	case OP_CPY:
		if code.Y.Writable() {
			cpu.Register.Set(code.Y.Reg, cpu.getValue(code.X))
		}
	case OP_INC:
		if code.X.Writable() {
			cpu.Register.Set(code.X.Reg, cpu.Register.Get(code.X.Reg)+1)
		}
	case OP_DEC:
		if code.X.Writable() {
			cpu.Register.Set(code.X.Reg, cpu.Register.Get(code.X.Reg)-1)
		}
	case OP_JNZ:
		if cpu.getValue(code.X) != 0 {
			next_ip = cpu.Ip + int(cpu.getValue(code.Y))
		}
	case OP_TGL:
		target := cpu.Ip + int(cpu.getValue(code.X))
		if !cpu.Program.Toggle(target) && cpu.Verbose {
			log.Printf("%03d: tgl target %d out of range", cpu.Ip, target)
		}
	case OP_OUT:
		if cpu.Transmit == nil {
			err = ErrChannelInvalid
			return
		}
		if cpu.Transmit.Send(cpu.getValue(code.X)) {
			// Buffer is full, halt.
			next_ip = cpu.Program.Len()
		}
	default:
		panic(fmt.Sprintf("unknown op %d", int(code.Op)))
	}

	if next_ip < 0 || next_ip > cpu.Program.Len() {
		err = ErrIpRange
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// getValue gets the value of an operand.
func (cpu *Cpu) getValue(src Operand) int64 {
	if src.Imm {
		return src.Value
	}
	return cpu.Register.Get(src.Reg)
}
