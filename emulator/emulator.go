// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives assembunny programs: it loads a program once, and
// runs it any number of times from different initial registers.
package emulator

import (
	"io"
	"log"
	"slices"

	"github.com/ezrec/assembunny/cpu"
)

// Result of a run to halt.
type Result struct {
	Registers cpu.RegisterFile // Final registers.
	Output    []int64          // Transmitted values, if the run had a transmit buffer.
	Ticks     int              // Instructions executed one at a time.
	Shortcuts int              // Multiply idioms executed as a single step.
}

// Emulator state. Pristine program + CPU for the current run.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Optimize bool         // If set, enables the multiply idiom shortcut.
	Capacity int          // Transmit buffer capacity. Zero disables out.
	*cpu.Cpu              // Reference to the CPU of the current run.
	Program  *cpu.Program // Loaded program. Never modified by a run.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Optimize: true,
		Capacity: cpu.TRANSMIT_CAPACITY,
		Program:  &cpu.Program{},
	}

	emu.Reset(cpu.RegisterFile{})

	return
}

// Load assembles a program, replacing the current program.
func (emu *Emulator) Load(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d instructions", prog.Len())
	}

	emu.Program = prog
	emu.Reset(cpu.RegisterFile{})

	return
}

// Reset prepares a new run from the given registers. The run gets its own
// copy of the program, so toggles never leak between runs.
func (emu *Emulator) Reset(rf cpu.RegisterFile) {
	emu.Cpu = cpu.NewCpu(emu.Program.Clone(), emu.Capacity)
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Optimize = emu.Optimize
	emu.Cpu.Reset(rf)
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the current instruction code, as toggled by the run.
func (emu *Emulator) Code() (code cpu.Code) {
	if emu.Cpu.Halted() {
		return
	}

	return emu.Cpu.Program.Read(emu.Cpu.Ip)
}

// LineNo returns the source line number of the current instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Cpu.Program.Debug(emu.Cpu.Ip)
	if dbg == nil {
		return 0
	}

	return dbg.LineNo
}

// Result returns the state of the current run.
func (emu *Emulator) Result() (res Result) {
	res = Result{
		Registers: emu.Cpu.Register,
		Ticks:     emu.Cpu.Ticks,
		Shortcuts: emu.Cpu.Shortcuts,
	}

	if emu.Cpu.Transmit != nil {
		res.Output = slices.Clone(emu.Cpu.Transmit.Values())
	}

	return
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Cpu.Halted() {
		done = true
		return
	}

	lineno := emu.LineNo()
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()

	return
}

// Run resets the emulator, and runs the program to halt.
func (emu *Emulator) Run(rf cpu.RegisterFile) (res Result, err error) {
	emu.Reset(rf)

	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	res = emu.Result()

	return
}

// fork creates an emulator sharing the loaded program, for concurrent runs.
func (emu *Emulator) fork() (sub *Emulator) {
	sub = &Emulator{
		Verbose:  emu.Verbose,
		Optimize: emu.Optimize,
		Capacity: emu.Capacity,
		Program:  emu.Program,
	}

	return
}
