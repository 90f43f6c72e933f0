// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/assembunny/config"
	"github.com/ezrec/assembunny/cpu"
)

func main() {
	var configFile string
	var optimize bool
	var capacity int
	var signal bool
	var verbose bool
	var regs [cpu.REGISTER_COUNT]int64

	flag.StringVar(&configFile, "config", "", ".toml run configuration")
	for n := range regs {
		name := cpu.Register(n).String()
		flag.Int64Var(&regs[n], name, 0, "Initial value of register "+name)
	}
	flag.BoolVar(&optimize, "O", true, "Execute multiply idioms as a single step")
	flag.IntVar(&capacity, "t", cpu.TRANSMIT_CAPACITY, "Transmit buffer capacity")
	flag.BoolVar(&signal, "signal", false, "Search for the lowest a producing a clock signal")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: Expected one program, got: %v", os.Args[0], flag.Args())
	}
	source := flag.Arg(0)

	cfg := config.Default()
	if len(configFile) != 0 {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}

	// Flags given on the command line override the configuration.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "a":
			cfg.Registers.A = regs[cpu.REG_A]
		case "b":
			cfg.Registers.B = regs[cpu.REG_B]
		case "c":
			cfg.Registers.C = regs[cpu.REG_C]
		case "d":
			cfg.Registers.D = regs[cpu.REG_D]
		case "O":
			cfg.Optimize = optimize
		case "t":
			cfg.Transmit.Capacity = capacity
		case "v":
			cfg.Verbose = verbose
		}
	})

	err := cfg.Validate()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	emu := cfg.Emulator()
	err = emu.Load(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if signal {
		value, _, err := emu.Search(context.Background(), cfg.SearchOptions())
		if err != nil {
			log.Fatalf("%v: %v", source, err)
		}
		fmt.Println(value)
		return
	}

	res, err := emu.Run(cfg.RegisterFile())
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	for n := range cpu.REGISTER_COUNT {
		reg := cpu.Register(n)
		fmt.Printf("%v: %d\n", reg, res.Registers.Get(reg))
	}
	if len(res.Output) != 0 {
		fmt.Printf("out: %v\n", res.Output)
	}
	if cfg.Verbose {
		log.Printf("%d ticks, %d shortcuts", res.Ticks, res.Shortcuts)
	}
}
