// Package config handles assembunny run configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/assembunny/cpu"
	"github.com/ezrec/assembunny/emulator"
	"github.com/ezrec/assembunny/translate"
)

var f = translate.From

var (
	ErrConfigCapacity = errors.New(f("transmit capacity must not be negative"))
	ErrConfigSearch   = errors.New(f("search limit and workers must not be negative"))
)

// ErrConfigKey lists configuration keys that are not understood.
type ErrConfigKey []string

func (ek ErrConfigKey) Error() string {
	return f("unknown keys: %v", strings.Join(ek, ", "))
}

// Config is a run configuration.
type Config struct {
	Optimize  bool      `toml:"optimize"`
	Verbose   bool      `toml:"verbose"`
	Registers Registers `toml:"registers"`
	Transmit  Transmit  `toml:"transmit"`
	Search    Search    `toml:"search"`
}

// Registers are the initial register values.
type Registers struct {
	A int64 `toml:"a"`
	B int64 `toml:"b"`
	C int64 `toml:"c"`
	D int64 `toml:"d"`
}

// Transmit configures the output channel.
type Transmit struct {
	Capacity int `toml:"capacity"`
}

// Search configures the clock signal search.
type Search struct {
	Start   int64 `toml:"start"`
	Step    int64 `toml:"step"`
	Limit   int   `toml:"limit"`
	Workers int   `toml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() (cfg *Config) {
	cfg = &Config{
		Optimize: true,
		Transmit: Transmit{
			Capacity: cpu.TRANSMIT_CAPACITY,
		},
		Search: Search{
			Start: 1,
			Step:  2,
		},
	}
	return
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (cfg *Config, err error) {
	cfg = Default()

	md, err := toml.Decode(text, cfg)
	if err != nil {
		cfg = nil
		return
	}

	var unknown ErrConfigKey
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	if len(unknown) != 0 {
		cfg = nil
		err = unknown
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
		return
	}

	return
}

// Load reads and decodes a configuration file.
func Load(path string) (cfg *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	cfg, err = Parse(string(data))
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	return
}

// Validate checks the configuration values.
func (cfg *Config) Validate() (err error) {
	if cfg.Transmit.Capacity < 0 {
		err = ErrConfigCapacity
		return
	}

	if cfg.Search.Limit < 0 || cfg.Search.Workers < 0 {
		err = ErrConfigSearch
		return
	}

	return
}

// RegisterFile returns the initial registers.
func (cfg *Config) RegisterFile() cpu.RegisterFile {
	r := cfg.Registers
	return cpu.MakeRegisterFile(r.A, r.B, r.C, r.D)
}

// Emulator creates a configured emulator with an empty program.
func (cfg *Config) Emulator() (emu *emulator.Emulator) {
	emu = emulator.NewEmulator()
	emu.Verbose = cfg.Verbose
	emu.Optimize = cfg.Optimize
	emu.Capacity = cfg.Transmit.Capacity
	emu.Reset(cfg.RegisterFile())
	return
}

// SearchOptions returns the clock signal search over register a.
func (cfg *Config) SearchOptions() (opts emulator.SearchOptions) {
	opts = emulator.SearchOptions{
		Register:  cpu.REG_A,
		Registers: cfg.RegisterFile(),
		Start:     cfg.Search.Start,
		Step:      cfg.Search.Step,
		Limit:     cfg.Search.Limit,
		Workers:   cfg.Search.Workers,
	}
	return
}
