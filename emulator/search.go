package emulator

import (
	"context"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/assembunny/cpu"
)

// SearchOptions selects the candidates tried by Search.
type SearchOptions struct {
	Register  cpu.Register     // Register set to each candidate value.
	Registers cpu.RegisterFile // Initial value of the other registers.
	Start     int64            // First candidate.
	Step      int64            // Candidate increment. Zero is treated as 1.
	Limit     int              // Maximum candidates to try. Zero is unbounded.
	Workers   int              // Concurrent runs. Zero uses GOMAXPROCS.

	// Accept reports whether a run is the one searched for.
	// Defaults to a full transmit buffer holding a clock signal.
	Accept func(res Result) bool
}

// candidate is the outcome of one search run.
type candidate struct {
	value int64
	res   Result
	ok    bool
	err   error
}

// Search runs the loaded program once per candidate value, and returns the
// first candidate (in Start, Start+Step, ... order) whose run is accepted.
// A run that fails ends the search, unless a lower candidate was accepted.
//
// Each run has its own program copy and CPU, so runs are independent and
// are executed concurrently in batches. The context is checked between
// batches; a single run is never interrupted.
func (emu *Emulator) Search(ctx context.Context, opts SearchOptions) (value int64, res Result, err error) {
	step := opts.Step
	if step == 0 {
		step = 1
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	accept := opts.Accept
	if accept == nil {
		accept = func(res Result) bool {
			return len(res.Output) == emu.Capacity && CheckSignal(res.Output)
		}
	}

	next := opts.Start
	tried := 0
	batch := make([]candidate, workers)

	for opts.Limit == 0 || tried < opts.Limit {
		err = ctx.Err()
		if err != nil {
			return
		}

		count := workers
		if opts.Limit != 0 {
			count = min(count, opts.Limit-tried)
		}

		var g errgroup.Group
		for n := range count {
			batch[n] = candidate{value: next}
			next += step

			g.Go(func() error {
				sub := emu.fork()
				rf := opts.Registers
				rf.Set(opts.Register, batch[n].value)

				res, err := sub.Run(rf)
				if err != nil {
					batch[n].err = &ErrCandidate{Value: batch[n].value, Err: err}
					return nil
				}

				batch[n].res = res
				batch[n].ok = accept(res)
				return nil
			})
		}

		// Candidate errors are kept per candidate, so Wait only joins.
		_ = g.Wait()

		for _, cand := range batch[:count] {
			if cand.err != nil {
				err = cand.err
				return
			}
			if cand.ok {
				if emu.Verbose {
					log.Printf("search: %v = %d accepted", opts.Register, cand.value)
				}
				value = cand.value
				res = cand.res
				return
			}
		}

		tried += count
		if emu.Verbose {
			log.Printf("search: %d candidates tried", tried)
		}
	}

	err = ErrSearchExhausted
	return
}
