package emulator

import (
	"errors"

	"github.com/ezrec/assembunny/translate"
)

var f = translate.From

var (
	ErrSearchExhausted = errors.New(f("search exhausted"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Ip     int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d ip %d %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrCandidate indicates the search candidate whose run failed.
type ErrCandidate struct {
	Value int64
	Err   error
}

func (err *ErrCandidate) Error() string {
	return f("candidate %d %v", err.Value, err.Err)
}

func (err *ErrCandidate) Unwrap() error {
	return err.Err
}
