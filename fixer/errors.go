package fixer

import (
	"fmt"
	"strings"
)

// InvalidConfigurationError reports a bad option of a fixer.
type InvalidConfigurationError struct {
	Fixer  string
	Key    string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: invalid configuration: %s", e.Fixer, e.Reason)
	}
	return fmt.Sprintf("%s: invalid configuration of %q: %s", e.Fixer, e.Key, e.Reason)
}

// ConflictError reports fixers whose ordering constraints form a cycle.
type ConflictError struct {
	Cycle []string
}

func (e *ConflictError) Error() string {
	return "conflicting fixer order constraints: cycle among " + strings.Join(e.Cycle, ", ")
}

// OscillationError reports a stream that kept changing for the whole
// pass budget.
type OscillationError struct {
	Passes int
	// Fixers are the fixers that changed the stream in the last two passes.
	Fixers []string
}

func (e *OscillationError) Error() string {
	return fmt.Sprintf("no fixed point after %d passes; still changing: %s", e.Passes, strings.Join(e.Fixers, ", "))
}

// A Fault is an error a fixer returned or a panic it raised.
type Fault struct {
	Fixer string
	Pass  int
	Err   error
}

func (f Fault) String() string {
	return fmt.Sprintf("%s (pass %d): %v", f.Fixer, f.Pass, f.Err)
}

// FaultError reports a file that could not be fixed because of faults.
type FaultError struct {
	Faults []Fault
}

func (e *FaultError) Error() string {
	if len(e.Faults) == 0 {
		return "fixer fault"
	}
	last := e.Faults[len(e.Faults)-1]
	msg := "fixer " + last.String()
	if n := len(e.Faults) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

func (e *FaultError) Unwrap() error {
	if len(e.Faults) == 0 {
		return nil
	}
	return e.Faults[len(e.Faults)-1].Err
}

// PanicError wraps the value of a recovered fixer panic.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
