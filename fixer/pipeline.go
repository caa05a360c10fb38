package fixer

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"

	"mibk.dev/phpfix/token"
)

// DefaultMaxPasses bounds the number of passes over a single file.
const DefaultMaxPasses = 10

// Status is the outcome of running a pipeline over a file.
type Status int

const (
	Unchanged Status = iota
	Fixed
	Failed
)

func (s Status) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Fixed:
		return "fixed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type Result struct {
	Status Status
	Passes int
	// Applied lists the fixers that changed the stream, in the order
	// they first did so.
	Applied []string
	// Faults lists every isolated fixer fault.
	Faults []Fault
	// Err is set iff Status is Failed.
	Err error
}

// A Pipeline applies an ordered set of fixers to streams. Once built
// it is read-only and may be shared by concurrent runs on different
// streams.
type Pipeline struct {
	fixers    []Fixer
	maxPasses int
	logger    *log.Logger
}

type PipelineOption func(*Pipeline)

// WithMaxPasses sets the maximum number of passes over one file.
func WithMaxPasses(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPasses = n
		}
	}
}

// WithLogger makes the pipeline trace its progress to l.
func WithLogger(l *log.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline orders fixers and returns a pipeline applying them.
func NewPipeline(fixers []Fixer, opts ...PipelineOption) (*Pipeline, error) {
	ordered, err := Order(fixers)
	if err != nil {
		return nil, err
	}
	p := &Pipeline{fixers: ordered, maxPasses: DefaultMaxPasses}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Fixers returns the fixers in application order.
func (p *Pipeline) Fixers() []Fixer { return slices.Clone(p.fixers) }

func (p *Pipeline) MaxPasses() int { return p.maxPasses }

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

// Run applies the fixers to s, pass after pass, until a pass leaves s
// unchanged. A fixer that fails is rolled back and recorded as a fault;
// the remaining fixers of the pass still run. The file fails if a pass
// makes no progress despite a fault, if the same fault occurs in two
// consecutive passes, if a fixer hits a malformed block, or if s still
// changes after the maximum number of passes.
func (p *Pipeline) Run(s *token.Stream) *Result {
	res := new(Result)
	orig := s.Code()
	p.logf("Classified: %d tokens", s.Len())

	var prevChanged, lastChanged []string
	var prevFaults map[string]string
	for pass := 1; ; pass++ {
		if pass > p.maxPasses {
			res.Err = &OscillationError{Passes: p.maxPasses, Fixers: union(prevChanged, lastChanged)}
			return p.fail(res)
		}
		res.Passes = pass
		p.logf("pass %d: Scanning", pass)

		dirty := false
		var changed []string
		faults := make(map[string]string)
		for _, f := range p.fixers {
			name := f.Name()
			applied, err := p.apply(f, s)
			if err != nil {
				var mb *token.MalformedBlockError
				if errors.As(err, &mb) {
					res.Err = fmt.Errorf("%s: %w", name, err)
					return p.fail(res)
				}
				p.logf("pass %d: %s: fault: %v", pass, name, err)
				res.Faults = append(res.Faults, Fault{Fixer: name, Pass: pass, Err: err})
				msg := err.Error()
				if prev, ok := prevFaults[name]; ok && prev == msg {
					res.Err = &FaultError{Faults: res.Faults}
					return p.fail(res)
				}
				faults[name] = msg
				continue
			}
			if applied {
				p.logf("pass %d: %s: changed", pass, name)
				dirty = true
				changed = append(changed, name)
				if !slices.Contains(res.Applied, name) {
					res.Applied = append(res.Applied, name)
				}
			}
		}

		if !dirty {
			if len(faults) > 0 {
				res.Err = &FaultError{Faults: res.Faults}
				return p.fail(res)
			}
			res.Status = Unchanged
			if s.Code() != orig {
				res.Status = Fixed
			}
			p.logf("Stable after %d passes: %v", pass, res.Status)
			return res
		}
		prevChanged, lastChanged = lastChanged, changed
		prevFaults = faults
	}
}

func (p *Pipeline) fail(res *Result) *Result {
	res.Status = Failed
	p.logf("Failed: %v", res.Err)
	return res
}

// apply runs a single fixer on s and reports whether it changed the
// text of s. On error, s is restored.
func (p *Pipeline) apply(f Fixer, s *token.Stream) (changed bool, err error) {
	snap := s.Snapshot()
	before := s.Changes()
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
		if err != nil {
			s.Restore(snap)
			changed = false
		}
	}()

	if !f.IsCandidate(s) {
		return false, nil
	}
	p.logf("%s: Applying", f.Name())
	if err := f.Fix(s); err != nil {
		return false, err
	}
	if s.Changes() == before {
		return false, nil
	}
	if s.Code() == snap.Code() {
		s.Restore(snap)
		return false, nil
	}
	s.Compact()
	token.Classify(s)
	return true, nil
}

func union(a, b []string) []string {
	var out []string
	for _, name := range append(slices.Clone(a), b...) {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
