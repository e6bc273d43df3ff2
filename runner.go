package learnkit

import (
	"bytes"
	"log"

	"github.com/pkg/errors"
)

// Runner drives compute calls through the check, allocate, compute, check
// sequence.
type Runner struct {
	name   string
	buf    bytes.Buffer
	logger *log.Logger
}

// NewRunner creates a Runner. If toLog is true, every step is written to the
// execution log.
func NewRunner(name string, toLog bool) *Runner {
	retVal := &Runner{name: name}
	if toLog {
		retVal.logger = log.New(&retVal.buf, "", log.Ltime)
	}
	return retVal
}

// Run performs one compute call.
func (r *Runner) Run(in Input, res Result, par Parameter, method Method, k Kernel) error {
	if in == nil {
		return errors.WithStack(ErrNullInput)
	}
	if res == nil {
		return errors.WithStack(ErrNullResult)
	}
	if par != nil {
		if st := par.Check(); !st.OK() {
			r.logf("%s: parameter check failed: %v", r.name, st)
			return errors.WithMessage(st.Err(), "parameter check")
		}
	}
	if st := in.Check(par, method); !st.OK() {
		r.logf("%s: input check failed: %v", r.name, st)
		return errors.WithMessage(st.Err(), "input check")
	}
	if a, ok := res.(Allocator); ok {
		r.logf("%s: allocating %T", r.name, res)
		if err := a.Allocate(in, par, method); err != nil {
			return errors.WithMessage(err, "allocate")
		}
	}
	r.logf("%s: computing with method %d", r.name, method)
	if err := k.Compute(in, res, par, method); err != nil {
		return errors.WithMessage(err, "compute")
	}
	if st := res.Check(in, par, method); !st.OK() {
		r.logf("%s: result check failed: %v", r.name, st)
		return errors.WithMessage(st.Err(), "result check")
	}
	r.logf("%s: done", r.name)
	return nil
}

// ExecLog returns the execution log. It is empty if the Runner was created
// without logging.
func (r *Runner) ExecLog() string { return r.buf.String() }

func (r *Runner) logf(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// Run performs one compute call without logging.
func Run(in Input, res Result, par Parameter, method Method, k Kernel) error {
	var r Runner
	return r.Run(in, res, par, method, k)
}
