package learnkit

// ID names a slot within a container. IDs are scoped to one algorithm family;
// new ones are appended, never renumbered.
type ID int

// Method selects how a result is computed.
type Method int

// DefaultDense is the default computation method of every algorithm.
const DefaultDense Method = 0

// Value is a handle stored in a slot: a table, a model, a nested container.
// Handles are shared, never copied, by the containers holding them.
type Value interface{}

// Parameter is the read-only configuration of an algorithm.
type Parameter interface {
	Check() *Status
}

// Input is a container populated by the caller before computation.
type Input interface {
	Check(par Parameter, method Method) *Status
}

// Result is a container populated by the algorithm. PartialResults satisfy the
// same interface.
type Result interface {
	Check(in Input, par Parameter, method Method) *Status
}

// Allocator is a Result that can shape its own storage before the kernel runs.
//
// Allocate must skip slots that are already set, and must not leave any slot set
// if it fails.
type Allocator interface {
	Allocate(in Input, par Parameter, method Method) error
}

// Kernel is the numeric part of a computation.
type Kernel interface {
	Compute(in Input, res Result, par Parameter, method Method) error
}

// KernelFunc is a function that implements Kernel.
type KernelFunc func(in Input, res Result, par Parameter, method Method) error

// Compute implements Kernel.
func (f KernelFunc) Compute(in Input, res Result, par Parameter, method Method) error {
	return f(in, res, par, method)
}
