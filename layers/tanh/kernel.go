package tanh

import (
	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/layers"
	"github.com/gorgonia/learnkit/layers/backward"
	"github.com/gorgonia/learnkit/layers/forward"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
)

// Forward runs the forward pass on data of element type T.
type Forward[T learnkit.Float] struct {
	Parameter layers.Parameter
	Method    learnkit.Method
	Input     *forward.Input

	runner *learnkit.Runner
}

// NewForward creates a forward pass.
func NewForward[T learnkit.Float](par layers.Parameter) *Forward[T] {
	return &Forward[T]{
		Parameter: par,
		Method:    learnkit.DefaultDense,
		Input:     forward.NewInput(),
		runner:    learnkit.NewRunner("tanh forward", false),
	}
}

// Compute runs the forward pass into a new result.
func (f *Forward[T]) Compute() (*ForwardResult, error) {
	res := NewForwardResult()
	if err := f.ComputeInto(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ComputeInto runs the forward pass into res. A value already set in res is
// overwritten in place.
func (f *Forward[T]) ComputeInto(res *ForwardResult) error {
	return f.runner.Run(f.Input, forwardResult[T]{res}, &f.Parameter, f.Method, forwardKernel[T]{})
}

type forwardResult[T learnkit.Float] struct{ *ForwardResult }

func (r forwardResult[T]) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*forward.Input)
	if !ok {
		return errors.Errorf("expected a forward input, got %T", input)
	}
	return AllocateForward[T](r.ForwardResult, in, par)
}

type forwardKernel[T learnkit.Float] struct{}

func (forwardKernel[T]) Compute(input learnkit.Input, res learnkit.Result, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*forward.Input)
	if !ok {
		return errors.Errorf("expected a forward input, got %T", input)
	}
	r, ok := res.(forwardResult[T])
	if !ok {
		return errors.Errorf("unexpected result %T", res)
	}
	if method != learnkit.DefaultDense {
		return errors.WithStack(learnkit.ErrMethodNotSupported)
	}
	data := in.Get(forward.Data)
	if data.Dtype() != learnkit.Dtype[T]() {
		return errors.Wrapf(learnkit.ErrIncorrectType, "%v data in a %v kernel", data.Dtype(), learnkit.Dtype[T]())
	}
	dst, err := learnkit.Elems[T](r.Get(forward.Value))
	if err != nil {
		return err
	}

	g := G.NewGraph()
	var m maebe
	x := m.input(g, data, "x")
	y := m.do(func() (*G.Node, error) { return G.Tanh(x) })
	if m.err != nil {
		return m.err
	}
	return eval(g, y, dst)
}

// Backward runs the backward pass on gradients of element type T.
type Backward[T learnkit.Float] struct {
	Parameter layers.Parameter
	Method    learnkit.Method
	Input     *BackwardInput

	runner *learnkit.Runner
}

// NewBackward creates a backward pass.
func NewBackward[T learnkit.Float](par layers.Parameter) *Backward[T] {
	return &Backward[T]{
		Parameter: par,
		Method:    learnkit.DefaultDense,
		Input:     NewBackwardInput(),
		runner:    learnkit.NewRunner("tanh backward", false),
	}
}

// Compute runs the backward pass into a new result.
func (b *Backward[T]) Compute() (*BackwardResult, error) {
	res := NewBackwardResult()
	if err := b.ComputeInto(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ComputeInto runs the backward pass into res.
func (b *Backward[T]) ComputeInto(res *BackwardResult) error {
	return b.runner.Run(b.Input, backwardResult[T]{res}, &b.Parameter, b.Method, backwardKernel[T]{})
}

type backwardResult[T learnkit.Float] struct{ *BackwardResult }

func (r backwardResult[T]) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*BackwardInput)
	if !ok {
		return errors.Errorf("expected a tanh backward input, got %T", input)
	}
	return AllocateBackward[T](r.BackwardResult, in)
}

type backwardKernel[T learnkit.Float] struct{}

func (backwardKernel[T]) Compute(input learnkit.Input, res learnkit.Result, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*BackwardInput)
	if !ok {
		return errors.Errorf("expected a tanh backward input, got %T", input)
	}
	r, ok := res.(backwardResult[T])
	if !ok {
		return errors.Errorf("unexpected result %T", res)
	}
	grad := in.Get(backward.InputGradient)
	value := in.AuxValue()
	if grad.Dtype() != learnkit.Dtype[T]() || value.Dtype() != learnkit.Dtype[T]() {
		return errors.Wrapf(learnkit.ErrIncorrectType, "%v gradient and %v value in a %v kernel", grad.Dtype(), value.Dtype(), learnkit.Dtype[T]())
	}
	dst, err := learnkit.Elems[T](r.Get(backward.Gradient))
	if err != nil {
		return err
	}

	g := G.NewGraph()
	var m maebe
	dy := m.input(g, grad, "dy")
	y := m.input(g, value, "y")
	d := m.oneMinusSquare(y, T(1))
	dx := m.do(func() (*G.Node, error) { return G.HadamardProd(dy, d) })
	if m.err != nil {
		return m.err
	}
	return eval(g, dx, dst)
}
