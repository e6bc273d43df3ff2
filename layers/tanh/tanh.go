// Package tanh implements the hyperbolic tangent layer.
//
// The forward pass computes value = tanh(data). Outside of the prediction
// stage it also leaves value in the layer data under AuxValue so that the
// backward pass can compute gradient = inputGradient ⊙ (1 - value²) without
// recomputing the forward pass.
package tanh

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/layers"
	"github.com/gorgonia/learnkit/layers/backward"
	"github.com/gorgonia/learnkit/layers/forward"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// LayerDataID names the handles the forward pass leaves for the backward pass.
type LayerDataID learnkit.ID

const (
	AuxValue LayerDataID = iota // output of the forward pass
)

func (id LayerDataID) String() string {
	if id == AuxValue {
		return "auxValue"
	}
	return fmt.Sprintf("LayerDataID(%d)", int(id))
}

// ForwardResult is the result of the forward pass.
type ForwardResult struct {
	forward.Result
}

// NewForwardResult creates an empty ForwardResult.
func NewForwardResult() *ForwardResult {
	return &ForwardResult{Result: *forward.NewResult()}
}

// Allocate allocates the result in the element type of the input data.
func (r *ForwardResult) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*forward.Input)
	if !ok {
		return errors.Errorf("expected a forward input, got %T", input)
	}
	data := in.Get(forward.Data)
	if data == nil {
		return errors.WithMessage(learnkit.ErrNullInput, forward.Data.String())
	}
	switch data.Dtype() {
	case tensor.Float32:
		return AllocateForward[float32](r, in, par)
	case tensor.Float64:
		return AllocateForward[float64](r, in, par)
	}
	return errors.Wrapf(learnkit.ErrIncorrectType, "unsupported data type %v", data.Dtype())
}

// AllocateForward allocates the value with the dimensions of the input data,
// unless a value is already set. Outside of the prediction stage it also
// creates the layer data if missing and records the value in it. Nothing is
// stored in r on error.
func AllocateForward[T learnkit.Float](r *ForwardResult, in *forward.Input, par learnkit.Parameter) error {
	p, err := layers.AsParameter(par)
	if err != nil {
		return err
	}
	data := in.Get(forward.Data)
	if data == nil {
		return errors.WithMessage(learnkit.ErrNullInput, forward.Data.String())
	}

	value := r.Get(forward.Value)
	if value == nil {
		value = learnkit.NewTensorOf[T](data.Shape().Clone()...)
	}
	var ld *layers.LayerData
	if !p.PredictionStage {
		if ld = r.LayerData(); ld == nil {
			ld = layers.NewLayerData()
		}
	}

	r.Set(forward.Value, value)
	if ld != nil {
		r.SetLayerData(ld)
		return r.SetResultForBackward(in)
	}
	return nil
}

// SetResultForBackward records the value in the layer data.
func (r *ForwardResult) SetResultForBackward(input learnkit.Input) error {
	ld := r.LayerData()
	if ld == nil {
		return errors.WithMessage(learnkit.ErrNullLayerData, forward.ResultForBackward.String())
	}
	value := r.Get(forward.Value)
	if value == nil {
		return errors.WithMessage(learnkit.ErrNullResult, forward.Value.String())
	}
	ld.Set(learnkit.ID(AuxValue), value)
	return nil
}

// Check checks the value against the input data and, outside of the prediction
// stage, that the layer data holds the value.
func (r *ForwardResult) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := r.Result.Check(input, par, method)
	if method != learnkit.DefaultDense {
		st.Addf(learnkit.ErrMethodNotSupported, "method", "%d", method)
	}
	ld, ok := r.Slots.Get(learnkit.ID(forward.ResultForBackward)).(*layers.LayerData)
	if !ok || ld == nil {
		return st
	}
	value, ok := r.Slots.Get(learnkit.ID(forward.Value)).(*tensor.Dense)
	if !ok || value == nil {
		return st
	}
	learnkit.CheckTensor(st, ld.Get(learnkit.ID(AuxValue)), AuxValue.String(), value.Shape().Clone())
	return st
}

// BackwardInput is the input of the backward pass.
type BackwardInput struct {
	backward.Input
}

// NewBackwardInput creates an empty BackwardInput.
func NewBackwardInput() *BackwardInput {
	return &BackwardInput{Input: *backward.NewInput()}
}

// AuxValue returns the forward value recorded in the layer data, or nil.
func (in *BackwardInput) AuxValue() *tensor.Dense {
	ld := in.LayerData()
	if ld == nil {
		return nil
	}
	return ld.Tensor(learnkit.ID(AuxValue))
}

// Check checks that the forward value has the dimensions of the input gradient.
func (in *BackwardInput) Check(par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := in.Input.Check(par, method)
	if method != learnkit.DefaultDense {
		st.Addf(learnkit.ErrMethodNotSupported, "method", "%d", method)
	}
	ld, ok := in.Slots.Get(learnkit.ID(backward.InputFromForward)).(*layers.LayerData)
	if !ok || ld == nil {
		return st
	}
	var dims []int
	if g, ok := in.Slots.Get(learnkit.ID(backward.InputGradient)).(*tensor.Dense); ok && g != nil {
		dims = g.Shape().Clone()
	}
	learnkit.CheckTensor(st, ld.Get(learnkit.ID(AuxValue)), AuxValue.String(), dims)
	return st
}

// BackwardResult is the result of the backward pass.
type BackwardResult struct {
	backward.Result
}

// NewBackwardResult creates an empty BackwardResult.
func NewBackwardResult() *BackwardResult {
	return &BackwardResult{Result: *backward.NewResult()}
}

// Allocate allocates the gradient in the element type of the input gradient.
func (r *BackwardResult) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*BackwardInput)
	if !ok {
		return errors.Errorf("expected a tanh backward input, got %T", input)
	}
	g := in.Get(backward.InputGradient)
	if g == nil {
		return errors.WithMessage(learnkit.ErrNullInput, backward.InputGradient.String())
	}
	switch g.Dtype() {
	case tensor.Float32:
		return AllocateBackward[float32](r, in)
	case tensor.Float64:
		return AllocateBackward[float64](r, in)
	}
	return errors.Wrapf(learnkit.ErrIncorrectType, "unsupported gradient type %v", g.Dtype())
}

// AllocateBackward allocates the gradient with the dimensions of the input
// gradient, unless a gradient is already set.
func AllocateBackward[T learnkit.Float](r *BackwardResult, in *BackwardInput) error {
	g := in.Get(backward.InputGradient)
	if g == nil {
		return errors.WithMessage(learnkit.ErrNullInput, backward.InputGradient.String())
	}
	if r.Get(backward.Gradient) == nil {
		r.Set(backward.Gradient, learnkit.NewTensorOf[T](g.Shape().Clone()...))
	}
	return nil
}

func init() {
	learnkit.RegisterValue(&ForwardResult{})
	learnkit.RegisterValue(&BackwardInput{})
	learnkit.RegisterValue(&BackwardResult{})
}
