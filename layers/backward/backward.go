// Package backward holds the containers of the backward pass of a layer.
package backward

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/layers"
	"gorgonia.org/tensor"
)

// InputID names the slots of a backward Input.
type InputID learnkit.ID

const (
	InputGradient    InputID = iota // gradient coming from the next layer
	InputFromForward                // *layers.LayerData left by the forward pass

	lastInputID = InputFromForward
)

func (id InputID) String() string {
	switch id {
	case InputGradient:
		return "inputGradient"
	case InputFromForward:
		return "inputFromForward"
	}
	return fmt.Sprintf("InputID(%d)", int(id))
}

// ResultID names the slots of a backward Result.
type ResultID learnkit.ID

const (
	Gradient          ResultID = iota // gradient with respect to the layer input
	WeightDerivatives                 // derivatives with respect to the weights, if any
	BiasDerivatives                   // derivatives with respect to the biases, if any

	lastResultID = BiasDerivatives
)

func (id ResultID) String() string {
	switch id {
	case Gradient:
		return "gradient"
	case WeightDerivatives:
		return "weightDerivatives"
	case BiasDerivatives:
		return "biasDerivatives"
	}
	return fmt.Sprintf("ResultID(%d)", int(id))
}

// Input is the input of a backward pass.
type Input struct {
	learnkit.Slots
}

// NewInput creates an Input.
func NewInput() *Input {
	return &Input{Slots: learnkit.MakeSlots(int(lastInputID) + 1)}
}

// Get returns the input gradient.
func (in *Input) Get(id InputID) *tensor.Dense {
	if id != InputGradient {
		panic(fmt.Sprintf("backward: %v does not hold a tensor", id))
	}
	return learnkit.Typed[*tensor.Dense](&in.Slots, learnkit.ID(id))
}

// Set stores the input gradient.
func (in *Input) Set(id InputID, t *tensor.Dense) {
	if id != InputGradient {
		panic(fmt.Sprintf("backward: %v does not hold a tensor", id))
	}
	in.Slots.Set(learnkit.ID(id), t)
}

// LayerData returns the data left by the forward pass, or nil.
func (in *Input) LayerData() *layers.LayerData {
	return learnkit.Typed[*layers.LayerData](&in.Slots, learnkit.ID(InputFromForward))
}

// SetLayerData stores the data left by the forward pass.
func (in *Input) SetLayerData(d *layers.LayerData) {
	in.Slots.Set(learnkit.ID(InputFromForward), d)
}

// Check checks that the input gradient and the forward data are present.
func (in *Input) Check(par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	learnkit.CheckTensor(st, in.Slots.Get(learnkit.ID(InputGradient)), InputGradient.String(), nil)
	switch v := in.Slots.Get(learnkit.ID(InputFromForward)).(type) {
	case nil:
		st.Add(learnkit.ErrNullLayerData, InputFromForward.String())
	case *layers.LayerData:
	default:
		st.Addf(learnkit.ErrIncorrectType, InputFromForward.String(), "expected layer data, got %T", v)
	}
	return st
}

// Result is the result of a backward pass.
type Result struct {
	learnkit.Slots
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{Slots: learnkit.MakeSlots(int(lastResultID) + 1)}
}

// Get returns the tensor in slot id.
func (r *Result) Get(id ResultID) *tensor.Dense {
	return learnkit.Typed[*tensor.Dense](&r.Slots, learnkit.ID(id))
}

// Set stores a tensor in slot id.
func (r *Result) Set(id ResultID, t *tensor.Dense) { r.Slots.Set(learnkit.ID(id), t) }

// Check checks that the gradient has the dimensions of the input gradient.
func (r *Result) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	var dims []int
	if in, ok := input.(interface{ Get(InputID) *tensor.Dense }); ok {
		if g := in.Get(InputGradient); g != nil {
			dims = g.Shape().Clone()
		}
	}
	learnkit.CheckTensor(st, r.Slots.Get(learnkit.ID(Gradient)), Gradient.String(), dims)
	return st
}

// Serial implements learnkit.Serializer.
func (r *Result) Serial(a learnkit.Archive) error {
	if err := r.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[*tensor.Dense](&r.Slots, learnkit.ID(Gradient), learnkit.ID(WeightDerivatives), learnkit.ID(BiasDerivatives))
}

func init() {
	learnkit.RegisterValue(&Input{})
	learnkit.RegisterValue(&Result{})
}
