// Package forward holds the containers of the forward pass of a layer.
package forward

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/layers"
	"gorgonia.org/tensor"
)

// InputID names the slots of a forward Input.
type InputID learnkit.ID

const (
	Data    InputID = iota // input data tensor
	Weights                // weights of the layer, if any
	Biases                 // biases of the layer, if any

	lastInputID = Biases
)

func (id InputID) String() string {
	switch id {
	case Data:
		return "data"
	case Weights:
		return "weights"
	case Biases:
		return "biases"
	}
	return fmt.Sprintf("InputID(%d)", int(id))
}

// ResultID names the slots of a forward Result.
type ResultID learnkit.ID

const (
	Value             ResultID = iota // output of the layer
	ResultForBackward                 // *layers.LayerData for the backward pass

	lastResultID = ResultForBackward
)

func (id ResultID) String() string {
	switch id {
	case Value:
		return "value"
	case ResultForBackward:
		return "resultForBackward"
	}
	return fmt.Sprintf("ResultID(%d)", int(id))
}

// Input is the input of a forward pass.
type Input struct {
	learnkit.Slots
}

// NewInput creates an Input.
func NewInput() *Input {
	return &Input{Slots: learnkit.MakeSlots(int(lastInputID) + 1)}
}

// Get returns the tensor in slot id.
func (in *Input) Get(id InputID) *tensor.Dense {
	return learnkit.Typed[*tensor.Dense](&in.Slots, learnkit.ID(id))
}

// Set stores a tensor in slot id.
func (in *Input) Set(id InputID, t *tensor.Dense) { in.Slots.Set(learnkit.ID(id), t) }

// Check checks that the data tensor is present and not empty.
func (in *Input) Check(par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	learnkit.CheckTensor(st, in.Slots.Get(learnkit.ID(Data)), Data.String(), nil)
	return st
}

// Result is the result of a forward pass.
type Result struct {
	learnkit.Slots
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{Slots: learnkit.MakeSlots(int(lastResultID) + 1)}
}

// Get returns the output tensor.
func (r *Result) Get(id ResultID) *tensor.Dense {
	if id != Value {
		panic(fmt.Sprintf("forward: %v does not hold a tensor", id))
	}
	return learnkit.Typed[*tensor.Dense](&r.Slots, learnkit.ID(id))
}

// Set stores the output tensor.
func (r *Result) Set(id ResultID, t *tensor.Dense) {
	if id != Value {
		panic(fmt.Sprintf("forward: %v does not hold a tensor", id))
	}
	r.Slots.Set(learnkit.ID(id), t)
}

// LayerData returns the data for the backward pass, or nil.
func (r *Result) LayerData() *layers.LayerData {
	return learnkit.Typed[*layers.LayerData](&r.Slots, learnkit.ID(ResultForBackward))
}

// SetLayerData stores the data for the backward pass.
func (r *Result) SetLayerData(d *layers.LayerData) {
	r.Slots.Set(learnkit.ID(ResultForBackward), d)
}

// CheckDims checks that the output has the given dimensions, and that the data for
// the backward pass is present outside of the prediction stage. A nil dims
// accepts any non-empty output.
func (r *Result) CheckDims(par learnkit.Parameter, dims []int) *learnkit.Status {
	st := new(learnkit.Status)
	learnkit.CheckTensor(st, r.Slots.Get(learnkit.ID(Value)), Value.String(), dims)

	p, err := layers.AsParameter(par)
	if err != nil {
		return st.Addf(learnkit.ErrIncorrectParameter, "parameter", "%v", err)
	}
	if p.PredictionStage {
		return st
	}
	switch v := r.Slots.Get(learnkit.ID(ResultForBackward)).(type) {
	case nil:
		st.Add(learnkit.ErrNullLayerData, ResultForBackward.String())
	case *layers.LayerData:
	default:
		st.Addf(learnkit.ErrIncorrectType, ResultForBackward.String(), "expected layer data, got %T", v)
	}
	return st
}

// Check checks the result against the dimensions of the input data.
func (r *Result) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	var dims []int
	if in, ok := input.(interface{ Get(InputID) *tensor.Dense }); ok {
		if data := in.Get(Data); data != nil {
			dims = data.Shape().Clone()
		}
	}
	return r.CheckDims(par, dims)
}

// Serial implements learnkit.Serializer.
func (r *Result) Serial(a learnkit.Archive) error {
	if err := r.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	if err := learnkit.CheckKind[*tensor.Dense](&r.Slots, learnkit.ID(Value)); err != nil {
		return err
	}
	return learnkit.CheckKind[*layers.LayerData](&r.Slots, learnkit.ID(ResultForBackward))
}

func init() {
	learnkit.RegisterValue(&Input{})
	learnkit.RegisterValue(&Result{})
}
