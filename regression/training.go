// Package regression holds the containers shared by the regression training
// algorithms.
package regression

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"gorgonia.org/tensor"
)

// InputID names the slots of a training Input.
type InputID learnkit.ID

const (
	Data               InputID = iota // input data table
	DependentVariables                // values of the dependent variables for the input data

	lastInputID = DependentVariables
)

func (id InputID) String() string {
	switch id {
	case Data:
		return "data"
	case DependentVariables:
		return "dependentVariables"
	}
	return fmt.Sprintf("InputID(%d)", int(id))
}

// ResultID names the slots of a training Result.
type ResultID learnkit.ID

const (
	TrainedModel ResultID = iota // the regression model

	lastResultID = TrainedModel
)

func (id ResultID) String() string {
	if id == TrainedModel {
		return "model"
	}
	return fmt.Sprintf("ResultID(%d)", int(id))
}

// Model is the part of a regression model the training containers rely on.
type Model interface {
	NumberOfFeatures() int
	NumberOfResponses() int
}

// Input is the input of regression training.
type Input struct {
	learnkit.Slots
}

// MakeInput makes an Input with n slots. Derived inputs pass their own slot
// count, which must cover the regression slots.
func MakeInput(n int) Input {
	if n < int(lastInputID)+1 {
		panic(fmt.Sprintf("regression: an Input needs at least %d slots, got %d", lastInputID+1, n))
	}
	return Input{Slots: learnkit.MakeSlots(n)}
}

// NewInput creates an Input.
func NewInput() *Input {
	in := MakeInput(int(lastInputID) + 1)
	return &in
}

// Get returns the table in slot id.
func (in *Input) Get(id InputID) *tensor.Dense {
	return learnkit.Typed[*tensor.Dense](&in.Slots, learnkit.ID(id))
}

// Set stores a table in slot id.
func (in *Input) Set(id InputID, t *tensor.Dense) { in.Slots.Set(learnkit.ID(id), t) }

// Clone returns a shallow copy of in.
func (in *Input) Clone() *Input { return &Input{Slots: in.Slots.Clone()} }

// NumberOfFeatures returns the number of columns of the data table, or 0 when
// there is none.
func (in *Input) NumberOfFeatures() int {
	if t, ok := in.Slots.Get(learnkit.ID(Data)).(*tensor.Dense); ok && t.Dims() == 2 {
		return learnkit.Cols(t)
	}
	return 0
}

// NumberOfResponses returns the number of columns of the dependent variables
// table, or 0 when there is none.
func (in *Input) NumberOfResponses() int {
	if t, ok := in.Slots.Get(learnkit.ID(DependentVariables)).(*tensor.Dense); ok && t.Dims() == 2 {
		return learnkit.Cols(t)
	}
	return 0
}

// Check checks that the data and dependent variables tables are present and
// have the same number of rows.
func (in *Input) Check(par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	data, dataOK := learnkit.CheckTable(st, in.Slots.Get(learnkit.ID(Data)), Data.String(), 0, 0)

	var rows int
	if dataOK {
		rows = learnkit.Rows(data)
	}
	learnkit.CheckTable(st, in.Slots.Get(learnkit.ID(DependentVariables)), DependentVariables.String(), rows, 0)
	return st
}

// PartialResult is the accumulator of online regression training.
type PartialResult struct {
	learnkit.Slots
}

// MakePartialResult makes a PartialResult with n slots.
func MakePartialResult(n int) PartialResult {
	return PartialResult{Slots: learnkit.MakeSlots(n)}
}

// Serial implements learnkit.Serializer.
func (pr *PartialResult) Serial(a learnkit.Archive) error {
	return pr.Slots.Serial(a)
}

// Result is the result of regression training.
type Result struct {
	learnkit.Slots
}

// MakeResult makes a Result with n slots. Derived results pass their own slot
// count, which must cover the regression slots.
func MakeResult(n int) Result {
	if n < int(lastResultID)+1 {
		panic(fmt.Sprintf("regression: a Result needs at least %d slots, got %d", lastResultID+1, n))
	}
	return Result{Slots: learnkit.MakeSlots(n)}
}

// NewResult creates a Result.
func NewResult() *Result {
	r := MakeResult(int(lastResultID) + 1)
	return &r
}

// Get returns the model in slot id.
func (r *Result) Get(id ResultID) Model {
	return learnkit.Typed[Model](&r.Slots, learnkit.ID(id))
}

// Set stores a model in slot id.
func (r *Result) Set(id ResultID, m Model) { r.Slots.Set(learnkit.ID(id), m) }

// Check checks that the trained model fits the input it was trained on.
func (r *Result) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	v := r.Slots.Get(learnkit.ID(TrainedModel))
	if v == nil {
		return st.Add(learnkit.ErrNullModel, TrainedModel.String())
	}
	m, ok := v.(Model)
	if !ok {
		return st.Addf(learnkit.ErrIncorrectType, TrainedModel.String(), "expected a regression model, got %T", v)
	}

	in, ok := input.(interface {
		NumberOfFeatures() int
		NumberOfResponses() int
	})
	if !ok {
		return st.Addf(learnkit.ErrIncorrectType, "input", "expected a regression input, got %T", input)
	}
	if nf := in.NumberOfFeatures(); nf != 0 && m.NumberOfFeatures() != nf {
		st.Addf(learnkit.ErrIncorrectNumberOfFeatures, TrainedModel.String(), "expected %d, got %d", nf, m.NumberOfFeatures())
	}
	if nr := in.NumberOfResponses(); nr != 0 && m.NumberOfResponses() != nr {
		st.Addf(learnkit.ErrIncorrectNumberOfResponses, TrainedModel.String(), "expected %d, got %d", nr, m.NumberOfResponses())
	}
	return st
}

// Serial implements learnkit.Serializer.
func (r *Result) Serial(a learnkit.Archive) error {
	if err := r.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[Model](&r.Slots, learnkit.ID(TrainedModel))
}

func init() {
	learnkit.RegisterValue(&Input{})
	learnkit.RegisterValue(&PartialResult{})
	learnkit.RegisterValue(&Result{})
}
