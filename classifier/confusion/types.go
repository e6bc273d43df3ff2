// Package confusion computes the confusion matrix of a multi-class classifier
// and the quality metrics derived from it.
package confusion

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// InputID names the slots of an Input.
type InputID learnkit.ID

const (
	PredictedLabels   InputID = iota // labels computed by the classifier, n×1
	GroundTruthLabels                // expected labels, n×1

	lastInputID = GroundTruthLabels
)

func (id InputID) String() string {
	switch id {
	case PredictedLabels:
		return "predictedLabels"
	case GroundTruthLabels:
		return "groundTruthLabels"
	}
	return fmt.Sprintf("InputID(%d)", int(id))
}

// ResultID names the slots of a Result.
type ResultID learnkit.ID

const (
	ConfusionMatrix   ResultID = iota // nClasses×nClasses, row = actual class, column = predicted class
	MultiClassMetrics                 // 1×NumMetrics, indexed by MetricID

	lastResultID = MultiClassMetrics
)

func (id ResultID) String() string {
	switch id {
	case ConfusionMatrix:
		return "confusionMatrix"
	case MultiClassMetrics:
		return "multiClassMetrics"
	}
	return fmt.Sprintf("ResultID(%d)", int(id))
}

// MetricID indexes the columns of the MultiClassMetrics table.
type MetricID int

const (
	AverageAccuracy MetricID = iota
	ErrorRate
	MicroPrecision
	MicroRecall
	MicroFscore
	MacroPrecision
	MacroRecall
	MacroFscore

	NumMetrics = int(MacroFscore) + 1
)

// Parameter configures the confusion matrix computation.
type Parameter struct {
	NClasses          int     // number of classes
	UseDefaultMetrics bool    // also compute MultiClassMetrics
	Beta              float64 // the β of the F-score
}

// DefaultParameter returns the parameter for nClasses classes, computing the
// default metrics with β = 1.
func DefaultParameter(nClasses int) Parameter {
	return Parameter{NClasses: nClasses, UseDefaultMetrics: true, Beta: 1}
}

// Check implements learnkit.Parameter.
func (p *Parameter) Check() *learnkit.Status {
	st := new(learnkit.Status)
	if p.NClasses < 2 {
		st.Addf(learnkit.ErrIncorrectNumberOfClasses, "nClasses", "need at least 2, got %d", p.NClasses)
	}
	if p.Beta <= 0 {
		st.Addf(learnkit.ErrIncorrectParameter, "beta", "must be positive, got %v", p.Beta)
	}
	return st
}

// Serial implements learnkit.Serializer.
func (p *Parameter) Serial(a learnkit.Archive) error {
	if err := a.Visit(&p.NClasses); err != nil {
		return err
	}
	if err := a.Visit(&p.UseDefaultMetrics); err != nil {
		return err
	}
	return a.Visit(&p.Beta)
}

func asParameter(par learnkit.Parameter) (*Parameter, error) {
	p, ok := par.(*Parameter)
	if !ok || p == nil {
		return nil, errors.Errorf("expected a *confusion.Parameter, got %T", par)
	}
	return p, nil
}

// Input holds the labels to compare.
type Input struct {
	learnkit.Slots
}

// NewInput creates an Input.
func NewInput() *Input {
	return &Input{Slots: learnkit.MakeSlots(int(lastInputID) + 1)}
}

// Get returns the table in slot id.
func (in *Input) Get(id InputID) *tensor.Dense {
	return learnkit.Typed[*tensor.Dense](&in.Slots, learnkit.ID(id))
}

// Set stores a table in slot id.
func (in *Input) Set(id InputID, t *tensor.Dense) { in.Slots.Set(learnkit.ID(id), t) }

// Check checks that both label tables are n×1 with the same n.
func (in *Input) Check(par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	pred, ok := learnkit.CheckTable(st, in.Slots.Get(learnkit.ID(PredictedLabels)), PredictedLabels.String(), 0, 1)
	var rows int
	if ok {
		rows = learnkit.Rows(pred)
	}
	learnkit.CheckTable(st, in.Slots.Get(learnkit.ID(GroundTruthLabels)), GroundTruthLabels.String(), rows, 1)
	if method != learnkit.DefaultDense {
		st.Addf(learnkit.ErrMethodNotSupported, "method", "method %d", method)
	}
	return st
}

// Serial implements learnkit.Serializer.
func (in *Input) Serial(a learnkit.Archive) error {
	if err := in.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[*tensor.Dense](&in.Slots, learnkit.ID(PredictedLabels), learnkit.ID(GroundTruthLabels))
}

// Result holds the confusion matrix and the metrics.
type Result struct {
	learnkit.Slots
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{Slots: learnkit.MakeSlots(int(lastResultID) + 1)}
}

// Get returns the table in slot id.
func (r *Result) Get(id ResultID) *tensor.Dense {
	return learnkit.Typed[*tensor.Dense](&r.Slots, learnkit.ID(id))
}

// Set stores a table in slot id.
func (r *Result) Set(id ResultID, t *tensor.Dense) { r.Slots.Set(learnkit.ID(id), t) }

// Metric returns one of the computed metrics.
func (r *Result) Metric(id MetricID) (float64, error) {
	t := r.Get(MultiClassMetrics)
	if t == nil {
		return 0, errors.Errorf("%v not computed", MultiClassMetrics)
	}
	xs, err := learnkit.Float64s(t)
	if err != nil {
		return 0, err
	}
	if int(id) < 0 || int(id) >= len(xs) {
		return 0, errors.Errorf("no metric %d", id)
	}
	return xs[id], nil
}

// Allocate allocates the result in the element type of the predicted labels.
func (r *Result) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*Input)
	if !ok {
		return errors.Errorf("expected a *confusion.Input, got %T", input)
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	pred := in.Get(PredictedLabels)
	if pred == nil {
		return errors.WithStack(learnkit.ErrNullInput)
	}
	switch pred.Dtype() {
	case tensor.Float32:
		return Allocate[float32](r, p)
	case tensor.Float64:
		return Allocate[float64](r, p)
	}
	return errors.Errorf("unsupported element type %v", pred.Dtype())
}

// Allocate sets the tables of r that are not set yet.
func Allocate[T learnkit.Float](r *Result, par *Parameter) error {
	if par.NClasses < 2 {
		return errors.WithStack(learnkit.ErrIncorrectNumberOfClasses)
	}
	var matrix, metrics *tensor.Dense
	if !r.IsSet(learnkit.ID(ConfusionMatrix)) {
		matrix = learnkit.NewTable[T](par.NClasses, par.NClasses)
	}
	if par.UseDefaultMetrics && !r.IsSet(learnkit.ID(MultiClassMetrics)) {
		metrics = learnkit.NewTable[T](1, NumMetrics)
	}
	if matrix != nil {
		r.Set(ConfusionMatrix, matrix)
	}
	if metrics != nil {
		r.Set(MultiClassMetrics, metrics)
	}
	return nil
}

// Check checks the shapes of the tables against the parameter.
func (r *Result) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	p, err := asParameter(par)
	if err != nil {
		return st.Addf(learnkit.ErrNullParameter, "parameter", "%v", err)
	}
	learnkit.CheckTable(st, r.Slots.Get(learnkit.ID(ConfusionMatrix)), ConfusionMatrix.String(), p.NClasses, p.NClasses)
	if p.UseDefaultMetrics {
		learnkit.CheckTable(st, r.Slots.Get(learnkit.ID(MultiClassMetrics)), MultiClassMetrics.String(), 1, NumMetrics)
	}
	return st
}

// Serial implements learnkit.Serializer.
func (r *Result) Serial(a learnkit.Archive) error {
	if err := r.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[*tensor.Dense](&r.Slots, learnkit.ID(ConfusionMatrix), learnkit.ID(MultiClassMetrics))
}

func init() {
	learnkit.RegisterValue(&Input{})
	learnkit.RegisterValue(&Result{})
}
