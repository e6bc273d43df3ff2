// Package qualityset groups the quality metrics of a multi-class classifier so
// they can be computed and stored together.
package qualityset

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/classifier/confusion"
	"github.com/pkg/errors"
)

// QualityMetricID names a metric of the set.
type QualityMetricID learnkit.ID

const (
	ConfusionMatrix QualityMetricID = iota // the confusion matrix and its metrics

	lastQualityMetricID = ConfusionMatrix
)

func (id QualityMetricID) String() string {
	if id == ConfusionMatrix {
		return "confusionMatrix"
	}
	return fmt.Sprintf("QualityMetricID(%d)", int(id))
}

// Parameter configures the quality metric set.
type Parameter struct {
	NClasses int // number of classes
}

// NewParameter returns a Parameter for nClasses classes.
func NewParameter(nClasses int) Parameter { return Parameter{NClasses: nClasses} }

// DefaultParameter returns a Parameter for 2 classes.
func DefaultParameter() Parameter { return NewParameter(2) }

// Check implements learnkit.Parameter.
func (p *Parameter) Check() *learnkit.Status {
	st := new(learnkit.Status)
	if p.NClasses < 2 {
		st.Addf(learnkit.ErrIncorrectNumberOfClasses, "nClasses", "need at least 2, got %d", p.NClasses)
	}
	return st
}

// Serial implements learnkit.Serializer.
func (p *Parameter) Serial(a learnkit.Archive) error { return a.Visit(&p.NClasses) }

// InputDataCollection holds the input of every metric in the set.
type InputDataCollection struct {
	learnkit.Slots
}

// NewInputDataCollection creates an empty collection.
func NewInputDataCollection() *InputDataCollection {
	return &InputDataCollection{Slots: learnkit.MakeSlots(int(lastQualityMetricID) + 1)}
}

// GetInput returns the input of metric id.
func (c *InputDataCollection) GetInput(id QualityMetricID) *confusion.Input {
	return learnkit.Typed[*confusion.Input](&c.Slots, learnkit.ID(id))
}

// SetInput sets the input of metric id.
func (c *InputDataCollection) SetInput(id QualityMetricID, in *confusion.Input) {
	c.Slots.Set(learnkit.ID(id), in)
}

// Serial implements learnkit.Serializer.
func (c *InputDataCollection) Serial(a learnkit.Archive) error {
	if err := c.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[*confusion.Input](&c.Slots, learnkit.ID(ConfusionMatrix))
}

// ResultCollection holds the result of every metric in the set.
type ResultCollection struct {
	learnkit.Slots
}

// NewResultCollection creates an empty collection.
func NewResultCollection() *ResultCollection {
	return &ResultCollection{Slots: learnkit.MakeSlots(int(lastQualityMetricID) + 1)}
}

// GetResult returns the result of metric id.
func (c *ResultCollection) GetResult(id QualityMetricID) *confusion.Result {
	return learnkit.Typed[*confusion.Result](&c.Slots, learnkit.ID(id))
}

// SetResult sets the result of metric id.
func (c *ResultCollection) SetResult(id QualityMetricID, r *confusion.Result) {
	c.Slots.Set(learnkit.ID(id), r)
}

// Serial implements learnkit.Serializer.
func (c *ResultCollection) Serial(a learnkit.Archive) error {
	if err := c.Slots.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[*confusion.Result](&c.Slots, learnkit.ID(ConfusionMatrix))
}

// Batch computes every metric of the set that has an input.
type Batch[T learnkit.Float] struct {
	Parameter Parameter
	InputData *InputDataCollection
}

// NewBatch creates a Batch.
func NewBatch[T learnkit.Float](par Parameter) *Batch[T] {
	return &Batch[T]{Parameter: par, InputData: NewInputDataCollection()}
}

// Compute computes the results of the set.
func (b *Batch[T]) Compute() (*ResultCollection, error) {
	if st := b.Parameter.Check(); !st.OK() {
		return nil, errors.WithMessage(st.Err(), "parameter check")
	}
	retVal := NewResultCollection()
	for _, id := range b.InputData.Populated() {
		qid := QualityMetricID(id)
		switch qid {
		case ConfusionMatrix:
			cm := confusion.NewBatch[T](confusion.DefaultParameter(b.Parameter.NClasses))
			cm.Input = b.InputData.GetInput(qid)
			res, err := cm.Compute()
			if err != nil {
				return nil, errors.WithMessage(err, qid.String())
			}
			retVal.SetResult(qid, res)
		default:
			return nil, errors.Errorf("unknown quality metric %v", qid)
		}
	}
	return retVal, nil
}

func init() {
	learnkit.RegisterValue(&InputDataCollection{})
	learnkit.RegisterValue(&ResultCollection{})
}
