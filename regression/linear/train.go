package linear

import (
	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/regression"
	"github.com/pkg/errors"
)

// Batch trains a model on all the data at once, with coefficients of element
// type T.
type Batch[T learnkit.Float] struct {
	Parameter Parameter
	Method    learnkit.Method
	Input     *Input

	runner *learnkit.Runner
}

// NewBatch creates a batch trainer.
func NewBatch[T learnkit.Float](par Parameter) *Batch[T] {
	return &Batch[T]{
		Parameter: par,
		Method:    NormEqDense,
		Input:     NewInput(),
		runner:    learnkit.NewRunner("linear regression batch", false),
	}
}

// Compute trains a model on b.Input.
func (b *Batch[T]) Compute() (*Result, error) {
	res := NewResult()
	if err := b.ComputeInto(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ComputeInto trains a model on b.Input into res. A model already set in res is
// used as the storage for the coefficients.
func (b *Batch[T]) ComputeInto(res *Result) error {
	return b.runner.Run(b.Input, batchResult[T]{res}, &b.Parameter, b.Method, batchKernel[T]{})
}

// batchResult allocates the model in T rather than in the element type of the
// data.
type batchResult[T learnkit.Float] struct{ *Result }

func (r batchResult[T]) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, err := asInput(input)
	if err != nil {
		return err
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	return AllocateResult[T](r.Result, in, p)
}

type batchKernel[T learnkit.Float] struct{}

func (batchKernel[T]) Compute(input learnkit.Input, res learnkit.Result, par learnkit.Parameter, method learnkit.Method) error {
	in, err := asInput(input)
	if err != nil {
		return err
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	r, ok := res.(batchResult[T])
	if !ok {
		return errors.Errorf("unexpected result %T", res)
	}

	pr := NewPartialResult()
	if err := AllocatePartial[T](pr, in.NumberOfFeatures(), in.NumberOfResponses(), p.InterceptFlag); err != nil {
		return err
	}
	if err := accumulate[T](pr, in, p.InterceptFlag); err != nil {
		return err
	}
	return solveInto[T](pr, r.Model())
}

// Online trains a model over a sequence of data blocks. Every Compute call adds
// one block to the partial result; Finalize solves for the model.
type Online[T learnkit.Float] struct {
	Parameter Parameter
	Method    learnkit.Method

	partial *PartialResult
	runner  *learnkit.Runner
}

// NewOnline creates an online trainer.
func NewOnline[T learnkit.Float](par Parameter) *Online[T] {
	return &Online[T]{
		Parameter: par,
		Method:    NormEqDense,
		partial:   NewPartialResult(),
		runner:    learnkit.NewRunner("linear regression online", false),
	}
}

// PartialResult returns the accumulated state. It can be serialized and later
// restored with SetPartialResult.
func (o *Online[T]) PartialResult() *PartialResult { return o.partial }

// SetPartialResult resumes training from pr.
func (o *Online[T]) SetPartialResult(pr *PartialResult) { o.partial = pr }

// Compute adds one block of data.
func (o *Online[T]) Compute(in *Input) error {
	return o.runner.Run(in, onlineResult[T]{o.partial}, &o.Parameter, o.Method, onlineKernel[T]{})
}

// Finalize solves for the model from all the blocks added so far.
func (o *Online[T]) Finalize() (*Result, error) {
	xty := o.partial.Get(PartialXTY)
	if xty == nil {
		return nil, errors.WithStack(learnkit.ErrNullPartialResult)
	}
	nr := learnkit.Rows(xty)
	nf := learnkit.Cols(xty)
	if o.Parameter.InterceptFlag {
		nf--
	}
	m := NewModel[T](nf, nr, o.Parameter.InterceptFlag)
	if err := solveInto[T](o.partial, m); err != nil {
		return nil, err
	}
	res := NewResult()
	res.Set(regression.TrainedModel, m)
	return res, nil
}

type onlineResult[T learnkit.Float] struct{ *PartialResult }

func (r onlineResult[T]) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, err := asInput(input)
	if err != nil {
		return err
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	return AllocatePartial[T](r.PartialResult, in.NumberOfFeatures(), in.NumberOfResponses(), p.InterceptFlag)
}

type onlineKernel[T learnkit.Float] struct{}

func (onlineKernel[T]) Compute(input learnkit.Input, res learnkit.Result, par learnkit.Parameter, method learnkit.Method) error {
	in, err := asInput(input)
	if err != nil {
		return err
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	r, ok := res.(onlineResult[T])
	if !ok {
		return errors.Errorf("unexpected partial result %T", res)
	}
	return accumulate[T](r.PartialResult, in, p.InterceptFlag)
}
