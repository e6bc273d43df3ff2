package linear

import (
	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/regression"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Result is the result of linear regression training.
type Result struct {
	regression.Result
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{Result: *regression.NewResult()}
}

// Model returns the trained linear model, or nil before training.
func (r *Result) Model() *Model {
	return learnkit.Typed[*Model](&r.Slots, learnkit.ID(regression.TrainedModel))
}

// Allocate allocates the model in the element type of the input data.
func (r *Result) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	in, err := asInput(input)
	if err != nil {
		return err
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	dt, err := dataDtype(in)
	if err != nil {
		return err
	}
	switch dt {
	case tensor.Float32:
		return AllocateResult[float32](r, in, p)
	case tensor.Float64:
		return AllocateResult[float64](r, in, p)
	}
	return errors.Errorf("unsupported element type %v", dt)
}

// AllocateResult sets a zeroed model sized after in, unless a model is already
// set.
func AllocateResult[T learnkit.Float](r *Result, in *regression.Input, par *Parameter) error {
	if r.IsSet(learnkit.ID(regression.TrainedModel)) {
		return nil
	}
	nf, nr := in.NumberOfFeatures(), in.NumberOfResponses()
	if nf <= 0 || nr <= 0 {
		return errors.Errorf("cannot allocate a model for %d features and %d responses", nf, nr)
	}
	r.Set(regression.TrainedModel, NewModel[T](nf, nr, par.InterceptFlag))
	return nil
}

// Check checks the regression result and that the model is a linear model
// matching the parameter.
func (r *Result) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	var in learnkit.Input = input
	if v, ok := input.(*Input); ok {
		in = &v.Input
	}
	st := r.Result.Check(in, par, method)
	if !st.OK() {
		return st
	}
	m, ok := r.Slots.Get(learnkit.ID(regression.TrainedModel)).(*Model)
	if !ok {
		return st.Addf(learnkit.ErrIncorrectType, regression.TrainedModel.String(), "expected a linear model")
	}
	if p, err := asParameter(par); err == nil && p.InterceptFlag != m.Intercept {
		st.Addf(learnkit.ErrIncorrectParameter, "interceptFlag", "model intercept %v, parameter %v", m.Intercept, p.InterceptFlag)
	}
	return st
}

// solveInto solves the normal equations accumulated in pr and writes the
// coefficients into m.
func solveInto[T learnkit.Float](pr *PartialResult, m *Model) error {
	xtxT := pr.Get(PartialXTX)
	xtyT := pr.Get(PartialXTY)
	if xtxT == nil || xtyT == nil {
		return errors.WithStack(learnkit.ErrNullPartialResult)
	}
	if pr.NObservations() == 0 {
		return errors.New("no observations accumulated")
	}
	xtx, err := learnkit.Float64s(xtxT)
	if err != nil {
		return err
	}
	xty, err := learnkit.Float64s(xtyT)
	if err != nil {
		return err
	}
	beta, err := learnkit.Elems[T](m.Beta)
	if err != nil {
		return err
	}

	p := learnkit.Rows(xtxT)
	nr := learnkit.Rows(xtyT)
	if learnkit.Cols(xtyT) != p || m.NumberOfResponses() != nr || nBetas(m.NumberOfFeatures(), m.Intercept) != p {
		return errors.Errorf("partial result of %d betas and %d responses does not fit a model of %d features and %d responses", p, nr, m.NumberOfFeatures(), m.NumberOfResponses())
	}

	a := mat.NewDense(p, p, append([]float64(nil), xtx...))
	b := mat.NewDense(nr, p, append([]float64(nil), xty...))
	var x mat.Dense
	if err := x.Solve(a, b.T()); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return errors.Wrap(err, "solving normal equations")
		}
	}

	off := 1
	if m.Intercept {
		off = 0
	}
	cols := learnkit.Cols(m.Beta)
	for i := range beta {
		beta[i] = 0
	}
	for r := 0; r < nr; r++ {
		for j := 0; j < p; j++ {
			beta[r*cols+j+off] = T(x.At(j, r))
		}
	}
	return nil
}
