// Package linear trains linear regression models by the normal equations, in
// one batch or online over a stream of blocks.
package linear

import (
	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/regression"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

const (
	// NormEqDense solves the normal equations. It is the default method.
	NormEqDense = learnkit.DefaultDense

	// QRDense is reserved for a QR decomposition solver. It is not supported.
	QRDense learnkit.Method = 1
)

// Parameter configures linear regression training.
type Parameter struct {
	InterceptFlag bool // compute the intercept term
}

// DefaultParameter returns the default parameter: with intercept.
func DefaultParameter() Parameter { return Parameter{InterceptFlag: true} }

// Check implements learnkit.Parameter. Every combination of fields is valid.
func (p *Parameter) Check() *learnkit.Status { return nil }

// Serial implements learnkit.Serializer.
func (p *Parameter) Serial(a learnkit.Archive) error { return a.Visit(&p.InterceptFlag) }

// Input is the input of linear regression training.
type Input struct {
	regression.Input
}

// NewInput creates an Input.
func NewInput() *Input {
	return &Input{Input: *regression.NewInput()}
}

// Check checks the regression input and the method.
func (in *Input) Check(par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := in.Input.Check(par, method)
	if method != NormEqDense {
		st.Addf(learnkit.ErrMethodNotSupported, "method", "method %d", method)
	}
	return st
}

func asInput(in learnkit.Input) (*regression.Input, error) {
	switch v := in.(type) {
	case *Input:
		return &v.Input, nil
	case *regression.Input:
		return v, nil
	}
	return nil, errors.Errorf("expected a regression input, got %T", in)
}

func asParameter(par learnkit.Parameter) (*Parameter, error) {
	if par == nil {
		p := DefaultParameter()
		return &p, nil
	}
	p, ok := par.(*Parameter)
	if !ok {
		return nil, errors.Errorf("expected a *linear.Parameter, got %T", par)
	}
	return p, nil
}

// nBetas is the number of coefficients per response solved for.
func nBetas(nFeatures int, intercept bool) int {
	if intercept {
		return nFeatures + 1
	}
	return nFeatures
}

func dataDtype(in *regression.Input) (tensor.Dtype, error) {
	data := in.Get(regression.Data)
	if data == nil {
		return tensor.Dtype{}, errors.WithStack(learnkit.ErrNullInput)
	}
	return data.Dtype(), nil
}

func init() {
	learnkit.RegisterValue(&Model{})
	learnkit.RegisterValue(&Input{})
	learnkit.RegisterValue(&PartialResult{})
	learnkit.RegisterValue(&Result{})
}
