package linear

import (
	"github.com/gorgonia/learnkit"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Model is a trained linear regression model.
//
// Beta has one row per response and nFeatures+1 columns. Column 0 holds the
// intercept, which stays zero when the model was trained without one.
type Model struct {
	Beta      *tensor.Dense
	Intercept bool
}

// NewModel creates a model with zeroed coefficients of element type T.
func NewModel[T learnkit.Float](nFeatures, nResponses int, intercept bool) *Model {
	return &Model{
		Beta:      learnkit.NewTable[T](nResponses, nFeatures+1),
		Intercept: intercept,
	}
}

// NumberOfFeatures implements regression.Model.
func (m *Model) NumberOfFeatures() int { return learnkit.Cols(m.Beta) - 1 }

// NumberOfResponses implements regression.Model.
func (m *Model) NumberOfResponses() int { return learnkit.Rows(m.Beta) }

// Predict computes the responses for every row of x. The returned table has
// the element type of the model.
func (m *Model) Predict(x *tensor.Dense) (*tensor.Dense, error) {
	if x == nil || x.Dims() != 2 {
		return nil, errors.Errorf("expected a numeric table to predict on")
	}
	nf, nr := m.NumberOfFeatures(), m.NumberOfResponses()
	if learnkit.Cols(x) != nf {
		return nil, errors.Errorf("model has %d features, data has %d columns", nf, learnkit.Cols(x))
	}
	xs, err := learnkit.Float64s(x)
	if err != nil {
		return nil, err
	}
	betas, err := learnkit.Float64s(m.Beta)
	if err != nil {
		return nil, err
	}

	n := learnkit.Rows(x)
	xm := mat.NewDense(n, nf, xs)
	bm := mat.NewDense(nr, nf+1, betas)
	w := bm.Slice(0, nr, 1, nf+1)

	var out mat.Dense
	out.Mul(xm, w.T())
	for r := 0; r < nr; r++ {
		b0 := bm.At(r, 0)
		for i := 0; i < n; i++ {
			out.Set(i, r, out.At(i, r)+b0)
		}
	}

	switch m.Beta.Dtype() {
	case tensor.Float32:
		return fromMat[float32](&out), nil
	case tensor.Float64:
		return fromMat[float64](&out), nil
	}
	return nil, errors.Errorf("unsupported model element type %v", m.Beta.Dtype())
}

func fromMat[T learnkit.Float](m *mat.Dense) *tensor.Dense {
	r, c := m.Dims()
	retVal := learnkit.NewTable[T](r, c)
	data := retVal.Data().([]T)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = T(m.At(i, j))
		}
	}
	return retVal
}
