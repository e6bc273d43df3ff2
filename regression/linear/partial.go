package linear

import (
	"fmt"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/regression"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// PartialResultID names the slots of a PartialResult.
type PartialResultID learnkit.ID

const (
	PartialXTX           PartialResultID = iota // XᵀX, nBetas×nBetas
	PartialXTY                                  // YᵀX, nResponses×nBetas
	PartialNObservations                        // rows seen so far, 1×1 float64 whatever the element type

	lastPartialResultID = PartialNObservations
)

func (id PartialResultID) String() string {
	switch id {
	case PartialXTX:
		return "xtx"
	case PartialXTY:
		return "xty"
	case PartialNObservations:
		return "nObservations"
	}
	return fmt.Sprintf("PartialResultID(%d)", int(id))
}

// PartialResult accumulates the cross products of online training.
type PartialResult struct {
	regression.PartialResult
}

// NewPartialResult creates an empty PartialResult.
func NewPartialResult() *PartialResult {
	return &PartialResult{PartialResult: regression.MakePartialResult(int(lastPartialResultID) + 1)}
}

// Get returns the table in slot id.
func (pr *PartialResult) Get(id PartialResultID) *tensor.Dense {
	return learnkit.Typed[*tensor.Dense](&pr.Slots, learnkit.ID(id))
}

// Set stores a table in slot id.
func (pr *PartialResult) Set(id PartialResultID, t *tensor.Dense) {
	pr.Slots.Set(learnkit.ID(id), t)
}

// Serial implements learnkit.Serializer.
func (pr *PartialResult) Serial(a learnkit.Archive) error {
	if err := pr.PartialResult.Serial(a); err != nil || !a.Decoding() {
		return err
	}
	return learnkit.CheckKind[*tensor.Dense](&pr.Slots, learnkit.ID(PartialXTX), learnkit.ID(PartialXTY), learnkit.ID(PartialNObservations))
}

// NObservations returns the number of rows accumulated so far.
func (pr *PartialResult) NObservations() int {
	t := pr.Get(PartialNObservations)
	if t == nil {
		return 0
	}
	xs, err := learnkit.Float64s(t)
	if err != nil || len(xs) == 0 {
		return 0
	}
	return int(xs[0])
}

// Allocate allocates the partial result in the element type of the input data.
func (pr *PartialResult) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
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
		return AllocatePartial[float32](pr, in.NumberOfFeatures(), in.NumberOfResponses(), p.InterceptFlag)
	case tensor.Float64:
		return AllocatePartial[float64](pr, in.NumberOfFeatures(), in.NumberOfResponses(), p.InterceptFlag)
	}
	return errors.Errorf("unsupported element type %v", dt)
}

// AllocatePartial allocates the slots of pr that are not set yet.
func AllocatePartial[T learnkit.Float](pr *PartialResult, nFeatures, nResponses int, intercept bool) error {
	if nFeatures <= 0 || nResponses <= 0 {
		return errors.Errorf("cannot allocate a partial result for %d features and %d responses", nFeatures, nResponses)
	}
	p := nBetas(nFeatures, intercept)

	// build everything first so a failure leaves pr untouched
	var xtx, xty, nobs *tensor.Dense
	if !pr.IsSet(learnkit.ID(PartialXTX)) {
		xtx = learnkit.NewTable[T](p, p)
	}
	if !pr.IsSet(learnkit.ID(PartialXTY)) {
		xty = learnkit.NewTable[T](nResponses, p)
	}
	if !pr.IsSet(learnkit.ID(PartialNObservations)) {
		nobs = learnkit.NewTable[float64](1, 1)
	}

	if xtx != nil {
		pr.Set(PartialXTX, xtx)
	}
	if xty != nil {
		pr.Set(PartialXTY, xty)
	}
	if nobs != nil {
		pr.Set(PartialNObservations, nobs)
	}
	return nil
}

// Check checks the shapes of the accumulated tables against the input.
func (pr *PartialResult) Check(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) *learnkit.Status {
	st := new(learnkit.Status)
	p, err := asParameter(par)
	if err != nil {
		return st.Addf(learnkit.ErrIncorrectParameter, "parameter", "%v", err)
	}
	var nf, nr int
	if input != nil {
		in, err := asInput(input)
		if err != nil {
			return st.Addf(learnkit.ErrIncorrectType, "input", "%v", err)
		}
		nf, nr = in.NumberOfFeatures(), in.NumberOfResponses()
	}

	var nb int
	if nf > 0 {
		nb = nBetas(nf, p.InterceptFlag)
	}
	learnkit.CheckTable(st, pr.Slots.Get(learnkit.ID(PartialXTX)), PartialXTX.String(), nb, nb)
	learnkit.CheckTable(st, pr.Slots.Get(learnkit.ID(PartialXTY)), PartialXTY.String(), nr, nb)
	learnkit.CheckTable(st, pr.Slots.Get(learnkit.ID(PartialNObservations)), PartialNObservations.String(), 1, 1)
	return st
}

// accumulate adds the cross products of the rows of in to pr.
func accumulate[T learnkit.Float](pr *PartialResult, in *regression.Input, intercept bool) error {
	x, err := learnkit.Float64s(in.Get(regression.Data))
	if err != nil {
		return err
	}
	y, err := learnkit.Float64s(in.Get(regression.DependentVariables))
	if err != nil {
		return err
	}
	xtx, err := learnkit.Elems[T](pr.Get(PartialXTX))
	if err != nil {
		return errors.WithMessage(err, PartialXTX.String())
	}
	xty, err := learnkit.Elems[T](pr.Get(PartialXTY))
	if err != nil {
		return errors.WithMessage(err, PartialXTY.String())
	}
	nobs, err := learnkit.Elems[float64](pr.Get(PartialNObservations))
	if err != nil {
		return errors.WithMessage(err, PartialNObservations.String())
	}

	nf, nr := in.NumberOfFeatures(), in.NumberOfResponses()
	n := learnkit.Rows(in.Get(regression.Data))
	p := nBetas(nf, intercept)
	if len(xtx) != p*p || len(xty) != nr*p {
		return errors.Errorf("partial result does not fit a block of %d features and %d responses", nf, nr)
	}

	row := learnkit.BorrowFloat64s(p)
	defer learnkit.ReturnFloat64s(row)
	var off int
	if intercept {
		row[0] = 1
		off = 1
	}
	for i := 0; i < n; i++ {
		copy(row[off:], x[i*nf:(i+1)*nf])
		for a := 0; a < p; a++ {
			ra := row[a]
			for b := 0; b < p; b++ {
				xtx[a*p+b] += T(ra * row[b])
			}
		}
		for r := 0; r < nr; r++ {
			yr := y[i*nr+r]
			for a := 0; a < p; a++ {
				xty[r*p+a] += T(yr * row[a])
			}
		}
	}
	nobs[0] += float64(n)
	return nil
}
