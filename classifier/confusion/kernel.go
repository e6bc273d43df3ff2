package confusion

import (
	"math"

	"github.com/gorgonia/learnkit"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
	"gorgonia.org/vecf64"
)

// Batch computes a confusion matrix and its metrics in element type T.
type Batch[T learnkit.Float] struct {
	Parameter Parameter
	Input     *Input

	runner *learnkit.Runner
}

// NewBatch creates a Batch.
func NewBatch[T learnkit.Float](par Parameter) *Batch[T] {
	return &Batch[T]{
		Parameter: par,
		Input:     NewInput(),
		runner:    learnkit.NewRunner("confusion matrix", false),
	}
}

// Compute computes a new Result.
func (b *Batch[T]) Compute() (*Result, error) {
	res := NewResult()
	if err := b.ComputeInto(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ComputeInto computes into res, reusing the tables already set in it.
func (b *Batch[T]) ComputeInto(res *Result) error {
	return b.runner.Run(b.Input, typedResult[T]{res}, &b.Parameter, learnkit.DefaultDense, kernel[T]{})
}

type typedResult[T learnkit.Float] struct{ *Result }

func (r typedResult[T]) Allocate(input learnkit.Input, par learnkit.Parameter, method learnkit.Method) error {
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	return Allocate[T](r.Result, p)
}

type kernel[T learnkit.Float] struct{}

func (kernel[T]) Compute(input learnkit.Input, res learnkit.Result, par learnkit.Parameter, method learnkit.Method) error {
	in, ok := input.(*Input)
	if !ok {
		return errors.Errorf("expected a *confusion.Input, got %T", input)
	}
	r, ok := res.(typedResult[T])
	if !ok {
		return errors.Errorf("unexpected result %T", res)
	}
	p, err := asParameter(par)
	if err != nil {
		return err
	}
	return compute[T](in, r.Result, p)
}

func compute[T learnkit.Float](in *Input, r *Result, p *Parameter) error {
	pred, err := learnkit.Float64s(in.Get(PredictedLabels))
	if err != nil {
		return err
	}
	truth, err := learnkit.Float64s(in.Get(GroundTruthLabels))
	if err != nil {
		return err
	}
	matrix, err := learnkit.Elems[T](r.Get(ConfusionMatrix))
	if err != nil {
		return errors.WithMessage(err, ConfusionMatrix.String())
	}

	l := p.NClasses
	if len(matrix) != l*l {
		return errors.Wrapf(learnkit.ErrIncorrectNumberOfClasses, "%v holds %d cells, %d classes need %d", ConfusionMatrix, len(matrix), l, l*l)
	}
	for i := range matrix {
		matrix[i] = 0
	}
	for i := range truth {
		actual, err := label(truth[i], l)
		if err != nil {
			return errors.WithMessagef(err, "%v row %d", GroundTruthLabels, i)
		}
		predicted, err := label(pred[i], l)
		if err != nil {
			return errors.WithMessagef(err, "%v row %d", PredictedLabels, i)
		}
		matrix[actual*l+predicted]++
	}

	if !p.UseDefaultMetrics {
		return nil
	}
	metrics, err := learnkit.Elems[T](r.Get(MultiClassMetrics))
	if err != nil {
		return errors.WithMessage(err, MultiClassMetrics.String())
	}
	if len(metrics) != NumMetrics {
		return errors.Errorf("%v holds %d values, expected %d", MultiClassMetrics, len(metrics), NumMetrics)
	}
	computeMetrics(matrix, metrics, l, p.Beta)
	return nil
}

func label(v float64, nClasses int) (int, error) {
	if math.IsNaN(v) || v != math.Trunc(v) || v < 0 || int(v) >= nClasses {
		return 0, errors.Errorf("label %v is not a class in [0, %d)", v, nClasses)
	}
	return int(v), nil
}

func computeMetrics[T learnkit.Float](matrix, metrics []T, l int, beta float64) {
	var total float64
	tp := make([]float64, l)
	predicted := make([]float64, l) // column sums, tp+fp
	actual := make([]float64, l)    // row sums, tp+fn
	for i := 0; i < l; i++ {
		row := matrix[i*l : (i+1)*l]
		actual[i] = float64(sum(row))
		total += actual[i]
		tp[i] = float64(row[i])
		for j := 0; j < l; j++ {
			predicted[j] += float64(row[j])
		}
	}

	var accuracy, errRate, sumTP, sumPred, sumActual, precision, recall float64
	for i := 0; i < l; i++ {
		fp := predicted[i] - tp[i]
		fn := actual[i] - tp[i]
		tn := total - tp[i] - fp - fn
		accuracy += div(tp[i]+tn, total)
		errRate += div(fp+fn, total)
		precision += div(tp[i], predicted[i])
		recall += div(tp[i], actual[i])
		sumTP += tp[i]
		sumPred += predicted[i]
		sumActual += actual[i]
	}
	n := float64(l)
	microP := div(sumTP, sumPred)
	microR := div(sumTP, sumActual)
	macroP := precision / n
	macroR := recall / n

	metrics[AverageAccuracy] = T(accuracy / n)
	metrics[ErrorRate] = T(errRate / n)
	metrics[MicroPrecision] = T(microP)
	metrics[MicroRecall] = T(microR)
	metrics[MicroFscore] = T(fscore(microP, microR, beta))
	metrics[MacroPrecision] = T(macroP)
	metrics[MacroRecall] = T(macroR)
	metrics[MacroFscore] = T(fscore(macroP, macroR, beta))
}

func fscore(p, r, beta float64) float64 {
	b2 := beta * beta
	return div((b2+1)*p*r, b2*p+r)
}

// div returns 0 for 0/0.
func div(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func sum[T learnkit.Float](a []T) T {
	switch a := any(a).(type) {
	case []float32:
		return T(vecf32.Sum(a))
	case []float64:
		return T(vecf64.Sum(a))
	}
	panic("unreachable")
}
