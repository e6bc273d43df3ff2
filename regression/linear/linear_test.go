package linear

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/regression"
	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

var trueBeta = []float64{1, 2, -3, 0.5} // intercept first

func synth(n int, seed int64) (x, y []float64) {
	r := rand.New(rand.NewSource(seed))
	nf := len(trueBeta) - 1
	x = make([]float64, n*nf)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = trueBeta[0]
		for j := 0; j < nf; j++ {
			v := r.Float64()*2 - 1
			x[i*nf+j] = v
			y[i] += trueBeta[j+1] * v
		}
	}
	return x, y
}

func synthInput(n int, seed int64) *Input {
	x, y := synth(n, seed)
	in := NewInput()
	in.Set(regression.Data, learnkit.TableOf(n, len(trueBeta)-1, x))
	in.Set(regression.DependentVariables, learnkit.TableOf(n, 1, y))
	return in
}

func TestBatch(t *testing.T) {
	b := NewBatch[float64](DefaultParameter())
	b.Input = synthInput(50, 1337)
	res, err := b.Compute()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	m := res.Model()
	if m == nil {
		t.Fatal("expected a model")
	}
	assert.Equal(t, 3, m.NumberOfFeatures())
	assert.Equal(t, 1, m.NumberOfResponses())
	assert.InDeltaSlice(t, trueBeta, m.Beta.Data().([]float64), 1e-8)
}

func TestBatchFloat32(t *testing.T) {
	b := NewBatch[float32](DefaultParameter())
	b.Input = synthInput(50, 42)
	res, err := b.Compute()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, tensor.Float32, res.Model().Beta.Dtype())
	got, _ := learnkit.Float64s(res.Model().Beta)
	assert.InDeltaSlice(t, trueBeta, got, 1e-3)
}

func TestBatchNoIntercept(t *testing.T) {
	n := 40
	x, y := synth(n, 7)
	for i := range y {
		y[i] -= trueBeta[0]
	}
	b := NewBatch[float64](Parameter{InterceptFlag: false})
	b.Input.Set(regression.Data, learnkit.TableOf(n, 3, x))
	b.Input.Set(regression.DependentVariables, learnkit.TableOf(n, 1, y))
	res, err := b.Compute()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	want := append([]float64{0}, trueBeta[1:]...)
	assert.InDeltaSlice(t, want, res.Model().Beta.Data().([]float64), 1e-8)
	assert.False(t, res.Model().Intercept)
}

func TestBatchUsesPresetModel(t *testing.T) {
	b := NewBatch[float64](DefaultParameter())
	b.Input = synthInput(30, 3)
	res := NewResult()
	preset := NewModel[float64](3, 1, true)
	res.Set(regression.TrainedModel, preset)
	if err := b.ComputeInto(res); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.True(t, res.Model() == preset, "allocation must keep caller storage")
	assert.InDeltaSlice(t, trueBeta, preset.Beta.Data().([]float64), 1e-8)
}

func TestBatchRejectsBadInput(t *testing.T) {
	b := NewBatch[float64](DefaultParameter())
	b.Input = synthInput(30, 3)
	b.Input.Set(regression.DependentVariables, learnkit.NewTable[float64](29, 1))
	_, err := b.Compute()
	assert.True(t, errors.Is(err, learnkit.ErrIncorrectNumberOfRows))

	b = NewBatch[float64](DefaultParameter())
	b.Input = synthInput(30, 3)
	b.Method = QRDense
	_, err = b.Compute()
	assert.True(t, errors.Is(err, learnkit.ErrMethodNotSupported))
}

func TestAllocateResultIdempotent(t *testing.T) {
	in := synthInput(10, 1)
	r := NewResult()
	par := DefaultParameter()
	if err := r.Allocate(in, &par, NormEqDense); err != nil {
		t.Fatal(err)
	}
	m := r.Model()
	if err := r.Allocate(in, &par, NormEqDense); err != nil {
		t.Fatal(err)
	}
	assert.True(t, m == r.Model())
	assert.Equal(t, tensor.Shape{1, 4}, m.Beta.Shape())
}

func TestOnlineMatchesBatch(t *testing.T) {
	o := NewOnline[float64](DefaultParameter())
	for i := int64(0); i < 4; i++ {
		if err := o.Compute(synthInput(25, i)); err != nil {
			t.Fatalf("block %d: %+v", i, err)
		}
	}
	assert.Equal(t, 100, o.PartialResult().NObservations())

	res, err := o.Finalize()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.InDeltaSlice(t, trueBeta, res.Model().Beta.Data().([]float64), 1e-8)
}

func TestOnlineFloat32ObservationCount(t *testing.T) {
	o := NewOnline[float32](DefaultParameter())
	if err := o.Compute(synthInput(10, 3)); err != nil {
		t.Fatalf("%+v", err)
	}
	nobs := o.PartialResult().Get(PartialNObservations)
	assert.Equal(t, tensor.Float64, nobs.Dtype())

	// float32 cannot count one past 2^24
	nobs.Data().([]float64)[0] = 1 << 24
	if err := o.Compute(synthInput(1, 4)); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, 1<<24+1, o.PartialResult().NObservations())
}

func TestOnlineCheckpoint(t *testing.T) {
	o := NewOnline[float64](DefaultParameter())
	if err := o.Compute(synthInput(20, 11)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := learnkit.Serialize(&buf, o.PartialResult()); err != nil {
		t.Fatalf("%+v", err)
	}
	restored := NewPartialResult()
	if err := learnkit.Deserialize(&buf, restored); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, 20, restored.NObservations())
	assert.Equal(t, o.PartialResult().Get(PartialXTX).Data(), restored.Get(PartialXTX).Data())

	o2 := NewOnline[float64](DefaultParameter())
	o2.SetPartialResult(restored)
	if err := o2.Compute(synthInput(20, 12)); err != nil {
		t.Fatal(err)
	}
	res, err := o2.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	assert.InDeltaSlice(t, trueBeta, res.Model().Beta.Data().([]float64), 1e-8)
}

func TestOnlineRejectsShapeChange(t *testing.T) {
	o := NewOnline[float64](DefaultParameter())
	if err := o.Compute(synthInput(20, 1)); err != nil {
		t.Fatal(err)
	}
	in := NewInput()
	in.Set(regression.Data, learnkit.NewTable[float64](5, 2))
	in.Set(regression.DependentVariables, learnkit.NewTable[float64](5, 1))
	assert.Error(t, o.Compute(in))
}

func TestFinalizeEmpty(t *testing.T) {
	o := NewOnline[float64](DefaultParameter())
	_, err := o.Finalize()
	assert.True(t, errors.Is(err, learnkit.ErrNullPartialResult))
}

func TestPredict(t *testing.T) {
	m := NewModel[float64](3, 1, true)
	copy(m.Beta.Data().([]float64), trueBeta)
	x := learnkit.TableOf(2, 3, []float64{
		0, 0, 0,
		1, 1, 1,
	})
	y, err := m.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	assert.InDeltaSlice(t, []float64{1, 0.5}, y.Data().([]float64), 1e-12)

	_, err = m.Predict(learnkit.NewTable[float64](2, 2))
	assert.Error(t, err)
}

func TestResultRoundTrip(t *testing.T) {
	b := NewBatch[float64](DefaultParameter())
	b.Input = synthInput(20, 5)
	res, err := b.Compute()
	if err != nil {
		t.Fatal(err)
	}
	p, err := learnkit.Marshal(res)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	res2 := NewResult()
	if err := learnkit.Unmarshal(p, res2); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, res.Model().Beta.Data(), res2.Model().Beta.Data())
	assert.Equal(t, res.Model().Intercept, res2.Model().Intercept)
	assert.True(t, res2.Check(b.Input, &b.Parameter, NormEqDense).OK())
}

func TestParameterRoundTrip(t *testing.T) {
	par := Parameter{InterceptFlag: false}
	p, err := learnkit.Marshal(&par)
	if err != nil {
		t.Fatal(err)
	}
	par2 := DefaultParameter()
	if err := learnkit.Unmarshal(p, &par2); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, par, par2)
}
