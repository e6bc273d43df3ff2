package regression

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/learnkit"
	"github.com/stretchr/testify/assert"
)

type fakeModel struct {
	Features, Responses int
}

func (m *fakeModel) NumberOfFeatures() int  { return m.Features }
func (m *fakeModel) NumberOfResponses() int { return m.Responses }

func init() { learnkit.RegisterValue(&fakeModel{}) }

func randomTable(rows, cols int) []float64 {
	r := rand.New(rand.NewSource(1337))
	retVal := make([]float64, rows*cols)
	for i := range retVal {
		retVal[i] = r.Float64()
	}
	return retVal
}

func makeInput(dataRows, depRows int) *Input {
	in := NewInput()
	in.Set(Data, learnkit.TableOf(dataRows, 5, randomTable(dataRows, 5)))
	in.Set(DependentVariables, learnkit.TableOf(depRows, 1, randomTable(depRows, 1)))
	return in
}

func TestInputCheck(t *testing.T) {
	in := makeInput(100, 100)
	st := in.Check(nil, learnkit.DefaultDense)
	assert.True(t, st.OK(), "%v", st)
}

func TestInputCheckRowMismatch(t *testing.T) {
	in := makeInput(100, 99)
	st := in.Check(nil, learnkit.DefaultDense)
	if st.OK() {
		t.Fatal("expected a failing status")
	}
	assert.True(t, st.Has(learnkit.ErrIncorrectNumberOfRows))
	assert.True(t, st.HasArgument("dependentVariables"))
	assert.False(t, st.HasArgument("data"))
	assert.True(t, errors.Is(st.Err(), learnkit.ErrIncorrectNumberOfRows))
}

func TestInputCheckMissing(t *testing.T) {
	tests := []struct {
		name    string
		in      func() *Input
		missing []string
	}{
		{"no data", func() *Input {
			in := makeInput(10, 10)
			in.Set(Data, nil)
			return in
		}, []string{"data"}},
		{"no dependent variables", func() *Input {
			in := makeInput(10, 10)
			in.Set(DependentVariables, nil)
			return in
		}, []string{"dependentVariables"}},
		{"nothing", NewInput, []string{"data", "dependentVariables"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.in().Check(nil, learnkit.DefaultDense)
			assert.False(t, st.OK())
			assert.Len(t, st.Details(), len(tt.missing), "every missing slot is reported")
			for _, arg := range tt.missing {
				assert.True(t, st.HasArgument(arg), "expected %q to be reported", arg)
			}
			assert.True(t, st.Has(learnkit.ErrNullInput))
		})
	}
}

func TestInputClone(t *testing.T) {
	in := makeInput(4, 4)
	c := in.Clone()
	assert.True(t, c.Get(Data) == in.Get(Data))
	c.Set(Data, nil)
	assert.NotNil(t, in.Get(Data))
}

func TestResultCheck(t *testing.T) {
	in := makeInput(10, 10)

	r := NewResult()
	st := r.Check(in, nil, learnkit.DefaultDense)
	assert.True(t, st.Has(learnkit.ErrNullModel))

	r.Set(TrainedModel, &fakeModel{Features: 5, Responses: 1})
	st = r.Check(in, nil, learnkit.DefaultDense)
	assert.True(t, st.OK(), "%v", st)

	r.Set(TrainedModel, &fakeModel{Features: 4, Responses: 2})
	st = r.Check(in, nil, learnkit.DefaultDense)
	assert.True(t, st.Has(learnkit.ErrIncorrectNumberOfFeatures))
	assert.True(t, st.Has(learnkit.ErrIncorrectNumberOfResponses))

	r.Slots.Set(learnkit.ID(TrainedModel), learnkit.NewTable[float64](1, 1))
	st = r.Check(in, nil, learnkit.DefaultDense)
	assert.True(t, st.Has(learnkit.ErrIncorrectType))
}

func TestResultRoundTrip(t *testing.T) {
	r := NewResult()
	r.Set(TrainedModel, &fakeModel{Features: 5, Responses: 2})
	p, err := learnkit.Marshal(r)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	r2 := NewResult()
	if err := learnkit.Unmarshal(p, r2); err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(r.Get(TrainedModel), r2.Get(TrainedModel)); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}
}

func TestPartialResultRoundTrip(t *testing.T) {
	pr := MakePartialResult(2)
	pr.Set(1, learnkit.TableOf(1, 2, []float64{3, 4}))
	p, err := learnkit.Marshal(&pr)
	if err != nil {
		t.Fatal(err)
	}
	pr2 := MakePartialResult(2)
	if err := learnkit.Unmarshal(p, &pr2); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []learnkit.ID{1}, pr2.Populated())
}

func TestIDNames(t *testing.T) {
	assert.Equal(t, "data", Data.String())
	assert.Equal(t, "dependentVariables", DependentVariables.String())
	assert.Equal(t, "model", TrainedModel.String())
}

func TestMakeInputTooSmall(t *testing.T) {
	assert.Panics(t, func() { MakeInput(1) })
}
