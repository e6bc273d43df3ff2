package forward

import (
	"testing"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/layers"
	"github.com/stretchr/testify/assert"
)

func TestInputCheck(t *testing.T) {
	in := NewInput()
	st := in.Check(nil, learnkit.DefaultDense)
	assert.True(t, st.Has(learnkit.ErrNullInput))
	assert.True(t, st.HasArgument(Data.String()))

	in.Set(Data, learnkit.NewTensorOf[float64](2, 3))
	assert.True(t, in.Check(nil, learnkit.DefaultDense).OK())
}

func TestResultCheck(t *testing.T) {
	assert := assert.New(t)
	in := NewInput()
	in.Set(Data, learnkit.NewTensorOf[float32](4, 2))

	res := NewResult()
	st := res.Check(in, nil, learnkit.DefaultDense)
	assert.True(st.Has(learnkit.ErrNullInput))
	assert.True(st.Has(learnkit.ErrNullLayerData))

	res.Set(Value, learnkit.NewTensorOf[float32](2, 4))
	st = res.Check(in, &layers.Parameter{PredictionStage: true}, learnkit.DefaultDense)
	assert.True(st.Has(learnkit.ErrIncorrectSizeOfDimension))
	assert.False(st.Has(learnkit.ErrNullLayerData))

	res.Set(Value, learnkit.NewTensorOf[float32](4, 2))
	res.SetLayerData(layers.NewLayerData())
	assert.True(res.Check(in, nil, learnkit.DefaultDense).OK())

	res.Slots.Set(learnkit.ID(ResultForBackward), learnkit.NewTensorOf[float32](1))
	assert.True(res.Check(in, nil, learnkit.DefaultDense).Has(learnkit.ErrIncorrectType))
}

func TestResultValueOnly(t *testing.T) {
	res := NewResult()
	assert.Panics(t, func() { res.Get(ResultForBackward) })
	assert.Panics(t, func() { res.Set(ResultForBackward, nil) })
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "weights", Weights.String())
	assert.Equal(t, "resultForBackward", ResultForBackward.String())
	assert.Equal(t, "InputID(9)", InputID(9).String())
}
