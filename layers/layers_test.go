package layers

import (
	"testing"

	"github.com/gorgonia/learnkit"
	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

type convParameter struct {
	Parameter
	Kernel int
}

func (p *convParameter) Layer() *Parameter { return &p.Parameter }

type otherParameter struct{}

func (otherParameter) Check() *learnkit.Status { return nil }

func TestAsParameter(t *testing.T) {
	assert := assert.New(t)

	p, err := AsParameter(nil)
	assert.NoError(err)
	assert.False(p.PredictionStage)

	want := &Parameter{PredictionStage: true}
	p, err = AsParameter(want)
	assert.NoError(err)
	assert.True(p == want)

	conv := &convParameter{Parameter: Parameter{PredictionStage: true}, Kernel: 3}
	p, err = AsParameter(conv)
	assert.NoError(err)
	assert.True(p.PredictionStage)

	_, err = AsParameter(otherParameter{})
	assert.Error(err)
}

func TestLayerData(t *testing.T) {
	assert := assert.New(t)
	d := NewLayerData()
	a := learnkit.NewTensorOf[float64](2, 3)
	d.Set(4, a)
	d.Set(1, learnkit.NewTensorOf[float32](1))
	assert.Equal(2, d.Len())
	assert.Equal([]learnkit.ID{1, 4}, d.Keys())
	assert.True(d.Tensor(4) == a)
	assert.Nil(d.Tensor(2))

	d.Set(1, nil)
	assert.Equal(1, d.Len())
	var nilTensor *tensor.Dense
	d.Set(4, nilTensor)
	assert.Equal(0, d.Len())

	var nilData *LayerData
	d.Set(2, NewLayerData())
	d.Set(2, nilData)
	assert.Equal(0, d.Len())
	assert.Nil(d.Get(2))

	var zero LayerData
	zero.Set(0, a)
	assert.Equal(1, zero.Len())
}

func TestLayerDataRoundTrip(t *testing.T) {
	d := NewLayerData()
	d.Set(0, learnkit.TableOf(2, 2, []float64{1, 2, 3, 4}))
	d.Set(7, learnkit.TableOf(1, 2, []float32{5, 6}))

	p, err := learnkit.Marshal(d)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	d2 := NewLayerData()
	if err := learnkit.Unmarshal(p, d2); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.Equal(t, []learnkit.ID{0, 7}, d2.Keys())
	assert.Equal(t, []float64{1, 2, 3, 4}, d2.Tensor(0).Data())
	assert.Equal(t, []float32{5, 6}, d2.Tensor(7).Data())
}

func TestParameterRoundTrip(t *testing.T) {
	p := Parameter{PredictionStage: true}
	b, err := learnkit.Marshal(&p)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	var p2 Parameter
	if err := learnkit.Unmarshal(b, &p2); err != nil {
		t.Fatalf("%+v", err)
	}
	assert.True(t, p2.PredictionStage)
	assert.True(t, p2.Check().OK())
}
