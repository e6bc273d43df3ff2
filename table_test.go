package learnkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

func TestCheckTable(t *testing.T) {
	tests := []struct {
		name   string
		v      Value
		rows   int
		cols   int
		usable bool
		errs   []ErrorID
	}{
		{"ok", NewTable[float64](4, 2), 4, 2, true, nil},
		{"any size", NewTable[float32](4, 2), 0, 0, true, nil},
		{"nil", nil, 0, 0, false, []ErrorID{ErrNullInput}},
		{"wrong kind", 3.0, 0, 0, false, []ErrorID{ErrIncorrectType}},
		{"vector", NewTensorOf[float64](4), 0, 0, false, []ErrorID{ErrIncorrectNumberOfDimensions}},
		{"rows and cols", NewTable[float64](3, 3), 4, 2, false, []ErrorID{ErrIncorrectNumberOfRows, ErrIncorrectNumberOfColumns}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st Status
			_, usable := CheckTable(&st, tt.v, "x", tt.rows, tt.cols)
			assert.Equal(t, tt.usable, usable)
			var got []ErrorID
			for _, d := range st.Details() {
				got = append(got, d.ID)
				assert.Equal(t, "x", d.Argument)
			}
			assert.Equal(t, tt.errs, got)
		})
	}
}

func TestCheckTensor(t *testing.T) {
	var st Status
	_, ok := CheckTensor(&st, NewTensorOf[float64](32, 10), "value", []int{32, 10})
	assert.True(t, ok)
	assert.True(t, st.OK())

	_, ok = CheckTensor(&st, NewTensorOf[float64](32, 9), "value", []int{32, 10})
	assert.False(t, ok)
	assert.True(t, st.Has(ErrIncorrectSizeOfDimension))

	st = Status{}
	_, ok = CheckTensor(&st, NewTensorOf[float64](32), "value", []int{32, 10})
	assert.False(t, ok)
	assert.True(t, st.Has(ErrIncorrectNumberOfDimensions))
}

func TestFloat64s(t *testing.T) {
	f32 := TableOf(2, 2, []float32{1, 2, 3, 4})
	got, err := Float64s(f32)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, got)

	f64 := TableOf(1, 2, []float64{5, 6})
	got, err = Float64s(f64)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 7
	v, _ := f64.At(0, 0)
	assert.Equal(t, 7.0, v, "float64 tables should share their backing")

	_, err = Float64s(tensor.New(tensor.WithShape(2), tensor.WithBacking([]int{1, 2})))
	assert.Error(t, err)
}

func TestDtype(t *testing.T) {
	assert.Equal(t, tensor.Float32, Dtype[float32]())
	assert.Equal(t, tensor.Float64, Dtype[float64]())
	assert.Equal(t, tensor.Float32, NewTable[float32](1, 2).Dtype())
}

func TestBorrowFloat64s(t *testing.T) {
	s := BorrowFloat64s(4)
	assert.Len(t, s, 4)
	s[0] = 3
	ReturnFloat64s(s)
	s2 := BorrowFloat64s(4)
	assert.Equal(t, []float64{0, 0, 0, 0}, s2)
}
