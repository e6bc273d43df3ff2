package learnkit

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Float is the set of element types the numeric kernels are instantiated for.
type Float interface {
	float32 | float64
}

// Dtype returns the tensor element type matching T.
func Dtype[T Float]() tensor.Dtype {
	var z T
	if _, ok := any(z).(float32); ok {
		return tensor.Float32
	}
	return tensor.Float64
}

// NewTable makes a zeroed rows×cols numeric table of element type T.
func NewTable[T Float](rows, cols int) *tensor.Dense {
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(make([]T, rows*cols)))
}

// TableOf wraps backing, laid out row major, as a rows×cols numeric table. The
// backing is shared.
func TableOf[T Float](rows, cols int, backing []T) *tensor.Dense {
	if len(backing) != rows*cols {
		panic(errors.Errorf("learnkit: backing of length %d cannot hold a %d×%d table", len(backing), rows, cols))
	}
	return tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
}

// NewTensorOf makes a zeroed tensor of element type T with the given dimensions.
func NewTensorOf[T Float](dims ...int) *tensor.Dense {
	size := 1
	for _, d := range dims {
		size *= d
	}
	return tensor.New(tensor.WithShape(dims...), tensor.WithBacking(make([]T, size)))
}

// Rows returns the number of rows of a numeric table.
func Rows(t *tensor.Dense) int { return t.Shape()[0] }

// Cols returns the number of columns of a numeric table.
func Cols(t *tensor.Dense) int { return t.Shape()[1] }

// Float64s returns the elements of t as float64s. float64 tensors share their
// backing; float32 tensors are converted into a fresh slice.
func Float64s(t *tensor.Dense) ([]float64, error) {
	switch data := t.Data().(type) {
	case []float64:
		return data, nil
	case []float32:
		retVal := make([]float64, len(data))
		for i, v := range data {
			retVal[i] = float64(v)
		}
		return retVal, nil
	case float64:
		return []float64{data}, nil
	case float32:
		return []float64{float64(data)}, nil
	}
	return nil, errors.Errorf("learnkit: unsupported element type %v", t.Dtype())
}

// Elems returns the backing of t as a []T.
func Elems[T Float](t *tensor.Dense) ([]T, error) {
	data, ok := t.Data().([]T)
	if !ok {
		return nil, errors.Errorf("learnkit: tensor of %v is not a %v tensor", t.Dtype(), Dtype[T]())
	}
	return data, nil
}

// CheckTable checks that v is a numeric table. rows and cols are the expected
// sizes, 0 meaning any non-zero size. Problems are recorded in st against arg.
// The table is returned when it is usable for further checks.
func CheckTable(st *Status, v Value, arg string, rows, cols int) (*tensor.Dense, bool) {
	if v == nil {
		st.Add(ErrNullInput, arg)
		return nil, false
	}
	t, ok := v.(*tensor.Dense)
	if !ok {
		st.Addf(ErrIncorrectType, arg, "expected a numeric table, got %T", v)
		return nil, false
	}
	if t.Dims() != 2 {
		st.Addf(ErrIncorrectNumberOfDimensions, arg, "expected 2, got %d", t.Dims())
		return nil, false
	}
	r, c := Rows(t), Cols(t)
	if r == 0 || c == 0 {
		st.Add(ErrEmptyTable, arg)
		return nil, false
	}
	usable := true
	if rows > 0 && r != rows {
		st.Addf(ErrIncorrectNumberOfRows, arg, "expected %d, got %d", rows, r)
		usable = false
	}
	if cols > 0 && c != cols {
		st.Addf(ErrIncorrectNumberOfColumns, arg, "expected %d, got %d", cols, c)
		usable = false
	}
	return t, usable
}

// CheckTensor checks that v is a tensor. dims, when not nil, are the expected
// dimensions. Problems are recorded in st against arg.
func CheckTensor(st *Status, v Value, arg string, dims []int) (*tensor.Dense, bool) {
	if v == nil {
		st.Add(ErrNullInput, arg)
		return nil, false
	}
	t, ok := v.(*tensor.Dense)
	if !ok {
		st.Addf(ErrIncorrectType, arg, "expected a tensor, got %T", v)
		return nil, false
	}
	if dims == nil {
		if t.Shape().TotalSize() == 0 {
			st.Add(ErrEmptyTable, arg)
			return nil, false
		}
		return t, true
	}
	shape := t.Shape()
	if len(shape) != len(dims) {
		st.Addf(ErrIncorrectNumberOfDimensions, arg, "expected %d, got %d", len(dims), len(shape))
		return nil, false
	}
	usable := true
	for i, d := range dims {
		if shape[i] != d {
			st.Addf(ErrIncorrectSizeOfDimension, arg, "dimension %d: expected %d, got %d", i, d, shape[i])
			usable = false
		}
	}
	return t, usable
}
