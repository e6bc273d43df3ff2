package learnkit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusAggregates(t *testing.T) {
	assert := assert.New(t)
	var st Status
	assert.True(st.OK())
	assert.Nil(st.Err())

	st.Add(ErrNullInput, "data")
	st.Addf(ErrIncorrectNumberOfRows, "dependentVariables", "expected %d, got %d", 100, 99)

	assert.False(st.OK())
	assert.Len(st.Details(), 2)
	assert.True(st.Has(ErrNullInput))
	assert.True(st.HasArgument("dependentVariables"))
	assert.False(st.Has(ErrIncorrectType))

	err := st.Err()
	if err == nil {
		t.Fatal("expected an error")
	}
	assert.True(errors.Is(err, ErrNullInput))
	assert.True(errors.Is(err, ErrIncorrectNumberOfRows))
	assert.False(errors.Is(err, ErrEmptyTable))
	assert.Equal("null input (data); incorrect number of rows (dependentVariables): expected 100, got 99", st.Error())
}

func TestStatusMerge(t *testing.T) {
	var a, b Status
	b.Add(ErrIncorrectParameter, "nClasses")
	a.Merge(&b).Merge(nil)
	assert.True(t, a.Has(ErrIncorrectParameter))

	var nilStatus *Status
	assert.True(t, nilStatus.OK())
	assert.Nil(t, nilStatus.Details())
}
