package learnkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"
)

func TestSlotsIsolation(t *testing.T) {
	assert := assert.New(t)
	s := MakeSlots(3)
	a := NewTable[float64](2, 2)
	b := NewTable[float64](3, 1)

	s.Set(0, a)
	before := s.Get(1)
	s.Set(2, b)
	assert.Equal(before, s.Get(1), "setting slot 2 should not touch slot 1")
	assert.True(s.Get(0) == Value(a), "slot 0 should still hold a")
	assert.Equal([]ID{0, 2}, s.Populated())
}

func TestSlotsSetShares(t *testing.T) {
	s := MakeSlots(1)
	a := NewTable[float32](2, 2)
	s.Set(0, a)

	got := Typed[*tensor.Dense](&s, 0)
	if got != a {
		t.Fatalf("expected the same handle back")
	}
	got.SetAt(float32(3), 1, 1)
	v, _ := a.At(1, 1)
	assert.Equal(t, float32(3), v, "the container must share, not copy")
}

func TestSlotsTypedNil(t *testing.T) {
	s := MakeSlots(2)
	var nilTable *tensor.Dense
	s.Set(0, nilTable)
	assert.False(t, s.IsSet(0), "a typed nil pointer should leave the slot unset")
	assert.Nil(t, Typed[*tensor.Dense](&s, 1))
}

func TestSlotsTypedMismatch(t *testing.T) {
	s := MakeSlots(1)
	s.Set(0, "not a table")
	defer func() {
		r := recover()
		err, ok := r.(*TypeError)
		if !ok {
			t.Fatalf("expected a *TypeError panic, got %v", r)
		}
		assert.Equal(t, "*tensor.Dense", err.Expected)
		assert.Equal(t, "string", err.Got)
	}()
	Typed[*tensor.Dense](&s, 0)
}

func TestCheckKind(t *testing.T) {
	s := MakeSlots(3)
	s.Set(0, NewTable[float64](1, 1))
	s.Set(2, "not a table")
	assert.NoError(t, CheckKind[*tensor.Dense](&s, 0, 1))

	err := CheckKind[*tensor.Dense](&s, 0, 1, 2)
	te, ok := err.(*TypeError)
	if !ok {
		t.Fatalf("expected a *TypeError, got %v", err)
	}
	assert.Equal(t, ID(2), te.ID)
	assert.Equal(t, "string", te.Got)
}

func TestSlotsOutOfRange(t *testing.T) {
	s := MakeSlots(2)
	assert.Panics(t, func() { s.Get(2) })
	assert.Panics(t, func() { s.Set(-1, nil) })
}

func TestSlotsClone(t *testing.T) {
	assert := assert.New(t)
	s := MakeSlots(2)
	a := NewTable[float64](1, 1)
	s.Set(0, a)

	c := s.Clone()
	assert.True(c.Get(0) == Value(a), "clone should share handles")

	c.Set(1, NewTable[float64](1, 1))
	assert.False(s.IsSet(1), "setting on the clone should not touch the original")
	assert.Equal(2, c.Len())
}
