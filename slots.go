package learnkit

import (
	"fmt"
	"reflect"
)

// Slots is an ordered, fixed-size list of shared handles keyed by ID. It is the
// storage behind every Input, Result and PartialResult.
//
// Slots is not safe for concurrent Set. Concurrent Get is fine.
type Slots struct {
	vals []Value
}

// MakeSlots makes a container with exactly n slots, all unset.
func MakeSlots(n int) Slots {
	if n < 0 {
		panic(fmt.Sprintf("learnkit: negative slot count %d", n))
	}
	return Slots{vals: make([]Value, n)}
}

// Len returns the number of slots.
func (s *Slots) Len() int { return len(s.vals) }

// Get returns the handle in slot id, or nil if the slot is unset.
func (s *Slots) Get(id ID) Value {
	s.mustHave(id)
	return s.vals[id]
}

// Set stores v in slot id. The handle is shared, not copied. A nil v (including
// a typed nil pointer) unsets the slot.
func (s *Slots) Set(id ID, v Value) {
	s.mustHave(id)
	if IsNil(v) {
		v = nil
	}
	s.vals[id] = v
}

// IsSet reports whether slot id holds a handle.
func (s *Slots) IsSet(id ID) bool { return s.Get(id) != nil }

// Populated returns the IDs of the set slots, in order.
func (s *Slots) Populated() []ID {
	var retVal []ID
	for i, v := range s.vals {
		if v != nil {
			retVal = append(retVal, ID(i))
		}
	}
	return retVal
}

// Clone duplicates the slot-to-handle associations. The handles themselves are
// shared between s and the clone.
func (s *Slots) Clone() Slots {
	retVal := Slots{vals: make([]Value, len(s.vals))}
	copy(retVal.vals, s.vals)
	return retVal
}

func (s *Slots) mustHave(id ID) {
	if id < 0 || int(id) >= len(s.vals) {
		panic(fmt.Sprintf("learnkit: slot %d out of range [0, %d)", id, len(s.vals)))
	}
}

// TypeError is the panic value of Typed when a slot holds a handle of the wrong
// kind.
type TypeError struct {
	ID       ID
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("learnkit: slot %d holds %s, expected %s", e.ID, e.Got, e.Expected)
}

// Typed returns the handle in slot id as a T. It returns the zero T for an unset
// slot and panics with a *TypeError if the handle is not a T: identifiers fix the
// kind of their handles, so a mismatch is a programming error.
func Typed[T any](s *Slots, id ID) T {
	v := s.Get(id)
	if v == nil {
		var zero T
		return zero
	}
	retVal, ok := v.(T)
	if !ok {
		panic(newTypeError[T](id, v))
	}
	return retVal
}

// CheckKind returns a *TypeError for the first of the slots ids that holds a
// handle other than a T. Unset slots pass. Containers call it after decoding.
func CheckKind[T any](s *Slots, ids ...ID) error {
	for _, id := range ids {
		v := s.Get(id)
		if v == nil {
			continue
		}
		if _, ok := v.(T); !ok {
			return newTypeError[T](id, v)
		}
	}
	return nil
}

func newTypeError[T any](id ID, v Value) *TypeError {
	var zero T
	return &TypeError{ID: id, Expected: fmt.Sprintf("%T", &zero)[1:], Got: fmt.Sprintf("%T", v)}
}

// IsNil reports whether v is nil or a typed nil pointer, map, slice, func,
// channel or interface. Containers treat such handles as unset.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
