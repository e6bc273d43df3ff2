package learnkit

import (
	"sync"
)

var (
	scratchMu   sync.Mutex
	scratchPool = make(map[int]*sync.Pool)
)

// BorrowFloat64s returns a zeroed scratch slice of length n. Return it with
// ReturnFloat64s when done.
func BorrowFloat64s(n int) []float64 {
	scratchMu.Lock()
	p, ok := scratchPool[n]
	scratchMu.Unlock()
	if ok {
		if s, ok := p.Get().([]float64); ok {
			for i := range s {
				s[i] = 0
			}
			return s
		}
	}
	return make([]float64, n)
}

// ReturnFloat64s gives a slice borrowed with BorrowFloat64s back.
func ReturnFloat64s(s []float64) {
	n := len(s)
	scratchMu.Lock()
	p, ok := scratchPool[n]
	if !ok {
		p = &sync.Pool{
			New: func() interface{} { return make([]float64, n) },
		}
		scratchPool[n] = p
	}
	scratchMu.Unlock()
	p.Put(s)
}
