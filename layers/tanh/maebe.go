package tanh

import (
	"github.com/gorgonia/learnkit"
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// maebe carries the first error met while building a graph. Once it holds an
// error every further step is a no-op.
type maebe struct {
	err error
}

func (m *maebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// input adds a node holding a copy of t.
func (m *maebe) input(g *G.ExprGraph, t *tensor.Dense, name string) *G.Node {
	if m.err != nil {
		return nil
	}
	shape := t.Shape().Clone()
	return G.NewTensor(g, t.Dtype(), shape.Dims(), G.WithShape(shape...), G.WithValue(t.Clone().(*tensor.Dense)), G.WithName(name))
}

// oneMinusSquare returns 1 - x².
func (m *maebe) oneMinusSquare(x *G.Node, one interface{}) *G.Node {
	sq := m.do(func() (*G.Node, error) { return G.Square(x) })
	return m.do(func() (*G.Node, error) { return G.Sub(G.NewConstant(one), sq) })
}

// eval runs g once and copies the value of out into dst.
func eval[T learnkit.Float](g *G.ExprGraph, out *G.Node, dst []T) error {
	var v G.Value
	G.Read(out, &v)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if err := vm.RunAll(); err != nil {
		return errors.WithStack(err)
	}

	data, ok := v.Data().([]T)
	if !ok {
		return errors.Errorf("unexpected graph output %T", v.Data())
	}
	if len(data) != len(dst) {
		return errors.Errorf("graph output has %d elements, expected %d", len(data), len(dst))
	}
	copy(dst, data)
	return nil
}
