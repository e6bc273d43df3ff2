// Package layers holds what every neural network layer shares: its parameter
// and the data a forward pass leaves for the backward pass.
package layers

import (
	"sort"

	"github.com/gorgonia/learnkit"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Parameter configures a layer.
type Parameter struct {
	// PredictionStage is true when the layer only runs forward, for inference.
	// Forward results then carry no data for the backward pass.
	PredictionStage bool
}

// Check implements learnkit.Parameter.
func (p *Parameter) Check() *learnkit.Status { return nil }

// Serial implements learnkit.Serializer.
func (p *Parameter) Serial(a learnkit.Archive) error { return a.Visit(&p.PredictionStage) }

// AsParameter extracts the layer parameter from par. A nil par is a layer in
// training mode.
func AsParameter(par learnkit.Parameter) (*Parameter, error) {
	switch p := par.(type) {
	case nil:
		return &Parameter{}, nil
	case *Parameter:
		return p, nil
	case interface{ Layer() *Parameter }:
		return p.Layer(), nil
	}
	return nil, errors.Errorf("expected a layer parameter, got %T", par)
}

// LayerData is a keyed collection of handles passed from the forward to the
// backward pass. Keys are defined by each layer.
type LayerData struct {
	m map[learnkit.ID]learnkit.Value
}

// NewLayerData creates an empty LayerData.
func NewLayerData() *LayerData { return &LayerData{m: make(map[learnkit.ID]learnkit.Value)} }

// Get returns the handle at key, or nil.
func (d *LayerData) Get(key learnkit.ID) learnkit.Value { return d.m[key] }

// Tensor returns the tensor at key, or nil.
func (d *LayerData) Tensor(key learnkit.ID) *tensor.Dense {
	t, _ := d.m[key].(*tensor.Dense)
	return t
}

// Set stores v at key. A nil v removes the key.
func (d *LayerData) Set(key learnkit.ID, v learnkit.Value) {
	if d.m == nil {
		d.m = make(map[learnkit.ID]learnkit.Value)
	}
	if learnkit.IsNil(v) {
		delete(d.m, key)
		return
	}
	d.m[key] = v
}

// Len returns the number of keys.
func (d *LayerData) Len() int { return len(d.m) }

// Keys returns the keys in ascending order.
func (d *LayerData) Keys() []learnkit.ID {
	retVal := make([]learnkit.ID, 0, len(d.m))
	for k := range d.m {
		retVal = append(retVal, k)
	}
	sort.Slice(retVal, func(i, j int) bool { return retVal[i] < retVal[j] })
	return retVal
}

// Serial visits the number of keys, then every key and its handle in key order.
func (d *LayerData) Serial(a learnkit.Archive) error {
	keys := d.Keys()
	n := len(keys)
	if err := a.Visit(&n); err != nil {
		return err
	}
	if a.Decoding() {
		d.m = make(map[learnkit.ID]learnkit.Value, n)
		keys = make([]learnkit.ID, n)
	}
	for i := range keys {
		if err := a.Visit(&keys[i]); err != nil {
			return err
		}
		v := d.m[keys[i]]
		if err := a.Visit(&v); err != nil {
			return errors.WithMessagef(err, "layer data key %d", keys[i])
		}
		d.m[keys[i]] = v
	}
	return nil
}

// GobEncode implements gob.GobEncoder.
func (d *LayerData) GobEncode() ([]byte, error) { return learnkit.Marshal(d) }

// GobDecode implements gob.GobDecoder.
func (d *LayerData) GobDecode(p []byte) error { return learnkit.Unmarshal(p, d) }

func init() {
	learnkit.RegisterValue(&LayerData{})
}
