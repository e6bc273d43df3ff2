package learnkit

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

const (
	// Magic opens every archive stream.
	Magic = "learnkit"

	// SchemaVersion is the version of the serialized form written by this
	// package. Streams with any other version are rejected.
	SchemaVersion = 1
)

// Archive is a sequential medium that a Serializer walks through. The same walk
// encodes or decodes depending on the archive, so both directions visit the
// fields in the same order.
type Archive interface {
	// Visit encodes *ptr, or decodes into *ptr.
	Visit(ptr interface{}) error

	// Decoding reports whether the archive is being read.
	Decoding() bool
}

// Serializer is anything that can walk an Archive. Derived containers call the
// Serial of the container they embed first, then visit their own fields.
type Serializer interface {
	Serial(a Archive) error
}

type header struct {
	Magic   string
	Version int
}

type encodingArchive struct{ enc *gob.Encoder }

func (a encodingArchive) Visit(ptr interface{}) error { return errors.WithStack(a.enc.Encode(ptr)) }
func (a encodingArchive) Decoding() bool              { return false }

type decodingArchive struct{ dec *gob.Decoder }

func (a decodingArchive) Visit(ptr interface{}) error { return errors.WithStack(a.dec.Decode(ptr)) }
func (a decodingArchive) Decoding() bool              { return true }

// Serialize writes s to w, preceded by the archive header.
func Serialize(w io.Writer, s Serializer) error {
	a := encodingArchive{gob.NewEncoder(w)}
	h := header{Magic: Magic, Version: SchemaVersion}
	if err := a.Visit(&h); err != nil {
		return errors.WithMessage(err, "writing archive header")
	}
	return s.Serial(a)
}

// Deserialize reads s from r. s should be a freshly constructed value of the
// same concrete type that was serialized; typed containers reject handles of
// the wrong kind, and s must be discarded on error.
func Deserialize(r io.Reader, s Serializer) error {
	a := decodingArchive{gob.NewDecoder(r)}
	var h header
	if err := a.Visit(&h); err != nil {
		return errors.WithMessage(err, "reading archive header")
	}
	if h.Magic != Magic {
		return errors.Errorf("not a learnkit archive (magic %q)", h.Magic)
	}
	if h.Version != SchemaVersion {
		return errors.Errorf("unsupported archive version %d, want %d", h.Version, SchemaVersion)
	}
	return s.Serial(a)
}

// Marshal serializes s into a byte slice.
func Marshal(s Serializer) ([]byte, error) {
	var buf bytes.Buffer
	if err := Serialize(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes p into s.
func Unmarshal(p []byte, s Serializer) error {
	return Deserialize(bytes.NewReader(p), s)
}

// RegisterValue makes a concrete handle type storable in a serialized slot.
func RegisterValue(v Value) { gob.Register(v) }

func init() {
	RegisterValue(&tensor.Dense{})
	RegisterValue(&Slots{})
}

// Serial visits the slot count, then every slot as a presence flag followed by
// the handle when present.
func (s *Slots) Serial(a Archive) error {
	n := len(s.vals)
	if err := a.Visit(&n); err != nil {
		return err
	}
	if a.Decoding() {
		switch {
		case s.vals == nil:
			s.vals = make([]Value, n)
		case n != len(s.vals):
			return errors.Errorf("archive holds %d slots, container has %d", n, len(s.vals))
		}
	}

	for i := range s.vals {
		present := s.vals[i] != nil
		if err := a.Visit(&present); err != nil {
			return errors.WithMessagef(err, "slot %d", i)
		}
		if !present {
			s.vals[i] = nil
			continue
		}
		if err := a.Visit(&s.vals[i]); err != nil {
			return errors.WithMessagef(err, "slot %d", i)
		}
	}
	return nil
}

// GobEncode allows containers to be nested as handles in other containers.
func (s *Slots) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Serial(encodingArchive{gob.NewEncoder(&buf)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (s *Slots) GobDecode(p []byte) error {
	return s.Serial(decodingArchive{gob.NewDecoder(bytes.NewReader(p))})
}
