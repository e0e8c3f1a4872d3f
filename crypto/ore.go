package crypto

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/allisson/enquo/enquoerr"
)

// OREv1 is an order-revealing ciphertext over an N-block, W-value-per-block
// domain. N and W are carried as runtime fields, validated on every
// operation, since Go generics have no integer value parameters.
type OREv1 struct {
	N, W  int      `cbor:"-"`
	Right []uint16 `cbor:"r"`
	Left  [][]byte `cbor:"l,omitempty"`
}

// OREShape fixes the block count and width of an OREv1 family, mirroring
// the distilled design's OREv1<N,W> const-generic parameterisation.
type OREShape struct {
	N, W int
}

// NewOREShape validates and returns a block shape for ORE ciphertexts.
func NewOREShape(n, w int) (OREShape, error) {
	if err := validateShape(n, w); err != nil {
		return OREShape{}, err
	}
	return OREShape{N: n, W: w}, nil
}

// RightEncrypt produces a right-only ciphertext: safe to store, but unusable
// as the sole operand of a comparison.
func (s OREShape) RightEncrypt(key []byte, pt uint64) (*OREv1, error) {
	right, _, err := encryptBlocks(key, s.N, s.W, pt, false)
	if err != nil {
		return nil, err
	}
	return &OREv1{N: s.N, W: s.W, Right: right}, nil
}

// FullEncrypt produces a ciphertext with both halves, usable on either side
// of a comparison.
func (s OREShape) FullEncrypt(key []byte, pt uint64) (*OREv1, error) {
	right, left, err := encryptBlocks(key, s.N, s.W, pt, true)
	if err != nil {
		return nil, err
	}
	return &OREv1{N: s.N, W: s.W, Right: right, Left: left}, nil
}

// SetShape restores N and W on a ciphertext decoded by a plain
// struct-level CBOR unmarshal, which skips them since they are tagged
// `cbor:"-"`. Safe to call on a nil receiver.
func (o *OREv1) SetShape(shape OREShape) {
	if o == nil {
		return
	}
	o.N, o.W = shape.N, shape.W
}

// Decode parses a previously marshaled OREv1 ciphertext under this shape.
func (s OREShape) Decode(data []byte) (*OREv1, error) {
	var wire OREv1
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrDecoding, err.Error())
	}
	if len(wire.Right) != s.N {
		return nil, enquoerr.Wrapf(enquoerr.ErrDecoding, "ore ciphertext has %d right blocks, want %d", len(wire.Right), s.N)
	}
	if wire.Left != nil && len(wire.Left) != s.N {
		return nil, enquoerr.Wrapf(enquoerr.ErrDecoding, "ore ciphertext has %d left blocks, want %d", len(wire.Left), s.N)
	}
	wire.N, wire.W = s.N, s.W
	return &wire, nil
}

// Encode serializes the ciphertext for embedding in a datatype record.
func (o *OREv1) Encode() ([]byte, error) {
	data, err := cbor.Marshal(o)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
	}
	return data, nil
}

// HasLeft reports whether this ciphertext carries a left half and can serve
// as an operand of Compare on its own.
func (o *OREv1) HasLeft() bool {
	return o != nil && o.Left != nil
}

// ClearLeft discards the left half in place, turning a full ciphertext into
// a right-only one. Used by MakeUnqueryable.
func (o *OREv1) ClearLeft() {
	if o != nil {
		o.Left = nil
	}
}

// Compare orders two OREv1 ciphertexts of identical shape. At least one
// operand must carry a left half.
func Compare(a, b *OREv1) (int, error) {
	if a == nil || b == nil {
		return 0, enquoerr.Wrap(enquoerr.ErrOperation, "cannot compare a nil ore ciphertext")
	}
	if a.N != b.N || a.W != b.W {
		return 0, enquoerr.Wrapf(enquoerr.ErrOperation, "ore shape mismatch: <%d,%d> vs <%d,%d>", a.N, a.W, b.N, b.W)
	}
	return compareBlocks(a.N, a.W, a.Right, b.Right, a.Left, b.Left)
}
