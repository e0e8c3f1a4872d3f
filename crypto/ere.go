package crypto

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/allisson/enquo/enquoerr"
)

// EREv1 is an equality-revealing ciphertext sharing OREv1's block
// construction but exposing only equality, not ordering.
type EREv1 struct {
	N, W  int      `cbor:"-"`
	Right []uint16 `cbor:"r"`
	Left  [][]byte `cbor:"l,omitempty"`
}

// EREShape fixes the block count and width of an EREv1 family.
type EREShape struct {
	N, W int
}

// NewEREShape validates and returns a block shape for ERE ciphertexts.
func NewEREShape(n, w int) (EREShape, error) {
	if err := validateShape(n, w); err != nil {
		return EREShape{}, err
	}
	return EREShape{N: n, W: w}, nil
}

// RightEncrypt produces a right-only ciphertext.
func (s EREShape) RightEncrypt(key []byte, pt uint64) (*EREv1, error) {
	right, _, err := encryptBlocks(key, s.N, s.W, pt, false)
	if err != nil {
		return nil, err
	}
	return &EREv1{N: s.N, W: s.W, Right: right}, nil
}

// FullEncrypt produces a ciphertext with both halves.
func (s EREShape) FullEncrypt(key []byte, pt uint64) (*EREv1, error) {
	right, left, err := encryptBlocks(key, s.N, s.W, pt, true)
	if err != nil {
		return nil, err
	}
	return &EREv1{N: s.N, W: s.W, Right: right, Left: left}, nil
}

// SetShape restores N and W on a ciphertext decoded by a plain
// struct-level CBOR unmarshal, which skips them since they are tagged
// `cbor:"-"`. Safe to call on a nil receiver.
func (e *EREv1) SetShape(shape EREShape) {
	if e == nil {
		return
	}
	e.N, e.W = shape.N, shape.W
}

// Decode parses a previously marshaled EREv1 ciphertext under this shape.
func (s EREShape) Decode(data []byte) (*EREv1, error) {
	var wire EREv1
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrDecoding, err.Error())
	}
	if len(wire.Right) != s.N {
		return nil, enquoerr.Wrapf(enquoerr.ErrDecoding, "ere ciphertext has %d right blocks, want %d", len(wire.Right), s.N)
	}
	if wire.Left != nil && len(wire.Left) != s.N {
		return nil, enquoerr.Wrapf(enquoerr.ErrDecoding, "ere ciphertext has %d left blocks, want %d", len(wire.Left), s.N)
	}
	wire.N, wire.W = s.N, s.W
	return &wire, nil
}

// Encode serializes the ciphertext for embedding in a datatype record.
func (e *EREv1) Encode() ([]byte, error) {
	data, err := cbor.Marshal(e)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
	}
	return data, nil
}

// HasLeft reports whether this ciphertext carries a left half.
func (e *EREv1) HasLeft() bool {
	return e != nil && e.Left != nil
}

// ClearLeft discards the left half in place.
func (e *EREv1) ClearLeft() {
	if e != nil {
		e.Left = nil
	}
}

// Equal reports whether two EREv1 ciphertexts of identical shape encrypt the
// same plaintext. At least one operand must carry a left half.
func Equal(a, b *EREv1) (bool, error) {
	if a == nil || b == nil {
		return false, enquoerr.Wrap(enquoerr.ErrOperation, "cannot compare a nil ere ciphertext")
	}
	if a.N != b.N || a.W != b.W {
		return false, enquoerr.Wrapf(enquoerr.ErrOperation, "ere shape mismatch: <%d,%d> vs <%d,%d>", a.N, a.W, b.N, b.W)
	}
	order, err := compareBlocks(a.N, a.W, a.Right, b.Right, a.Left, b.Left)
	if err != nil {
		return false, err
	}
	return order == 0, nil
}
