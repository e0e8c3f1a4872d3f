// Package i64 implements the I64 queryable-encryption datatype: a signed
// 64-bit integer protected by AEAD, plus an order-revealing ciphertext over
// its unsigned, offset-translated representation.
package i64

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/allisson/enquo/crypto"
	"github.com/allisson/enquo/enquoerr"
	"github.com/allisson/enquo/field"
)

// currentVersion is bumped relative to the distilled design's I64 v1, which
// keyed its ORE subkey on the caller-supplied context rather than a fixed
// identifier; this port uses the fixed identifier every other datatype
// uses and marks the wire format accordingly so the two are never confused.
const currentVersion = 2

var (
	aeadKeyID = []byte("I64.AES256v1_key")
	oreKeyID  = []byte("I64v1.ore_key")
	oreShape  = crypto.OREShape{N: 8, W: 256}
	bias      = new(big.Int).Lsh(big.NewInt(1), 63)
)

// I64 is a queryable-encrypted signed 64-bit integer.
type I64 struct {
	Version uint8         `cbor:"v"`
	AEAD    *crypto.AES256v1Record `cbor:"a"`
	ORE     *crypto.OREv1          `cbor:"o,omitempty"`
	KeyID   []byte                 `cbor:"k"`
}

// biasedEncode maps an int64 onto the unsigned domain the ORE engine
// operates on, preserving order: v -> v + 2^63. The addition is carried out
// in a big.Int intermediate and checked, even though by construction it
// cannot overflow for any legal int64 input.
func biasedEncode(v int64) (uint64, error) {
	sum := new(big.Int).Add(big.NewInt(v), bias)
	if !sum.IsUint64() {
		return 0, enquoerr.Wrapf(enquoerr.ErrOverflow, "i64 offset translation overflowed for %d", v)
	}
	return sum.Uint64(), nil
}

func biasedDecode(u uint64) (int64, error) {
	diff := new(big.Int).Sub(new(big.Int).SetUint64(u), bias)
	if !diff.IsInt64() {
		return 0, enquoerr.Wrapf(enquoerr.ErrOverflow, "i64 offset translation overflowed for %d", u)
	}
	return diff.Int64(), nil
}

// i64Wire mirrors I64 for decoding; a distinct type avoids recursing back
// into UnmarshalCBOR.
type i64Wire I64

// UnmarshalCBOR decodes an I64 record and restores the ORE ciphertext's
// fixed shape, which the `cbor:"-"` tag on crypto.OREv1.N/W excludes from
// the wire format.
func (i *I64) UnmarshalCBOR(data []byte) error {
	var wire i64Wire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	*i = I64(wire)
	i.ORE.SetShape(oreShape)
	return nil
}

func deriveKeys(f *field.Field) (aeadKey, oreKey []byte, err error) {
	aeadKey, err = f.SubkeyBytes(32, aeadKeyID)
	if err != nil {
		return nil, nil, err
	}
	oreKey, err = f.SubkeyBytes(32, oreKeyID)
	if err != nil {
		return nil, nil, err
	}
	return aeadKey, oreKey, nil
}

func build(value int64, context []byte, f *field.Field, withLeft bool) (*I64, error) {
	aeadKey, oreKey, err := deriveKeys(f)
	if err != nil {
		return nil, err
	}

	plaintext, err := cbor.Marshal(value)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
	}

	aead, err := crypto.AES256v1Encrypt(aeadKey, plaintext, context)
	if err != nil {
		return nil, err
	}

	encoded, err := biasedEncode(value)
	if err != nil {
		return nil, err
	}

	var ore *crypto.OREv1
	if withLeft {
		ore, err = oreShape.FullEncrypt(oreKey, encoded)
	} else {
		ore, err = oreShape.RightEncrypt(oreKey, encoded)
	}
	if err != nil {
		return nil, err
	}

	keyID, err := f.KeyID()
	if err != nil {
		return nil, err
	}

	return &I64{Version: currentVersion, AEAD: aead, ORE: ore, KeyID: keyID[:]}, nil
}

// New builds a safe-default record with no left half.
func New(value int64, context []byte, f *field.Field) (*I64, error) {
	return build(value, context, f, false)
}

// NewWithUnsafeParts builds a record with a left half, usable on its own as
// a comparison operand.
func NewWithUnsafeParts(value int64, context []byte, f *field.Field) (*I64, error) {
	return build(value, context, f, true)
}

// Decrypt recovers the original integer.
func (i *I64) Decrypt(context []byte, f *field.Field) (int64, error) {
	if i.Version != currentVersion {
		return 0, enquoerr.Wrapf(enquoerr.ErrUnknownVersion, "i64 record has unknown version %d", i.Version)
	}

	aeadKey, _, err := deriveKeys(f)
	if err != nil {
		return 0, err
	}

	plaintext, err := i.AEAD.Decrypt(aeadKey, context)
	if err != nil {
		return 0, err
	}

	var value int64
	if err := cbor.Unmarshal(plaintext, &value); err != nil {
		return 0, enquoerr.Wrap(enquoerr.ErrDecoding, err.Error())
	}
	return value, nil
}

// MakeUnqueryable clears the ORE half in place.
func (i *I64) MakeUnqueryable() {
	i.ORE = nil
}

func checkKeyID(a, b *I64) error {
	if len(a.KeyID) == 0 || len(b.KeyID) == 0 || string(a.KeyID) != string(b.KeyID) {
		return enquoerr.Wrap(enquoerr.ErrKey, "i64 records were encrypted under different fields")
	}
	return nil
}

// Compare orders two I64 records. At least one must carry a left half.
func Compare(a, b *I64) (int, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return 0, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version i64 record")
	}
	if err := checkKeyID(a, b); err != nil {
		return 0, err
	}
	if a.ORE == nil || b.ORE == nil {
		return 0, enquoerr.Wrap(enquoerr.ErrOperation, "i64 record has been made unqueryable")
	}
	return crypto.Compare(a.ORE, b.ORE)
}

// Equal reports whether two I64 records encrypt the same value.
func Equal(a, b *I64) (bool, error) {
	order, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return order == 0, nil
}
