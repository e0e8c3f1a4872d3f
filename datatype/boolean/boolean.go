// Package boolean implements the Boolean queryable-encryption datatype: a
// single bit protected by AEAD, plus a one-block order-revealing ciphertext
// for equality and ordering queries.
package boolean

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/allisson/enquo/crypto"
	"github.com/allisson/enquo/enquoerr"
	"github.com/allisson/enquo/field"
)

const currentVersion = 1

var (
	aeadKeyID = []byte("Boolean.AES256v1_key")
	oreKeyID  = []byte("boolean::V1.ore_key")
	oreShape  = crypto.OREShape{N: 1, W: 2}
)

// Boolean is a queryable-encrypted boolean value.
type Boolean struct {
	Version uint8        `cbor:"v"`
	AEAD    *crypto.AES256v1Record `cbor:"a"`
	ORE     *crypto.OREv1          `cbor:"o,omitempty"`
	KeyID   []byte                 `cbor:"k"`
}

// booleanWire mirrors Boolean for decoding; a distinct type avoids
// recursing back into UnmarshalCBOR.
type booleanWire Boolean

// UnmarshalCBOR decodes a Boolean record and restores the ORE
// ciphertext's fixed shape, which the `cbor:"-"` tag on crypto.OREv1.N/W
// excludes from the wire format.
func (b *Boolean) UnmarshalCBOR(data []byte) error {
	var wire booleanWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	*b = Boolean(wire)
	b.ORE.SetShape(oreShape)
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

func encode(value bool) uint64 {
	if value {
		return 1
	}
	return 0
}

func build(value bool, context []byte, f *field.Field, withLeft bool) (*Boolean, error) {
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

	var ore *crypto.OREv1
	if withLeft {
		ore, err = oreShape.FullEncrypt(oreKey, encode(value))
	} else {
		ore, err = oreShape.RightEncrypt(oreKey, encode(value))
	}
	if err != nil {
		return nil, err
	}

	keyID, err := f.KeyID()
	if err != nil {
		return nil, err
	}

	return &Boolean{Version: currentVersion, AEAD: aead, ORE: ore, KeyID: keyID[:]}, nil
}

// New builds a safe-default record: no left half, so the result cannot be
// used on its own as a comparison operand.
func New(value bool, context []byte, f *field.Field) (*Boolean, error) {
	return build(value, context, f, false)
}

// NewWithUnsafeParts builds a record with a left half, usable for direct
// comparison but revealing more to anyone who obtains it.
func NewWithUnsafeParts(value bool, context []byte, f *field.Field) (*Boolean, error) {
	return build(value, context, f, true)
}

// Decrypt recovers the original boolean value.
func (b *Boolean) Decrypt(context []byte, f *field.Field) (bool, error) {
	if b.Version != currentVersion {
		return false, enquoerr.Wrapf(enquoerr.ErrUnknownVersion, "boolean record has unknown version %d", b.Version)
	}

	aeadKey, _, err := deriveKeys(f)
	if err != nil {
		return false, err
	}

	plaintext, err := b.AEAD.Decrypt(aeadKey, context)
	if err != nil {
		return false, err
	}

	var value bool
	if err := cbor.Unmarshal(plaintext, &value); err != nil {
		return false, enquoerr.Wrap(enquoerr.ErrDecoding, err.Error())
	}
	return value, nil
}

// MakeUnqueryable clears the ORE half in place, leaving only the AEAD
// payload recoverable via Decrypt.
func (b *Boolean) MakeUnqueryable() {
	b.ORE.ClearLeft()
	b.ORE = nil
}

func checkKeyID(a, b *Boolean) error {
	if len(a.KeyID) == 0 || len(b.KeyID) == 0 || string(a.KeyID) != string(b.KeyID) {
		return enquoerr.Wrap(enquoerr.ErrKey, "boolean records were encrypted under different fields")
	}
	return nil
}

// Compare orders two Boolean records (false < true). At least one record
// must carry a left half.
func Compare(a, b *Boolean) (int, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return 0, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version boolean record")
	}
	if err := checkKeyID(a, b); err != nil {
		return 0, err
	}
	if a.ORE == nil || b.ORE == nil {
		return 0, enquoerr.Wrap(enquoerr.ErrOperation, "boolean record has been made unqueryable")
	}
	return crypto.Compare(a.ORE, b.ORE)
}

// Equal reports whether two Boolean records encrypt the same value.
func Equal(a, b *Boolean) (bool, error) {
	order, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return order == 0, nil
}
