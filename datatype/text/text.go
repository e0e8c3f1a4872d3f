// Package text implements the Text queryable-encryption datatype: a UTF-8
// string protected by AEAD, with an equality-revealing hash for equality
// queries, an optional prefix ordering code for range queries, an optional
// coarse hash code for bucketing, and a length comparison ciphertext.
package text

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/allisson/enquo/collate"
	"github.com/allisson/enquo/crypto"
	"github.com/allisson/enquo/datatype/ore"
	"github.com/allisson/enquo/datatype/kith"
	"github.com/allisson/enquo/enquoerr"
	"github.com/allisson/enquo/field"
	"github.com/allisson/enquo/keyprovider"
)

const currentVersion = 1

var (
	aeadKeyID                  = []byte("Text.AES256v1_key")
	equalityHashKeyID          = []byte("TextV1.equality_hash_key")
	equalityHashCiphertextID   = []byte("TextV1.equality_hash_key_ciphertext")
	hashCodeKeyID              = []byte("TextV1.hash_code_key")
	orderCodeKeyID             = []byte("TextV1.order_code_key")
	lengthKeyID                = []byte("TextV1.length_key")

	equalityShape = crypto.EREShape{N: 16, W: 16}
	orderShape    = crypto.OREShape{N: 1, W: 256}
	lengthShape   = crypto.OREShape{N: 8, W: 16}

	defaultCollator collate.Collator = collate.Lexicographic{}
)

// Text is a queryable-encrypted UTF-8 string.
type Text struct {
	Version    uint8                  `cbor:"v"`
	AEAD       *crypto.AES256v1Record `cbor:"a"`
	Equality   *crypto.EREv1          `cbor:"e,omitempty"`
	HashCode   *uint16                `cbor:"h,omitempty"`
	OrderCode  []*crypto.OREv1        `cbor:"o,omitempty"`
	LengthCode *crypto.OREv1          `cbor:"l,omitempty"`
	KeyID      []byte                 `cbor:"k"`
}

// textWire mirrors Text for decoding; a distinct type avoids recursing
// back into UnmarshalCBOR.
type textWire Text

// UnmarshalCBOR decodes a Text record and restores the fixed shape of its
// equality, order and length ciphertexts, which the `cbor:"-"` tag on
// crypto.OREv1.N/W and crypto.EREv1.N/W excludes from the wire format.
func (t *Text) UnmarshalCBOR(data []byte) error {
	var wire textWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Text(wire)
	t.Equality.SetShape(equalityShape)
	t.LengthCode.SetShape(lengthShape)
	for _, code := range t.OrderCode {
		code.SetShape(orderShape)
	}
	return nil
}

func positionSubkeyID(position int) []byte {
	id := make([]byte, len(orderCodeKeyID)+2)
	copy(id, orderCodeKeyID)
	binary.BigEndian.PutUint16(id[len(orderCodeKeyID):], uint16(position))
	return id
}

// keyedHash uses a Static provider's KBKDF as a keyed hash function: the
// subkey becomes the KBKDF key, and message becomes the derivation id. This
// reuses the same primitive Field.Subkey is built on rather than pulling in
// a second hash construction.
func keyedHash(subkey, message []byte, outLen int) ([]byte, error) {
	provider, err := keyprovider.NewStatic(subkey)
	if err != nil {
		return nil, err
	}
	defer provider.Zero()

	out := make([]byte, outLen)
	if err := provider.Derive(out, message); err != nil {
		return nil, err
	}
	return out, nil
}

func build(text string, context []byte, f *field.Field, ordering *uint8, withLeft bool) (*Text, error) {
	aeadKey, err := f.SubkeyBytes(32, aeadKeyID)
	if err != nil {
		return nil, err
	}

	plaintext, err := cbor.Marshal(text)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
	}

	aead, err := crypto.AES256v1Encrypt(aeadKey, plaintext, context)
	if err != nil {
		return nil, err
	}

	normalized := norm.NFC.String(text)
	normalizedBytes := []byte(normalized)

	eqHashKey, err := f.SubkeyBytes(32, equalityHashKeyID)
	if err != nil {
		return nil, err
	}
	eqHash, err := keyedHash(eqHashKey, normalizedBytes, 8)
	if err != nil {
		return nil, err
	}
	eqHashValue := binary.BigEndian.Uint64(eqHash)

	eqCipherKey, err := f.SubkeyBytes(32, equalityHashCiphertextID)
	if err != nil {
		return nil, err
	}

	var equality *crypto.EREv1
	if withLeft {
		equality, err = equalityShape.FullEncrypt(eqCipherKey, eqHashValue)
	} else {
		equality, err = equalityShape.RightEncrypt(eqCipherKey, eqHashValue)
	}
	if err != nil {
		return nil, err
	}

	var hashCode *uint16
	if withLeft {
		hcKey, err := f.SubkeyBytes(32, hashCodeKeyID)
		if err != nil {
			return nil, err
		}
		hc, err := keyedHash(hcKey, normalizedBytes, 2)
		if err != nil {
			return nil, err
		}
		v := binary.BigEndian.Uint16(hc)
		hashCode = &v
	}

	var orderCode []*crypto.OREv1
	if withLeft && ordering != nil {
		sortKey, err := defaultCollator.SortKey(normalized, "")
		if err != nil {
			return nil, enquoerr.Wrap(enquoerr.ErrCollation, err.Error())
		}

		length := int(*ordering)
		orderCode = make([]*crypto.OREv1, length)
		for i := 0; i < length; i++ {
			var b byte
			if i < len(sortKey) {
				b = sortKey[i]
			}
			posKey, err := f.SubkeyBytes(32, positionSubkeyID(i))
			if err != nil {
				return nil, err
			}
			ore, err := orderShape.FullEncrypt(posKey, uint64(b))
			if err != nil {
				return nil, err
			}
			orderCode[i] = ore
		}
	}

	lengthKey, err := f.SubkeyBytes(32, lengthKeyID)
	if err != nil {
		return nil, err
	}
	runeCount := uint64(utf8.RuneCountInString(text))

	var lengthCode *crypto.OREv1
	if withLeft {
		lengthCode, err = lengthShape.FullEncrypt(lengthKey, runeCount)
	} else {
		lengthCode, err = lengthShape.RightEncrypt(lengthKey, runeCount)
	}
	if err != nil {
		return nil, err
	}

	keyID, err := f.KeyID()
	if err != nil {
		return nil, err
	}

	return &Text{
		Version:    currentVersion,
		AEAD:       aead,
		Equality:   equality,
		HashCode:   hashCode,
		OrderCode:  orderCode,
		LengthCode: lengthCode,
		KeyID:      keyID[:],
	}, nil
}

// New builds a safe-default record: equality ciphertext and length are
// right-only, hash code and ordering code are absent.
func New(text string, context []byte, f *field.Field) (*Text, error) {
	return build(text, context, f, nil, false)
}

// NewWithUnsafeParts builds a record with left halves throughout, plus a
// hash code, plus an ordering code of the given prefix length when ordering
// is non-nil.
func NewWithUnsafeParts(text string, context []byte, f *field.Field, ordering *uint8) (*Text, error) {
	return build(text, context, f, ordering, true)
}

// Decrypt recovers the original string, byte-for-byte, including any
// non-NFC sequences the caller originally supplied.
func (t *Text) Decrypt(context []byte, f *field.Field) (string, error) {
	if t.Version != currentVersion {
		return "", enquoerr.Wrapf(enquoerr.ErrUnknownVersion, "text record has unknown version %d", t.Version)
	}

	aeadKey, err := f.SubkeyBytes(32, aeadKeyID)
	if err != nil {
		return "", err
	}

	plaintext, err := t.AEAD.Decrypt(aeadKey, context)
	if err != nil {
		return "", err
	}

	var value string
	if err := cbor.Unmarshal(plaintext, &value); err != nil {
		return "", enquoerr.Wrap(enquoerr.ErrDecoding, err.Error())
	}
	return value, nil
}

// MakeUnqueryable clears the equality ciphertext, hash code, ordering code
// and length, keeping only the AEAD payload.
func (t *Text) MakeUnqueryable() {
	t.Equality = nil
	t.HashCode = nil
	t.OrderCode = nil
	t.LengthCode = nil
}

// Length returns the record's length comparison value, wrapped as a
// standalone ORE datatype, or false if the record has been made
// unqueryable.
func (t *Text) Length() (*ore.ORE, bool) {
	if t.LengthCode == nil {
		return nil, false
	}
	return ore.New(t.LengthCode, t.KeyID), true
}

// QueryLength produces a Kith containing a single ORE ciphertext of length,
// encrypted under f's length subkey, for comparison against a Text record's
// Length() without holding an encrypted Text in hand.
func QueryLength(length int, f *field.Field) (*kith.Kith[*ore.ORE], error) {
	lengthKey, err := f.SubkeyBytes(32, lengthKeyID)
	if err != nil {
		return nil, err
	}

	cipher, err := lengthShape.FullEncrypt(lengthKey, uint64(length))
	if err != nil {
		return nil, err
	}

	keyID, err := f.KeyID()
	if err != nil {
		return nil, err
	}

	return kith.NewFromMembers(ore.New(cipher, keyID[:])), nil
}

func checkKeyID(a, b *Text) error {
	if len(a.KeyID) == 0 || len(b.KeyID) == 0 || string(a.KeyID) != string(b.KeyID) {
		return enquoerr.Wrap(enquoerr.ErrKey, "text records were encrypted under different fields")
	}
	return nil
}

// Equal reports whether two Text records' equality ciphertexts encrypt the
// same NFC-normalised string. Both records must carry an equality
// ciphertext and share a key_id.
func Equal(a, b *Text) (bool, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return false, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version text record")
	}
	if err := checkKeyID(a, b); err != nil {
		return false, err
	}
	if a.Equality == nil || b.Equality == nil {
		return false, enquoerr.Wrap(enquoerr.ErrOperation, "text record lacks an equality ciphertext")
	}
	return crypto.Equal(a.Equality, b.Equality)
}

// Compare orders two Text records by their ordering codes. Both records
// must carry one and share a key_id; if only equality data is available,
// Compare fails rather than silently degrading to an undefined order.
func Compare(a, b *Text) (int, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return 0, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version text record")
	}
	if err := checkKeyID(a, b); err != nil {
		return 0, err
	}
	if a.OrderCode == nil || b.OrderCode == nil {
		return 0, enquoerr.Wrap(enquoerr.ErrOperation, "text record lacks an ordering code")
	}

	n := len(a.OrderCode)
	if len(b.OrderCode) < n {
		n = len(b.OrderCode)
	}
	for i := 0; i < n; i++ {
		order, err := crypto.Compare(a.OrderCode[i], b.OrderCode[i])
		if err != nil {
			return 0, err
		}
		if order != 0 {
			return order, nil
		}
	}
	return 0, nil
}
