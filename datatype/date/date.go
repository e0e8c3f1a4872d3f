// Package date implements the Date queryable-encryption datatype: a
// (year, month, day) triple protected by AEAD, plus three order-revealing
// ciphertexts compared lexicographically. The core performs no calendar
// validation; callers are trusted to supply a sane (y, m, d).
package date

import (
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/allisson/enquo/crypto"
	"github.com/allisson/enquo/enquoerr"
	"github.com/allisson/enquo/field"
)

const currentVersion = 1

var (
	aeadKeyID = []byte("Date.AES256v1_key")

	yearShape  = crypto.OREShape{N: 2, W: 256}
	monthShape = crypto.OREShape{N: 1, W: 32}
	dayShape   = crypto.OREShape{N: 1, W: 32}
)

// plain mirrors the record's AEAD payload, kept as a separate type so CBOR
// encodes {y,m,d} rather than three bare fields at the record's top level.
type plain struct {
	Y int16 `cbor:"y"`
	M uint8 `cbor:"m"`
	D uint8 `cbor:"d"`
}

// Date is a queryable-encrypted calendar date.
type Date struct {
	Version uint8                  `cbor:"v"`
	AEAD    *crypto.AES256v1Record `cbor:"a"`
	Year    *crypto.OREv1          `cbor:"y,omitempty"`
	Month   *crypto.OREv1          `cbor:"m,omitempty"`
	Day     *crypto.OREv1          `cbor:"d,omitempty"`
	KeyID   []byte                 `cbor:"k"`
}

// dateWire mirrors Date for decoding; a distinct type avoids recursing
// back into UnmarshalCBOR.
type dateWire Date

// UnmarshalCBOR decodes a Date record and restores each ORE ciphertext's
// fixed shape, which the `cbor:"-"` tag on crypto.OREv1.N/W excludes from
// the wire format.
func (d *Date) UnmarshalCBOR(data []byte) error {
	var wire dateWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	*d = Date(wire)
	d.Year.SetShape(yearShape)
	d.Month.SetShape(monthShape)
	d.Day.SetShape(dayShape)
	return nil
}

func subkeyID(context []byte, suffix string) []byte {
	id := make([]byte, 0, len(context)+len(suffix))
	id = append(id, context...)
	id = append(id, suffix...)
	return id
}

func encodeYear(y int16) (uint64, error) {
	biased := int32(y) + 0x8000
	if biased < 0 || biased > math.MaxUint16 {
		return 0, enquoerr.Wrapf(enquoerr.ErrOverflow, "date year offset translation overflowed for %d", y)
	}
	return uint64(biased), nil
}

func build(y int16, m, d uint8, context []byte, f *field.Field, withLeft bool) (*Date, error) {
	aeadKey, err := f.SubkeyBytes(32, aeadKeyID)
	if err != nil {
		return nil, err
	}

	plaintext, err := cbor.Marshal(plain{Y: y, M: m, D: d})
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
	}

	aead, err := crypto.AES256v1Encrypt(aeadKey, plaintext, context)
	if err != nil {
		return nil, err
	}

	yearEncoded, err := encodeYear(y)
	if err != nil {
		return nil, err
	}

	yearKey, err := f.SubkeyBytes(32, subkeyID(context, ".year"))
	if err != nil {
		return nil, err
	}
	monthKey, err := f.SubkeyBytes(32, subkeyID(context, ".month"))
	if err != nil {
		return nil, err
	}
	dayKey, err := f.SubkeyBytes(32, subkeyID(context, ".day"))
	if err != nil {
		return nil, err
	}

	encryptFn := func(shape crypto.OREShape, key []byte, pt uint64) (*crypto.OREv1, error) {
		if withLeft {
			return shape.FullEncrypt(key, pt)
		}
		return shape.RightEncrypt(key, pt)
	}

	year, err := encryptFn(yearShape, yearKey, yearEncoded)
	if err != nil {
		return nil, err
	}
	month, err := encryptFn(monthShape, monthKey, uint64(m))
	if err != nil {
		return nil, err
	}
	day, err := encryptFn(dayShape, dayKey, uint64(d))
	if err != nil {
		return nil, err
	}

	keyID, err := f.KeyID()
	if err != nil {
		return nil, err
	}

	return &Date{
		Version: currentVersion,
		AEAD:    aead,
		Year:    year,
		Month:   month,
		Day:     day,
		KeyID:   keyID[:],
	}, nil
}

// New builds a safe-default record with no left halves.
func New(y int16, m, d uint8, context []byte, f *field.Field) (*Date, error) {
	return build(y, m, d, context, f, false)
}

// NewWithUnsafeParts builds a record with left halves, usable on its own as
// a comparison operand.
func NewWithUnsafeParts(y int16, m, d uint8, context []byte, f *field.Field) (*Date, error) {
	return build(y, m, d, context, f, true)
}

// Decrypt recovers the original (year, month, day) triple.
func (d *Date) Decrypt(context []byte, f *field.Field) (y int16, m uint8, day uint8, err error) {
	if d.Version != currentVersion {
		return 0, 0, 0, enquoerr.Wrapf(enquoerr.ErrUnknownVersion, "date record has unknown version %d", d.Version)
	}

	aeadKey, err := f.SubkeyBytes(32, aeadKeyID)
	if err != nil {
		return 0, 0, 0, err
	}

	plaintext, err := d.AEAD.Decrypt(aeadKey, context)
	if err != nil {
		return 0, 0, 0, err
	}

	var p plain
	if unmarshalErr := cbor.Unmarshal(plaintext, &p); unmarshalErr != nil {
		return 0, 0, 0, enquoerr.Wrap(enquoerr.ErrDecoding, unmarshalErr.Error())
	}
	return p.Y, p.M, p.D, nil
}

// MakeUnqueryable clears all three ORE halves in place.
func (d *Date) MakeUnqueryable() {
	d.Year = nil
	d.Month = nil
	d.Day = nil
}

func checkKeyID(a, b *Date) error {
	if len(a.KeyID) == 0 || len(b.KeyID) == 0 || string(a.KeyID) != string(b.KeyID) {
		return enquoerr.Wrap(enquoerr.ErrKey, "date records were encrypted under different fields")
	}
	return nil
}

// Compare orders two Date records lexicographically over (year, month, day).
// Both records must carry all three ORE halves or left halves as needed.
func Compare(a, b *Date) (int, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return 0, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version date record")
	}
	if err := checkKeyID(a, b); err != nil {
		return 0, err
	}
	if a.Year == nil || b.Year == nil || a.Month == nil || b.Month == nil || a.Day == nil || b.Day == nil {
		return 0, enquoerr.Wrap(enquoerr.ErrOperation, "date record has been made unqueryable")
	}

	for _, pair := range []struct{ x, y *crypto.OREv1 }{
		{a.Year, b.Year},
		{a.Month, b.Month},
		{a.Day, b.Day},
	} {
		order, err := crypto.Compare(pair.x, pair.y)
		if err != nil {
			return 0, err
		}
		if order != 0 {
			return order, nil
		}
	}
	return 0, nil
}

// Equal reports whether two Date records encrypt the same calendar date.
func Equal(a, b *Date) (bool, error) {
	order, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return order == 0, nil
}
