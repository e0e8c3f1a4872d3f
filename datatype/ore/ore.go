// Package ore implements the standalone ORE datatype: an order-revealing
// ciphertext plus the key_id and version tag needed to use it as a
// query-only comparison operand, without an accompanying encrypted record.
package ore

import (
	"bytes"

	"github.com/allisson/enquo/crypto"
	"github.com/allisson/enquo/enquoerr"
)

const currentVersion = 1

// ORE is a query-only order-revealing value: build one to compare against a
// stored record's ORE half without holding a full plaintext-equivalent
// record.
type ORE struct {
	Version uint8
	Cipher  *crypto.OREv1
	ID      []byte
}

// New wraps a crypto.OREv1 ciphertext with the key_id it was produced
// under.
func New(cipher *crypto.OREv1, keyID []byte) *ORE {
	return &ORE{Version: currentVersion, Cipher: cipher, ID: keyID}
}

// KeyID implements kith.Datatype.
func (o *ORE) KeyID() []byte { return o.ID }

// CiphertextVersion implements kith.Datatype.
func (o *ORE) CiphertextVersion() uint8 { return o.Version }

// Compare orders two ORE values. Both must share a key_id and version, and
// at least one must carry a left half.
func Compare(a, b *ORE) (int, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return 0, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version ore value")
	}
	if !bytes.Equal(a.ID, b.ID) {
		return 0, enquoerr.Wrap(enquoerr.ErrKey, "ore values were produced under different fields")
	}
	return crypto.Compare(a.Cipher, b.Cipher)
}
