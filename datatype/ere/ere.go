// Package ere implements the standalone ERE datatype: an equality-revealing
// ciphertext plus the key_id and version tag needed to use it as a
// query-only comparison operand.
package ere

import (
	"bytes"

	"github.com/allisson/enquo/crypto"
	"github.com/allisson/enquo/enquoerr"
)

const currentVersion = 1

// ERE is a query-only equality-revealing value.
type ERE struct {
	Version uint8
	Cipher  *crypto.EREv1
	ID      []byte
}

// New wraps a crypto.EREv1 ciphertext with the key_id it was produced
// under.
func New(cipher *crypto.EREv1, keyID []byte) *ERE {
	return &ERE{Version: currentVersion, Cipher: cipher, ID: keyID}
}

// KeyID implements kith.Datatype.
func (e *ERE) KeyID() []byte { return e.ID }

// CiphertextVersion implements kith.Datatype.
func (e *ERE) CiphertextVersion() uint8 { return e.Version }

// Equal reports whether two ERE values encrypt the same plaintext. Both
// must share a key_id and version, and at least one must carry a left
// half.
func Equal(a, b *ERE) (bool, error) {
	if a.Version != currentVersion || b.Version != currentVersion {
		return false, enquoerr.Wrap(enquoerr.ErrUnknownVersion, "cannot compare an unknown-version ere value")
	}
	if !bytes.Equal(a.ID, b.ID) {
		return false, enquoerr.Wrap(enquoerr.ErrKey, "ere values were produced under different fields")
	}
	return crypto.Equal(a.Cipher, b.Cipher)
}
