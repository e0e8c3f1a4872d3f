// Package keyprovider implements the bottom of the Enquo key hierarchy: a
// capability that deterministically derives subkeys from an opaque root
// secret, plus environment- and KMS-backed loaders for that root secret.
package keyprovider

import (
	"github.com/allisson/enquo/enquoerr"
	"github.com/allisson/enquo/internal/kdf"
)

// KeyProvider derives pseudo-random, deterministic subkey material from an
// id. Implementations must be safe for concurrent use by multiple
// goroutines; Root and Field rely on that to share a single provider.
type KeyProvider interface {
	// Derive writes len(out) pseudo-random bytes into out, deterministic in
	// (provider state, id). Distinct ids must produce independent key
	// material.
	Derive(out, id []byte) error
}

// Static is a KeyProvider backed by a single 32-byte local key, using an
// SP 800-108 counter-mode KBKDF with AES-256 CMAC as the underlying PRF.
type Static struct {
	key []byte
}

// NewStatic constructs a Static provider from a 32-byte master key. The
// caller retains ownership of key; Static copies it internally.
func NewStatic(key []byte) (*Static, error) {
	if len(key) != 32 {
		return nil, enquoerr.Wrapf(enquoerr.ErrKey, "static key provider requires a 32-byte key, got %d", len(key))
	}

	owned := make([]byte, 32)
	copy(owned, key)
	return &Static{key: owned}, nil
}

// Derive implements KeyProvider.
func (s *Static) Derive(out, id []byte) error {
	if err := kdf.DeriveCounterMode(s.key, id, out); err != nil {
		return enquoerr.Wrap(enquoerr.ErrKey, err.Error())
	}
	return nil
}

// Zero overwrites the provider's key material with zeros. Once called, the
// provider must not be used again.
func (s *Static) Zero() {
	Zero(s.key)
}

// Zero securely overwrites a byte slice with zeros to clear sensitive data
// from memory once it is no longer needed.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
