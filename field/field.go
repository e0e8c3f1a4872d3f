// Package field implements the per-collection/per-name leaf of the Enquo key
// hierarchy: a Field derives every subkey a datatype assembly needs from a
// single field-local provider, itself derived from a Root.
package field

import (
	"github.com/allisson/enquo/enquoerr"
	"github.com/allisson/enquo/keyprovider"
)

// keyIDIdentifier is the fixed subkey id used to derive a field's opaque,
// unforgeable key_id tag.
var keyIDIdentifier = []byte("Field.key_id")

// Field derives deterministic subkey material scoped to one (collection,
// name) pair. Field holds its provider exclusively; Root owns the shared
// root provider that built it.
type Field struct {
	provider keyprovider.KeyProvider
}

// New wraps an already-derived, field-local KeyProvider. Root.Field is the
// usual way to obtain one; this constructor exists so tests and Kith-style
// multi-key-version lookups can build a Field directly from a provider.
func New(provider keyprovider.KeyProvider) *Field {
	return &Field{provider: provider}
}

// Subkey writes len(out) pseudo-random bytes deterministic in (field, id)
// into out.
func (f *Field) Subkey(out, id []byte) error {
	if err := f.provider.Derive(out, id); err != nil {
		return err
	}
	return nil
}

// SubkeyBytes is a convenience wrapper over Subkey that allocates the output
// buffer.
func (f *Field) SubkeyBytes(n int, id []byte) ([]byte, error) {
	out := make([]byte, n)
	if err := f.Subkey(out, id); err != nil {
		return nil, err
	}
	return out, nil
}

// KeyID returns the field's 8-byte opaque equality tag, used to assert that
// two ciphertexts being compared were produced by the same field.
func (f *Field) KeyID() ([8]byte, error) {
	var id [8]byte
	if err := f.provider.Derive(id[:], keyIDIdentifier); err != nil {
		return [8]byte{}, enquoerr.Wrap(enquoerr.ErrKey, err.Error())
	}
	return id, nil
}
