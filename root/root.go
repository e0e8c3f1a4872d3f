// Package root implements the top of the Enquo key hierarchy: a Root wraps
// a KeyProvider and derives field-local providers for each (collection,
// name) pair an application encrypts.
package root

import (
	"github.com/allisson/enquo/field"
	"github.com/allisson/enquo/keyprovider"
)

// fieldSeparator prevents ambiguity between e.g. ("ab","c") and ("a","bc")
// when concatenating collection and name into a single derivation id.
const fieldSeparator = 0x00

// Root wraps a shared KeyProvider and builds Fields from it. Root owns
// nothing but the shared provider; multiple Roots may wrap the same
// provider.
type Root struct {
	provider keyprovider.KeyProvider
}

// New wraps provider in a Root.
func New(provider keyprovider.KeyProvider) *Root {
	return &Root{provider: provider}
}

// Derive exposes the root provider's Derive directly, for callers that need
// root-level key material without going through a Field (e.g. Kith
// construction across key versions).
func (r *Root) Derive(out, id []byte) error {
	return r.provider.Derive(out, id)
}

// Field derives a field-local provider scoped to (collection, name) and
// wraps it.
func (r *Root) Field(collection, name []byte) (*field.Field, error) {
	id := make([]byte, 0, len(collection)+1+len(name))
	id = append(id, collection...)
	id = append(id, fieldSeparator)
	id = append(id, name...)

	key := make([]byte, 32)
	if err := r.provider.Derive(key, id); err != nil {
		return nil, err
	}
	defer keyprovider.Zero(key)

	provider, err := keyprovider.NewStatic(key)
	if err != nil {
		return nil, err
	}
	return field.New(provider), nil
}
