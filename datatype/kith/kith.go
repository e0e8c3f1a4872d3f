// Package kith implements Kith, an ordered collection of comparable
// ciphertexts representing the same logical plaintext under potentially
// different keys or ciphertext versions. Storage engines use it to carry a
// value through a key-rotation window: readers present a Kith and find the
// member compatible with whatever key produced the stored record.
package kith

// Datatype is implemented by any query-only value that carries the
// bookkeeping Kith needs to match compatible ciphertexts: the field's
// opaque key_id and the ciphertext's own version tag.
type Datatype interface {
	KeyID() []byte
	CiphertextVersion() uint8
}

// Kith holds every member representing one logical value, one per key
// version it has been (or may need to be) encrypted under.
type Kith[T Datatype] struct {
	members []T
}

// New returns an empty Kith.
func New[T Datatype]() *Kith[T] {
	return &Kith[T]{}
}

// NewFromMembers returns a Kith seeded with the given members.
func NewFromMembers[T Datatype](members ...T) *Kith[T] {
	k := &Kith[T]{members: make([]T, len(members))}
	copy(k.members, members)
	return k
}

// AddMember appends a member to the collection.
func (k *Kith[T]) AddMember(m T) {
	k.members = append(k.members, m)
}

// Members returns every member in the collection.
func (k *Kith[T]) Members() []T {
	return k.members
}

// CompatibleMember returns the first member whose (key_id,
// ciphertext_version) matches other, if any.
func (k *Kith[T]) CompatibleMember(other Datatype) (T, bool) {
	for _, m := range k.members {
		if isCompatible(m, other) {
			return m, true
		}
	}
	var zero T
	return zero, false
}

func isCompatible(a, b Datatype) bool {
	if a.CiphertextVersion() != b.CiphertextVersion() {
		return false
	}
	idA, idB := a.KeyID(), b.KeyID()
	if len(idA) != len(idB) {
		return false
	}
	for i := range idA {
		if idA[i] != idB[i] {
			return false
		}
	}
	return true
}
