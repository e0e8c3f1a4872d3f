// Package enquoerr defines the error taxonomy shared by every package in the
// Enquo cryptographic core. Fallible operations in the core return one of
// these sentinels, wrapped with context via Wrap, so callers can use the
// standard library's errors.Is / errors.As instead of inspecting strings.
// The datatype records' UnmarshalCBOR methods are the exception: they return
// the CBOR decoder's error unwrapped.
package enquoerr

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Every error the core returns, other than a CBOR decode
// error from a datatype's UnmarshalCBOR, wraps exactly one of these.
var (
	// ErrEncoding indicates a plaintext could not be encoded (e.g. integer out
	// of range for the ORE domain, or CBOR encoding failure).
	ErrEncoding = errors.New("encoding error")

	// ErrDecoding indicates a serialized record could not be parsed, or its
	// inner CBOR content was malformed.
	ErrDecoding = errors.New("decoding error")

	// ErrEncryption indicates a cryptographic primitive refused to produce a
	// ciphertext.
	ErrEncryption = errors.New("encryption error")

	// ErrDecryption indicates an AEAD tag mismatch, or the wrong key/context
	// was supplied for decryption.
	ErrDecryption = errors.New("decryption error")

	// ErrKey indicates a KeyProvider failure, or an attempt to compare
	// records or values whose key_ids differ.
	ErrKey = errors.New("key error")

	// ErrRange indicates a plaintext fell outside the declared N,W domain.
	ErrRange = errors.New("range error")

	// ErrOperation indicates semantic misuse, such as comparing two
	// right-only ciphertexts or a record that has been made unqueryable.
	ErrOperation = errors.New("operation error")

	// ErrCollation indicates the collator could not produce a sort key.
	ErrCollation = errors.New("collation error")

	// ErrOverflow indicates integer offset arithmetic overflowed.
	ErrOverflow = errors.New("overflow error")

	// ErrUnknownVersion indicates a record's version tag is not recognized.
	ErrUnknownVersion = errors.New("unknown version error")
)

// Wrap attaches message context to one of the taxonomy sentinels while
// keeping it discoverable via errors.Is(err, sentinel).
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}

// Wrapf is Wrap with fmt.Sprintf-style formatting of the message.
func Wrapf(sentinel error, format string, args ...any) error {
	return Wrap(sentinel, fmt.Sprintf(format, args...))
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
