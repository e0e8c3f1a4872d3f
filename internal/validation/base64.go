// Package validation provides custom validation rules used by enquoctl's
// command-line argument parsing.
package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	"github.com/allisson/enquo/enquoerr"
)

// Base64 validates that a string is valid base64-encoded data, the wire
// transport enquoctl uses for serialized records.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return enquoerr.Wrap(enquoerr.ErrEncoding, "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return enquoerr.Wrap(enquoerr.ErrEncoding, "must be valid base64-encoded record data")
	}
	return nil
})
