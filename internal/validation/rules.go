// Package validation provides custom validation rules used by enquoctl's
// command-line argument parsing.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/enquo/enquoerr"
)

// WrapValidationError wraps a jellydator/validation error as enquoerr.ErrEncoding,
// so CLI argument errors participate in the same taxonomy as core library errors.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return enquoerr.Wrap(enquoerr.ErrEncoding, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that a string doesn't contain leading/trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)
