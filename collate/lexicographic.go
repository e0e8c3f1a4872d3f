package collate

import (
	"golang.org/x/text/unicode/norm"
)

// Lexicographic is the default Collator: it returns the NFC-normalised
// UTF-8 bytes of the input, ignoring locale entirely. Byte-lexicographic
// order over Unicode code points is not linguistically correct for most
// locales, but it is stable and requires no CLDR data.
type Lexicographic struct{}

// SortKey implements Collator. locale is accepted but ignored.
func (Lexicographic) SortKey(text, _ string) ([]byte, error) {
	return norm.NFC.Bytes([]byte(text)), nil
}
