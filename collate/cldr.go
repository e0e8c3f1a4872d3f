package collate

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/allisson/enquo/enquoerr"
)

// CLDR produces locale-aware sort keys using golang.org/x/text/collate's
// CLDR collation tables. Unlike Lexicographic, its ordering is
// linguistically correct for the requested locale, at the cost of
// depending on CLDR data and being slower to compute.
type CLDR struct{}

// SortKey implements Collator. An empty locale selects the root CLDR
// collation order (language.Und). An unparsable locale tag is a
// CollationError.
func (CLDR) SortKey(text, locale string) ([]byte, error) {
	tag := language.Und
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, enquoerr.Wrapf(enquoerr.ErrCollation, "invalid locale %q: %v", locale, err)
		}
		tag = parsed
	}

	col := collate.New(tag)
	var buf collate.Buffer
	return col.KeyFromString(&buf, text), nil
}
