package importer

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewStringCompare returns a locale-aware three-way string comparison.
// A collator keeps internal buffers, so callers create one per sort.
func NewStringCompare() func(a, b string) int {
	c := collate.New(language.English)
	return c.CompareString
}
