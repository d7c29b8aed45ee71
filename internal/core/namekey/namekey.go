// Package namekey normalizes topic names and aliases into canonical lookup keys.
// Pipeline order
// 1 Unicode NFKC normalization
// 2 Case folding
// 3 Remove format chars ZWJ ZWNJ FEFF etc
// 4 Width fold fullwidth to ASCII
// 5 Trim surrounding whitespace
// Names that fold to the same key collide; the topic set keeps keys pairwise disjoint
package namekey

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Fold returns the canonical lookup key for s
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return strings.TrimSpace(ns)
}

// Equal reports whether a and b fold to the same key
func Equal(a, b string) bool { return Fold(a) == Fold(b) }

// HasPrefix reports whether s folds to a key starting with the folded prefix
func HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(Fold(s), Fold(prefix))
}
