// ABOUTME: Turkish-aware text folding and grapheme-safe truncation for pattern matching
// ABOUTME: Fold collapses case and diacritics so "İ", "ı", "ş" match their ASCII forms

package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended by Truncate when text is cut.
const Ellipsis = "…"

// Fold returns the matching key for s: Unicode case folded, combining marks removed
// and the Turkish dotless i mapped to "i". Invalid UTF-8 is replaced, never rejected.
//
// Both user text and rule terms go through Fold, so "Teşekkürler", "TESEKKURLER"
// and "teşekkürler" all compare equal.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	if isASCII(s) {
		return strings.ToLower(s)
	}

	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	// Casers and transform chains keep internal state; build them per call.
	s = cases.Fold().String(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.Map(func(r rune) rune {
		if r == 'ı' {
			return 'i'
		}
		return r
	}, out)
}

// Squash collapses every whitespace run to a single space and trims the ends.
func Squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsBlank reports whether s holds nothing but whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Truncate caps s to max grapheme clusters. When s is longer, the result keeps
// max-1 clusters followed by Ellipsis. Clusters are never split, so emoji
// sequences and combining marks survive intact.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= max {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < max-1 && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString(Ellipsis)
	return b.String()
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
