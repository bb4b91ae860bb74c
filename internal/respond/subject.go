// ABOUTME: Subject extraction: strips question scaffolding to echo what the user asked about
// ABOUTME: Output is whitespace-squashed and grapheme-safely capped

package respond

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/elliotchance/pie/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// fillerWords are folded words that carry the question, not its subject.
var fillerWords = []string{
	"nedir", "ne", "demek", "neden", "nasil", "yapilir", "kurulur", "kullanilir",
	"olusturulur", "yazilir", "acikla", "anlat", "bana", "bir", "biraz", "mi", "mu",
	"misin", "misiniz", "isler", "ise", "yarar", "hakkinda", "bilgi", "ver", "verir",
	"tanimi", "adim", "nelerdir", "lutfen", "what", "is", "are", "how", "to", "do", "i",
	"can", "explain", "the", "a", "an", "about", "tell", "me", "karsilastir", "vs",
	"versus", "ile", "arasindaki", "fark", "farki", "ve", "compare", "kullanmak",
	"kurmak", "kurulum", "kurulumu", "yuklenir", "yuklemek", "install", "use", "using",
	"step", "by", "adimlari", "rehberi", "ogren", "ogrenmek", "istiyorum",
}

// fillerStems are folded prefixes that mark suffixed forms of filler words.
var fillerStems = []string{"nasil", "acikla", "anlat", "karsilastir"}

// fallbackSubject is used when nothing is left after stripping.
const fallbackSubject = "Bu konu"

// subjectOf returns the topic words of text, capped to max grapheme clusters.
func subjectOf(text string, max int) string {
	var kept []string
	for _, w := range strings.Fields(text) {
		w = strings.TrimFunc(w, func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) })
		if w == "" {
			continue
		}
		f := textnorm.Fold(w)
		if pie.Contains(fillerWords, f) || pie.Any(fillerStems, func(s string) bool { return strings.HasPrefix(f, s) }) {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return fallbackSubject
	}
	return capitalize(textnorm.Truncate(strings.Join(kept, " "), max))
}

// capitalize upper-cases the first rune with Turkish rules (i -> İ).
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsLower(r) {
		return s
	}
	return cases.Upper(language.Turkish).String(string(r)) + s[size:]
}
