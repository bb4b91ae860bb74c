// ABOUTME: Term matcher shared by the intent and entity rule tables
// ABOUTME: Terms are folded once; "word" is a whole word, "stem*" a word prefix

package pattern

import (
	"regexp"
	"strings"

	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

const (
	// leftBound and rightBound are Unicode-aware word edges; RE2's \b only knows ASCII.
	leftBound  = `(?:^|[^\p{L}\p{N}])`
	rightBound = `(?:$|[^\p{L}\p{N}])`
)

// Matcher tests folded text against an ordered list of terms.
// A Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	terms []term
}

type term struct {
	text string
	re   *regexp.Regexp
}

// Compile builds a Matcher from terms.
//
// Term syntax:
//   - "merhaba" matches the whole word only ("merhabalar" does not match).
//   - "teşekkür*" matches any word starting with the stem ("teşekkürler").
//   - "how to" matches the words separated by any whitespace run.
//
// Terms are passed through textnorm.Fold, so they are written in natural
// spelling and match regardless of case or Turkish diacritics. Compile panics on
// an empty term: tables are package constants and a bad entry is a programming error.
func Compile(terms ...string) *Matcher {
	m := &Matcher{terms: make([]term, 0, len(terms))}
	for _, t := range terms {
		m.terms = append(m.terms, term{
			text: t,
			re:   regexp.MustCompile(termPattern(t)),
		})
	}
	return m
}

// Match reports whether any term occurs in folded.
// The caller folds once and reuses the folded text across all matchers.
func (m *Matcher) Match(folded string) bool {
	_, ok := m.First(folded)
	return ok
}

// First returns the first term (in declaration order) that occurs in folded.
func (m *Matcher) First(folded string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, t := range m.terms {
		if t.re.MatchString(folded) {
			return t.text, true
		}
	}
	return "", false
}

// Terms returns the declared terms in order.
func (m *Matcher) Terms() []string {
	out := make([]string, len(m.terms))
	for i, t := range m.terms {
		out[i] = t.text
	}
	return out
}

func termPattern(raw string) string {
	t := strings.TrimSpace(raw)
	prefix := strings.HasSuffix(t, "*")
	t = strings.TrimSuffix(t, "*")
	t = textnorm.Fold(textnorm.Squash(t))
	if t == "" {
		panic("pattern: empty term " + `"` + raw + `"`)
	}

	words := strings.Split(t, " ")
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	body := strings.Join(words, `\s+`)

	if prefix {
		return leftBound + body
	}
	return leftBound + body + rightBound
}
