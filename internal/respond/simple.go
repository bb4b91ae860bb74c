// ABOUTME: Keyword-only alternate responder: first matching keyword group picks a short pool reply
// ABOUTME: Same shape as the synthesizer at lower fidelity; no intent weights, no entities

package respond

import (
	"github.com/mauromedda/pi-offline-go/internal/pattern"
	"github.com/mauromedda/pi-offline-go/internal/replies"
	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

type keywordGroup struct {
	pool  string
	terms *pattern.Matcher
}

var keywordGroups = []keywordGroup{
	{"simple.greeting", pattern.Compile("merhaba*", "selam*", "hello", "hi there", "hey", "günaydın")},
	{"simple.thanks", pattern.Compile("teşekkür*", "sağol*", "sağ ol*", "thanks", "thank you")},
	{"simple.goodbye", pattern.Compile("görüşürüz", "hoşça kal*", "bye", "goodbye")},
	{"simple.code", pattern.Compile(
		"kod*", "code", "program*", "javascript*", "python*", "golang", "java", "rust", "sql",
		"typescript*", "react", "reactjs", "fonksiyon*",
	)},
	{"simple.crypto", pattern.Compile("kripto*", "crypto*", "bitcoin*", "btc", "ethereum*", "blockchain*")},
	{"simple.trading", pattern.Compile("trading", "trade", "trades", "trader*", "borsa*", "hisse", "hisseler*", "hissesi*", "forex", "rsi", "macd")},
	{"simple.help", pattern.Compile("yardım*", "help", "neler yapabilirsin", "ne yapabilirsin")},
}

// Simple is the keyword-only responder.
type Simple struct {
	lib    *replies.Library
	picker Picker
}

// NewSimple creates a keyword-only responder. Clock and MaxEcho are unused.
func NewSimple(cfg Config) *Simple {
	if cfg.Library == nil {
		cfg.Library = replies.Default()
	}
	if cfg.Picker == nil {
		cfg.Picker = RandomPicker()
	}
	return &Simple{lib: cfg.Library, picker: cfg.Picker}
}

// Respond returns a short reply for text. It never returns an empty string.
func (s *Simple) Respond(text string) string {
	return s.Compose(text).Text
}

// Compose returns the reply with the keyword group that produced it.
func (s *Simple) Compose(text string) Reply {
	folded := textnorm.Fold(text)
	name := "simple.default"
	for _, g := range keywordGroups {
		if g.terms.Match(folded) {
			name = g.pool
			break
		}
	}
	out := pick(s.picker, s.lib.Pool(name))
	if out == "" {
		out = lastResort
	}
	return Reply{Text: out, Branch: "simple", Source: name}
}
