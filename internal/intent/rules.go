// ABOUTME: Ordered intent rule table: (terms, intent, weight) triples
// ABOUTME: Table order is priority: equal weights resolve to the earlier rule

package intent

import (
	"fmt"

	"github.com/mauromedda/pi-offline-go/internal/pattern"
)

// Rule is a compiled intent rule.
type Rule struct {
	Intent  Intent
	Weight  float64
	matcher *pattern.Matcher
}

// NewRule compiles an intent rule. It panics when weight is outside (0, 1]:
// rule tables are fixed data and a bad weight is a programming error.
func NewRule(i Intent, weight float64, terms ...string) Rule {
	if weight <= 0 || weight > 1 {
		panic(fmt.Sprintf("intent: weight %v for %s outside (0, 1]", weight, i))
	}
	return Rule{Intent: i, Weight: weight, matcher: pattern.Compile(terms...)}
}

// rawRule is an uncompiled intent table entry.
type rawRule struct {
	intent Intent
	weight float64
	terms  []string
}

// rawRules is the built-in table. Only the relative order of weights matters:
//   - courtesy intents outrank everything, so "merhaba, kodum hata veriyor" greets first;
//   - compare and code tie; compare is listed first and wins "python vs go kod";
//   - how_to and explain tie; how_to is listed first and wins "nasıl çalışır, nedir".
var rawRules = []rawRule{
	{IntentGreeting, 0.90, []string{
		"merhaba*", "selam*", "slm", "hey", "hello", "hi there", "hola", "günaydın",
		"iyi akşamlar", "iyi günler", "nasılsın*", "naber", "good morning",
	}},
	{IntentThanks, 0.90, []string{
		"teşekkür*", "tesekkur*", "sağol*", "sağ ol*", "eyvallah", "thanks", "thank you",
		"thx", "mersi", "eline sağlık",
	}},
	{IntentGoodbye, 0.90, []string{
		"görüşürüz", "görüşmek üzere", "hoşça kal*", "güle güle", "bye", "goodbye",
		"bay bay", "iyi geceler", "kendine iyi bak",
	}},
	{IntentDebug, 0.88, []string{
		"hata", "hatası*", "hatalar*", "hatalı*", "hataya", "hatayı", "error*", "bug", "bugs",
		"buggy", "debug*", "çalışmıyor", "çalışmadı", "sorun", "sorunu*", "sorunum*",
		"sorunlar*", "sorunlu", "exception", "crash*", "çöküyor", "undefined", "null pointer",
		"stack trace",
	}},
	{IntentCompare, 0.85, []string{
		"karşılaştır*", "fark", "farkı*", "farklar*", "vs", "versus", "compare*", "hangisi daha*",
		"hangisi iyi*", "mı yoksa", "mi yoksa", "arasındaki",
	}},
	{IntentCode, 0.85, []string{
		"kod*", "code", "coding", "fonksiyon*", "function", "snippet", "script yaz*",
		"program yaz*", "örnek yaz*", "implement*",
	}},
	{IntentHowTo, 0.80, []string{
		"nasıl*", "how to", "how do", "how can", "adım adım", "yapılır", "kurulur",
		"yöntem*", "rehber*", "tutorial",
	}},
	{IntentExplain, 0.80, []string{
		"nedir", "ne demek", "ne işe yarar", "açıkla*", "anlat*", "explain", "what is",
		"what are", "hakkında bilgi", "tanımı",
	}},
}

var defaultRules = compileRules(rawRules)

func compileRules(raws []rawRule) []Rule {
	out := make([]Rule, len(raws))
	for i, r := range raws {
		out[i] = NewRule(r.intent, r.weight, r.terms...)
	}
	return out
}

// DefaultRules returns a copy of the built-in intent table in priority order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
