// ABOUTME: Per-branch reply generators with their own ordered secondary term checks
// ABOUTME: Each generator is a pure function from request to the fragment or pool it picks

package respond

import (
	"strings"

	"github.com/elliotchance/pie/v2"

	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/pattern"
	"github.com/mauromedda/pi-offline-go/internal/replies"
)

// variant selects a fragment when its label is present (if set), its
// companion label is present (if set) and its terms occur (if set). Variants
// are tried in order.
type variant struct {
	label entity.Label
	with  entity.Label
	terms *pattern.Matcher
	key   string
}

func (v variant) matches(r *request) bool {
	if v.label != "" && !r.Entities.Has(v.label) {
		return false
	}
	if v.with != "" && !r.Entities.Has(v.with) {
		return false
	}
	return v.terms == nil || v.terms.Match(r.folded)
}

func firstVariant(vs []variant, r *request) (variant, bool) {
	i := pie.FindFirstUsing(vs, func(v variant) bool { return v.matches(r) })
	if i < 0 {
		return variant{}, false
	}
	return vs[i], true
}

// ── Greeting ────────────────────────────────────────────────────────────

// GreetingPool returns the greeting pool for the hour of day:
// before 12 morning, 12 to 18 afternoon, from 18 evening.
func GreetingPool(hour int) string {
	switch {
	case hour < 12:
		return "greeting.morning"
	case hour < 18:
		return "greeting.afternoon"
	default:
		return "greeting.evening"
	}
}

func greetingReply(r *request) plan {
	return pool(GreetingPool(r.now().Hour()), nil)
}

// ── Code ────────────────────────────────────────────────────────────────

// compareTerms is the comparison vocabulary checked inside a language bucket.
var compareTerms = pattern.Compile(
	"karşılaştır*", "fark", "farkı*", "farklar*", "vs", "versus", "compare*",
	"hangisi daha*", "hangisi iyi*", "mı yoksa", "mi yoksa", "arasındaki",
)

var nosqlTerms = pattern.Compile("nosql", "no-sql", "mongo*", "doküman tabanlı*", "document database*")

// codeVariants are grouped by language in entity table order; inside a group
// the secondary checks run before the group's plain tutorial.
var codeVariants = []variant{
	{label: entity.JavaScript, with: entity.Python, terms: compareTerms, key: "compare/python_javascript"},
	{label: entity.JavaScript, terms: pattern.Compile("array*", "dizi*", "map", "filter", "reduce", "foreach", "liste*"), key: "code/javascript_array"},
	{label: entity.JavaScript, terms: pattern.Compile("async*", "await", "promise*", "fetch", "asenkron*", "callback*"), key: "code/javascript_async"},
	{label: entity.JavaScript, key: "code/javascript"},
	{label: entity.TypeScript, key: "code/typescript"},
	{label: entity.Python, terms: pattern.Compile("list*", "liste*", "dict*", "sözlük*", "comprehension", "dizi*"), key: "code/python_list"},
	{label: entity.Python, key: "code/python"},
	{label: entity.Go, terms: pattern.Compile("goroutine*", "channel*", "kanal*", "concurren*", "eşzamanl*", "paralel*"), key: "code/go_concurrency"},
	{label: entity.Go, key: "code/go"},
	{label: entity.Java, key: "code/java"},
	{label: entity.Rust, key: "code/rust"},
	{label: entity.SQL, terms: nosqlTerms, key: "compare/sql_nosql"},
	{label: entity.SQL, key: "code/sql"},
	{label: entity.React, key: "code/react"},
}

func codeReply(r *request) plan {
	if v, ok := firstVariant(codeVariants, r); ok {
		return fragment(v.key, nil)
	}
	return fragment("code/which_language", nil)
}

// ── Trading & crypto ────────────────────────────────────────────────────

var marketVariants = []variant{
	{entity.Trading, "", pattern.Compile(
		"rsi", "macd", "indikatör*", "gösterge*", "teknik analiz*", "hareketli ortalama*",
		"moving average*", "ema", "sma", "bollinger", "mum grafi*",
	), "trading/indicators"},
	{"", "", pattern.Compile("stop loss", "risk*", "kaldıraç*", "leverage", "pozisyon büyüklü*", "position siz*"), "trading/risk"},
	{entity.Crypto, "", pattern.Compile("cüzdan*", "wallet*", "seed phrase", "güvenli*", "güvenlik*", "ledger", "soğuk cüzdan*"), "crypto/wallet"},
	{entity.Crypto, "", pattern.Compile("bitcoin*", "btc", "halving"), "crypto/bitcoin"},
	{entity.Crypto, "", nil, "crypto/general"},
}

func marketReply(r *request) plan {
	if v, ok := firstVariant(marketVariants, r); ok {
		return fragment(v.key, nil)
	}
	return fragment("trading/general", nil)
}

// ── Explain ─────────────────────────────────────────────────────────────

var glossary = []variant{
	{"", "", pattern.Compile("api", "apis", "application programming interface"), "explain/api"},
	{"", "", pattern.Compile("recursion", "recursive", "özyineleme*", "rekürsif*"), "explain/recursion"},
	{"", "", pattern.Compile("closure*"), "explain/closure"},
	{"", "", pattern.Compile("oop", "nesne yönelimli*", "nesne tabanlı*", "object oriented"), "explain/oop"},
	{"", "", pattern.Compile("algoritma*", "algorithm*", "big o", "big-o"), "explain/algorithm"},
}

func explainReply(r *request) plan {
	if v, ok := firstVariant(glossary, r); ok {
		return fragment(v.key, nil)
	}
	return fragment("explain/generic", replies.Vars{"Subject": r.subject()})
}

// ── How-to ──────────────────────────────────────────────────────────────

var howToVariants = []variant{
	{"", "", pattern.Compile("git", "github", "commit*", "branch*", "merge*", "pull request"), "howto/git"},
	{"", "", pattern.Compile("docker*", "container*", "konteyner*"), "howto/docker"},
	{"", "", pattern.Compile("deploy*", "yayına al*", "canlıya al*", "yayınla*", "production"), "howto/deploy"},
	{"", "", pattern.Compile("kur", "kurulur", "kurulum*", "kurmak", "install*", "yükle*", "setup"), "howto/install"},
}

func howToReply(r *request) plan {
	if v, ok := firstVariant(howToVariants, r); ok {
		return fragment(v.key, replies.Vars{"Subject": r.subject()})
	}
	return fragment("howto/generic", replies.Vars{"Subject": r.subject()})
}

// ── Compare ─────────────────────────────────────────────────────────────

func compareReply(r *request) plan {
	// Pairs involving a language never get here: the code branch answers them.
	if r.Entities.Has(entity.React) && r.Entities.Has(entity.Vue) {
		return fragment("compare/react_vue", nil)
	}
	return fragment("compare/generic", replies.Vars{"Items": compareItems(r)})
}

// compareItems names what is being compared: detected entities when there are
// at least two, otherwise the subject words.
func compareItems(r *request) string {
	names := pie.Map(r.Entities.Labels(), entity.DisplayName)
	if len(names) >= 2 {
		return strings.Join(names[:len(names)-1], ", ") + " ve " + pie.Last(names)
	}
	return r.subject()
}

// ── Debug ───────────────────────────────────────────────────────────────

// debugReply never sees a language: those are answered by the code branch.
// A detected framework is named instead.
func debugReply(r *request) plan {
	var stack string
	if l, ok := r.Entities.First(entity.CategoryFramework); ok {
		stack = entity.DisplayName(l)
	}
	return fragment("debug", replies.Vars{"Stack": stack})
}

// ── Fallback ────────────────────────────────────────────────────────────

func fallbackReply(r *request) plan {
	if topic, ok := conversation.LatestTopic(r.Topics); ok {
		return pool("fallback.topic", replies.Vars{"Topic": entity.DisplayName(topic)})
	}
	return pool("fallback.generic", nil)
}
