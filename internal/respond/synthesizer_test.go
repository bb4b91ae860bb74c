// ABOUTME: Tests for the priority-ordered reply dispatch and its sub-dispatch tables
// ABOUTME: Covers branch order, greeting time bands, fallback topics, totality and variant pools

package respond

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/replies"
)

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

func at(hour, minute int) func() time.Time {
	return func() time.Time { return time.Date(2026, 5, 4, hour, minute, 0, 0, time.Local) }
}

func newTestSynth() *Synthesizer {
	return New(Config{Picker: fixedPicker(0), Clock: at(10, 0)})
}

// inputFor classifies text the way the engine does.
func inputFor(text string, topics ...entity.Label) Input {
	return Input{
		Intent:   intent.Classify(text).Intent,
		Entities: entity.Extract(text),
		Text:     text,
		Topics:   topics,
	}
}

func TestBranchNames_Order(t *testing.T) {
	t.Parallel()

	want := []string{"greeting", "thanks", "goodbye", "code", "market", "explain", "how_to", "compare", "debug", "fallback"}
	if diff := cmp.Diff(want, BranchNames()); diff != "" {
		t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestCompose_Dispatch(t *testing.T) {
	t.Parallel()

	s := newTestSynth()
	tests := []struct {
		text       string
		wantBranch string
		wantSource string
	}{
		// Courtesy
		{"merhaba", "greeting", "greeting.morning"},
		{"teşekkürler", "thanks", "thanks"},
		{"görüşürüz", "goodbye", "goodbye"},

		// Code: intent code or any language entity
		{"javascript array nasıl kullanılır", "code", "code/javascript_array"},
		{"javascript async await örneği", "code", "code/javascript_async"},
		{"javascript nedir", "code", "code/javascript"},
		{"typescript interface", "code", "code/typescript"},
		{"python liste comprehension", "code", "code/python_list"},
		{"python sınıf örneği", "code", "code/python"},
		{"go'da goroutine kullanımı", "code", "code/go_concurrency"},
		{"golang struct", "code", "code/go"},
		{"java stream api", "code", "code/java"},
		{"rust örnek kodu", "code", "code/rust"},
		{"sql join sorgusu", "code", "code/sql"},
		{"react component kodu yaz", "code", "code/react"},
		{"bana kod yaz", "code", "code/which_language"},
		{"python vs javascript karşılaştır", "code", "compare/python_javascript"},
		{"sql vs nosql", "code", "compare/sql_nosql"},
		{"python ile javascript arasındaki fark", "code", "compare/python_javascript"},
		{"python kodum hata veriyor", "code", "code/python"},
		{"go'da channel hatası", "code", "code/go_concurrency"},

		// Trading and crypto
		{"rsi indikatörü nedir", "market", "trading/indicators"},
		{"kaldıraç kullanmalı mıyım", "market", "trading/risk"},
		{"bitcoin cüzdanı güvenli mi", "market", "crypto/wallet"},
		{"bitcoin halving nedir", "market", "crypto/bitcoin"},
		{"ethereum nedir", "market", "crypto/general"},
		{"borsa nasıl çalışır", "market", "trading/general"},

		// Explain
		{"api nedir", "explain", "explain/api"},
		{"closure ne demek", "explain", "explain/closure"},
		{"özyineleme nedir", "explain", "explain/recursion"},
		{"oop nedir", "explain", "explain/oop"},
		{"algoritma nedir", "explain", "explain/algorithm"},
		{"kubernetes nedir", "explain", "explain/generic"},

		// How-to
		{"docker nasıl kurulur", "how_to", "howto/docker"},
		{"git branch nasıl açılır", "how_to", "howto/git"},
		{"uygulamayı nasıl deploy ederim", "how_to", "howto/deploy"},
		{"nginx nasıl kurulur", "how_to", "howto/install"},
		{"ekmek nasıl yapılır", "how_to", "howto/generic"},

		// Compare
		{"react vs vue karşılaştır", "compare", "compare/react_vue"},
		{"angular vs react", "compare", "compare/generic"},

		// Debug without a language
		{"sunucu çöktü, hata var", "debug", "debug"},
		{"react uygulamam hata veriyor", "debug", "debug"},

		// Fallback
		{"bugün hava güzel", "fallback", "fallback.generic"},
		{"", "fallback", "fallback.generic"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := s.Compose(inputFor(tt.text))
			if got.Branch != tt.wantBranch || got.Source != tt.wantSource {
				t.Errorf("Compose(%q) = %s/%s; want %s/%s", tt.text, got.Branch, got.Source, tt.wantBranch, tt.wantSource)
			}
			if strings.TrimSpace(got.Text) == "" {
				t.Errorf("Compose(%q) returned empty text", tt.text)
			}
		})
	}
}

func TestCompose_GreetingTimeBands(t *testing.T) {
	t.Parallel()

	lib := replies.Default()
	tests := []struct {
		hour, minute int
		pool         string
	}{
		{0, 0, "greeting.morning"},
		{9, 0, "greeting.morning"},
		{11, 59, "greeting.morning"},
		{12, 0, "greeting.afternoon"},
		{15, 0, "greeting.afternoon"},
		{17, 59, "greeting.afternoon"},
		{18, 0, "greeting.evening"},
		{20, 0, "greeting.evening"},
		{23, 59, "greeting.evening"},
	}

	for _, tt := range tests {
		s := New(Config{Clock: at(tt.hour, tt.minute)})
		got := s.Synthesize(Input{Intent: intent.IntentGreeting, Text: "merhaba"})
		if !slices.Contains(lib.Pool(tt.pool), got) {
			t.Errorf("%02d:%02d greeting %q not in pool %s", tt.hour, tt.minute, got, tt.pool)
		}
	}
}

func TestCompose_GreetingIgnoresEntities(t *testing.T) {
	t.Parallel()

	got := newTestSynth().Compose(inputFor("merhaba, python hakkında soru"))
	if got.Branch != "greeting" {
		t.Errorf("Branch = %s; want greeting", got.Branch)
	}
	if strings.Contains(got.Text, "```") {
		t.Error("greeting contains a code fence")
	}
}

func TestCompose_ThanksIsFixed(t *testing.T) {
	t.Parallel()

	want := replies.Default().Pool("thanks")[0]
	for i := range 3 {
		s := New(Config{Picker: fixedPicker(i)})
		in := inputFor("teşekkürler", entity.Python, entity.Crypto)
		if got := s.Synthesize(in); got != want {
			t.Errorf("picker %d: thanks = %q; want %q", i, got, want)
		}
	}
}

func TestCompose_FallbackTopicContinuity(t *testing.T) {
	t.Parallel()

	s := newTestSynth()
	got := s.Compose(inputFor("bugün hava güzel", entity.Trading, entity.Python))
	if got.Source != "fallback.topic" {
		t.Fatalf("Source = %s; want fallback.topic", got.Source)
	}
	if !strings.Contains(got.Text, "Python") {
		t.Errorf("fallback reply %q does not name the latest topic", got.Text)
	}
	if strings.Contains(got.Text, "Trading") {
		t.Errorf("fallback reply %q names an older topic", got.Text)
	}
}

func TestCompose_FallbackGenericUsesPicker(t *testing.T) {
	t.Parallel()

	pool := replies.Default().Pool("fallback.generic")
	for i := range pool {
		s := New(Config{Picker: fixedPicker(i)})
		if got := s.Synthesize(inputFor("qwerty")); got != pool[i] {
			t.Errorf("picker %d: got %q; want %q", i, got, pool[i])
		}
	}
}

func TestCompose_ScenarioReplies(t *testing.T) {
	t.Parallel()

	s := newTestSynth()

	arr := s.Synthesize(inputFor("javascript array nasıl kullanılır"))
	if !strings.Contains(arr, "```javascript") || !strings.Contains(arr, "map(") {
		t.Errorf("javascript array reply lacks a javascript code block about arrays:\n%s", arr)
	}

	cmpReply := s.Synthesize(inputFor("react vs vue karşılaştır"))
	if !strings.Contains(cmpReply, "React") || !strings.Contains(cmpReply, "Vue") {
		t.Errorf("comparison does not mention React and Vue:\n%s", cmpReply)
	}
}

func TestCompose_EchoedSubject(t *testing.T) {
	t.Parallel()

	s := New(Config{Picker: fixedPicker(0), MaxEcho: 12})

	got := s.Synthesize(inputFor("kubernetes nedir"))
	if !strings.Contains(got, "Kubernetes") {
		t.Errorf("explain reply does not echo the subject:\n%s", got)
	}

	long := "nasıl " + strings.Repeat("çokuzunbirkelime ", 50) + "yapılır"
	got = s.Synthesize(inputFor(long))
	if strings.Contains(got, strings.Repeat("çokuzunbirkelime ", 2)) {
		t.Error("echoed subject was not capped")
	}
}

func TestCompose_CompareItems(t *testing.T) {
	t.Parallel()

	got := newTestSynth().Synthesize(inputFor("angular vs react"))
	if !strings.Contains(got, "React ve Angular") {
		t.Errorf("generic comparison does not list entities in table order:\n%s", got)
	}
}

func TestCompose_DebugNamesFramework(t *testing.T) {
	t.Parallel()

	s := newTestSynth()
	got := s.Synthesize(inputFor("react uygulamam hata veriyor"))
	if !strings.Contains(got, "Hata Ayıklama (React)") {
		t.Errorf("debug reply does not name the framework:\n%s", got)
	}
	if got := s.Synthesize(inputFor("sunucu çöktü, hata var")); strings.Contains(got, "Hata Ayıklama (") {
		t.Errorf("debug reply names a stack that was never mentioned:\n%s", got)
	}
}

func TestCompose_LanguageAlwaysAnsweredByCode(t *testing.T) {
	t.Parallel()

	// A language outranks every intent: the reply stays inside that language's bucket.
	tests := []struct {
		text       string
		wantSource string
	}{
		{"python kodum hata veriyor", "code/python"},
		{"javascript hatası alıyorum", "code/javascript"},
		{"rust derleyici hatası", "code/rust"},
		{"sql sorgum çalışmıyor", "code/sql"},
		{"java ile rust farkı", "code/java"},
		{"javascript ile python karşılaştır", "compare/python_javascript"},
	}

	s := newTestSynth()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := s.Compose(inputFor(tt.text))
			if got.Branch != "code" || got.Source != tt.wantSource {
				t.Errorf("Compose(%q) = %s/%s; want code/%s", tt.text, got.Branch, got.Source, tt.wantSource)
			}
		})
	}
}

func TestSynthesize_Totality(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", " ", "\t\n", "🚀🔥💯", "\x00\xff\xfe", strings.Repeat("a", 100_000),
		strings.Repeat("python ", 5000), "{{.Subject}}", "{{ evil", "İIıi",
	}
	intents := []intent.Intent{
		intent.IntentGeneral, intent.IntentGreeting, intent.IntentThanks, intent.IntentGoodbye,
		intent.IntentCode, intent.IntentExplain, intent.IntentHowTo, intent.IntentCompare, intent.IntentDebug,
	}

	s := New(Config{Picker: SeededPicker(1)})
	for _, text := range inputs {
		for _, i := range intents {
			in := Input{Intent: i, Entities: entity.Extract(text), Text: text}
			if got := s.Synthesize(in); strings.TrimSpace(got) == "" {
				t.Errorf("Synthesize(%v, %.20q) returned empty", i, text)
			}
		}
	}
}

func TestSynthesize_UserTextNotInterpretedAsTemplate(t *testing.T) {
	t.Parallel()

	got := newTestSynth().Synthesize(inputFor("a{{.Items}}b nedir"))
	if !strings.Contains(got, "A{{.Items}}b") {
		t.Errorf("user text was altered:\n%s", got)
	}
}

func TestSynthesize_VariantsComeFromFixedPool(t *testing.T) {
	t.Parallel()

	pool := replies.Default().Pool("greeting.evening")
	s := New(Config{Clock: at(21, 0), Picker: SeededPicker(42)})
	for range 50 {
		got := s.Synthesize(Input{Intent: intent.IntentGreeting})
		if !slices.Contains(pool, got) {
			t.Fatalf("greeting %q outside the evening pool", got)
		}
	}
}

func TestGreetingPool(t *testing.T) {
	t.Parallel()

	for hour, want := range map[int]string{0: "greeting.morning", 11: "greeting.morning", 12: "greeting.afternoon", 17: "greeting.afternoon", 18: "greeting.evening", 23: "greeting.evening"} {
		if got := GreetingPool(hour); got != want {
			t.Errorf("GreetingPool(%d) = %s; want %s", hour, got, want)
		}
	}
}
