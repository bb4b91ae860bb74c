// ABOUTME: Response synthesizer: priority-ordered dispatch from intent and entities to a reply
// ABOUTME: First matching branch wins; the fallback branch always matches, so output is never empty

package respond

import (
	"strings"
	"time"

	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/log"
	"github.com/mauromedda/pi-offline-go/internal/replies"
	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// DefaultMaxEcho caps how many grapheme clusters of user text are echoed into a reply.
const DefaultMaxEcho = 60

// lastResort is returned only if the reply library cannot produce anything.
const lastResort = "Bunu tam anlayamadım. Biraz daha detay verebilir misin?"

// Input is everything a reply depends on.
type Input struct {
	Intent   intent.Intent
	Entities entity.Set
	Text     string         // raw utterance
	Topics   []entity.Label // accumulated from history, most recent last
}

// Reply is a synthesized reply and where it came from.
type Reply struct {
	Text   string `json:"text"`
	Branch string `json:"branch"`
	Source string `json:"source"` // fragment key or pool name
}

// Config holds synthesizer dependencies. Zero values select defaults.
type Config struct {
	Library *replies.Library // default replies.Default()
	Picker  Picker           // default RandomPicker()
	Clock   func() time.Time // default time.Now
	MaxEcho int              // default DefaultMaxEcho
}

// Synthesizer turns classified input into reply text.
// It is immutable after construction and safe for concurrent use when its
// Picker is.
type Synthesizer struct {
	lib     *replies.Library
	picker  Picker
	now     func() time.Time
	maxEcho int
}

// New creates a Synthesizer, applying defaults for unset fields.
func New(cfg Config) *Synthesizer {
	if cfg.Library == nil {
		cfg.Library = replies.Default()
	}
	if cfg.Picker == nil {
		cfg.Picker = RandomPicker()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MaxEcho <= 0 {
		cfg.MaxEcho = DefaultMaxEcho
	}
	return &Synthesizer{
		lib:     cfg.Library,
		picker:  cfg.Picker,
		now:     cfg.Clock,
		maxEcho: cfg.MaxEcho,
	}
}

// Synthesize returns the reply text for in. It never returns an empty string.
func (s *Synthesizer) Synthesize(in Input) string {
	return s.Compose(in).Text
}

// Compose runs the dispatch table and returns the reply with its provenance.
func (s *Synthesizer) Compose(in Input) Reply {
	req := &request{Input: in, folded: textnorm.Fold(in.Text), maxEcho: s.maxEcho, now: s.now}
	for _, b := range branches {
		if !b.when(req) {
			continue
		}
		p := b.plan(req)
		text := s.resolve(p)
		if strings.TrimSpace(text) == "" {
			text = lastResort
		}
		return Reply{Text: text, Branch: b.name, Source: p.source()}
	}
	// Unreachable: the fallback branch matches everything.
	return Reply{Text: lastResort, Branch: "fallback"}
}

// request is Input plus values computed once per call.
type request struct {
	Input
	folded  string
	maxEcho int
	now     func() time.Time
}

func (r *request) subject() string {
	return subjectOf(r.Text, r.maxEcho)
}

// plan names the fragment or pool a generator chose, with its variables.
type plan struct {
	fragment string
	pool     string
	vars     replies.Vars
}

func fragment(key string, vars replies.Vars) plan { return plan{fragment: key, vars: vars} }
func pool(name string, vars replies.Vars) plan    { return plan{pool: name, vars: vars} }

func (p plan) source() string {
	if p.fragment != "" {
		return p.fragment
	}
	return p.pool
}

func (s *Synthesizer) resolve(p plan) string {
	if p.fragment != "" {
		out, err := s.lib.Render(p.fragment, p.vars)
		if err != nil {
			log.Warn("reply %s: %v", p.fragment, err)
			return ""
		}
		return out
	}

	line := pick(s.picker, s.lib.Pool(p.pool))
	out, err := s.lib.RenderLine(line, p.vars)
	if err != nil {
		log.Warn("reply pool %s: %v", p.pool, err)
		return ""
	}
	return out
}

// branch is one row of the dispatch table.
type branch struct {
	name string
	when func(*request) bool
	plan func(*request) plan
}

func intentIs(i intent.Intent) func(*request) bool {
	return func(r *request) bool { return r.Intent == i }
}

// branches is the dispatch table. Order is priority.
var branches = []branch{
	{"greeting", intentIs(intent.IntentGreeting), greetingReply},
	{"thanks", intentIs(intent.IntentThanks), func(*request) plan { return pool("thanks", nil) }},
	{"goodbye", intentIs(intent.IntentGoodbye), func(*request) plan { return pool("goodbye", nil) }},
	{"code", func(r *request) bool {
		return r.Intent == intent.IntentCode || r.Entities.HasCategory(entity.CategoryLanguage)
	}, codeReply},
	{"market", func(r *request) bool {
		return r.Entities.HasCategory(entity.CategoryTrading) || r.Entities.HasCategory(entity.CategoryCrypto)
	}, marketReply},
	{"explain", intentIs(intent.IntentExplain), explainReply},
	{"how_to", intentIs(intent.IntentHowTo), howToReply},
	{"compare", intentIs(intent.IntentCompare), compareReply},
	{"debug", intentIs(intent.IntentDebug), debugReply},
	{"fallback", func(*request) bool { return true }, fallbackReply},
}

// BranchNames returns the dispatch order.
func BranchNames() []string {
	out := make([]string, len(branches))
	for i, b := range branches {
		out[i] = b.name
	}
	return out
}
