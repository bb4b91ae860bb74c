// ABOUTME: Engine facade: respond(utterance, history) orchestrating extract, classify, topics, synthesize
// ABOUTME: Stateless per call and safe for concurrent use; history is read, never mutated

package engine

import (
	"sync"
	"time"

	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/replies"
	"github.com/mauromedda/pi-offline-go/internal/respond"
	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// Result is the classification of one utterance.
type Result struct {
	Intent     intent.Intent  `json:"intent"`
	Entities   []entity.Label `json:"entities"`
	Confidence float64        `json:"confidence"`
}

// Trace records every intermediate value of one Respond call.
type Trace struct {
	Result
	Topics []entity.Label `json:"topics,omitempty"`
	Reply  respond.Reply  `json:"reply"`
}

type options struct {
	synth      respond.Config
	classifier *intent.Classifier
	simple     bool
	userOnly   bool
}

// Option configures an Engine.
type Option func(*options)

// WithPicker sets the variant picker.
func WithPicker(p respond.Picker) Option {
	return func(o *options) { o.synth.Picker = p }
}

// WithClock sets the clock used for time-of-day greetings.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.synth.Clock = now }
}

// WithLibrary sets the reply library.
func WithLibrary(l *replies.Library) Option {
	return func(o *options) { o.synth.Library = l }
}

// WithMaxEcho caps how much user text is echoed into replies.
func WithMaxEcho(n int) Option {
	return func(o *options) { o.synth.MaxEcho = n }
}

// WithClassifier replaces the built-in intent classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(o *options) { o.classifier = c }
}

// WithSimpleMode switches replies to the keyword-only responder.
func WithSimpleMode(on bool) Option {
	return func(o *options) { o.simple = on }
}

// WithUserTopicsOnly restricts topic accumulation to user turns.
func WithUserTopicsOnly(on bool) Option {
	return func(o *options) { o.userOnly = on }
}

// Engine answers utterances. The zero value is not usable; call New.
type Engine struct {
	classifier *intent.Classifier
	synth      *respond.Synthesizer
	simple     *respond.Simple
	simpleMode bool
	topicOpts  []conversation.TopicOption
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.classifier == nil {
		o.classifier = intent.NewClassifier(intent.ClassifierConfig{})
	}

	e := &Engine{
		classifier: o.classifier,
		synth:      respond.New(o.synth),
		simple:     respond.NewSimple(o.synth),
		simpleMode: o.simple,
	}
	if o.userOnly {
		e.topicOpts = append(e.topicOpts, conversation.UserTurnsOnly())
	}
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine { return New() })

// Default returns the shared engine with built-in tables and random variants.
func Default() *Engine {
	return defaultEngine()
}

// Respond answers utterance with the default engine.
func Respond(utterance string, history conversation.History) string {
	return Default().Respond(utterance, history)
}

// Respond returns the markdown reply to utterance given the prior history.
// It always returns a non-empty string.
func (e *Engine) Respond(utterance string, history conversation.History) string {
	return e.Trace(utterance, history).Reply.Text
}

// Analyze classifies utterance without producing a reply.
func (e *Engine) Analyze(utterance string) Result {
	folded := textnorm.Fold(utterance)
	entities := entity.ExtractFolded(folded)
	c := e.classifier.ClassifyFolded(folded)
	return Result{
		Intent:     c.Intent,
		Entities:   labelsOf(entities),
		Confidence: c.Confidence,
	}
}

// Topics accumulates the topics of history with the engine's topic options,
// in turn order.
func (e *Engine) Topics(history conversation.History) []entity.Label {
	return conversation.AccumulateTopics(history, e.topicOpts...)
}

// Trace runs the full pipeline and returns every intermediate value.
func (e *Engine) Trace(utterance string, history conversation.History) Trace {
	folded := textnorm.Fold(utterance)
	entities := entity.ExtractFolded(folded)
	c := e.classifier.ClassifyFolded(folded)
	topics := e.Topics(history)

	var reply respond.Reply
	if e.simpleMode {
		reply = e.simple.Compose(utterance)
	} else {
		reply = e.synth.Compose(respond.Input{
			Intent:   c.Intent,
			Entities: entities,
			Text:     utterance,
			Topics:   topics,
		})
	}

	return Trace{
		Result: Result{
			Intent:     c.Intent,
			Entities:   labelsOf(entities),
			Confidence: c.Confidence,
		},
		Topics: topics,
		Reply:  reply,
	}
}

// labelsOf returns the labels of s, never nil, so JSON carries [] rather than null.
func labelsOf(s entity.Set) []entity.Label {
	if s.IsEmpty() {
		return []entity.Label{}
	}
	return s.Labels()
}
