// ABOUTME: Session orchestrator: one conversation around the engine with persistence and events
// ABOUTME: Bounds history per turn, tracks intent transitions, publishes every exchange on the bus

package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/eventbus"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/log"
)

// EventType identifies a session event.
type EventType string

const (
	EventExchange   EventType = "exchange"
	EventTransition EventType = "transition"
	EventCleared    EventType = "cleared"
	EventClosed     EventType = "closed"
)

// Event is published on the session bus.
type Event struct {
	Type       EventType
	SessionID  string
	Exchange   *Exchange          // set for EventExchange
	Transition *intent.Transition // set for EventTransition
}

// Exchange is one user utterance and the reply produced for it.
type Exchange struct {
	User  conversation.Turn
	Reply conversation.Turn
	Trace engine.Trace
}

// Options configures a Session.
type Options struct {
	ID           string // generated when empty
	Mode         string
	HistoryLimit int              // turns passed to the engine; 0 means all
	Store        *Store           // nil disables persistence
	Clock        func() time.Time // defaults to time.Now
}

// Session is a single conversation. It is safe for concurrent use; turns
// are processed one at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *engine.Engine
	history  conversation.History
	detector *intent.TransitionDetector
	writer   *Writer
	limit    int
	now      func() time.Time
	bus      *eventbus.Bus[Event]
	closed   bool
}

// New starts a session. With a store, a session_start record is written, or
// the existing file is resumed when the ID is already stored.
func New(eng *engine.Engine, opts Options) (*Session, error) {
	s := &Session{
		ID:       opts.ID,
		engine:   eng,
		detector: intent.NewTransitionDetector(),
		limit:    opts.HistoryLimit,
		now:      opts.Clock,
		bus:      eventbus.New[Event](),
	}
	if s.ID == "" {
		s.ID = NewID()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Store == nil {
		return s, nil
	}

	resumed := opts.Store.Exists(s.ID)
	if resumed {
		h, err := opts.Store.LoadHistory(s.ID)
		if err != nil {
			return nil, fmt.Errorf("resuming session %s: %w", s.ID, err)
		}
		s.history = h
		s.replayTransitions()
	}

	w, err := opts.Store.OpenWriter(s.ID)
	if err != nil {
		return nil, fmt.Errorf("creating session writer: %w", err)
	}
	w.now = s.now
	s.writer = w

	if !resumed {
		cwd, _ := os.Getwd()
		if err := w.WriteRecord(RecordSessionStart, SessionStartData{
			ID:      s.ID,
			Mode:    opts.Mode,
			CWD:     cwd,
			Started: s.now().UTC().Format(time.RFC3339),
		}); err != nil {
			w.Close()
			return nil, fmt.Errorf("writing session start: %w", err)
		}
	}
	log.Debug("session %s opened (resumed=%t, turns=%d)", s.ID, resumed, len(s.history))
	return s, nil
}

func (s *Session) replayTransitions() {
	for _, t := range s.history.ByRole(conversation.RoleUser) {
		r := s.engine.Analyze(t.Content)
		s.detector.Observe(intent.Classification{Intent: r.Intent, Confidence: r.Confidence})
	}
}

// Subscribe registers a handler for session events.
func (s *Session) Subscribe(h eventbus.Handler[Event]) func() {
	return s.bus.Subscribe(h)
}

// Send answers text in the context of the conversation so far, records both
// turns and publishes the exchange. ctx is checked before any work is done.
func (s *Session) Send(ctx context.Context, text string) (Exchange, error) {
	if err := ctx.Err(); err != nil {
		return Exchange{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Exchange{}, fmt.Errorf("session %s is closed", s.ID)
	}

	trace := s.engine.Trace(text, s.history.Tail(s.limit))
	ex := Exchange{
		User:  conversation.UserTurn(text, s.now()),
		Reply: conversation.AssistantTurn(trace.Reply.Text, s.now()),
		Trace: trace,
	}
	s.history = s.history.Append(ex.User, ex.Reply)
	tr := s.detector.Observe(intent.Classification{Intent: trace.Intent, Confidence: trace.Confidence})

	err := s.persist(ex, tr)
	s.mu.Unlock()

	s.bus.Publish(Event{Type: EventExchange, SessionID: s.ID, Exchange: &ex})
	if tr != nil {
		log.Debug("session %s: %s", s.ID, tr.Reason)
		s.bus.Publish(Event{Type: EventTransition, SessionID: s.ID, Transition: tr})
	}
	return ex, err
}

func (s *Session) persist(ex Exchange, tr *intent.Transition) error {
	if s.writer == nil {
		return nil
	}
	if err := s.writer.WriteRecord(RecordUser, UserData{Content: ex.User.Content}); err != nil {
		return err
	}
	if err := s.writer.WriteRecord(RecordAssistant, AssistantData{
		Content:    ex.Reply.Content,
		Intent:     ex.Trace.Intent,
		Confidence: ex.Trace.Confidence,
		Entities:   ex.Trace.Entities,
		Branch:     ex.Trace.Reply.Branch,
		Source:     ex.Trace.Reply.Source,
	}); err != nil {
		return err
	}
	if tr != nil {
		return s.writer.WriteRecord(RecordTransition, TransitionData{From: tr.From, To: tr.To})
	}
	return nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() conversation.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Clone()
}

// Topics returns the distinct topics of the conversation, most recent first.
func (s *Session) Topics() []entity.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return conversation.DistinctTopics(s.engine.Topics(s.history))
}

// CurrentIntent returns the conversation's dominant intent.
func (s *Session) CurrentIntent() intent.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.Current()
}

// IntentPath returns every intent the conversation moved through.
func (s *Session) IntentPath() []intent.Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detector.Path()
}

// Clear forgets the conversation so far. The file keeps the old turns behind
// a clear record.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.history = nil
	s.detector.Reset()
	var err error
	if s.writer != nil {
		err = s.writer.WriteRecord(RecordClear, struct{}{})
	}
	s.mu.Unlock()

	s.bus.Publish(Event{Type: EventCleared, SessionID: s.ID})
	return err
}

// Close writes the end record and releases the file. Safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var err error
	if s.writer != nil {
		if werr := s.writer.WriteRecord(RecordSessionEnd, struct {
			Turns int `json:"turns"`
		}{len(s.history)}); werr != nil {
			err = werr
		}
		if cerr := s.writer.Close(); err == nil {
			err = cerr
		}
	}
	s.mu.Unlock()

	s.bus.Publish(Event{Type: EventClosed, SessionID: s.ID})
	return err
}
