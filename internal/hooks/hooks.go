// ABOUTME: Hook engine that runs user shell commands on session events
// ABOUTME: Matchers are pre-compiled regexps tested against the intent label

package hooks

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mauromedda/pi-offline-go/internal/config"
	"github.com/mauromedda/pi-offline-go/internal/log"
	"github.com/mauromedda/pi-offline-go/internal/session"
)

// compiledHook pairs a hook definition with its pre-compiled regex matcher.
type compiledHook struct {
	def   config.HookDef
	regex *regexp.Regexp // nil means match-all
}

// Engine holds registered hooks and fires them on session events.
type Engine struct {
	hooks map[session.EventType][]compiledHook
}

// NewEngine compiles the hooks configuration. It fails on an invalid matcher.
func NewEngine(hooks map[string][]config.HookDef) (*Engine, error) {
	compiled := make(map[session.EventType][]compiledHook, len(hooks))
	for event, defs := range hooks {
		for _, def := range defs {
			ch := compiledHook{def: def}
			if def.Matcher != "" {
				re, err := regexp.Compile(def.Matcher)
				if err != nil {
					return nil, fmt.Errorf("invalid hook matcher %q for event %s: %w", def.Matcher, event, err)
				}
				ch.regex = re
			}
			key := session.EventType(event)
			compiled[key] = append(compiled[key], ch)
		}
	}
	return &Engine{hooks: compiled}, nil
}

// Len returns the number of registered hooks.
func (e *Engine) Len() int {
	n := 0
	for _, defs := range e.hooks {
		n += len(defs)
	}
	return n
}

// Fire runs, in order, every hook registered for input.Event whose matcher
// accepts input.Intent. It stops at the first failing hook and returns the
// messages printed so far.
func (e *Engine) Fire(ctx context.Context, input Input) ([]string, error) {
	var messages []string
	for _, hook := range e.hooks[input.Event] {
		if hook.regex != nil && !hook.regex.MatchString(input.Intent) {
			continue
		}
		out, err := runHookCommand(ctx, hook.def.Command, input)
		if err != nil {
			return messages, fmt.Errorf("hook %q: %w", hook.def.Command, err)
		}
		if out.Message != "" {
			messages = append(messages, out.Message)
		}
	}
	return messages, nil
}

// Attach fires hooks for every event published by sess. Messages go to
// notify, or to the info log when notify is nil. The returned function
// detaches the engine.
func (e *Engine) Attach(sess *session.Session, workDir string, notify func(string)) func() {
	if e.Len() == 0 {
		return func() {}
	}
	return sess.Subscribe(func(ev session.Event) {
		msgs, err := e.Fire(context.Background(), inputFor(ev, workDir))
		if err != nil {
			log.Warn("session %s: %v", ev.SessionID, err)
		}
		for _, m := range msgs {
			if notify != nil {
				notify(m)
				continue
			}
			log.Info("hook: %s", m)
		}
	})
}
