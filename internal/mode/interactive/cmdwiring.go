// ABOUTME: Builds a CommandContext whose callbacks close over the AppModel
// ABOUTME: Side effects are collected in cmdSideEffects and applied after Dispatch returns

package interactive

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-offline-go/internal/commands"
	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/export"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/log"
	"github.com/mauromedda/pi-offline-go/internal/session"
)

// cmdSideEffects records what a command asked the app to do.
type cmdSideEffects struct {
	quit     bool
	clearTUI bool
	resumed  *session.Session
}

func (m AppModel) buildCommandContext() (*commands.CommandContext, *cmdSideEffects) {
	effects := &cmdSideEffects{}
	sess := m.sh.sess
	store := m.deps.SessionOptions.Store

	ctx := &commands.CommandContext{
		SessionID: sess.ID,
		Mode:      m.deps.Mode,
		Version:   m.deps.Version,

		History:       sess.History,
		Topics:        sess.Topics,
		CurrentIntent: func() (intent.Intent, []intent.Intent) { return sess.CurrentIntent(), sess.IntentPath() },
		ClearHistory:  sess.Clear,

		ExitFn:   func() { effects.quit = true },
		ClearTUI: func() { effects.clearTUI = true },

		ExportConversation: func(path string) error {
			return export.Write(path, sess.History(), export.Meta{SessionID: sess.ID, Exported: time.Now()})
		},
		Hotkeys: m.keys.FormatAll,
	}
	if m.deps.Reload != nil {
		ctx.ReloadFn = func() (string, error) {
			summary, err := m.deps.Reload()
			if err == nil {
				m.reloadKeys()
			}
			return summary, err
		}
	}
	if m.deps.Engine != nil {
		ctx.Analyze = m.deps.Engine.Analyze
	}
	if store != nil {
		ctx.ListSessions = store.List
		ctx.ResumeSession = func(id string) error {
			if id == sess.ID {
				return fmt.Errorf("session %s is already open", id)
			}
			if !store.Exists(id) {
				return fmt.Errorf("session %s not found", id)
			}
			opts := m.deps.SessionOptions
			opts.ID = id
			next, err := session.New(m.deps.Engine, opts)
			if err != nil {
				return err
			}
			effects.resumed = next
			return nil
		}
	}
	return ctx, effects
}

// applyEffects appends the command output and performs requested side effects.
func (m AppModel) applyEffects(effects *cmdSideEffects, result string, err error) (AppModel, tea.Cmd) {
	if effects.resumed != nil {
		m = m.switchSession(effects.resumed)
	}
	if effects.clearTUI {
		m.content = nil
		m.footer = m.footer.WithTurns(0).WithTopics(nil).WithStatus("")
	}

	switch {
	case err != nil:
		m.content = append(m.content, NewNoticeModel("Error: "+err.Error(), true))
	case result != "" && !effects.clearTUI:
		m.content = append(m.content, NewNoticeModel(result, false))
	}

	if effects.quit {
		return m, tea.Quit
	}
	if effects.clearTUI {
		return m, tea.ClearScreen
	}
	return m, nil
}

// reloadKeys re-reads the keybinding files. Call from Update only.
func (m AppModel) reloadKeys() {
	if f := m.deps.KeybindingFiles; f != [2]string{} {
		m.keys.Reload(f[0], f[1])
	}
}

// switchSession closes the current session and shows the restored transcript of next.
func (m AppModel) switchSession(next *session.Session) AppModel {
	// Close before attaching so hooks still see the previous session's close.
	if err := m.sh.sess.Close(); err != nil {
		log.Warn("closing session %s: %v", m.sh.sess.ID, err)
	}
	m.sh.attach(next)

	h := next.History()
	m.content = []tea.Model{NewWelcomeModel(m.deps.Version, next.ID, len(h)).WithShortcuts(m.keys.Shortcuts())}
	m.content = append(m.content, transcript(h, m.deps, m.width)...)
	m.footer = m.footer.
		WithSession(next.ID).
		WithTurns(len(h)).
		WithTopics(next.Topics())
	if len(h) > 0 {
		m.footer = m.footer.WithIntent(next.CurrentIntent())
	}
	return m
}

// transcript converts stored turns to content models.
func transcript(h conversation.History, deps AppDeps, width int) []tea.Model {
	out := make([]tea.Model, 0, len(h))
	for _, t := range h {
		if t.Role == conversation.RoleUser {
			out = append(out, NewUserMsgModel(t.Content))
			continue
		}
		out = append(out, NewRestoredReplyModel(t.Content, deps.Markdown, width))
	}
	return out
}
