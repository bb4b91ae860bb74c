// ABOUTME: Root AppModel for the interactive TUI: transcript, editor and footer
// ABOUTME: Prompts go to the session in a background tea.Cmd; slash commands run inline

package interactive

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-offline-go/internal/commands"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/hooks"
	"github.com/mauromedda/pi-offline-go/internal/keybindings"
	"github.com/mauromedda/pi-offline-go/internal/log"
	"github.com/mauromedda/pi-offline-go/internal/session"
	"github.com/mauromedda/pi-offline-go/internal/statusline"
)

const (
	promptPrefix = "❯ "
	placeholder  = "Bir şey sor, ya da /help yaz"
)

// shared holds state that must survive AppModel value copies.
// Update runs on a single goroutine; background work reports back through
// program.Send only.
type shared struct {
	program     *tea.Program
	sess        *session.Session
	unsubscribe []func()
	hooks       *hooks.Engine
	workDir     string
	ctx         context.Context
	cancel      context.CancelFunc
}

// attach makes s the active session, forwards its intent transitions and
// runs configured hooks on its events.
func (sh *shared) attach(s *session.Session) {
	sh.detach()
	sh.sess = s
	sh.unsubscribe = append(sh.unsubscribe, s.Subscribe(func(ev session.Event) {
		if ev.Type != session.EventTransition || ev.Transition == nil || sh.program == nil {
			return
		}
		sh.program.Send(transitionMsg{transition: *ev.Transition})
	}))
	if sh.hooks != nil {
		sh.unsubscribe = append(sh.unsubscribe, sh.hooks.Attach(s, sh.workDir, func(m string) {
			// Hooks can fire inside Update (clear, resume); Send must not block it.
			if p := sh.program; p != nil {
				go p.Send(hookMsg{text: m})
			}
		}))
	}
}

func (sh *shared) detach() {
	for _, fn := range sh.unsubscribe {
		fn()
	}
	sh.unsubscribe = nil
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	sh *shared

	busy          bool
	width, height int

	editor  EditorModel
	footer  FooterModel
	content []tea.Model

	deps        AppDeps
	keys        *keybindings.Manager
	cmdRegistry *commands.Registry

	cachedSep string
}

// NewAppModel creates an AppModel around deps.Session.
func NewAppModel(deps AppDeps) AppModel {
	ctx, cancel := context.WithCancel(context.Background())
	sh := &shared{ctx: ctx, cancel: cancel, hooks: deps.Hooks, workDir: deps.WorkDir}
	sh.attach(deps.Session)

	h := deps.Session.History()
	footer := NewFooterModel().
		WithSession(deps.Session.ID).
		WithMode(deps.Mode).
		WithVersion(deps.Version).
		WithTurns(len(h)).
		WithTopics(deps.Session.Topics())
	if len(h) > 0 {
		footer = footer.WithIntent(deps.Session.CurrentIntent())
	}

	keys := deps.Keys
	if keys == nil {
		keys = keybindings.Default()
	}

	content := []tea.Model{NewWelcomeModel(deps.Version, deps.Session.ID, len(h)).WithShortcuts(keys.Shortcuts())}
	content = append(content, transcript(h, deps, 0)...)

	m := AppModel{
		sh:          sh,
		footer:      footer,
		content:     content,
		deps:        deps,
		keys:        keys,
		cmdRegistry: commands.NewRegistry(),
	}
	m.editor = m.resetEditor()
	return m
}

// Init returns nil; the transcript is static until the first prompt.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update routes messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cachedSep = strings.Repeat("─", msg.Width)
		return m.propagateSize(msg), nil

	case replyMsg:
		m.busy = false
		ex := msg.exchange
		if ex.Reply.Content != "" {
			m.content = append(m.content, NewReplyMsgModel(ex.Trace, m.deps.Markdown, m.width))
			m.footer = m.footer.
				WithIntent(ex.Trace.Intent).
				WithTurns(len(m.sh.sess.History())).
				WithTopics(m.sh.sess.Topics())
		}
		if msg.err != nil {
			log.Warn("send failed: %v", msg.err)
			m.content = append(m.content, NewNoticeModel("Error: "+msg.err.Error(), true))
			return m, nil
		}
		return m, m.statusLineCmd(ex)

	case statusLineMsg:
		if msg.err != nil {
			log.Debug("status line: %v", msg.err)
			return m, nil
		}
		m.footer = m.footer.WithStatusLine(msg.text)
		return m, nil

	case hookMsg:
		m.content = append(m.content, NewNoticeModel(msg.text, false))
		return m, nil

	case transitionMsg:
		m.footer = m.footer.WithStatus(msg.transition.Reason)
		return m, nil

	case reloadRequestMsg:
		if m.deps.Reload == nil {
			return m, nil
		}
		reload := m.deps.Reload
		return m, func() tea.Msg {
			summary, err := reload()
			return reloadedMsg{summary: summary, err: err}
		}

	case reloadedMsg:
		if msg.err != nil {
			m.footer = m.footer.WithStatus("reload failed")
			m.content = append(m.content, NewNoticeModel("Error: "+msg.err.Error(), true))
			return m, nil
		}
		m.reloadKeys()
		m.footer = m.footer.WithStatus(msg.summary)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View renders transcript, editor and footer.
func (m AppModel) View() string {
	s := Styles()
	sections := make([]string, 0, len(m.content)+4)
	for _, c := range m.content {
		sections = append(sections, c.View())
	}
	sections = append(sections,
		s.Border.Render(m.cachedSep),
		m.editor.View(),
		s.Border.Render(m.cachedSep),
		m.footer.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.ActionFor(msg.String()) {
	case keybindings.ActionExit:
		m.sh.cancel()
		return m, tea.Quit

	case keybindings.ActionClearScreen:
		m.content = nil
		return m, tea.ClearScreen

	case keybindings.ActionClearHistory:
		if m.busy {
			return m, nil
		}
		return m.handleSlashCommand("/clear")

	case keybindings.ActionReload:
		return m, func() tea.Msg { return reloadRequestMsg{} }

	case keybindings.ActionSubmit:
		if m.busy || m.editor.IsEmpty() {
			return m, nil
		}
		return m.submitPrompt(strings.TrimSpace(m.editor.Text()))

	case keybindings.ActionAcceptGhost:
		m.editor = m.editor.AcceptGhost()
		m.editor = m.editor.SetGhostText(m.computeGhostText())
		return m, nil

	case keybindings.ActionHistoryPrev:
		m.editor = m.editor.Recall(-1)
		return m, nil

	case keybindings.ActionHistoryNext:
		m.editor = m.editor.Recall(1)
		return m, nil
	}

	updated, cmd := m.editor.Update(msg)
	m.editor = updated.(EditorModel)
	m.editor = m.editor.SetGhostText(m.computeGhostText())
	return m, cmd
}

func (m AppModel) submitPrompt(text string) (AppModel, tea.Cmd) {
	m.editor = m.editor.Reset(text)
	m.content = append(m.content, NewUserMsgModel(text))
	m.footer = m.footer.WithStatus("")

	if commands.IsCommand(text) {
		return m.handleSlashCommand(text)
	}

	m.busy = true
	return m, m.sendCmd(text)
}

func (m AppModel) handleSlashCommand(text string) (AppModel, tea.Cmd) {
	ctx, effects := m.buildCommandContext()
	result, err := m.cmdRegistry.Dispatch(ctx, text)
	return m.applyEffects(effects, result, err)
}

// sendCmd answers text on a background goroutine.
func (m AppModel) sendCmd(text string) tea.Cmd {
	sess := m.sh.sess
	ctx := m.sh.ctx
	return func() tea.Msg {
		ex, err := sess.Send(ctx, text)
		return replyMsg{exchange: ex, err: err}
	}
}

// statusLineCmd runs the status line command for the state after ex.
func (m AppModel) statusLineCmd(ex session.Exchange) tea.Cmd {
	sl := m.deps.StatusLine
	if !sl.HasCommand() {
		return nil
	}
	sess := m.sh.sess
	topics := sess.Topics()
	names := make([]string, len(topics))
	for i, l := range topics {
		names[i] = entity.DisplayName(l)
	}
	input := statusline.Input{
		CWD:        m.deps.WorkDir,
		SessionID:  sess.ID,
		Mode:       m.deps.Mode,
		Intent:     ex.Trace.Intent.String(),
		Confidence: ex.Trace.Confidence,
		Turns:      len(sess.History()),
		Topics:     names,
	}
	ctx := m.sh.ctx
	return func() tea.Msg {
		text, err := sl.Execute(ctx, input)
		return statusLineMsg{text: text, err: err}
	}
}

func (m AppModel) propagateSize(msg tea.WindowSizeMsg) AppModel {
	for i := range m.content {
		m.content[i], _ = m.content[i].Update(msg)
	}
	updated, _ := m.editor.Update(msg)
	m.editor = updated.(EditorModel)
	fUpdated, _ := m.footer.Update(msg)
	m.footer = fUpdated.(FooterModel)
	return m
}

func (m AppModel) resetEditor() EditorModel {
	e := NewEditorModel().
		SetFocused(true).
		SetPrompt(promptPrefix).
		SetPlaceholder(placeholder)
	e.width = m.width
	return e
}

// computeGhostText returns the suffix completing a partially typed command.
func (m AppModel) computeGhostText() string {
	text := m.editor.Text()
	if !strings.HasPrefix(text, "/") || strings.Contains(text, " ") {
		return ""
	}
	prefix := strings.ToLower(text[1:])
	if prefix == "" {
		return ""
	}
	for _, name := range m.cmdRegistry.Suggest(prefix) {
		if strings.HasPrefix(name, prefix) && name != prefix {
			return name[len(prefix):]
		}
	}
	return ""
}
