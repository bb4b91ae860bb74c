// ABOUTME: Content models for the transcript: user prompts, rendered replies and command notices
// ABOUTME: Replies render through glamour at the current width; notices show command output verbatim

package interactive

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/render"
)

// UserMsgModel displays a submitted prompt on a highlighted background.
type UserMsgModel struct {
	text  string
	width int
}

// NewUserMsgModel creates a UserMsgModel for text.
func NewUserMsgModel(text string) UserMsgModel {
	return UserMsgModel{text: text}
}

// Init returns nil.
func (m UserMsgModel) Init() tea.Cmd { return nil }

// Update tracks the terminal width.
func (m UserMsgModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
	}
	return m, nil
}

// View renders a blank line then the prompt with a bold "> " prefix.
func (m UserMsgModel) View() string {
	s := Styles()
	return "\n" + s.UserBg.Render(s.Bold.Render(" > ")+m.text+" ")
}

// ReplyMsgModel displays an assistant reply with its intent badge.
type ReplyMsgModel struct {
	trace    engine.Trace
	markdown *render.Markdown
	width    int
	restored bool // loaded from disk; no trace to badge
}

// NewReplyMsgModel creates a reply model. md may be nil for plain output.
func NewReplyMsgModel(tr engine.Trace, md *render.Markdown, width int) ReplyMsgModel {
	return ReplyMsgModel{trace: tr, markdown: md, width: width}
}

// NewRestoredReplyModel shows a reply read back from a saved session.
func NewRestoredReplyModel(text string, md *render.Markdown, width int) ReplyMsgModel {
	m := ReplyMsgModel{markdown: md, width: width, restored: true}
	m.trace.Reply.Text = text
	return m
}

// Init returns nil.
func (m ReplyMsgModel) Init() tea.Cmd { return nil }

// Update tracks the terminal width.
func (m ReplyMsgModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
	}
	return m, nil
}

// View renders the badge line followed by the reply body.
func (m ReplyMsgModel) View() string {
	body := m.trace.Reply.Text
	if m.markdown != nil {
		body = m.markdown.Render(body, m.width)
	}
	body = strings.TrimRight(body, "\n")
	if m.restored {
		return "\n" + body
	}

	s := Styles()
	header := IntentBadge(m.trace.Intent) + " " +
		s.Muted.Render(fmt.Sprintf("%.2f · %s", m.trace.Confidence, m.trace.Reply.Branch))
	return "\n" + header + "\n" + body
}

// NoticeModel displays slash command output or errors.
type NoticeModel struct {
	text  string
	isErr bool
}

// NewNoticeModel creates a notice. isErr switches to the error colour.
func NewNoticeModel(text string, isErr bool) NoticeModel {
	return NoticeModel{text: text, isErr: isErr}
}

// Init returns nil.
func (m NoticeModel) Init() tea.Cmd { return nil }

// Update is a no-op.
func (m NoticeModel) Update(tea.Msg) (tea.Model, tea.Cmd) { return m, nil }

// View renders the notice text indented by two spaces.
func (m NoticeModel) View() string {
	s := Styles()
	style := s.Notice
	if m.isErr {
		style = s.Error
	}
	lines := strings.Split(strings.TrimRight(m.text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + style.Render(l)
	}
	return "\n" + strings.Join(lines, "\n")
}
