// ABOUTME: FooterModel renders the two-line status bar below the editor
// ABOUTME: Line one names the session and mode; line two shows intent, turn count and topics

package interactive

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
)

// FooterModel is a value type; the With* setters return updated copies.
type FooterModel struct {
	sessionID string
	mode      string
	version   string
	intent    intent.Intent
	hasIntent bool
	turns     int
	topics    []entity.Label
	status    string
	custom    string // status line command output
	width     int
}

// NewFooterModel returns an empty footer.
func NewFooterModel() FooterModel {
	return FooterModel{}
}

// Init returns nil.
func (m FooterModel) Init() tea.Cmd { return nil }

// Update tracks the terminal width.
func (m FooterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
	}
	return m, nil
}

func (m FooterModel) WithSession(id string) FooterModel {
	m.sessionID = id
	return m
}

func (m FooterModel) WithMode(mode string) FooterModel {
	m.mode = mode
	return m
}

func (m FooterModel) WithVersion(v string) FooterModel {
	m.version = v
	return m
}

func (m FooterModel) WithIntent(i intent.Intent) FooterModel {
	m.intent = i
	m.hasIntent = true
	return m
}

func (m FooterModel) WithTurns(n int) FooterModel {
	m.turns = n
	return m
}

func (m FooterModel) WithTopics(topics []entity.Label) FooterModel {
	m.topics = topics
	return m
}

// WithStatus sets a transient message shown at the end of line two.
func (m FooterModel) WithStatus(s string) FooterModel {
	m.status = s
	return m
}

// WithStatusLine sets the output of the external status line command,
// shown at the end of line one.
func (m FooterModel) WithStatusLine(s string) FooterModel {
	m.custom = s
	return m
}

// View renders the footer, truncating each line to the terminal width.
func (m FooterModel) View() string {
	s := Styles()

	var top []string
	if m.sessionID != "" {
		top = append(top, s.FooterSession.Render("session "+m.sessionID))
	}
	if m.mode != "" {
		top = append(top, s.Warning.Render(m.mode))
	}
	if m.version != "" {
		top = append(top, s.Dim.Render("v"+m.version))
	}
	if m.custom != "" {
		top = append(top, m.custom)
	}
	line1 := strings.Join(top, s.Muted.Render("  "))

	var bottom []string
	if m.hasIntent {
		bottom = append(bottom, IntentBadge(m.intent))
	}
	bottom = append(bottom, s.Muted.Render(fmt.Sprintf("%d turns", m.turns)))
	if len(m.topics) > 0 {
		names := make([]string, len(m.topics))
		for i, l := range m.topics {
			names[i] = entity.DisplayName(l)
		}
		bottom = append(bottom, s.FooterTopics.Render("topics: "+strings.Join(names, ", ")))
	}
	if m.status != "" {
		bottom = append(bottom, s.Info.Render(m.status))
	}
	line2 := strings.Join(bottom, " ")

	if m.width > 0 {
		line1 = truncate(line1, m.width)
		line2 = truncate(line2, m.width)
	}
	return line1 + "\n" + line2
}

// truncate cuts a styled line to w visible cells.
func truncate(line string, w int) string {
	if lipgloss.Width(line) <= w {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(line)
}
