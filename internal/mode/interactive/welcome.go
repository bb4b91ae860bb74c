// ABOUTME: WelcomeModel renders the startup banner with version, session and key shortcuts
// ABOUTME: Lines are clipped to the terminal width on narrow screens

package interactive

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-offline-go/internal/keybindings"
)

// WelcomeModel is the first entry of the transcript.
type WelcomeModel struct {
	version   string
	sessionID string
	resumed   int // turns restored from disk
	shortcuts [][2]string
	width     int
}

// NewWelcomeModel creates the banner. resumed is the number of turns
// restored from a previous run; zero hides the line.
func NewWelcomeModel(version, sessionID string, resumed int) WelcomeModel {
	return WelcomeModel{
		version:   version,
		sessionID: sessionID,
		resumed:   resumed,
		shortcuts: keybindings.Default().Shortcuts(),
	}
}

// WithShortcuts replaces the key/description pairs listed in the banner.
func (m WelcomeModel) WithShortcuts(sc [][2]string) WelcomeModel {
	m.shortcuts = sc
	return m
}

// Init returns nil.
func (m WelcomeModel) Init() tea.Cmd { return nil }

// Update tracks the terminal width.
func (m WelcomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
	}
	return m, nil
}

// View renders the banner.
func (m WelcomeModel) View() string {
	s := Styles()
	ver := m.version
	if ver == "" {
		ver = "dev"
	}

	var b strings.Builder
	b.WriteString(s.Accent.Render("  ╭───────╮") + "\n")
	b.WriteString(s.Accent.Render("  │  ") + s.Bold.Render("π") + s.Accent.Render("    │") + "\n")
	b.WriteString(s.Accent.Render("  ╰───────╯") + "\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", s.Bold.Render("pi-offline"), s.Dim.Render("v"+ver)))
	b.WriteString(fmt.Sprintf("  %s\n", s.Info.Render("session "+m.sessionID)))
	if m.resumed > 0 {
		b.WriteString(fmt.Sprintf("  %s\n", s.Dim.Render(fmt.Sprintf("%d önceki mesaj yüklendi", m.resumed))))
	}
	b.WriteString("\n")

	const keyPad = 12
	for _, sc := range append(slices.Clip(m.shortcuts), [2]string{"/help", "commands"}) {
		fmt.Fprintf(&b, "  %s%s\n", s.Bold.Render(fmt.Sprintf("%-*s", keyPad, sc[0])), s.Dim.Render(sc[1]))
	}

	result := strings.TrimRight(b.String(), "\n")
	if m.width > 0 && m.width < 40 {
		lines := strings.Split(result, "\n")
		for i, line := range lines {
			lines[i] = truncate(line, m.width)
		}
		return strings.Join(lines, "\n")
	}
	return result
}
