// ABOUTME: EditorModel is a single-line rune editor with input history and ghost completion
// ABOUTME: Cursor math is rune based; the view scrolls horizontally using cell widths

package interactive

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

const maxInputHistory = 100

// EditorModel holds the prompt line being typed.
type EditorModel struct {
	text        []rune
	cursor      int
	prompt      string
	placeholder string
	ghost       string
	focused     bool
	width       int

	// history is shared between value copies so recalled entries survive Update.
	history *inputHistory
}

type inputHistory struct {
	entries []string
	pos     int // len(entries) means "not browsing"
	draft   string
}

func (h *inputHistory) push(s string) {
	if s == "" || (len(h.entries) > 0 && h.entries[len(h.entries)-1] == s) {
		h.pos = len(h.entries)
		return
	}
	h.entries = append(h.entries, s)
	if len(h.entries) > maxInputHistory {
		h.entries = h.entries[len(h.entries)-maxInputHistory:]
	}
	h.pos = len(h.entries)
}

// NewEditorModel returns an empty, unfocused editor.
func NewEditorModel() EditorModel {
	return EditorModel{history: &inputHistory{}}
}

// Init returns nil.
func (m EditorModel) Init() tea.Cmd {
	return nil
}

// Update handles editing keys and window resizes.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.focused {
			m.dispatchKey(msg)
		}
	}
	return m, nil
}

func (m *EditorModel) dispatchKey(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		m.insert(msg.Runes)
	case tea.KeyBackspace:
		if m.cursor > 0 {
			m.text = append(m.text[:m.cursor-1], m.text[m.cursor:]...)
			m.cursor--
		}
	case tea.KeyDelete:
		if m.cursor < len(m.text) {
			m.text = append(m.text[:m.cursor], m.text[m.cursor+1:]...)
		}
	case tea.KeyLeft:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyRight:
		if m.cursor < len(m.text) {
			m.cursor++
		} else {
			m.acceptGhost()
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.cursor = len(m.text)
	case tea.KeyCtrlU:
		m.text = append([]rune(nil), m.text[m.cursor:]...)
		m.cursor = 0
	case tea.KeyCtrlK:
		m.text = m.text[:m.cursor]
	case tea.KeyTab:
		m.acceptGhost()
	case tea.KeyUp:
		m.recall(-1)
	case tea.KeyDown:
		m.recall(1)
	}
}

// AcceptGhost appends the ghost suggestion to the text.
func (m EditorModel) AcceptGhost() EditorModel {
	m.acceptGhost()
	return m
}

// Recall moves through input history: -1 older, +1 newer.
func (m EditorModel) Recall(step int) EditorModel {
	m.recall(step)
	return m
}

func (m *EditorModel) insert(rs []rune) {
	if len(rs) == 0 {
		rs = []rune{' '}
	}
	rest := append([]rune(nil), m.text[m.cursor:]...)
	m.text = append(append(m.text[:m.cursor], rs...), rest...)
	m.cursor += len(rs)
}

func (m *EditorModel) acceptGhost() {
	if m.ghost == "" {
		return
	}
	m.text = append(m.text, []rune(m.ghost)...)
	m.cursor = len(m.text)
	m.ghost = ""
}

func (m *EditorModel) recall(step int) {
	h := m.history
	if h == nil || len(h.entries) == 0 {
		return
	}
	if h.pos == len(h.entries) {
		h.draft = string(m.text)
	}
	next := h.pos + step
	if next < 0 || next > len(h.entries) {
		return
	}
	h.pos = next
	if next == len(h.entries) {
		m.text = []rune(h.draft)
	} else {
		m.text = []rune(h.entries[next])
	}
	m.cursor = len(m.text)
	m.ghost = ""
}

// View renders prompt, text, cursor and any ghost completion on one line.
func (m EditorModel) View() string {
	s := Styles()
	var b strings.Builder
	b.WriteString(s.Prompt.Render(m.prompt))

	if len(m.text) == 0 {
		if m.focused {
			b.WriteString(s.Cursor.Render(" "))
		}
		if m.placeholder != "" {
			b.WriteString(s.Ghost.Render(m.placeholder))
		}
		return b.String()
	}

	text, cursor := m.visible()
	b.WriteString(string(text[:cursor]))
	if m.focused {
		under := " "
		if cursor < len(text) {
			under = string(text[cursor])
		}
		b.WriteString(s.Cursor.Render(under))
		if cursor < len(text) {
			b.WriteString(string(text[cursor+1:]))
		}
	} else {
		b.WriteString(string(text[cursor:]))
	}
	if m.ghost != "" && m.cursor == len(m.text) {
		b.WriteString(s.Ghost.Render(m.ghost))
	}
	return b.String()
}

// visible returns the window of text that fits beside the prompt, keeping
// the cursor on screen, and the cursor index within that window.
func (m EditorModel) visible() ([]rune, int) {
	avail := m.width - runewidth.StringWidth(m.prompt) - 1
	if m.width <= 0 || avail <= 0 || runewidth.StringWidth(string(m.text)) <= avail {
		return m.text, m.cursor
	}
	start := 0
	for runewidth.StringWidth(string(m.text[start:m.cursor])) > avail {
		start++
	}
	end := m.cursor
	for end < len(m.text) && runewidth.StringWidth(string(m.text[start:end+1])) <= avail {
		end++
	}
	return m.text[start:end], m.cursor - start
}

// Text returns the current input.
func (m EditorModel) Text() string {
	return string(m.text)
}

// SetText replaces the input and moves the cursor to the end.
func (m EditorModel) SetText(s string) EditorModel {
	m.text = []rune(s)
	m.cursor = len(m.text)
	return m
}

// Reset clears the input and records submitted in the recall history.
func (m EditorModel) Reset(submitted string) EditorModel {
	if m.history != nil {
		m.history.push(submitted)
	}
	m.text = nil
	m.cursor = 0
	m.ghost = ""
	return m
}

// SetFocused returns a copy with focus set.
func (m EditorModel) SetFocused(focused bool) EditorModel {
	m.focused = focused
	return m
}

// SetPrompt returns a copy with the prompt prefix set.
func (m EditorModel) SetPrompt(p string) EditorModel {
	m.prompt = p
	return m
}

// SetPlaceholder returns a copy with the empty-input hint set.
func (m EditorModel) SetPlaceholder(p string) EditorModel {
	m.placeholder = p
	return m
}

// SetGhostText returns a copy with the completion suffix set.
func (m EditorModel) SetGhostText(g string) EditorModel {
	m.ghost = g
	return m
}

// GhostText returns the completion suffix.
func (m EditorModel) GhostText() string {
	return m.ghost
}

// IsEmpty reports whether the input is blank.
func (m EditorModel) IsEmpty() bool {
	return strings.TrimSpace(string(m.text)) == ""
}
