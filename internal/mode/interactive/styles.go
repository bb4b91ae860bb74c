// ABOUTME: Lipgloss palette for the interactive TUI and per-intent badge colours
// ABOUTME: Styles() builds the palette once and serves it from an atomic cache

package interactive

import (
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-offline-go/internal/intent"
)

// ThemeStyles holds every lipgloss style the TUI renders with.
type ThemeStyles struct {
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style

	UserBg lipgloss.Style
	Prompt lipgloss.Style
	Ghost  lipgloss.Style
	Cursor lipgloss.Style
	Notice lipgloss.Style

	FooterSession lipgloss.Style
	FooterTopics  lipgloss.Style
}

var cachedStyles atomic.Pointer[ThemeStyles]

// Styles returns the shared palette.
func Styles() ThemeStyles {
	if s := cachedStyles.Load(); s != nil {
		return *s
	}
	s := buildStyles()
	cachedStyles.Store(&s)
	return s
}

func buildStyles() ThemeStyles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return ThemeStyles{
		Bold:    lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Muted:   fg("242"),
		Accent:  fg("208"),
		Info:    fg("39"),
		Success: fg("42"),
		Warning: fg("214"),
		Error:   fg("196"),
		Border:  fg("238"),

		UserBg: lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Prompt: fg("208").Bold(true),
		Ghost:  fg("240"),
		Cursor: lipgloss.NewStyle().Reverse(true),
		Notice: fg("245").Italic(true),

		FooterSession: fg("39"),
		FooterTopics:  fg("245"),
	}
}

var badgeColors = map[intent.Intent]string{
	intent.IntentGreeting: "42",
	intent.IntentThanks:   "42",
	intent.IntentGoodbye:  "42",
	intent.IntentCode:     "39",
	intent.IntentExplain:  "75",
	intent.IntentHowTo:    "75",
	intent.IntentCompare:  "177",
	intent.IntentDebug:    "196",
}

// IntentBadge renders the intent label in its category colour.
func IntentBadge(i intent.Intent) string {
	c, ok := badgeColors[i]
	if !ok {
		c = "245"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("[" + i.String() + "]")
}
