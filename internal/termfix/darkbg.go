// ABOUTME: Decides the terminal background before BubbleTea's init() can send OSC queries
// ABOUTME: Must be imported (with _) before any package that imports bubbletea

package termfix

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	// An explicit background stops lipgloss from querying the terminal with
	// OSC 10/11; the async answers otherwise leak into the editor as input.
	// This package must not import bubbletea, directly or transitively.
	lipgloss.SetHasDarkBackground(DarkBackground(os.Getenv("COLORFGBG")))
}

// DarkBackground interprets a COLORFGBG value ("15;0", "0;default;15").
// The last field is the background palette index; 7 and 9-15 are light.
// Anything unparseable counts as dark.
func DarkBackground(colorfgbg string) bool {
	if colorfgbg == "" {
		return true
	}
	fields := strings.Split(colorfgbg, ";")
	bg, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return true
	}
	return bg != 7 && (bg < 9 || bg > 15)
}
