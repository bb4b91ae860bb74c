// ABOUTME: Entry point for the interactive TUI
// ABOUTME: Creates the tea.Program, injects it into shared state, and wires the file watcher

package interactive

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-offline-go/internal/config"
	"github.com/mauromedda/pi-offline-go/internal/log"
)

// Run starts the interactive app and blocks until the user exits.
// Run owns deps.Session: whichever session is active at exit is closed.
func Run(deps AppDeps) error {
	if deps.Session == nil {
		return errors.New("interactive: no session")
	}
	m := NewAppModel(deps)

	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	// m.sh is a pointer, so the copy held by the program sees this too.
	m.sh.program = p

	if len(deps.WatchPaths) > 0 && deps.Reload != nil {
		w, err := config.NewWatcher(deps.WatchPaths, func() { p.Send(reloadRequestMsg{}) })
		if err != nil {
			log.Warn("file watcher disabled: %v", err)
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	_, runErr := p.Run()

	m.sh.cancel()
	closeErr := m.sh.sess.Close()
	m.sh.detach()

	if runErr != nil {
		return fmt.Errorf("bubble tea: %w", runErr)
	}
	return closeErr
}
