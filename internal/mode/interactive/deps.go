// ABOUTME: AppDeps bundles what the interactive TUI needs from the rest of the program
// ABOUTME: Also declares the tea.Msg types exchanged between commands, the session bus and Update

package interactive

import (
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/hooks"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/keybindings"
	"github.com/mauromedda/pi-offline-go/internal/render"
	"github.com/mauromedda/pi-offline-go/internal/session"
	"github.com/mauromedda/pi-offline-go/internal/statusline"
)

// AppDeps provides external dependencies for the interactive app.
type AppDeps struct {
	Engine   *engine.Engine
	Session  *session.Session
	Markdown *render.Markdown // nil prints replies unrendered
	Version  string
	Mode     string

	// SessionOptions is the template for sessions opened by /resume.
	// A nil Store disables /sessions and /resume.
	SessionOptions session.Options

	// Reload re-reads configuration and reply templates. Nilable.
	Reload func() (string, error)

	// WatchPaths triggers Reload when any of them changes.
	WatchPaths []string

	// Hooks run on session events; their messages appear in the transcript.
	Hooks   *hooks.Engine
	WorkDir string

	// Keys maps keys to chat actions; nil uses the built-in bindings.
	// KeybindingFiles (global, project) are re-read after each reload.
	Keys            *keybindings.Manager
	KeybindingFiles [2]string

	// StatusLine refreshes the footer after each reply. Nilable.
	StatusLine *statusline.Engine
}

// replyMsg carries the result of a background Session.Send.
type replyMsg struct {
	exchange session.Exchange
	err      error
}

// transitionMsg is forwarded from the session bus.
type transitionMsg struct {
	transition intent.Transition
}

// hookMsg carries a message printed by a hook command.
type hookMsg struct {
	text string
}

// statusLineMsg carries the output of the status line command.
type statusLineMsg struct {
	text string
	err  error
}

// reloadRequestMsg is sent by the file watcher.
type reloadRequestMsg struct{}

// reloadedMsg carries the outcome of Reload.
type reloadedMsg struct {
	summary string
	err     error
}
