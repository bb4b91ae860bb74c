// ABOUTME: Hook payload types: what a hook command receives on stdin and may print on stdout
// ABOUTME: Events mirror the session bus; each carries the fields relevant to it

package hooks

import "github.com/mauromedda/pi-offline-go/internal/session"

// Events a hook can be registered for.
const (
	OnExchange   = session.EventExchange
	OnTransition = session.EventTransition
	OnCleared    = session.EventCleared
	OnClosed     = session.EventClosed
)

// Input is passed to a hook command via stdin as JSON.
type Input struct {
	Event      session.EventType `json:"event"`
	SessionID  string            `json:"session_id"`
	WorkDir    string            `json:"work_dir,omitempty"`
	Intent     string            `json:"intent,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Entities   []string          `json:"entities,omitempty"`
	Branch     string            `json:"branch,omitempty"`
	User       string            `json:"user,omitempty"`
	Reply      string            `json:"reply,omitempty"`
	From       string            `json:"from,omitempty"` // transition only
	To         string            `json:"to,omitempty"`   // transition only
}

// Output is the optional JSON a hook prints on stdout.
type Output struct {
	Message string `json:"message,omitempty"`
}

// inputFor converts a session event into hook input.
func inputFor(ev session.Event, workDir string) Input {
	in := Input{Event: ev.Type, SessionID: ev.SessionID, WorkDir: workDir}
	switch {
	case ev.Exchange != nil:
		tr := ev.Exchange.Trace
		in.Intent = tr.Intent.String()
		in.Confidence = tr.Confidence
		in.Branch = tr.Reply.Branch
		in.User = ev.Exchange.User.Content
		in.Reply = ev.Exchange.Reply.Content
		for _, e := range tr.Entities {
			in.Entities = append(in.Entities, string(e))
		}
	case ev.Transition != nil:
		in.From = ev.Transition.From.String()
		in.To = ev.Transition.To.String()
		in.Intent = in.To
	}
	return in
}
