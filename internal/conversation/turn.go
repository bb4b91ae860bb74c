// ABOUTME: Turn and History: the read-only conversation data the engine consumes
// ABOUTME: History is oldest-first; helpers never mutate the caller's slice

package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"
)

// Role identifies who authored a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps a wire role to a Role. Matching ignores case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleUser, RoleAssistant:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Turn is one message in a conversation. Turns are values; the engine never
// mutates them.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// UserTurn builds a user turn stamped with at.
func UserTurn(content string, at time.Time) Turn {
	return Turn{Role: RoleUser, Content: content, Timestamp: at}
}

// AssistantTurn builds an assistant turn stamped with at.
func AssistantTurn(content string, at time.Time) Turn {
	return Turn{Role: RoleAssistant, Content: content, Timestamp: at}
}

// History is an ordered sequence of turns, oldest first.
type History []Turn

// Clone returns an independent copy of h.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Last returns the newest turn, or false for an empty history.
func (h History) Last() (Turn, bool) {
	if len(h) == 0 {
		return Turn{}, false
	}
	return h[len(h)-1], true
}

// Tail returns a copy of the newest n turns. n <= 0 means all of them.
func (h History) Tail(n int) History {
	if n <= 0 || n >= len(h) {
		return h.Clone()
	}
	return h[len(h)-n:].Clone()
}

// ByRole returns a copy holding only the turns authored by r.
func (h History) ByRole(r Role) History {
	return pie.Filter(h, func(t Turn) bool { return t.Role == r })
}

// Append returns a new history with turns added after h. h is left untouched.
func (h History) Append(turns ...Turn) History {
	out := make(History, 0, len(h)+len(turns))
	out = append(out, h...)
	return append(out, turns...)
}
