// ABOUTME: Request/response schema types for RPC methods
// ABOUTME: JSON-serializable params and results for respond, send, command and status

package rpc

import (
	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/session"
)

// TextParams carries an utterance.
type TextParams struct {
	Text string `json:"text"`
}

// RespondParams carries an utterance and the history it is answered in.
type RespondParams struct {
	Text    string               `json:"text"`
	History conversation.History `json:"history,omitempty"`
}

// CommandParams carries a slash command line such as "/topics".
type CommandParams struct {
	Input string `json:"input"`
}

// ReplyResult is the response payload for respond and send.
type ReplyResult struct {
	Reply      string         `json:"reply"`
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   []entity.Label `json:"entities"`
	Branch     string         `json:"branch"`
	Source     string         `json:"source,omitempty"`
}

// HistoryResult is the response payload for the history method.
type HistoryResult struct {
	Turns conversation.History `json:"turns"`
}

// CommandResult is the response payload for the command method.
type CommandResult struct {
	Output string `json:"output"`
}

// ClearResult is the response payload for the clear method.
type ClearResult struct {
	Cleared bool `json:"cleared"`
}

// StatusResult is the response payload for the get_status method.
type StatusResult struct {
	SessionID string         `json:"session_id"`
	Mode      string         `json:"mode"`
	Turns     int            `json:"turns"`
	Intent    string         `json:"intent"`
	Topics    []entity.Label `json:"topics"`
	Version   string         `json:"version"`
}

// SessionListResult is the response payload for the list_sessions method.
type SessionListResult struct {
	Sessions []session.Info `json:"sessions"`
}
