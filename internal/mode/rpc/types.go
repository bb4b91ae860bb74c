// ABOUTME: RPC request/response envelope types for editor and script integrations
// ABOUTME: One JSON object per line in each direction

package rpc

import "encoding/json"

// Request represents an RPC request from an external client.
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents an RPC response to an external client.
type Response struct {
	ID     string `json:"id"`
	Result any    `json:"result,omitempty"`
	Error  *Error `json:"error,omitempty"`
}

// Error represents an RPC error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Methods
const (
	MethodRespond      = "respond"  // stateless: text + explicit history
	MethodClassify     = "classify" // intent and entities only
	MethodSend         = "send"     // stateful: uses the server's session
	MethodHistory      = "history"
	MethodClear        = "clear"
	MethodCommand      = "command"
	MethodGetStatus    = "get_status"
	MethodListSessions = "list_sessions"
)
