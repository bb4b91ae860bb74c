// ABOUTME: JSON-RPC error codes for the responder protocol and their constructors
// ABOUTME: Protocol failures use the reserved range; session and slash-command failures get their own codes

package rpc

// Reserved JSON-RPC 2.0 codes, used for framing and parameter problems.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidReq     = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

// Responder codes. -32001 is unassigned: the engine never reports busy.
const (
	ErrCodeNoSession     = -32002
	ErrCodeCommandFailed = -32003
)

// NewParseError reports a stdin line that is not a JSON request object.
// The id is unknown, so the response carries none.
func NewParseError(cause error) *Error {
	return &Error{Code: ErrCodeParse, Message: "parse error: " + cause.Error()}
}

// NewInvalidRequestError reports a request object with no method name.
func NewInvalidRequestError() *Error {
	return &Error{Code: ErrCodeInvalidReq, Message: "missing method"}
}

func NewMethodNotFoundError(method string) *Error {
	return &Error{Code: ErrCodeMethodNotFound, Message: "method not found: " + method}
}

// NewInvalidParamsError reports undecodable params, blank utterance text or
// a command input without the leading slash.
func NewInvalidParamsError(msg string) *Error {
	return &Error{Code: ErrCodeInvalidParams, Message: msg}
}

// NewInternalError reports a failure of the session store or the response
// encoder. Classification and composition never fail.
func NewInternalError(cause error) *Error {
	return &Error{Code: ErrCodeInternal, Message: "internal error: " + cause.Error()}
}

// NewNoSessionError is returned by the stateful methods (send, history,
// clear, get_status) when the server was started without a session. The
// stateless respond and classify methods still work.
func NewNoSessionError() *Error {
	return &Error{Code: ErrCodeNoSession, Message: "no session: stateful methods need a session"}
}

// NewCommandError reports a slash command that ran and failed, such as
// /resume with an unknown id or /export to an unwritable path.
func NewCommandError(cause error) *Error {
	return &Error{Code: ErrCodeCommandFailed, Message: cause.Error()}
}

// NewCommandsUnavailableError reports a command call on a server wired
// without a command registry.
func NewCommandsUnavailableError() *Error {
	return &Error{Code: ErrCodeCommandFailed, Message: "slash commands are not available"}
}
