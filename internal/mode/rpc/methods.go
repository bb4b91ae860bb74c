// ABOUTME: Handler implementations for RPC methods (respond, classify, send, history, command, status)
// ABOUTME: Dispatches requests to appropriate handlers with input validation

package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mauromedda/pi-offline-go/internal/commands"
	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/session"
	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// HandlerFunc processes an RPC request's params and returns a Response.
type HandlerFunc func(ctx context.Context, params json.RawMessage) Response

// Router dispatches RPC requests to registered handlers by method name.
type Router struct {
	handlers map[string]HandlerFunc
}

// NewRouter creates a Router with an empty handler registry.
func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Register associates a method name with a handler function.
func (r *Router) Register(method string, handler HandlerFunc) {
	r.handlers[method] = handler
}

// Handle dispatches a request to the registered handler, or returns
// a method-not-found error if no handler is registered.
func (r *Router) Handle(ctx context.Context, req Request) Response {
	h, ok := r.handlers[req.Method]
	if !ok {
		return Response{
			ID:    req.ID,
			Error: NewMethodNotFoundError(req.Method),
		}
	}

	resp := h(ctx, req.Params)
	resp.ID = req.ID
	return resp
}

// Deps holds what handlers call into.
type Deps struct {
	Engine         *engine.Engine
	Session        *session.Session // nil disables send, history, clear and get_status
	Store          *session.Store   // nil disables list_sessions
	Commands       *commands.Registry
	CommandContext *commands.CommandContext
	Mode           string
	Version        string
}

// RegisterHandlers wires all method handlers into the given router.
func RegisterHandlers(r *Router, d *Deps) {
	r.Register(MethodRespond, handleRespond(d))
	r.Register(MethodClassify, handleClassify(d))
	r.Register(MethodSend, handleSend(d))
	r.Register(MethodHistory, handleHistory(d))
	r.Register(MethodClear, handleClear(d))
	r.Register(MethodCommand, handleCommand(d))
	r.Register(MethodGetStatus, handleGetStatus(d))
	r.Register(MethodListSessions, handleListSessions(d))
}

func decode(params json.RawMessage, v any) *Error {
	if len(params) == 0 {
		return NewInvalidParamsError("missing params")
	}
	if err := json.Unmarshal(params, v); err != nil {
		return NewInvalidParamsError(err.Error())
	}
	return nil
}

func decodeText(params json.RawMessage) (string, *Error) {
	var p TextParams
	if err := decode(params, &p); err != nil {
		return "", err
	}
	if textnorm.IsBlank(p.Text) {
		return "", NewInvalidParamsError("text is required")
	}
	return p.Text, nil
}

func replyResult(tr engine.Trace) ReplyResult {
	return ReplyResult{
		Reply:      tr.Reply.Text,
		Intent:     tr.Intent.String(),
		Confidence: tr.Confidence,
		Entities:   tr.Entities,
		Branch:     tr.Reply.Branch,
		Source:     tr.Reply.Source,
	}
}

func handleRespond(d *Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		var p RespondParams
		if err := decode(params, &p); err != nil {
			return Response{Error: err}
		}
		return Response{Result: replyResult(d.Engine.Trace(p.Text, p.History))}
	}
}

func handleClassify(d *Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		text, err := decodeText(params)
		if err != nil {
			return Response{Error: err}
		}
		return Response{Result: d.Engine.Analyze(text)}
	}
}

func handleSend(d *Deps) HandlerFunc {
	return func(ctx context.Context, params json.RawMessage) Response {
		if d.Session == nil {
			return Response{Error: NewNoSessionError()}
		}
		text, perr := decodeText(params)
		if perr != nil {
			return Response{Error: perr}
		}
		ex, err := d.Session.Send(ctx, text)
		if err != nil && ex.Reply.Content == "" {
			return Response{Error: NewInternalError(err)}
		}
		return Response{Result: replyResult(ex.Trace)}
	}
}

func handleHistory(d *Deps) HandlerFunc {
	return func(_ context.Context, _ json.RawMessage) Response {
		if d.Session == nil {
			return Response{Error: NewNoSessionError()}
		}
		h := d.Session.History()
		if h == nil {
			h = conversation.History{}
		}
		return Response{Result: HistoryResult{Turns: h}}
	}
}

func handleClear(d *Deps) HandlerFunc {
	return func(_ context.Context, _ json.RawMessage) Response {
		if d.Session == nil {
			return Response{Error: NewNoSessionError()}
		}
		if err := d.Session.Clear(); err != nil {
			return Response{Error: NewInternalError(err)}
		}
		return Response{Result: ClearResult{Cleared: true}}
	}
}

func handleCommand(d *Deps) HandlerFunc {
	return func(_ context.Context, params json.RawMessage) Response {
		if d.Commands == nil || d.CommandContext == nil {
			return Response{Error: NewCommandsUnavailableError()}
		}
		var p CommandParams
		if err := decode(params, &p); err != nil {
			return Response{Error: err}
		}
		if !commands.IsCommand(p.Input) {
			return Response{Error: NewInvalidParamsError(fmt.Sprintf("not a command: %q", p.Input))}
		}
		out, err := d.Commands.Dispatch(d.CommandContext, p.Input)
		if err != nil {
			return Response{Error: NewCommandError(err)}
		}
		return Response{Result: CommandResult{Output: out}}
	}
}

func handleGetStatus(d *Deps) HandlerFunc {
	return func(_ context.Context, _ json.RawMessage) Response {
		if d.Session == nil {
			return Response{Error: NewNoSessionError()}
		}
		return Response{
			Result: StatusResult{
				SessionID: d.Session.ID,
				Mode:      d.Mode,
				Turns:     len(d.Session.History()),
				Intent:    d.Session.CurrentIntent().String(),
				Topics:    d.Session.Topics(),
				Version:   d.Version,
			},
		}
	}
}

func handleListSessions(d *Deps) HandlerFunc {
	return func(_ context.Context, _ json.RawMessage) Response {
		if d.Store == nil {
			return Response{Result: SessionListResult{Sessions: []session.Info{}}}
		}
		sessions, err := d.Store.List()
		if err != nil {
			return Response{Error: NewInternalError(err)}
		}
		if sessions == nil {
			sessions = []session.Info{}
		}
		return Response{Result: SessionListResult{Sessions: sessions}}
	}
}
