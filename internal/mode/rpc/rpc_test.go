// ABOUTME: Tests for RPC server, router, methods, and error handling
// ABOUTME: Drives the JSONL protocol through in-memory readers and writers

package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mauromedda/pi-offline-go/internal/commands"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/respond"
	"github.com/mauromedda/pi-offline-go/internal/session"
)

// --- Error constructor tests ---

func TestErrorConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *Error
		code int
	}{
		{NewParseError(errors.New("bad json")), ErrCodeParse},
		{NewInvalidRequestError(), ErrCodeInvalidReq},
		{NewMethodNotFoundError("bogus"), ErrCodeMethodNotFound},
		{NewInvalidParamsError("missing field"), ErrCodeInvalidParams},
		{NewInternalError(errors.New("disk full")), ErrCodeInternal},
		{NewNoSessionError(), ErrCodeNoSession},
		{NewCommandError(errors.New("unknown session")), ErrCodeCommandFailed},
		{NewCommandsUnavailableError(), ErrCodeCommandFailed},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.code {
			t.Errorf("%q: Code = %d; want %d", tt.err.Message, tt.err.Code, tt.code)
		}
		if tt.err.Error() != tt.err.Message {
			t.Errorf("Error() = %q; want %q", tt.err.Error(), tt.err.Message)
		}
	}
	if !strings.Contains(NewMethodNotFoundError("bogus").Message, "bogus") {
		t.Error("method name missing from message")
	}
	if got := NewInternalError(errors.New("disk full")).Message; got != "internal error: disk full" {
		t.Errorf("internal message = %q", got)
	}
	if got := NewCommandError(errors.New("unknown session")).Message; got != "unknown session" {
		t.Errorf("command message = %q", got)
	}
}

// --- Router tests ---

func TestRouterDispatch(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	r.Register("echo", func(_ context.Context, params json.RawMessage) Response {
		return Response{Result: string(params)}
	})

	resp := r.Handle(context.Background(), Request{ID: "1", Method: "echo", Params: json.RawMessage(`{"a":1}`)})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	if resp.ID != "1" || resp.Result != `{"a":1}` {
		t.Errorf("resp = %+v", resp)
	}

	resp = r.Handle(context.Background(), Request{ID: "2", Method: "nonexistent"})
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound || resp.ID != "2" {
		t.Errorf("resp = %+v; want method not found", resp)
	}
}

// --- Method handler tests ---

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	eng := engine.New(engine.WithPicker(respond.SeededPicker(1)))
	store := &session.Store{Dir: t.TempDir()}
	sess, err := session.New(eng, session.Options{ID: "rpc00001", Mode: "rich", Store: store})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sess.Close() })

	return &Deps{
		Engine:   eng,
		Session:  sess,
		Store:    store,
		Commands: commands.NewRegistry(),
		CommandContext: &commands.CommandContext{
			SessionID: sess.ID,
			Topics:    sess.Topics,
			History:   sess.History,
		},
		Mode:    "rich",
		Version: "test",
	}
}

func call(t *testing.T, r *Router, method, params string, out any) *Error {
	t.Helper()
	req := Request{ID: "t", Method: method}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	resp := r.Handle(context.Background(), req)
	if resp.Error != nil {
		return resp.Error
	}
	if out != nil {
		data, err := json.Marshal(resp.Result)
		if err != nil {
			t.Fatalf("marshal result: %v", err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("unmarshal result: %v", err)
		}
	}
	return nil
}

func newRouter(t *testing.T) (*Router, *Deps) {
	t.Helper()
	d := newTestDeps(t)
	r := NewRouter()
	RegisterHandlers(r, d)
	return r, d
}

func TestHandleRespond_Stateless(t *testing.T) {
	t.Parallel()

	r, d := newRouter(t)
	var got ReplyResult
	params := `{"text":"bugün hava güzel","history":[{"role":"user","content":"rust öğrenmek istiyorum","timestamp":"2025-01-01T00:00:00Z"}]}`
	if err := call(t, r, MethodRespond, params, &got); err != nil {
		t.Fatal(err)
	}
	if got.Intent != "general" || got.Branch != "fallback" || !strings.Contains(got.Reply, "Rust") {
		t.Errorf("got %+v", got)
	}
	if len(d.Session.History()) != 0 {
		t.Error("respond must not touch the server session")
	}
}

func TestHandleClassify(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)
	var got engine.Result
	if err := call(t, r, MethodClassify, `{"text":"react vs vue karşılaştır"}`, &got); err != nil {
		t.Fatal(err)
	}
	if got.Intent.String() != "compare" || len(got.Entities) != 2 {
		t.Errorf("got %+v", got)
	}

	if err := call(t, r, MethodClassify, `{"text":"   "}`, nil); err == nil || err.Code != ErrCodeInvalidParams {
		t.Errorf("blank text err = %v; want invalid params", err)
	}
	if err := call(t, r, MethodClassify, ``, nil); err == nil || err.Code != ErrCodeInvalidParams {
		t.Errorf("missing params err = %v; want invalid params", err)
	}
	if err := call(t, r, MethodClassify, `{"text":1}`, nil); err == nil || err.Code != ErrCodeInvalidParams {
		t.Errorf("wrong type err = %v; want invalid params", err)
	}
}

func TestHandleSendHistoryClearStatus(t *testing.T) {
	t.Parallel()

	r, d := newRouter(t)

	var reply ReplyResult
	if err := call(t, r, MethodSend, `{"text":"python nedir"}`, &reply); err != nil {
		t.Fatal(err)
	}
	if reply.Intent != "explain" {
		t.Errorf("Intent = %q; want explain", reply.Intent)
	}

	var hist HistoryResult
	if err := call(t, r, MethodHistory, "", &hist); err != nil {
		t.Fatal(err)
	}
	if len(hist.Turns) != 2 || hist.Turns[0].Content != "python nedir" {
		t.Errorf("history = %+v", hist.Turns)
	}

	var status StatusResult
	if err := call(t, r, MethodGetStatus, "", &status); err != nil {
		t.Fatal(err)
	}
	if status.SessionID != "rpc00001" || status.Turns != 2 || status.Intent != "explain" || status.Version != "test" {
		t.Errorf("status = %+v", status)
	}

	var cmd CommandResult
	if err := call(t, r, MethodCommand, `{"input":"/topics"}`, &cmd); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(cmd.Output, "Python") {
		t.Errorf("command output = %q", cmd.Output)
	}

	var cleared ClearResult
	if err := call(t, r, MethodClear, "", &cleared); err != nil || !cleared.Cleared {
		t.Fatalf("clear = %+v, %v", cleared, err)
	}
	if len(d.Session.History()) != 0 {
		t.Error("history not cleared")
	}

	var list SessionListResult
	if err := call(t, r, MethodListSessions, "", &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].ID != "rpc00001" {
		t.Errorf("sessions = %+v", list.Sessions)
	}
}

func TestHandleCommand_Errors(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)
	if err := call(t, r, MethodCommand, `{"input":"topics"}`, nil); err == nil || err.Code != ErrCodeInvalidParams {
		t.Errorf("non-command err = %v", err)
	}
	if err := call(t, r, MethodCommand, `{"input":"/nope"}`, nil); err == nil || err.Code != ErrCodeCommandFailed {
		t.Errorf("unknown command err = %v", err)
	}
}

func TestHandlers_NoSession(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	RegisterHandlers(r, &Deps{Engine: engine.New()})
	for _, m := range []string{MethodSend, MethodHistory, MethodClear, MethodGetStatus} {
		if err := call(t, r, m, `{"text":"merhaba"}`, nil); err == nil || err.Code != ErrCodeNoSession {
			t.Errorf("%s err = %v; want no session", m, err)
		}
	}
	var list SessionListResult
	if err := call(t, r, MethodListSessions, "", &list); err != nil || list.Sessions == nil {
		t.Errorf("list_sessions = %+v, %v; want empty list", list, err)
	}
	if err := call(t, r, MethodCommand, `{"input":"/help"}`, nil); err == nil || err.Code != ErrCodeCommandFailed {
		t.Errorf("command err = %v", err)
	}
}

// --- Server tests ---

func TestServer_Run(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)
	in := strings.Join([]string{
		`{"id":"1","method":"respond","params":{"text":"merhaba"}}`,
		`not json`,
		``,
		`{"id":"3"}`,
		`{"id":"4","method":"bogus"}`,
		`{"id":"5","method":"send","params":{"text":"teşekkürler"}}`,
	}, "\n")

	var out bytes.Buffer
	if err := NewServer(strings.NewReader(in), &out, r.Handle).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var resps []Response
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var resp Response
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			t.Fatalf("bad response line %q: %v", sc.Text(), err)
		}
		resps = append(resps, resp)
	}
	if len(resps) != 5 {
		t.Fatalf("got %d responses, want 5", len(resps))
	}

	if resps[0].ID != "1" || resps[0].Error != nil {
		t.Errorf("resp[0] = %+v", resps[0])
	}
	wantCodes := []int{ErrCodeParse, ErrCodeInvalidReq, ErrCodeMethodNotFound}
	for i, code := range wantCodes {
		if e := resps[i+1].Error; e == nil || e.Code != code {
			t.Errorf("resp[%d] error = %+v; want code %d", i+1, e, code)
		}
	}
	if resps[4].ID != "5" || resps[4].Error != nil {
		t.Errorf("resp[4] = %+v", resps[4])
	}
}

func TestServer_CanceledContext(t *testing.T) {
	t.Parallel()

	r, _ := newRouter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := NewServer(strings.NewReader(`{"id":"1","method":"classify","params":{"text":"merhaba"}}`), &out, r.Handle).Run(ctx)
	if err == nil {
		t.Error("expected context error")
	}
	if out.Len() != 0 {
		t.Error("nothing should be served after cancellation")
	}
}
