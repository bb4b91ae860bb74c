// ABOUTME: Tests for the root AppModel: submit flow, slash commands, ghost text and resume
// ABOUTME: tea.Cmds are executed inline so background replies are observed deterministically

package interactive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauromedda/pi-offline-go/internal/config"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/hooks"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/keybindings"
	"github.com/mauromedda/pi-offline-go/internal/respond"
	"github.com/mauromedda/pi-offline-go/internal/session"
	"github.com/mauromedda/pi-offline-go/internal/statusline"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

func testEngine() *engine.Engine {
	return engine.New(engine.WithPicker(respond.SeededPicker(1)), engine.WithClock(fixedNow))
}

func newTestApp(t *testing.T, store *session.Store) AppModel {
	t.Helper()
	eng := testEngine()
	opts := session.Options{Mode: "rich", Store: store, Clock: fixedNow}
	sess, err := session.New(eng, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	return NewAppModel(AppDeps{
		Engine:         eng,
		Session:        sess,
		Version:        "test",
		Mode:           "rich",
		SessionOptions: opts,
	})
}

func typeText(m AppModel, s string) AppModel {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(AppModel)
}

// submit presses enter and runs the resulting command, feeding its message back.
func submit(t *testing.T, m AppModel, s string) (AppModel, tea.Cmd) {
	t.Helper()
	m = typeText(m, s)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(AppModel)
	if cmd == nil {
		return m, nil
	}
	msg := cmd()
	if rm, ok := msg.(replyMsg); ok {
		updated, cmd = m.Update(rm)
		return updated.(AppModel), cmd
	}
	return m, func() tea.Msg { return msg }
}

func lastContent(m AppModel) tea.Model {
	if len(m.content) == 0 {
		return nil
	}
	return m.content[len(m.content)-1]
}

func TestAppModel_New(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	if len(m.content) != 1 {
		t.Fatalf("content length = %d; want 1 (welcome)", len(m.content))
	}
	if _, ok := m.content[0].(WelcomeModel); !ok {
		t.Errorf("content[0] = %T; want WelcomeModel", m.content[0])
	}
	if !strings.Contains(m.footer.View(), m.sh.sess.ID) {
		t.Errorf("footer missing session id: %q", m.footer.View())
	}
}

func TestAppModel_SubmitPrompt(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m, _ = submit(t, m, "javascript array nasıl kullanılır")

	if m.busy {
		t.Error("busy should clear after the reply arrives")
	}
	if !m.editor.IsEmpty() {
		t.Errorf("editor not reset: %q", m.editor.Text())
	}
	reply, ok := lastContent(m).(ReplyMsgModel)
	if !ok {
		t.Fatalf("last content = %T; want ReplyMsgModel", lastContent(m))
	}
	if !strings.Contains(reply.trace.Reply.Text, "```javascript") {
		t.Errorf("reply = %q; want javascript block", reply.trace.Reply.Text)
	}
	if got := m.sh.sess.History(); len(got) != 2 {
		t.Errorf("history length = %d; want 2", len(got))
	}
	if m.footer.turns != 2 {
		t.Errorf("footer turns = %d; want 2", m.footer.turns)
	}
	if !m.footer.hasIntent {
		t.Error("footer intent not set")
	}
}

func TestAppModel_EnterIgnoredWhileBusy(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m.busy = true
	m = typeText(m, "merhaba")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(AppModel)
	if cmd != nil {
		t.Error("expected no command while busy")
	}
	if m.editor.Text() != "merhaba" {
		t.Errorf("editor = %q; want text kept", m.editor.Text())
	}
}

func TestAppModel_SlashHelp(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m, _ = submit(t, m, "/help")

	notice, ok := lastContent(m).(NoticeModel)
	if !ok {
		t.Fatalf("last content = %T; want NoticeModel", lastContent(m))
	}
	if notice.isErr {
		t.Errorf("unexpected error notice: %q", notice.text)
	}
	if !strings.Contains(notice.text, "/analyze") {
		t.Errorf("help output missing /analyze: %q", notice.text)
	}
	if len(m.sh.sess.History()) != 0 {
		t.Error("slash commands must not reach the engine")
	}
}

func TestAppModel_UnknownCommand(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m, _ = submit(t, m, "/hlp")

	notice, ok := lastContent(m).(NoticeModel)
	if !ok || !notice.isErr {
		t.Fatalf("want error notice; got %#v", lastContent(m))
	}
	if !strings.Contains(notice.text, "did you mean /help?") {
		t.Errorf("notice = %q", notice.text)
	}
}

func TestAppModel_SlashExit(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	_, cmd := submit(t, m, "/exit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppModel_SlashClear(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m, _ = submit(t, m, "merhaba")
	m, _ = submit(t, m, "/clear")

	if len(m.content) != 0 {
		t.Errorf("content length = %d; want 0", len(m.content))
	}
	if len(m.sh.sess.History()) != 0 {
		t.Error("session history not cleared")
	}
	if m.footer.turns != 0 {
		t.Errorf("footer turns = %d; want 0", m.footer.turns)
	}
}

func TestAppModel_SlashAnalyze(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m, _ = submit(t, m, "/analyze react vs vue karşılaştır")

	notice, ok := lastContent(m).(NoticeModel)
	if !ok {
		t.Fatalf("last content = %T", lastContent(m))
	}
	if !strings.Contains(notice.text, "compare") {
		t.Errorf("analyze output = %q; want compare", notice.text)
	}
}

func TestAppModel_GhostText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"prefix completes", "/he", "lp"},
		{"exact name has no ghost", "/help", ""},
		{"plain text", "hel", ""},
		{"with args", "/export x", ""},
		{"bare slash", "/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newTestApp(t, nil)
			m = typeText(m, tt.input)
			if got := m.editor.GhostText(); got != tt.want {
				t.Errorf("ghost = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestAppModel_TabAcceptsGhost(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m = typeText(m, "/top")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(AppModel)
	if m.editor.Text() != "/topics" {
		t.Errorf("editor = %q; want /topics", m.editor.Text())
	}
}

func TestAppModel_TransitionShownInFooter(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	updated, _ := m.Update(transitionMsg{transition: intent.Transition{
		From: intent.IntentGreeting, To: intent.IntentHowTo, Reason: "greeting -> how_to",
	}})
	m = updated.(AppModel)
	if m.footer.status != "greeting -> how_to" {
		t.Errorf("status = %q", m.footer.status)
	}
}

func TestAppModel_ReloadRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	calls := 0
	m.deps.Reload = func() (string, error) {
		calls++
		return "templates reloaded", nil
	}
	updated, cmd := m.Update(reloadRequestMsg{})
	m = updated.(AppModel)
	if cmd == nil {
		t.Fatal("expected reload command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(AppModel)
	if calls != 1 {
		t.Errorf("reload calls = %d; want 1", calls)
	}
	if m.footer.status != "templates reloaded" {
		t.Errorf("status = %q", m.footer.status)
	}
}

func TestAppModel_Resume(t *testing.T) {
	t.Parallel()

	store := &session.Store{Dir: t.TempDir()}
	prev, err := session.New(testEngine(), session.Options{Store: store, Clock: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := prev.Send(context.Background(), "python liste nasıl kullanılır"); err != nil {
		t.Fatal(err)
	}
	if err := prev.Close(); err != nil {
		t.Fatal(err)
	}

	m := newTestApp(t, store)
	m, _ = submit(t, m, "/resume "+prev.ID)
	t.Cleanup(func() { _ = m.sh.sess.Close() })

	if m.sh.sess.ID != prev.ID {
		t.Fatalf("active session = %s; want %s", m.sh.sess.ID, prev.ID)
	}
	if m.footer.sessionID != prev.ID {
		t.Errorf("footer session = %s", m.footer.sessionID)
	}
	var restored int
	for _, c := range m.content {
		if r, ok := c.(ReplyMsgModel); ok && r.restored {
			restored++
		}
	}
	if restored != 1 {
		t.Errorf("restored replies = %d; want 1", restored)
	}
	if got := m.sh.sess.CurrentIntent(); got != intent.IntentHowTo {
		t.Errorf("CurrentIntent = %v; want how_to", got)
	}
}

func TestAppModel_ResumeUnknown(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, &session.Store{Dir: t.TempDir()})
	id := m.sh.sess.ID
	m, _ = submit(t, m, "/resume deadbeef")

	if m.sh.sess.ID != id {
		t.Error("session must not change on failed resume")
	}
	if n, ok := lastContent(m).(NoticeModel); !ok || !n.isErr {
		t.Errorf("want error notice; got %#v", lastContent(m))
	}
}

func TestAppModel_WindowSizePropagates(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	m = updated.(AppModel)
	if m.editor.width != 50 || m.footer.width != 50 {
		t.Errorf("widths editor=%d footer=%d; want 50", m.editor.width, m.footer.width)
	}
	if w := m.content[0].(WelcomeModel).width; w != 50 {
		t.Errorf("welcome width = %d", w)
	}
	if !strings.Contains(m.View(), strings.Repeat("─", 50)) {
		t.Error("separator not sized to width")
	}
}

func TestAppModel_CustomKeybindings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "keybindings.json")
	body := `{"bindings":{"exit":["ctrl+q"],"clear_history":["ctrl+x"]}}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	m := newTestApp(t, nil)
	m.keys = keybindings.New(path, "")

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd != nil {
		t.Error("ctrl+c should be unbound after exit was rebound")
	}

	m, _ = submit(t, m, "merhaba")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = updated.(AppModel)
	if len(m.sh.sess.History()) != 0 {
		t.Error("clear_history key did not clear the session")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatal("ctrl+q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+q should quit")
	}
}

func TestAppModel_ReloadKey(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil {
		t.Fatal("ctrl+r produced no command")
	}
	if _, ok := cmd().(reloadRequestMsg); !ok {
		t.Error("ctrl+r should request a reload")
	}
}

func TestAppModel_SlashHotkeys(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m, _ = submit(t, m, "/hotkeys")
	notice, ok := lastContent(m).(NoticeModel)
	if !ok || !strings.Contains(notice.text, "ctrl+c, ctrl+d") {
		t.Errorf("hotkeys notice = %#v", lastContent(m))
	}
}

func TestAppModel_HookMessagesShown(t *testing.T) {
	t.Parallel()

	hk, err := hooks.NewEngine(map[string][]config.HookDef{
		"exchange": {{Matcher: "greeting", Command: `echo hook-ran`}},
	})
	if err != nil {
		t.Fatal(err)
	}
	eng := testEngine()
	sess, err := session.New(eng, session.Options{Clock: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sess.Close() })

	m := NewAppModel(AppDeps{Engine: eng, Session: sess, Hooks: hk})
	t.Cleanup(m.sh.detach)

	// No program is running, so deliver the hook message by hand.
	m, _ = submit(t, m, "merhaba")
	updated, _ := m.Update(hookMsg{text: "hook-ran"})
	m = updated.(AppModel)
	if n, ok := lastContent(m).(NoticeModel); !ok || n.text != "hook-ran" {
		t.Errorf("last content = %#v; want hook notice", lastContent(m))
	}
}

func TestAppModel_StatusLineAfterReply(t *testing.T) {
	t.Parallel()

	eng := testEngine()
	sess, err := session.New(eng, session.Options{Clock: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sess.Close() })

	m := NewAppModel(AppDeps{
		Engine:     eng,
		Session:    sess,
		WorkDir:    t.TempDir(),
		StatusLine: statusline.New(`grep -o '"intent":"[a-z_]*"'`, 0),
	})
	m, cmd := submit(t, m, "merhaba")
	if cmd == nil {
		t.Fatal("no status line command after reply")
	}
	updated, _ := m.Update(cmd())
	m = updated.(AppModel)
	if m.footer.custom != `"intent":"greeting"` {
		t.Errorf("footer status line = %q", m.footer.custom)
	}
	if !strings.Contains(m.footer.View(), "greeting") {
		t.Error("status line not rendered")
	}
}

func TestAppModel_StatusLineFailureIgnored(t *testing.T) {
	t.Parallel()

	m := newTestApp(t, nil)
	m.footer = m.footer.WithStatusLine("old")
	updated, _ := m.Update(statusLineMsg{err: context.DeadlineExceeded})
	if got := updated.(AppModel).footer.custom; got != "old" {
		t.Errorf("status line = %q; failure should keep the previous value", got)
	}
}
