// ABOUTME: Tests for keybindings manager
// ABOUTME: Validates key lookup, overrides, conflict detection, reload, and format

package keybindings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeBindings(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "keybindings.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestManager_DefaultBindings(t *testing.T) {
	t.Parallel()
	m := Default()

	tests := []struct {
		key    string
		action Action
	}{
		{"enter", ActionSubmit},
		{"ctrl+c", ActionExit},
		{"ctrl+d", ActionExit},
		{"ctrl+l", ActionClearScreen},
		{"ctrl+r", ActionReload},
		{"tab", ActionAcceptGhost},
		{"up", ActionHistoryPrev},
		{"down", ActionHistoryNext},
		{"z", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := m.ActionFor(tt.key); got != tt.action {
				t.Errorf("ActionFor(%q) = %q; want %q", tt.key, got, tt.action)
			}
		})
	}
}

func TestNew_ProjectOverridesGlobal(t *testing.T) {
	t.Parallel()

	global := writeBindings(t, t.TempDir(), `{"bindings":{"exit":["ctrl+q"],"clear_history":["ctrl+x"]}}`)
	project := writeBindings(t, t.TempDir(), `{"bindings":{"exit":["ctrl+w"]}}`)

	m := New(global, project)
	if diff := cmp.Diff([]string{"ctrl+w"}, m.Keys(ActionExit)); diff != "" {
		t.Errorf("exit keys mismatch (-want +got):\n%s", diff)
	}
	if m.ActionFor("ctrl+c") != "" {
		t.Error("ctrl+c still bound after exit was rebound")
	}
	if m.ActionFor("ctrl+x") != ActionClearHistory {
		t.Error("global binding lost when project file does not mention it")
	}
}

func TestNew_BadFilesIgnored(t *testing.T) {
	t.Parallel()

	broken := writeBindings(t, t.TempDir(), `{not json`)
	unknown := writeBindings(t, t.TempDir(), `{"bindings":{"launch_rockets":["ctrl+b"],"reload":["f5"]}}`)

	m := New(broken, unknown)
	if m.ActionFor("ctrl+b") != "" {
		t.Error("unknown action was bound")
	}
	if m.ActionFor("f5") != ActionReload {
		t.Error("valid binding next to an unknown action was dropped")
	}
	if m.ActionFor("enter") != ActionSubmit {
		t.Error("defaults lost after broken file")
	}

	missing := New(filepath.Join(t.TempDir(), "none.json"), "")
	if missing.ActionFor("ctrl+c") != ActionExit {
		t.Error("missing file should keep defaults")
	}
}

func TestManager_Conflicts(t *testing.T) {
	t.Parallel()

	if c := Default().Conflicts(); len(c) != 0 {
		t.Errorf("default bindings conflict: %+v", c)
	}

	path := writeBindings(t, t.TempDir(), `{"bindings":{"clear_history":["ctrl+l"]}}`)
	m := New(path, "")
	want := []ConflictInfo{{Key: "ctrl+l", Actions: []Action{ActionClearHistory, ActionClearScreen}}}
	if diff := cmp.Diff(want, m.Conflicts()); diff != "" {
		t.Errorf("conflicts mismatch (-want +got):\n%s", diff)
	}
	// Display order decides: clear_screen comes before clear_history.
	if got := m.ActionFor("ctrl+l"); got != ActionClearScreen {
		t.Errorf("ActionFor(ctrl+l) = %q; want clear_screen", got)
	}
	if !strings.Contains(m.FormatAll(), "warning: ctrl+l") {
		t.Error("FormatAll does not report the conflict")
	}
}

func TestManager_Reload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeBindings(t, dir, `{"bindings":{"reload":["f5"]}}`)
	m := New(path, "")
	if m.ActionFor("f5") != ActionReload {
		t.Fatal("initial binding missing")
	}

	writeBindings(t, dir, `{"bindings":{"reload":["f6"]}}`)
	m.Reload(path, "")
	if m.ActionFor("f5") != "" || m.ActionFor("f6") != ActionReload {
		t.Errorf("reload did not rebuild lookup: f5=%q f6=%q", m.ActionFor("f5"), m.ActionFor("f6"))
	}
}

func TestManager_FormatAll(t *testing.T) {
	t.Parallel()

	out := Default().FormatAll()
	for _, want := range []string{"Keybindings:", "ctrl+c, ctrl+d", "exit", "tab", "complete command"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatAll missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "clear conversation") {
		t.Error("unbound action listed")
	}
}

func TestManager_Shortcuts(t *testing.T) {
	t.Parallel()

	got := Default().Shortcuts()
	if len(got) == 0 || got[0] != [2]string{"enter", "send"} {
		t.Errorf("Shortcuts()[0] = %v; want enter/send", got)
	}
	for _, sc := range got {
		if sc[0] == "ctrl+d" {
			t.Error("only the first key of an action should be listed")
		}
	}
}
