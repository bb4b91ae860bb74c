// ABOUTME: Tests for settings loading, merging and validation
// ABOUTME: Uses temp directories and PI_OFFLINE_HOME for isolated file-based tests

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/oops"
)

func writeJSON(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	seed := uint64(7)
	global := &Settings{Mode: ModeRich, MaxEchoRunes: 40, HistoryLimit: 10}
	project := &Settings{Mode: ModeSimple, Seed: &seed}

	result := merge(global, project)

	if result.Mode != ModeSimple {
		t.Errorf("Mode = %q, want %q", result.Mode, ModeSimple)
	}
	if result.MaxEchoRunes != 40 {
		t.Errorf("MaxEchoRunes = %d, want 40", result.MaxEchoRunes)
	}
	if result.Seed == nil || *result.Seed != 7 {
		t.Errorf("Seed = %v, want 7", result.Seed)
	}
	seed = 9
	if *result.Seed != 7 {
		t.Error("merged Seed aliases the project value")
	}
}

func TestMerge_Nil(t *testing.T) {
	t.Parallel()

	if merge(nil, nil) == nil {
		t.Fatal("merge(nil, nil) should return non-nil")
	}
}

func TestMerge_EnvMerge(t *testing.T) {
	t.Parallel()

	global := &Settings{Env: map[string]string{"A": "1", "B": "2"}}
	project := &Settings{Env: map[string]string{"B": "override", "C": "3"}}

	result := merge(global, project)

	if result.Env["A"] != "1" || result.Env["B"] != "override" || result.Env["C"] != "3" {
		t.Errorf("Env = %v", result.Env)
	}
	if global.Env["B"] != "2" {
		t.Error("merge mutated the global env map")
	}
}

func TestLoadFile_NotExist(t *testing.T) {
	t.Parallel()

	s, err := loadFile("/nonexistent/path/config.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if s == nil {
		t.Error("expected empty Settings for missing file")
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	writeJSON(t, path, "{not json")

	_, err := loadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	oe, ok := oops.AsOops(err)
	if !ok {
		t.Fatalf("expected oops error, got %T", err)
	}
	if oe.Domain() != "config" || oe.Context()["path"] != path {
		t.Errorf("domain = %q, context = %v", oe.Domain(), oe.Context())
	}
}

func TestLoad_GlobalAndProject(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv(HomeEnv, home)

	writeJSON(t, filepath.Join(home, "config.json"), `{"mode":"simple","max_echo_runes":30,"verbose":true}`)
	writeJSON(t, ProjectConfigFile(project), `{"mode":"rich","topics_user_only":true,"seed":42}`)

	s, err := Load(project)
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != ModeRich {
		t.Errorf("Mode = %q; project should win", s.Mode)
	}
	if s.MaxEchoRunes != 30 || !s.Verbose {
		t.Errorf("global values lost: %+v", s)
	}
	if !s.TopicsUserOnly || s.Seed == nil || *s.Seed != 42 {
		t.Errorf("project values lost: %+v", s)
	}
	if s.HistoryLimit != 50 {
		t.Errorf("HistoryLimit = %d; want default 50", s.HistoryLimit)
	}
	if s.RepliesDir != filepath.Join(home, "replies") {
		t.Errorf("RepliesDir = %q", s.RepliesDir)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	s, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if s.Mode != ModeRich || s.IsSimple() {
		t.Errorf("Mode = %q; want rich default", s.Mode)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, home)
	writeJSON(t, filepath.Join(home, "config.json"), `{"mode":"loud"}`)

	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected validation error for mode=loud")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"defaults", *Defaults(), false},
		{"empty", Settings{}, false},
		{"simple", Settings{Mode: ModeSimple}, false},
		{"bad mode", Settings{Mode: "x"}, true},
		{"negative echo", Settings{MaxEchoRunes: -1}, true},
		{"huge echo", Settings{MaxEchoRunes: 5000}, true},
		{"negative history", Settings{HistoryLimit: -2}, true},
		{"hook ok", Settings{Hooks: map[string][]HookDef{"exchange": {{Command: "true"}}}}, false},
		{"hook unknown event", Settings{Hooks: map[string][]HookDef{"PreToolUse": {{Command: "true"}}}}, true},
		{"hook without command", Settings{Hooks: map[string][]HookDef{"transition": {{Matcher: "debug"}}}}, true},
		{"status line padding", Settings{StatusLine: StatusLineConfig{Command: "date", Padding: 40}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge_HooksReplacedPerEvent(t *testing.T) {
	t.Parallel()

	global := &Settings{Hooks: map[string][]HookDef{
		"exchange":   {{Command: "global-exchange"}},
		"transition": {{Command: "global-transition"}},
	}}
	project := &Settings{Hooks: map[string][]HookDef{
		"exchange": {{Command: "project-exchange"}},
	}}
	got := merge(global, project)

	if c := got.Hooks["exchange"][0].Command; c != "project-exchange" {
		t.Errorf("exchange hook = %q; want project-exchange", c)
	}
	if c := got.Hooks["transition"][0].Command; c != "global-transition" {
		t.Errorf("transition hook = %q; want global-transition", c)
	}
	if _, ok := global.Hooks["exchange"]; !ok || global.Hooks["exchange"][0].Command != "global-exchange" {
		t.Error("merge mutated the global hooks")
	}
}

func TestMerge_StatusLine(t *testing.T) {
	t.Parallel()

	global := &Settings{StatusLine: StatusLineConfig{Command: "global-status", Padding: 2}}

	got := merge(global, &Settings{Mode: ModeSimple})
	if got.StatusLine.Command != "global-status" || got.StatusLine.Padding != 2 {
		t.Errorf("status line = %+v; want global kept", got.StatusLine)
	}

	got = merge(global, &Settings{StatusLine: StatusLineConfig{Command: "project-status"}})
	if got.StatusLine.Command != "project-status" || got.StatusLine.Padding != 0 {
		t.Errorf("status line = %+v; want project replaces global", got.StatusLine)
	}
}
