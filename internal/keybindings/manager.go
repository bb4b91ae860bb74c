// ABOUTME: Keybindings manager for the interactive chat with O(1) key-to-action lookup
// ABOUTME: Merges defaults with global and project keybindings.json, detects conflicts, supports reload

package keybindings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mauromedda/pi-offline-go/internal/log"
)

// Action is something a key can trigger in the chat.
type Action string

const (
	ActionSubmit       Action = "submit"
	ActionExit         Action = "exit"
	ActionClearScreen  Action = "clear_screen"
	ActionReload       Action = "reload"
	ActionAcceptGhost  Action = "accept_suggestion"
	ActionHistoryPrev  Action = "history_prev"
	ActionHistoryNext  Action = "history_next"
	ActionClearHistory Action = "clear_history"
)

// Keys are written the way Bubble Tea prints them: "ctrl+c", "enter", "alt+up".
var defaults = map[Action][]string{
	ActionSubmit:       {"enter"},
	ActionExit:         {"ctrl+c", "ctrl+d"},
	ActionClearScreen:  {"ctrl+l"},
	ActionReload:       {"ctrl+r"},
	ActionAcceptGhost:  {"tab"},
	ActionHistoryPrev:  {"up"},
	ActionHistoryNext:  {"down"},
	ActionClearHistory: {},
}

var actionOrder = []struct {
	action Action
	desc   string
}{
	{ActionSubmit, "send"},
	{ActionAcceptGhost, "complete command"},
	{ActionHistoryPrev, "previous input"},
	{ActionHistoryNext, "next input"},
	{ActionClearScreen, "clear screen"},
	{ActionClearHistory, "clear conversation"},
	{ActionReload, "reload templates"},
	{ActionExit, "exit"},
}

// file is the on-disk format: {"bindings": {"exit": ["ctrl+q"]}}.
type file struct {
	Bindings map[Action][]string `json:"bindings"`
}

// ConflictInfo describes a binding conflict where multiple actions share a key.
type ConflictInfo struct {
	Key     string
	Actions []Action
}

// Manager provides O(1) key-to-action lookup from merged keybindings.
type Manager struct {
	bindings map[Action][]string
	lookup   map[string]Action
}

// Default returns a Manager with the built-in bindings only.
func Default() *Manager {
	m := &Manager{bindings: maps.Clone(defaults)}
	m.buildLookup()
	return m
}

// New creates a Manager from global and project keybinding files.
// Project bindings override global ones per action. Missing files are
// ignored; malformed ones are logged and skipped.
func New(globalPath, projectPath string) *Manager {
	m := &Manager{}
	m.Reload(globalPath, projectPath)
	return m
}

// Reload re-reads keybinding files and rebuilds the lookup table.
func (m *Manager) Reload(globalPath, projectPath string) {
	kb := maps.Clone(defaults)
	for _, path := range []string{globalPath, projectPath} {
		if path == "" {
			continue
		}
		overrides, err := load(path)
		if err != nil {
			log.Warn("keybindings: %v", err)
			continue
		}
		maps.Copy(kb, overrides)
	}
	m.bindings = kb
	m.buildLookup()
}

// ActionFor returns the action bound to key, or "" if unbound.
func (m *Manager) ActionFor(key string) Action {
	return m.lookup[key]
}

// Keys returns the keys bound to a.
func (m *Manager) Keys(a Action) []string {
	return m.bindings[a]
}

// Conflicts detects keys bound to multiple actions, sorted by key.
func (m *Manager) Conflicts() []ConflictInfo {
	keyActions := make(map[string][]Action)
	for action, keys := range m.bindings {
		for _, k := range keys {
			keyActions[k] = append(keyActions[k], action)
		}
	}

	var conflicts []ConflictInfo
	for k, actions := range keyActions {
		if len(actions) > 1 {
			slices.Sort(actions)
			conflicts = append(conflicts, ConflictInfo{Key: k, Actions: actions})
		}
	}
	slices.SortFunc(conflicts, func(a, b ConflictInfo) int { return strings.Compare(a.Key, b.Key) })
	return conflicts
}

// FormatAll returns a table of all bound actions for /hotkeys.
func (m *Manager) FormatAll() string {
	var b strings.Builder
	b.WriteString("Keybindings:\n\n")
	for _, a := range actionOrder {
		keys := m.bindings[a.action]
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "  %-16s %s\n", strings.Join(keys, ", "), a.desc)
	}
	for _, c := range m.Conflicts() {
		fmt.Fprintf(&b, "\n  warning: %s is bound to %v", c.Key, c.Actions)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Shortcuts returns key/description pairs for the welcome banner.
// Each bound action contributes its first key.
func (m *Manager) Shortcuts() [][2]string {
	out := make([][2]string, 0, len(actionOrder))
	for _, a := range actionOrder {
		if keys := m.bindings[a.action]; len(keys) > 0 {
			out = append(out, [2]string{keys[0], a.desc})
		}
	}
	return out
}

func (m *Manager) buildLookup() {
	m.lookup = make(map[string]Action, len(m.bindings)*2)
	// Walk in display order so a conflict resolves to the same action every run.
	for i := len(actionOrder) - 1; i >= 0; i-- {
		a := actionOrder[i].action
		for _, k := range m.bindings[a] {
			m.lookup[k] = a
		}
	}
}

func load(path string) (map[Action][]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for a := range f.Bindings {
		if _, ok := defaults[a]; !ok {
			log.Warn("keybindings: %s: unknown action %q ignored", path, a)
			delete(f.Bindings, a)
		}
	}
	return f.Bindings, nil
}
