// ABOUTME: Slash command registry and dispatch for interactive and rpc modes
// ABOUTME: Commands inspect or reset the conversation; unknown names get fuzzy suggestions

package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mauromedda/pi-offline-go/internal/changelog"
	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/intent"
	"github.com/mauromedda/pi-offline-go/internal/session"
	"github.com/mauromedda/pi-offline-go/internal/textnorm"
)

// Command represents a slash command.
type Command struct {
	Name        string
	Description string
	Execute     func(ctx *CommandContext, args string) (string, error)
}

// CommandContext provides access to app state for commands.
type CommandContext struct {
	SessionID string
	Mode      string
	Version   string

	// Conversation accessors. All nilable; commands return "not available" when nil.
	History       func() conversation.History
	Topics        func() []entity.Label
	CurrentIntent func() (intent.Intent, []intent.Intent)
	Analyze       func(string) engine.Result
	ClearHistory  func() error

	// Exit callback. Nilable; /exit returns "not available" when nil.
	ExitFn func()

	// ClearTUI clears the visual TUI (screen + components). Nilable.
	ClearTUI func()

	ExportConversation func(path string) error
	ListSessions       func() ([]session.Info, error)
	ResumeSession      func(id string) error
	ReloadFn           func() (string, error)

	// Hotkeys returns the key binding table. Nilable.
	Hotkeys func() string
}

// Registry holds all registered slash commands.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates a registry with all core commands registered.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	r.registerCoreCommands()
	return r
}

// Get returns a command by name.
// The second return value indicates whether the name was found.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns all commands sorted by name for deterministic output.
func (r *Registry) List() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns every command name, sorted.
func (r *Registry) Names() []string {
	cmds := r.List()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// Suggest returns command names fuzzily matching partial, best match first.
// An empty partial returns every name.
func (r *Registry) Suggest(partial string) []string {
	partial = strings.TrimPrefix(strings.TrimSpace(partial), "/")
	names := r.Names()
	if partial == "" {
		return names
	}
	matches := fuzzy.Find(partial, names)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Dispatch parses a "/command args" input, looks up the command, and executes it.
// Returns the command output or an error if the command is not found.
func (r *Registry) Dispatch(ctx *CommandContext, input string) (string, error) {
	input = strings.TrimSpace(input)
	if !IsCommand(input) {
		return "", fmt.Errorf("not a command: %q", input)
	}

	// Strip leading '/' and split into command name + args.
	name, args, _ := strings.Cut(input[1:], " ")
	args = strings.TrimSpace(args)

	cmd, ok := r.commands[strings.ToLower(name)]
	if !ok {
		if s := r.Suggest(name); len(s) > 0 {
			return "", fmt.Errorf("unknown command: /%s (did you mean /%s?)", name, s[0])
		}
		return "", fmt.Errorf("unknown command: /%s", name)
	}
	return cmd.Execute(ctx, args)
}

// IsCommand returns true if input starts with '/'.
func IsCommand(input string) bool {
	return len(input) > 0 && input[0] == '/'
}

// registerCoreCommands adds all built-in slash commands to the registry.
func (r *Registry) registerCoreCommands() {
	core := []*Command{
		{
			Name:        "analyze",
			Description: "Classify text without answering it",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				if ctx.Analyze == nil {
					return "Analyze not available.", nil
				}
				if args == "" {
					return "Usage: /analyze <text>", nil
				}
				res := ctx.Analyze(args)
				return fmt.Sprintf(
					"Intent:     %s\nConfidence: %.2f\nEntities:   %s",
					res.Intent, res.Confidence, joinLabels(res.Entities),
				), nil
			},
		},
		{
			Name:        "changelog",
			Description: "Show what changed in the latest release",
			Execute: func(_ *CommandContext, args string) (string, error) {
				if args == "all" {
					return changelog.Get(), nil
				}
				if latest := changelog.Latest(); latest != "" {
					return latest, nil
				}
				return changelog.Get(), nil
			},
		},
		{
			Name:        "clear",
			Description: "Clear conversation history",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ClearHistory == nil {
					return "Clear not available.", nil
				}
				if err := ctx.ClearHistory(); err != nil {
					return "", fmt.Errorf("clear history: %w", err)
				}
				if ctx.ClearTUI != nil {
					ctx.ClearTUI()
				}
				return "Conversation cleared.", nil
			},
		},
		{
			Name:        "exit",
			Description: "Exit the application",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ExitFn == nil {
					return "Exit not available.", nil
				}
				ctx.ExitFn()
				return "Görüşmek üzere!", nil
			},
		},
		{
			Name:        "export",
			Description: "Export conversation to file (.md, .html, .json)",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				if ctx.ExportConversation == nil {
					return "Export not available.", nil
				}
				if args == "" {
					return "Usage: /export <path>", nil
				}
				if err := ctx.ExportConversation(args); err != nil {
					return "", fmt.Errorf("export conversation: %w", err)
				}
				return fmt.Sprintf("Exported to %s.", args), nil
			},
		},
		{
			Name:        "help",
			Description: "Show available commands",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				var b strings.Builder
				b.WriteString("Available commands:\n")
				for _, cmd := range r.List() {
					fmt.Fprintf(&b, "  /%-9s %s\n", cmd.Name, cmd.Description)
				}
				return b.String(), nil
			},
		},
		{
			Name:        "history",
			Description: "Show the last turns (default 10)",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				if ctx.History == nil {
					return "History not available.", nil
				}
				n := 10
				if args != "" {
					if _, err := fmt.Sscanf(args, "%d", &n); err != nil || n <= 0 {
						return "Usage: /history [n]", nil
					}
				}
				h := ctx.History().Tail(n)
				if len(h) == 0 {
					return "No turns yet.", nil
				}
				var b strings.Builder
				for _, t := range h {
					line := textnorm.Truncate(textnorm.Squash(t.Content), 72)
					fmt.Fprintf(&b, "%-9s %s\n", t.Role+":", line)
				}
				return b.String(), nil
			},
		},
		{
			Name:        "hotkeys",
			Description: "Show key bindings",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.Hotkeys == nil {
					return "Hotkeys not available.", nil
				}
				return ctx.Hotkeys(), nil
			},
		},
		{
			Name:        "intent",
			Description: "Show the conversation's current intent and path",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.CurrentIntent == nil {
					return "Intent tracking not available.", nil
				}
				cur, path := ctx.CurrentIntent()
				if len(path) == 0 {
					return fmt.Sprintf("Current intent: %s", cur), nil
				}
				steps := make([]string, len(path))
				for i, p := range path {
					steps[i] = p.String()
				}
				return fmt.Sprintf("Current intent: %s\nPath: %s", cur, strings.Join(steps, " → ")), nil
			},
		},
		{
			Name:        "reload",
			Description: "Reload configuration and reply templates",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ReloadFn == nil {
					return "Reload not available.", nil
				}
				return ctx.ReloadFn()
			},
		},
		{
			Name:        "resume",
			Description: "Resume a previous session",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				if ctx.ResumeSession == nil {
					return "Resume not available.", nil
				}
				if args == "" {
					return "Usage: /resume <id>", nil
				}
				if err := ctx.ResumeSession(args); err != nil {
					return "", fmt.Errorf("resume session: %w", err)
				}
				return fmt.Sprintf("Resumed session %s.", args), nil
			},
		},
		{
			Name:        "sessions",
			Description: "List stored sessions",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.ListSessions == nil {
					return "Sessions not available.", nil
				}
				list, err := ctx.ListSessions()
				if err != nil {
					return "", fmt.Errorf("list sessions: %w", err)
				}
				if len(list) == 0 {
					return "No stored sessions.", nil
				}
				var b strings.Builder
				for _, s := range list {
					marker := " "
					if s.ID == ctx.SessionID {
						marker = "*"
					}
					fmt.Fprintf(&b, "%s %s  %3d turns  %s\n", marker, s.ID, s.Turns, s.Modified.Format("2006-01-02 15:04"))
				}
				return b.String(), nil
			},
		},
		{
			Name:        "status",
			Description: "Show session status",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				turns := 0
				if ctx.History != nil {
					turns = len(ctx.History())
				}
				return fmt.Sprintf(
					"Session: %s\nMode:    %s\nTurns:   %d\nVersion: %s",
					ctx.SessionID, ctx.Mode, turns, ctx.Version,
				), nil
			},
		},
		{
			Name:        "topics",
			Description: "Show topics mentioned so far, most recent first",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.Topics == nil {
					return "Topics not available.", nil
				}
				topics := ctx.Topics()
				if len(topics) == 0 {
					return "No topics yet.", nil
				}
				return "Topics: " + joinLabels(topics), nil
			},
		},
	}
	for _, cmd := range core {
		r.commands[cmd.Name] = cmd
	}
}

func joinLabels(labels []entity.Label) string {
	if len(labels) == 0 {
		return "-"
	}
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = entity.DisplayName(l)
	}
	return strings.Join(names, ", ")
}
