// ABOUTME: External command engine for custom chat footer content
// ABOUTME: Pipes the conversation state as JSON to a shell command and keeps its first output line

package statusline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Input is piped to the status line command as JSON.
type Input struct {
	CWD        string   `json:"cwd"`
	SessionID  string   `json:"session_id,omitempty"`
	Mode       string   `json:"mode"`
	Intent     string   `json:"intent,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
	Turns      int      `json:"turns"`
	Topics     []string `json:"topics,omitempty"`
}

// Engine executes an external command to produce status line content.
type Engine struct {
	command string
	padding int
}

// New creates a status line engine with the given shell command and padding.
func New(command string, padding int) *Engine {
	return &Engine{
		command: command,
		padding: padding,
	}
}

// HasCommand reports whether an external command is configured.
func (e *Engine) HasCommand() bool {
	return e != nil && e.command != ""
}

// Execute runs the configured command with input on stdin and returns the
// first non-empty line of its output, trimmed and padded. A 5-second
// timeout applies when ctx has no deadline.
func (e *Engine) Execute(ctx context.Context, input Input) (string, error) {
	if !e.HasCommand() {
		return "", errors.New("no status line command configured")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("marshaling input: %w", err)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", e.command)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Dir = input.CWD
	cmd.WaitDelay = time.Second

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running status line command: %w", err)
	}

	result := firstLine(stdout.String())
	if result != "" && e.padding > 0 {
		result = strings.Repeat(" ", e.padding) + result
	}
	return result, nil
}

func firstLine(s string) string {
	for line := range strings.Lines(s) {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}
