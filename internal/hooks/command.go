// ABOUTME: Shell command executor for hook definitions
// ABOUTME: Pipes Input as JSON to stdin, parses Output from stdout, kills the group on timeout

package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const hookTimeout = 10 * time.Second

// runHookCommand executes command with input piped to stdin as JSON.
// A non-zero exit is an error carrying the hook's message or stderr.
func runHookCommand(ctx context.Context, command string, input Input) (Output, error) {
	ctx, cancel := context.WithTimeout(ctx, hookTimeout)
	defer cancel()

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return Output{}, fmt.Errorf("marshal hook input: %w", err)
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = bytes.NewReader(inputJSON)
	setProcGroup(cmd)
	cmd.Cancel = func() error {
		return killProcGroup(cmd)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return Output{}, fmt.Errorf("timed out after %v: %w", hookTimeout, ctx.Err())
	}

	var out Output
	if raw := bytes.TrimSpace(stdout.Bytes()); len(raw) > 0 {
		if raw[0] == '{' {
			if err := json.Unmarshal(raw, &out); err != nil {
				return Output{}, fmt.Errorf("parse hook output (raw: %q): %w", raw, err)
			}
		} else {
			out.Message = string(raw)
		}
	}

	if runErr != nil {
		detail := out.Message
		if detail == "" {
			detail = strings.TrimSpace(stderr.String())
		}
		if detail == "" {
			return out, runErr
		}
		return out, fmt.Errorf("%w: %s", runErr, detail)
	}
	return out, nil
}
