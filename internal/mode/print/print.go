// ABOUTME: Headless print mode: answers one utterance and writes text, markdown, JSON or a trace
// ABOUTME: Reads the utterance from stdin when none is given; styles markdown only on a terminal

package print

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mauromedda/pi-offline-go/internal/render"
	"github.com/mauromedda/pi-offline-go/internal/session"
)

// Output formats.
const (
	FormatText  = "text"  // raw markdown
	FormatStyle = "style" // glamour-rendered on a terminal, raw otherwise
	FormatJSON  = "json"  // reply plus classification
	FormatTrace = "trace" // every intermediate value
)

// Config configures print mode execution.
type Config struct {
	OutputFormat string    // defaults to FormatStyle
	Out          io.Writer // defaults to os.Stdout
	In           io.Reader // defaults to os.Stdin; read when the prompt is empty
	Style        string    // glamour style for FormatStyle
}

type jsonOutput struct {
	SessionID  string   `json:"session_id,omitempty"`
	Reply      string   `json:"reply"`
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Entities   []string `json:"entities"`
}

// Run answers prompt within sess and writes the result to cfg.Out.
func Run(ctx context.Context, sess *session.Session, cfg Config, prompt string) error {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = FormatStyle
	}
	f, err := newFormatter(cfg)
	if err != nil {
		return err
	}

	if strings.TrimSpace(prompt) == "" {
		data, err := io.ReadAll(cfg.In)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}

	ex, err := sess.Send(ctx, prompt)
	if err != nil && ex.Reply.Content == "" {
		return err
	}
	if ferr := f(cfg.Out, sess.ID, ex); ferr != nil {
		return ferr
	}
	return err
}

type formatter func(w io.Writer, sessionID string, ex session.Exchange) error

func newFormatter(cfg Config) (formatter, error) {
	switch cfg.OutputFormat {
	case FormatText:
		return writeText, nil
	case FormatStyle:
		if !render.IsTerminal(cfg.Out) {
			return writeText, nil
		}
		md := render.NewMarkdown(cfg.Style)
		width := render.Width(cfg.Out)
		return func(w io.Writer, _ string, ex session.Exchange) error {
			_, err := fmt.Fprintln(w, md.Render(ex.Reply.Content, width))
			return err
		}, nil
	case FormatJSON:
		return writeJSON, nil
	case FormatTrace:
		return writeTrace, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, style, json or trace)", cfg.OutputFormat)
	}
}

func writeText(w io.Writer, _ string, ex session.Exchange) error {
	_, err := fmt.Fprintln(w, ex.Reply.Content)
	return err
}

func writeJSON(w io.Writer, sessionID string, ex session.Exchange) error {
	entities := make([]string, len(ex.Trace.Entities))
	for i, e := range ex.Trace.Entities {
		entities[i] = string(e)
	}
	return encode(w, jsonOutput{
		SessionID:  sessionID,
		Reply:      ex.Reply.Content,
		Intent:     ex.Trace.Intent.String(),
		Confidence: ex.Trace.Confidence,
		Entities:   entities,
	})
}

func writeTrace(w io.Writer, _ string, ex session.Exchange) error {
	return encode(w, ex.Trace)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
