// ABOUTME: Markdown and JSON transcript exporters for conversations
// ABOUTME: Format is chosen from the target file extension by Write

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mauromedda/pi-offline-go/internal/conversation"
)

// Markdown writes h as a markdown transcript.
func Markdown(w io.Writer, h conversation.History, meta Meta) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", meta.title())
	if s := stamp(meta.Exported); s != "" {
		fmt.Fprintf(&b, "_%s_\n\n", s)
	}
	for _, t := range h {
		switch t.Role {
		case conversation.RoleUser:
			b.WriteString("### 👤 Kullanıcı\n\n")
			for _, line := range strings.Split(t.Content, "\n") {
				b.WriteString("> " + line + "\n")
			}
		default:
			b.WriteString("### 🤖 Asistan\n\n")
			b.WriteString(strings.TrimRight(t.Content, "\n") + "\n")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes h as an indented JSON array of turns.
func JSON(w io.Writer, h conversation.History) error {
	if h == nil {
		h = conversation.History{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}

// Write exports h to path. The extension selects the format: .html/.htm,
// .json, anything else is markdown.
func Write(path string, h conversation.History, meta Meta) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		err = HTML(f, h, meta)
	case ".json":
		err = JSON(f, h)
	default:
		err = Markdown(f, h, meta)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
