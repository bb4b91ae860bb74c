// ABOUTME: Markdown renderer wrapper around glamour for terminal output
// ABOUTME: Caches rendered replies keyed by content hash, width and style

package render

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Glamour style names accepted by NewMarkdown besides "auto".
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// Markdown renders reply markdown for a terminal. Safe for concurrent use.
type Markdown struct {
	style string

	mu    sync.Mutex
	cache map[string]string // "hash:width" -> rendered
}

// NewMarkdown creates a renderer for a glamour style. An empty style
// detects the terminal background.
func NewMarkdown(style string) *Markdown {
	if style == "" {
		style = StyleAuto
	}
	return &Markdown{style: style, cache: make(map[string]string)}
}

// Render returns the terminal-styled rendering of md wrapped at width.
// When glamour fails the raw markdown is returned.
func (r *Markdown) Render(md string, width int) string {
	if md == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}

	key := cacheKey(md, width)
	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached
	}

	styleOpt := glamour.WithStandardStyle(r.style)
	if r.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	// Trim trailing whitespace that glamour adds
	rendered = strings.TrimRight(rendered, "\n ")

	r.mu.Lock()
	r.cache[key] = rendered
	r.mu.Unlock()
	return rendered
}

// cacheKey produces a string key from content hash and width.
func cacheKey(content string, width int) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x:%d", h[:8], width)
}
