// ABOUTME: HTML exporter for conversations using html/template and goldmark
// ABOUTME: Reply markdown is converted with GFM extensions; user text is always escaped

package export

import (
	"bytes"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mauromedda/pi-offline-go/internal/conversation"
)

// Meta describes the exported conversation.
type Meta struct {
	Title     string
	SessionID string
	Exported  time.Time
}

func (m Meta) title() string {
	if m.Title != "" {
		return m.Title
	}
	if m.SessionID != "" {
		return "Sohbet " + m.SessionID
	}
	return "Sohbet"
}

// md renders GFM without raw HTML passthrough, so replies cannot inject markup.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

type htmlTurn struct {
	Role conversation.Role
	Time string
	Body template.HTML
}

type htmlPage struct {
	Title    string
	Exported string
	Turns    []htmlTurn
}

// HTML renders h as a styled HTML document to w. Assistant turns are
// converted from markdown; user turns are escaped verbatim.
func HTML(w io.Writer, h conversation.History, meta Meta) error {
	page := htmlPage{Title: meta.title(), Exported: stamp(meta.Exported)}
	for _, t := range h {
		body, err := turnHTML(t)
		if err != nil {
			return err
		}
		page.Turns = append(page.Turns, htmlTurn{Role: t.Role, Time: stamp(t.Timestamp), Body: body})
	}
	return htmlTmpl.Execute(w, page)
}

func turnHTML(t conversation.Turn) (template.HTML, error) {
	if t.Role != conversation.RoleAssistant {
		return escapeNewlines(t.Content), nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(t.Content), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// escapeNewlines converts newlines to <br> for HTML rendering.
func escapeNewlines(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>\n"))
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

var htmlTmpl = template.Must(template.New("conversation").Parse(htmlTemplate))

const htmlTemplate = `<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{ .Title }}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    background: #1e1e2e;
    color: #cdd6f4;
    font-family: -apple-system, 'Segoe UI', sans-serif;
    font-size: 15px;
    line-height: 1.6;
    padding: 24px;
    max-width: 900px;
    margin: 0 auto;
  }
  h1.title { font-size: 20px; margin-bottom: 4px; }
  .exported { color: #9399b2; font-size: 12px; margin-bottom: 24px; }
  .turn {
    margin-bottom: 16px;
    padding: 12px 16px;
    border-radius: 8px;
    border-left: 4px solid;
  }
  .turn.user { border-left-color: #89b4fa; }
  .turn.assistant { border-left-color: #a6e3a1; }
  .role-badge {
    display: inline-block;
    font-size: 11px;
    font-weight: 600;
    text-transform: uppercase;
    letter-spacing: 0.5px;
    padding: 2px 8px;
    border-radius: 4px;
    margin-bottom: 8px;
  }
  .user .role-badge { background: #89b4fa22; color: #89b4fa; }
  .assistant .role-badge { background: #a6e3a122; color: #a6e3a1; }
  .time { color: #9399b2; font-size: 11px; margin-left: 8px; }
  .body h2, .body h3 { margin: 8px 0; }
  .body ul, .body ol { margin: 8px 0 8px 24px; }
  .body pre {
    background: #313244;
    padding: 8px 12px;
    border-radius: 6px;
    overflow-x: auto;
    margin: 8px 0;
  }
  .body code { font-family: 'SF Mono', 'Fira Code', monospace; font-size: 13px; }
  .body table { border-collapse: collapse; margin: 8px 0; }
  .body th, .body td { border: 1px solid #45475a; padding: 4px 10px; }
</style>
</head>
<body>
<h1 class="title">{{ .Title }}</h1>
{{- if .Exported }}
<div class="exported">{{ .Exported }}</div>
{{- end }}
{{- range .Turns }}
<div class="turn {{ .Role }}">
  <span class="role-badge">{{ .Role }}</span>{{ if .Time }}<span class="time">{{ .Time }}</span>{{ end }}
  <div class="body">{{ .Body }}</div>
</div>
{{- end }}
</body>
</html>
`
