// ABOUTME: Template variable resolution for reply fragments using text/template
// ABOUTME: Replaces {{.Var}} placeholders; values are inserted verbatim, never re-parsed

package replies

import (
	"bytes"
	"fmt"
	"text/template"
)

// Vars holds the values substituted into a reply template.
type Vars map[string]string

// RenderVariables executes content as a template over vars.
// Undefined variables produce empty strings.
func RenderVariables(content string, vars Vars) (string, error) {
	tmpl, err := template.New("reply").Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string(vars)); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
