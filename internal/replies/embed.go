// ABOUTME: Embeds the default reply templates and variant pools into the binary
// ABOUTME: Disk overrides shadow these files key by key

package replies

import "embed"

//go:embed all:templates
var embeddedFS embed.FS
