// Package assets holds templates shipped with the binary.
package assets

import "embed"

//go:embed templates/*.md templates/partials/*.md
var Templates embed.FS
