// Package static embeds the stylesheet and script assets.
package static

import "embed"

//go:embed css js
var FS embed.FS
