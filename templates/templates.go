// Package templates embeds the HTML template set.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
