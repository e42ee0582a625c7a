// Package web embeds the preview server templates.
package web

import "embed"

//go:embed templates
var Assets embed.FS
