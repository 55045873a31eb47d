package fsworkspace

import "embed"

const templatesDir = "templates"

//go:embed templates
var templatesFS embed.FS
