package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates holds the parsed page templates
var Templates = template.Must(template.ParseFS(files, "templates/*.html"))
