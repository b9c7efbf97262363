// Package templates embeds the HTML pages of the site.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html includes/*.html about/*.html misc/*.html auth/*.html admin/*.html
var files embed.FS

// Parse builds the full template set. Every file declares its templates with
// an explicit define, named after its path.
func Parse(funcs template.FuncMap) (*template.Template, error) {
	return template.New("yatube").Funcs(funcs).ParseFS(files,
		"includes/*.html",
		"*.html",
		"about/*.html",
		"misc/*.html",
		"auth/*.html",
		"admin/*.html",
	)
}
