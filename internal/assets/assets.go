// Package assets embeds the web view's templates and stylesheet.
package assets

import "embed"

//go:embed templates/*.html
var TemplateFS embed.FS

//go:embed static/*
var StaticFS embed.FS
