package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/stormlightlabs/clipstash/internal/assets"
)

var templates *template.Template

func init() {
	var err error
	templates, err = template.New("").Funcs(template.FuncMap{
		"copied": func(ts int64) string { return time.Unix(ts, 0).Format("2006-01-02 15:04:05") },
	}).ParseFS(assets.TemplateFS, "templates/*.html")
	if err != nil {
		panic(fmt.Sprintf("failed to parse templates: %v", err))
	}
}

func (s *Server) renderTemplate(w io.Writer, name string, data any) error {
	return templates.ExecuteTemplate(w, name, data)
}
