package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type htmlTemplates struct {
	tmpl *template.Template
}

func mustParseTemplates() *htmlTemplates {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"confirmPrompt": func() string { return ConfirmDeletePrompt },
	}).ParseFS(templateFS, "templates/*.gohtml"))
	return &htmlTemplates{tmpl: tmpl}
}

// WriteHTML writes the full catalog page for screen.
func (r *Renderer) WriteHTML(w io.Writer, screen Screen) error {
	return r.html.tmpl.ExecuteTemplate(w, "index.gohtml", screen)
}

// WriteList writes only the product list region.
func (r *Renderer) WriteList(w io.Writer, screen Screen) error {
	return r.html.tmpl.ExecuteTemplate(w, "list", screen)
}

// WritePagination writes only the pagination region.
func (r *Renderer) WritePagination(w io.Writer, screen Screen) error {
	return r.html.tmpl.ExecuteTemplate(w, "pagination", screen)
}
