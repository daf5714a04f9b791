package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"todoApp/internal/models/todo"
)

//go:embed templates/index.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

var indexTmpl = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{
			"pathEscape": func(id todo.ID) string { return url.PathEscape(id.String()) },
		}).
		ParseFS(templatesFS, "templates/index.html"),
)

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
