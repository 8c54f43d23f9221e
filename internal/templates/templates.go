// Package templates holds the pages served by sntpal-report.
package templates

import (
	"embed"
	"html/template"
	"strconv"
)

//go:embed templates/*
var resources embed.FS

var funcs = template.FuncMap{
	"millis": func(ms float64) string {
		s := strconv.FormatFloat(ms, 'f', 3, 64)
		if ms > 0 {
			s = "+" + s
		}
		return s + " ms"
	},
}

var TemplateExecutor = template.Must(template.New("").Funcs(funcs).ParseFS(resources, "templates/*"))
