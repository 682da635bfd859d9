package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/absurd-industries/guild/internal/campaign"
)

// loadTemplates parses the shared template set with the formatting helpers
// used across pages.
func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"price":    campaign.FormatPrice,
		"progress": campaign.Progress,
		"rupees":   func(paise int64) float64 { return float64(paise) / 100 },
		"intval": func(p *int64) int64 {
			if p == nil {
				return 0
			}
			return *p
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseGlob("web/templates/*.html"))
}

func render(w http.ResponseWriter, tmpl *template.Template, logger *slog.Logger, name string, data any) {
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("render template", "template", name, "error", err)
	}
}
