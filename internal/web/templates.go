package web

import (
	"embed"
	"encoding/json"
	"html/template"
	"math"
	"strings"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

func newTemplates() *template.Template {
	funcMap := template.FuncMap{
		"join": func(vals []string, sep string) string {
			return strings.Join(vals, sep)
		},
		"ratingStars": func(rating float64) string {
			full := int(math.Floor(rating))
			half := rating-float64(full) >= 0.5
			var b strings.Builder
			for i := 0; i < full; i++ {
				b.WriteRune('★')
			}
			if half {
				b.WriteRune('⯨')
			}
			for i := full + boolToInt(half); i < 5; i++ {
				b.WriteRune('☆')
			}
			return b.String()
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006 at 3:04 PM")
		},
		"json": func(v any) string {
			b, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(b)
		},
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
