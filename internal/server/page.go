package server

import (
	"bytes"
	"html/template"
	"net/http"
)

type page struct {
	Title   string
	Chart   []byte
	BackURL string
	Curated bool
}

// SVG returns the chart markup for inline embedding. The markup is produced
// by the svg encoder, which escapes all user-provided text.
func (p page) SVG() template.HTML { return template.HTML(p.Chart) }

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { margin: 0; font-family: "Go", "Helvetica Neue", Arial, sans-serif; background: #f9fafb; color: #333; }
  main { max-width: 960px; margin: 24px auto; padding: 0 16px; }
  .chart { background: #fff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,.1); padding: 8px; }
  .back { display: inline-block; margin-bottom: 12px; color: #4b5563; text-decoration: none; }
  .note { color: #666; font-size: 13px; }
</style>
</head>
<body>
<main>
{{- if .BackURL}}
<a class="back" href="{{.BackURL}}">&larr; Back to overview</a>
{{- end}}
<div class="chart">{{.SVG}}</div>
{{- if and .BackURL (not .Curated)}}
<p class="note">No curated aspects exist for this category; placeholders are shown.</p>
{{- end}}
</main>
</body>
</html>
`))

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, p page) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
