package server

import (
	"bytes"
	"html/template"
	"strings"
)

// renderQuestion renders q as inline markdown (emphasis, code spans). Raw HTML
// from the model is escaped, and anything that is not a single paragraph is
// shown as plain escaped text so one question stays one list item.
func (s *Server) renderQuestion(q string) template.HTML {
	plain := template.HTML(template.HTMLEscapeString(q))

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(strings.ReplaceAll(q, "<", "&lt;")), &buf); err != nil {
		return plain
	}
	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "<p>") || !strings.HasSuffix(out, "</p>") || strings.Count(out, "<p>") != 1 {
		return plain
	}
	return template.HTML(strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>"))
}
