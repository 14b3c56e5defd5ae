package traps

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/sundew-sh/sundew/pkg/interpolate"
	"github.com/sundew-sh/sundew/pkg/models"
)

// ErrorBody renders an error response shaped by the persona's error_style,
// so that the honeypot's failure modes look as distinctive as its success
// responses. Returns the encoded body and the content type it must be
// served with.
func ErrorBody(p models.Persona, status int, errorType, message string) ([]byte, string) {
	switch p.ErrorStyle {
	case models.ErrorStyleRFC7807:
		doc := map[string]any{
			"type":     "about:blank#" + errorType,
			"title":    titleCase(strings.ReplaceAll(errorType, "_", " ")),
			"status":   status,
			"detail":   message,
			"instance": "/errors/" + interpolate.String("{{request_id}}", nil),
		}
		b, _ := json.Marshal(doc)
		return b, "application/json"

	case models.ErrorStyleXML:
		body := fmt.Sprintf(
			"<?xml version=\"1.0\"?>\n<error><code>%s</code><message>%s</message><status>%d</status></error>",
			html.EscapeString(errorType), html.EscapeString(message), status,
		)
		return []byte(body), "application/xml"

	case models.ErrorStyleHTML:
		body := fmt.Sprintf("<html><body><h1>%d</h1><p>%s</p></body></html>", status, html.EscapeString(message))
		return []byte(body), "text/html"

	default: // simple_json
		doc := map[string]any{"error": errorType, "message": message, "status": status}
		b, _ := json.Marshal(doc)
		return b, "application/json"
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
