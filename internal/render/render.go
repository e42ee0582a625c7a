// Package render turns a parsed message into the HTML document handed to
// the PDF renderer.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/felo/eml2pdf/internal/parser"
)

// Placeholders for missing headers
const (
	DefaultTitle   = "Email PDF"
	DefaultSubject = "No Subject"
	DefaultField   = "Unknown"
)

//go:embed templates/*.html
var templates embed.FS

var documentTemplate = template.Must(template.ParseFS(templates, "templates/document.html"))

type documentData struct {
	Title   string
	Subject string
	From    string
	To      string
	Date    string
	Body    template.HTML
}

// SelectBody picks the body representation for a message: the first
// text/html part verbatim, otherwise the first text/plain part escaped inside
// a <pre> block, otherwise "".
func SelectBody(parts []parser.ContentPart) string {
	for _, p := range parts {
		if p.MediaType == parser.MediaTypeHTML {
			return p.Text
		}
	}
	for _, p := range parts {
		if p.MediaType == parser.MediaTypePlain {
			return "<pre>" + html.EscapeString(p.Text) + "</pre>"
		}
	}
	return ""
}

// Document renders the full HTML document for the given headers and
// already-selected body. The body is inserted as-is.
func Document(headers parser.Headers, body string) (string, error) {
	subject := headers.Get("Subject")
	data := documentData{
		Title:   orDefault(subject, DefaultTitle),
		Subject: orDefault(subject, DefaultSubject),
		From:    orDefault(headers.Get("From"), DefaultField),
		To:      orDefault(headers.Get("To"), DefaultField),
		Date:    orDefault(headers.Get("Date"), DefaultField),
		Body:    template.HTML(body),
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render document: %w", err)
	}
	return buf.String(), nil
}

// Message selects the body of msg, runs it through s when s is non-nil and
// renders the document.
func Message(msg *parser.ParsedMessage, s *Sanitizer) (string, error) {
	body := SelectBody(msg.Parts)
	if s != nil {
		body = s.Sanitize(body)
	}
	return Document(msg.Headers, body)
}

// Sanitizer strips scripts, event handlers and other active content from
// message bodies
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer returns a sanitizer backed by bluemonday's UGC policy
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

func (s *Sanitizer) Sanitize(body string) string {
	return s.policy.Sanitize(body)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
