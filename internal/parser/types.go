package parser

import "strings"

// Media types the rest of the pipeline cares about
const (
	MediaTypeHTML  = "text/html"
	MediaTypePlain = "text/plain"

	// MediaTypeMessage marks an attached message whose own parts are flattened in place
	MediaTypeMessage = "message/rfc822"
)

// ParsedMessage represents one parsed message file: its headers and the
// flattened leaf parts of its body, in declaration order
type ParsedMessage struct {
	Headers Headers
	Parts   []ContentPart
}

// ContentPart represents one leaf section of a message body
type ContentPart struct {
	MediaType string
	Text      string
}

// Headers maps lower-cased header names to their decoded values
type Headers map[string]string

// Get returns the value for name, matched case-insensitively, or "" when absent
func (h Headers) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Lookup is like Get but also reports whether the header was present
func (h Headers) Lookup(name string) (string, bool) {
	v, ok := h[strings.ToLower(name)]
	return v, ok
}

func (m *ParsedMessage) Subject() string { return m.Headers.Get("Subject") }
func (m *ParsedMessage) From() string    { return m.Headers.Get("From") }
func (m *ParsedMessage) To() string      { return m.Headers.Get("To") }
func (m *ParsedMessage) Date() string    { return m.Headers.Get("Date") }
