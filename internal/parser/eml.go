package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/charset"
	"golang.org/x/text/encoding/charmap"
)

func init() {
	// Register additional charsets that are commonly used in emails
	charset.RegisterEncoding("windows-1252", charmap.Windows1252)
	charset.RegisterEncoding("iso-8859-1", charmap.ISO8859_1)
	charset.RegisterEncoding("iso-8859-15", charmap.ISO8859_15)
}

var foldedLine = regexp.MustCompile(`\r?\n[ \t]+`)

// ParseEMLFile parses an .eml file and returns a ParsedMessage
func ParseEMLFile(filePath string) (*ParsedMessage, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ParseEML(f)
}

// ParseEML parses a message from a reader
func ParseEML(r io.Reader) (*ParsedMessage, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}

	entity, err := message.Read(bytes.NewReader(buf.Bytes()))
	if err != nil && !tolerable(err) {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	parsed := &ParsedMessage{
		Headers: extractHeaders(entity.Header),
	}

	c := &partCollector{}
	c.collect(entity, nil, 0)
	parsed.Parts = c.parts

	return parsed, nil
}

// maxNesting bounds message/rfc822 attachments carried inside one another
const maxNesting = 16

type partCollector struct {
	parts []ContentPart
}

// collect appends the leaf parts of e depth-first, in declaration order.
// Damaged sections are logged and skipped; whatever was read before them is kept.
func (c *partCollector) collect(e *message.Entity, path []int, depth int) {
	if mr := e.MultipartReader(); mr != nil {
		for i := 0; ; i++ {
			part, err := mr.NextPart()
			if err == io.EOF {
				return
			}
			if err != nil && !tolerable(err) {
				slog.Warn("stopped reading multipart body", "part", path, "err", err)
				return
			}
			if part == nil {
				return
			}
			c.collect(part, append(path[:len(path):len(path)], i), depth)
		}
	}

	mediaType := partMediaType(e.Header)
	switch {
	case mediaType == MediaTypeMessage:
		if depth >= maxNesting {
			slog.Warn("skipping attached message nested too deeply", "part", path)
			return
		}
		inner, err := message.Read(e.Body)
		if err != nil && !tolerable(err) {
			slog.Warn("skipping unreadable attached message", "part", path, "err", err)
			return
		}
		c.collect(inner, path, depth+1)

	case strings.HasPrefix(mediaType, "text/"):
		body, err := io.ReadAll(e.Body)
		if err != nil {
			if len(body) == 0 {
				slog.Warn("skipping unreadable part", "part", path, "type", mediaType, "err", err)
				return
			}
			slog.Warn("part truncated", "part", path, "type", mediaType, "err", err)
		}
		c.parts = append(c.parts, ContentPart{MediaType: mediaType, Text: string(body)})

	default:
		c.parts = append(c.parts, ContentPart{MediaType: mediaType})
	}
}

// tolerable reports errors that still leave a usable entity behind
func tolerable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}

// partMediaType returns the lower-cased media type, defaulting to text/plain
// when the header is missing or unparsable
func partMediaType(h message.Header) string {
	if h.Get("Content-Type") == "" {
		return MediaTypePlain
	}
	t, _, err := h.ContentType()
	if err != nil || t == "" {
		return MediaTypePlain
	}
	return strings.ToLower(t)
}

// extractHeaders builds the case-insensitive header map; for repeated fields
// the value returned by Header.Get wins
func extractHeaders(h message.Header) Headers {
	headers := make(Headers, h.Len())
	fields := h.Fields()
	for fields.Next() {
		key := strings.ToLower(fields.Key())
		if _, seen := headers[key]; seen {
			continue
		}
		headers[key] = decodeMIMEWord(unfold(h.Get(fields.Key())))
	}
	return headers
}

func unfold(s string) string {
	return strings.TrimSpace(foldedLine.ReplaceAllString(s, " "))
}

// decodeMIMEWord decodes MIME-encoded words (RFC 2047)
// Example: =?UTF-8?Q?Invitaci=C3=B3n?= -> Invitación
func decodeMIMEWord(s string) string {
	dec := &mime.WordDecoder{CharsetReader: charset.Reader}
	decoded, err := dec.DecodeHeader(s)
	if err != nil {
		// If decoding fails, return original string
		return s
	}
	return decoded
}
