// Package naming derives output file names from message headers.
package naming

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	// UnknownDate replaces the date segment when the Date header is absent or unparsable
	UnknownDate = "unknown-date"
	// NoSubject replaces an absent or blank subject before sanitization
	NoSubject = "no-subject"
	// Extension is appended to every derived name
	Extension = ".pdf"

	dateLayout = "2006-01-02"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// Zone-less forms that net/mail rejects but that show up in real mail
var fallbackLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
}

// OutputName returns "{date}_{subject}.pdf" for the raw Date and Subject
// header values. Either may be empty.
func OutputName(rawDate, rawSubject string) string {
	return FormatDate(rawDate) + "_" + SanitizeSubject(rawSubject) + Extension
}

// FormatDate parses an RFC 5322 date and formats it as YYYY-MM-DD in the
// date's own offset. It returns UnknownDate on any failure.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownDate
	}
	if t, err := mail.ParseDate(raw); err == nil {
		return t.Format(dateLayout)
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}
	return UnknownDate
}

// SanitizeSubject collapses whitespace runs to a single underscore and drops
// everything outside [A-Za-z0-9_-]. A blank subject becomes NoSubject.
func SanitizeSubject(subject string) string {
	fields := strings.Fields(subject)
	if len(fields) == 0 {
		return NoSubject
	}
	return unsafeChars.ReplaceAllString(strings.Join(fields, "_"), "")
}
