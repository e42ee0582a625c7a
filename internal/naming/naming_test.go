package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"RFC 5322", "Mon, 1 Jan 2024 10:00:00 +0000", "2024-01-01"},
		{"No weekday", "1 Jan 2024 10:00:00 GMT", "2024-01-01"},
		{"Keeps own offset", "Sun, 31 Dec 2023 23:30:00 -0500", "2023-12-31"},
		{"Trailing comment", "Tue, 2 Jan 2024 09:00:00 +0100 (CET)", "2024-01-02"},
		{"No zone", "Wed, 3 Jan 2024 08:00:00", "2024-01-03"},
		{"Surrounding whitespace", "  Mon, 1 Jan 2024 10:00:00 +0000  ", "2024-01-01"},
		{"Empty", "", UnknownDate},
		{"Garbage", "not a date", UnknownDate},
		{"Impossible day", "Mon, 45 Jan 2024 10:00:00 +0000", UnknownDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDate(tt.input))
		})
	}
}

func TestSanitizeSubject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Punctuation", "Re: Q3 Report!!", "Re_Q3_Report"},
		{"Plain words", "Hello World", "Hello_World"},
		{"Whitespace runs", "  lots   of \t space  ", "lots_of_space"},
		{"Keeps dash and underscore", "build-42_final", "build-42_final"},
		{"Drops non-ASCII", "Invitación: Reunión", "Invitacin_Reunin"},
		{"Empty", "", NoSubject},
		{"Blank", "   ", NoSubject},
		{"Only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSubject(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Regexp(t, `^[A-Za-z0-9_-]*$`, got)
		})
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "2024-01-01_Hello_World.pdf",
		OutputName("Mon, 1 Jan 2024 10:00:00 +0000", "Hello World"))
	assert.Equal(t, "unknown-date_no-subject.pdf", OutputName("", ""))
	assert.Equal(t, "unknown-date_Re_Q3_Report.pdf", OutputName("yesterday", "Re: Q3 Report!!"))
}
