package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripSpeakerPrefix(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		display string
		want    string
	}{
		{"plain prefix", "Musashi: The blade follows the mind.", "Musashi", "The blade follows the mind."},
		{"doubled prefix", "Musashi: Musashi: The blade follows the mind.", "Musashi", "The blade follows the mind."},
		{"case insensitive", "mUsAsHi: Focus.", "Musashi", "Focus."},
		{"leading whitespace", "   Musashi:   Focus.", "Musashi", "Focus."},
		{"no prefix untouched", "The blade follows the mind.", "Musashi", "The blade follows the mind."},
		{"name mid-sentence kept", "Ask Musashi: he knows.", "Musashi", "Ask Musashi: he knows."},
		{"first word of multi-word name", "Alexander: Persia fell in a decade.", "Alexander the Great", "Persia fell in a decade."},
		{"full multi-word name", "Alexander the Great: Persia fell in a decade.", "Alexander the Great", "Persia fell in a decade."},
		{"empty input", "", "Musashi", ""},
		{"empty display name trims only", "  hello  ", "", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripSpeakerPrefix(tt.raw, tt.display))
		})
	}
}

func TestStripSpeakerPrefixIdempotent(t *testing.T) {
	inputs := []string{
		"Joan of Arc: Courage is a choice.",
		"Joan: Joan: Courage is a choice.",
		"Courage is a choice.",
	}
	for _, raw := range inputs {
		once := StripSpeakerPrefix(raw, "Joan of Arc")
		twice := StripSpeakerPrefix(once, "Joan of Arc")
		assert.Equal(t, once, twice, "second pass must not change %q", raw)
	}
}

func TestStripSpeakerPrefixRegexMetacharacters(t *testing.T) {
	// Display names are arbitrary text; regexp metacharacters in them must
	// be treated literally.
	got := StripSpeakerPrefix("A.B (C): hello", "A.B (C)")
	assert.Equal(t, "hello", got)

	got = StripSpeakerPrefix("AxB: hello", "A.B")
	assert.Equal(t, "AxB: hello", got)
}
