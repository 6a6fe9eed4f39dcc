package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarriorCatalog(t *testing.T) {
	all := Warriors()
	require.Len(t, all, 5)

	seen := map[string]bool{}
	for _, w := range all {
		assert.NotEmpty(t, w.ID)
		assert.NotEmpty(t, w.Name)
		assert.NotEmpty(t, w.Era)
		assert.NotEmpty(t, w.Personality)
		assert.NotEmpty(t, w.FullBio)
		assert.NotEmpty(t, w.Quotes)
		assert.NotEmpty(t, w.Achievements)
		assert.False(t, seen[w.ID], "duplicate warrior ID %q", w.ID)
		seen[w.ID] = true
	}
}

func TestFindWarrior(t *testing.T) {
	w, ok := FindWarrior("musashi")
	require.True(t, ok)
	assert.Equal(t, "Miyamoto Musashi", w.Name)

	_, ok = FindWarrior("nonexistent")
	assert.False(t, ok)
}

func TestWarriorsReturnsCopy(t *testing.T) {
	first := Warriors()
	first[0].Name = "mutated"

	again := Warriors()
	assert.NotEqual(t, "mutated", again[0].Name)
}

func TestWisdom(t *testing.T) {
	for _, w := range Warriors() {
		assert.NotEmpty(t, Wisdom(w.ID))
	}

	// Unknown warriors get the generic fallback rather than an empty string.
	generic := Wisdom("nonexistent")
	assert.NotEmpty(t, generic)
	assert.NotEqual(t, Wisdom("musashi"), generic)
}

func TestPhraseCatalog(t *testing.T) {
	all := Phrases()
	require.Len(t, all, 5)
	for _, p := range all {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Phrase)
		assert.NotEmpty(t, p.Description)
	}
}

func TestFindPhrase(t *testing.T) {
	byID, ok := FindPhrase("lockin")
	require.True(t, ok)
	assert.Equal(t, "Lock In", byID.Phrase)

	// Display text resolves too.
	byText, ok := FindPhrase("Lock In")
	require.True(t, ok)
	assert.Equal(t, byID.ID, byText.ID)

	_, ok = FindPhrase("nonexistent")
	assert.False(t, ok)
}
