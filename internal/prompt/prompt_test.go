package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rflkt/warriorchat/internal/completion"
	"github.com/rflkt/warriorchat/internal/persona"
)

func TestWarriorSystem(t *testing.T) {
	w, ok := persona.FindWarrior("musashi")
	require.True(t, ok)

	sys := WarriorSystem(w, "discipline")
	assert.Contains(t, sys, "You are Miyamoto Musashi")
	assert.Contains(t, sys, `"discipline"`)
	assert.Contains(t, sys, "IMPORTANT SAFETY GUIDELINES")
	assert.Contains(t, sys, "988")
}

func TestSoloWarriorSystem(t *testing.T) {
	w, ok := persona.FindWarrior("joan")
	require.True(t, ok)

	sys := SoloWarriorSystem(w)
	assert.Contains(t, sys, "ONLY speaking as Joan of Arc")
	assert.Contains(t, sys, "IMPORTANT SAFETY GUIDELINES")
}

func TestPhraseSystem(t *testing.T) {
	sys := PhraseSystem("lockin", "")
	assert.Contains(t, sys, `"Lock In"`)
	assert.Contains(t, sys, "IMPORTANT SAFETY GUIDELINES")
	assert.NotContains(t, sys, "The user wants to apply this to")

	withTopic := PhraseSystem("lockin", "morning training")
	assert.Contains(t, withTopic, "The user wants to apply this to: morning training")
}

func TestPhraseSystemUnknownKeyFallsBack(t *testing.T) {
	sys := PhraseSystem("never-give-up", "")
	assert.Contains(t, sys, `"never-give-up"`)
	assert.Contains(t, sys, "IMPORTANT SAFETY GUIDELINES")
}

func TestFormatHistoryRoles(t *testing.T) {
	names := map[string]string{"musashi": "Miyamoto Musashi", "joan": "Joan of Arc"}
	turns := []Turn{
		{Speaker: "system", Content: "Welcome!"},
		{Speaker: "musashi", Content: "The mind is the blade."},
		{Speaker: "user", Content: "How do I sharpen it?"},
	}

	msgs := FormatHistory(turns, names, "joan", "discipline")
	require.Len(t, msgs, 4) // 3 turns + trailing reminder

	assert.Equal(t, completion.RoleSystem, msgs[0].Role)
	assert.Equal(t, "Welcome!", msgs[0].Content)

	assert.Equal(t, completion.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Miyamoto Musashi: The mind is the blade.", msgs[1].Content)

	assert.Equal(t, completion.RoleUser, msgs[2].Role)
	assert.Equal(t, "How do I sharpen it?", msgs[2].Content)

	assert.Equal(t, completion.RoleSystem, msgs[3].Role)
	assert.Contains(t, msgs[3].Content, `"discipline"`)
}

func TestFormatHistoryUnknownSpeakerBecomesSystem(t *testing.T) {
	msgs := FormatHistory([]Turn{{Speaker: "ghost", Content: "boo"}}, map[string]string{}, "musashi", "x")
	require.Len(t, msgs, 2)
	assert.Equal(t, completion.RoleSystem, msgs[0].Role)
	assert.Equal(t, "boo", msgs[0].Content)
}

func TestFormatHistoryDiversifySteering(t *testing.T) {
	names := map[string]string{"musashi": "Miyamoto Musashi"}
	turns := []Turn{{Speaker: "musashi", Content: "Discipline is all."}}

	msgs := FormatHistory(turns, names, "musashi", "discipline")
	require.Len(t, msgs, 3)
	assert.Equal(t, completion.RoleSystem, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "Miyamoto Musashi, you spoke last")

	// No steering when someone else goes next.
	msgs = FormatHistory(turns, names, "joan", "discipline")
	require.Len(t, msgs, 2)
}

func TestFormatHistoryEmptyTopicReminder(t *testing.T) {
	msgs := FormatHistory(nil, nil, "phrase", "")
	require.Len(t, msgs, 1)
	assert.Equal(t, completion.RoleSystem, msgs[0].Role)
	assert.Equal(t, "Continue the reflection. Engage the user directly.", msgs[0].Content)
}
