package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileFallsBackToDefaults(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "nope.json"))
	active := s.Active()
	assert.Equal(t, "openai", active.Provider)
	assert.Equal(t, DefaultModel("openai"), active.Model)
}

func TestOpenCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	active := Open(path).Active()
	assert.Equal(t, "openai", active.Provider)
}

func TestSetProviderPersistsAndResetsModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := Open(path)

	require.NoError(t, s.SetProvider("anthropic"))
	active := s.Active()
	assert.Equal(t, "anthropic", active.Provider)
	assert.Equal(t, DefaultModel("anthropic"), active.Model)

	// A fresh open sees the saved selection.
	reopened := Open(path).Active()
	assert.Equal(t, active, reopened)
}

func TestSetProviderUnknown(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "config.json"))
	assert.Error(t, s.SetProvider("gemini"))
}

func TestSetModelEnforcesAllowList(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "config.json"))

	require.NoError(t, s.SetModel("gpt-4o"))
	assert.Equal(t, "gpt-4o", s.Active().Model)

	err := s.SetModel("claude-haiku-4-5-20251001")
	assert.Error(t, err, "anthropic model must be rejected while openai is active")
	assert.Equal(t, "gpt-4o", s.Active().Model)
}

func TestOpenRejectsModelFromOtherProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"provider":"openai","model":"claude-haiku-4-5-20251001"}`), 0o644))

	active := Open(path).Active()
	assert.Equal(t, "openai", active.Provider)
	assert.Equal(t, DefaultModel("openai"), active.Model)
}

func TestStaticSource(t *testing.T) {
	src := Static{Provider: "openrouter", Model: "google/gemma-3-27b-it:free"}
	assert.Equal(t, Settings{Provider: "openrouter", Model: "google/gemma-3-27b-it:free"}, src.Active())
}

func TestValidModel(t *testing.T) {
	assert.True(t, ValidModel("openai", "gpt-4o-mini"))
	assert.False(t, ValidModel("openai", "gpt-5"))
	assert.False(t, ValidModel("unknown", "gpt-4o-mini"))
}
