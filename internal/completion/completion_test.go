package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientByProvider(t *testing.T) {
	for _, providerName := range []string{"openai", "openrouter", "anthropic"} {
		c, err := NewClient(Config{Provider: providerName, APIKey: "test-key"})
		require.NoError(t, err, providerName)
		assert.Equal(t, providerName, c.Name())
	}
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "gemini", APIKey: "test-key"})
	assert.Error(t, err)
}

func TestNewClientMissingKey(t *testing.T) {
	for _, providerName := range []string{"openai", "openrouter", "anthropic"} {
		_, err := NewClient(Config{Provider: providerName})
		require.Error(t, err, providerName)

		var nc *NotConfiguredError
		require.ErrorAs(t, err, &nc, providerName)
		assert.Equal(t, providerName, nc.Provider)
		assert.Equal(t, EnvVar(providerName), nc.EnvVar)
		assert.Contains(t, nc.Error(), nc.EnvVar)
	}
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", EnvVar("openai"))
	assert.Equal(t, "OPENROUTER_API_KEY", EnvVar("openrouter"))
	assert.Equal(t, "ANTHROPIC_API_KEY", EnvVar("anthropic"))
	assert.Equal(t, "", EnvVar("gemini"))
}
