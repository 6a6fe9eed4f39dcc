// Package provider owns the active completion-provider selection. The
// orchestrator consults a Source per call and never caches the result, so an
// admin switching providers takes effect on the very next turn of an open
// session.
package provider

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Settings is the active provider/model pair.
type Settings struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Source yields the settings to use for the next completion call.
type Source interface {
	Active() Settings
}

// Static is a Source fixed at construction, for tests and one-shot commands.
type Static Settings

func (s Static) Active() Settings { return Settings(s) }

// ModelOptions lists the selectable models per provider. The first entry is
// the default.
var ModelOptions = map[string][]string{
	"openai":     {"gpt-4o-mini", "gpt-3.5-turbo", "gpt-4o"},
	"openrouter": {"google/gemma-3-27b-it:free"},
	"anthropic":  {"claude-haiku-4-5-20251001", "claude-sonnet-4-5-20250929"},
}

// DefaultModel returns the default model for a provider, or "" for unknown
// providers.
func DefaultModel(providerName string) string {
	opts := ModelOptions[providerName]
	if len(opts) == 0 {
		return ""
	}
	return opts[0]
}

// ValidModel reports whether model is on the provider's allow-list.
func ValidModel(providerName, model string) bool {
	for _, m := range ModelOptions[providerName] {
		if m == model {
			return true
		}
	}
	return false
}

var defaultSettings = Settings{Provider: "openai", Model: "gpt-4o-mini"}

// Store is a file-backed Source. The file holds only the provider selection;
// credentials stay in the environment. Store is the single owner of
// persistence; nothing else writes the file.
type Store struct {
	mu       sync.Mutex
	path     string
	settings Settings
}

// Open loads the store from path, falling back to defaults when the file is
// missing or unreadable. A corrupt file is not an error; the defaults simply
// win until the next Set.
func Open(path string) *Store {
	s := &Store{path: path, settings: defaultSettings}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return s
	}
	if loaded.Provider != "" {
		s.settings.Provider = loaded.Provider
	}
	if loaded.Model != "" && ValidModel(s.settings.Provider, loaded.Model) {
		s.settings.Model = loaded.Model
	} else {
		s.settings.Model = DefaultModel(s.settings.Provider)
	}
	return s
}

// DefaultPath is the per-user settings file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".warriorchat.json"
	}
	return filepath.Join(home, ".warriorchat", "config.json")
}

func (s *Store) Active() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetProvider switches the provider and resets the model to the provider's
// default.
func (s *Store) SetProvider(name string) error {
	if _, ok := ModelOptions[name]; !ok {
		return fmt.Errorf("unknown provider %q", name)
	}
	s.mu.Lock()
	s.settings.Provider = name
	s.settings.Model = DefaultModel(name)
	s.mu.Unlock()
	return s.save()
}

// SetModel selects a model for the current provider.
func (s *Store) SetModel(model string) error {
	s.mu.Lock()
	if !ValidModel(s.settings.Provider, model) {
		current := s.settings.Provider
		s.mu.Unlock()
		return fmt.Errorf("model %q is not available for provider %q", model, current)
	}
	s.settings.Model = model
	s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	s.mu.Lock()
	settings := s.settings
	path := s.path
	s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings to %s: %w", path, err)
	}
	return nil
}
