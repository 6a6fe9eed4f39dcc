package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rflkt/warriorchat/internal/persona"
)

// Template is a YAML persona-prompt override. The template body uses
// {{field}} placeholders resolved from the template's own keys plus the
// warrior's catalog fields.
type Template struct {
	Body   string
	Fields map[string]string
}

// LoadTemplate reads a YAML template file. The "template" key holds the
// body; every other scalar key becomes an interpolation field.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	body, _ := raw["template"].(string)
	if body == "" {
		return nil, fmt.Errorf("template %s has no template body", path)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if k == "template" {
			continue
		}
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	return &Template{Body: body, Fields: fields}, nil
}

// Render interpolates {{field}} placeholders from the merged field set.
// Unresolved placeholders are left in place.
func (t *Template) Render(extra map[string]string) string {
	out := t.Body
	for k, v := range t.Fields {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	for k, v := range extra {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

// WarriorSystemFromTemplates builds a warrior system prompt from a template
// directory: dir/base.yaml merged with dir/specific/<id>.yaml when present.
// Any load failure falls back to the built-in prompt; a broken template dir
// never takes a session down.
func WarriorSystemFromTemplates(dir string, w persona.Warrior, topic string) string {
	base, err := LoadTemplate(filepath.Join(dir, "base.yaml"))
	if err != nil {
		return WarriorSystem(w, topic)
	}

	// Per-warrior overrides are optional.
	if specific, err := LoadTemplate(filepath.Join(dir, "specific", w.ID+".yaml")); err == nil {
		for k, v := range specific.Fields {
			base.Fields[k] = v
		}
		if specific.Body != "" {
			base.Body = specific.Body
		}
	}

	rendered := base.Render(warriorFields(w, topic))

	// The safety directive is non-negotiable regardless of template content.
	if !strings.Contains(rendered, "IMPORTANT SAFETY GUIDELINES") {
		rendered += "\n\n" + safetyDirective
	}
	return rendered
}

func warriorFields(w persona.Warrior, topic string) map[string]string {
	return map[string]string{
		"id":           w.ID,
		"name":         w.Name,
		"shortDesc":    w.ShortDesc,
		"era":          w.Era,
		"region":       w.Region,
		"specialty":    w.Specialty,
		"personality":  w.Personality,
		"fullBio":      w.FullBio,
		"quotes":       strings.Join(w.Quotes, ", "),
		"achievements": strings.Join(w.Achievements, ", "),
		"topic":        topic,
		"context":      topic,
		"wisdom":       persona.Wisdom(w.ID),
	}
}
