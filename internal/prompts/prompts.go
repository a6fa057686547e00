package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is one named prompt pair from llm_prompts.yaml.
type Template struct {
	System string `yaml:"system_prompt"`
	User   string `yaml:"user_prompt"`
}

// Library holds every prompt template, loaded once at startup.
type Library struct {
	templates map[string]Template
}

// NewLibrary builds a Library from an in-memory template map.
func NewLibrary(templates map[string]Template) *Library {
	return &Library{templates: templates}
}

func Load(path string) (*Library, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	var templates map[string]Template
	if err := yaml.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("invalid prompts format: %w", err)
	}
	return &Library{templates: templates}, nil
}

func (l *Library) Get(name string) (Template, bool) {
	tpl, ok := l.templates[name]
	return tpl, ok
}

// System returns the rendered system prompt for a template, or an error when
// the template is missing. Nodes treat a missing template like any other
// upstream failure: fall back, never crash the turn.
func (l *Library) System(name string, vars map[string]string) (string, error) {
	tpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt template %q not found", name)
	}
	return Render(tpl.System, vars), nil
}

// Prompt renders a template's system and user parts into one prompt string.
func (l *Library) Prompt(name string, vars map[string]string) (string, error) {
	tpl, ok := l.templates[name]
	if !ok {
		return "", fmt.Errorf("prompt template %q not found", name)
	}
	system := Render(tpl.System, vars)
	user := Render(tpl.User, vars)
	if user == "" {
		return system, nil
	}
	return system + "\n\n" + user, nil
}

// Render substitutes {{key}} placeholders. Unknown placeholders are left
// in place so a broken template is visible in logs rather than silently empty.
func Render(tpl string, vars map[string]string) string {
	out := tpl
	for key, value := range vars {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}
