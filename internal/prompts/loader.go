// Package prompts loads the versioned prompt templates sent to the model.
// Templates are embedded at compile time and parsed once.
package prompts

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"
)

const templateExt = ".prompt"

//go:embed templates/*.prompt
var templateFiles embed.FS

// cache stores parsed templates to avoid re-parsing on every call
var (
	cache   = make(map[string]*Template)
	cacheMu sync.RWMutex
)

// Get returns the embedded template with the given id
func Get(id string) (*Template, error) {
	cacheMu.RLock()
	if tmpl, exists := cache[id]; exists {
		cacheMu.RUnlock()
		return tmpl, nil
	}
	cacheMu.RUnlock()

	data, err := templateFiles.ReadFile(path.Join("templates", id+templateExt))
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template %s: %w", id, err)
	}

	tmpl, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", id, err)
	}
	if tmpl.ID != id {
		return nil, fmt.Errorf("prompt template file %s declares id %q", id, tmpl.ID)
	}

	cacheMu.Lock()
	cache[id] = tmpl
	cacheMu.Unlock()

	return tmpl, nil
}

// Render loads a template and renders it with data
func Render(id string, data map[string]string) (string, error) {
	tmpl, err := Get(id)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data), nil
}

// Format replaces placeholders in the form {{.Key}} with values from data
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}

// ClearCache clears the template cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]*Template)
	cacheMu.Unlock()
}
