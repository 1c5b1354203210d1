// Package prompts loads the language model prompt templates used by the remote suggestion path.
// Each JSON file maps a prompt name to a text/template source and is embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// promptSet is one parsed prompt file
type promptSet struct {
	sources   map[string]string
	templates *template.Template
}

var (
	mu     sync.RWMutex
	parsed = make(map[string]*promptSet)
)

// Get returns the template source of prompt key in filename, e.g. ("suggestions.json", "optimize-cv").
func Get(filename, key string) (string, error) {
	set, err := load(filename)
	if err != nil {
		return "", err
	}
	src, ok := set.sources[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return src, nil
}

// Render executes prompt key with data. Every placeholder must have a value.
// Values are inserted verbatim and are never expanded as templates themselves.
func Render(filename, key string, data map[string]string) (string, error) {
	set, err := load(filename)
	if err != nil {
		return "", err
	}
	tmpl := set.templates.Lookup(key)
	if tmpl == nil {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return sb.String(), nil
}

// Keys lists the prompts defined in filename in sorted order.
func Keys(filename string) ([]string, error) {
	set, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(set.sources))
	for key := range set.sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Reset drops every parsed file so the next call reads the embedded data again.
func Reset() {
	mu.Lock()
	parsed = make(map[string]*promptSet)
	mu.Unlock()
}

func load(filename string) (*promptSet, error) {
	mu.RLock()
	set, ok := parsed[filename]
	mu.RUnlock()
	if ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	set, err = parse(filename, data)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	parsed[filename] = set
	mu.Unlock()
	return set, nil
}

func parse(filename string, data []byte) (*promptSet, error) {
	var sources map[string]string
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	root := template.New(filename).Option("missingkey=error")
	for key, src := range sources {
		if _, err := root.New(key).Parse(src); err != nil {
			return nil, fmt.Errorf("invalid prompt %s/%s: %w", filename, key, err)
		}
	}
	return &promptSet{sources: sources, templates: root}, nil
}
