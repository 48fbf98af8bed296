package grading

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Synonyms maps a keyword to alternative acceptable terms. Keys and values
// are stored lower-cased; a nil table is valid and has no entries.
type Synonyms map[string][]string

func NewSynonyms(m map[string][]string) Synonyms {
	out := make(Synonyms, len(m))
	for k, vs := range m {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		for _, v := range vs {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				out[k] = append(out[k], v)
			}
		}
	}
	return out
}

func (s Synonyms) Lookup(keyword string) []string {
	return s[strings.ToLower(strings.TrimSpace(keyword))]
}

//go:embed data/synonyms.yaml
var defaultSynonymsYAML []byte

// DefaultSynonyms returns the built-in table.
func DefaultSynonyms() (Synonyms, error) {
	var m map[string][]string
	if err := yaml.NewDecoder(bytes.NewReader(defaultSynonymsYAML)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode built-in synonyms: %w", err)
	}
	return NewSynonyms(m), nil
}

// LoadSynonyms reads a JSON or YAML table from path, or the built-in table
// when path is empty.
func LoadSynonyms(path string) (Synonyms, error) {
	if path == "" {
		return DefaultSynonyms()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read synonyms %s: %w", path, err)
	}
	var m map[string][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported synonyms format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse synonyms %s: %w", path, err)
	}
	return NewSynonyms(m), nil
}
