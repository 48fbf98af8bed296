package questionbank

import (
	"bytes"
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed data/questions.yaml
var defaultYAML []byte

// Default returns the built-in bank of common behavioural questions.
func Default() (*Bank, error) {
	qs, err := parseStructured(bytes.NewReader(defaultYAML), yaml.Unmarshal)
	if err != nil {
		return nil, err
	}
	return New(qs)
}

// Load reads path when set, otherwise falls back to the built-in bank.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
