package questionbank

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a bank from .csv, .yaml/.yml or .json.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank %s: %w", path, err)
	}
	defer f.Close()

	var qs []Question
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		qs, err = ParseCSV(f)
	case ".yaml", ".yml":
		qs, err = parseStructured(f, yaml.Unmarshal)
	case ".json":
		qs, err = parseStructured(f, json.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported question bank format: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	return New(qs)
}

// ParseCSV reads the question,keywords,example layout where keywords are
// comma-separated inside a single cell.
func ParseCSV(r io.Reader) ([]Question, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"question", "keywords", "example"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var out []Question
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		q := Question{
			Text:     strings.TrimSpace(rec[idx["question"]]),
			Keywords: splitKeywords(rec[idx["keywords"]]),
			Example:  strings.TrimSpace(rec[idx["example"]]),
		}
		if q.Text == "" {
			return nil, fmt.Errorf("line %d: empty question", line)
		}
		out = append(out, q)
	}
	return out, nil
}

type rawQuestion struct {
	Question string      `json:"question" yaml:"question"`
	Keywords keywordList `json:"keywords" yaml:"keywords"`
	Example  string      `json:"example" yaml:"example"`
}

// keywordList accepts either a list or a single comma-separated string.
type keywordList []string

func (k *keywordList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*k = splitKeywords(n.Value)
		return nil
	}
	var list []string
	if err := n.Decode(&list); err != nil {
		return err
	}
	*k = normalizeKeywords(list)
	return nil
}

func (k *keywordList) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*k = splitKeywords(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*k = normalizeKeywords(list)
	return nil
}

func parseStructured(r io.Reader, unmarshal func([]byte, any) error) ([]Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw []rawQuestion
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]Question, 0, len(raw))
	for i, rq := range raw {
		text := strings.TrimSpace(rq.Question)
		if text == "" {
			return nil, fmt.Errorf("entry %d: empty question", i)
		}
		out = append(out, Question{Text: text, Keywords: []string(rq.Keywords), Example: strings.TrimSpace(rq.Example)})
	}
	return out, nil
}

func splitKeywords(s string) []string {
	return normalizeKeywords(strings.Split(s, ","))
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}
