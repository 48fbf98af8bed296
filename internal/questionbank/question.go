package questionbank

import (
	"regexp"
	"strings"
)

// KindName marks the name-prompt question that may open an interview.
const KindName = "name"

type Question struct {
	Text     string   `json:"question" yaml:"question"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Example  string   `json:"example" yaml:"example"`
	Kind     string   `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// NameQuestion is prepended to a session when name capture is enabled.
var NameQuestion = Question{
	Text:     "What is your name?",
	Keywords: []string{"name"},
	Example:  "For example, you could say: 'My name is Alex Morgan.'",
	Kind:     KindName,
}

func (q Question) IsName() bool { return q.Kind == KindName }

// Display is the text shown to a candidate.
func (q Question) Display() string { return StripVariation(q.Text) }

// IsVariation reports whether the question is a synthetic duplicate.
func (q Question) IsVariation() bool { return variationRe.MatchString(q.Text) }

// Equal compares by value; sessions keep copies of bank questions.
func (q Question) Equal(o Question) bool {
	if q.Text != o.Text || q.Example != o.Example || q.Kind != o.Kind || len(q.Keywords) != len(o.Keywords) {
		return false
	}
	for i := range q.Keywords {
		if q.Keywords[i] != o.Keywords[i] {
			return false
		}
	}
	return true
}

var variationRe = regexp.MustCompile(`\s*\(Variation\s+\d+\)\s*$`)

// StripVariation removes a trailing "(Variation N)" marker.
func StripVariation(text string) string {
	return strings.TrimSpace(variationRe.ReplaceAllString(text, ""))
}
