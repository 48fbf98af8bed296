package questionbank

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBank(t *testing.T) *Bank {
	t.Helper()
	var qs []Question
	for i := 0; i < 4; i++ {
		qs = append(qs, Question{Text: fmt.Sprintf("Base question %d?", i), Keywords: []string{"kw"}})
	}
	for i := 0; i < 8; i++ {
		qs = append(qs, Question{Text: fmt.Sprintf("Base question %d? (Variation %d)", i%4, i+1), Keywords: []string{"kw"}})
	}
	b, err := New(qs)
	require.NoError(t, err)
	return b
}

func TestStripVariation(t *testing.T) {
	cases := map[string]string{
		"Tell me about yourself. (Variation 12)": "Tell me about yourself.",
		"Tell me about yourself.":                "Tell me about yourself.",
		"Why? (Variation 3)  ":                   "Why?",
		"(Variation 2) stays in the middle":      "(Variation 2) stays in the middle",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripVariation(in), in)
	}
}

func TestSampleNoDuplicates(t *testing.T) {
	b := sampleBank(t)
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 50; run++ {
		got := b.Sample(rng, 5, false)
		require.Len(t, got, 5)
		seen := map[string]bool{}
		for _, q := range got {
			assert.False(t, seen[q.Text], "duplicate %q", q.Text)
			seen[q.Text] = true
		}
	}
}

func TestSampleExcludeVariations(t *testing.T) {
	b := sampleBank(t)
	got := b.Sample(rand.New(rand.NewSource(1)), 10, true)
	require.Len(t, got, 4, "only the four base questions are eligible")
	for _, q := range got {
		assert.False(t, q.IsVariation())
	}
}

func TestSampleEdgeCounts(t *testing.T) {
	b := sampleBank(t)
	rng := rand.New(rand.NewSource(3))
	assert.Nil(t, b.Sample(rng, 0, false))
	assert.Len(t, b.Sample(rng, 100, false), b.Len())
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyBank)
}

func TestParseCSV(t *testing.T) {
	in := "question,keywords,example\n" +
		"Tell me about yourself.,\"Background, Experience ,skills\",For example: me.\n" +
		"\"How do you prioritize tasks? (Variation 4)\",prioritize,Use a list.\n"
	qs, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, []string{"background", "experience", "skills"}, qs[0].Keywords)
	assert.Equal(t, "How do you prioritize tasks?", qs[1].Display())
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("question,example\nq,e\n"))
	assert.ErrorContains(t, err, "missing column: keywords")
}

func TestLoadFileFormats(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(`
- question: Why this job?
  keywords: motivation, job
  example: Because.
- question: What motivates you?
  keywords: [Drive, passion]
  example: Results.
`), 0o644))
	b, err := LoadFile(yml)
	require.NoError(t, err)
	all := b.questions
	require.Len(t, all, 2)
	assert.Equal(t, []string{"motivation", "job"}, all[0].Keywords)
	assert.Equal(t, []string{"drive", "passion"}, all[1].Keywords)

	js := filepath.Join(dir, "bank.json")
	require.NoError(t, os.WriteFile(js, []byte(`[{"question":"Q1","keywords":["a","b"],"example":"E"}]`), 0o644))
	b, err = LoadFile(js)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())

	_, err = LoadFile(filepath.Join(dir, "bank.txt"))
	assert.Error(t, err)
}

func TestDefaultBank(t *testing.T) {
	b, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, b.Len())
	for _, q := range b.questions {
		assert.NotEmpty(t, q.Keywords, q.Text)
		assert.NotEmpty(t, q.Example, q.Text)
	}
}
