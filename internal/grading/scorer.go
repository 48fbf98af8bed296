// Package grading scores transcribed interview answers against the
// keywords a question expects and turns the scores into feedback.
package grading

import "strings"

const (
	MinScore = 1
	MaxScore = 10

	keywordPoints = 2

	// Word-count bonuses; both apply to answers longer than longAnswerWords.
	shortAnswerWords = 10
	shortAnswerBonus = 2
	longAnswerWords  = 20
	longAnswerBonus  = 1
)

// Score rates a response in [MinScore, MaxScore].
func Score(text string, keywords []string, syn Synonyms) int {
	score := MinScore
	low := strings.ToLower(text)
	for _, k := range keywords {
		if hasKeyword(low, k, syn) {
			score += keywordPoints
		}
	}
	words := len(strings.Fields(text))
	if words > shortAnswerWords {
		score += shortAnswerBonus
	}
	if words > longAnswerWords {
		score += longAnswerBonus
	}
	return clamp(score)
}

// HasKeyword reports whether keyword, or any of its synonyms, appears in
// text. Matching is a case-insensitive substring test.
func HasKeyword(text, keyword string, syn Synonyms) bool {
	return hasKeyword(strings.ToLower(text), keyword, syn)
}

func hasKeyword(low, keyword string, syn Synonyms) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return false
	}
	if strings.Contains(low, k) {
		return true
	}
	for _, s := range syn.Lookup(k) {
		if s != "" && strings.Contains(low, s) {
			return true
		}
	}
	return false
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
