package grading

import (
	"fmt"
	"strings"

	"github.com/mind-engage/interview-coach/internal/questionbank"
)

// StrongThreshold is the lowest score that earns the "strong response" text.
const StrongThreshold = 7

// Response pairs a question with the candidate's transcribed answer.
type Response struct {
	Question questionbank.Question `json:"question"`
	Text     string                `json:"text"`
}

type FeedbackItem struct {
	Question string `json:"question"`
	Response string `json:"response"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// GenerateFeedback scores each response and returns one item per response,
// in the same order.
func GenerateFeedback(responses []Response, syn Synonyms) []FeedbackItem {
	out := make([]FeedbackItem, 0, len(responses))
	for _, r := range responses {
		score := Score(r.Text, r.Question.Keywords, syn)
		out = append(out, FeedbackItem{
			Question: r.Question.Display(),
			Response: r.Text,
			Score:    score,
			Feedback: feedbackText(score, r.Question),
		})
	}
	return out
}

func feedbackText(score int, q questionbank.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/10. ", score)
	switch {
	case score >= StrongThreshold:
		b.WriteString("Strong response, but you can enhance it further.")
	case len(q.Keywords) == 0:
		b.WriteString("Your response could be improved by including more specific details.")
	default:
		fmt.Fprintf(&b, "Your response could be improved by including specific details about your %s.", q.Keywords[0])
	}
	if ex := strings.TrimSpace(q.Example); ex != "" {
		b.WriteString(" ")
		b.WriteString(ex)
	}
	return b.String()
}
