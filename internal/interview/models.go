package interview

import (
	"errors"
	"time"

	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/questionbank"
)

var (
	ErrNotFound      = errors.New("interview not found")
	ErrInvalidState  = errors.New("interview already complete")
	ErrCorruptRecord = errors.New("interview record is inconsistent")
)

// PlaceholderName is used when no candidate name was captured.
const PlaceholderName = "Candidate"

// Record is the persisted form of a session.
type Record struct {
	ID                string                  `json:"id"`
	Timestamp         time.Time               `json:"timestamp"`
	UpdatedAt         time.Time               `json:"updated_at"`
	CandidateName     string                  `json:"candidate_name"`
	CandidateID       string                  `json:"candidate_id,omitempty"`
	SelectedQuestions []questionbank.Question `json:"selected_questions"`
	Responses         []grading.Response      `json:"responses"`
	Feedback          []grading.FeedbackItem  `json:"feedback"`
	IsComplete        bool                    `json:"is_complete"`
}

// Summary is one row of interview history.
type Summary struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Name       string    `json:"name"`
	IsComplete bool      `json:"is_complete"`
}

func (r Record) Summary() Summary {
	return Summary{ID: r.ID, Timestamp: r.Timestamp, Name: r.CandidateName, IsComplete: r.IsComplete}
}

// clone deep-copies the slices so stores never share backing arrays with
// callers. Nil slices stay nil.
func (r Record) clone() Record {
	out := r
	if r.SelectedQuestions != nil {
		out.SelectedQuestions = make([]questionbank.Question, len(r.SelectedQuestions))
		for i, q := range r.SelectedQuestions {
			out.SelectedQuestions[i] = cloneQuestion(q)
		}
	}
	if r.Responses != nil {
		out.Responses = make([]grading.Response, len(r.Responses))
		for i, resp := range r.Responses {
			resp.Question = cloneQuestion(resp.Question)
			out.Responses[i] = resp
		}
	}
	if r.Feedback != nil {
		out.Feedback = append(make([]grading.FeedbackItem, 0, len(r.Feedback)), r.Feedback...)
	}
	return out
}

func cloneQuestion(q questionbank.Question) questionbank.Question {
	if q.Keywords != nil {
		q.Keywords = append(make([]string, 0, len(q.Keywords)), q.Keywords...)
	}
	return q
}
