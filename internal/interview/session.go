package interview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/questionbank"
)

// Session walks a candidate through a fixed question list. It is
// AwaitingResponse(i) while i < len(questions) and Complete afterwards.
type Session struct {
	id            string
	startedAt     time.Time
	candidateID   string
	candidateName string
	questions     []questionbank.Question
	responses     []grading.Response
	feedback      []grading.FeedbackItem
	synonyms      grading.Synonyms
}

func NewSession(questions []questionbank.Question, syn grading.Synonyms) (*Session, error) {
	if len(questions) == 0 {
		return nil, errors.New("interview needs at least one question")
	}
	return &Session{
		candidateName: PlaceholderName,
		questions:     append([]questionbank.Question(nil), questions...),
		synonyms:      syn,
	}, nil
}

// Restore rebuilds a session from its stored record. A record whose
// responses already cover every question comes back Complete.
func Restore(rec Record, syn grading.Synonyms) (*Session, error) {
	if len(rec.SelectedQuestions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrCorruptRecord)
	}
	if len(rec.Responses) > len(rec.SelectedQuestions) {
		return nil, fmt.Errorf("%w: %d responses for %d questions", ErrCorruptRecord, len(rec.Responses), len(rec.SelectedQuestions))
	}
	for i, r := range rec.Responses {
		if !r.Question.Equal(rec.SelectedQuestions[i]) {
			return nil, fmt.Errorf("%w: response %d answers %q", ErrCorruptRecord, i, r.Question.Text)
		}
	}
	rec = rec.clone()
	s := &Session{
		id:            rec.ID,
		startedAt:     rec.Timestamp,
		candidateID:   rec.CandidateID,
		candidateName: rec.CandidateName,
		questions:     rec.SelectedQuestions,
		responses:     rec.Responses,
		feedback:      rec.Feedback,
		synonyms:      syn,
	}
	if s.candidateName == "" {
		s.candidateName = PlaceholderName
	}
	if s.IsComplete() && len(s.feedback) == 0 {
		s.feedback = grading.GenerateFeedback(s.responses, syn)
	}
	return s, nil
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Index() int            { return len(s.responses) }
func (s *Session) Total() int            { return len(s.questions) }
func (s *Session) IsComplete() bool      { return len(s.responses) == len(s.questions) }
func (s *Session) CandidateName() string { return s.candidateName }

func (s *Session) Feedback() []grading.FeedbackItem {
	return append([]grading.FeedbackItem(nil), s.feedback...)
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (questionbank.Question, error) {
	if s.IsComplete() {
		return questionbank.Question{}, ErrInvalidState
	}
	return s.questions[s.Index()], nil
}

// Prompt is the display text for the current question. Once a name has been
// asked for, later prompts greet the candidate by it.
func (s *Session) Prompt() (string, error) {
	q, err := s.Current()
	if err != nil {
		return "", err
	}
	text := q.Display()
	if s.Index() > 0 && s.questions[0].IsName() {
		return fmt.Sprintf("Hello %s, %s", s.candidateName, strings.ToLower(text)), nil
	}
	return text, nil
}

// Submit records text as the answer to the current question. It reports
// whether the session is now complete, in which case feedback is generated.
func (s *Session) Submit(text string) (bool, error) {
	q, err := s.Current()
	if err != nil {
		return false, err
	}
	if s.Index() == 0 && q.IsName() {
		s.candidateName = firstWord(text)
	}
	s.responses = append(s.responses, grading.Response{Question: q, Text: text})
	if !s.IsComplete() {
		return false, nil
	}
	s.feedback = grading.GenerateFeedback(s.responses, s.synonyms)
	return true, nil
}

// Record snapshots the session in its persisted form.
func (s *Session) Record() Record {
	rec := Record{
		ID:                s.id,
		Timestamp:         s.startedAt,
		CandidateName:     s.candidateName,
		CandidateID:       s.candidateID,
		SelectedQuestions: s.questions,
		Responses:         s.responses,
		Feedback:          s.feedback,
		IsComplete:        s.IsComplete(),
	}
	return rec.clone()
}

func firstWord(text string) string {
	if f := strings.Fields(text); len(f) > 0 {
		return f[0]
	}
	return PlaceholderName
}
