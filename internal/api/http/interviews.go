package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/interview"
	"github.com/mind-engage/interview-coach/internal/rbac"
)

type promptView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
}

type submitView struct {
	ID           string                 `json:"id"`
	NextQuestion string                 `json:"next_question,omitempty"`
	Complete     bool                   `json:"complete"`
	Index        int                    `json:"index"`
	Total        int                    `json:"total"`
	Feedback     []grading.FeedbackItem `json:"feedback,omitempty"`
}

type questionView struct {
	Question string   `json:"question"`
	Keywords []string `json:"keywords"`
	Example  string   `json:"example,omitempty"`
}

type responseView struct {
	Question string `json:"question"`
	Text     string `json:"text"`
}

type recordView struct {
	interview.Summary
	SelectedQuestions []questionView         `json:"selected_questions"`
	Responses         []responseView         `json:"responses"`
	Feedback          []grading.FeedbackItem `json:"feedback"`
}

func newRecordView(rec interview.Record) recordView {
	v := recordView{
		Summary:           rec.Summary(),
		SelectedQuestions: make([]questionView, 0, len(rec.SelectedQuestions)),
		Responses:         make([]responseView, 0, len(rec.Responses)),
		Feedback:          rec.Feedback,
	}
	for _, q := range rec.SelectedQuestions {
		v.SelectedQuestions = append(v.SelectedQuestions, questionView{Question: q.Display(), Keywords: q.Keywords, Example: q.Example})
	}
	for _, r := range rec.Responses {
		v.Responses = append(v.Responses, responseView{Question: r.Question.Display(), Text: r.Text})
	}
	if v.Feedback == nil {
		v.Feedback = []grading.FeedbackItem{}
	}
	return v
}

// POST /interviews  (also /interviews/reset)
func StartInterviewHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn, err := svc.Start(r.Context(), rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, promptView{ID: turn.ID, Question: turn.Prompt, Index: turn.Index, Total: turn.Total})
	}
}

// POST /interviews/{id}/responses  { "transcription": "..." }
// A missing transcription is an empty answer, which scores the minimum.
func SubmitResponseHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			Transcription *string `json:"transcription"`
			Text          string  `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		text := req.Text
		if req.Transcription != nil {
			text = *req.Transcription
		}
		if !authorize(w, r, svc, log, id) {
			return
		}
		turn, err := svc.Submit(r.Context(), id, text)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, submitView{
			ID:           turn.ID,
			NextQuestion: turn.Prompt,
			Complete:     turn.Complete,
			Index:        turn.Index,
			Total:        turn.Total,
			Feedback:     turn.Feedback,
		})
	}
}

// POST /interviews/{id}/resume
func ResumeInterviewHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !authorize(w, r, svc, log, id) {
			return
		}
		turn, err := svc.Resume(r.Context(), id)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, promptView{ID: turn.ID, Question: turn.Prompt, Index: turn.Index, Total: turn.Total})
	}
}

// GET /interviews/{id}
func GetInterviewHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		if !owns(r, rec) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, newRecordView(rec))
	}
}

// GET /interviews?limit=50&offset=0
// Roles without history:list-all only see interviews they started.
func ListInterviewsHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := interview.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		if !rbac.Can(r.Context(), rbac.PermHistoryAll) {
			opts.CandidateID = rbac.SubjectFromContext(r.Context())
		}
		list, err := svc.List(r.Context(), opts)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /interviews/{id}/export
func ExportInterviewHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rc, err := svc.Archive(r.Context(), id)
		if err != nil {
			writeError(w, log, err)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="interview-`+id+`.json"`)
		_, _ = io.Copy(w, rc)
	}
}

type eventView struct {
	Offset    int64           `json:"offset"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// GET /interviews/{id}/events
func ListEventsHandler(svc *interview.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, err := svc.Events(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		out := make([]eventView, 0, len(evs))
		for _, e := range evs {
			out = append(out, eventView{
				Offset:    e.Offset,
				Type:      e.Type,
				Data:      json.RawMessage(e.DataJSON),
				CreatedAt: time.Unix(e.CreatedAt, 0).UTC(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// authorize loads interview id and checks the caller may act on it. It
// writes the error response itself and reports whether to continue.
func authorize(w http.ResponseWriter, r *http.Request, svc *interview.Service, log *zap.Logger, id string) bool {
	if rbac.Can(r.Context(), rbac.PermViewAll) {
		return true
	}
	rec, err := svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return false
	}
	if !owns(r, rec) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func owns(r *http.Request, rec interview.Record) bool {
	if rbac.Can(r.Context(), rbac.PermViewAll) {
		return true
	}
	return rbac.Can(r.Context(), rbac.PermViewOwn) && rec.CandidateID == rbac.SubjectFromContext(r.Context())
}
