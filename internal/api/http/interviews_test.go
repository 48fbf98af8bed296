package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	authmw "github.com/mind-engage/interview-coach/internal/auth/middleware"
	"github.com/mind-engage/interview-coach/internal/db"
	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/interview"
	"github.com/mind-engage/interview-coach/internal/questionbank"
	"github.com/mind-engage/interview-coach/internal/rbac"
	"github.com/mind-engage/interview-coach/internal/storage"
	syncx "github.com/mind-engage/interview-coach/internal/sync"
)

func newTestRouter(t *testing.T, auth *authmw.AuthService) http.Handler {
	t.Helper()
	bank, err := questionbank.New([]questionbank.Question{
		{Text: "What are your strengths? (Variation 2)", Keywords: []string{"strength"}},
		{Text: "Why do you want this job?", Keywords: []string{"motivation"}, Example: "For example, mention the team."},
	})
	require.NoError(t, err)
	blobs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	events := syncx.NewEventRepo(conn, "")
	svc := interview.NewService(bank, grading.Synonyms{}, interview.NewMemoryStore(), events, blobs, zap.NewNop(),
		interview.Options{QuestionsPerInterview: 2, IncludeNameQuestion: true})
	return NewRouter(RouterConfig{Service: svc, Auth: auth})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestInterviewFlow(t *testing.T) {
	h := newTestRouter(t, nil)

	rec := do(t, h, http.MethodPost, "/api/interviews", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	start := decode[promptView](t, rec)
	assert.Equal(t, "What is your name?", start.Question)
	assert.Equal(t, 3, start.Total)

	rec = do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/responses", "", `{"transcription":"Joshua Lee"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[submitView](t, rec)
	assert.False(t, next.Complete)
	assert.True(t, strings.HasPrefix(next.NextQuestion, "Hello Joshua, "), next.NextQuestion)
	assert.NotContains(t, next.NextQuestion, "Variation")

	rec = do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/resume", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, next.NextQuestion, decode[promptView](t, rec).Question)

	rec = do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/responses", "", `{"text":"I am motivated by growth"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// no body: an empty answer
	rec = do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/responses", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[submitView](t, rec)
	assert.True(t, done.Complete)
	require.Len(t, done.Feedback, 3)
	assert.Equal(t, 1, done.Feedback[2].Score)

	rec = do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/responses", "", `{"transcription":"late"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/resume", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/interviews/"+start.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[recordView](t, rec)
	assert.Equal(t, "Joshua", view.Name)
	assert.True(t, view.IsComplete)
	require.Len(t, view.SelectedQuestions, 3)
	for _, q := range view.SelectedQuestions {
		assert.NotContains(t, q.Question, "Variation")
	}

	rec = do(t, h, http.MethodGet, "/api/interviews", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]interview.Summary](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, start.ID, list[0].ID)

	rec = do(t, h, http.MethodGet, "/api/interviews/"+start.ID+"/export", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	archived := decode[interview.Record](t, rec)
	assert.Len(t, archived.Feedback, 3)
}

func TestUnknownInterview(t *testing.T) {
	h := newTestRouter(t, nil)
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/interviews/nope", ""},
		{http.MethodPost, "/api/interviews/nope/responses", `{"transcription":"hi"}`},
		{http.MethodPost, "/api/interviews/nope/resume", ""},
		{http.MethodGet, "/api/interviews/nope/export", ""},
	} {
		rec := do(t, h, tc.method, tc.path, "", tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
	}
}

func TestBadJSON(t *testing.T) {
	h := newTestRouter(t, nil)
	start := decode[promptView](t, do(t, h, http.MethodPost, "/api/interviews", "", ""))
	rec := do(t, h, http.MethodPost, "/api/interviews/"+start.ID+"/responses", "", `{"transcription":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportBeforeCompletion(t *testing.T) {
	h := newTestRouter(t, nil)
	start := decode[promptView](t, do(t, h, http.MethodPost, "/api/interviews/reset", "", ""))
	rec := do(t, h, http.MethodGet, "/api/interviews/"+start.ID+"/export", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoleAccess(t *testing.T) {
	auth := authmw.NewAuthService("secret")
	h := newTestRouter(t, auth)

	rec := do(t, h, http.MethodPost, "/api/interviews", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/auth/guest", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	candidate := decode[map[string]string](t, rec)["access_token"]
	require.NotEmpty(t, candidate)
	other, err := auth.IssueJWT("guest|someone-else", rbac.RoleCandidate)
	require.NoError(t, err)
	reviewer, err := auth.IssueJWT("admin", rbac.RoleReviewer)
	require.NoError(t, err)

	rec = do(t, h, http.MethodPost, "/api/interviews", candidate, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[promptView](t, rec).ID
	for _, text := range []string{"Ana", "one", "two"} {
		rec = do(t, h, http.MethodPost, "/api/interviews/"+id+"/responses", candidate, `{"transcription":"`+text+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// candidates cannot export, reviewers can
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/interviews/"+id+"/export", candidate, "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/interviews/"+id+"/export", reviewer, "").Code)

	// reviewers do not start interviews
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPost, "/api/interviews", reviewer, "").Code)

	// another candidate neither sees nor lists it
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/interviews/"+id, other, "").Code)
	rec = do(t, h, http.MethodGet, "/api/interviews", other, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]interview.Summary](t, rec))

	rec = do(t, h, http.MethodGet, "/api/interviews", reviewer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]interview.Summary](t, rec), 1)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/interviews/"+id, candidate, "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(t, nil)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", "", "").Code)

	decode[promptView](t, do(t, h, http.MethodPost, "/api/interviews", "", ""))
	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "interview_coach_interviews_started_total")
}

func TestInterviewEvents(t *testing.T) {
	auth := authmw.NewAuthService("secret")
	h := newTestRouter(t, auth)
	candidate, err := auth.IssueJWT("guest|owner", rbac.RoleCandidate)
	require.NoError(t, err)
	reviewer, err := auth.IssueJWT("admin", rbac.RoleReviewer)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/interviews", candidate, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[promptView](t, rec).ID
	rec = do(t, h, http.MethodPost, "/api/interviews/"+id+"/responses", candidate, `{"transcription":"Ana"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// the audit trail is for reviewers, even the owner cannot read it
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodGet, "/api/interviews/"+id+"/events", candidate, "").Code)

	rec = do(t, h, http.MethodGet, "/api/interviews/"+id+"/events", reviewer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	evs := decode[[]eventView](t, rec)
	require.Len(t, evs, 2)
	assert.Equal(t, syncx.TypeInterviewStarted, evs[0].Type)
	assert.Equal(t, syncx.TypeResponseSubmitted, evs[1].Type)
	assert.JSONEq(t, `{"index":0}`, string(evs[1].Data))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/interviews/nope/events", reviewer, "").Code)
}
