package interview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/metrics"
	"github.com/mind-engage/interview-coach/internal/questionbank"
	"github.com/mind-engage/interview-coach/internal/storage"
	syncx "github.com/mind-engage/interview-coach/internal/sync"
)

type Options struct {
	QuestionsPerInterview int
	IncludeNameQuestion   bool
	ExcludeVariations     bool
}

// EventSink records domain events and reads them back per interview.
// *syncx.EventRepo satisfies it.
type EventSink interface {
	Append(ctx context.Context, e syncx.Event) error
	ListByKey(ctx context.Context, key string) ([]syncx.Event, error)
}

// Turn is what the candidate sees after an operation: either the next
// prompt or, once Complete, the feedback.
type Turn struct {
	ID       string
	Prompt   string
	Index    int
	Total    int
	Complete bool
	Feedback []grading.FeedbackItem
}

type Service struct {
	bank     *questionbank.Bank
	synonyms grading.Synonyms
	store    Store
	events   EventSink         // optional
	archive  storage.BlobStore // optional
	log      *zap.Logger
	opts     Options

	rngMu sync.Mutex
	rng   *rand.Rand

	// serializes load-modify-write on records
	mu sync.Mutex
}

func NewService(bank *questionbank.Bank, syn grading.Synonyms, store Store, events EventSink, archive storage.BlobStore, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.QuestionsPerInterview <= 0 {
		opts.QuestionsPerInterview = 5
	}
	return &Service{
		bank:     bank,
		synonyms: syn,
		store:    store,
		events:   events,
		archive:  archive,
		log:      log,
		opts:     opts,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start samples a fresh question set and persists a new interview.
func (s *Service) Start(ctx context.Context, candidateID string) (Turn, error) {
	s.rngMu.Lock()
	qs := s.bank.Sample(s.rng, s.opts.QuestionsPerInterview, s.opts.ExcludeVariations)
	s.rngMu.Unlock()
	if s.opts.IncludeNameQuestion {
		qs = append([]questionbank.Question{questionbank.NameQuestion}, qs...)
	}

	sess, err := NewSession(qs, s.synonyms)
	if err != nil {
		return Turn{}, err
	}
	rec := sess.Record()
	rec.CandidateID = candidateID
	id, err := s.store.Create(ctx, rec)
	if err != nil {
		return Turn{}, fmt.Errorf("create interview: %w", err)
	}
	rec.ID = id
	sess, err = Restore(rec, s.synonyms)
	if err != nil {
		return Turn{}, err
	}

	metrics.InterviewsStarted.Inc()
	s.emit(ctx, syncx.TypeInterviewStarted, id, map[string]any{
		"candidate_id": candidateID,
		"questions":    len(qs),
	})
	s.log.Info("interview started", zap.String("id", id), zap.Int("questions", len(qs)))
	return turnFor(sess)
}

// Submit records text as the answer to the current question of interview id.
func (s *Service) Submit(ctx context.Context, id, text string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return Turn{}, err
	}
	index := sess.Index()
	done, err := sess.Submit(text)
	if err != nil {
		s.reject(err)
		return Turn{}, err
	}
	rec := sess.Record()
	if err := s.store.Update(ctx, id, rec); err != nil {
		return Turn{}, fmt.Errorf("update interview %s: %w", id, err)
	}

	metrics.ResponsesSubmitted.Inc()
	s.emit(ctx, syncx.TypeResponseSubmitted, id, map[string]any{"index": index})
	if done {
		metrics.InterviewsCompleted.Inc()
		for _, f := range rec.Feedback {
			metrics.ResponseScore.Observe(float64(f.Score))
		}
		s.emit(ctx, syncx.TypeInterviewCompleted, id, map[string]any{
			"candidate_name": rec.CandidateName,
			"scores":         scores(rec.Feedback),
		})
		s.writeArchive(rec)
		s.log.Info("interview completed", zap.String("id", id), zap.String("candidate", rec.CandidateName))
	}
	return turnFor(sess)
}

// Resume returns the pending prompt of a stored interview. A complete
// interview cannot be resumed.
func (s *Service) Resume(ctx context.Context, id string) (Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, id)
	if err != nil {
		return Turn{}, err
	}
	if sess.IsComplete() {
		s.reject(ErrInvalidState)
		return Turn{}, ErrInvalidState
	}
	metrics.InterviewsResumed.Inc()
	return turnFor(sess)
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		s.reject(err)
	}
	return rec, err
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Summary, error) {
	return s.store.List(ctx, opts)
}

// Archive opens the transcript written when interview id completed.
func (s *Service) Archive(ctx context.Context, id string) (io.ReadCloser, error) {
	if s.archive == nil {
		return nil, ErrNotFound
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rc, err := s.archive.Get(archiveKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("transcript %s: %w", id, ErrNotFound)
	}
	return rc, err
}

// Events returns the audit trail of interview id, oldest first.
func (s *Service) Events(ctx context.Context, id string) ([]syncx.Event, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.events == nil {
		return []syncx.Event{}, nil
	}
	evs, err := s.events.ListByKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list events %s: %w", id, err)
	}
	if evs == nil {
		evs = []syncx.Event{}
	}
	return evs, nil
}

func (s *Service) load(ctx context.Context, id string) (*Session, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		s.reject(err)
		return nil, err
	}
	return Restore(rec, s.synonyms)
}

func (s *Service) reject(err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.Rejections.WithLabelValues("not_found").Inc()
	case errors.Is(err, ErrInvalidState):
		metrics.Rejections.WithLabelValues("invalid_state").Inc()
	}
}

func (s *Service) emit(ctx context.Context, typ, id string, data any) {
	if s.events == nil {
		return
	}
	ev, err := syncx.NewEvent(typ, id, data)
	if err == nil {
		err = s.events.Append(ctx, ev)
	}
	if err != nil {
		metrics.SideEffectFailures.WithLabelValues("event").Inc()
		s.log.Warn("append event", zap.String("type", typ), zap.String("id", id), zap.Error(err))
	}
}

func (s *Service) writeArchive(rec Record) {
	if s.archive == nil {
		return
	}
	buf, err := json.MarshalIndent(rec, "", "  ")
	if err == nil {
		_, err = s.archive.Put(archiveKey(rec.ID), bytes.NewReader(buf))
	}
	if err != nil {
		metrics.SideEffectFailures.WithLabelValues("archive").Inc()
		s.log.Warn("archive transcript", zap.String("id", rec.ID), zap.Error(err))
	}
}

func archiveKey(id string) string { return "interviews/" + id + ".json" }

func turnFor(sess *Session) (Turn, error) {
	t := Turn{ID: sess.ID(), Index: sess.Index(), Total: sess.Total()}
	if sess.IsComplete() {
		t.Complete = true
		t.Feedback = sess.Feedback()
		return t, nil
	}
	p, err := sess.Prompt()
	if err != nil {
		return Turn{}, err
	}
	t.Prompt = p
	return t, nil
}

func scores(items []grading.FeedbackItem) []int {
	out := make([]int, len(items))
	for i, f := range items {
		out[i] = f.Score
	}
	return out
}
