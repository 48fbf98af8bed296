package interview

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/interview-coach/internal/db"
	"github.com/mind-engage/interview-coach/internal/grading"
	"github.com/mind-engage/interview-coach/internal/questionbank"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "interviews.db") + "?_pragma=busy_timeout(5000)"
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewSQLStore(conn, string(db.DriverSQLite))
}

func storesUnderTest(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func completedRecord(t *testing.T) Record {
	t.Helper()
	s, err := NewSession([]questionbank.Question{questionbank.NameQuestion, qStrengths}, grading.Synonyms{})
	require.NoError(t, err)
	_, err = s.Submit("Joshua Lee")
	require.NoError(t, err)
	_, err = s.Submit("My strength is communication and my skills are broad")
	require.NoError(t, err)
	rec := s.Record()
	rec.CandidateID = "user-1"
	return rec
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			rec := completedRecord(t)
			rec.Timestamp = time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC)

			id, err := st.Create(ctx, rec)
			require.NoError(t, err)
			require.NotEmpty(t, id)

			got, err := st.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.True(t, rec.Timestamp.Equal(got.Timestamp))
			assert.False(t, got.UpdatedAt.IsZero())
			assert.Equal(t, "Joshua", got.CandidateName)
			assert.Equal(t, "user-1", got.CandidateID)
			assert.Equal(t, rec.SelectedQuestions, got.SelectedQuestions)
			assert.Equal(t, rec.Responses, got.Responses)
			assert.Equal(t, rec.Feedback, got.Feedback)
			assert.True(t, got.IsComplete)
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	ctx := context.Background()
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			s, err := NewSession([]questionbank.Question{questionbank.NameQuestion, qTeamwork}, grading.Synonyms{})
			require.NoError(t, err)
			id, err := st.Create(ctx, s.Record())
			require.NoError(t, err)

			_, err = s.Submit("Ana")
			require.NoError(t, err)
			require.NoError(t, st.Update(ctx, id, s.Record()))

			got, err := st.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "Ana", got.CandidateName)
			require.Len(t, got.Responses, 1)
			assert.False(t, got.IsComplete)
			assert.Len(t, got.SelectedQuestions, 2)

			assert.ErrorIs(t, st.Update(ctx, "missing", s.Record()), ErrNotFound)
		})
	}
}

func TestStoreGetUnknown(t *testing.T) {
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), "does-not-exist")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, st := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			for i, who := range []string{"first", "second", "third"} {
				rec := completedRecord(t)
				rec.CandidateName = who
				rec.Timestamp = base.Add(time.Duration(i) * time.Hour)
				if who == "second" {
					rec.CandidateID = "user-2"
				}
				_, err := st.Create(ctx, rec)
				require.NoError(t, err)
			}

			all, err := st.List(ctx, ListOpts{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{"third", "second", "first"}, names(all))
			assert.True(t, all[0].IsComplete)

			page, err := st.List(ctx, ListOpts{Limit: 1, Offset: 1})
			require.NoError(t, err)
			assert.Equal(t, []string{"second"}, names(page))

			mine, err := st.List(ctx, ListOpts{CandidateID: "user-1"})
			require.NoError(t, err)
			assert.Equal(t, []string{"third", "first"}, names(mine))

			empty, err := st.List(ctx, ListOpts{Offset: 10})
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func names(in []Summary) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Name
	}
	return out
}
