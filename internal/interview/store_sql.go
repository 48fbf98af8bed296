package interview

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore keeps records in the interviews table. Question, response and
// feedback lists are stored as JSON text columns.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver, now: time.Now}
}

func (s *SQLStore) Create(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := s.now().UTC()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	qj, rj, fj, err := encodeLists(rec)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO interviews
		(id,candidate_name,candidate_id,questions_json,responses_json,feedback_json,is_complete,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.CandidateName, rec.CandidateID, qj, rj, fj, boolInt(rec.IsComplete),
		rec.Timestamp.UnixNano(), now.UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert interview: %w", err)
	}
	return rec.ID, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, rec Record) error {
	_, rj, fj, err := encodeLists(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE interviews
		SET candidate_name=$1, responses_json=$2, feedback_json=$3, is_complete=$4, updated_at=$5
		WHERE id=$6`,
		rec.CandidateName, rj, fj, boolInt(rec.IsComplete), s.now().UTC().UnixNano(), id)
	if err != nil {
		return fmt.Errorf("update interview %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,candidate_name,candidate_id,questions_json,responses_json,feedback_json,is_complete,created_at,updated_at
		FROM interviews WHERE id=$1`, id)
	var (
		rec                  Record
		qjson, rjson, fjson  string
		complete             int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&rec.ID, &rec.CandidateName, &rec.CandidateID, &qjson, &rjson, &fjson, &complete, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &rec.SelectedQuestions); err != nil {
		return Record{}, fmt.Errorf("%w: questions: %v", ErrCorruptRecord, err)
	}
	if err := json.Unmarshal([]byte(rjson), &rec.Responses); err != nil {
		return Record{}, fmt.Errorf("%w: responses: %v", ErrCorruptRecord, err)
	}
	if err := json.Unmarshal([]byte(fjson), &rec.Feedback); err != nil {
		return Record{}, fmt.Errorf("%w: feedback: %v", ErrCorruptRecord, err)
	}
	rec.IsComplete = complete != 0
	rec.Timestamp = time.Unix(0, createdAt).UTC()
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return rec, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Summary, error) {
	q := `SELECT id,candidate_name,is_complete,created_at FROM interviews`
	args := []any{}
	if opts.CandidateID != "" {
		q += ` WHERE candidate_id=$1`
		args = append(args, opts.CandidateID)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.limit(), max(opts.Offset, 0))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum       Summary
			complete  int
			createdAt int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &complete, &createdAt); err != nil {
			return nil, err
		}
		sum.IsComplete = complete != 0
		sum.Timestamp = time.Unix(0, createdAt).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

func encodeLists(rec Record) (questions, responses, feedback string, err error) {
	qj, err := json.Marshal(rec.SelectedQuestions)
	if err != nil {
		return "", "", "", err
	}
	rj, err := json.Marshal(rec.Responses)
	if err != nil {
		return "", "", "", err
	}
	fj, err := json.Marshal(rec.Feedback)
	if err != nil {
		return "", "", "", err
	}
	return string(qj), string(rj), string(fj), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
