package interview

import "context"

type ListOpts struct {
	CandidateID string // optional owner filter
	Limit       int
	Offset      int
}

// Store persists interview records. Writes to a single id are expected to
// come from one session at a time.
type Store interface {
	Create(ctx context.Context, rec Record) (string, error)
	Update(ctx context.Context, id string, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, opts ListOpts) ([]Summary, error) // newest first
}

const defaultListLimit = 50

func (o ListOpts) limit() int {
	if o.Limit <= 0 {
		return defaultListLimit
	}
	return o.Limit
}
