package questionbank

import (
	"errors"
	"math/rand"
)

var ErrEmptyBank = errors.New("question bank is empty")

// Bank is an ordered, read-only collection of questions.
type Bank struct {
	questions []Question
}

func New(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyBank
	}
	cp := make([]Question, len(questions))
	copy(cp, questions)
	return &Bank{questions: cp}, nil
}

func (b *Bank) Len() int { return len(b.questions) }

// Sample picks n distinct entries by shuffle-and-take. If n exceeds the
// eligible pool the whole pool is returned in shuffled order.
func (b *Bank) Sample(rng *rand.Rand, n int, excludeVariations bool) []Question {
	if n <= 0 {
		return nil
	}
	idx := make([]int, 0, len(b.questions))
	for i, q := range b.questions {
		if excludeVariations && q.IsVariation() {
			continue
		}
		idx = append(idx, i)
	}
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]Question, 0, n)
	for _, i := range idx[:n] {
		out = append(out, b.questions[i])
	}
	return out
}
