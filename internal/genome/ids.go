package genome

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out unique genome IDs. It is injected wherever genomes
// are created so tests and seeded construction can stay deterministic.
type IDGenerator interface {
	Next() string
}

// Sequential produces prefix-numbered IDs in order. Used by seeded
// construction, where IDs must be reproducible from the seed alone.
type Sequential struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

func (s *Sequential) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("%s%d", s.prefix, s.next)
	s.next++
	return id
}

// Random produces UUID-backed IDs for live evolution.
type Random struct{}

func NewRandom() Random {
	return Random{}
}

func (Random) Next() string {
	return uuid.NewString()
}
