package scenario

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Selector draws scenarios from a weighted table. The table is built once
// at construction by repeating each scenario Weight times; Pick indexes it
// uniformly at random, so draw probability is weight / sum(weights).
type Selector struct {
	table []Scenario
	rnd   *rand.Rand
	mu    sync.Mutex
}

// NewSelector builds a Selector from a non-empty scenario list. Every
// scenario must carry a weight >= 1; violating either condition is a
// configuration error.
func NewSelector(scenarios []Scenario) (*Selector, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("scenario list must not be empty")
	}
	total := 0
	for _, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, err
		}
		total += s.Weight
	}

	table := make([]Scenario, 0, total)
	for _, s := range scenarios {
		for i := 0; i < s.Weight; i++ {
			table = append(table, s)
		}
	}

	return &Selector{
		table: table,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Pick returns one scenario chosen uniformly at random from the weighted
// table. Safe for concurrent use.
func (s *Selector) Pick() Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table[s.rnd.Intn(len(s.table))]
}

// Len reports the size of the weighted table (the sum of all weights).
func (s *Selector) Len() int {
	return len(s.table)
}
