// ABOUTME: Variant pickers: uniform index selection behind a small interface
// ABOUTME: Tests substitute a fixed picker; production uses math/rand/v2

package respond

import (
	"math/rand/v2"
	"sync"
)

// Picker selects an index in [0, n). Implementations must be safe for
// concurrent use when shared by a Synthesizer.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// RandomPicker returns a picker backed by the process-wide generator.
func RandomPicker() Picker { return globalPicker{} }

type seededPicker struct {
	mu sync.Mutex
	r  *rand.Rand
}

// SeededPicker returns a reproducible picker: the same seed yields the same
// sequence of choices.
func SeededPicker(seed uint64) Picker {
	return &seededPicker{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *seededPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}

// pick returns one element of pool. Out-of-range picker results are clamped.
func pick(p Picker, pool []string) string {
	switch len(pool) {
	case 0:
		return ""
	case 1:
		return pool[0]
	}
	i := p.IntN(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	return pool[i]
}
