package game

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses the answer for a round.
type Picker interface {
	Pick(d Dictionary) (string, bool)
}

// RandomPicker picks uniformly. Safe for concurrent use.
type RandomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker returns a picker drawing from src. A nil src uses the
// runtime's auto-seeded generator; tests pass a fixed PCG source.
func NewRandomPicker(src rand.Source) *RandomPicker {
	p := &RandomPicker{}
	if src != nil {
		p.rng = rand.New(src)
	}
	return p
}

// Pick returns a uniformly random word, false when d is empty.
func (p *RandomPicker) Pick(d Dictionary) (string, bool) {
	if d == nil || d.Len() == 0 {
		return "", false
	}
	if p.rng == nil {
		return d.At(rand.IntN(d.Len())), true
	}
	p.mu.Lock()
	i := p.rng.IntN(d.Len())
	p.mu.Unlock()
	return d.At(i), true
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(d Dictionary) (string, bool)

func (f PickerFunc) Pick(d Dictionary) (string, bool) { return f(d) }
