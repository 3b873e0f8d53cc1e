package game

// Hints maps a single lowercase letter to the best status seen for it.
type Hints map[string]LetterStatus

// Merge returns a new Hints with one guess folded in. A letter's status only
// ever moves up the precedence order; a Correct letter stays Correct.
func (h Hints) Merge(word string, feedback []LetterStatus) Hints {
	out := h.clone()
	if out == nil {
		out = Hints{}
	}
	for i, r := range []rune(word) {
		if i >= len(feedback) {
			break
		}
		k := string(r)
		if feedback[i] > out[k] {
			out[k] = feedback[i]
		}
	}
	return out
}

// Get returns the hint for a letter, Unset when unseen.
func (h Hints) Get(letter rune) LetterStatus { return h[string(letter)] }

func (h Hints) clone() Hints {
	if h == nil {
		return nil
	}
	out := make(Hints, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
