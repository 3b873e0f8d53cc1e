package game

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when guess and answer differ in length.
var ErrLengthMismatch = errors.New("game: guess and answer lengths differ")

// Evaluate scores guess against answer using the two-pass algorithm.
//
// Pass 1 marks exact matches Correct and consumes those answer positions.
// Pass 2 walks the remaining guess letters left to right; each one consumes
// the leftmost unconsumed equal answer letter and becomes Present, or is
// Absent when none is left. A guess holding more copies of a letter than the
// answer therefore gets the excess marked Absent.
func Evaluate(guess, answer string) ([]LetterStatus, error) {
	g, a := []rune(guess), []rune(answer)
	if len(g) != len(a) {
		return nil, fmt.Errorf("%w: guess %d, answer %d", ErrLengthMismatch, len(g), len(a))
	}

	out := make([]LetterStatus, len(a))
	used := make([]bool, len(a))

	for i := range a {
		if g[i] == a[i] {
			out[i] = Correct
			used[i] = true
		}
	}

	for i := range g {
		if out[i] == Correct {
			continue
		}
		out[i] = Absent
		for j := range a {
			if !used[j] && a[j] == g[i] {
				out[i] = Present
				used[j] = true
				break
			}
		}
	}
	return out, nil
}
