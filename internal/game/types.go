// internal/game/types.go
//
// Core type definitions for the word game engine.
// Defines:
//   - LetterStatus: per-letter result of a guess (correct/present/absent).
//   - GuessRecord:  one submitted guess and its feedback.
//   - Phase:        coarse lifecycle of a round (idle → playing → won/lost).
//   - State:        the full, immutable-by-convention session state.
//   - Dictionary:   the read-only word list a round is played against.

package game

import "fmt"

// LetterStatus represents the evaluation result for a single letter.
// Values are ordered by precedence so hint aggregation can compare them:
//
//	Correct > Present > Absent > Unset
type LetterStatus uint8

const (
	Unset LetterStatus = iota
	Absent
	Present
	Correct
)

var statusNames = [...]string{
	Unset:   "",
	Absent:  "absent",
	Present: "present",
	Correct: "correct",
}

// String returns the wire name ("" for Unset).
func (s LetterStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("LetterStatus(%d)", uint8(s))
}

// MarshalText encodes the status as its wire name.
func (s LetterStatus) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("game: invalid letter status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText decodes a wire name back into a status.
func (s *LetterStatus) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = LetterStatus(i)
			return nil
		}
	}
	return fmt.Errorf("game: unknown letter status %q", string(b))
}

// GuessRecord is one submitted guess. Never mutated once appended to history.
type GuessRecord struct {
	Word     string         `json:"word"`
	Feedback []LetterStatus `json:"feedback"`
}

// Solved reports whether every letter was Correct.
func (g GuessRecord) Solved() bool {
	for _, s := range g.Feedback {
		if s != Correct {
			return false
		}
	}
	return len(g.Feedback) > 0
}

// Phase is the lifecycle of a round.
//   - idle:    no answer is set (word list pending, empty, or failed to load).
//   - playing: accepting input and guesses.
//   - won/lost: terminal until Restart or a new word list.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
)

// Finished reports whether the phase is terminal.
func (p Phase) Finished() bool { return p == PhaseWon || p == PhaseLost }

// Dictionary is a read-only list of words of a single length.
// words.List is the production implementation.
type Dictionary interface {
	WordLength() int
	Len() int
	At(i int) string
	Contains(word string) bool
}

// State holds everything a renderer needs for one round.
// Transitions never mutate a State in place; Engine.Apply returns a copy.
type State struct {
	Answer      string        `json:"answer,omitempty"`
	Length      int           `json:"length"`
	MaxAttempts int           `json:"maxAttempts"`
	History     []GuessRecord `json:"history"`
	Input       []string      `json:"input"` // one entry per slot, "" when empty
	Hints       Hints         `json:"hints"`
	Phase       Phase         `json:"phase"`

	Words Dictionary `json:"-"`
}

// AttemptsLeft is MaxAttempts minus guesses used, never negative.
func (s State) AttemptsLeft() int {
	if n := s.MaxAttempts - len(s.History); n > 0 {
		return n
	}
	return 0
}

// InputWord joins the input buffer. Empty slots are skipped.
func (s State) InputWord() string {
	var b []byte
	for _, c := range s.Input {
		b = append(b, c...)
	}
	return string(b)
}

// clone deep-copies the slices and maps so the result can be changed
// without touching s.
func (s State) clone() State {
	out := s
	out.History = append([]GuessRecord(nil), s.History...)
	out.Input = append([]string(nil), s.Input...)
	out.Hints = s.Hints.clone()
	return out
}
