// internal/game/engine.go
//
// Turn-based state machine for a single round.
// Responsibilities:
//   - Pick answers through an injectable Picker.
//   - Apply input edits, virtual key presses, submissions and restarts.
//   - Score guesses with Evaluate and fold them into keyboard hints.
//   - Track phase transitions: idle → playing → won/lost.
//
// Notes:
//   - Apply is a pure function of (State, Event); it never mutates its input.
//   - Switching word length needs a new Dictionary, so it is driven from the
//     session package and ends in an Initialize event here.
package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoWords       = errors.New("word list is empty")
	ErrNotPlaying    = errors.New("game is not in progress")
	ErrPosition      = errors.New("input position out of range")
	ErrInvalidLetter = errors.New("input must be a letter a-z")
	ErrIncomplete    = errors.New("guess is incomplete")
	ErrNotInWordList = errors.New("not in word list")
)

// Event is one discrete user or system action.
type Event interface{ event() }

// Initialize starts a round against Words.
type Initialize struct{ Words Dictionary }

// EditInput sets one slot of the input buffer. Letter 0 clears the slot.
type EditInput struct {
	Position int
	Letter   rune
}

// KeyPress is a physical or on-screen key: a letter, "Backspace" or "Enter".
type KeyPress struct{ Key string }

// Submit scores the input buffer as a guess.
type Submit struct{}

// Restart picks a new answer from the current word list.
type Restart struct{}

func (Initialize) event() {}
func (EditInput) event()  {}
func (KeyPress) event()   {}
func (Submit) event()     {}
func (Restart) event()    {}

const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// Engine applies events. The zero value is not usable; see NewEngine.
type Engine struct {
	Rules  Rules
	Picker Picker
}

// NewEngine returns an engine. Nil arguments fall back to DefaultRules and a
// runtime-seeded RandomPicker.
func NewEngine(rules Rules, p Picker) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	if p == nil {
		p = NewRandomPicker(nil)
	}
	return &Engine{Rules: rules, Picker: p}
}

// Blank returns the idle state for length: empty board, no answer.
func (e *Engine) Blank(length int) State {
	return State{
		Length:      length,
		MaxAttempts: e.Rules.Attempts(length),
		History:     []GuessRecord{},
		Input:       make([]string, length),
		Hints:       Hints{},
		Phase:       PhaseIdle,
	}
}

// New is Apply(Blank, Initialize{d}).
func (e *Engine) New(d Dictionary) (State, error) {
	length := 0
	if d != nil {
		length = d.WordLength()
	}
	return e.Apply(e.Blank(length), Initialize{Words: d})
}

// Apply returns the state after ev. On error the returned state is s.
func (e *Engine) Apply(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case Initialize:
		return e.initialize(s, ev.Words)
	case Restart:
		return e.initialize(s, s.Words)
	case EditInput:
		return e.editInput(s, ev)
	case KeyPress:
		return e.keyPress(s, ev.Key)
	case Submit:
		return e.submit(s)
	default:
		return s, errors.New("game: unknown event")
	}
}

func (e *Engine) initialize(s State, d Dictionary) (State, error) {
	answer, ok := e.Picker.Pick(d)
	if !ok {
		return s, ErrNoWords
	}
	length := d.WordLength()
	return State{
		Answer:      strings.ToLower(answer),
		Length:      length,
		MaxAttempts: e.Rules.Attempts(length),
		History:     []GuessRecord{},
		Input:       make([]string, length),
		Hints:       Hints{},
		Phase:       PhasePlaying,
		Words:       d,
	}, nil
}

func (e *Engine) editInput(s State, ev EditInput) (State, error) {
	if s.Phase != PhasePlaying {
		return s, ErrNotPlaying
	}
	if ev.Position < 0 || ev.Position >= len(s.Input) {
		return s, ErrPosition
	}
	letter := ""
	if ev.Letter != 0 {
		r, ok := normalizeLetter(ev.Letter)
		if !ok {
			return s, ErrInvalidLetter
		}
		letter = string(r)
	}
	out := s.clone()
	out.Input[ev.Position] = letter
	return out, nil
}

// keyPress mirrors on-screen keyboard behaviour: letters fill the first empty
// slot, Backspace clears the slot before it, Enter submits. Anything else is
// dropped without error.
func (e *Engine) keyPress(s State, key string) (State, error) {
	if s.Phase != PhasePlaying {
		return s, ErrNotPlaying
	}
	switch {
	case strings.EqualFold(key, KeyEnter):
		return e.submit(s)
	case strings.EqualFold(key, KeyBackspace):
		pos := firstEmpty(s.Input)
		if pos == -1 {
			pos = len(s.Input) - 1
		} else if pos > 0 {
			pos--
		}
		if pos < 0 || s.Input[pos] == "" {
			return s, nil
		}
		return e.editInput(s, EditInput{Position: pos})
	}
	rs := []rune(key)
	if len(rs) != 1 {
		return s, nil
	}
	if _, ok := normalizeLetter(rs[0]); !ok {
		return s, nil
	}
	pos := firstEmpty(s.Input)
	if pos == -1 {
		return s, nil
	}
	return e.editInput(s, EditInput{Position: pos, Letter: rs[0]})
}

func (e *Engine) submit(s State) (State, error) {
	if s.Phase != PhasePlaying {
		return s, ErrNotPlaying
	}
	if firstEmpty(s.Input) != -1 {
		return s, ErrIncomplete
	}
	guess := s.InputWord()
	if s.Words == nil || !s.Words.Contains(guess) {
		return s, ErrNotInWordList
	}
	feedback, err := Evaluate(guess, s.Answer)
	if err != nil {
		return s, err
	}

	out := s.clone()
	out.History = append(out.History, GuessRecord{Word: guess, Feedback: feedback})
	out.Hints = s.Hints.Merge(guess, feedback)
	out.Input = make([]string, s.Length)

	switch {
	case guess == s.Answer:
		out.Phase = PhaseWon
	case len(out.History) >= out.MaxAttempts:
		out.Phase = PhaseLost
	}
	return out, nil
}

// GuessEvents fills the input buffer with word and submits it. Applied as
// one batch, a rejected word leaves the buffer untouched.
func GuessEvents(word string, length int) ([]Event, error) {
	if word == "" {
		return []Event{Submit{}}, nil
	}
	runes := []rune(strings.TrimSpace(word))
	if len(runes) != length {
		return nil, fmt.Errorf("%w: want %d letters, got %d", ErrLengthMismatch, length, len(runes))
	}
	events := make([]Event, 0, length+1)
	for i, c := range runes {
		events = append(events, EditInput{Position: i, Letter: c})
	}
	return append(events, Submit{}), nil
}

func firstEmpty(in []string) int {
	for i, c := range in {
		if c == "" {
			return i
		}
	}
	return -1
}

// normalizeLetter lowercases ASCII letters and rejects everything else.
func normalizeLetter(r rune) (rune, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return r, true
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A'), true
	}
	return 0, false
}
