package game

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

// dict is a minimal in-memory Dictionary.
type dict []string

func (d dict) WordLength() int {
	if len(d) == 0 {
		return 0
	}
	return len(d[0])
}
func (d dict) Len() int          { return len(d) }
func (d dict) At(i int) string   { return d[i] }
func (d dict) Contains(w string) bool {
	for _, x := range d {
		if x == w {
			return true
		}
	}
	return false
}

func fixed(word string) Picker {
	return PickerFunc(func(d Dictionary) (string, bool) {
		if d == nil || d.Len() == 0 {
			return "", false
		}
		return word, true
	})
}

func typeWord(t *testing.T, e *Engine, s State, w string) State {
	t.Helper()
	for i, r := range w {
		var err error
		s, err = e.Apply(s, EditInput{Position: i, Letter: r})
		if err != nil {
			t.Fatalf("EditInput(%d, %q): %v", i, r, err)
		}
	}
	return s
}

func guess(t *testing.T, e *Engine, s State, w string) State {
	t.Helper()
	s = typeWord(t, e, s, w)
	s, err := e.Apply(s, Submit{})
	if err != nil {
		t.Fatalf("Submit(%q): %v", w, err)
	}
	return s
}

func TestInitialize(t *testing.T) {
	e := NewEngine(nil, fixed("crane"))
	s, err := e.New(dict{"crane", "slate"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Phase != PhasePlaying || s.Answer != "crane" || s.Length != 5 || s.MaxAttempts != 6 {
		t.Fatalf("unexpected state: %+v", s)
	}
	if len(s.Input) != 5 || len(s.History) != 0 || len(s.Hints) != 0 {
		t.Fatalf("state not reset: %+v", s)
	}

	if _, err := e.New(dict{}); !errors.Is(err, ErrNoWords) {
		t.Fatalf("empty dict: got %v, want ErrNoWords", err)
	}
	blank := e.Blank(6)
	got, err := e.Apply(blank, Initialize{Words: nil})
	if !errors.Is(err, ErrNoWords) || !reflect.DeepEqual(got, blank) {
		t.Fatalf("nil dict should be a no-op, got %+v, %v", got, err)
	}
}

func TestScenarioWin(t *testing.T) {
	e := NewEngine(Rules{5: 6}, fixed("crane"))
	s, _ := e.New(dict{"crane", "slate"})

	s = guess(t, e, s, "slate")
	want := []LetterStatus{Absent, Absent, Correct, Absent, Correct}
	if !reflect.DeepEqual(s.History[0].Feedback, want) {
		t.Fatalf("slate feedback = %v, want %v", s.History[0].Feedback, want)
	}
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", s.Phase)
	}
	for _, c := range s.Input {
		if c != "" {
			t.Fatalf("input not cleared: %q", s.Input)
		}
	}

	s = guess(t, e, s, "crane")
	if s.Phase != PhaseWon {
		t.Fatalf("phase = %s, want won", s.Phase)
	}
	if !s.History[1].Solved() {
		t.Fatalf("crane feedback not all correct: %v", s.History[1].Feedback)
	}
	if _, err := e.Apply(s, Submit{}); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("submit after win: %v", err)
	}
}

func TestLoseAfterMaxAttempts(t *testing.T) {
	e := NewEngine(Rules{5: 3}, fixed("crane"))
	s, _ := e.New(dict{"crane", "slate", "pride"})
	s = guess(t, e, s, "slate")
	s = guess(t, e, s, "pride")
	if s.Phase != PhasePlaying {
		t.Fatalf("phase after 2 = %s", s.Phase)
	}
	s = guess(t, e, s, "slate")
	if s.Phase != PhaseLost {
		t.Fatalf("phase after 3 = %s, want lost", s.Phase)
	}
	if len(s.History) != s.MaxAttempts {
		t.Fatalf("history %d, attempts %d", len(s.History), s.MaxAttempts)
	}
	if s.AttemptsLeft() != 0 {
		t.Fatalf("attempts left = %d", s.AttemptsLeft())
	}
}

func TestWinOnLastAttempt(t *testing.T) {
	e := NewEngine(Rules{5: 2}, fixed("crane"))
	s, _ := e.New(dict{"crane", "slate"})
	s = guess(t, e, s, "slate")
	s = guess(t, e, s, "crane")
	if s.Phase != PhaseWon {
		t.Fatalf("phase = %s, want won", s.Phase)
	}
}

func TestSubmitRejections(t *testing.T) {
	e := NewEngine(nil, fixed("crane"))
	s, _ := e.New(dict{"crane", "slate"})

	if _, err := e.Apply(s, Submit{}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("empty submit: %v", err)
	}
	partial := typeWord(t, e, s, "cra")
	if _, err := e.Apply(partial, Submit{}); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("partial submit: %v", err)
	}

	bogus := typeWord(t, e, s, "zzzzz")
	got, err := e.Apply(bogus, Submit{})
	if !errors.Is(err, ErrNotInWordList) {
		t.Fatalf("bogus submit: %v", err)
	}
	if !reflect.DeepEqual(got, bogus) || got.Phase != PhasePlaying {
		t.Fatalf("invalid guess must not change state")
	}
}

func TestEditInput(t *testing.T) {
	e := NewEngine(nil, fixed("crane"))
	s, _ := e.New(dict{"crane"})

	next, err := e.Apply(s, EditInput{Position: 2, Letter: 'A'})
	if err != nil {
		t.Fatalf("EditInput: %v", err)
	}
	if next.Input[2] != "a" {
		t.Fatalf("letter not lowercased: %q", next.Input)
	}
	if s.Input[2] != "" {
		t.Fatalf("Apply mutated its input state")
	}

	cleared, _ := e.Apply(next, EditInput{Position: 2})
	if cleared.Input[2] != "" {
		t.Fatalf("clear failed: %q", cleared.Input)
	}

	for _, pos := range []int{-1, 5} {
		if _, err := e.Apply(s, EditInput{Position: pos, Letter: 'a'}); !errors.Is(err, ErrPosition) {
			t.Fatalf("pos %d: %v", pos, err)
		}
	}
	for _, r := range []rune{'1', '!', 'é', ' '} {
		if _, err := e.Apply(s, EditInput{Position: 0, Letter: r}); !errors.Is(err, ErrInvalidLetter) {
			t.Fatalf("letter %q: %v", r, err)
		}
	}

	if _, err := e.Apply(e.Blank(5), EditInput{Position: 0, Letter: 'a'}); !errors.Is(err, ErrNotPlaying) {
		t.Fatalf("idle edit: %v", err)
	}
}

func TestKeyPress(t *testing.T) {
	e := NewEngine(nil, fixed("crane"))
	s, _ := e.New(dict{"crane", "slate"})

	press := func(s State, keys ...string) State {
		t.Helper()
		for _, k := range keys {
			var err error
			if s, err = e.Apply(s, KeyPress{Key: k}); err != nil {
				t.Fatalf("KeyPress(%q): %v", k, err)
			}
		}
		return s
	}

	s = press(s, "s", "L", "7", "Shift", "a")
	if got := s.InputWord(); got != "sla" {
		t.Fatalf("input = %q, want sla", got)
	}
	s = press(s, KeyBackspace)
	if got := s.InputWord(); got != "sl" {
		t.Fatalf("after backspace = %q, want sl", got)
	}
	s = press(s, "a", "t", "e", "x")
	if got := s.InputWord(); got != "slate" {
		t.Fatalf("full buffer = %q, want slate", got)
	}
	s = press(s, KeyBackspace)
	if got := s.InputWord(); got != "slat" {
		t.Fatalf("backspace on full = %q, want slat", got)
	}
	s = press(s, "e", KeyEnter)
	if len(s.History) != 1 || s.History[0].Word != "slate" {
		t.Fatalf("enter did not submit: %+v", s.History)
	}

	empty := press(s, KeyBackspace)
	if !reflect.DeepEqual(empty.Input, s.Input) {
		t.Fatalf("backspace on empty buffer changed input")
	}
}

func TestRestart(t *testing.T) {
	words := dict{"crane", "slate"}
	answers := []string{"crane", "slate"}
	n := 0
	e := NewEngine(nil, PickerFunc(func(d Dictionary) (string, bool) {
		w := answers[n%len(answers)]
		n++
		return w, true
	}))
	s, _ := e.New(words)
	s = guess(t, e, s, "crane")
	if s.Phase != PhaseWon {
		t.Fatalf("phase = %s", s.Phase)
	}

	s, err := e.Apply(s, Restart{})
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if s.Phase != PhasePlaying || s.Answer != "slate" || len(s.History) != 0 || len(s.Hints) != 0 {
		t.Fatalf("restart state: %+v", s)
	}

	// Restart is valid mid-round too.
	s = typeWord(t, e, s, "cr")
	s, err = e.Apply(s, Restart{})
	if err != nil || s.InputWord() != "" || s.Phase != PhasePlaying {
		t.Fatalf("mid-round restart: %+v, %v", s, err)
	}

	// and after a loss
	for s.Phase == PhasePlaying {
		s = guess(t, e, s, "slate")
	}
	if s.Phase != PhaseLost || s.Answer != "crane" {
		t.Fatalf("want lost on crane, got %s on %s", s.Phase, s.Answer)
	}
	s, err = e.Apply(s, Restart{})
	if err != nil || s.Phase != PhasePlaying || s.Answer != "slate" || len(s.History) != 0 || len(s.Hints) != 0 || s.InputWord() != "" {
		t.Fatalf("restart after loss: %+v, %v", s, err)
	}

	if _, err := e.Apply(e.Blank(5), Restart{}); !errors.Is(err, ErrNoWords) {
		t.Fatalf("restart without words: %v", err)
	}
}

func TestRandomPickerDeterministic(t *testing.T) {
	words := dict{"crane", "slate", "pride", "bloom", "frost"}
	p1 := NewRandomPicker(rand.NewPCG(1, 2))
	p2 := NewRandomPicker(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		a, _ := p1.Pick(words)
		b, _ := p2.Pick(words)
		if a != b {
			t.Fatalf("pick %d: %q != %q", i, a, b)
		}
		if !words.Contains(a) {
			t.Fatalf("picked %q outside dictionary", a)
		}
	}
	if _, ok := p1.Pick(dict{}); ok {
		t.Fatal("expected no pick from empty dictionary")
	}
}

func TestParseRules(t *testing.T) {
	r, err := ParseRules(" 5:6, 6:7 ,7:9")
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	if !reflect.DeepEqual(r, Rules{5: 6, 6: 7, 7: 9}) {
		t.Fatalf("rules = %v", r)
	}
	if got := r.Attempts(8); got != 9 {
		t.Fatalf("fallback attempts = %d, want 9", got)
	}
	if got := r.Lengths(); !reflect.DeepEqual(got, []int{5, 6, 7}) {
		t.Fatalf("lengths = %v", got)
	}
	for _, bad := range []string{"5", "x:6", "5:0", "-1:3"} {
		if _, err := ParseRules(bad); err == nil {
			t.Fatalf("ParseRules(%q) should fail", bad)
		}
	}
}

func TestGuessEvents(t *testing.T) {
	e := NewEngine(nil, fixed("crane"))
	s, _ := e.New(dict{"crane", "slate"})

	evs, err := GuessEvents("Slate", 5)
	if err != nil || len(evs) != 6 {
		t.Fatalf("GuessEvents = %v, %v", evs, err)
	}
	for _, ev := range evs {
		if s, err = e.Apply(s, ev); err != nil {
			t.Fatalf("apply %T: %v", ev, err)
		}
	}
	if len(s.History) != 1 || s.History[0].Word != "slate" {
		t.Fatalf("history = %+v", s.History)
	}

	if _, err := GuessEvents("cranes", 5); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("long word = %v", err)
	}
	if evs, _ := GuessEvents("", 5); len(evs) != 1 {
		t.Fatalf("empty word should only submit, got %v", evs)
	}
}
