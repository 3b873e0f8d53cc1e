package render

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/session"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func snapshot(phase game.Phase) session.Snapshot {
	st := game.State{
		Answer:      "crane",
		Length:      5,
		MaxAttempts: 6,
		History: []game.GuessRecord{{
			Word:     "slate",
			Feedback: []game.LetterStatus{game.Absent, game.Absent, game.Correct, game.Absent, game.Correct},
		}},
		Input: []string{"c", "r", "", "", ""},
		Phase: phase,
	}
	st.Hints = game.Hints{}.Merge("slate", st.History[0].Feedback)
	return session.Snapshot{State: st}
}

func TestBoardRows(t *testing.T) {
	r := New(&bytes.Buffer{})
	out := plain(r.Board(snapshot(game.PhasePlaying).State))
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6:\n%s", len(rows), out)
	}
	for _, c := range "SLATE" {
		if !strings.ContainsRune(rows[0], c) {
			t.Fatalf("guess row %q missing %c", rows[0], c)
		}
	}
	if !strings.Contains(rows[1], "C") || !strings.Contains(rows[1], "R") || strings.Count(rows[1], "_") != 3 {
		t.Fatalf("input row = %q", rows[1])
	}
	if strings.Count(rows[5], "·") != 5 {
		t.Fatalf("empty row = %q", rows[5])
	}
}

func TestBoardHidesInputWhenFinished(t *testing.T) {
	r := New(&bytes.Buffer{})
	out := plain(r.Board(snapshot(game.PhaseLost).State))
	if strings.Contains(out, "_") {
		t.Fatalf("finished board shows input row:\n%s", out)
	}
}

func TestKeyboardAndStatus(t *testing.T) {
	r := New(&bytes.Buffer{})
	kb := plain(r.Keyboard(game.Hints{}))
	if lines := strings.Split(strings.TrimRight(kb, "\n"), "\n"); len(lines) != 3 || !strings.Contains(lines[2], "Z") {
		t.Fatalf("keyboard = %q", kb)
	}

	cases := []struct {
		snap session.Snapshot
		want string
	}{
		{snapshot(game.PhasePlaying), "5 attempts left"},
		{snapshot(game.PhaseLost), "CRANE"},
		{session.Snapshot{State: game.State{Length: 6}, Loading: true}, "loading 6-letter"},
		{session.Snapshot{LoadError: "word list unavailable"}, "could not load"},
	}
	for _, c := range cases {
		if got := plain(r.Status(c.snap)); !strings.Contains(got, c.want) {
			t.Errorf("Status = %q, want %q", got, c.want)
		}
	}

	won := snapshot(game.PhaseWon)
	if got := plain(r.Snapshot(won)); !strings.Contains(got, "solved in 1!") || !strings.Contains(got, "5 letters, 6 attempts") {
		t.Fatalf("snapshot = %q", got)
	}
}
