// Package render draws a session as coloured terminal text: the guess grid,
// the input row, an on-screen keyboard coloured by hints and a status line.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/session"
)

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

// Renderer holds styles bound to one output. Colours are dropped when the
// output is not a terminal.
type Renderer struct {
	tile    map[game.LetterStatus]lipgloss.Style
	input   lipgloss.Style
	empty   lipgloss.Style
	header  lipgloss.Style
	subtle  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
}

// New returns a Renderer for w.
func New(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().Padding(0, 1).Bold(true)
	return &Renderer{
		tile: map[game.LetterStatus]lipgloss.Style{
			game.Unset:   base.Foreground(lipgloss.Color("15")),
			game.Absent:  base.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8")),
			game.Present: base.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")),
			game.Correct: base.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")),
		},
		input:   base.Foreground(lipgloss.Color("14")),
		empty:   base.Foreground(lipgloss.Color("8")),
		header:  r.NewStyle().Bold(true),
		subtle:  r.NewStyle().Foreground(lipgloss.Color("8")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Snapshot renders the whole screen.
func (r *Renderer) Snapshot(s session.Snapshot) string {
	var b strings.Builder
	b.WriteString(r.header.Render(fmt.Sprintf("%d letters, %d attempts", s.Length, s.MaxAttempts)))
	b.WriteString("\n\n")
	b.WriteString(r.Board(s.State))
	b.WriteString("\n")
	b.WriteString(r.Keyboard(s.Hints))
	b.WriteString("\n")
	b.WriteString(r.Status(s))
	b.WriteString("\n")
	return b.String()
}

// Board draws one row per attempt: scored guesses, then the input row while
// playing, then empty rows.
func (r *Renderer) Board(st game.State) string {
	var rows []string
	for _, g := range st.History {
		tiles := make([]string, 0, len(g.Feedback))
		for i, c := range []rune(g.Word) {
			tiles = append(tiles, r.tile[g.Feedback[i]].Render(strings.ToUpper(string(c))))
		}
		rows = append(rows, strings.Join(tiles, " "))
	}
	if st.Phase == game.PhasePlaying {
		tiles := make([]string, len(st.Input))
		for i, c := range st.Input {
			if c == "" {
				tiles[i] = r.empty.Render("_")
			} else {
				tiles[i] = r.input.Render(strings.ToUpper(c))
			}
		}
		rows = append(rows, strings.Join(tiles, " "))
	}
	for len(rows) < st.MaxAttempts {
		tiles := make([]string, st.Length)
		for i := range tiles {
			tiles[i] = r.empty.Render("·")
		}
		rows = append(rows, strings.Join(tiles, " "))
	}
	return strings.Join(rows, "\n") + "\n"
}

// Keyboard draws a QWERTY layout with each key coloured by its best status.
func (r *Renderer) Keyboard(h game.Hints) string {
	lines := make([]string, len(keyboardRows))
	for i, row := range keyboardRows {
		keys := make([]string, 0, len(row))
		for _, c := range row {
			keys = append(keys, r.tile[h.Get(c)].Render(strings.ToUpper(string(c))))
		}
		lines[i] = strings.Repeat(" ", i) + strings.Join(keys, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

// Status is the one-line summary under the keyboard.
func (r *Renderer) Status(s session.Snapshot) string {
	switch {
	case s.Loading:
		return r.subtle.Render(fmt.Sprintf("loading %d-letter words...", s.Length))
	case s.LoadError != "":
		return r.failure.Render("could not load words: " + s.LoadError)
	case s.Phase == game.PhaseWon:
		return r.success.Render(fmt.Sprintf("solved in %d!", len(s.History)))
	case s.Phase == game.PhaseLost:
		return r.failure.Render("out of attempts, the word was " + strings.ToUpper(s.Answer))
	case s.Phase == game.PhaseIdle:
		return r.subtle.Render("no round in progress")
	}
	return r.subtle.Render(fmt.Sprintf("%d attempts left", s.AttemptsLeft()))
}
