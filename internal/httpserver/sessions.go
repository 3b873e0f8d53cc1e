// internal/httpserver/sessions.go
//
// Session endpoints. Each request is one atomic event batch on the session
// identified by {id}; the response is always the resulting view.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/session"
)

// view is the client-facing snapshot. The answer is only revealed once the
// round is over.
type view struct {
	SessionID    string             `json:"sessionId"`
	Mode         session.Mode       `json:"mode"`
	Version      uint64             `json:"version"`
	Phase        game.Phase         `json:"phase"`
	Length       int                `json:"length"`
	MaxAttempts  int                `json:"maxAttempts"`
	AttemptsLeft int                `json:"attemptsLeft"`
	History      []game.GuessRecord `json:"history"`
	Input        []string           `json:"input"`
	Hints        game.Hints         `json:"hints"`
	Answer       string             `json:"answer,omitempty"`
	Loading      bool               `json:"loading"`
	LoadError    string             `json:"loadError,omitempty"`
}

func viewOf(sess *session.Session, snap session.Snapshot) view {
	v := view{
		SessionID:    sess.ID,
		Mode:         sess.Mode,
		Version:      snap.Version,
		Phase:        snap.Phase,
		Length:       snap.Length,
		MaxAttempts:  snap.MaxAttempts,
		AttemptsLeft: snap.AttemptsLeft(),
		History:      snap.History,
		Input:        snap.Input,
		Hints:        snap.Hints,
		Loading:      snap.Loading,
		LoadError:    snap.LoadError,
	}
	if snap.Phase.Finished() {
		v.Answer = snap.Answer
	}
	return v
}

// ------------------------------ create -------------------------------------

type createReq struct {
	Length int          `json:"length"`
	Mode   session.Mode `json:"mode"`
}

type createRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	View      view      `json:"view"`
}

// handleCreateSession starts a session for the caller's player ID and loads
// its first word list. A failed load still creates the session; the view
// carries loadError and the client can pick another length.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Length == 0 {
		req.Length = s.opts.DefaultLength
	}
	if req.Length < 1 {
		writeError(w, r, fmt.Errorf("%w: length must be positive", errBadRequest))
		return
	}
	if req.Mode == "" {
		req.Mode = session.ModeRandom
	}
	engine := s.random
	switch req.Mode {
	case session.ModeRandom:
	case session.ModeDaily:
		engine = s.daily
	default:
		writeError(w, r, fmt.Errorf("%w: unknown mode %q", errBadRequest, req.Mode))
		return
	}

	pid := s.ensurePlayerID(w, r)
	if err := s.checkDaily(r.Context(), req.Mode, pid, req.Length); err != nil {
		writeError(w, r, err)
		return
	}

	sess := session.New(uuid.NewString(), engine, s.words,
		session.WithPlayer(pid),
		session.WithMode(req.Mode),
		session.WithRecorder(s.ledger),
		session.WithClock(s.opts.Now),
	)
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeError(w, r, err)
		return
	}
	if err := sess.ChangeLength(r.Context(), req.Length); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("session", sess.ID).Msg("initial word list")
	}

	tok, exp, err := s.tokens.sign(sess.ID, pid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, tok, exp)
	hlog.FromRequest(r).Info().Str("session", sess.ID).Str("mode", string(req.Mode)).Int("length", req.Length).Msg("session created")
	writeJSON(w, http.StatusCreated, createRes{
		SessionID: sess.ID,
		Token:     tok,
		ExpiresAt: exp.UTC(),
		View:      viewOf(sess, sess.Snapshot()),
	})
}

// ------------------------------- read --------------------------------------

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Touch()
	writeJSON(w, http.StatusOK, viewOf(sess, sess.Snapshot()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ------------------------------ events -------------------------------------

type inputReq struct {
	Position int    `json:"position"`
	Letter   string `json:"letter"` // "" clears the slot
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req inputReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var letter rune
	if req.Letter != "" {
		if utf8.RuneCountInString(req.Letter) != 1 {
			writeError(w, r, game.ErrInvalidLetter)
			return
		}
		letter, _ = utf8.DecodeRuneInString(req.Letter)
	}
	s.dispatch(w, r, game.EditInput{Position: req.Position, Letter: letter})
}

type keyReq struct {
	Key string `json:"key"`
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(w, r, game.KeyPress{Key: req.Key})
}

type guessReq struct {
	Word string `json:"word"` // optional; empty submits the current input
}

// handleGuess writes word into the input buffer and submits it in one batch,
// so a rejected guess leaves the buffer as it was.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess := sessionFrom(r.Context())
	events, err := game.GuessEvents(req.Word, sess.Snapshot().Length)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dispatch(w, r, events...)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, game.Restart{})
}

type lengthReq struct {
	Length int `json:"length"`
}

func (s *Server) handleLength(w http.ResponseWriter, r *http.Request) {
	var req lengthReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Length < 1 {
		writeError(w, r, fmt.Errorf("%w: length must be positive", errBadRequest))
		return
	}
	sess := sessionFrom(r.Context())
	if err := s.checkDaily(r.Context(), sess.Mode, sess.PlayerID, req.Length); err != nil {
		writeError(w, r, err)
		return
	}
	if err := sess.ChangeLength(r.Context(), req.Length); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, sess.Snapshot()))
}

// checkDaily allows one finished daily round per player, date and length.
func (s *Server) checkDaily(ctx context.Context, mode session.Mode, playerID string, length int) error {
	if mode != session.ModeDaily {
		return nil
	}
	played, err := s.ledger.AlreadyPlayed(ctx, playerID, s.picker.Today(), length)
	if err != nil {
		return err
	}
	if played {
		return errAlreadyPlayed
	}
	return nil
}

// dispatch applies events and writes the view or the first error.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, events ...game.Event) {
	sess := sessionFrom(r.Context())
	snap, err := applyEvents(r.Context(), sess, events...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess, snap))
}

// applyEvents is Dispatch with idle sessions reported as not ready rather
// than game over.
func applyEvents(ctx context.Context, sess *session.Session, events ...game.Event) (session.Snapshot, error) {
	snap, err := sess.Dispatch(ctx, events...)
	if errors.Is(err, game.ErrNotPlaying) && snap.Phase == game.PhaseIdle {
		err = fmt.Errorf("%w: %s", errNotReady, err)
	}
	return snap, err
}

// ------------------------------ helpers ------------------------------------

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodeOptional is decode that accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
