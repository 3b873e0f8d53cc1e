package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/session"
	"github.com/robalobadob/wordgame/internal/store"
	"github.com/robalobadob/wordgame/internal/words"
)

var (
	errBadRequest    = errors.New("malformed request")
	errUnauthorized  = errors.New("missing or invalid session token")
	errForbidden     = errors.New("token does not match session")
	errAlreadyPlayed = errors.New("daily challenge already played")
	errNotReady      = errors.New("no round in progress")
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorCode maps an error to a status and a stable code for clients.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrNotInWordList):
		return http.StatusUnprocessableEntity, "not_in_word_list"
	case errors.Is(err, game.ErrIncomplete):
		return http.StatusBadRequest, "incomplete_guess"
	case errors.Is(err, game.ErrNotPlaying):
		return http.StatusConflict, "game_over"
	case errors.Is(err, errNotReady):
		return http.StatusConflict, "not_ready"
	case errors.Is(err, game.ErrPosition), errors.Is(err, game.ErrInvalidLetter),
		errors.Is(err, game.ErrLengthMismatch):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, game.ErrNoWords):
		return http.StatusUnprocessableEntity, "no_words"
	case errors.Is(err, words.ErrUnavailable):
		return http.StatusUnprocessableEntity, "word_list_unavailable"
	case errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict, "superseded"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, session.ErrClosed):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, errAlreadyPlayed):
		return http.StatusConflict, "already_played"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// writeError writes {"error": code, "message": text}. Internal errors are
// logged and their text is not sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
