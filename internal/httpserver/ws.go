// internal/httpserver/ws.go
//
// WebSocket stream for one session.
//   - Server → client: {"type":"state","view":{...}} after every change (the
//     first one immediately), {"type":"error",...} when an event is rejected.
//   - Client → server: {"type":"key","key":"a"}, {"type":"input","position":0,
//     "letter":"c"}, {"type":"guess","word":"crane"}, {"type":"restart"},
//     {"type":"length","length":6}.
//
// A single goroutine owns all writes; the reader hands it errors.

package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 25 * time.Second
	wsReadLimit  = 4096
)

type wsIn struct {
	Type     string `json:"type"`
	Key      string `json:"key,omitempty"`
	Position int    `json:"position,omitempty"`
	Letter   string `json:"letter,omitempty"`
	Word     string `json:"word,omitempty"`
	Length   int    `json:"length,omitempty"`
}

type wsOut struct {
	Type    string `json:"type"`
	View    *view  `json:"view,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	logger := hlog.FromRequest(r).With().Str("session", sess.ID).Logger()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		logger.Warn().Err(err).Msg("ws upgrade")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	snaps, cancel := sess.Subscribe()
	defer cancel()

	quit := make(chan struct{})
	defer close(quit)
	notices := make(chan wsOut, 4)
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.wsRead(r.Context(), conn, sess, notices, quit, logger)
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	logger.Debug().Msg("ws connected")
	for {
		select {
		case snap, ok := <-snaps:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			v := viewOf(sess, snap)
			if err := writeWS(conn, wsOut{Type: "state", View: &v}); err != nil {
				logger.Debug().Err(err).Msg("ws write")
				return
			}
		case n := <-notices:
			if err := writeWS(conn, n); err != nil {
				logger.Debug().Err(err).Msg("ws write")
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			logger.Debug().Msg("ws disconnected")
			return
		}
	}
}

func writeWS(conn *websocket.Conn, m wsOut) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(m)
}

// wsRead turns client messages into session calls until the connection
// fails or quit is closed. Successful changes reach the client through the
// subscription; only rejections are sent back here.
func (s *Server) wsRead(ctx context.Context, conn *websocket.Conn, sess *session.Session, notices chan<- wsOut, quit <-chan struct{}, logger zerolog.Logger) {
	for {
		var in wsIn
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("ws read")
			}
			return
		}
		if err := s.wsApply(ctx, sess, in); err != nil {
			_, code := errorCode(err)
			select {
			case notices <- wsOut{Type: "error", Error: code, Message: err.Error()}:
			case <-quit:
				return
			}
		}
	}
}

func (s *Server) wsApply(ctx context.Context, sess *session.Session, in wsIn) error {
	switch in.Type {
	case "key":
		_, err := applyEvents(ctx, sess, game.KeyPress{Key: in.Key})
		return err
	case "input":
		var letter rune
		if in.Letter != "" {
			if utf8.RuneCountInString(in.Letter) != 1 {
				return game.ErrInvalidLetter
			}
			letter, _ = utf8.DecodeRuneInString(in.Letter)
		}
		_, err := applyEvents(ctx, sess, game.EditInput{Position: in.Position, Letter: letter})
		return err
	case "guess":
		events, err := game.GuessEvents(in.Word, sess.Snapshot().Length)
		if err != nil {
			return err
		}
		_, err = applyEvents(ctx, sess, events...)
		return err
	case "restart":
		_, err := applyEvents(ctx, sess, game.Restart{})
		return err
	case "length":
		if in.Length < 1 {
			return fmt.Errorf("%w: length must be positive", errBadRequest)
		}
		if err := s.checkDaily(ctx, sess.Mode, sess.PlayerID, in.Length); err != nil {
			return err
		}
		return sess.ChangeLength(ctx, in.Length)
	default:
		return fmt.Errorf("%w: unknown message type %q", errBadRequest, in.Type)
	}
}
