// internal/httpserver/routes_daily.go
//
// Player-scoped routes: the "Daily Challenge" mode and personal stats.
//   - GET /daily/today       → today's date, configured lengths, and which
//                              of them the caller already finished
//   - GET /daily/leaderboard → fastest wins for a date (default today) and length
//   - GET /stats/me          → ledger stats for the caller's player cookie
//
// Daily games themselves are ordinary sessions created with mode "daily";
// everyone gets the same word per date and length, and each player can finish
// it once (enforced by the ledger's unique index and checked on creation).

package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordgame/internal/results"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/today", s.handleDailyToday)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type todayRes struct {
	Date    string       `json:"date"`
	Lengths []int        `json:"lengths"`
	Played  map[int]bool `json:"played"`
}

// handleDailyToday reports the current date key and, for a known player,
// which lengths are already done.
func (s *Server) handleDailyToday(w http.ResponseWriter, r *http.Request) {
	date := s.picker.Today()
	lengths := s.random.Rules.Lengths()
	res := todayRes{Date: date, Lengths: lengths, Played: map[int]bool{}}

	pid, err := playerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if pid != "" {
		for _, n := range lengths {
			played, err := s.ledger.AlreadyPlayed(r.Context(), pid, date, n)
			if err != nil {
				writeError(w, r, err)
				return
			}
			res.Played[n] = played
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date   string    `json:"date"`
	Length int       `json:"length"`
	Top    []lbEntry `json:"top"`
}

// lbEntry shows a player by handle; raw player ids act as credentials.
type lbEntry struct {
	Player    string `json:"player"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// playerHandle is a stable, non-reversible public name for a player id.
func (s *Server) playerHandle(playerID string) string {
	h := hmac.New(sha256.New, []byte(s.opts.JWTSecret))
	h.Write([]byte("player/" + playerID))
	return hex.EncodeToString(h.Sum(nil)[:6])
}

// handleLeaderboard returns the leaderboard for ?date= (default today) and
// ?length= (default the server's default length).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = s.picker.Today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, r, errBadRequest)
		return
	}
	length := s.opts.DefaultLength
	if v := q.Get("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, errBadRequest)
			return
		}
		length = n
	}
	rows, err := s.ledger.Leaderboard(r.Context(), date, length, 20)
	if err != nil {
		writeError(w, r, err)
		return
	}
	top := make([]lbEntry, 0, len(rows))
	for _, row := range rows {
		top = append(top, lbEntry{Player: s.playerHandle(row.PlayerID), Guesses: row.Guesses, ElapsedMs: row.ElapsedMs})
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Length: length, Top: top})
}

// handleStats returns played/wins/streaks for the caller. Callers without a
// player cookie get empty stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	pid, err := playerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st := results.Stats{Distribution: map[int]int{}}
	if pid != "" {
		if st, err = s.ledger.Stats(r.Context(), pid); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, st)
}
