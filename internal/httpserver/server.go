// internal/httpserver/server.go
//
// HTTP server wiring for the word game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Session endpoints (token auth): /sessions/{id}/*, including the
//     WebSocket stream.
//   - Player endpoints (anonymous cookie): /stats/me, /daily/*.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - The WebSocket route is mounted outside the Timeout group; it lives as
//     long as the client stays connected.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/results"
	"github.com/robalobadob/wordgame/internal/session"
	"github.com/robalobadob/wordgame/internal/store"
)

// WordLists is where sessions load their dictionaries. words.Cache is one.
type WordLists interface {
	session.Loader
	Stats() map[int]int
}

// Ledger is the results database. results.Store is one.
type Ledger interface {
	session.Recorder
	AlreadyPlayed(ctx context.Context, playerID, date string, length int) (bool, error)
	Stats(ctx context.Context, playerID string) (results.Stats, error)
	Leaderboard(ctx context.Context, date string, length, limit int) ([]results.LBRow, error)
}

// Options are the knobs the server reads from config.
type Options struct {
	ClientOrigin  string
	JWTSecret     string
	TokenTTL      time.Duration
	DefaultLength int
	DailySalt     string
	Rules         game.Rules
	Production    bool
	// Picker chooses random-mode answers; nil means a seeded RandomPicker.
	Picker game.Picker
	// Now replaces time.Now for the daily picker and tokens.
	Now func() time.Time
}

// Server bundles router, live sessions, word lists and the results ledger.
type Server struct {
	r      *chi.Mux
	opts   Options
	store  store.Store
	words  WordLists
	ledger Ledger

	random   *game.Engine
	daily    *game.Engine
	picker   *daily.Picker
	tokens   tokenIssuer
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options, st store.Store, wl WordLists, ledger Ledger) *Server {
	if opts.DefaultLength <= 0 {
		opts.DefaultLength = 6
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	picker := &daily.Picker{Salt: opts.DailySalt, Now: opts.Now}
	s := &Server{
		r:      chi.NewRouter(),
		opts:   opts,
		store:  st,
		words:  wl,
		ledger: ledger,
		random: game.NewEngine(opts.Rules, opts.Picker),
		daily:  game.NewEngine(opts.Rules, picker),
		picker: picker,
		tokens: tokenIssuer{secret: []byte(opts.JWTSecret), ttl: opts.TokenTTL, now: opts.Now},
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(jsonContentType)               // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))       // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "wordgame",
			"endpoints": []string{
				"/health", "POST /sessions", "/sessions/{id}", "/sessions/{id}/ws",
				"/stats/me", "/daily/today", "/daily/leaderboard",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", s.handleWordStats)

	// JSON API with bounded handler time
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/input", s.handleInput)
			r.Post("/keys", s.handleKey)
			r.Post("/guess", s.handleGuess)
			r.Post("/restart", s.handleRestart)
			r.Post("/length", s.handleLength)
		})
		r.Get("/stats/me", s.handleStats)
		s.mountDaily(r)
	})

	// Streaming: no timeout
	s.r.With(s.requireSession).Get("/sessions/{id}/ws", s.handleWS)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: r.URL.Path})
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleWordStats reports loaded word counts per length.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	out := map[string]int{}
	for length, n := range s.words.Stats() {
		out[strconv.Itoa(length)] = n
	}
	writeJSON(w, http.StatusOK, out)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("req_id", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// writeJSON encodes v with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
