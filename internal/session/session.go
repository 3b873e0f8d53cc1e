// internal/session/session.go
//
// Stateful controller around one game.State.
// Responsibilities:
//   - Serialize events from HTTP handlers, WebSocket readers and the terminal.
//   - Reload word lists on length changes; a newer request always wins over
//     an older one that finishes later (generation counter).
//   - Publish a Snapshot after every change to subscribers (observer pattern).
//   - Record finished rounds in the results ledger.
//
// The game package stays pure; all mutation of "current state" happens here.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/results"
	"github.com/robalobadob/wordgame/internal/words"
)

var (
	// ErrSuperseded means a later ChangeLength started before this one finished.
	ErrSuperseded = errors.New("superseded by a newer word list request")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session closed")
)

// Mode selects how answers are picked.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

// Loader supplies word lists by length. words.Cache is the usual one.
type Loader interface {
	Load(ctx context.Context, length int) (*words.List, error)
}

// Recorder stores finished rounds. results.Store is the usual one.
type Recorder interface {
	Record(ctx context.Context, r results.Result) error
}

// Snapshot is what subscribers and renderers see.
type Snapshot struct {
	game.State
	Version   uint64 `json:"version"`
	Loading   bool   `json:"loading"`
	LoadError string `json:"loadError,omitempty"`
}

// Session owns one player's game.
type Session struct {
	ID        string
	PlayerID  string
	Mode      Mode
	CreatedAt time.Time

	engine   *game.Engine
	loader   Loader
	recorder Recorder
	now      func() time.Time

	mu         sync.Mutex
	state      game.State
	version    uint64
	gen        uint64
	loading    bool
	loadErr    error
	round      int
	roundStart time.Time
	roundDate  string // UTC date the answer was picked on
	lastSeen   time.Time
	subs       map[uint64]chan Snapshot
	nextSub    uint64
	closed     bool
}

// Option configures a Session.
type Option func(*Session)

// WithPlayer sets the player the session's results belong to.
func WithPlayer(id string) Option { return func(s *Session) { s.PlayerID = id } }

// WithMode sets the answer mode recorded with results.
func WithMode(m Mode) Option { return func(s *Session) { s.Mode = m } }

// WithRecorder sets where finished rounds go.
func WithRecorder(r Recorder) Option { return func(s *Session) { s.recorder = r } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// New returns an idle session. Call ChangeLength to load a list and start.
func New(id string, engine *game.Engine, loader Loader, opts ...Option) *Session {
	s := &Session{
		ID:     id,
		Mode:   ModeRandom,
		engine: engine,
		loader: loader,
		now:    time.Now,
		subs:   make(map[uint64]chan Snapshot),
	}
	for _, o := range opts {
		o(s)
	}
	s.CreatedAt = s.now()
	s.lastSeen = s.CreatedAt
	s.state = engine.Blank(0)
	return s
}

// ChangeLength loads the list for length and starts a fresh round on it.
// While loading, subscribers see an idle board with Loading set. If another
// ChangeLength starts before this one's load returns, this one returns
// ErrSuperseded and leaves the state alone. Load failures leave the session
// idle with LoadError set.
func (s *Session) ChangeLength(ctx context.Context, length int) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.gen++
	gen := s.gen
	s.loading = true
	s.loadErr = nil
	s.state = s.engine.Blank(length)
	s.lastSeen = s.now()
	s.commitLocked()
	s.mu.Unlock()

	list, err := s.loader.Load(ctx, length)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		log.Debug().Str("session", s.ID).Int("length", length).Msg("discarding stale word list")
		return ErrSuperseded
	}
	if s.closed {
		return ErrClosed
	}
	s.loading = false
	if err == nil {
		var st game.State
		if st, err = s.engine.New(list); err == nil {
			s.state = st
			s.startRoundLocked()
		}
	}
	if err != nil {
		s.loadErr = err
		log.Warn().Err(err).Str("session", s.ID).Int("length", length).Msg("word list load failed")
	}
	s.commitLocked()
	return err
}

// Dispatch applies events in order as one batch. If any event fails the
// session is left exactly as it was and that event's error is returned.
func (s *Session) Dispatch(ctx context.Context, events ...game.Event) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrClosed
	}
	s.lastSeen = s.now()

	next := s.state
	round, roundStart, roundDate := s.round, s.roundStart, s.roundDate
	var finished []results.Result
	for _, ev := range events {
		prev := next
		var err error
		if next, err = s.engine.Apply(next, ev); err != nil {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, err
		}
		switch ev.(type) {
		case game.Initialize, game.Restart:
			round++
			roundStart = s.now()
			roundDate = daily.DateKey(roundStart)
		}
		if !prev.Phase.Finished() && next.Phase.Finished() {
			finished = append(finished, s.resultFor(next, round, roundStart, roundDate))
		}
	}

	s.state = next
	s.round, s.roundStart, s.roundDate = round, roundStart, roundDate
	if len(events) > 0 {
		s.loadErr = nil
		s.commitLocked()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for _, r := range finished {
		s.record(ctx, r)
	}
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Touch marks the session as used without changing it.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// LastSeen is the time of the last event, load or Touch.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Subscribe returns a channel that receives the current snapshot at once and
// then every later one. A slow reader only ever sees the latest snapshot.
// cancel stops delivery and closes the channel; Close does the same for all.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- s.snapshotLocked()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close ends all subscriptions; later calls fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Session) startRoundLocked() {
	s.round++
	s.roundStart = s.now()
	s.roundDate = daily.DateKey(s.roundStart)
}

// commitLocked bumps the version and fans the snapshot out.
func (s *Session) commitLocked() {
	s.version++
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// replace the unread snapshot with the newer one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state, Version: s.version, Loading: s.loading}
	if s.loadErr != nil {
		snap.LoadError = s.loadErr.Error()
	}
	return snap
}

// resultFor dates the result by the round's start, the day its answer belongs to.
func (s *Session) resultFor(st game.State, round int, start time.Time, date string) results.Result {
	now := s.now()
	return results.Result{
		SessionID:   s.ID,
		Round:       round,
		PlayerID:    s.PlayerID,
		Mode:        string(s.Mode),
		Date:        date,
		Length:      st.Length,
		Answer:      st.Answer,
		Guesses:     len(st.History),
		MaxAttempts: st.MaxAttempts,
		Won:         st.Phase == game.PhaseWon,
		ElapsedMs:   now.Sub(start).Milliseconds(),
		CreatedAt:   now.UTC(),
	}
}

// record never fails the player's move; ledger errors are only logged.
func (s *Session) record(ctx context.Context, r results.Result) {
	log.Info().
		Str("session", r.SessionID).
		Str("player", r.PlayerID).
		Int("length", r.Length).
		Int("guesses", r.Guesses).
		Bool("won", r.Won).
		Msg("round finished")
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), r); err != nil {
		log.Error().Err(err).Str("session", r.SessionID).Msg("record result")
	}
}
