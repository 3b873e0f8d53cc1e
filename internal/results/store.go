package results

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Result is one finished round.
type Result struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	Round       int       `json:"round"`
	PlayerID    string    `json:"playerId"`
	Mode        string    `json:"mode"`
	Date        string    `json:"date"`
	Length      int       `json:"length"`
	Answer      string    `json:"answer"`
	Guesses     int       `json:"guesses"`
	MaxAttempts int       `json:"maxAttempts"`
	Won         bool      `json:"won"`
	ElapsedMs   int64     `json:"elapsedMs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Stats summarizes a player's finished rounds.
type Stats struct {
	Played        int         `json:"played"`
	Wins          int         `json:"wins"`
	CurrentStreak int         `json:"currentStreak"`
	MaxStreak     int         `json:"maxStreak"`
	Distribution  map[int]int `json:"distribution"` // guesses used → wins
}

// LBRow is one daily leaderboard entry. PlayerID is never sent to clients.
type LBRow struct {
	PlayerID  string `json:"-"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store is the SQLite-backed results ledger.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Open opens the database at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db, sub); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) newID(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

// Record inserts a finished round. A second Record for the same session
// round, or a second daily result for the same player/date/length, is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.ID == "" {
		r.ID = s.newID(r.CreatedAt)
	}
	if r.Mode == "" {
		r.Mode = "random"
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO results
            (id, session_id, round, player_id, mode, date, length, answer,
             guesses, max_attempts, won, elapsed_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Round, r.PlayerID, r.Mode, r.Date, r.Length, r.Answer,
		r.Guesses, r.MaxAttempts, r.Won, r.ElapsedMs, r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// AlreadyPlayed reports whether the player has a daily result for date and length.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string, length int) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE mode='daily' AND player_id=? AND date=? AND length=?`,
		playerID, date, length,
	).Scan(&cnt)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// Stats computes totals, streaks and the guess distribution for a player.
// Streaks count consecutive wins in finishing order; a loss resets them.
func (s *Store) Stats(ctx context.Context, playerID string) (Stats, error) {
	st := Stats{Distribution: map[int]int{}}
	rows, err := s.db.QueryContext(ctx, `
        SELECT won, guesses
        FROM results
        WHERE player_id=?
        ORDER BY created_at ASC, id ASC`, playerID)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	streak := 0
	for rows.Next() {
		var won bool
		var guesses int
		if err := rows.Scan(&won, &guesses); err != nil {
			return st, err
		}
		st.Played++
		if won {
			st.Wins++
			st.Distribution[guesses]++
			streak++
			if streak > st.MaxStreak {
				st.MaxStreak = streak
			}
		} else {
			streak = 0
		}
	}
	st.CurrentStreak = streak
	return st, rows.Err()
}

// Leaderboard fetches the fastest daily wins for a date and word length.
//
//   - Ordered by elapsed time ASC, then guesses ASC, then created_at ASC.
//   - Default limit is 20 if not specified.
func (s *Store) Leaderboard(ctx context.Context, date string, length, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT player_id, guesses, elapsed_ms
        FROM results
        WHERE mode='daily' AND won=1 AND date=? AND length=?
        ORDER BY elapsed_ms ASC, guesses ASC, created_at ASC
        LIMIT ?`, date, length, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
