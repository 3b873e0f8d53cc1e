package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordgame/internal/httpserver"
	"github.com/robalobadob/wordgame/internal/results"
	"github.com/robalobadob/wordgame/internal/store"
	"github.com/robalobadob/wordgame/internal/words"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE:  runServe,
	}
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := results.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	lists := words.NewCache(wordSource(cfg))
	// Warm the default length; failures surface again per session.
	if _, err := lists.Load(ctx, cfg.DefaultLen); err != nil {
		log.Warn().Err(err).Int("length", cfg.DefaultLen).Msg("default word list not loaded")
	}

	sessions := store.NewMemoryStore()
	go sweep(ctx, sessions, cfg.IdleTTL)

	srv := httpserver.New(httpserver.Options{
		ClientOrigin:  cfg.ClientOrigin,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		DefaultLength: cfg.DefaultLen,
		DailySalt:     cfg.DailySalt,
		Rules:         cfg.Attempts,
		Production:    cfg.Production(),
	}, sessions, lists, ledger)

	if cfg.JWTSecret == "dev_secret_change_me" && cfg.Production() {
		log.Warn().Msg("JWT_SECRET is the development default")
	}
	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting wordgame server")
	if err := srv.Serve(ctx, ":"+cfg.Port); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// sweep evicts sessions idle longer than ttl until ctx ends.
func sweep(ctx context.Context, st store.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	every := ttl / 4
	if every < time.Minute {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("evicted", n).Int("live", st.Len()).Msg("idle sessions swept")
			}
		}
	}
}
