// Package cli implements the wordgame commands.
package cli

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordgame/assets"
	"github.com/robalobadob/wordgame/internal/config"
	"github.com/robalobadob/wordgame/internal/words"
)

var cfg config.Config

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "wordgame",
	Short:         "Guess-the-word game: HTTP/WebSocket server and terminal client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		setupLogging(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute runs the root command and logs a failure.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("wordgame")
	}
	return err
}

func setupLogging(level, format string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// wordSource picks where lists come from: WORDS_URL, then WORDS_DIR, then
// the embedded assets.
func wordSource(c config.Config) words.Source {
	switch {
	case c.WordsURL != "":
		log.Info().Str("url", c.WordsURL).Msg("word lists from http")
		return words.HTTPSource{BaseURL: c.WordsURL, Client: &http.Client{Timeout: 8 * time.Second}}
	case c.WordsDir != "":
		log.Info().Str("dir", c.WordsDir).Msg("word lists from directory")
		return words.FSSource{FS: os.DirFS(c.WordsDir)}
	default:
		return words.FSSource{FS: assets.Words()}
	}
}
