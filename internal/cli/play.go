package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/render"
	"github.com/robalobadob/wordgame/internal/session"
	"github.com/robalobadob/wordgame/internal/words"
)

func init() {
	var (
		length  int
		isDaily bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: "Type a word and press Enter to guess.\n" +
			"Commands: :restart, :len N (switch word length), :quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if length == 0 {
				length = cfg.DefaultLen
			}
			return runPlay(cmd, length, isDaily)
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", 0, "Word length (default: $DEFAULT_LENGTH)")
	cmd.Flags().BoolVar(&isDaily, "daily", false, "Play today's daily word")
	RootCmd.AddCommand(cmd)
}

func runPlay(cmd *cobra.Command, length int, isDaily bool) error {
	// keep log lines from interleaving with the board
	if zerolog.GlobalLevel() < zerolog.WarnLevel {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	rend := render.New(out)

	var picker game.Picker
	mode := session.ModeRandom
	if isDaily {
		picker = daily.NewPicker(cfg.DailySalt)
		mode = session.ModeDaily
	}
	sess := session.New(uuid.NewString(), game.NewEngine(cfg.Attempts, picker), words.NewCache(wordSource(cfg)),
		session.WithMode(mode))
	defer sess.Close()

	if err := sess.ChangeLength(ctx, length); err != nil {
		fmt.Fprintln(out, "error:", err)
	}
	fmt.Fprint(out, rend.Snapshot(sess.Snapshot()))

	in := bufio.NewScanner(cmd.InOrStdin())
	for in.Scan() {
		line := strings.ToLower(strings.TrimSpace(in.Text()))
		var err error
		switch {
		case line == "":
			continue
		case line == ":quit" || line == ":q":
			return nil
		case line == ":restart":
			_, err = sess.Dispatch(ctx, game.Restart{})
		case strings.HasPrefix(line, ":len"):
			var n int
			if n, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, ":len"))); err != nil || n < 1 {
				err = fmt.Errorf("usage: :len N")
				break
			}
			err = sess.ChangeLength(ctx, n)
		case strings.HasPrefix(line, ":"):
			err = fmt.Errorf("unknown command %q", line)
		default:
			var events []game.Event
			if events, err = game.GuessEvents(line, sess.Snapshot().Length); err == nil {
				_, err = sess.Dispatch(ctx, events...)
			}
		}
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		fmt.Fprint(out, rend.Snapshot(sess.Snapshot()))
	}
	return in.Err()
}
