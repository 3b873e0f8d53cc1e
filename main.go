// main.go
//
// Entry point: `wordgame serve` runs the HTTP/WebSocket server,
// `wordgame play` runs a game in the terminal. See internal/cli.

package main

import (
	"os"

	"github.com/robalobadob/wordgame/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
