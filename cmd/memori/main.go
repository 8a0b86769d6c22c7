package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play a local game in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Host games over WebSocket"`
	Join     JoinCmd          `cmd:"" help:"Play a game hosted by a server"`
	Simulate SimulateCmd      `cmd:"" help:"Measure computer players over many games"`
	Sets     SetsCmd          `cmd:"" help:"List symbol sets"`
}

func main() {
	// .env is optional; a broken one is reported
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("warning: failed to load .env: " + err.Error() + "\n")
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("memori"),
		kong.Description("Find the pairs: a memory matching game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
