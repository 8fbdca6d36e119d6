package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Debug    bool             `help:"Enable debug logging"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-only games and report statistics"`
	Play     PlayCmd          `cmd:"" help:"Play one bot game and print every round"`
	Profiles ProfilesCmd      `cmd:"" help:"List bot profiles or validate a profile file"`
	Deal     DealCmd          `cmd:"" help:"Shuffle, draw for the first dealer and deal a round"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("jokerforbots"),
		kong.Description("Rules engine and bots for the Joker trick-taking card game"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	level := log.WarnLevel
	if cli.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
