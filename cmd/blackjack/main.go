package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/Mat-thias/BlackJack/internal/bot"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play at the terminal against the dealer"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot tables and report aggregate results"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Multi-player blackjack table with bots and a simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":    version,
			"strategies": strings.Join(bot.Strategies(), ","),
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
