// Command twostocks analyzes a portfolio of two stocks: it downloads both
// price histories from Yahoo Finance and reports the minimum-variance and
// tangency portfolios along with the investment opportunity set.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"
)

// register adds the twostocks subcommands to c.
func register(c *subcommands.Commander, a *app) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&analyzeCmd{app: a}, "analysis")
	c.Register(&frontierCmd{app: a}, "analysis")
	c.Register(&chartCmd{app: a}, "analysis")

	c.Register(&cacheCleanCmd{app: a}, "maintenance")
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander, newApp())

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
