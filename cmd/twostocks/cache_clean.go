package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type cacheCleanCmd struct {
	app *app
}

func (*cacheCleanCmd) Name() string     { return "cache-clean" }
func (*cacheCleanCmd) Synopsis() string { return "purge expired entries from the price cache" }
func (*cacheCleanCmd) Usage() string {
	return `twostocks cache-clean

  Deletes cached price histories and quotes whose TTL has passed.
`
}

func (*cacheCleanCmd) SetFlags(*flag.FlagSet) {}

func (c *cacheCleanCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	container, jobs, _, err := c.app.open()
	if err != nil {
		return c.app.fail(err)
	}
	defer container.Close()

	deleted, err := jobs.CacheCleanup.Purge()
	if err != nil {
		return c.app.fail(err)
	}
	fmt.Fprintf(c.app.stdout, "Removed %d expired cache entries\n", deleted)
	return subcommands.ExitSuccess
}
