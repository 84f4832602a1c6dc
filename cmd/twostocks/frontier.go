package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aristath/twostocks/internal/modules/display"
	"github.com/google/subcommands"
)

type frontierCmd struct {
	app  *app
	pair pairFlags
	out  string
}

func (*frontierCmd) Name() string     { return "frontier" }
func (*frontierCmd) Synopsis() string { return "export the investment opportunity set as CSV" }
func (*frontierCmd) Usage() string {
	return `twostocks frontier [-step <s>] [-o <file.csv>] [TICKER1 TICKER2]

  Writes one row per weight of the first asset, from 0 to 1:
  w_1,w_2,exp_ret,var,std_dev. Prints to stdout unless -o is given.
`
}

func (c *frontierCmd) SetFlags(f *flag.FlagSet) {
	c.pair.register(f)
	f.StringVar(&c.out, "o", "", "Output CSV file (defaults to stdout)")
}

func (c *frontierCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := c.pair.request(c.app, f.Args())
	if err != nil {
		c.app.fail(err)
		return subcommands.ExitUsageError
	}

	container, _, _, err := c.app.open()
	if err != nil {
		return c.app.fail(err)
	}
	defer container.Close()

	report, err := container.AnalysisService.Run(ctx, req)
	if err != nil {
		return c.app.fail(err)
	}

	var w io.Writer = c.app.stdout
	if c.out != "" {
		file, err := os.Create(c.out)
		if err != nil {
			return c.app.fail(fmt.Errorf("creating %s: %w", c.out, err))
		}
		defer file.Close()
		w = file
	}

	if err := display.WriteFrontierCSV(w, report.Frontier); err != nil {
		return c.app.fail(err)
	}

	if c.out != "" {
		fmt.Fprintf(c.app.stdout, "Frontier written to %s (%d points)\n", c.out, report.Frontier.Len())
	}
	return subcommands.ExitSuccess
}
