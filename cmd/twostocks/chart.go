package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aristath/twostocks/internal/modules/charts"
	"github.com/google/subcommands"
)

type chartCmd struct {
	app  *app
	pair pairFlags
	kind string
	out  string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "plot the investment opportunity set to a PNG file" }
func (*chartCmd) Usage() string {
	return `twostocks chart [-kind scatter|weights] [-o <file.png>] [TICKER1 TICKER2]

  scatter plots return against risk with both optimal portfolios marked.
  weights plots return and risk against the weight of the first asset.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.pair.register(f)
	f.StringVar(&c.kind, "kind", string(charts.KindScatter), "Chart kind (scatter, weights)")
	f.StringVar(&c.out, "o", "", "Output PNG file (defaults to <ticker1>_<ticker2>_<kind>.png)")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := charts.ParseKind(c.kind)
	if err != nil {
		c.app.fail(err)
		return subcommands.ExitUsageError
	}
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

	png, err := container.ChartsService.Render(kind, report)
	if err != nil {
		return c.app.fail(err)
	}

	path := c.out
	if path == "" {
		path = chartFileName(report, kind)
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return c.app.fail(fmt.Errorf("writing chart: %w", err))
	}
	fmt.Fprintf(c.app.stdout, "Chart written to %s\n", path)

	return subcommands.ExitSuccess
}
