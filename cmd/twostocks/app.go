package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aristath/twostocks/internal/config"
	"github.com/aristath/twostocks/internal/di"
	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/aristath/twostocks/internal/services"
	"github.com/aristath/twostocks/internal/utils"
	"github.com/aristath/twostocks/pkg/logger"
	"github.com/google/subcommands"
)

// as a CLI application it is short lived, so a global log level flag is fine.
var logLevel = flag.String("log-level", "warn", "Log level (debug, info, warn, error, disabled)")

// app is what every subcommand shares: standard streams, config and the price source.
type app struct {
	in     *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	loadConfig func() (*config.Config, error)
	// source replaces the Yahoo client when non-nil.
	source marketdata.PriceSource
}

func newApp() *app {
	return &app{
		in:         bufio.NewReader(os.Stdin),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		loadConfig: config.Load,
	}
}

// open loads the configuration and wires a container without a scheduler.
// The caller closes the container.
func (a *app) open() (*di.Container, *di.JobInstances, *config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  *logLevel,
		Pretty: true,
		Output: a.stderr,
	})

	container, jobs, err := di.Wire(cfg, a.source, nil, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return container, jobs, cfg, nil
}

// fail reports err on stderr the way every subcommand does.
func (a *app) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// ask prints a prompt and returns the trimmed answer line.
func (a *app) ask(prompt string) (string, error) {
	fmt.Fprint(a.stdout, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question where anything but n/no means yes.
// A closed stdin counts as no.
func (a *app) confirm(prompt string) bool {
	answer, err := a.ask(prompt)
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "n", "no":
		return false
	}
	return true
}

// pairFlags are the flags shared by the subcommands that analyze a pair.
type pairFlags struct {
	period   string
	interval string
	rf       string
	step     float64
	window   int
}

func (p *pairFlags) register(f *flag.FlagSet) {
	f.StringVar(&p.period, "period", "", "Yahoo history period, e.g. 1y, 5y (defaults to PRICE_PERIOD)")
	f.StringVar(&p.interval, "interval", "", "Sampling interval: 1d, 5d, 1wk, 1mo or 3mo (defaults to PRICE_INTERVAL)")
	f.StringVar(&p.rf, "rf", "", "Annual risk-free rate as a fraction, e.g. 0.04 (defaults to the risk-free ticker)")
	f.Float64Var(&p.step, "step", 0, "Frontier weight step in (0, 1] (defaults to FRONTIER_STEP)")
	f.IntVar(&p.window, "window", 0, "Rolling diagnostics window in observations, negative disables (defaults to ROLLING_WINDOW)")
}

// request builds an analysis request from the flags and positional tickers.
// Flags are validated first; missing tickers are then asked for on stdin.
func (p *pairFlags) request(a *app, args []string) (services.AnalysisRequest, error) {
	req := services.AnalysisRequest{
		Request: marketdata.Request{
			Period:   p.period,
			Interval: p.interval,
		},
		FrontierStep:  p.step,
		RollingWindow: p.window,
	}

	if p.rf != "" {
		rf, err := strconv.ParseFloat(p.rf, 64)
		if err != nil {
			return req, fmt.Errorf("invalid -rf %q: %w", p.rf, err)
		}
		req.RiskFreeRate = &rf
	}
	if p.interval != "" {
		if _, err := optimization.PeriodsPerYear(p.interval); err != nil {
			return req, err
		}
	}
	if p.step < 0 || p.step > 1 {
		return req, fmt.Errorf("-step must be in (0, 1], got %v", p.step)
	}
	if p.window == 1 {
		return req, fmt.Errorf("-window must be at least 2")
	}

	tickers := utils.ParseCSV(strings.Join(args, ","))
	if len(tickers) > 2 {
		return req, fmt.Errorf("expected two tickers, got %d", len(tickers))
	}
	for i := len(tickers); i < 2; i++ {
		ticker, err := a.ask(fmt.Sprintf("Ticker symbol of asset %d: ", i+1))
		if err != nil {
			return req, err
		}
		if ticker == "" {
			return req, fmt.Errorf("ticker symbol of asset %d is empty", i+1)
		}
		tickers = append(tickers, ticker)
	}
	req.TickerA, req.TickerB = tickers[0], tickers[1]

	return req, nil
}
