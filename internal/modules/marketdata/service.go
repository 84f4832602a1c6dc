// Package marketdata fetches and aligns the inputs of a two-asset analysis:
// both price histories, their display names and the risk-free rate.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/twostocks/internal/clientdata"
	"github.com/aristath/twostocks/internal/clients/yahoo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoOverlap is returned when two histories share fewer than two observation dates.
var ErrNoOverlap = errors.New("price histories do not overlap")

// PriceSource is the upstream price provider.
type PriceSource interface {
	GetHistoricalPrices(ctx context.Context, symbol, period, interval string) ([]yahoo.PriceBar, error)
	GetQuote(ctx context.Context, symbol string) (*yahoo.Quote, error)
}

// Config holds download and risk-free rate settings
type Config struct {
	Period          string
	Interval        string
	PriceTTL        time.Duration
	RiskFreeTicker  string
	RiskFreeDivisor float64
	// RiskFreeRate, when set, is used instead of the ticker quote.
	RiskFreeRate *float64
}

// Request selects a pair; empty fields fall back to the service config.
type Request struct {
	TickerA      string
	TickerB      string
	Period       string
	Interval     string
	RiskFreeRate *float64
}

// Security is a validated ticker.
type Security struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// PairData is the aligned input of one analysis.
type PairData struct {
	A            Security
	B            Security
	Dates        []time.Time
	PricesA      []float64
	PricesB      []float64
	RiskFreeRate float64
	Period       string
	Interval     string
}

// Service reads market data cache-first and falls back to stale cache entries
// when Yahoo is unavailable.
type Service struct {
	source PriceSource
	cache  *clientdata.Repository // nil disables caching
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a market data service
func NewService(source PriceSource, cache *clientdata.Repository, cfg Config, log zerolog.Logger) *Service {
	if cfg.PriceTTL <= 0 {
		cfg.PriceTTL = clientdata.TTLPriceHistory
	}
	return &Service{
		source: source,
		cache:  cache,
		cfg:    cfg,
		log:    log.With().Str("service", "marketdata").Logger(),
	}
}

// FetchPair validates both tickers and downloads both histories and the
// risk-free rate concurrently, then aligns the histories by date.
func (s *Service) FetchPair(ctx context.Context, req Request) (*PairData, error) {
	symbolA := yahoo.NormalizeSymbol(req.TickerA)
	symbolB := yahoo.NormalizeSymbol(req.TickerB)
	period := firstNonEmpty(req.Period, s.cfg.Period)
	interval := firstNonEmpty(req.Interval, s.cfg.Interval)

	var (
		quoteA, quoteB     *yahoo.Quote
		historyA, historyB []yahoo.PriceBar
		rf                 float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		quoteA, err = s.Quote(gctx, symbolA)
		return err
	})
	g.Go(func() (err error) {
		quoteB, err = s.Quote(gctx, symbolB)
		return err
	})
	g.Go(func() (err error) {
		historyA, err = s.History(gctx, symbolA, period, interval)
		return err
	})
	g.Go(func() (err error) {
		historyB, err = s.History(gctx, symbolB, period, interval)
		return err
	})
	g.Go(func() (err error) {
		if req.RiskFreeRate != nil {
			rf = *req.RiskFreeRate
			return nil
		}
		rf, err = s.RiskFreeRate(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dates, pricesA, pricesB, err := Align(historyA, historyB)
	if err != nil {
		return nil, fmt.Errorf("%s and %s: %w", symbolA, symbolB, err)
	}

	s.log.Info().
		Str("asset_a", symbolA).
		Str("asset_b", symbolB).
		Str("period", period).
		Str("interval", interval).
		Int("observations", len(dates)).
		Float64("risk_free_rate", rf).
		Msg("Fetched pair")

	return &PairData{
		A:            Security{Symbol: symbolA, Name: quoteA.Name},
		B:            Security{Symbol: symbolB, Name: quoteB.Name},
		Dates:        dates,
		PricesA:      pricesA,
		PricesB:      pricesB,
		RiskFreeRate: rf,
		Period:       period,
		Interval:     interval,
	}, nil
}

// Quote returns validated quote metadata for a symbol
func (s *Service) Quote(ctx context.Context, symbol string) (*yahoo.Quote, error) {
	symbol = yahoo.NormalizeSymbol(symbol)

	var quote yahoo.Quote
	if s.fromCache(clientdata.TableYahooQuotes, symbol, &quote, true) {
		return &quote, nil
	}

	fetched, err := s.source.GetQuote(ctx, symbol)
	if err != nil {
		if !errors.Is(err, yahoo.ErrUnknownTicker) && s.fromCache(clientdata.TableYahooQuotes, symbol, &quote, false) {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Using stale quote")
			return &quote, nil
		}
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	s.toCache(clientdata.TableYahooQuotes, symbol, fetched, clientdata.TTLQuote)
	return fetched, nil
}

// History returns the price history for a symbol, oldest first
func (s *Service) History(ctx context.Context, symbol, period, interval string) ([]yahoo.PriceBar, error) {
	symbol = yahoo.NormalizeSymbol(symbol)
	key := historyKey(symbol, period, interval)

	var bars []yahoo.PriceBar
	if s.fromCache(clientdata.TablePriceHistory, key, &bars, true) {
		return bars, nil
	}

	fetched, err := s.source.GetHistoricalPrices(ctx, symbol, period, interval)
	if err != nil {
		if !errors.Is(err, yahoo.ErrUnknownTicker) && s.fromCache(clientdata.TablePriceHistory, key, &bars, false) {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("Using stale price history")
			return bars, nil
		}
		return nil, fmt.Errorf("price history %s: %w", symbol, err)
	}

	s.toCache(clientdata.TablePriceHistory, key, fetched, s.cfg.PriceTTL)
	return fetched, nil
}

// RiskFreeRate returns the annual risk-free rate as a fraction: the fixed
// rate when configured, otherwise the proxy ticker's previous close / divisor.
func (s *Service) RiskFreeRate(ctx context.Context) (float64, error) {
	if s.cfg.RiskFreeRate != nil {
		return *s.cfg.RiskFreeRate, nil
	}

	quote, err := s.Quote(ctx, s.cfg.RiskFreeTicker)
	if err != nil {
		return 0, fmt.Errorf("risk-free rate: %w", err)
	}
	if quote.PreviousClose <= 0 {
		return 0, fmt.Errorf("risk-free rate: %s has no previous close", quote.Symbol)
	}

	divisor := s.cfg.RiskFreeDivisor
	if divisor <= 0 {
		divisor = 100
	}
	return quote.PreviousClose / divisor, nil
}

func (s *Service) fromCache(table, key string, out interface{}, freshOnly bool) bool {
	if s.cache == nil {
		return false
	}

	var found bool
	var err error
	if freshOnly {
		found, err = s.cache.GetIfFresh(table, key, out)
	} else {
		found, err = s.cache.Get(table, key, out)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Cache read failed")
		return false
	}
	return found
}

func (s *Service) toCache(table, key string, data interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(table, key, data, ttl); err != nil {
		s.log.Warn().Err(err).Str("table", table).Str("key", key).Msg("Cache write failed")
	}
}

func historyKey(symbol, period, interval string) string {
	return symbol + "|" + period + "|" + interval
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
