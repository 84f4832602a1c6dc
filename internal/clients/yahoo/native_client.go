package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/lookup"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

const defaultMaxRetries = 3

// NativeClient implements FullClientInterface using go-yfinance library
type NativeClient struct {
	log        zerolog.Logger
	maxRetries int
}

// NewNativeClient creates a new native Yahoo Finance client
func NewNativeClient(log zerolog.Logger) *NativeClient {
	return &NativeClient{
		log:        log.With().Str("client", "yahoo-native").Logger(),
		maxRetries: defaultMaxRetries,
	}
}

// resolveSymbol normalizes the symbol; an ISIN is looked up to get the ticker symbol
func (c *NativeClient) resolveSymbol(symbol string) (string, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrUnknownTicker)
	}
	if !isISIN(symbol) {
		return symbol, nil
	}

	resolved, err := c.LookupTickerFromISIN(symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("isin", symbol).Msg("Failed to lookup ISIN, using ISIN directly")
		return symbol, nil
	}
	return resolved, nil
}

// retry runs fn up to maxRetries times with exponential wait between attempts.
// ErrUnknownTicker is final and never retried.
func (c *NativeClient) retry(ctx context.Context, symbol, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil || isUnknownTicker(lastErr) {
			return lastErr
		}

		if attempt < c.maxRetries-1 {
			waitTime := time.Duration(1<<uint(attempt)) * time.Second
			c.log.Warn().
				Err(lastErr).
				Str("symbol", symbol).
				Str("operation", op).
				Int("attempt", attempt+1).
				Dur("wait", waitTime).
				Msg("Retrying")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	return fmt.Errorf("%s %s failed after %d attempts: %w", op, symbol, c.maxRetries, lastErr)
}

// GetHistoricalPrices fetches the adjusted price history for period and interval
func (c *NativeClient) GetHistoricalPrices(ctx context.Context, symbol, period, interval string) ([]PriceBar, error) {
	yahooSymbol, err := c.resolveSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var prices []PriceBar
	err = c.retry(ctx, yahooSymbol, "history", func() error {
		t, err := ticker.New(yahooSymbol)
		if err != nil {
			return fmt.Errorf("failed to create ticker: %w", err)
		}
		defer t.Close()

		bars, err := t.History(models.HistoryParams{
			Period:     period,
			Interval:   interval,
			AutoAdjust: true,
		})
		if err != nil {
			return fmt.Errorf("failed to get historical prices: %w", err)
		}
		if len(bars) == 0 {
			return fmt.Errorf("%w: no price history for %s", ErrUnknownTicker, yahooSymbol)
		}

		prices = make([]PriceBar, 0, len(bars))
		for _, bar := range bars {
			prices = append(prices, PriceBar{
				Date:     bar.Date,
				Close:    bar.Close,
				AdjClose: bar.AdjClose,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("symbol", yahooSymbol).
		Str("period", period).
		Str("interval", interval).
		Int("bars", len(prices)).
		Msg("Fetched price history")

	return prices, nil
}

// GetQuote fetches name, quote type and previous close. A symbol without a
// long or short name is treated as unknown.
func (c *NativeClient) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	yahooSymbol, err := c.resolveSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var quote *Quote
	err = c.retry(ctx, yahooSymbol, "info", func() error {
		t, err := ticker.New(yahooSymbol)
		if err != nil {
			return fmt.Errorf("failed to create ticker: %w", err)
		}
		defer t.Close()

		info, err := t.Info()
		if err != nil {
			return fmt.Errorf("failed to get info: %w", err)
		}
		if info == nil {
			return fmt.Errorf("%w: %s", ErrUnknownTicker, yahooSymbol)
		}

		name := info.LongName
		if name == "" {
			name = info.ShortName
		}
		if name == "" {
			return fmt.Errorf("%w: %s", ErrUnknownTicker, yahooSymbol)
		}

		previousClose := info.RegularMarketPreviousClose
		if previousClose <= 0 {
			previousClose = info.CurrentPrice
		}

		quote = &Quote{
			Symbol:        yahooSymbol,
			Name:          name,
			QuoteType:     info.QuoteType,
			PreviousClose: previousClose,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return quote, nil
}

// LookupTickerFromISIN searches Yahoo Finance for a ticker symbol using an ISIN
func (c *NativeClient) LookupTickerFromISIN(isin string) (string, error) {
	if isin == "" {
		return "", fmt.Errorf("ISIN cannot be empty")
	}

	lookupClient, err := lookup.New(isin)
	if err != nil {
		return "", fmt.Errorf("failed to create lookup client: %w", err)
	}
	defer lookupClient.Close()

	results, err := lookupClient.Stock(1)
	if err != nil {
		return "", fmt.Errorf("failed to lookup ISIN: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("%w: no ticker found for ISIN %s", ErrUnknownTicker, isin)
	}

	return results[0].Symbol, nil
}
