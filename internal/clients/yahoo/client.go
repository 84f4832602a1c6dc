// Package yahoo fetches price history and quote metadata from Yahoo Finance.
package yahoo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrUnknownTicker is returned when Yahoo has no security for a symbol.
var ErrUnknownTicker = errors.New("unknown ticker")

// PriceBar is one observation of a price history.
type PriceBar struct {
	Date     time.Time `msgpack:"d"`
	Close    float64   `msgpack:"c"`
	AdjClose float64   `msgpack:"a"`
}

// Price returns the adjusted close, falling back to the raw close.
func (b PriceBar) Price() float64 {
	if b.AdjClose > 0 {
		return b.AdjClose
	}
	return b.Close
}

// Quote is the metadata used to validate a ticker and derive the risk-free rate.
type Quote struct {
	Symbol        string  `msgpack:"symbol"`
	Name          string  `msgpack:"name"`
	QuoteType     string  `msgpack:"quote_type"`
	PreviousClose float64 `msgpack:"previous_close"`
}

// FullClientInterface is what the market data layer needs from Yahoo.
type FullClientInterface interface {
	GetHistoricalPrices(ctx context.Context, symbol, period, interval string) ([]PriceBar, error)
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}

// ISIN validation pattern (12 characters: 2 letters, 9 alphanumeric, 1 digit)
var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// isISIN checks if identifier is a valid ISIN
func isISIN(identifier string) bool {
	return isinPattern.MatchString(identifier)
}

// NormalizeSymbol upper-cases and trims a user-entered ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func isUnknownTicker(err error) bool {
	return errors.Is(err, ErrUnknownTicker)
}
