package clientdata

import "time"

// TTL defaults added to time.Now() when storing to calculate expires_at.
const (
	// TTLPriceHistory is overridden by PRICE_CACHE_TTL.
	TTLPriceHistory = 24 * time.Hour
	// TTLQuote covers names and previous closes; the risk-free proxy moves daily.
	TTLQuote = 12 * time.Hour
)
