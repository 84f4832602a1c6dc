package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/twostocks/internal/clients/yahoo"
	"github.com/aristath/twostocks/internal/modules/charts"
	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/aristath/twostocks/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves fixed weekly prices for AAA and BBB and a 4.25 ^TNX quote.
type fakeSource struct {
	fail error
}

var fakePrices = map[string][]float64{
	"AAA": {100, 102, 101, 105, 107, 106, 110, 108, 112},
	"BBB": {50, 49, 51, 52, 50, 53, 54, 53, 55},
	"CCC": {100, 102, 101, 105, 107, 106, 110, 108, 112},
}

func (f *fakeSource) GetHistoricalPrices(_ context.Context, symbol, _, _ string) ([]yahoo.PriceBar, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	prices, ok := fakePrices[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", yahoo.ErrUnknownTicker, symbol)
	}
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]yahoo.PriceBar, len(prices))
	for i, p := range prices {
		bars[i] = yahoo.PriceBar{Date: start.AddDate(0, 0, 7*i), Close: p, AdjClose: p}
	}
	return bars, nil
}

func (f *fakeSource) GetQuote(_ context.Context, symbol string) (*yahoo.Quote, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if symbol == "^TNX" {
		return &yahoo.Quote{Symbol: symbol, Name: "Treasury Yield 10 Years", PreviousClose: 4.25}, nil
	}
	if _, ok := fakePrices[symbol]; !ok {
		return nil, fmt.Errorf("%w: %s", yahoo.ErrUnknownTicker, symbol)
	}
	return &yahoo.Quote{Symbol: symbol, Name: symbol + " Corp"}, nil
}

func setupRouter(t *testing.T, source *fakeSource) *chi.Mux {
	t.Helper()

	log := zerolog.New(nil).Level(zerolog.Disabled)
	market := marketdata.NewService(source, nil, marketdata.Config{
		Period:          "1y",
		Interval:        "1wk",
		RiskFreeTicker:  "^TNX",
		RiskFreeDivisor: 100,
	}, log)
	analysis := services.NewAnalysisService(market, optimization.NewAnalyzer(log),
		services.AnalysisDefaults{FrontierStep: 0.01, RollingWindow: 4}, log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(analysis, charts.NewService(log), log).RegisterRoutes(r)
	})
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalysis(t *testing.T) {
	router := setupRouter(t, &fakeSource{})

	rec := get(router, "/api/optimization/analysis?tickers=aaa,bbb")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response struct {
		Data struct {
			RunID          string  `json:"run_id"`
			PeriodsPerYear int     `json:"periods_per_year"`
			RiskFreeRate   float64 `json:"risk_free_rate"`
			FrontierPoints int     `json:"frontier_points"`
			Assets         []struct {
				Ticker string `json:"ticker"`
				Name   string `json:"name"`
			} `json:"assets"`
			MinimumVariance struct {
				Weights struct {
					W1 float64 `json:"w1"`
					W2 float64 `json:"w2"`
				} `json:"weights"`
			} `json:"minimum_variance"`
			Diagnostics *struct {
				Window int `json:"window"`
			} `json:"diagnostics"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.NotEmpty(t, response.Data.RunID)
	assert.Equal(t, 52, response.Data.PeriodsPerYear)
	assert.InDelta(t, 0.0425, response.Data.RiskFreeRate, 1e-12)
	assert.Equal(t, 101, response.Data.FrontierPoints)
	require.Len(t, response.Data.Assets, 2)
	assert.Equal(t, "AAA", response.Data.Assets[0].Ticker)
	assert.Equal(t, "BBB Corp", response.Data.Assets[1].Name)
	assert.InDelta(t, 1.0, response.Data.MinimumVariance.Weights.W1+response.Data.MinimumVariance.Weights.W2, 1e-12)
	require.NotNil(t, response.Data.Diagnostics)
	assert.Equal(t, 4, response.Data.Diagnostics.Window)
}

func TestHandleFrontier(t *testing.T) {
	router := setupRouter(t, &fakeSource{})

	rec := get(router, "/api/optimization/frontier?tickers=AAA,BBB&step=0.25&rf=0.01")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response struct {
		Data struct {
			Assets []string                     `json:"assets"`
			Step   float64                      `json:"step"`
			Count  int                          `json:"count"`
			Points []optimization.FrontierPoint `json:"points"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, []string{"AAA", "BBB"}, response.Data.Assets)
	assert.Equal(t, 0.25, response.Data.Step)
	assert.Equal(t, 5, response.Data.Count)
	require.Len(t, response.Data.Points, 5)
	assert.Equal(t, 0.0, response.Data.Points[0].W1)
	assert.Equal(t, 1.0, response.Data.Points[4].W1)
}

func TestHandleChart(t *testing.T) {
	router := setupRouter(t, &fakeSource{})

	for _, kind := range []string{"scatter", "weights"} {
		t.Run(kind, func(t *testing.T) {
			rec := get(router, "/api/optimization/chart?tickers=AAA,BBB&kind="+kind)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.Equal(t, "\x89PNG", rec.Body.String()[:4])
		})
	}

	rec := get(router, "/api/optimization/chart?tickers=AAA,BBB&kind=pie")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		fail   error
		status int
	}{
		{"missing tickers", "/api/optimization/analysis", nil, http.StatusBadRequest},
		{"one ticker", "/api/optimization/analysis?tickers=AAA", nil, http.StatusBadRequest},
		{"three tickers", "/api/optimization/analysis?tickers=AAA,BBB,CCC", nil, http.StatusBadRequest},
		{"bad interval", "/api/optimization/analysis?tickers=AAA,BBB&interval=2h", nil, http.StatusBadRequest},
		{"bad rf", "/api/optimization/analysis?tickers=AAA,BBB&rf=abc", nil, http.StatusBadRequest},
		{"bad step", "/api/optimization/analysis?tickers=AAA,BBB&step=1.5", nil, http.StatusBadRequest},
		{"bad window", "/api/optimization/analysis?tickers=AAA,BBB&window=1", nil, http.StatusBadRequest},
		{"unknown ticker", "/api/optimization/analysis?tickers=AAA,ZZZ", nil, http.StatusNotFound},
		{"identical assets", "/api/optimization/analysis?tickers=AAA,CCC", nil, http.StatusUnprocessableEntity},
		{"upstream failure", "/api/optimization/analysis?tickers=AAA,BBB", errors.New("connection reset"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, &fakeSource{fail: tt.fail})

			rec := get(router, tt.path)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown ticker", fmt.Errorf("quote ZZZ: %w", yahoo.ErrUnknownTicker), http.StatusNotFound},
		{"no overlap", fmt.Errorf("AAA and BBB: %w", marketdata.ErrNoOverlap), http.StatusUnprocessableEntity},
		{"insufficient data", fmt.Errorf("AAA returns: %w", &optimization.InsufficientDataError{Have: 1, Need: 2}), http.StatusUnprocessableEntity},
		{"zero risk", &optimization.ZeroRiskError{}, http.StatusUnprocessableEntity},
		{"other", errors.New("timeout"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestRequestKey(t *testing.T) {
	rf := 0.02
	a := services.AnalysisRequest{Request: marketdata.Request{TickerA: "aapl", TickerB: " msft"}}
	b := services.AnalysisRequest{Request: marketdata.Request{TickerA: "AAPL", TickerB: "MSFT"}}
	c := services.AnalysisRequest{Request: marketdata.Request{TickerA: "AAPL", TickerB: "MSFT", RiskFreeRate: &rf}}
	d := services.AnalysisRequest{Request: marketdata.Request{TickerA: "MSFT", TickerB: "AAPL"}}

	assert.Equal(t, requestKey(a), requestKey(b))
	assert.NotEqual(t, requestKey(b), requestKey(c))
	assert.NotEqual(t, requestKey(b), requestKey(d))
}
