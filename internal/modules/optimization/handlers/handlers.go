// Package handlers provides HTTP handlers for two-asset analysis.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/twostocks/internal/clients/yahoo"
	"github.com/aristath/twostocks/internal/modules/charts"
	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/aristath/twostocks/internal/services"
	"github.com/aristath/twostocks/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// analysisTimeout bounds a shared analysis run once the first caller has gone away.
const analysisTimeout = 45 * time.Second

// AnalysisRunner runs one analysis.
type AnalysisRunner interface {
	Run(ctx context.Context, req services.AnalysisRequest) (*optimization.Report, error)
}

// ChartRenderer draws report charts.
type ChartRenderer interface {
	Render(kind charts.Kind, report *optimization.Report) ([]byte, error)
}

// Handler handles optimization HTTP requests
type Handler struct {
	analysis AnalysisRunner
	charts   ChartRenderer
	inflight singleflight.Group
	log      zerolog.Logger
}

// NewHandler creates a new optimization handler
func NewHandler(analysis AnalysisRunner, chartRenderer ChartRenderer, log zerolog.Logger) *Handler {
	return &Handler{
		analysis: analysis,
		charts:   chartRenderer,
		log:      log.With().Str("handler", "optimization").Logger(),
	}
}

// HandleAnalysis handles GET /api/optimization/analysis
func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleFrontier handles GET /api/optimization/frontier
func (h *Handler) HandleFrontier(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"run_id": report.RunID,
			"assets": []string{report.Assets[0].Ticker, report.Assets[1].Ticker},
			"step":   report.Frontier.Step(),
			"count":  report.FrontierPoints,
			"points": report.Frontier.Points(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleChart handles GET /api/optimization/chart
func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, ok := h.runFromQuery(w, r)
	if !ok {
		return
	}

	png, err := h.charts.Render(kind, report)
	if err != nil {
		h.log.Error().Err(err).Str("kind", string(kind)).Msg("Failed to render chart")
		h.writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart response")
	}
}

// runFromQuery parses the request, runs the analysis and writes any error
// response itself. Identical concurrent requests share a single run.
func (h *Handler) runFromQuery(w http.ResponseWriter, r *http.Request) (*optimization.Report, bool) {
	req, err := parseAnalysisRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ctx := r.Context()
	ch := h.inflight.DoChan(requestKey(req), func() (interface{}, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), analysisTimeout)
		defer cancel()
		return h.analysis.Run(runCtx, req)
	})

	select {
	case <-ctx.Done():
		h.log.Debug().Err(ctx.Err()).Msg("Client went away during analysis")
		return nil, false
	case res := <-ch:
		if res.Err != nil {
			status := statusFor(res.Err)
			h.log.Warn().
				Err(res.Err).
				Int("status", status).
				Bool("shared", res.Shared).
				Msg("Analysis failed")
			h.writeError(w, status, res.Err.Error())
			return nil, false
		}
		return res.Val.(*optimization.Report), true
	}
}

func parseAnalysisRequest(r *http.Request) (services.AnalysisRequest, error) {
	q := r.URL.Query()

	tickers := utils.ParseCSV(q.Get("tickers"))
	if len(tickers) != 2 {
		return services.AnalysisRequest{}, fmt.Errorf("tickers must name exactly two symbols, e.g. tickers=AAPL,MSFT")
	}

	req := services.AnalysisRequest{
		Request: marketdata.Request{
			TickerA:  tickers[0],
			TickerB:  tickers[1],
			Period:   q.Get("period"),
			Interval: q.Get("interval"),
		},
	}

	if req.Interval != "" {
		if _, err := optimization.PeriodsPerYear(req.Interval); err != nil {
			return services.AnalysisRequest{}, err
		}
	}

	if v := q.Get("rf"); v != "" {
		rf, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return services.AnalysisRequest{}, fmt.Errorf("invalid rf %q", v)
		}
		req.RiskFreeRate = &rf
	}

	if v := q.Get("step"); v != "" {
		step, err := strconv.ParseFloat(v, 64)
		if err != nil || !(step > 0 && step <= 1) {
			return services.AnalysisRequest{}, fmt.Errorf("invalid step %q (must be in (0, 1])", v)
		}
		req.FrontierStep = step
	}

	if v := q.Get("window"); v != "" {
		window, err := strconv.Atoi(v)
		if err != nil || window < 2 {
			return services.AnalysisRequest{}, fmt.Errorf("invalid window %q (must be at least 2)", v)
		}
		req.RollingWindow = window
	}

	return req, nil
}

func requestKey(req services.AnalysisRequest) string {
	rf := "default"
	if req.RiskFreeRate != nil {
		rf = strconv.FormatFloat(*req.RiskFreeRate, 'g', -1, 64)
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|%g|%d",
		yahoo.NormalizeSymbol(req.TickerA), yahoo.NormalizeSymbol(req.TickerB),
		req.Period, req.Interval, rf, req.FrontierStep, req.RollingWindow)
}

// statusFor maps an analysis failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, yahoo.ErrUnknownTicker):
		return http.StatusNotFound
	case errors.Is(err, marketdata.ErrNoOverlap), isAnalysisError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func isAnalysisError(err error) bool {
	var (
		insufficient  *optimization.InsufficientDataError
		invalidPrice  *optimization.InvalidPriceError
		empty         *optimization.EmptySeriesError
		mismatch      *optimization.LengthMismatchError
		annualization *optimization.InvalidAnnualizationError
		degenerate    *optimization.DegenerateOptimizationError
		negative      *optimization.NegativeVarianceError
		zeroRisk      *optimization.ZeroRiskError
		step          *optimization.InvalidStepError
	)
	return errors.As(err, &insufficient) ||
		errors.As(err, &invalidPrice) ||
		errors.As(err, &empty) ||
		errors.As(err, &mismatch) ||
		errors.As(err, &annualization) ||
		errors.As(err, &degenerate) ||
		errors.As(err, &negative) ||
		errors.As(err, &zeroRisk) ||
		errors.As(err, &step)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
