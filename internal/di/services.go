package di

import (
	"fmt"

	"github.com/aristath/twostocks/internal/clientdata"
	"github.com/aristath/twostocks/internal/clients/yahoo"
	"github.com/aristath/twostocks/internal/config"
	"github.com/aristath/twostocks/internal/modules/charts"
	"github.com/aristath/twostocks/internal/modules/marketdata"
	"github.com/aristath/twostocks/internal/modules/optimization"
	"github.com/aristath/twostocks/internal/services"
	"github.com/rs/zerolog"
)

// InitializeServices creates the repository, clients and services.
// source overrides the Yahoo client when non-nil.
func InitializeServices(container *Container, cfg *config.Config, source marketdata.PriceSource, log zerolog.Logger) error {
	if container == nil || container.CacheDB == nil {
		return fmt.Errorf("container has no cache database")
	}

	container.CacheRepo = clientdata.NewRepository(container.CacheDB.Conn())

	if source == nil {
		container.YahooClient = yahoo.NewNativeClient(log)
		source = container.YahooClient
	}

	container.MarketDataService = marketdata.NewService(source, container.CacheRepo, marketdata.Config{
		Period:          cfg.Market.Period,
		Interval:        cfg.Market.Interval,
		PriceTTL:        cfg.Cache.PriceTTL,
		RiskFreeTicker:  cfg.Market.RiskFreeTicker,
		RiskFreeDivisor: cfg.Market.RiskFreeDivisor,
		RiskFreeRate:    cfg.Market.RiskFreeRate,
	}, log)

	container.Analyzer = optimization.NewAnalyzer(log)
	container.AnalysisService = services.NewAnalysisService(
		container.MarketDataService,
		container.Analyzer,
		services.AnalysisDefaults{
			FrontierStep:  cfg.Analysis.FrontierStep,
			RollingWindow: cfg.Analysis.RollingWindow,
		},
		log,
	)
	container.ChartsService = charts.NewService(log)

	return nil
}
