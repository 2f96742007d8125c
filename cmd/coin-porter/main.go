package main

import (
	"os"

	"github.com/TerryChengTW/coin-porter/internal/domain/interfaces"
	"github.com/TerryChengTW/coin-porter/internal/infrastructure/exchanges"
	"github.com/TerryChengTW/coin-porter/internal/normalize"
	"github.com/TerryChengTW/coin-porter/internal/registry"
	"github.com/TerryChengTW/coin-porter/internal/resolver"
	"github.com/TerryChengTW/coin-porter/internal/server"
	"github.com/TerryChengTW/coin-porter/pkg/config"
	"github.com/TerryChengTW/coin-porter/pkg/logger"
)

func main() {
	log := logger.New()

	configPath := os.Getenv("COINPORTER_CONFIG")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Logging)

	chains := normalize.NewChainResolver(cfg.ChainAliases)
	normalizer := normalize.New(chains, log)
	reg := registry.New(cfg.Resolver.StalenessTTL)

	var fetchers []interfaces.CapabilityFetcher
	for _, name := range cfg.EnabledExchanges() {
		exCfg := cfg.Exchanges[name]
		switch name {
		case "binance":
			fetchers = append(fetchers, exchanges.NewBinanceFetcher(exCfg, log))
		case "bybit":
			fetchers = append(fetchers, exchanges.NewBybitFetcher(exCfg, log))
		case "bitget":
			fetchers = append(fetchers, exchanges.NewBitgetFetcher(exCfg, log))
		default:
			log.Fatal().Str("exchange", name).Msg("No fetcher implemented for configured exchange")
		}
	}

	resolutionSvc, err := resolver.NewResolutionService(
		fetchers,
		normalizer,
		reg,
		cfg.Resolver,
		cfg.BlockTimeSeconds,
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build resolution service")
	}

	srv := server.New(cfg, resolutionSvc, log)
	srv.Start()
}
