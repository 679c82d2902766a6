package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/workprior/crypto-backtest/internal/api/handlers"
	"github.com/workprior/crypto-backtest/internal/api/middleware"
	"github.com/workprior/crypto-backtest/internal/config"
	"github.com/workprior/crypto-backtest/internal/data"
	"github.com/workprior/crypto-backtest/internal/runner"
	"github.com/workprior/crypto-backtest/internal/scheduler"
	"github.com/workprior/crypto-backtest/internal/store"
	"github.com/workprior/crypto-backtest/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	refreshSpec := flag.String("refresh", "", "Optional cron spec for periodic batch refresh, e.g. \"0 3 * * *\"")
	debug := flag.Bool("debug", false, "Verbose logging")
	flag.Parse()

	logger.Init(*debug)
	logger.SetServiceName("api")
	defer logger.Sync()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Fatal("load config: %v", err)
		}
		cfg = loaded
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cache := data.NewCache(cfg.Data.CacheDir)
	ranker := data.NewSymbolSelector(cfg.Data.MarketType, cfg.Data.QuoteAsset, cfg.Data.Year, cfg.Data.Month)

	var st *store.Store
	if cfg.Output.Database != "" {
		var err error
		st, err = store.Open(cfg.Output.Database)
		if err != nil {
			logger.Fatal("open results store: %v", err)
		}
		defer st.Close()
	}

	if *refreshSpec != "" {
		fetcher := data.NewVisionClient(cfg.Data.MarketType, cfg.Data.Interval, cfg.Data.Year, cfg.Data.Month)
		loader := data.NewLoader(ranker, fetcher, cache)
		batch := runner.New(cfg, loader, st)

		sched := scheduler.New(func() {
			if _, err := batch.Run(); err != nil {
				logger.Error("scheduled batch failed: %v", err)
			}
		})
		if err := sched.Register(*refreshSpec); err != nil {
			logger.Fatal("register refresh: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	backtestHandler := handlers.NewBacktestHandler(cfg, cache, st)
	strategyHandler := handlers.NewStrategyHandler(cfg)
	resultsHandler := handlers.NewResultsHandler(st)
	rankHandler := handlers.NewRankHandler(ranker)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/backtest", backtestHandler.RunBacktest)
		api.GET("/strategies", strategyHandler.ListStrategies)
		api.GET("/results", resultsHandler.ListResults)
		api.GET("/rank", rankHandler.RankSymbols)
	}

	addr := fmt.Sprintf(":%s", port)
	logger.Info("starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatal("server exited: %v", err)
	}
}
