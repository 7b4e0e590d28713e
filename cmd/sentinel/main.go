package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StructureSentinel/internal/cache"
	"StructureSentinel/internal/config"
	"StructureSentinel/internal/logger"
	"StructureSentinel/internal/metrics"
	"StructureSentinel/internal/model"
	"StructureSentinel/internal/report"
	"StructureSentinel/internal/scheduler"
	"StructureSentinel/internal/server"
	"StructureSentinel/internal/service"
	"StructureSentinel/internal/strategy"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file (defaults to $CONFIG_PATH or configs/config.yaml)")
	input := flag.String("input", "", "analyze a JSON candle file once and exit")
	symbol := flag.String("symbol", "", "symbol label for -input")
	format := flag.String("format", "json", "output format for -input: json or text")
	flag.Parse()

	// Load config
	path := *cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal("load config", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("config validation", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fatal("init logger", err)
	}
	defer log.Close()

	engine, err := strategy.NewEngine(cfg.Engine)
	if err != nil {
		fatal("init engine", err)
	}

	if *input != "" {
		if err := runOnce(engine, *input, *symbol, *format); err != nil {
			fatal("analyze", err)
		}
		return
	}

	log.Info("StructureSentinel starting", logger.String("config", path), logger.Any("engine", cfg.Engine))

	rec := metrics.New(prometheus.DefaultRegisterer)

	// Init cache
	var (
		bc      cache.BytesCache
		sweeper scheduler.Sweeper
	)
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc := cache.NewRedisCache(cache.RedisConfig{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			KeyPrefix: cfg.Cache.Redis.KeyPrefix,
		})
		if err := rc.Ping(context.Background()); err != nil {
			log.Warn("redis unreachable, analyses will run uncached until it recovers", logger.Error(err))
		}
		defer rc.Close()
		bc = rc
	case config.CacheMemory:
		mc := cache.NewTTLCache(cfg.Cache.MaxEntries)
		bc, sweeper = mc, mc
	default:
		bc = cache.Nop{}
	}
	log.Info("result cache", logger.String("backend", cfg.Cache.Backend))

	analyzer := service.NewAnalyzer(engine, service.Options{
		Cache:   bc,
		TTL:     cfg.Cache.TTL,
		Metrics: rec,
		Logger:  log.Named("analyzer"),
		Workers: cfg.Batch.Workers,
	})

	// Init scheduler
	sched := scheduler.NewScheduler(sweeper, analyzer, log.Named("scheduler"))
	if err := sched.RegisterAll(cfg.Schedule.CacheSweep, cfg.Schedule.Stats); err != nil {
		fatal("register cron tasks", err)
	}
	sched.Start()
	defer sched.Stop()

	handler := server.NewAnalysisHandler(analyzer, log.Named("http"), cfg.Batch.MaxCandles, cfg.Batch.MaxSeries)
	srv := server.NewServer(handler,
		server.WithHost(cfg.Server.Host),
		server.WithPort(cfg.Server.Port),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		server.WithCORS(!cfg.Server.DisableCORS),
		server.WithLogger(log.Named("http")),
		server.WithMetrics(rec, prometheus.DefaultGatherer),
	)
	if err := srv.Start(); err != nil {
		fatal("start server", err)
	}

	log.Info("StructureSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping...")
	case err := <-srv.Errors():
		log.Error("http server failed", logger.Error(err))
	}

	if err := srv.Stop(context.Background()); err != nil {
		log.Error("stop server", logger.Error(err))
	}
	log.Info("StructureSentinel stopped")
}

// runOnce analyzes a candle file and prints the result to stdout.
func runOnce(engine *strategy.Engine, path, symbol, format string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var candles []model.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	res, err := engine.Analyze(candles)
	if err != nil {
		return err
	}

	switch format {
	case "text":
		fmt.Print(report.FormatAnalysis(symbol, res))
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "[FATAL] %s: %v\n", what, err)
	os.Exit(1)
}
