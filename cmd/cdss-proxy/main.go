package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/anguswg-ucsb/cdssgo/cdss"
	"github.com/anguswg-ucsb/cdssgo/internal/cache"
	"github.com/anguswg-ucsb/cdssgo/internal/cache/memstore"
	"github.com/anguswg-ucsb/cdssgo/internal/cache/redisstore"
	"github.com/anguswg-ucsb/cdssgo/internal/config"
	"github.com/anguswg-ucsb/cdssgo/internal/invalidation/kafkaconsumer"
	"github.com/anguswg-ucsb/cdssgo/internal/logger"
	"github.com/anguswg-ucsb/cdssgo/internal/observability"
	"github.com/anguswg-ucsb/cdssgo/internal/proxy"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func run() int {
	cfg := config.FromEnv()

	log := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		SampleN:   envInt("LOG_SAMPLE_N", 0),
		Component: "cdss-proxy",
	}, os.Stdout)

	observability.ExposeBuildInfo(Version)
	log.Info().
		Str("addr", cfg.Addr).
		Str("version", Version).
		Str("cache", cfg.CacheDriver).
		Msg("starting cdss proxy")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var clientOpts []cdss.Option
	clientOpts = append(clientOpts, cdss.WithLogger(log.With().Str("component", "cdss-client").Logger()))
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, cdss.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, cdss.WithAPIKey(cfg.APIKey))
	}
	if cfg.PageLimit > 0 {
		clientOpts = append(clientOpts, cdss.WithPageLimit(cfg.PageLimit))
	}
	client := cdss.NewClient(clientOpts...)

	var store cache.Store
	switch strings.ToLower(cfg.CacheDriver) {
	case "redis":
		rs, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("redis connect failed")
			return 1
		}
		store = rs
	default:
		ms, err := memstore.New(cfg.MemCacheSize)
		if err != nil {
			log.Error().Err(err).Msg("memory cache init failed")
			return 1
		}
		store = ms
	}
	defer func() { _ = store.Close() }()

	if cfg.Invalidation.Enabled {
		consumer := kafkaconsumer.New(
			kafkaconsumer.NewConfig(cfg.Invalidation.Brokers, cfg.Invalidation.Topic, cfg.Invalidation.GroupID),
			log.With().Str("component", "kafka-consumer").Logger(),
			store,
		)
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("invalidation consumer exited")
			}
		}()
	}

	ttl := cache.TTL{Default: cfg.CacheTTL, Overrides: cfg.CacheTTLOvr}
	srv := proxy.New(client, store, ttl, cfg.CellRes, log)

	if err := proxy.Run(ctx, cfg.Addr, srv, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		return 1
	}
	log.Info().Msg("server stopped")
	return 0
}
