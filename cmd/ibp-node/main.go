package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/horockey/ibp"
	"github.com/horockey/ibp/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "", "path to yaml config")
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Send()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	reward, err := cfg.RewardAmount()
	if err != nil {
		return fmt.Errorf("parsing reward amount: %w", err)
	}

	ledger, err := ibp.NewLedger(cfg.Node.APIKey, cfg.Node.AdminKey, ledgerOpts(cfg, logger, reward)...)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Error().Err(fmt.Errorf("closing ledger: %w", err)).Send()
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(ledger.Metrics()...)
		go serveMetrics(ctx, cfg.Metrics.ListenAddress, reg, logger)
	}

	logger.Info().
		Int("port", cfg.Node.ListenPort).
		Str("badger_dir", cfg.Storage.BadgerDir).
		Bool("test_mode", cfg.Ledger.TestMode).
		Msg("ibp node starting")

	return ledger.Start(ctx)
}

func ledgerOpts(cfg *config.Config, logger zerolog.Logger, reward *big.Int) []ibp.LedgerOption {
	opts := []ibp.LedgerOption{
		ibp.WithLogger(logger),
		ibp.WithServicePort(cfg.Node.ListenPort),
		ibp.WithRewardAmount(reward),
		ibp.WithTestMode(cfg.Ledger.TestMode),
		ibp.WithEventHandler(func(rec ibp.EventRecord) {
			logger.Debug().Uint64("seq", rec.Seq).Str("event", string(rec.Event.EventName())).Msg("event committed")
		}),
	}
	if cfg.Storage.BadgerDir != "" {
		opts = append(opts, ibp.WithBadgerDir(cfg.Storage.BadgerDir))
	}
	return opts
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger zerolog.Logger) {
	serv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: time.Second * 5, //nolint: mnd
	}

	go func() {
		<-ctx.Done()
		sdCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = serv.Shutdown(sdCtx)
	}()

	if err := serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(fmt.Errorf("serving metrics: %w", err)).Send()
	}
}
