package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gitrdm/gosolve/internal/config"
	"github.com/gitrdm/gosolve/internal/metrics"
	"github.com/gitrdm/gosolve/pkg/solver/runtime"
	"github.com/gitrdm/gosolve/pkg/solver/score"
)

func main() {
	configPath := flag.String("config", "", "path to a solver.yaml config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var out io.Writer = os.Stdout
	if cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()
	if level, parseErr := zerolog.ParseLevel(cfg.Logging.Level); parseErr == nil {
		logger = logger.Level(level)
	}

	reg := metrics.New(prometheus.DefaultRegisterer)
	jobs := runtime.NewRegistry[*EmployeeSchedule, score.HardSoftDecimal](cfg.Solver.MaxConcurrentJobs)
	defer jobs.Shutdown()

	router := NewAPI(jobs, cfg.RuntimeConfig(), reg, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().Str("addr", cfg.Server.Addr).Msg("employee scheduling solver starting")

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
