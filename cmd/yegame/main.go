package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/yegame-client/internal/app"
	"github.com/radieske/yegame-client/internal/shared/config"
	"github.com/radieske/yegame-client/internal/shared/logger"
)

func main() {
	os.Exit(run())
}

// run devolve o exit code; os.Exit só acontece depois dos defers
func run() int {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error("open session store", zap.String("backend", cfg.SessionBackend), zap.Error(err))
		return 1
	}

	a := app.New(cfg, log, store, app.Options{
		Registerer: prometheus.DefaultRegisterer,
		Closer:     closeStore,
	})
	defer a.Close()

	c := newCLI(a, os.Stdout, log)
	c.metricsPort = cfg.MetricsPort

	if err := c.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		return exitCode(err)
	}
	return 0
}
