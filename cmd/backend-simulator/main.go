package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/yegame-client/internal/shared/config"
	"github.com/radieske/yegame-client/internal/shared/kafka"
	"github.com/radieske/yegame-client/internal/shared/logger"
	"github.com/radieske/yegame-client/internal/shared/metrics"
	"github.com/radieske/yegame-client/internal/simulator"
)

func main() {
	if os.Getenv("SERVICE_NAME") == "" {
		_ = os.Setenv("SERVICE_NAME", "backend-simulator")
	}
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := simulator.NewRepo(nil)
	simulator.Seed(repo, time.Now())

	// Kafka opcional: sem brokers os eventos são descartados
	var publ simulator.Publisher = simulator.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		betWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
		defer betWriter.Close()
		issueWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicIssueUpdated)
		defer issueWriter.Close()

		publ = simulator.NewKafkaPublisher(betWriter, issueWriter)
		log.Info("kafka publisher enabled",
			zap.String("brokers", cfg.KafkaBrokers),
			zap.String("topics", cfg.TopicBetPlaced+","+cfg.TopicIssueUpdated),
		)
	}

	srv := simulator.NewServer(log, repo, simulator.NewTokens(cfg.JWTSecret, nil), simulator.ServerOptions{
		Publisher: publ,
		Metrics:   simulator.NewMetrics(prometheus.DefaultRegisterer),
	})

	// metrics/health
	msrv := metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("metrics/health", zap.String("addr", fmt.Sprintf(":%s", cfg.MetricsPort)))

	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = apiSrv.Shutdown(sctx)
		_ = msrv.Shutdown(sctx)
	}()

	log.Info("backend simulator listening",
		zap.String("addr", apiSrv.Addr),
		zap.String("base", "/api"),
	)
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
