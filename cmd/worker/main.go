// Package main provides the worker application entry point. It is the
// same binary in two roles: run normally it supervises queue consumption
// and spawns one child executor process per delivery; re-invoked with
// BATCHRS_WORKER_IS_EXECUTOR set (as worker.spawnAndWait does) it plays
// the child role instead, executing exactly one job and exiting.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saratovsource/batch/examples/jobs"
	amqpbroker "github.com/saratovsource/batch/internal/broker/amqp"
	kafkabroker "github.com/saratovsource/batch/internal/broker/kafka"
	redisbroker "github.com/saratovsource/batch/internal/broker/redis"
	"github.com/saratovsource/batch/internal/config"
	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/executor"
	"github.com/saratovsource/batch/internal/observability"
	"github.com/saratovsource/batch/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// The executor role never declares queues or starts the metrics
	// server: it reads one payload from stdin, runs one job, and exits,
	// exactly as spec.md §4.6 describes.
	if job := os.Getenv("BATCHRS_WORKER_IS_EXECUTOR"); job != "" {
		runExecutor(job)
		return
	}

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv), slog.String("broker", cfg.BrokerKind))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New()
	w.ExecutorBinary = cfg.ExecutorBinary

	closeBroker, err := declareGreetings(ctx, cfg, w)
	if err != nil {
		slog.Error("failed to declare queues", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeBroker()

	slog.Info("worker ready, consuming declared queues")
	if err := w.Run(ctx); err != nil {
		slog.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("worker stopped")
}

// runExecutor plays the child side of the process-per-job isolation
// model: the job name was passed through BATCHRS_WORKER_IS_EXECUTOR and
// the payload arrives on stdin. It needs no broker connection, only the
// same job bindings the supervisor declares, so it builds the queue
// locally and merges its callbacks directly into a fresh registry.
func runExecutor(job string) {
	registry := domain.NewRegistry()
	queue := domain.NewQueue(jobs.GreetingsQueue())
	if err := registry.Merge(queue.Callbacks()); err != nil {
		slog.Error("executor: failed to register job bindings", slog.Any("error", err))
		os.Exit(1)
	}
	executor.Run(context.Background(), job, registry, domain.NewContainer())
}

// declareGreetings dials the broker selected by cfg.BrokerKind, declares
// the greetings exchange and queue, and wires SayHello's binding into w.
// It returns a cleanup func that closes the underlying connection.
func declareGreetings(ctx context.Context, cfg config.Config, w *worker.Worker) (func(), error) {
	switch cfg.BrokerKind {
	case "redis":
		b, err := redisbroker.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: dial: %w", err)
		}
		if _, err := b.ExchangeDeclarator().Declare(ctx, jobs.Greetings); err != nil {
			return nil, fmt.Errorf("redis: declare exchange: %w", err)
		}
		if _, err := worker.Declare[domain.QueueBuilder](ctx, w, b.QueueDeclarator(), jobs.GreetingsQueue()); err != nil {
			return nil, fmt.Errorf("redis: declare queue: %w", err)
		}
		return func() { _ = b.Close() }, nil

	case "kafka":
		b, err := kafkabroker.Dial(cfg.KafkaBrokers, "batch-worker")
		if err != nil {
			return nil, fmt.Errorf("kafka: dial: %w", err)
		}
		if _, err := b.ExchangeDeclarator().Declare(ctx, jobs.Greetings); err != nil {
			return nil, fmt.Errorf("kafka: declare exchange: %w", err)
		}
		if _, err := worker.Declare[domain.QueueBuilder](ctx, w, b.QueueDeclarator(), jobs.GreetingsQueue()); err != nil {
			return nil, fmt.Errorf("kafka: declare queue: %w", err)
		}
		return func() { _ = b.Close() }, nil

	default:
		b, err := amqpbroker.Dial(cfg.BrokerURL, cfg.Prefetch, cfg.AMQPReconnectInitialWait, cfg.AMQPReconnectMaxElapsed)
		if err != nil {
			return nil, fmt.Errorf("amqp: dial: %w", err)
		}
		if _, err := b.ExchangeDeclarator().Declare(ctx, jobs.Greetings); err != nil {
			return nil, fmt.Errorf("amqp: declare exchange: %w", err)
		}
		if _, err := worker.Declare[domain.QueueBuilder](ctx, w, b.QueueDeclarator(), jobs.GreetingsQueue()); err != nil {
			return nil, fmt.Errorf("amqp: declare queue: %w", err)
		}
		return func() { _ = b.Close() }, nil
	}
}
