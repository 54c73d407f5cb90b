// Package worker realizes the supervisor half of the child-process
// isolation model: it declares queues against a broker, holds the
// callback registry and dependency container every job handler needs,
// and spawns one short-lived executor process per delivery so a
// misbehaving job can never take the supervisor down with it.
//
// Translated from the Rust source's batch-worker crate, whose
// cooperative futures runtime becomes goroutines here: Run spawns one
// goroutine per declared queue's consume loop and one goroutine per
// in-flight delivery, exactly mirroring the original's
// `tokio::spawn(task)` per delivery.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/saratovsource/batch/internal/domain"
)

// Worker accumulates declared queues, merged callbacks, and the shared
// dependency container across Declare/Manage calls, then supervises
// delivery execution once Run is called.
type Worker struct {
	mu        sync.Mutex
	consumers []domain.ToConsumer
	registry  *domain.Registry
	state     *domain.Container

	// ExecutorBinary is the path to the executable re-invoked as the
	// per-job executor. Empty means "re-exec the running binary",
	// resolved lazily via os.Executable at spawn time.
	ExecutorBinary string
}

// New builds an empty Worker ready for Declare/Manage calls.
func New() *Worker {
	return &Worker{
		registry: domain.NewRegistry(),
		state:    domain.NewContainer(),
	}
}

// Registry exposes the merged callback table.
func (w *Worker) Registry() *domain.Registry { return w.registry }

// Container exposes the shared dependency container that Manage
// registers builders into.
func (w *Worker) Container() *domain.Container { return w.state }

// Manage registers a builder for a dependency of type T, mirroring the
// Rust worker's `manage(init)` / `state.set_local(init)`.
func Manage[T any](w *Worker, build func() T) {
	domain.Set(w.state, build)
}

// Declare runs a Declarator against a broker connection, merges the
// resulting Callbacks into the worker's registry (failing on a genuine
// name conflict per domain.Registry.Merge), and — when the declared
// resource can also produce a Consumer — registers it for Run to
// consume from.
func Declare[In any, Out domain.Callbacks](ctx context.Context, w *Worker, d domain.Declarator[In, Out], input In) (Out, error) {
	out, err := d.Declare(ctx, input)
	if err != nil {
		var zero Out
		return zero, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.registry.Merge(out.Callbacks()); err != nil {
		var zero Out
		return zero, err
	}
	if consumable, ok := any(out).(domain.ToConsumer); ok {
		w.consumers = append(w.consumers, consumable)
	}
	return out, nil
}

// Run starts consuming every declared queue and spawns one goroutine
// per delivery to execute it in an isolated child process. It blocks
// until ctx is canceled and every in-flight delivery goroutine has
// returned.
func (w *Worker) Run(ctx context.Context) error {
	w.mu.Lock()
	consumers := append([]domain.ToConsumer(nil), w.consumers...)
	w.mu.Unlock()

	if len(consumers) == 0 {
		return fmt.Errorf("worker: Run called with no declared queues")
	}

	var loops sync.WaitGroup
	for _, tc := range consumers {
		deliveries, err := tc.ToConsumer().Consume(ctx)
		if err != nil {
			return fmt.Errorf("worker: consume: %w", err)
		}

		loops.Add(1)
		go func(deliveries <-chan domain.Delivery) {
			defer loops.Done()
			var inFlight sync.WaitGroup
			defer inFlight.Wait()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					inFlight.Add(1)
					go func(d domain.Delivery) {
						defer inFlight.Done()
						w.handle(ctx, d)
					}(d)
				}
			}
		}(deliveries)
	}

	loops.Wait()
	return nil
}

// handle spawns the executor for a single delivery and acks or rejects
// it based on the outcome, matching the original's
// spawn/ExecutionStatus/ack-or-reject flow.
func (w *Worker) handle(ctx context.Context, d domain.Delivery) {
	props := d.Properties()

	result := w.spawnAndWait(ctx, d)
	if result.err != nil {
		slog.Error("job execution failed",
			slog.String("job", props.Task),
			slog.String("id", props.ID.String()),
			slog.Any("err", result.err))
		if rejErr := d.Reject(ctx, false); rejErr != nil {
			slog.Error("reject failed", slog.String("job", props.Task), slog.Any("err", rejErr))
		}
		return
	}

	if ackErr := d.Ack(ctx); ackErr != nil {
		slog.Error("ack failed", slog.String("job", props.Task), slog.Any("err", ackErr))
	}
}
