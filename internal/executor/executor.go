// Package executor implements the child side of the process-per-job
// isolation model. cmd/worker/main.go invokes Run instead of
// worker.Worker.Run whenever BATCHRS_WORKER_IS_EXECUTOR is set — the
// same binary re-exec'd by worker.spawnAndWait — translated from
// batch-worker/src/lib.rs's `execute` method.
package executor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/saratovsource/batch/internal/domain"
)

// Run freezes container, reads the job payload from stdin to EOF, looks
// up the callback registered for job, and invokes it. It calls
// os.Exit(0) on success and os.Exit(1) on a returned error, matching
// spec.md §4.6. A missing registry entry is a panic, not a clean exit:
// the registry merged at declare time is supposed to be authoritative,
// so the child finding no callback for a name it was handed is a
// programming error rather than a job failure. Any panic — this one or a
// handler's own — is recovered only long enough to log it, then
// re-panics so the Go runtime terminates the process with its standard
// non-signal panic exit status, which the supervisor tells apart from a
// deliberate os.Exit(1) by exit code (see worker.classifyExit).
func Run(ctx context.Context, job string, registry *domain.Registry, container *domain.Container) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("executor: handler panicked", slog.String("job", job), slog.Any("panic", r))
			panic(r)
		}
	}()

	container.Freeze()

	callback, ok := registry.Lookup(job)
	if !ok {
		// The registry merged at declare time must be authoritative: a
		// name the supervisor routed a delivery to but the child can't
		// find is a programming error, not a job failure, so it panics
		// rather than exiting cleanly — the supervisor's classifyExit
		// treats this the same as any other handler crash.
		panic(fmt.Sprintf("executor: no callback registered for job %q", job))
	}

	payload, err := io.ReadAll(os.Stdin)
	if err != nil {
		slog.Error("executor: failed to read payload from stdin", slog.String("job", job), slog.Any("err", err))
		os.Exit(1)
	}

	if err := callback(ctx, payload, container); err != nil {
		slog.Error("executor: job handler returned an error", slog.String("job", job), slog.Any("err", err))
		os.Exit(1)
	}

	os.Exit(0)
}
