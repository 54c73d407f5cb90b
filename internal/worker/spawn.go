package worker

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/saratovsource/batch/internal/domain"
	"github.com/saratovsource/batch/internal/observability"
)

// executorPanicExitCode is the exit status the Go runtime uses for an
// unrecovered panic. The executor recovers a handler panic only long
// enough to flush logs, then re-panics, so this code — rather than a
// real Unix signal — is how a handler panic is told apart from a
// deliberate os.Exit(1) for a returned error.
const executorPanicExitCode = 2

type spawnResult struct {
	err error
}

// spawnAndWait implements the four-step timeout/isolation algorithm:
// spawn the executor as a child process with BATCHRS_WORKER_IS_EXECUTOR
// set to the job name, pipe the delivery payload to its stdin, wait up
// to the job's hard timelimit (killing the child if it elapses), and
// classify the outcome into Success, Timeout, Crash, or Error.
func (w *Worker) spawnAndWait(ctx context.Context, d domain.Delivery) spawnResult {
	props := d.Properties()
	start := time.Now()

	bin := w.ExecutorBinary
	if bin == "" {
		resolved, err := os.Executable()
		if err != nil {
			observability.ObserveSpawnError(props.Task)
			return spawnResult{err: domain.NewError(domain.KindSpawnError, props.Task, err)}
		}
		bin = resolved
	}

	cmd := exec.Command(bin)
	cmd.Env = append(os.Environ(), "BATCHRS_WORKER_IS_EXECUTOR="+props.Task)
	cmd.Stdin = bytes.NewReader(d.Payload())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		observability.ObserveSpawnError(props.Task)
		return spawnResult{err: domain.NewError(domain.KindSpawnError, props.Task, err)}
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	if props.Timelimit.Hard == nil {
		waitErr = <-done
	} else {
		select {
		case waitErr = <-done:
		case <-time.After(*props.Timelimit.Hard):
			_ = cmd.Process.Kill()
			<-done
			result := spawnResult{err: domain.NewExecutionError(domain.ExecutionTimeout, props.Task, nil)}
			observability.ObserveOutcome(props.Task, false, string(domain.ExecutionTimeout), time.Since(start))
			return result
		}
	}

	result := classifyExit(waitErr, props.Task)
	observability.ObserveOutcome(props.Task, result.err == nil, outcomeReason(result), time.Since(start))
	return result
}

func outcomeReason(r spawnResult) string {
	if r.err == nil {
		return ""
	}
	var derr *domain.Error
	if ok := asExecutionError(r.err, &derr); ok {
		return string(derr.Execution)
	}
	return "error"
}

func asExecutionError(err error, target **domain.Error) bool {
	derr, ok := err.(*domain.Error)
	if !ok {
		return false
	}
	*target = derr
	return true
}

// classifyExit maps a completed child process's wait error onto the
// Success/Crash/Error split: a nil error is Success, a signaled process
// is a Crash, an exit code matching executorPanicExitCode is also a
// Crash (a recovered-then-repanicked handler), and any other nonzero
// exit code is a deliberate Error from the handler.
func classifyExit(waitErr error, job string) spawnResult {
	if waitErr == nil {
		return spawnResult{}
	}

	exitErr, ok := waitErr.(*exec.ExitError)
	if !ok {
		return spawnResult{err: domain.NewExecutionError(domain.ExecutionCrash, job, waitErr)}
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return spawnResult{err: domain.NewExecutionError(domain.ExecutionCrash, job, exitErr)}
		}
		if ws.ExitStatus() == executorPanicExitCode {
			return spawnResult{err: domain.NewExecutionError(domain.ExecutionCrash, job, exitErr)}
		}
	}
	return spawnResult{err: domain.NewExecutionError(domain.ExecutionError, job, exitErr)}
}
