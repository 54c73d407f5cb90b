package worker

import (
	"os"
	"os/exec"
	"testing"

	"github.com/saratovsource/batch/internal/domain"
)

// TestMain lets this test binary also act as the "child process" under
// test: when GO_WORKER_TEST_HELPER is set, it runs the matching helper
// branch below instead of the normal test suite, following the standard
// library's own os/exec-test pattern for exercising real exit codes.
func TestMain(m *testing.M) {
	switch os.Getenv("GO_WORKER_TEST_HELPER") {
	case "exit0":
		os.Exit(0)
	case "exit1":
		os.Exit(1)
	case "panic":
		defer func() {
			recover()
			os.Exit(executorPanicExitCode)
		}()
		panic("boom")
	}
	os.Exit(m.Run())
}

func runHelper(t *testing.T, mode string) error {
	t.Helper()
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), "GO_WORKER_TEST_HELPER="+mode)
	return cmd.Run()
}

func TestClassifyExit_NilErrorIsSuccess(t *testing.T) {
	result := classifyExit(nil, "job")
	if result.err != nil {
		t.Fatalf("expected no error, got %v", result.err)
	}
}

func TestClassifyExit_Exit1IsExecutionError(t *testing.T) {
	waitErr := runHelper(t, "exit1")
	result := classifyExit(waitErr, "job")
	derr, ok := result.err.(*domain.Error)
	if !ok || derr.Execution != domain.ExecutionError {
		t.Fatalf("expected ExecutionError, got %v", result.err)
	}
}

func TestClassifyExit_PanicExitCodeIsCrash(t *testing.T) {
	waitErr := runHelper(t, "panic")
	result := classifyExit(waitErr, "job")
	derr, ok := result.err.(*domain.Error)
	if !ok || derr.Execution != domain.ExecutionCrash {
		t.Fatalf("expected ExecutionCrash, got %v", result.err)
	}
}

func TestClassifyExit_CleanExitIsNoError(t *testing.T) {
	waitErr := runHelper(t, "exit0")
	result := classifyExit(waitErr, "job")
	if result.err != nil {
		t.Fatalf("expected no error for a clean exit, got %v", result.err)
	}
}
